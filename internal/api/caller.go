package api

import (
	"errors"
	"net/http"

	"github.com/babylonlabs-io/staking-ledger/internal/types"
	"github.com/babylonlabs-io/staking-ledger/pkg"
)

const CallerHeader = "X-Caller-Address"

// CallerResolver establishes who is calling. The ledger trusts whatever
// identity it returns.
type CallerResolver interface {
	ResolveCaller(r *http.Request) (pkg.Address, *types.Error)
}

// HeaderCallerResolver reads the caller from the X-Caller-Address header. It's
// meant to run behind a gateway that authenticates the header.
type HeaderCallerResolver struct{}

func (HeaderCallerResolver) ResolveCaller(r *http.Request) (pkg.Address, *types.Error) {
	raw := r.Header.Get(CallerHeader)
	if raw == "" {
		return "", types.NewError(http.StatusUnauthorized, types.Unauthorized, errors.New("missing caller address"))
	}

	addr, err := pkg.ParseAddress(raw)
	if err != nil {
		return "", types.NewError(http.StatusUnauthorized, types.Unauthorized, err)
	}
	return addr, nil
}
