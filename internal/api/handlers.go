package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	sdkmath "cosmossdk.io/math"
	"github.com/go-chi/chi/v5"

	"github.com/babylonlabs-io/staking-ledger/internal/ledger"
	"github.com/babylonlabs-io/staking-ledger/internal/types"
	"github.com/babylonlabs-io/staking-ledger/internal/utils"
	"github.com/babylonlabs-io/staking-ledger/pkg"
)

const maxRequestBodyBytes = 1 << 20

// LedgerService is what the API needs from the service layer.
type LedgerService interface {
	Transfer(ctx context.Context, caller, recipient pkg.Address, amount sdkmath.Uint) (*types.LedgerEvent, *types.Error)
	CreateStake(ctx context.Context, caller pkg.Address, amount sdkmath.Uint) (*types.LedgerEvent, *types.Error)
	RemoveStake(ctx context.Context, caller pkg.Address, amount sdkmath.Uint) (*types.LedgerEvent, *types.Error)
	DistributeRewards(ctx context.Context, caller pkg.Address) (*types.LedgerEvent, *types.Error)
	WithdrawReward(ctx context.Context, caller pkg.Address) (*types.LedgerEvent, *types.Error)
	Ledger() *ledger.Ledger
	Subscribe() (<-chan *types.LedgerEvent, func())
	Ping(ctx context.Context) error
}

type Handlers struct {
	service LedgerService
	callers CallerResolver
}

func NewHandlers(service LedgerService, callers CallerResolver) *Handlers {
	return &Handlers{
		service: service,
		callers: callers,
	}
}

type TransferRequest struct {
	To     string          `json:"to"`
	Amount json.RawMessage `json:"amount"`
}

type AmountRequest struct {
	Amount json.RawMessage `json:"amount"`
}

type AccountResponse struct {
	Address       pkg.Address            `json:"address"`
	Balance       sdkmath.Uint           `json:"balance"`
	Stake         sdkmath.Uint           `json:"stake"`
	Reward        sdkmath.Uint           `json:"reward"`
	State         types.ParticipantState `json:"state"`
	IsStakeholder bool                   `json:"is_stakeholder"`
	// Index is the position in the stakeholder index, -1 for non-stakeholders.
	Index int `json:"index"`
}

type StakeholdersResponse struct {
	Stakeholders []pkg.Address `json:"stakeholders"`
	Count        int           `json:"count"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Sequence uint64 `json:"sequence"`
}

func (h *Handlers) Transfer(r *http.Request) (*Result, *types.Error) {
	caller, err := h.callers.ResolveCaller(r)
	if err != nil {
		return nil, err
	}

	var req TransferRequest
	if err := decodeBody(r, &req); err != nil {
		return nil, err
	}

	recipient, parseErr := pkg.ParseAddress(req.To)
	if parseErr != nil {
		return nil, types.NewValidationFailedError(fmt.Errorf("invalid recipient: %w", parseErr))
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		return nil, err
	}

	ev, err := h.service.Transfer(r.Context(), caller, recipient, amount)
	if err != nil {
		return nil, err
	}
	return NewResult(ev), nil
}

func (h *Handlers) CreateStake(r *http.Request) (*Result, *types.Error) {
	return h.amountOperation(r, h.service.CreateStake)
}

func (h *Handlers) RemoveStake(r *http.Request) (*Result, *types.Error) {
	return h.amountOperation(r, h.service.RemoveStake)
}

func (h *Handlers) amountOperation(
	r *http.Request,
	operation func(ctx context.Context, caller pkg.Address, amount sdkmath.Uint) (*types.LedgerEvent, *types.Error),
) (*Result, *types.Error) {
	caller, err := h.callers.ResolveCaller(r)
	if err != nil {
		return nil, err
	}

	var req AmountRequest
	if err := decodeBody(r, &req); err != nil {
		return nil, err
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		return nil, err
	}

	ev, err := operation(r.Context(), caller, amount)
	if err != nil {
		return nil, err
	}
	return NewResult(ev), nil
}

func (h *Handlers) DistributeRewards(r *http.Request) (*Result, *types.Error) {
	caller, err := h.callers.ResolveCaller(r)
	if err != nil {
		return nil, err
	}

	ev, err := h.service.DistributeRewards(r.Context(), caller)
	if err != nil {
		return nil, err
	}
	return NewResult(ev), nil
}

func (h *Handlers) WithdrawReward(r *http.Request) (*Result, *types.Error) {
	caller, err := h.callers.ResolveCaller(r)
	if err != nil {
		return nil, err
	}

	ev, err := h.service.WithdrawReward(r.Context(), caller)
	if err != nil {
		return nil, err
	}
	return NewResult(ev), nil
}

func (h *Handlers) GetAccount(r *http.Request) (*Result, *types.Error) {
	addr, err := pkg.ParseAddress(chi.URLParam(r, "address"))
	if err != nil {
		return nil, types.NewValidationFailedError(err)
	}

	l := h.service.Ledger()
	acc := l.AccountOf(addr)
	isStakeholder, index := l.IsStakeholder(addr)

	return NewResult(AccountResponse{
		Address:       addr,
		Balance:       acc.Balance,
		Stake:         acc.Stake,
		Reward:        acc.Reward,
		State:         types.StateOf(acc),
		IsStakeholder: isStakeholder,
		Index:         index,
	}), nil
}

func (h *Handlers) GetStakeholders(r *http.Request) (*Result, *types.Error) {
	stakeholders := h.service.Ledger().Stakeholders()
	return NewResult(StakeholdersResponse{
		Stakeholders: stakeholders,
		Count:        len(stakeholders),
	}), nil
}

func (h *Handlers) GetTotals(r *http.Request) (*Result, *types.Error) {
	return NewResult(h.service.Ledger().Totals()), nil
}

func (h *Handlers) HealthCheck(r *http.Request) (*Result, *types.Error) {
	if err := h.service.Ping(r.Context()); err != nil {
		return nil, types.NewError(http.StatusServiceUnavailable, types.InternalServiceError, err)
	}

	return NewResult(HealthResponse{
		Status:   "ok",
		Sequence: h.service.Ledger().Sequence(),
	}), nil
}

func decodeBody(r *http.Request, dst any) *types.Error {
	decoder := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxRequestBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return types.NewValidationFailedError(fmt.Errorf("invalid request body: %w", err))
	}
	return nil
}

// parseAmount accepts a base-10 integer given either as a JSON string or as a
// JSON number.
func parseAmount(raw json.RawMessage) (sdkmath.Uint, *types.Error) {
	if len(raw) == 0 {
		return sdkmath.Uint{}, types.NewValidationFailedError(errors.New("amount is required"))
	}

	amount, err := sdkmath.ParseUint(utils.SafeUnescape(string(raw)))
	if err != nil {
		return sdkmath.Uint{}, types.NewError(
			http.StatusBadRequest, types.InvalidAmount, fmt.Errorf("invalid amount %s: %w", raw, err),
		)
	}
	return amount, nil
}
