package consumer

import (
	"context"

	"github.com/babylonlabs-io/staking-ledger/internal/types"
)

//go:generate mockery --name=EventConsumer --output=../tests/mocks --outpkg=mocks --filename=mock_event_consumer.go
// EventConsumer receives every committed ledger event in sequence order.
type EventConsumer interface {
	PushLedgerEvent(ctx context.Context, ev *types.LedgerEvent) error
	Ping(ctx context.Context) error
	Shutdown()
}
