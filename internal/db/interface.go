package db

import (
	"context"

	"github.com/babylonlabs-io/staking-ledger/internal/db/model"
)

//go:generate mockery --name=DbInterface --output=../../tests/mocks --outpkg=mocks --filename=mock_db_client.go
type DbInterface interface {
	Ping(ctx context.Context) error
	// SaveLedgerSnapshot replaces the persisted snapshot.
	SaveLedgerSnapshot(ctx context.Context, snapshot *model.LedgerSnapshotDocument) error
	// GetLedgerSnapshot returns NotFoundError if no snapshot was saved yet.
	GetLedgerSnapshot(ctx context.Context) (*model.LedgerSnapshotDocument, error)
	// SaveLedgerEvent returns DuplicateKeyError if the sequence is already stored.
	SaveLedgerEvent(ctx context.Context, event *model.LedgerEventDocument) error
	// GetLedgerEvents returns events after afterSequence in ascending order.
	// A zero limit returns all of them.
	GetLedgerEvents(ctx context.Context, afterSequence uint64, limit int64) ([]*model.LedgerEventDocument, error)
	// GetLastEventSequence returns 0 for an empty log.
	GetLastEventSequence(ctx context.Context) (uint64, error)
	Close(ctx context.Context) error
}
