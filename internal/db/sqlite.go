package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/babylonlabs-io/staking-ledger/internal/db/model"
)

const sqliteBusyTimeoutMs = 5000

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS ledger_snapshot (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		sequence INTEGER NOT NULL,
		document TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS ledger_events (
		sequence INTEGER PRIMARY KEY,
		id TEXT NOT NULL UNIQUE,
		document TEXT NOT NULL
	)`,
}

// SQLiteDatabase is the single-node backend. Documents are stored as JSON
// next to the columns they are queried by.
type SQLiteDatabase struct {
	db *sql.DB
}

func NewSQLite(ctx context.Context, path string) (*SQLiteDatabase, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	conn, err := sql.Open("sqlite", fmt.Sprintf("file:%s", filepath.Clean(path)))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// sqlite allows a single writer
	conn.SetMaxOpenConns(1)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	if _, err := conn.ExecContext(ctx, fmt.Sprintf("PRAGMA busy_timeout=%d", sqliteBusyTimeoutMs)); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	for _, stmt := range sqliteSchema {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			conn.Close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
	}

	return &SQLiteDatabase{db: conn}, nil
}

func (s *SQLiteDatabase) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteDatabase) Close(_ context.Context) error {
	return s.db.Close()
}

func (s *SQLiteDatabase) SaveLedgerSnapshot(ctx context.Context, snapshot *model.LedgerSnapshotDocument) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	// older sequences never overwrite newer ones
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO ledger_snapshot (id, sequence, document) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET sequence = excluded.sequence, document = excluded.document
		WHERE excluded.sequence >= ledger_snapshot.sequence`,
		snapshot.Sequence, string(payload),
	)
	return err
}

func (s *SQLiteDatabase) GetLedgerSnapshot(ctx context.Context) (*model.LedgerSnapshotDocument, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT document FROM ledger_snapshot WHERE id = 1`).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{
			Key:     ledgerSnapshotID,
			Message: "ledger snapshot not found",
		}
	}
	if err != nil {
		return nil, err
	}

	var doc model.LedgerSnapshotDocument
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &doc, nil
}

func (s *SQLiteDatabase) SaveLedgerEvent(ctx context.Context, event *model.LedgerEventDocument) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO ledger_events (sequence, id, document) VALUES (?, ?, ?)`,
		event.Sequence, event.ID, string(payload),
	)
	if err != nil {
		return err
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if inserted == 0 {
		return &DuplicateKeyError{
			Key:     fmt.Sprint(event.Sequence),
			Message: "ledger event already exists",
		}
	}
	return nil
}

func (s *SQLiteDatabase) GetLedgerEvents(
	ctx context.Context, afterSequence uint64, limit int64,
) ([]*model.LedgerEventDocument, error) {
	// a negative LIMIT means no limit in sqlite
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT document FROM ledger_events WHERE sequence > ? ORDER BY sequence ASC LIMIT ?`,
		afterSequence, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*model.LedgerEventDocument
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}

		var doc model.LedgerEventDocument
		if err := json.Unmarshal([]byte(payload), &doc); err != nil {
			return nil, fmt.Errorf("decode event: %w", err)
		}
		events = append(events, &doc)
	}

	return events, rows.Err()
}

func (s *SQLiteDatabase) GetLastEventSequence(ctx context.Context) (uint64, error) {
	var sequence sql.NullInt64
	err := s.db.QueryRowContext(ctx, `SELECT MAX(sequence) FROM ledger_events`).Scan(&sequence)
	if err != nil {
		return 0, err
	}
	if !sequence.Valid {
		return 0, nil
	}
	return uint64(sequence.Int64), nil
}
