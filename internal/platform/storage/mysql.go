package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"LWA-backend/internal/platform/db"
)

const createKVTable = `
CREATE TABLE IF NOT EXISTS kv_store (
	state_key  VARCHAR(191) NOT NULL PRIMARY KEY,
	payload    LONGBLOB     NOT NULL,
	updated_at DATETIME(6)  NOT NULL
)`

type MySQL struct {
	db *sql.DB
}

func NewMySQL(conn *sql.DB) (*MySQL, error) {
	if _, err := conn.Exec(createKVTable); err != nil {
		return nil, fmt.Errorf("storage: create kv_store: %w", err)
	}
	return &MySQL{db: conn}, nil
}

func (s *MySQL) Get(ctx context.Context, key string) ([]byte, error) {
	return getPayload(ctx, s.db, key)
}

func getPayload(ctx context.Context, q db.DBTX, key string) ([]byte, error) {
	var payload []byte
	err := q.QueryRowContext(ctx, `SELECT payload FROM kv_store WHERE state_key = ? LIMIT 1`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}

// Put upserts the row in one transaction so readers never see a half-written blob.
func (s *MySQL) Put(ctx context.Context, key string, value []byte) error {
	return db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		_, err := tx.ExecContext(ctx, `
		INSERT INTO kv_store (state_key, payload, updated_at)
		VALUES (?, ?, UTC_TIMESTAMP(6))
		ON DUPLICATE KEY UPDATE
		payload    = VALUES(payload),
		updated_at = VALUES(updated_at)`, key, value)
		return err
	})
}

func (s *MySQL) Close() error { return s.db.Close() }
