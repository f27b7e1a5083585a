// Package storage holds the key-value backends the state document is written to.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"LWA-backend/internal/platform/config"
	"LWA-backend/internal/platform/db"
)

var ErrNotFound = errors.New("storage: key not found")

// Store is a flat key-value store. Put replaces the whole value.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// Open builds the backend named by cfg.Storage.Driver.
func Open(cfg *config.Config) (Store, error) {
	switch cfg.Storage.Driver {
	case "memory":
		return NewMemory(), nil
	case "file":
		return NewFile(cfg.Storage.Path)
	case "sqlite":
		return NewSQLite(filepath.Join(cfg.Storage.Path, "library.db"))
	case "mysql":
		conn, err := db.Connect(cfg.DB)
		if err != nil {
			return nil, err
		}
		s, err := NewMySQL(conn)
		if err != nil {
			conn.Close()
			return nil, err
		}
		return s, nil
	case "redis":
		return NewRedis(cfg.Redis), nil
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", cfg.Storage.Driver)
	}
}

// Healthy reports whether a backend that can check its connection still has one.
// Backends without a check are always healthy.
func Healthy(ctx context.Context, s Store) bool {
	hc, ok := s.(interface{ Healthy(context.Context) bool })
	if !ok {
		return true
	}
	return hc.Healthy(ctx)
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
