// Package presence holds the user-record stores the hub writes presence to.
package presence

import (
	"context"
	"errors"
	"fmt"

	"github.com/dkeye/Interview/internal/config"
	"github.com/dkeye/Interview/internal/core"
)

var ErrUserNotFound = errors.New("user not found")

// Store is a presence store that owns resources.
type Store interface {
	core.PresenceStore
	Close() error
}

// Open builds the store selected by cfg.Backend.
func Open(ctx context.Context, cfg config.PresenceConfig) (Store, error) {
	switch cfg.Backend {
	case "memory":
		return NewMemoryStore(), nil
	case "postgres":
		return NewPostgresStore(ctx, cfg.DatabaseURL)
	case "sqlite":
		return NewSQLiteStore(ctx, cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown presence backend %q", cfg.Backend)
	}
}
