// Package store provides the persistence backends behind internal.Store.
package store

import (
	"context"
	"fmt"

	"github.com/iksnae/emotion-session/internal"
)

// Open creates the store selected by cfg.Backend
func Open(ctx context.Context, cfg internal.StoreConfig) (internal.Store, error) {
	switch cfg.Backend {
	case internal.BackendSQLite:
		return OpenSQLite(ctx, cfg.Path)
	case internal.BackendDuckDB:
		return OpenDuckDB(ctx, cfg.Path)
	case internal.BackendDynamoDB:
		return OpenDynamoDB(ctx, cfg)
	case internal.BackendFile:
		return NewFileStore(cfg.Path)
	case internal.BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, &internal.StorageError{
			Backend: cfg.Backend,
			Op:      "open",
			Err:     fmt.Errorf("%w: %q", internal.ErrUnknownBackend, cfg.Backend),
		}
	}
}

// Pinger is implemented by stores that can check connectivity
type Pinger interface {
	Ping(ctx context.Context) error
}
