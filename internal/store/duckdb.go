package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iksnae/emotion-session/internal"
	_ "github.com/marcboeker/go-duckdb"
)

// OpenDuckDB opens (creating if needed) a DuckDB database file. An empty
// path gives an in-memory database.
func OpenDuckDB(ctx context.Context, path string) (*SQLStore, error) {
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, &internal.StorageError{Backend: internal.BackendDuckDB, Op: "open", Err: err}
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, &internal.StorageError{Backend: internal.BackendDuckDB, Op: "open", Err: fmt.Errorf("failed to open database: %w", err)}
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, &internal.StorageError{Backend: internal.BackendDuckDB, Op: "open", Err: fmt.Errorf("database ping failed: %w", err)}
	}

	s, err := newSQLStore(ctx, db, internal.BackendDuckDB)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}
