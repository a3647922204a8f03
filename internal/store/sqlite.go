package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iksnae/emotion-session/internal"
	_ "modernc.org/sqlite"
)

// OpenSQLite opens (creating if needed) a SQLite database at path.
// ":memory:" gives a private in-memory database.
func OpenSQLite(ctx context.Context, path string) (*SQLStore, error) {
	dsn := ":memory:"
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, &internal.StorageError{Backend: internal.BackendSQLite, Op: "open", Err: err}
			}
		}
		dsn = fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(3000)&_pragma=synchronous(NORMAL)", path)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, &internal.StorageError{Backend: internal.BackendSQLite, Op: "open", Err: fmt.Errorf("failed to open database: %w", err)}
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, &internal.StorageError{Backend: internal.BackendSQLite, Op: "open", Err: fmt.Errorf("database ping failed: %w", err)}
	}

	s, err := newSQLStore(ctx, db, internal.BackendSQLite)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}
