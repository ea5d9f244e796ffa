// Package store persists parsed chat uploads in the app-owned SQLite
// database so filters can be recomputed without re-uploading the export.
//
// Full-text search uses FTS5, which mattn/go-sqlite3 only compiles in under
// the sqlite_fts5 build tag. Build and test with -tags sqlite_fts5; Open
// checks for the module and fails with a clear error otherwise.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps the SQLite connection for chatlens.db.
type DB struct {
	*sql.DB
}

// Open creates a new SQLite connection with WAL mode and recommended pragmas.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	if err := checkFTS5(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &DB{db}, nil
}

// checkFTS5 verifies the sqlite build carries the fts5 module, so a binary
// built without -tags sqlite_fts5 fails here instead of mid-migration.
func checkFTS5(db *sql.DB) error {
	var n int
	err := db.QueryRow(
		`SELECT count(*) FROM pragma_compile_options WHERE compile_options = 'ENABLE_FTS5'`,
	).Scan(&n)
	if err != nil {
		return fmt.Errorf("check fts5 support: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("sqlite built without fts5; rebuild with -tags sqlite_fts5")
	}
	return nil
}
