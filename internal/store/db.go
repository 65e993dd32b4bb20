package store

import (
	"database/sql"
	"fmt"
	"path/filepath"

	_ "github.com/duckdb/duckdb-go/v2"
	_ "github.com/mattn/go-sqlite3"
)

const (
	DriverDuckDB = "duckdb"
	DriverSQLite = "sqlite3"

	MemoryPath = ":memory:"
)

// NewDB opens the database at path with the given driver ("duckdb" or
// "sqlite3"). Use ":memory:" for an in-memory database (useful for testing).
func NewDB(driver, path string) (*sql.DB, error) {
	switch driver {
	case DriverDuckDB, DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	conn, err := sql.Open(driver, path)
	if err != nil {
		return nil, err
	}

	// Both engines are single-writer and an in-memory database only exists
	// for the connection that created it.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	// Keep DuckDB extensions next to the database instead of ~/.duckdb,
	// which may be read-only.
	if driver == DriverDuckDB && path != MemoryPath {
		extDir := filepath.Dir(path)
		if _, err := conn.Exec(fmt.Sprintf("SET extension_directory = '%s'", extDir)); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("setting extension directory: %w", err)
		}
	}

	return conn, nil
}
