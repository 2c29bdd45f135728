package database

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Driver names accepted by ConnectDB.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// DriverFor picks the SQL driver for a configured database string: a
// postgres:// URL selects PostgreSQL, anything else is a SQLite file path.
func DriverFor(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return DriverPostgres
	}
	return DriverSQLite
}

// ConnectDB establishes a connection to the configured SQL database
func ConnectDB(dsn string) (*sql.DB, string, error) {
	driver := DriverFor(dsn)
	if driver == DriverPostgres {
		db, err := sql.Open(DriverPostgres, dsn)
		return db, driver, err
	}

	// Expand tilde to home directory if present
	if strings.HasPrefix(dsn, "~") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, driver, err
		}
		dsn = homeDir + dsn[1:]
	}

	// Create the directory structure if it doesn't exist
	if dsn != ":memory:" {
		dbDir := filepath.Dir(dsn)
		if dbDir != "." {
			if err := os.MkdirAll(dbDir, 0755); err != nil {
				return nil, driver, err
			}
		}
	}

	// SQLite will create the database file if it doesn't exist
	db, err := sql.Open(DriverSQLite, dsn)
	if err != nil {
		return nil, driver, err
	}
	if dsn == ":memory:" {
		// every pooled connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	}
	return db, driver, nil
}

// EnsureSchema creates the key-value table if it doesn't exist
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS kv_store (
			name TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	return err
}
