// internal/storage/database.go
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-sqlite3" // Driver registration and error codes

	"github.com/Annany2002/bookshelf-backend/config"
	"github.com/Annany2002/bookshelf-backend/internal/logger"
)

var (
	customLog = logger.NewLogger()
)

// Querier is the subset of database/sql shared by *sql.DB, *sql.Conn and *sql.Tx.
// Repository functions take a Querier so handlers can pass their request session.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// schemaStatements are executed in order by EnsureSchema. All of them are idempotent.
var schemaStatements = []struct {
	name string
	sql  string
}{
	{
		name: "api_keys table",
		// nolint:gosec // G101 false positive - this is table schema, not hardcoded credentials
		sql: `
	CREATE TABLE IF NOT EXISTS api_keys (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		key TEXT NOT NULL
	);`,
	},
	{
		name: "api_keys key index",
		sql:  `CREATE INDEX IF NOT EXISTS ix_api_keys_key ON api_keys (key);`,
	},
	{
		name: "books table",
		sql: `
	CREATE TABLE IF NOT EXISTS books (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		content TEXT NOT NULL
	);`,
	},
}

// dsn builds the go-sqlite3 connection string for a configured database path.
func dsn(dbPath string) string {
	if dbPath == config.MemoryDatabase {
		// Shared cache so every pooled connection sees the same in-memory database.
		return "file::memory:?cache=shared&_busy_timeout=5000"
	}
	// WAL mode and a 5s busy timeout let concurrent requests wait on the single writer.
	return dbPath + "?_journal_mode=WAL&_busy_timeout=5000"
}

// ConnectDB opens the backing store named by cfg.DatabasePath, verifies the
// connection and runs the startup schema hook.
func ConnectDB(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	dbPath := cfg.DatabasePath
	customLog.Printf("Storage: Initializing database: %s", dbPath)

	if dbPath != config.MemoryDatabase {
		if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				customLog.Warnf("Storage: Error creating data directory '%s': %v", dir, err)
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite3", dsn(dbPath))
	if err != nil {
		customLog.Warnf("Storage: Failed to open db '%s': %v", dbPath, err)
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	if err = db.PingContext(ctx); err != nil {
		db.Close()
		customLog.Warnf("Storage: Failed to ping db '%s': %v", dbPath, err)
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}
	customLog.Println("Storage: Database connection successful.")

	if err = EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// EnsureSchema creates the api_keys and books tables if they are missing.
// Running it against an initialized store is a no-op.
func EnsureSchema(ctx context.Context, q Querier) error {
	for _, stmt := range schemaStatements {
		if _, err := q.ExecContext(ctx, stmt.sql); err != nil {
			customLog.Warnf("Storage: Failed to ensure %s: %s", stmt.name, describeError(err))
			return fmt.Errorf("failed to ensure %s: %w", stmt.name, err)
		}
		customLog.Debugf("Storage: %s ensured.", stmt.name)
	}
	customLog.Println("Storage: Schema ensured.")
	return nil
}

// describeError adds the SQLite result codes to driver errors for log output.
func describeError(err error) string {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return fmt.Sprintf("%v (sqlite code %d, extended %d)", err, sqliteErr.Code, sqliteErr.ExtendedCode)
	}
	return err.Error()
}
