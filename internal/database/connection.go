package database

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

var (
	// ErrUnsupportedDriver is returned by Connect for an unknown DB type
	ErrUnsupportedDriver = errors.New("database: unsupported driver")
	// ErrNotFound is returned when a requested row does not exist
	ErrNotFound = errors.New("database: not found")
)

// DB is the global database connection
var DB *sqlx.DB

// Connect establishes a connection to the database and creates the schema.
// dbType is "sqlite" (source is a file path) or "postgres" (source is a DSN).
func Connect(dbType, source string) (*sqlx.DB, error) {
	var (
		db  *sqlx.DB
		err error
	)
	switch dbType {
	case "sqlite":
		// Create data directory if it doesn't exist
		if dir := filepath.Dir(source); dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
		db, err = sqlx.Connect("sqlite3", source)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		// SQLite doesn't support multiple writers
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	case "postgres":
		db, err = sqlx.Connect("postgres", source)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, dbType)
	}

	if err := initializeSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	DB = db
	return db, nil
}

// Close closes the global database connection
func Close() error {
	if DB != nil {
		err := DB.Close()
		DB = nil
		return err
	}
	return nil
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema(db *sqlx.DB) error {
	for _, stmt := range schemaFor(db.DriverName()) {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}
	return nil
}

func schemaFor(driver string) []string {
	// Column types differ only in the id, timestamp and float declarations.
	id, ts, num := "INTEGER PRIMARY KEY AUTOINCREMENT", "TIMESTAMP", "REAL"
	if driver == "postgres" {
		id, ts, num = "BIGSERIAL PRIMARY KEY", "TIMESTAMPTZ", "DOUBLE PRECISION"
	}
	return []string{
		`CREATE TABLE IF NOT EXISTS review_records (
			id ` + id + `,
			fact_id TEXT NOT NULL,
			reviewed_at ` + ts + ` NOT NULL,
			quality ` + num + ` NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_review_records_fact
			ON review_records (fact_id, reviewed_at, id)`,
		`CREATE TABLE IF NOT EXISTS fact_schedules (
			fact_id TEXT PRIMARY KEY,
			repetition_count INTEGER NOT NULL DEFAULT 0,
			predicted_quality ` + num + ` NOT NULL DEFAULT 0,
			next_review_at ` + ts + ` NOT NULL,
			updated_at ` + ts + ` NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_fact_schedules_due
			ON fact_schedules (next_review_at)`,
	}
}
