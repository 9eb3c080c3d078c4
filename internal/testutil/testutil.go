package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/socpulse/maturity/internal/repository/sqlstore"
	"github.com/socpulse/maturity/migrations"
)

// NewTestDB creates an in-memory SQLite database with the full schema applied.
func NewTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}

	if err := sqlstore.RunMigrations(db, migrations.GetFS()); err != nil {
		t.Fatalf("Failed to apply test migrations: %v", err)
	}

	return db
}

// CleanupDB closes the test database
func CleanupDB(db *sql.DB) {
	if db != nil {
		db.Close()
	}
}
