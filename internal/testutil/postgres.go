// Package testutil provides the database fixture for integration tests.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/iho/glcore/internal/infrastructure/postgres"
)

// TestDB is a migrated postgres database shared by one test.
type TestDB struct {
	Pool *pgxpool.Pool
	t    *testing.T
}

// NewTestDB connects to TEST_DATABASE_URL and applies the migrations. The
// test is skipped in -short mode or when the variable is unset.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test")
	}

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	if err := postgres.RunMigrations(dbURL, MigrationsPath(), zerolog.Nop()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, dbURL, 10, 1)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	db := &TestDB{Pool: pool, t: t}
	db.TruncateAll(ctx)
	t.Cleanup(pool.Close)

	return db
}

// MigrationsPath locates the migrations directory from this source file,
// so tests work from any package directory.
func MigrationsPath() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "migrations")
}

// TruncateAll removes every row written by a previous test.
func (db *TestDB) TruncateAll(ctx context.Context) {
	db.t.Helper()

	_, err := db.Pool.Exec(ctx, `
		TRUNCATE TABLE
			journal_entry_lines,
			journal_entries,
			account_balances,
			exchange_rates,
			gl_accounts,
			charts_of_accounts,
			fiscal_periods,
			document_sequences,
			outbox_events,
			audit_logs,
			users
		CASCADE
	`)
	if err != nil {
		db.t.Fatalf("failed to truncate tables: %v", err)
	}
}
