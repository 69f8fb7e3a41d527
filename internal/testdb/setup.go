package testdb

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"

	"github.com/medlex/medlex-api/internal/platform/postgres/migrations"
	"github.com/medlex/medlex-api/internal/redact"
)

// Timeout bounds connection checks and migrations.
const Timeout = 30 * time.Second

var (
	migrateOnce sync.Once
	migrateErr  error
)

// Open connects to the test database, migrating it to the latest schema on
// first use, and closes the pool when t ends. It skips t when no database is
// configured.
func Open(t *testing.T) *sql.DB {
	t.Helper()
	SkipIfNoDatabase(t)

	db, err := sql.Open("pgx", DatabaseURL())
	require.NoError(t, err, "failed to open test database")
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), Timeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		t.Fatalf("test database unreachable: %s", redact.Error(err))
	}

	migrateOnce.Do(func() { migrateErr = migrate(ctx, db) })
	require.NoError(t, migrateErr, "failed to migrate test database")
	return db
}

func migrate(ctx context.Context, db *sql.DB) error {
	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return err
	}
	_, err = provider.Up(ctx)
	return err
}
