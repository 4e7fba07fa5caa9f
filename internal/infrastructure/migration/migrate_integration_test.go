//go:build integration

package migration

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

const (
	identityVersion   = 20260301090000
	salesCycleVersion = 20260301090100
)

func startPostgres(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("portal_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: Failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	require.NoError(t, db.Ping())
	return db
}

func tableExists(t *testing.T, db *sql.DB, table string) bool {
	t.Helper()
	var name sql.NullString
	require.NoError(t, db.QueryRow("SELECT to_regclass($1)::text", "public."+table).Scan(&name))
	return name.Valid
}

func TestMigrator_Postgres(t *testing.T) {
	db := startPostgres(t)

	m, err := New(db, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })

	status, err := m.Status()
	require.NoError(t, err)
	assert.Equal(t, uint(0), status.Version)

	require.NoError(t, m.Up())
	status, err = m.Status()
	require.NoError(t, err)
	assert.Equal(t, Status{Version: salesCycleVersion}, status)
	assert.True(t, tableExists(t, db, "ticket_automations"))
	assert.True(t, tableExists(t, db, "users"))

	// a second Up is a no-op
	require.NoError(t, m.Up())

	require.NoError(t, m.Steps(-1))
	status, err = m.Status()
	require.NoError(t, err)
	assert.Equal(t, uint(identityVersion), status.Version)
	assert.False(t, tableExists(t, db, "ticket_automations"))
	assert.True(t, tableExists(t, db, "users"))

	require.NoError(t, m.Down())
	assert.False(t, tableExists(t, db, "users"))

	require.NoError(t, m.Force(identityVersion))
	status, err = m.Status()
	require.NoError(t, err)
	assert.Equal(t, uint(identityVersion), status.Version)
}
