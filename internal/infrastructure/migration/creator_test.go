package migration

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vellap/portal/migrations"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add users table", "add_users_table"},
		{"Add-Payment-Accounts", "add_payment_accounts"},
		{"TICKET__INDEXES", "ticket_indexes"},
		{"Add Ticket 2", "add_ticket_2"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "migrations")
	now := time.Date(2026, 4, 2, 13, 4, 5, 0, time.UTC)

	mf, err := CreateMigration(dir, "Add ticket index", "Index tickets by company", now)
	require.NoError(t, err)
	assert.Equal(t, "20260402130405", mf.Version)
	assert.Equal(t, filepath.Join(dir, "20260402130405_add_ticket_index.up.sql"), mf.UpPath)
	assert.Equal(t, filepath.Join(dir, "20260402130405_add_ticket_index.down.sql"), mf.DownPath)

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "-- Migration: add_ticket_index")
	assert.Contains(t, string(up), "Index tickets by company")

	down, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "(Rollback)")

	t.Run("refuses to overwrite", func(t *testing.T) {
		_, err := CreateMigration(dir, "Add ticket index", "", now)
		assert.Error(t, err)
	})

	t.Run("rejects empty names", func(t *testing.T) {
		_, err := CreateMigration(dir, "!!!", "", now)
		assert.Error(t, err)
	})
}

func TestListMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"002_b.up.sql":   {},
		"002_b.down.sql": {},
		"001_a.up.sql":   {},
		"001_a.down.sql": {},
		"README.md":      {},
	}
	names, err := ListMigrations(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_a", "002_b"}, names)
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	names, err := ListMigrations(migrations.FS)
	require.NoError(t, err)
	require.NotEmpty(t, names)

	for _, name := range names {
		_, err := migrations.FS.Open(name + ".down.sql")
		assert.NoError(t, err, name)
	}
}
