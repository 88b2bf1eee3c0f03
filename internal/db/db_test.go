package db

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"os"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newDB(t *testing.T) *sql.DB {
	t.Helper()
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRunMigrations_Success(t *testing.T) {
	db := newDB(t)

	orig := gooseUpContext
	defer func() { gooseUpContext = orig }()

	var gotDir string
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		gotDir = dir
		return nil
	}

	require.NoError(t, RunMigrations(context.Background(), db, zap.NewNop()))
	assert.Equal(t, migrationsDir, gotDir)
}

func TestRunMigrations_Error(t *testing.T) {
	db := newDB(t)

	orig := gooseUpContext
	defer func() { gooseUpContext = orig }()

	boom := errors.New("boom")
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return boom
	}

	err := RunMigrations(context.Background(), db, zap.NewNop())
	assert.ErrorIs(t, err, boom)
}

func TestMigrationsAreEmbedded(t *testing.T) {
	files, err := fs.Glob(migrations, "migrations/*.sql")
	require.NoError(t, err)
	assert.Len(t, files, 5)

	users, err := fs.ReadFile(migrations, "migrations/00001_users.sql")
	require.NoError(t, err)
	assert.Contains(t, string(users), "onboarding_status")
	assert.Contains(t, string(users), "-- +goose Up")
}

func TestConnect_RequiresDSN(t *testing.T) {
	_, err := Connect(context.Background(), "", zap.NewNop())
	assert.Error(t, err)
}

// TestConnectPostgres needs a real database.
func TestConnectPostgres(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	pool, err := Connect(context.Background(), dsn, zap.NewNop())
	require.NoError(t, err)
	defer pool.Close()

	require.NoError(t, MigratePool(context.Background(), pool, zap.NewNop()))
}
