package migrate

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/firstcredit-backend/pkg/config"
	"github.com/angelmondragon/firstcredit-backend/pkg/logger"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestSnapshotMigrationContainsTable(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_account_snapshots.sql"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	content := string(data)

	for _, sub := range []string{
		"CREATE TABLE IF NOT EXISTS account_snapshots",
		"account_key VARCHAR(128) PRIMARY KEY",
		"DROP TABLE IF EXISTS account_snapshots",
	} {
		require.Contains(t, content, sub)
	}
}

func TestValidateDir(t *testing.T) {
	require.NoError(t, ValidateDir("migrations"))

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad-name.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644))
	require.Error(t, ValidateDir(dir))
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	path, err := CreateSQLMigration(dir, "Add Ledger Index!")
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(path, "_add_ledger_index.sql"))
	require.NoError(t, ValidateDir(dir))
}

func TestCreateSQLMigrationRefusesDuplicateVersion(t *testing.T) {
	pinned := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	prev := migrationClock
	migrationClock = func() time.Time { return pinned }
	t.Cleanup(func() { migrationClock = prev })

	dir := t.TempDir()
	path, err := CreateSQLMigration(dir, "add index")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "20260302090000_add_index.sql"), path)

	_, err = CreateSQLMigration(dir, "add index")
	require.Error(t, err)

	_, err = CreateSQLMigration(dir, "!!!")
	require.Error(t, err)
}

func TestValidateDirRejectsReversedSections(t *testing.T) {
	dir := t.TempDir()
	body := "-- +goose Down\nDROP TABLE x;\n-- +goose Up\nCREATE TABLE x (id INT);\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20260302090000_reversed.sql"), []byte(body), 0o644))
	require.ErrorContains(t, ValidateDir(dir), "Down before Up")
}

func TestDialectFor(t *testing.T) {
	d, err := DialectFor(config.DBDriverSQLite)
	require.NoError(t, err)
	require.Equal(t, "sqlite3", d)

	d, err = DialectFor("")
	require.NoError(t, err)
	require.Equal(t, "postgres", d)

	_, err = DialectFor("oracle")
	require.Error(t, err)
}

func TestRunUpAgainstSQLite(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "ledger.db")), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	ctx := context.Background()
	require.NoError(t, Run(ctx, sqlDB, config.DBDriverSQLite, "migrations", "up"))
	require.True(t, conn.Migrator().HasTable("account_snapshots"))

	require.NoError(t, MigrateToVersion(ctx, sqlDB, config.DBDriverSQLite, "migrations", "0"))
	require.False(t, conn.Migrator().HasTable("account_snapshots"))
}

type fakeSQLSource struct{ calls int }

func (f *fakeSQLSource) SQL() (*sql.DB, error) {
	f.calls++
	return nil, errors.New("no database")
}

func (f *fakeSQLSource) Driver() string { return config.DBDriverSQLite }

func TestMaybeRunDevGates(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.Env = "dev"
	cfg.Storage.Backend = config.StorageBackendMemory
	cfg.FeatureFlags.AutoMigrate = true

	src := &fakeSQLSource{}
	require.NoError(t, MaybeRunDev(context.Background(), cfg, logger.Nop(), src))
	require.Zero(t, src.calls)

	cfg.Storage.Backend = config.StorageBackendSQL
	require.ErrorContains(t, MaybeRunDev(context.Background(), cfg, logger.Nop(), src), "no database")
	require.Equal(t, 1, src.calls)

	cfg.App.Env = "prod"
	require.NoError(t, MaybeRunDev(context.Background(), cfg, logger.Nop(), src))
	require.Equal(t, 1, src.calls)
}
