package migrate

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/angelmondragon/firstcredit-backend/pkg/config"
	"github.com/angelmondragon/firstcredit-backend/pkg/logger"
)

// sqlSource is the slice of *db.Client the auto-runner needs.
type sqlSource interface {
	SQL() (*sql.DB, error)
	Driver() string
}

// shouldAutoRun reports whether snapshots live in SQL and the dev-only
// auto-migrate flag is on.
func shouldAutoRun(cfg *config.Config) bool {
	return cfg.Storage.Backend == config.StorageBackendSQL &&
		cfg.App.IsDev() &&
		cfg.FeatureFlags.AutoMigrate
}

// MaybeRunDev applies pending migrations from DefaultDir at startup when
// shouldAutoRun allows it. Other environments run cmd/migrate explicitly.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, source sqlSource) error {
	if !shouldAutoRun(cfg) {
		return nil
	}
	sqlDB, err := source.SQL()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	ctx = logg.WithFields(ctx, map[string]any{"dir": DefaultDir, "driver": source.Driver()})
	logg.Info(ctx, "migrate.autorun.start")
	if err := Run(ctx, sqlDB, source.Driver(), DefaultDir, "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}
	logg.Info(ctx, "migrate.autorun.done")
	return nil
}
