package main

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/angelmondragon/firstcredit-backend/internal/account"
	"github.com/angelmondragon/firstcredit-backend/internal/affordability"
	"github.com/angelmondragon/firstcredit-backend/internal/pricing"
	"github.com/angelmondragon/firstcredit-backend/internal/snapshot"
	"github.com/angelmondragon/firstcredit-backend/pkg/config"
	"github.com/angelmondragon/firstcredit-backend/pkg/db"
	"github.com/angelmondragon/firstcredit-backend/pkg/logger"
	"github.com/angelmondragon/firstcredit-backend/pkg/migrate"
	"github.com/angelmondragon/firstcredit-backend/pkg/redis"
)

// resources holds the storage plumbing selected by FIRSTCREDIT_STORAGE_BACKEND.
// Redis is also opened for idempotency records whenever an endpoint is
// configured, even if snapshots live elsewhere.
type resources struct {
	blobs       snapshot.BlobStore
	locker      account.Locker
	idempotency redis.IdempotencyStore

	dbClient    *db.Client
	redisClient *redis.Client
}

func openResources(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*resources, error) {
	res := &resources{}

	if cfg.Redis.Enabled() {
		client, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return nil, fmt.Errorf("bootstrap redis: %w", err)
		}
		res.redisClient = client
		res.idempotency = client
	}

	switch cfg.Storage.Backend {
	case config.StorageBackendMemory:
		res.blobs = snapshot.NewMemoryStore()
		res.locker = account.NewLocalLocker()

	case config.StorageBackendRedis:
		if res.redisClient == nil {
			return nil, res.closeWith(fmt.Errorf("redis backend selected without an endpoint"))
		}
		res.blobs = snapshot.NewRedisStore(res.redisClient)
		res.locker = account.NewRedisLocker(res.redisClient, cfg.Storage.LockTTL)

	case config.StorageBackendSQL:
		client, err := db.New(ctx, cfg.DB, logg)
		if err != nil {
			return nil, res.closeWith(fmt.Errorf("bootstrap database: %w", err))
		}
		res.dbClient = client
		if err := migrate.MaybeRunDev(ctx, cfg, logg, client); err != nil {
			return nil, res.closeWith(fmt.Errorf("dev migrations: %w", err))
		}
		res.blobs = snapshot.NewSQLStore(client)
		res.locker = account.NewLocalLocker()
		if res.redisClient != nil {
			res.locker = account.NewRedisLocker(res.redisClient, cfg.Storage.LockTTL)
		}

	default:
		return nil, res.closeWith(fmt.Errorf("unsupported storage backend %q", cfg.Storage.Backend))
	}

	return res, nil
}

func (r *resources) store(engine *account.Engine) account.Store {
	return snapshot.NewRepository(r.blobs, snapshot.NewCodec(engine))
}

func (r *resources) closeWith(err error) error {
	return multierr.Append(err, r.Close())
}

// Close releases every opened client and reports all failures together.
func (r *resources) Close() error {
	var err error
	if r.dbClient != nil {
		err = multierr.Append(err, r.dbClient.Close())
	}
	if r.redisClient != nil {
		err = multierr.Append(err, r.redisClient.Close())
	}
	return err
}

func engineParams(cfg config.LedgerConfig) account.EngineParams {
	return account.EngineParams{
		Pricing: pricing.Policy{
			FlatFeeRate:      cfg.FlatFeeRate,
			CreditLimitWeeks: cfg.CreditLimitWeeks,
		},
		Gate:            affordability.Gate{CeilingPercent: cfg.DebtCeilingPercent},
		StartingBalance: cfg.StartingBalance,
		WeeklyAllowance: cfg.WeeklyAllowance,
	}
}
