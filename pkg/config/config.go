package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App          AppConfig
	HTTP         HTTPConfig
	Storage      StorageConfig
	DB           DBConfig
	Redis        RedisConfig
	Ledger       LedgerConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Backend {
	case StorageBackendMemory:
	case StorageBackendRedis:
		if c.Redis.URL == "" && c.Redis.Address == "" {
			return fmt.Errorf("%s or %s is required for the redis storage backend", EnvRedisURL, EnvRedisAddr)
		}
	case StorageBackendSQL:
		if err := c.DB.ensureDSN(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported %s %q", EnvStorageBackend, c.Storage.Backend)
	}
	if strings.TrimSpace(c.Storage.Key) == "" {
		return fmt.Errorf("%s must not be empty", EnvStorageKey)
	}
	return c.Ledger.validate()
}

type AppConfig struct {
	Env          string `envconfig:"FIRSTCREDIT_APP_ENV" required:"true"`
	Port         string `envconfig:"FIRSTCREDIT_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FIRSTCREDIT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FIRSTCREDIT_LOG_WARN_STACK" default:"false"`
	LogFormat    string `envconfig:"FIRSTCREDIT_LOG_FORMAT" default:"json"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

type HTTPConfig struct {
	CORSOrigins     []string      `envconfig:"FIRSTCREDIT_CORS_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
	ReadTimeout     time.Duration `envconfig:"FIRSTCREDIT_HTTP_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"FIRSTCREDIT_HTTP_WRITE_TIMEOUT" default:"10s"`
	ShutdownTimeout time.Duration `envconfig:"FIRSTCREDIT_HTTP_SHUTDOWN_TIMEOUT" default:"15s"`
}

type StorageConfig struct {
	Backend string        `envconfig:"FIRSTCREDIT_STORAGE_BACKEND" default:"memory"`
	Key     string        `envconfig:"FIRSTCREDIT_STORAGE_KEY" default:"first-credit-data"`
	LockTTL time.Duration `envconfig:"FIRSTCREDIT_STORAGE_LOCK_TTL" default:"5s"`
}

type DBConfig struct {
	DSN    string `envconfig:"FIRSTCREDIT_DB_DSN"`
	Driver string `envconfig:"FIRSTCREDIT_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FIRSTCREDIT_DB_HOST"`
	LegacyPort     int    `envconfig:"FIRSTCREDIT_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FIRSTCREDIT_DB_USER"`
	LegacyPassword string `envconfig:"FIRSTCREDIT_DB_PASSWORD"`
	LegacyName     string `envconfig:"FIRSTCREDIT_DB_NAME"`
	LegacySSLMode  string `envconfig:"FIRSTCREDIT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FIRSTCREDIT_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"FIRSTCREDIT_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"FIRSTCREDIT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FIRSTCREDIT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FIRSTCREDIT_REDIS_URL"`
	Address      string        `envconfig:"FIRSTCREDIT_REDIS_ADDR"`
	Password     string        `envconfig:"FIRSTCREDIT_REDIS_PASSWORD"`
	DB           int           `envconfig:"FIRSTCREDIT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FIRSTCREDIT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FIRSTCREDIT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FIRSTCREDIT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FIRSTCREDIT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FIRSTCREDIT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether any redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

// LedgerConfig carries the household credit policy knobs.
type LedgerConfig struct {
	FlatFeeRate        decimal.Decimal `envconfig:"FIRSTCREDIT_FLAT_FEE_RATE" default:"0.10"`
	DebtCeilingPercent int64           `envconfig:"FIRSTCREDIT_DEBT_CEILING_PERCENT" default:"50"`
	CreditLimitWeeks   int64           `envconfig:"FIRSTCREDIT_CREDIT_LIMIT_WEEKS" default:"4"`
	StartingBalance    int64           `envconfig:"FIRSTCREDIT_STARTING_BALANCE" default:"50000"`
	WeeklyAllowance    int64           `envconfig:"FIRSTCREDIT_WEEKLY_ALLOWANCE" default:"10000"`
}

func (l LedgerConfig) validate() error {
	if l.FlatFeeRate.IsNegative() {
		return fmt.Errorf("%s must not be negative", EnvFlatFeeRate)
	}
	if l.DebtCeilingPercent <= 0 || l.DebtCeilingPercent > 100 {
		return fmt.Errorf("%s must be within 1..100", EnvDebtCeiling)
	}
	if l.CreditLimitWeeks <= 0 {
		return fmt.Errorf("%s must be positive", EnvCreditWeeks)
	}
	if l.StartingBalance < 0 {
		return fmt.Errorf("%s must not be negative", EnvStartBalance)
	}
	if l.WeeklyAllowance <= 0 {
		return fmt.Errorf("%s must be positive", EnvAllowance)
	}
	return nil
}

type FeatureFlagsConfig struct {
	AutoMigrate        bool `envconfig:"FIRSTCREDIT_AUTO_MIGRATE" default:"false"`
	RequireIdempotency bool `envconfig:"FIRSTCREDIT_REQUIRE_IDEMPOTENCY" default:"true"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.Driver == DBDriverSQLite {
		return fmt.Errorf("%s is required for the sqlite driver", EnvDBDSN)
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}
	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
