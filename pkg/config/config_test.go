package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func setMinimalEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvAppEnv, "dev")
	t.Setenv(EnvPort, "8080")
}

func TestLoad_Defaults(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.Storage.Backend != StorageBackendMemory {
		t.Fatalf("expected memory backend, got %q", cfg.Storage.Backend)
	}
	if cfg.Storage.Key != "first-credit-data" {
		t.Fatalf("unexpected storage key %q", cfg.Storage.Key)
	}
	if !cfg.Ledger.FlatFeeRate.Equal(decimal.RequireFromString("0.10")) {
		t.Fatalf("unexpected fee rate %s", cfg.Ledger.FlatFeeRate)
	}
	if cfg.Ledger.DebtCeilingPercent != 50 || cfg.Ledger.CreditLimitWeeks != 4 {
		t.Fatalf("unexpected policy defaults %+v", cfg.Ledger)
	}
	if cfg.Ledger.StartingBalance != 50000 || cfg.Ledger.WeeklyAllowance != 10000 {
		t.Fatalf("unexpected seed defaults %+v", cfg.Ledger)
	}
	if len(cfg.HTTP.CORSOrigins) != 2 {
		t.Fatalf("expected two default cors origins, got %v", cfg.HTTP.CORSOrigins)
	}
	if cfg.HTTP.ShutdownTimeout != 15*time.Second {
		t.Fatalf("unexpected shutdown timeout %s", cfg.HTTP.ShutdownTimeout)
	}
	if cfg.App.LogFormat != "json" {
		t.Fatalf("unexpected log format %q", cfg.App.LogFormat)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv(EnvPort, "8080")
	t.Setenv(EnvAppEnv, "")

	if _, err := Load(); err == nil {
		t.Fatal("expected missing required env to return an error")
	}
}

func TestLoad_RedisBackendNeedsEndpoint(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvStorageBackend, StorageBackendRedis)

	if _, err := Load(); err == nil {
		t.Fatal("expected error without redis endpoint")
	}

	t.Setenv(EnvRedisURL, "redis://localhost:6379/0")
	if _, err := Load(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoad_SQLBackendBuildsLegacyDSN(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvStorageBackend, StorageBackendSQL)
	t.Setenv(EnvDBHost, "db.internal")
	t.Setenv(EnvDBUser, "ledger")
	t.Setenv(EnvDBName, "firstcredit")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "postgres://ledger@db.internal:5432/firstcredit?sslmode=disable"
	if cfg.DB.DSN != want {
		t.Fatalf("expected dsn %q got %q", want, cfg.DB.DSN)
	}
}

func TestLoad_RejectsBadPolicy(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvDebtCeiling, "150")
	if _, err := Load(); err == nil {
		t.Fatal("expected ceiling above 100 to fail")
	}

	t.Setenv(EnvDebtCeiling, "50")
	t.Setenv(EnvFlatFeeRate, "-0.2")
	if _, err := Load(); err == nil {
		t.Fatal("expected negative fee rate to fail")
	}
}

func TestAppConfigEnvHelpers(t *testing.T) {
	if !(AppConfig{Env: "DEV"}).IsDev() {
		t.Fatal("expected IsDev true")
	}
	if (AppConfig{Env: "prod"}).IsDev() {
		t.Fatal("expected IsDev false for prod")
	}
}
