package config

const (
	EnvPrefix = "FIRSTCREDIT"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	StorageBackendMemory = "memory"
	StorageBackendRedis  = "redis"
	StorageBackendSQL    = "sql"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"

	EnvAppEnv         = "FIRSTCREDIT_APP_ENV"
	EnvPort           = "FIRSTCREDIT_APP_PORT"
	EnvLogLevel       = "FIRSTCREDIT_LOG_LEVEL"
	EnvLogFormat      = "FIRSTCREDIT_LOG_FORMAT"
	EnvStorageBackend = "FIRSTCREDIT_STORAGE_BACKEND"
	EnvStorageKey     = "FIRSTCREDIT_STORAGE_KEY"
	EnvDBDSN          = "FIRSTCREDIT_DB_DSN"
	EnvDBDriver       = "FIRSTCREDIT_DB_DRIVER"
	EnvDBHost         = "FIRSTCREDIT_DB_HOST"
	EnvDBUser         = "FIRSTCREDIT_DB_USER"
	EnvDBName         = "FIRSTCREDIT_DB_NAME"
	EnvRedisURL       = "FIRSTCREDIT_REDIS_URL"
	EnvRedisAddr      = "FIRSTCREDIT_REDIS_ADDR"
	EnvFlatFeeRate    = "FIRSTCREDIT_FLAT_FEE_RATE"
	EnvDebtCeiling    = "FIRSTCREDIT_DEBT_CEILING_PERCENT"
	EnvCreditWeeks    = "FIRSTCREDIT_CREDIT_LIMIT_WEEKS"
	EnvStartBalance   = "FIRSTCREDIT_STARTING_BALANCE"
	EnvAllowance      = "FIRSTCREDIT_WEEKLY_ALLOWANCE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
