package config

const EnvPrefix = "FRESHFIND"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	StorageDriverSQLite   = "sqlite"
	StorageDriverPostgres = "postgres"
)

const (
	EnvAppEnv         = "FRESHFIND_APP_ENV"
	EnvPort           = "FRESHFIND_APP_PORT"
	EnvBackendURL     = "FRESHFIND_BACKEND_URL"
	EnvStorageDriver  = "FRESHFIND_STORAGE_DRIVER"
	EnvStorageDSN     = "FRESHFIND_STORAGE_DSN"
	EnvStoragePath    = "FRESHFIND_STORAGE_PATH"
	EnvRedisURL       = "FRESHFIND_REDIS_URL"
	EnvShippingCharge = "FRESHFIND_SHIPPING_CHARGE"
	EnvTabTTL         = "FRESHFIND_TAB_TTL"
)
