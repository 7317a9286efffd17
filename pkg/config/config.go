package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App     AppConfig
	Backend BackendConfig
	Storage StorageConfig
	Redis   RedisConfig
	Session SessionConfig
	Pricing PricingConfig
	Catalog CatalogConfig
	Notify  NotifyConfig
	Metrics MetricsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Storage.ensureDSN(); err != nil {
		return nil, err
	}
	if _, err := cfg.Pricing.Shipping(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"FRESHFIND_APP_ENV" required:"true"`
	Port         string `envconfig:"FRESHFIND_APP_PORT" default:"5173"`
	LogLevel     string `envconfig:"FRESHFIND_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FRESHFIND_LOG_WARN_STACK" default:"false"`
	// CORSOrigins are the view layers allowed to call the view API.
	CORSOrigins []string `envconfig:"FRESHFIND_CORS_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// BackendConfig points the storefront at the remote HTTP/JSON API.
type BackendConfig struct {
	BaseURL string        `envconfig:"FRESHFIND_BACKEND_URL" required:"true"`
	Timeout time.Duration `envconfig:"FRESHFIND_BACKEND_TIMEOUT" default:"10s"`
}

// StorageConfig backs the durable "local storage" used as a cold-start cache.
type StorageConfig struct {
	Driver string `envconfig:"FRESHFIND_STORAGE_DRIVER" default:"sqlite"`
	DSN    string `envconfig:"FRESHFIND_STORAGE_DSN"`
	Path   string `envconfig:"FRESHFIND_STORAGE_PATH" default:"freshfind.db"`

	MaxOpenConns    int           `envconfig:"FRESHFIND_STORAGE_MAX_OPEN_CONNS" default:"4"`
	MaxIdleConns    int           `envconfig:"FRESHFIND_STORAGE_MAX_IDLE_CONNS" default:"2"`
	ConnMaxLifetime time.Duration `envconfig:"FRESHFIND_STORAGE_CONN_MAX_LIFETIME" default:"1h"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FRESHFIND_REDIS_URL"`
	Address      string        `envconfig:"FRESHFIND_REDIS_ADDR" default:"localhost:6379"`
	Password     string        `envconfig:"FRESHFIND_REDIS_PASSWORD"`
	DB           int           `envconfig:"FRESHFIND_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FRESHFIND_REDIS_POOL_SIZE" default:"4"`
	MinIdleConns int           `envconfig:"FRESHFIND_REDIS_MIN_IDLE_CONNS" default:"1"`
	DialTimeout  time.Duration `envconfig:"FRESHFIND_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FRESHFIND_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"FRESHFIND_REDIS_WRITE_TIMEOUT" default:"3s"`
	TabTTL       time.Duration `envconfig:"FRESHFIND_TAB_TTL" default:"12h"`
}

// SessionConfig controls how persisted tokens are trusted on restore.
type SessionConfig struct {
	ExpirySkew  time.Duration `envconfig:"FRESHFIND_SESSION_EXPIRY_SKEW" default:"30s"`
	LogoutOn401 bool          `envconfig:"FRESHFIND_SESSION_LOGOUT_ON_401" default:"true"`
	AdminRole   string        `envconfig:"FRESHFIND_SESSION_ADMIN_ROLE" default:"admin"`
}

type PricingConfig struct {
	ShippingCharge string `envconfig:"FRESHFIND_SHIPPING_CHARGE" default:"50"`
	CurrencySymbol string `envconfig:"FRESHFIND_CURRENCY_SYMBOL" default:"₹"`
}

// Shipping returns the flat shipping charge as a decimal.
func (p PricingConfig) Shipping() (decimal.Decimal, error) {
	raw := strings.TrimSpace(p.ShippingCharge)
	if raw == "" {
		return decimal.Zero, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing %s: %w", EnvShippingCharge, err)
	}
	if value.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s must not be negative", EnvShippingCharge)
	}
	return value, nil
}

type CatalogConfig struct {
	ProductsPerPage int `envconfig:"FRESHFIND_PRODUCTS_PER_PAGE" default:"8"`
}

type NotifyConfig struct {
	FeedSize int `envconfig:"FRESHFIND_NOTIFY_FEED_SIZE" default:"50"`
}

type MetricsConfig struct {
	Enabled bool `envconfig:"FRESHFIND_METRICS_ENABLED" default:"true"`
}

func (s *StorageConfig) ensureDSN() error {
	driver := strings.ToLower(strings.TrimSpace(s.Driver))
	if driver == "" {
		driver = StorageDriverSQLite
	}
	s.Driver = driver

	switch driver {
	case StorageDriverSQLite:
		if s.DSN == "" {
			path := strings.TrimSpace(s.Path)
			if path == "" {
				return fmt.Errorf("either %s or %s is required", EnvStorageDSN, EnvStoragePath)
			}
			s.DSN = "file:" + path + "?_busy_timeout=5000"
		}
	case StorageDriverPostgres:
		if s.DSN == "" {
			return fmt.Errorf("%s is required for the postgres driver", EnvStorageDSN)
		}
	default:
		return fmt.Errorf("unsupported %s %q", EnvStorageDriver, s.Driver)
	}
	return nil
}
