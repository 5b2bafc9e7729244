package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

const (
	// EnvPrefix namespaces every environment variable consumed by the service.
	EnvPrefix = "SIMPLESHOP"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Store drivers accepted by StoreConfig.Driver.
const (
	StoreDriverSQLite = "sqlite"
	StoreDriverRedis  = "redis"
	StoreDriverMemory = "memory"
)

type Config struct {
	App          AppConfig
	Store        StoreConfig
	Redis        RedisConfig
	Orders       OrdersConfig
	Catalog      CatalogConfig
	Auth         AuthConfig
	Checkout     CheckoutConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Store.validate(); err != nil {
		return nil, err
	}
	if cfg.Store.Driver == StoreDriverRedis && cfg.Redis.URL == "" && cfg.Redis.Address == "" {
		return nil, fmt.Errorf("redis snapshot driver requires %s_REDIS_URL or %s_REDIS_ADDR", EnvPrefix, EnvPrefix)
	}
	if _, err := cfg.Checkout.FlatShippingFee(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string   `envconfig:"SIMPLESHOP_APP_ENV" default:"dev"`
	Port         string   `envconfig:"SIMPLESHOP_APP_PORT" default:"8080"`
	LogLevel     string   `envconfig:"SIMPLESHOP_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"SIMPLESHOP_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"SIMPLESHOP_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// StoreConfig selects and configures the durable local storage holding the
// cart snapshot.
type StoreConfig struct {
	Driver      string `envconfig:"SIMPLESHOP_STORE_DRIVER" default:"sqlite"`
	SQLitePath  string `envconfig:"SIMPLESHOP_STORE_SQLITE_PATH" default:"storefront.db"`
	SnapshotKey string `envconfig:"SIMPLESHOP_STORE_SNAPSHOT_KEY" default:"cart"`
}

func (s StoreConfig) validate() error {
	switch s.Driver {
	case StoreDriverSQLite, StoreDriverRedis, StoreDriverMemory:
	default:
		return fmt.Errorf("unknown store driver %q", s.Driver)
	}
	if s.Driver == StoreDriverSQLite && s.SQLitePath == "" {
		return fmt.Errorf("sqlite snapshot driver requires %s_STORE_SQLITE_PATH", EnvPrefix)
	}
	if s.SnapshotKey == "" {
		return fmt.Errorf("snapshot key must not be empty")
	}
	return nil
}

type RedisConfig struct {
	URL          string `envconfig:"SIMPLESHOP_REDIS_URL"`
	Address      string `envconfig:"SIMPLESHOP_REDIS_ADDR"`
	Password     string `envconfig:"SIMPLESHOP_REDIS_PASSWORD"`
	DB           int    `envconfig:"SIMPLESHOP_REDIS_DB" default:"0"`
	PoolSize     int    `envconfig:"SIMPLESHOP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int    `envconfig:"SIMPLESHOP_REDIS_MIN_IDLE_CONNS" default:"2"`
}

// UpstreamConfig holds the dial settings shared by the HTTP collaborators.
type UpstreamConfig struct {
	BaseURL        string `envconfig:"-"`
	TimeoutSeconds int    `envconfig:"-"`
}

type OrdersConfig struct {
	BaseURL        string `envconfig:"SIMPLESHOP_ORDERS_BASE_URL" required:"true"`
	TimeoutSeconds int    `envconfig:"SIMPLESHOP_ORDERS_TIMEOUT_SECONDS" default:"10"`
}

func (o OrdersConfig) Upstream() UpstreamConfig {
	return UpstreamConfig{BaseURL: o.BaseURL, TimeoutSeconds: o.TimeoutSeconds}
}

type CatalogConfig struct {
	BaseURL        string `envconfig:"SIMPLESHOP_CATALOG_BASE_URL" required:"true"`
	TimeoutSeconds int    `envconfig:"SIMPLESHOP_CATALOG_TIMEOUT_SECONDS" default:"10"`
}

func (c CatalogConfig) Upstream() UpstreamConfig {
	return UpstreamConfig{BaseURL: c.BaseURL, TimeoutSeconds: c.TimeoutSeconds}
}

type AuthConfig struct {
	BaseURL        string `envconfig:"SIMPLESHOP_AUTH_BASE_URL" required:"true"`
	TimeoutSeconds int    `envconfig:"SIMPLESHOP_AUTH_TIMEOUT_SECONDS" default:"10"`
}

func (a AuthConfig) Upstream() UpstreamConfig {
	return UpstreamConfig{BaseURL: a.BaseURL, TimeoutSeconds: a.TimeoutSeconds}
}

// CheckoutConfig holds the pricing knobs. The flat shipping fee is a single
// value used wherever totals are computed.
type CheckoutConfig struct {
	ShippingFlatFee string `envconfig:"SIMPLESHOP_SHIPPING_FLAT_FEE" default:"10.00"`
}

func (c CheckoutConfig) FlatShippingFee() (decimal.Decimal, error) {
	fee, err := decimal.NewFromString(c.ShippingFlatFee)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing shipping flat fee %q: %w", c.ShippingFlatFee, err)
	}
	if fee.IsNegative() {
		return decimal.Zero, fmt.Errorf("shipping flat fee must not be negative")
	}
	return fee, nil
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SIMPLESHOP_FF_AUTO_MIGRATE" default:"true"`
}
