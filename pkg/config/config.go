package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "MFG"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv          = "MFG_APP_ENV"
	EnvPort            = "MFG_APP_PORT"
	EnvLogLevel        = "MFG_LOG_LEVEL"
	EnvCartStorage     = "MFG_CART_STORAGE"
	EnvCartNamespace   = "MFG_CART_NAMESPACE"
	EnvWhatsAppPhone   = "MFG_WHATSAPP_PHONE"
	EnvWhatsAppBaseURL = "MFG_WHATSAPP_BASE_URL"
	EnvCatalogPath     = "MFG_CATALOG_PATH"
	EnvRedisURL        = "MFG_REDIS_URL"
	EnvDBDriver        = "MFG_DB_DRIVER"
	EnvDBDSN           = "MFG_DB_DSN"
	EnvCORSOrigins     = "MFG_CORS_ORIGINS"
)

// Storage backends understood by the cart store wiring.
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageSQL    = "sql"
)

// Database drivers understood by pkg/db.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	App   AppConfig
	Cart  CartConfig
	Redis RedisConfig
	DB    DBConfig
	HTTP  HTTPConfig
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

type AppConfig struct {
	Env          string `envconfig:"MFG_APP_ENV" default:"dev"`
	Port         string `envconfig:"MFG_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"MFG_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"MFG_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"MFG_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type CartConfig struct {
	Storage         string        `envconfig:"MFG_CART_STORAGE" default:"memory"`
	Namespace       string        `envconfig:"MFG_CART_NAMESPACE" default:"mfg-cart"`
	WhatsAppPhone   string        `envconfig:"MFG_WHATSAPP_PHONE" default:"5511999999999"`
	WhatsAppBaseURL string        `envconfig:"MFG_WHATSAPP_BASE_URL" default:"https://wa.me"`
	CatalogPath     string        `envconfig:"MFG_CATALOG_PATH"`
	ToastVisible    time.Duration `envconfig:"MFG_TOAST_VISIBLE" default:"2s"`
	ToastExit       time.Duration `envconfig:"MFG_TOAST_EXIT" default:"300ms"`

	// RedisTTL expires idle carts in redis; zero keeps them forever.
	RedisTTL time.Duration `envconfig:"MFG_CART_REDIS_TTL" default:"0s"`

	// IdleTTL drops in-memory session state unused for this long. The
	// persisted cart is reloaded on the next request.
	IdleTTL       time.Duration `envconfig:"MFG_CART_IDLE_TTL" default:"1h"`
	SweepInterval time.Duration `envconfig:"MFG_CART_SWEEP_INTERVAL" default:"5m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MFG_REDIS_URL"`
	Address      string        `envconfig:"MFG_REDIS_ADDR"`
	Password     string        `envconfig:"MFG_REDIS_PASSWORD"`
	DB           int           `envconfig:"MFG_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MFG_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MFG_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MFG_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MFG_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MFG_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type DBConfig struct {
	Driver string `envconfig:"MFG_DB_DRIVER" default:"sqlite"`
	DSN    string `envconfig:"MFG_DB_DSN" default:"file:mfg-cart.db?cache=shared"`

	MaxOpenConns    int           `envconfig:"MFG_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"MFG_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"MFG_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MFG_DB_CONN_MAX_IDLE_TIME" default:"10m"`
	AutoMigrate     bool          `envconfig:"MFG_DB_AUTO_MIGRATE" default:"true"`
}

type HTTPConfig struct {
	CORSOrigins   []string      `envconfig:"MFG_CORS_ORIGINS" default:"http://localhost:5500,http://127.0.0.1:5500"`
	SecureCookies bool          `envconfig:"MFG_SECURE_COOKIES" default:"false"`
	SessionMaxAge time.Duration `envconfig:"MFG_SESSION_MAX_AGE" default:"720h"`
	ReadTimeout   time.Duration `envconfig:"MFG_HTTP_READ_TIMEOUT" default:"10s"`
	WriteTimeout  time.Duration `envconfig:"MFG_HTTP_WRITE_TIMEOUT" default:"10s"`
}

func (c *Config) validate() error {
	c.Cart.Storage = strings.ToLower(strings.TrimSpace(c.Cart.Storage))
	switch c.Cart.Storage {
	case StorageMemory:
	case StorageRedis:
		if c.Redis.URL == "" && c.Redis.Address == "" {
			return fmt.Errorf("%s or MFG_REDIS_ADDR is required for the redis cart storage", EnvRedisURL)
		}
	case StorageSQL:
		if err := c.DB.validate(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%s must be one of %s, %s, %s; got %q", EnvCartStorage, StorageMemory, StorageRedis, StorageSQL, c.Cart.Storage)
	}

	if strings.TrimSpace(c.Cart.Namespace) == "" {
		return fmt.Errorf("%s must not be empty", EnvCartNamespace)
	}

	base, err := url.Parse(c.Cart.WhatsAppBaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return fmt.Errorf("%s must be an absolute url, got %q", EnvWhatsAppBaseURL, c.Cart.WhatsAppBaseURL)
	}
	c.Cart.WhatsAppBaseURL = strings.TrimRight(c.Cart.WhatsAppBaseURL, "/")
	return nil
}

func (db *DBConfig) validate() error {
	db.Driver = strings.ToLower(strings.TrimSpace(db.Driver))
	if db.Driver != DriverPostgres && db.Driver != DriverSQLite {
		return fmt.Errorf("%s must be %s or %s, got %q", EnvDBDriver, DriverPostgres, DriverSQLite, db.Driver)
	}
	if db.DSN == "" {
		return fmt.Errorf("%s is required for the sql cart storage", EnvDBDSN)
	}
	return nil
}
