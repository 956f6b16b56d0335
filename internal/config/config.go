package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	App       AppConfig
	Mongo     MongoConfig
	Ledger    LedgerConfig
	Cache     CacheConfig
	SearchLog SearchLogConfig
	Database  DatabaseConfig
	Admin     AdminConfig
}

type AppConfig struct {
	AppName           string `env:"APP_NAME" envDefault:"orange-skill-api"`
	Environment       string `env:"APP_ENV" envDefault:"development"`
	HTTPPort          string `env:"HTTP_PORT" envDefault:"3001"`
	SearchConcurrency int    `env:"SEARCH_CONCURRENCY" envDefault:"8"`
}

type MongoConfig struct {
	URI            string        `env:"DB_CONN_STRING"`
	Database       string        `env:"MONGO_DATABASE"`
	ConnectTimeout time.Duration `env:"MONGO_CONNECT_TIMEOUT" envDefault:"10s"`
}

type LedgerConfig struct {
	Enabled         bool          `env:"LEDGER_ENABLED" envDefault:"true"`
	RPCURL          string        `env:"ETH_RPC_URL" envDefault:"http://localhost:8545"`
	PrivateKey      string        `env:"PRIVATE_KEY"`
	ContractABI     string        `env:"CONTRACT_JSON_ABI"`
	ContractAddress string        `env:"CONTRACT_ADDRESS"`
	GasLimit        uint64        `env:"LEDGER_GAS_LIMIT" envDefault:"1048576"`
	GasPrice        uint64        `env:"LEDGER_GAS_PRICE" envDefault:"0"`
	Timeout         time.Duration `env:"LEDGER_TIMEOUT" envDefault:"60s"`
}

type CacheConfig struct {
	Driver        string        `env:"CACHE_DRIVER" envDefault:"memory"`
	Size          int           `env:"CACHE_SIZE" envDefault:"1000"`
	TTL           time.Duration `env:"CACHE_TTL" envDefault:"10m"`
	RedisAddr     string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
}

type SearchLogConfig struct {
	Driver string `env:"SEARCH_LOG_DRIVER" envDefault:"mongo"`
}

type DatabaseConfig struct {
	DSN                   string        `env:"POSTGRES_DSN"`
	ConnectTimeout        time.Duration `env:"POSTGRES_CONNECT_TIMEOUT" envDefault:"5s"`
	PoolMaxConns          int32         `env:"POSTGRES_POOL_MAX_CONNS" envDefault:"0"`
	PoolMinConns          int32         `env:"POSTGRES_POOL_MIN_CONNS" envDefault:"0"`
	PoolMaxConnLifetime   time.Duration `env:"POSTGRES_POOL_MAX_CONN_LIFETIME" envDefault:"0s"`
	PoolMaxConnIdleTime   time.Duration `env:"POSTGRES_POOL_MAX_CONN_IDLE_TIME" envDefault:"0s"`
	PoolHealthCheckPeriod time.Duration `env:"POSTGRES_POOL_HEALTH_CHECK_PERIOD" envDefault:"0s"`
}

type AdminConfig struct {
	JWTSecret string        `env:"ADMIN_JWT_SECRET"`
	TokenTTL  time.Duration `env:"ADMIN_TOKEN_TTL" envDefault:"24h"`
}

const (
	CacheDriverMemory = "memory"
	CacheDriverRedis  = "redis"
	CacheDriverNone   = "none"

	SearchLogDriverMongo    = "mongo"
	SearchLogDriverPostgres = "postgres"
)

var (
	errMissingRequiredEnv = errors.New("missing required environment variables")
	errInvalidEnv         = errors.New("invalid environment variables")
)

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	c.normalize()

	var missing []string
	req := func(key, val string) {
		if val == "" {
			missing = append(missing, key)
		}
	}

	req("DB_CONN_STRING", c.Mongo.URI)
	if c.Ledger.Enabled {
		req("PRIVATE_KEY", c.Ledger.PrivateKey)
		req("CONTRACT_JSON_ABI", c.Ledger.ContractABI)
		req("CONTRACT_ADDRESS", c.Ledger.ContractAddress)
	}
	if c.SearchLog.Driver == SearchLogDriverPostgres {
		req("POSTGRES_DSN", c.Database.DSN)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	var invalid []string
	switch c.Cache.Driver {
	case CacheDriverMemory, CacheDriverRedis, CacheDriverNone:
	default:
		invalid = append(invalid, "CACHE_DRIVER="+c.Cache.Driver)
	}
	switch c.SearchLog.Driver {
	case SearchLogDriverMongo, SearchLogDriverPostgres:
	default:
		invalid = append(invalid, "SEARCH_LOG_DRIVER="+c.SearchLog.Driver)
	}
	if c.Cache.Size <= 0 {
		invalid = append(invalid, fmt.Sprintf("CACHE_SIZE=%d", c.Cache.Size))
	}
	if c.App.SearchConcurrency <= 0 {
		invalid = append(invalid, fmt.Sprintf("SEARCH_CONCURRENCY=%d", c.App.SearchConcurrency))
	}
	if len(invalid) > 0 {
		return fmt.Errorf("%w: %s", errInvalidEnv, strings.Join(invalid, ", "))
	}
	return nil
}

func (c *Config) normalize() {
	c.Mongo.URI = strings.TrimSpace(c.Mongo.URI)
	c.Mongo.Database = strings.TrimSpace(c.Mongo.Database)
	c.Ledger.PrivateKey = strings.TrimPrefix(strings.TrimSpace(c.Ledger.PrivateKey), "0x")
	c.Ledger.ContractABI = strings.TrimSpace(c.Ledger.ContractABI)
	c.Ledger.ContractAddress = strings.TrimSpace(c.Ledger.ContractAddress)
	c.Cache.Driver = strings.ToLower(strings.TrimSpace(c.Cache.Driver))
	c.SearchLog.Driver = strings.ToLower(strings.TrimSpace(c.SearchLog.Driver))
	c.Database.DSN = strings.TrimSpace(c.Database.DSN)
	c.Admin.JWTSecret = strings.TrimSpace(c.Admin.JWTSecret)
}

// LoadMongo reads only the Mongo settings, for tools that never touch the
// ledger.
func LoadMongo() (MongoConfig, error) {
	var cfg MongoConfig
	if err := env.Parse(&cfg); err != nil {
		return MongoConfig{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.URI = strings.TrimSpace(cfg.URI)
	cfg.Database = strings.TrimSpace(cfg.Database)
	if cfg.URI == "" {
		return MongoConfig{}, fmt.Errorf("%w: DB_CONN_STRING", errMissingRequiredEnv)
	}
	return cfg, nil
}

func LoadAdmin() (AdminConfig, error) {
	var cfg AdminConfig
	if err := env.Parse(&cfg); err != nil {
		return AdminConfig{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.JWTSecret = strings.TrimSpace(cfg.JWTSecret)
	if cfg.JWTSecret == "" {
		return AdminConfig{}, fmt.Errorf("%w: ADMIN_JWT_SECRET", errMissingRequiredEnv)
	}
	if cfg.TokenTTL <= 0 {
		return AdminConfig{}, fmt.Errorf("%w: ADMIN_TOKEN_TTL=%s", errInvalidEnv, cfg.TokenTTL)
	}
	return cfg, nil
}
