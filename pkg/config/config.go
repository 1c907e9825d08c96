package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = ""

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Environment variable names referenced outside envconfig tags.
const (
	EnvAppEnv = "POSHAAK_APP_ENV"
	EnvPort   = "POSHAAK_APP_PORT"
	EnvDBDSN  = "POSHAAK_DB_DSN"
)

// Drivers accepted by DBConfig.Driver.
const (
	DBDriverSQLite   = "sqlite"
	DBDriverPostgres = "postgres"
)

type Config struct {
	App  AppConfig
	DB   DBConfig
	Seed SeedConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"POSHAAK_APP_ENV" required:"true"`
	Port         string `envconfig:"POSHAAK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"POSHAAK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"POSHAAK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// DBConfig selects the storage engine. The default is an in-process
// sqlite database so the whole store lives in memory; postgres is
// available for deployments that want the state to survive restarts.
type DBConfig struct {
	Driver string `envconfig:"POSHAAK_DB_DRIVER" default:"sqlite"`
	DSN    string `envconfig:"POSHAAK_DB_DSN" default:"file::memory:?cache=shared"`

	MaxOpenConns    int           `envconfig:"POSHAAK_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"POSHAAK_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"POSHAAK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"POSHAAK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db DBConfig) validate() error {
	switch db.Driver {
	case DBDriverSQLite, DBDriverPostgres:
	default:
		return fmt.Errorf("unsupported db driver %q", db.Driver)
	}
	if db.DSN == "" {
		return fmt.Errorf("%s is required", EnvDBDSN)
	}
	return nil
}

// SeedConfig controls the startup fixture data.
type SeedConfig struct {
	Enable bool `envconfig:"POSHAAK_SEED" default:"true"`
}
