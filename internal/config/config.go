package config

import "time"

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverSQLite   = "sqlite"
)

var globalConfig *Config

func Global() *Config {
	return globalConfig
}

func SetGlobal(cfg *Config) {
	globalConfig = cfg
}

type Config struct {
	Env           string         `yaml:"env" env:"ENV" env-required:"true"`
	AppName       string         `yaml:"app_name" env:"APP_NAME" env-default:"taskmanagerApp"`
	TimeZone      string         `yaml:"time_zone" env:"TIME_ZONE" env-default:"UTC"`
	StorageDriver string         `yaml:"storage_driver" env:"STORAGE_DRIVER" env-default:"sqlite"`
	Postgres      PostgresConfig `yaml:"postgres"`
	SQLite        SQLiteConfig   `yaml:"sqlite"`
	HTTP          HTTPConfig     `yaml:"http"`
	JWT           JWTConfig      `yaml:"jwt"`
	Tracing       TracingConfig  `yaml:"tracing"`
}

type PostgresConfig struct {
	Host           string        `yaml:"host" env:"POSTGRES_HOST" env-default:"localhost"`
	Port           int           `yaml:"port" env:"POSTGRES_PORT" env-default:"5432"`
	Username       string        `yaml:"username" env:"POSTGRES_USERNAME"`
	Password       string        `yaml:"password" env:"POSTGRES_PASSWORD"`
	Database       string        `yaml:"database" env:"POSTGRES_DATABASE"`
	SSLMode        string        `yaml:"ssl_mode" env:"POSTGRES_SSL_MODE" env-default:"disable"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" env:"POSTGRES_CONNECT_TIMEOUT" env-default:"10s"`
	PingTimeout    time.Duration `yaml:"ping_timeout" env:"POSTGRES_PING_TIMEOUT" env-default:"10s"`
}

type SQLiteConfig struct {
	Path string `yaml:"path" env:"SQLITE_PATH" env-default:"taskmanager.db"`
}

type HTTPConfig struct {
	Host            string        `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port            string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

// JWTConfig configures verification of tokens issued by the external
// identity provider. An empty signing key disables verification.
type JWTConfig struct {
	Issuer     string `yaml:"issuer" env:"JWT_ISSUER"`
	SigningKey string `yaml:"signing_key" env:"JWT_SIGNING_KEY"`
}

type TracingConfig struct {
	Enabled     bool   `yaml:"enabled" env:"TRACING_ENABLED" env-default:"false"`
	ServiceName string `yaml:"service_name" env:"TRACING_SERVICE_NAME" env-default:"go-task-manager"`
}
