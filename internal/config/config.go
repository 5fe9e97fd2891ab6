package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server  ServerConfig  `mapstructure:"server" validate:"required"`
	Storage StorageConfig `mapstructure:"storage" validate:"required"`
	Auth    AuthConfig    `mapstructure:"auth" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// StaticDir is the directory the front end is served from.
	StaticDir string `mapstructure:"static_dir" validate:"required"`
	// PublicDir is the output directory of the sync-public command.
	PublicDir    string `mapstructure:"public_dir" validate:"required"`
	MaxBodyBytes int64  `mapstructure:"max_body_bytes" validate:"required,gt=0"`
}

// Storage drivers.
const (
	DriverJSON     = "json"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// StorageConfig selects and configures the task store.
type StorageConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=json sqlite postgres"`
	// DataFile is the JSON document used by the json driver.
	DataFile      string `mapstructure:"data_file" validate:"required_if=Driver json"`
	LockTimeoutMS int    `mapstructure:"lock_timeout_ms" validate:"gte=0"`
	// DatabaseURL is a DSN for postgres or a file path for sqlite.
	DatabaseURL string `mapstructure:"database_url" validate:"required_unless=Driver json"`
}

// LockTimeout returns the configured lock timeout as a duration.
func (c StorageConfig) LockTimeout() time.Duration {
	return time.Duration(c.LockTimeoutMS) * time.Millisecond
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	Username string `mapstructure:"username" validate:"required"`
	// Password is compared directly when PasswordHash is empty.
	Password     string `mapstructure:"password" validate:"required_without=PasswordHash"`
	PasswordHash string `mapstructure:"password_hash"`
	// JWTSecret signs bearer tokens. A random secret is generated at startup
	// when it is empty, which invalidates tokens across restarts.
	JWTSecret string `mapstructure:"jwt_secret" validate:"omitempty,min=32"`
	// TokenLifetimeMinutes of zero issues tokens that never expire.
	TokenLifetimeMinutes int `mapstructure:"token_lifetime_minutes" validate:"gte=0"`
}

// TokenLifetime returns the configured token lifetime, or zero for no expiry.
func (c AuthConfig) TokenLifetime() time.Duration {
	return time.Duration(c.TokenLifetimeMinutes) * time.Minute
}
