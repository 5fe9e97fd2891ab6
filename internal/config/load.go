package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every configuration environment variable.
const EnvPrefix = "TASKDECK"

// Default values.
const (
	DefaultPort          = 3000
	DefaultLogLevel      = "info"
	DefaultStaticDir     = "frontend"
	DefaultPublicDir     = "public"
	DefaultMaxBodyBytes  = 1_000_000
	DefaultDataFile      = "data/tasks.json"
	EphemeralDataFile    = "/tmp/task-manager-data/tasks.json"
	DefaultLockTimeoutMS = 5000
	DefaultUsername      = "admin"
	DefaultPassword      = "1234"
)

// LoadFile reads configuration from defaults, a config file and TASKDECK_*
// environment variables, in increasing order of precedence. An empty path
// searches the working directory for taskdeck.yaml and tolerates a missing file.
func LoadFile(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("taskdeck")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Hosting platforms hand the listen port over in PORT.
	if err := v.BindEnv("server.port", EnvPrefix+"_SERVER_PORT", "PORT"); err != nil {
		return nil, fmt.Errorf("failed to bind port environment: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cfg against its struct tags.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("server.log_level", DefaultLogLevel)
	v.SetDefault("server.static_dir", DefaultStaticDir)
	v.SetDefault("server.public_dir", DefaultPublicDir)
	v.SetDefault("server.max_body_bytes", DefaultMaxBodyBytes)

	dataFile := DefaultDataFile
	if os.Getenv("VERCEL") != "" {
		dataFile = EphemeralDataFile
	}
	v.SetDefault("storage.driver", DriverJSON)
	v.SetDefault("storage.data_file", dataFile)
	v.SetDefault("storage.lock_timeout_ms", DefaultLockTimeoutMS)
	v.SetDefault("storage.database_url", "")

	v.SetDefault("auth.username", DefaultUsername)
	v.SetDefault("auth.password", DefaultPassword)
	v.SetDefault("auth.password_hash", "")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_lifetime_minutes", 0)
}
