package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	sharedConfig "urbanincidents/internal/shared/config"
)

type Config struct {
	Environment string                       `mapstructure:"environment"`
	Database    sharedConfig.DatabaseConfig  `mapstructure:"database"`
	Logger      sharedConfig.LoggerConfig    `mapstructure:"logger"`
	Redis       sharedConfig.RedisConfig     `mapstructure:"redis"`
	Cache       sharedConfig.CacheConfig     `mapstructure:"cache"`
	Admin       sharedConfig.AdminConfig     `mapstructure:"admin"`
	Incident    sharedConfig.IncidentConfig  `mapstructure:"incident"`
	Migration   sharedConfig.MigrationConfig `mapstructure:"migration"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load reads configs/config.yaml (optional), a .env file (optional) and
// URBANINCIDENTS_* environment variables, in increasing precedence.
func Load(env string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../configs")
	v.AddConfigPath("../../configs")

	v.SetEnvPrefix("URBANINCIDENTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if env != "" && env != "default" {
		v.Set("environment", env)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

// Validate rejects settings the services cannot start with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver: %q", c.Database.Driver)
	}
	switch c.Cache.Driver {
	case "memory", "redis":
	default:
		return fmt.Errorf("unsupported cache driver: %q", c.Cache.Driver)
	}
	if c.Admin.Email == "" || c.Admin.Password == "" {
		return fmt.Errorf("admin.email and admin.password must be set")
	}
	if c.Incident.Retry.MaxAttempts < 1 {
		return fmt.Errorf("incident.retry.max_attempts must be at least 1")
	}
	if c.Incident.Retry.BaseDelayMs < 1 {
		return fmt.Errorf("incident.retry.base_delay_ms must be at least 1")
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	// Database defaults
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.username", "root")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.database", "urbanincidents")
	v.SetDefault("database.path", "urbanincidents.db")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", 60)

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stdout")

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Cache defaults
	v.SetDefault("cache.driver", "memory")
	v.SetDefault("cache.ttl_seconds", 600)
	v.SetDefault("cache.key_prefix", "urbanincidents:")
	v.SetDefault("cache.max_entries", 10000)

	// Admin defaults
	v.SetDefault("admin.email", "admin@admin.es")
	v.SetDefault("admin.password", "admin")
	v.SetDefault("admin.bcrypt_cost", 10)

	// Incident retry defaults
	v.SetDefault("incident.retry.max_attempts", 10)
	v.SetDefault("incident.retry.base_delay_ms", 5)
	v.SetDefault("incident.retry.max_delay_ms", 200)

	// Migration defaults
	v.SetDefault("migration.strategy", "goose")
}
