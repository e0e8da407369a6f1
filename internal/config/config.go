package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	ItemFormatJSON = "json" // items from the catalog REST API
	ItemFormatHTML = "html" // items scraped from the catalog listing pages
)

// Config holds all configuration for the application
type Config struct {
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Log      LogConfig      `mapstructure:"log"`
}

// CatalogConfig holds catalog service configuration
type CatalogConfig struct {
	BaseURL              string   `mapstructure:"base_url"`
	Token                string   `mapstructure:"token"`
	Timeout              int      `mapstructure:"timeout"`
	MaxRetries           int      `mapstructure:"max_retries"`
	MaxWorkers           int      `mapstructure:"max_workers"`
	MaxRequestsPerSecond int      `mapstructure:"max_requests_per_second"`
	ItemFormat           string   `mapstructure:"item_format"`
	Sources              []string `mapstructure:"sources"`
	RefreshInterval      int      `mapstructure:"refresh_interval"` // seconds between full reindex rounds, 0 runs once
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

// DSN returns the pgx connection string
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Password, d.Name)
}

// RedisConfig holds Redis connection details
type RedisConfig struct {
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	Password      string `mapstructure:"password"`
	Database      int    `mapstructure:"database"`
	ConsumerGroup string `mapstructure:"consumer_group"`
	MinIdleTime   int    `mapstructure:"min_idle_time"`
}

// LogConfig holds logrus settings
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text or json
}

// Load loads configuration from YAML file with environment variable overrides
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, fmt.Errorf("config.yaml file not found in current directory")
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks values viper cannot constrain
func (c *Config) Validate() error {
	switch c.Catalog.ItemFormat {
	case ItemFormatJSON, ItemFormatHTML:
	default:
		return fmt.Errorf("invalid catalog.item_format %q: expected %q or %q",
			c.Catalog.ItemFormat, ItemFormatJSON, ItemFormatHTML)
	}

	if c.Catalog.BaseURL == "" {
		return fmt.Errorf("catalog.base_url must be set")
	}

	if c.Catalog.MaxWorkers < 1 {
		return fmt.Errorf("catalog.max_workers must be at least 1, got %d", c.Catalog.MaxWorkers)
	}

	return nil
}

func setDefaults() {
	viper.SetDefault("catalog.base_url", "http://localhost:9000")
	viper.SetDefault("catalog.token", "")
	viper.SetDefault("catalog.timeout", 30)
	viper.SetDefault("catalog.max_retries", 3)
	viper.SetDefault("catalog.max_workers", 4)
	viper.SetDefault("catalog.max_requests_per_second", 10)
	viper.SetDefault("catalog.item_format", ItemFormatJSON)
	viper.SetDefault("catalog.sources", []string{})
	viper.SetDefault("catalog.refresh_interval", 300)

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.name", "catalog")
	viper.SetDefault("database.user", "catalog_user")
	viper.SetDefault("database.password", "catalog_pass")

	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.database", 0)
	viper.SetDefault("redis.consumer_group", "catalog_indexer")
	viper.SetDefault("redis.min_idle_time", 120)

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")
}
