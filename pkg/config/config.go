package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Server ServerConfig `mapstructure:"server"`

	// Database configuration
	Database DatabaseConfig `mapstructure:"database"`

	// Redis configuration (alert fan-out)
	Redis RedisConfig `mapstructure:"redis"`

	// External classifier configuration
	Classifier ClassifierConfig `mapstructure:"classifier"`

	// Hospital ranking configuration
	Ranking RankingConfig `mapstructure:"ranking"`

	// Hospital catalog configuration
	Catalog CatalogConfig `mapstructure:"catalog"`

	// JWT configuration
	JWT JWTConfig `mapstructure:"jwt"`

	// Monitoring configuration
	Monitoring MonitoringConfig `mapstructure:"monitoring"`

	// Logging configuration
	LogLevel string `mapstructure:"log_level"`
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
	IdleTimeout  int    `mapstructure:"idle_timeout"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"ssl_mode"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// ClassifierConfig holds external classifier configuration
type ClassifierConfig struct {
	Provider   string `mapstructure:"provider"` // "http" or "openai"
	Endpoint   string `mapstructure:"endpoint"`
	APIKey     string `mapstructure:"api_key"`
	Model      string `mapstructure:"model"`
	Schema     string `mapstructure:"schema"` // "structured" or "legacy"
	TimeoutSec int    `mapstructure:"timeout_sec"`
	MaxRetries int    `mapstructure:"max_retries"`
}

// RankingConfig holds hospital ranking configuration. SpecialtyBonusKm is the
// score reduction applied to specialty-matching hospitals, in the same km
// scale as distance; its clinical weighting is a product decision, kept
// tunable here.
type RankingConfig struct {
	OriginLat        float64 `mapstructure:"origin_lat"`
	OriginLng        float64 `mapstructure:"origin_lng"`
	SpecialtyBonusKm float64 `mapstructure:"specialty_bonus_km"`
}

// CatalogConfig holds hospital catalog configuration
type CatalogConfig struct {
	Path string `mapstructure:"path"` // optional JSON file, built-in catalog when empty
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	SecretKey      string `mapstructure:"secret_key"`
	AccessTokenTTL int    `mapstructure:"access_token_ttl"`
	Issuer         string `mapstructure:"issuer"`
}

// MonitoringConfig holds monitoring configuration
type MonitoringConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	MetricsPath string `mapstructure:"metrics_path"`
	HealthPath  string `mapstructure:"health_path"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/smart-ai-triage")

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	overrideWithEnv(&config)

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30)
	viper.SetDefault("server.write_timeout", 30)
	viper.SetDefault("server.idle_timeout", 120)

	// Database defaults
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.name", "triage")
	viper.SetDefault("database.user", "triage")
	viper.SetDefault("database.ssl_mode", "require")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", 300)

	// Redis defaults
	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.pool_size", 10)

	// Classifier defaults
	viper.SetDefault("classifier.provider", "http")
	viper.SetDefault("classifier.schema", "legacy")
	viper.SetDefault("classifier.timeout_sec", 30)
	viper.SetDefault("classifier.max_retries", 3)

	// Ranking defaults: simulated ambulance position and the km-scale
	// specialty bonus carried over from the production heuristic
	viper.SetDefault("ranking.origin_lat", 37.7700)
	viper.SetDefault("ranking.origin_lng", -122.4400)
	viper.SetDefault("ranking.specialty_bonus_km", 2.0)

	// JWT defaults
	viper.SetDefault("jwt.access_token_ttl", 3600)
	viper.SetDefault("jwt.issuer", "smart-ai-triage")

	// Monitoring defaults
	viper.SetDefault("monitoring.enabled", true)
	viper.SetDefault("monitoring.metrics_path", "/metrics")
	viper.SetDefault("monitoring.health_path", "/health")

	// Logging defaults
	viper.SetDefault("log_level", "info")
}

// overrideWithEnv overrides configuration with environment variables
func overrideWithEnv(config *Config) {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if jwtSecret := os.Getenv("JWT_SECRET_KEY"); jwtSecret != "" {
		config.JWT.SecretKey = jwtSecret
	}

	if apiKey := os.Getenv("CLASSIFIER_API_KEY"); apiKey != "" {
		config.Classifier.APIKey = apiKey
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		config.LogLevel = logLevel
	}
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	switch config.Classifier.Provider {
	case "http", "openai":
	default:
		return fmt.Errorf("unknown classifier provider: %s", config.Classifier.Provider)
	}

	switch config.Classifier.Schema {
	case "structured", "legacy":
	default:
		return fmt.Errorf("unknown classifier schema: %s", config.Classifier.Schema)
	}

	if config.Classifier.TimeoutSec <= 0 {
		return fmt.Errorf("classifier timeout must be positive")
	}

	if config.Ranking.SpecialtyBonusKm < 0 {
		return fmt.Errorf("specialty bonus must not be negative")
	}

	return nil
}
