package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/graphiti-systems/graphiti/internal/models"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Engine    EngineConfig    `mapstructure:"engine"`
	Retention RetentionConfig `mapstructure:"retention"`
	Redis     RedisConfig     `mapstructure:"redis"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

type EngineConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	ArchiveBatchSize int           `mapstructure:"archive_batch_size"`
	DebounceInterval time.Duration `mapstructure:"debounce_interval"`
	MetricsHistory   int           `mapstructure:"metrics_history"`
}

type RetentionConfig struct {
	Period        string        `mapstructure:"period"`
	KeepCount     int           `mapstructure:"keep_count"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

type RedisConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
}

type NATSConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
	Subject string `mapstructure:"subject"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("server.port", 8095)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("engine.enabled", true)
	v.SetDefault("engine.archive_batch_size", 100)
	v.SetDefault("engine.debounce_interval", "200ms")
	v.SetDefault("engine.metrics_history", 300)
	v.SetDefault("retention.period", "unlimited")
	v.SetDefault("retention.keep_count", 100)
	v.SetDefault("retention.sweep_interval", "5m")
	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.url", "redis://localhost:6379/0")
	v.SetDefault("nats.enabled", false)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("nats.subject", "graphiti.events.>")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Read config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/graphiti")
	}

	// Environment variables override
	v.SetEnvPrefix("GRAPHITI")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found; use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects values the engine cannot run with.
func (c *Config) Validate() error {
	if c.Engine.ArchiveBatchSize <= 0 {
		return fmt.Errorf("engine.archive_batch_size must be positive, got %d", c.Engine.ArchiveBatchSize)
	}
	if c.Engine.MetricsHistory <= 0 {
		return fmt.Errorf("engine.metrics_history must be positive, got %d", c.Engine.MetricsHistory)
	}
	if !models.RetentionPeriod(c.Retention.Period).Valid() {
		return fmt.Errorf("retention.period %q is not one of 1h, 24h, 7d, 30d, 90d, unlimited", c.Retention.Period)
	}
	if c.Retention.KeepCount < 0 {
		return fmt.Errorf("retention.keep_count must be non-negative, got %d", c.Retention.KeepCount)
	}
	return nil
}
