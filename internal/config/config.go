package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Outbox    OutboxConfig
}

type ServerConfig struct {
	Port           int `mapstructure:"port"`
	TimeoutSeconds int `mapstructure:"timeoutSeconds"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpiryHours int    `mapstructure:"expiry_hours"`
}

type RedisConfig struct {
	URL          string `mapstructure:"url"`
	MaxRetries   int    `mapstructure:"max_retries"`
	PoolSize     int    `mapstructure:"pool_size"`
	MinIdleConns int    `mapstructure:"min_idle_conns"`
}

type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

type OutboxConfig struct {
	BatchSize           int `mapstructure:"batch_size"`
	PollIntervalSeconds int `mapstructure:"poll_interval_seconds"`
	MaxRetries          int `mapstructure:"max_retries"`
	RetryDelaySeconds   int `mapstructure:"retry_delay_seconds"`
}

func (o OutboxConfig) PollInterval() time.Duration {
	return time.Duration(o.PollIntervalSeconds) * time.Second
}

func (o OutboxConfig) RetryDelay() time.Duration {
	return time.Duration(o.RetryDelaySeconds) * time.Second
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// WorkerEnv holds deployment overrides for the worker binary, which runs in
// environments where only env vars are writable.
type WorkerEnv struct {
	DatabaseHost string `envconfig:"WORKER_DB_HOST"`
	DatabaseName string `envconfig:"WORKER_DB_NAME"`
	RedisURL     string `envconfig:"WORKER_REDIS_URL"`
	MetricsPort  int    `envconfig:"WORKER_METRICS_PORT" default:"8081"`
}

// LoadWorkerConfig layers env overrides on top of the shared config file.
func LoadWorkerConfig() (*Config, *WorkerEnv, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	var env WorkerEnv
	if err := envconfig.Process("", &env); err != nil {
		return nil, nil, fmt.Errorf("failed to process worker env: %w", err)
	}

	if env.DatabaseHost != "" {
		cfg.Database.Host = env.DatabaseHost
	}
	if env.DatabaseName != "" {
		cfg.Database.Name = env.DatabaseName
	}
	if env.RedisURL != "" {
		cfg.Redis.URL = env.RedisURL
	}

	return cfg, &env, nil
}
