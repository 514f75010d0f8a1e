package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// RateBudget is a per-endpoint-class request budget.
type RateBudget struct {
	MaxRequests   int   `yaml:"max_requests"`
	WindowSeconds int64 `yaml:"window_seconds"`
}

// Window returns the budget window as a duration.
func (b RateBudget) Window() time.Duration {
	return time.Duration(b.WindowSeconds) * time.Second
}

// Config holds the application's configuration.
type Config struct {
	Server struct {
		Port                  string `yaml:"port"`
		RequestTimeoutSeconds int64  `yaml:"request_timeout_seconds"`
	} `yaml:"server"`
	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`
	Model struct {
		Path          string `yaml:"path"`
		MaxConcurrent int    `yaml:"max_concurrent"`
	} `yaml:"model"`
	Limits struct {
		Predict RateBudget `yaml:"predict"`
		Batch   RateBudget `yaml:"batch"`
	} `yaml:"limits"`
	Cache struct {
		StatsTTLSeconds  int64 `yaml:"stats_ttl_seconds"`
		RecentTTLSeconds int64 `yaml:"recent_ttl_seconds"`
	} `yaml:"cache"`
	Auth struct {
		JWTSecret     string `yaml:"jwt_secret"`
		TokenTTLHours int64  `yaml:"token_ttl_hours"`
	} `yaml:"auth"`
}

// RequestTimeout returns the total per-request processing timeout.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Server.RequestTimeoutSeconds) * time.Second
}

// StatsTTL returns the statistics cache time-to-live.
func (c *Config) StatsTTL() time.Duration {
	return time.Duration(c.Cache.StatsTTLSeconds) * time.Second
}

// RecentTTL returns the recent-listing cache time-to-live.
func (c *Config) RecentTTL() time.Duration {
	return time.Duration(c.Cache.RecentTTLSeconds) * time.Second
}

// TokenTTL returns the JWT lifetime.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenTTLHours) * time.Hour
}

// LoadConfig reads configuration from the specified YAML file.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	applyDefaults(config)

	return config, nil
}

func applyDefaults(c *Config) {
	if c.Server.Port == "" {
		c.Server.Port = ":5000"
	}
	if c.Server.RequestTimeoutSeconds == 0 {
		c.Server.RequestTimeoutSeconds = 30
	}
	if c.Model.MaxConcurrent == 0 {
		c.Model.MaxConcurrent = 8
	}
	if c.Limits.Predict.MaxRequests == 0 {
		c.Limits.Predict = RateBudget{MaxRequests: 30, WindowSeconds: 60}
	}
	if c.Limits.Batch.MaxRequests == 0 {
		c.Limits.Batch = RateBudget{MaxRequests: 5, WindowSeconds: 60}
	}
	if c.Cache.StatsTTLSeconds == 0 {
		c.Cache.StatsTTLSeconds = 300
	}
	if c.Cache.RecentTTLSeconds == 0 {
		c.Cache.RecentTTLSeconds = 60
	}
	if c.Auth.TokenTTLHours == 0 {
		c.Auth.TokenTTLHours = 24
	}
}
