package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Config holds all chargehub settings.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"CHARGEHUB_HTTP_PORT"`
	} `yaml:"http"`
	Database struct {
		DSN string `yaml:"dsn" env:"CHARGEHUB_POSTGRES_DSN"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr" env:"CHARGEHUB_REDIS_ADDR"`
		Password string `yaml:"password" env:"CHARGEHUB_REDIS_PASSWORD"`
		TTL      int    `yaml:"ttlSeconds" env:"CHARGEHUB_REDIS_TTL"`
	} `yaml:"redis"`
	Auth struct {
		JWTSecret    string `yaml:"jwtSecret" env:"CHARGEHUB_JWT_SECRET"`
		TokenTTLMins int    `yaml:"tokenTtlMinutes" env:"CHARGEHUB_TOKEN_TTL_MINUTES"`
		BcryptCost   int    `yaml:"bcryptCost" env:"CHARGEHUB_BCRYPT_COST"`
	} `yaml:"auth"`
	Broadcast struct {
		IntervalSecs int `yaml:"intervalSeconds" env:"CHARGEHUB_BROADCAST_INTERVAL"`
	} `yaml:"broadcast"`
}

// Load reads configuration from the optional YAML file and environment.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = "8080"
	cfg.Redis.Addr = "localhost:6379"
	cfg.Redis.TTL = 86400
	cfg.Auth.TokenTTLMins = 60
	cfg.Broadcast.IntervalSecs = 5

	if err := hydrate(cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return nil, errors.New("config: database dsn required")
	}
	if strings.TrimSpace(cfg.Redis.Addr) == "" {
		return nil, errors.New("config: redis addr required")
	}
	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		return nil, errors.New("config: jwt secret required")
	}
	return cfg, nil
}

// HTTPAddress returns :port style listen address.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// TokenTTL returns JWT lifetime as duration.
func (c *Config) TokenTTL() time.Duration {
	if c.Auth.TokenTTLMins <= 0 {
		return time.Hour
	}
	return time.Duration(c.Auth.TokenTTLMins) * time.Minute
}

// ActiveSessionTTL returns cache entry lifetime.
func (c *Config) ActiveSessionTTL() time.Duration {
	if c.Redis.TTL <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.Redis.TTL) * time.Second
}

// BroadcastInterval returns the status push period.
func (c *Config) BroadcastInterval() time.Duration {
	if c.Broadcast.IntervalSecs <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.Broadcast.IntervalSecs) * time.Second
}
