// Package config provides runtime configuration for the storefront demo,
// read from environment variables with sane defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
)

const (
	defaultAddr          = ":8080"
	defaultStore         = StoreMemory
	defaultSQLitePath    = "storefront.db"
	defaultRedisAddr     = "localhost:6379"
	defaultRedisDB       = 0
	defaultTokenLifetime = 24 * time.Hour
	defaultDelay         = 0

	minRedisDB = 0
	maxRedisDB = 15
)

type Config struct {
	Addr          string
	Store         string
	SQLitePath    string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TokenLifetime time.Duration
	// SimulatedDelay is applied to session and catalog operations to make
	// the demo feel like a remote API. Zero disables it.
	SimulatedDelay time.Duration
	Debug          bool
}

// FromEnv builds a configuration from STOREFRONT_* environment variables.
func FromEnv() (*Config, error) {
	cfg := Config{
		Addr:           getEnvOrDefault("STOREFRONT_ADDR", defaultAddr),
		Store:          getEnvOrDefault("STOREFRONT_STORE", defaultStore),
		SQLitePath:     getEnvOrDefault("STOREFRONT_SQLITE_PATH", defaultSQLitePath),
		RedisAddr:      getEnvOrDefault("STOREFRONT_REDIS_ADDR", defaultRedisAddr),
		RedisPassword:  os.Getenv("STOREFRONT_REDIS_PASSWORD"),
		RedisDB:        getEnvInt("STOREFRONT_REDIS_DB", defaultRedisDB),
		TokenLifetime:  getEnvDuration("STOREFRONT_TOKEN_LIFETIME", defaultTokenLifetime),
		SimulatedDelay: getEnvDuration("STOREFRONT_SIMULATED_DELAY", defaultDelay),
		Debug:          getEnvBool("STOREFRONT_DEBUG"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Store {
	case StoreMemory, StoreSQLite, StoreRedis:
	default:
		return fmt.Errorf("invalid store backend %q (want %s, %s or %s)",
			c.Store, StoreMemory, StoreSQLite, StoreRedis)
	}

	if c.RedisDB < minRedisDB || c.RedisDB > maxRedisDB {
		return fmt.Errorf("redis DB must be between %d and %d", minRedisDB, maxRedisDB)
	}

	if c.TokenLifetime <= 0 {
		return fmt.Errorf("token lifetime must be positive")
	}

	if c.SimulatedDelay < 0 {
		return fmt.Errorf("simulated delay cannot be negative")
	}

	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}

	parsed, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue
	}

	return parsed
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}

	parsed, err := time.ParseDuration(v)
	if err != nil {
		return defaultValue
	}

	return parsed
}

func getEnvBool(key string) bool {
	v := os.Getenv(key)

	return v == "1" || v == "true" || v == "TRUE"
}
