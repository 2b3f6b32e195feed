package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type DatabaseConfig struct {
	URL   string
	Debug bool
}

type CacheConfig struct {
	RedisURL string
	TTL      time.Duration
	Prefix   string
}

type LogConfig struct {
	Level  string
	Format string
}

// Config holds everything the store needs from the environment.
type Config struct {
	Database DatabaseConfig
	Cache    CacheConfig
	Log      LogConfig
}

// Load reads an optional .env file (or the given paths) and then the
// environment. Variables already set in the environment win over the file.
func Load(envPath ...string) (*Config, error) {
	if err := godotenv.Load(envPath...); err != nil && len(envPath) > 0 {
		return nil, fmt.Errorf("could not load env file %v: %w", envPath, err)
	}

	cfg := &Config{}

	cfg.Database.URL = os.Getenv("DATABASE_URL")
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL not set in environment or .env file")
	}
	cfg.Database.Debug = getEnvAsBool("DB_DEBUG", false)

	cfg.Cache.RedisURL = os.Getenv("REDIS_URL")
	cfg.Cache.TTL = getEnvAsDuration("CACHE_TTL", 10*time.Minute)
	cfg.Cache.Prefix = getEnvAsString("CACHE_PREFIX", "ams")

	cfg.Log.Level = getEnvAsString("LOG_LEVEL", "info")
	cfg.Log.Format = getEnvAsString("LOG_FORMAT", "text")

	return cfg, nil
}

func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as bool: %v. Using default value: %t\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valBool
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	d, err := time.ParseDuration(valStr)
	if err != nil || d < 0 {
		log.Printf("Warning: Environment variable %s (value: %s) is not a valid duration. Using default value: %s\n", key, valStr, defaultValue)
		return defaultValue
	}
	return d
}
