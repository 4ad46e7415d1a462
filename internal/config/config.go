package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config 应用配置
type Config struct {
	Port          string
	DBPath        string
	JWTSecret     string
	PopulationCSV string
	LogLevel      string

	// Path-generation service
	UpstreamURL     string
	UpstreamTimeout time.Duration // 0 means no timeout

	// Initial map camera
	MapCenterLat float64
	MapCenterLng float64
	MapZoom      int

	RateLimitPerMinute int
	SessionTTL         time.Duration
}

// Load 加载配置. Values in a .env file in the working directory are used
// when the variable is not already set.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:               getEnv("PORT", ":8080"),
		DBPath:             getEnv("DB_PATH", "./data/qpath.db"),
		JWTSecret:          getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		PopulationCSV:      getEnv("POPULATION_CSV", "./data/nyc_pop_data.csv"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		UpstreamURL:        getEnv("UPSTREAM_URL", "http://127.0.0.1:80"),
		UpstreamTimeout:    time.Duration(getIntEnv("UPSTREAM_TIMEOUT_SECONDS", 0)) * time.Second,
		MapCenterLat:       getFloatEnv("MAP_CENTER_LAT", 40.7431),
		MapCenterLng:       getFloatEnv("MAP_CENTER_LNG", -73.991321),
		MapZoom:            getIntEnv("MAP_ZOOM", 13),
		RateLimitPerMinute: getIntEnv("RATE_LIMIT_PER_MINUTE", 60),
		SessionTTL:         time.Duration(getIntEnv("SESSION_TTL_HOURS", 24)) * time.Hour,
	}
}

// Validate checks the values Load could not default sensibly
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT must not be empty")
	}
	if c.UpstreamURL == "" {
		return errors.New("UPSTREAM_URL must not be empty")
	}
	if c.UpstreamTimeout < 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT_SECONDS must not be negative: %s", c.UpstreamTimeout)
	}
	if c.MapZoom < 0 || c.MapZoom > 22 {
		return fmt.Errorf("MAP_ZOOM out of range: %d", c.MapZoom)
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive: %d", c.RateLimitPerMinute)
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL_HOURS must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
