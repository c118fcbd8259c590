package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Storage driver names accepted in STORAGE_DRIVER.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	AppName string
	Env     string
	Host    string
	Port    int

	StorageDriver string
	DataFile      string // memory driver snapshot path
	SQLitePath    string
	DatabaseURL   string // postgres driver

	CORSOrigins []string
	Debug       bool

	MaxAvatarBytes  int
	MaxMessageChars int
	DefaultPageSize int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppName: getEnv("APP_NAME", "naha2 chat API"),
		Env:     getEnv("APP_ENV", "development"),
		Host:    getEnv("HTTP_HOST", "0.0.0.0"),
		Port:    getEnvAsInt("HTTP_PORT", 5000),

		StorageDriver: getEnv("STORAGE_DRIVER", DriverMemory),
		DataFile:      getEnv("DATA_FILE", "chat-data.json"),
		SQLitePath:    getEnv("SQLITE_PATH", "chat.db"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),

		Debug: getEnvAsBool("DEBUG", true),

		MaxAvatarBytes:  getEnvAsInt("MAX_AVATAR_BYTES", 1<<20),
		MaxMessageChars: getEnvAsInt("MAX_MESSAGE_CHARS", 500),
		DefaultPageSize: getEnvAsInt("DEFAULT_PAGE_SIZE", 50),
	}

	switch cfg.StorageDriver {
	case DriverMemory, DriverSQLite:
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for the postgres driver")
		}
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	cors := getEnv("CORS_ORIGINS", "")
	if cors != "" {
		parts := strings.Split(cors, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		cfg.CORSOrigins = parts
	} else {
		cfg.CORSOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}

	return cfg, nil
}

func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvAsInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getEnvAsBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
