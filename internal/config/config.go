package config

import (
	"fmt"
	"net/url"
	"os"

	"github.com/joho/godotenv"
)

// Store backends accepted in CHATSEED_STORE.
const (
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

type Config struct {
	Environment   string
	StoreBackend  string
	DBHost        string
	DBPort        string
	DBUsername    string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	SQLitePath    string
	MigrationsDir string
}

func NewConfig() (*Config, error) {
	env := os.Getenv("CHATSEED_ENV")
	if env == "" {
		env = "development"
	}

	if env == "development" {
		if err := godotenv.Load(); err != nil {
			fmt.Println("Warning: .env file not found, using environment variables")
		}
	}

	config := &Config{
		Environment:   env,
		StoreBackend:  getEnvOrDefault("CHATSEED_STORE", StorePostgres),
		DBHost:        getEnvOrDefault("CHATSEED_DB_HOST", "localhost"),
		DBPort:        getEnvOrDefault("CHATSEED_DB_PORT", "5432"),
		DBUsername:    getEnvOrDefault("CHATSEED_DB_USER", "chatseed"),
		DBPassword:    os.Getenv("CHATSEED_DB_PASSWORD"),
		DBName:        getEnvOrDefault("CHATSEED_DB_NAME", "chatseed"),
		DBSSLMode:     getEnvOrDefault("CHATSEED_DB_SSLMODE", "disable"),
		SQLitePath:    getEnvOrDefault("CHATSEED_SQLITE_PATH", "chatseed.db"),
		MigrationsDir: getEnvOrDefault("CHATSEED_MIGRATIONS_DIR", "migrations"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) Validate() error {
	switch c.StoreBackend {
	case StorePostgres:
		if c.DBPassword == "" {
			return fmt.Errorf("CHATSEED_DB_PASSWORD is required")
		}
	case StoreSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("CHATSEED_SQLITE_PATH is required")
		}
	default:
		return fmt.Errorf("CHATSEED_STORE must be %q or %q, got %q", StorePostgres, StoreSQLite, c.StoreBackend)
	}

	return nil
}

// GetDatabaseURL returns the postgres:// URL with the credentials escaped.
func (c *Config) GetDatabaseURL() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUsername, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.DBSSLMode),
	}
	return u.String()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
