package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/Annany2002/bookshelf-backend/internal/logger"
)

var (
	customLog = logger.NewLogger()

	// ErrUnsupportedDatabaseURL is returned when DATABASE_URL names a backend other than SQLite.
	ErrUnsupportedDatabaseURL = errors.New("unsupported DATABASE_URL")
)

// MemoryDatabase is the DatabasePath value selecting an in-memory store.
const MemoryDatabase = ":memory:"

// Config holds application configuration values
type Config struct {
	DatabaseURL          string   `env:"DATABASE_URL"            envDefault:"sqlite:///db.sqlite"`
	ServerPort           string   `env:"SERVER_PORT"             envDefault:"8080"`
	GinMode              string   `env:"GIN_MODE"                envDefault:"debug"`
	LogLevel             string   `env:"LOG_LEVEL"               envDefault:"info"`
	CORSAllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS"    envDefault:"*" envSeparator:","`
	RateLimitPerMinute   int      `env:"RATE_LIMIT_PER_MINUTE"   envDefault:"0"`
	AdminSecret          string   `env:"ADMIN_SECRET"`
	RequireAuthForWrites bool     `env:"REQUIRE_AUTH_FOR_WRITES" envDefault:"false"`

	// DatabasePath is derived from DatabaseURL: a file path or MemoryDatabase.
	DatabasePath string
}

// LoadConfig loads configuration from environment variables.
// It uses a .env file for local development if present (ignored in production).
func LoadConfig() (*Config, error) {
	customLog.Println("Loading configuration from environment variables...")

	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			customLog.Warnf("Warning: Error loading .env file: %v", err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		customLog.Warnf("Invalid LOG_LEVEL '%s', keeping info: %v", cfg.LogLevel, err)
	}

	if cfg.RateLimitPerMinute < 0 {
		customLog.Warnf("Invalid RATE_LIMIT_PER_MINUTE %d. Disabling rate limiting.", cfg.RateLimitPerMinute)
		cfg.RateLimitPerMinute = 0
	}

	dbPath, err := ParseDatabaseURL(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	cfg.DatabasePath = dbPath

	if cfg.AdminSecret == "" {
		customLog.Warnln("ADMIN_SECRET is not set: anyone can generate API keys")
	}

	customLog.Printf("Configuration loaded successfully. Port: %s, Database: %s", cfg.ServerPort, cfg.DatabasePath)
	return &cfg, nil
}

// ParseDatabaseURL turns a SQLAlchemy-style SQLite URL into a file path.
//
//	sqlite://               -> in-memory
//	sqlite:///:memory:      -> in-memory
//	sqlite:///db.sqlite     -> db.sqlite (relative)
//	sqlite:////var/db.sqlite -> /var/db.sqlite
//	./data/db.sqlite        -> ./data/db.sqlite
func ParseDatabaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: empty value", ErrUnsupportedDatabaseURL)
	}

	scheme, rest, found := strings.Cut(raw, "://")
	if !found {
		// Plain file path.
		return raw, nil
	}

	// Driver suffixes such as sqlite+pysqlite are accepted as plain sqlite.
	dialect, _, _ := strings.Cut(strings.ToLower(scheme), "+")
	if dialect != "sqlite" && dialect != "sqlite3" {
		return "", fmt.Errorf("%w: scheme %q (only sqlite is supported)", ErrUnsupportedDatabaseURL, scheme)
	}

	if rest == "" || rest == "/" {
		return MemoryDatabase, nil
	}
	if !strings.HasPrefix(rest, "/") {
		return "", fmt.Errorf("%w: sqlite URLs take no host, got %q", ErrUnsupportedDatabaseURL, raw)
	}

	path := strings.TrimPrefix(rest, "/")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == "" || path == MemoryDatabase {
		return MemoryDatabase, nil
	}
	return path, nil
}
