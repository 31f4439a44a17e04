package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"reelist/utils"
)

// Storage backend selectors.
const (
	BackendSQL   = "sql"
	BackendLocal = "local"
)

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Addr      string
	PublicURL string
}

// CatalogConfig holds credentials and endpoints for the external movie
// catalog.
type CatalogConfig struct {
	BaseURL      string
	APIKey       string
	ImageBaseURL string
	Timeout      time.Duration
}

// StorageConfig selects and parameterizes the watchlist backend.
type StorageConfig struct {
	Backend string // "sql" or "local"
	Driver  string // "sqlite3" or "postgres", sql backend only
	DSN     string // database path (sqlite) or connection string (postgres)
	DataDir string // directory for local-mode watchlist files
}

// AuthConfig holds session signing settings.
type AuthConfig struct {
	Secret         string
	AvatarDir      string
	TokenDuration  time.Duration
	CookieDuration time.Duration
}

// LogConfig holds logging output settings. File is optional; when set the
// log is rotated with lumberjack.
type LogConfig struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
}

// Settings is the full runtime configuration, read once at startup.
type Settings struct {
	Server  ServerConfig
	Catalog CatalogConfig
	Storage StorageConfig
	Auth    AuthConfig
	Log     LogConfig
}

// Load reads settings from the environment, with a best-effort .env file.
// TMDB_API_KEY is the only hard requirement; everything else has a usable
// default. An unset AUTH_SECRET gets a random one, which invalidates
// sessions across restarts.
func Load() (*Settings, error) {
	_ = godotenv.Load()

	apiKey := os.Getenv("TMDB_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("TMDB_API_KEY is required")
	}

	secret := os.Getenv("AUTH_SECRET")
	if secret == "" {
		generated, err := utils.GenerateSecret()
		if err != nil {
			return nil, fmt.Errorf("generate auth secret: %w", err)
		}
		secret = generated
	}

	backend := getenv("WATCHLIST_BACKEND", BackendSQL)
	if backend != BackendSQL && backend != BackendLocal {
		return nil, fmt.Errorf("invalid WATCHLIST_BACKEND %q (want %q or %q)", backend, BackendSQL, BackendLocal)
	}

	driver := getenv("DB_DRIVER", "sqlite3")
	if driver != "sqlite3" && driver != "postgres" {
		return nil, fmt.Errorf("invalid DB_DRIVER %q (want sqlite3 or postgres)", driver)
	}

	s := &Settings{
		Server: ServerConfig{
			Addr:      getenv("LISTEN_ADDR", ":8080"),
			PublicURL: getenv("PUBLIC_URL", "http://localhost:8080"),
		},
		Catalog: CatalogConfig{
			BaseURL:      getenv("TMDB_BASE_URL", "https://api.themoviedb.org/3"),
			APIKey:       apiKey,
			ImageBaseURL: getenv("TMDB_IMAGE_BASE_URL", "https://image.tmdb.org/t/p"),
			Timeout:      getenvDuration("CATALOG_TIMEOUT", 10*time.Second),
		},
		Storage: StorageConfig{
			Backend: backend,
			Driver:  driver,
			DSN:     getenv("DB_DSN", "./data/reelist.db"),
			DataDir: getenv("LOCAL_DATA_DIR", "./data/watchlists"),
		},
		Auth: AuthConfig{
			Secret:         secret,
			AvatarDir:      getenv("AVATAR_DIR", "./data/avatars"),
			TokenDuration:  getenvDuration("TOKEN_TTL", time.Hour),
			CookieDuration: getenvDuration("COOKIE_TTL", 7*24*time.Hour),
		},
		Log: LogConfig{
			Level:      getenv("LOG_LEVEL", "info"),
			File:       os.Getenv("LOG_FILE"),
			MaxSizeMB:  getenvInt("LOG_MAX_SIZE_MB", 20),
			MaxBackups: getenvInt("LOG_MAX_BACKUPS", 3),
		},
	}
	return s, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
