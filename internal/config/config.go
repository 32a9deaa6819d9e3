package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Backend selection values for DATA_BACKEND.
const (
	BackendLocal  = "local"
	BackendRemote = "remote"
	BackendMemory = "memory"
)

type Config struct {
	// HTTP Server
	Port string

	// Local storage
	SQLiteDBPath string

	// Remote store (backend-as-a-service). Both must be set for the remote
	// backend to function; missing values degrade the app instead of
	// crashing it.
	RemoteURL     string
	RemoteAnonKey string

	// Session cookie carrying the remote auth tokens.
	SessionCookieName string

	// Backend selection
	DataBackend string

	// DefaultLocale seeds first-run settings when the store has none.
	DefaultLocale string
}

func Load() *Config {
	return &Config{
		Port:              getEnv("PORT", "8080"),
		SQLiteDBPath:      getEnv("SQLITE_DB_PATH", "./data/carbon-purse.db"),
		RemoteURL:         getEnv("SUPABASE_URL", ""),
		RemoteAnonKey:     getEnv("SUPABASE_ANON_KEY", ""),
		SessionCookieName: getEnv("SESSION_COOKIE_NAME", "cp_session"),
		DataBackend:       getEnv("DATA_BACKEND", BackendLocal),
		DefaultLocale:     getEnv("DEFAULT_LOCALE", "en-US"),
	}
}

// RemoteConfigured reports whether both remote environment values are
// present. When they are not, the remote variant runs degraded: a warning
// banner plus a non-functional store, never a startup failure.
func (c *Config) RemoteConfigured() bool {
	return c.RemoteURL != "" && c.RemoteAnonKey != ""
}

// Validate checks the configuration, collecting every problem into one error.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.DataBackend {
	case BackendLocal, BackendRemote, BackendMemory:
	default:
		problems = append(problems, fmt.Sprintf("invalid data backend '%s': must be one of [local remote memory]", c.DataBackend))
	}

	if c.DataBackend == BackendLocal || c.DataBackend == BackendRemote {
		if c.SQLiteDBPath == "" {
			problems = append(problems, "SQLite database path cannot be empty")
		} else if dir := filepath.Dir(c.SQLiteDBPath); dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					problems = append(problems, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	}

	// Remote URL must at least parse when provided; absence is handled by
	// the degraded mode, not by validation.
	if c.RemoteURL != "" {
		if u, err := url.Parse(c.RemoteURL); err != nil {
			problems = append(problems, fmt.Sprintf("invalid remote URL '%s': %v", c.RemoteURL, err))
		} else if u.Scheme != "http" && u.Scheme != "https" {
			problems = append(problems, fmt.Sprintf("invalid remote URL scheme '%s': must be 'http' or 'https'", u.Scheme))
		}
	}

	if c.SessionCookieName == "" {
		problems = append(problems, "session cookie name cannot be empty")
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
