package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Storage backends for the token pair.
const (
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

// Config holds runtime settings for the hireportal client.
type Config struct {
	// ServerBaseURL is the Identity Service API root, e.g. http://localhost:8000/api/v1.
	ServerBaseURL  string
	RequestTimeout time.Duration
	// RestoreRetries bounds retries of the startup "who am I" call on transport errors.
	RestoreRetries uint64

	StorageBackend string
	DatabasePath   string
	RedisURL       string
	RedisKey       string

	LoginNoticeTTL    time.Duration
	RegisterNoticeTTL time.Duration
	RedirectDelay     time.Duration
	DashboardPath     string
	LoginPath         string

	LogLevel   string
	LogBackend string
	LogFormat  string
}

// LoadDefaults populates c with defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://localhost:8000/api/v1"
	c.RequestTimeout = 10 * time.Second
	c.RestoreRetries = 2

	c.StorageBackend = StorageSQLite
	c.DatabasePath = "hireportal.db"
	c.RedisURL = "redis://localhost:6379/0"
	c.RedisKey = "hireportal:session"

	c.LoginNoticeTTL = 5 * time.Second
	c.RegisterNoticeTTL = 4 * time.Second
	c.RedirectDelay = 1500 * time.Millisecond
	c.DashboardPath = "/dashboard"
	c.LoginPath = "/login"

	c.LogLevel = "info"
	c.LogBackend = "slog"
	c.LogFormat = "text"
}

// Validate reports settings that cannot work.
func (c *Config) Validate() error {
	var errs []error
	if c.ServerBaseURL == "" {
		errs = append(errs, errors.New("server base url is empty"))
	}
	switch c.StorageBackend {
	case StorageSQLite, StorageRedis, StorageMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown storage backend %q", c.StorageBackend))
	}
	if c.StorageBackend == StorageSQLite && c.DatabasePath == "" {
		errs = append(errs, errors.New("database path is empty"))
	}
	if c.StorageBackend == StorageRedis && c.RedisURL == "" {
		errs = append(errs, errors.New("redis url is empty"))
	}
	for name, d := range map[string]time.Duration{
		"request timeout":     c.RequestTimeout,
		"login notice ttl":    c.LoginNoticeTTL,
		"register notice ttl": c.RegisterNoticeTTL,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive", name))
		}
	}
	if c.RedirectDelay < 0 {
		errs = append(errs, errors.New("redirect delay must not be negative"))
	}
	if !strings.HasPrefix(c.DashboardPath, "/") || !strings.HasPrefix(c.LoginPath, "/") {
		errs = append(errs, errors.New("navigation paths must start with /"))
	}
	return errors.Join(errs...)
}

// LoadConfig builds a Config from defaults, then the environment (and an
// optional dotenv file), then a JSON file, then flags. Later sources win.
// Malformed input panics, as with the flag package's PanicOnError.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
