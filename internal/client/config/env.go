package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/dmitrijs2005/hireportal/internal/flagx"
)

// EnvPrefix prefixes every environment variable read by parseEnv.
const EnvPrefix = "HIREPORTAL_"

const defaultEnvFile = ".env"

// parseEnv loads a dotenv file into the process environment (variables
// already set are kept) and overlays Config with HIREPORTAL_* variables.
//
// The file is taken from -e/-env-file; without the flag ".env" is read if it
// exists.
func parseEnv(cfg *Config) {
	path := flagx.EnvFilePath(os.Args[1:])
	explicit := path != ""
	if !explicit {
		path = defaultEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			panic(err)
		}
	}

	strs := map[string]*string{
		"SERVER_URL":     &cfg.ServerBaseURL,
		"STORAGE":        &cfg.StorageBackend,
		"DB_PATH":        &cfg.DatabasePath,
		"REDIS_URL":      &cfg.RedisURL,
		"REDIS_KEY":      &cfg.RedisKey,
		"DASHBOARD_PATH": &cfg.DashboardPath,
		"LOGIN_PATH":     &cfg.LoginPath,
		"LOG_LEVEL":      &cfg.LogLevel,
		"LOG_BACKEND":    &cfg.LogBackend,
		"LOG_FORMAT":     &cfg.LogFormat,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok && v != "" {
			*dst = v
		}
	}

	durations := map[string]*time.Duration{
		"REQUEST_TIMEOUT":     &cfg.RequestTimeout,
		"LOGIN_NOTICE_TTL":    &cfg.LoginNoticeTTL,
		"REGISTER_NOTICE_TTL": &cfg.RegisterNoticeTTL,
		"REDIRECT_DELAY":      &cfg.RedirectDelay,
	}
	for key, dst := range durations {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				panic(err)
			}
			*dst = d
		}
	}

	if v, ok := os.LookupEnv(EnvPrefix + "RESTORE_RETRIES"); ok && v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			panic(err)
		}
		cfg.RestoreRetries = n
	}
}
