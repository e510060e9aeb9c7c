package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/hireportal/internal/flagx"
	"github.com/dmitrijs2005/hireportal/internal/timex"
)

// JsonConfig is the on-disk JSON shape. Durations use timex.Duration, so
// "1.5s" and integer nanoseconds are both accepted. Absent keys keep the
// value from earlier sources.
type JsonConfig struct {
	ServerBaseURL  string          `json:"server_base_url"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	RestoreRetries *uint64         `json:"restore_retries"`

	StorageBackend string `json:"storage_backend"`
	DatabasePath   string `json:"database_path"`
	RedisURL       string `json:"redis_url"`
	RedisKey       string `json:"redis_key"`

	LoginNoticeTTL    *timex.Duration `json:"login_notice_ttl"`
	RegisterNoticeTTL *timex.Duration `json:"register_notice_ttl"`
	RedirectDelay     *timex.Duration `json:"redirect_delay"`
	DashboardPath     string          `json:"dashboard_path"`
	LoginPath         string          `json:"login_path"`

	LogLevel   string `json:"log_level"`
	LogBackend string `json:"log_backend"`
	LogFormat  string `json:"log_format"`
}

// parseJson overlays Config with the JSON file named by -c or -config.
// Read or decode errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigPath(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	jc.apply(cfg)
}

func (jc *JsonConfig) apply(cfg *Config) {
	setString(&cfg.ServerBaseURL, jc.ServerBaseURL)
	setString(&cfg.StorageBackend, jc.StorageBackend)
	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.RedisURL, jc.RedisURL)
	setString(&cfg.RedisKey, jc.RedisKey)
	setString(&cfg.DashboardPath, jc.DashboardPath)
	setString(&cfg.LoginPath, jc.LoginPath)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogBackend, jc.LogBackend)
	setString(&cfg.LogFormat, jc.LogFormat)

	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.RestoreRetries != nil {
		cfg.RestoreRetries = *jc.RestoreRetries
	}
	if jc.LoginNoticeTTL != nil {
		cfg.LoginNoticeTTL = jc.LoginNoticeTTL.Duration
	}
	if jc.RegisterNoticeTTL != nil {
		cfg.RegisterNoticeTTL = jc.RegisterNoticeTTL.Duration
	}
	if jc.RedirectDelay != nil {
		cfg.RedirectDelay = jc.RedirectDelay.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
