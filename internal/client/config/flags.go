package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/hireportal/internal/flagx"
)

// parseFlags overlays Config with command-line flags:
//
//	-a string   Identity Service base URL
//	-s string   storage backend (sqlite, redis, memory)
//	-d string   SQLite database path
//	-r string   Redis URL
//	-l string   log level
//	-t duration request timeout
//
// Only these flags are looked at; see flagx.FilterArgs.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-s", "-d", "-r", "-l", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerBaseURL, "a", cfg.ServerBaseURL, "identity service base url")
	fs.StringVar(&cfg.StorageBackend, "s", cfg.StorageBackend, "token storage backend: sqlite, redis or memory")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "sqlite database path")
	fs.StringVar(&cfg.RedisURL, "r", cfg.RedisURL, "redis url")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level: debug, info, warn, error")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "identity service request timeout")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
