// Package config loads runtime configuration for the hireportal client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables prefixed HIREPORTAL_, after loading a dotenv
//     file (-e/-env-file, or ./.env when present).
//  3. Optional JSON file selected with -c or -config.
//  4. Command-line flags -a, -s, -d, -r, -l, -t.
//
// # JSON schema
//
//	{
//	  "server_base_url": "http://localhost:8000/api/v1",
//	  "request_timeout": "10s",
//	  "storage_backend": "sqlite",
//	  "database_path": "hireportal.db",
//	  "login_notice_ttl": "5s",
//	  "register_notice_ttl": "4s",
//	  "redirect_delay": "1.5s",
//	  "log_backend": "zap"
//	}
//
// Durations accept Go duration strings or integer nanoseconds.
package config
