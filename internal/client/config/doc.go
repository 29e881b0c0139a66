// Package config loads runtime configuration for the ThonHub terminal client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Environment variables (THONHUB_*), after an optional .env file has been
//     loaded by the caller.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-u string   base URL of the ThonHub API
//	-t int      request timeout (seconds)
//	-d string   path of the SQLite credential database
//	-l string   log level (debug, info, warn, error)
//
// # JSON schema
//
// Durations use timex.Duration, so "20s" and integer nanoseconds both work:
//
//	{
//	  "api_base_url": "http://localhost:5000",
//	  "request_timeout": "20s",
//	  "credentials_db": "thonhub.db",
//	  "log_level": "info"
//	}
package config
