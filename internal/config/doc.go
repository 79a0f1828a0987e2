// Package config loads hearth's configuration.
//
// # Resolution Order
//
// Load builds a Config in layers, later layers winning:
//
//  1. Built-in defaults
//  2. The TOML file (~/.config/hearth/config.toml unless a path is given;
//     a missing file is not an error)
//  3. A .env file in the working directory, read with godotenv
//  4. The process environment
//
// Only the API URL, request timeout, log level and refresh interval can be
// overridden from the environment (HEARTH_API_URL, HEARTH_REQUEST_TIMEOUT,
// HEARTH_LOG_LEVEL, HEARTH_REFRESH_EVERY). The .env file never modifies the
// process environment.
//
// # TOML Format
//
//	api_url = "http://127.0.0.1:8090"
//	request_timeout = "5s"
//	token_path = "~/.local/state/hearth/token.toml"
//	log_path = "~/.local/state/hearth/hearth.log"
//	log_level = "info"
//	refresh_every = "2m"
//
// Every field is optional. Empty or whitespace-only values fall back to the
// defaults shown. Durations use time.ParseDuration syntax; refresh_every may
// be "0s" to disable background refresh. Paths get tilde expansion and are
// made absolute.
//
// # Errors
//
// Load fails on unreadable files, invalid TOML, and values that do not
// parse (negative durations, unknown log levels). Errors are wrapped with
// the stage that failed ("open config", "parse config", ...).
package config
