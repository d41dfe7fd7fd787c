// Package config provides environment-based configuration.
//
// Loads from .env file (godotenv) and plain environment variables with
// sensible defaults. The only hard requirement is a reachable Redis, which
// is validated at startup, not here.
package config
