// Package config loads application configuration from environment
// variables and an optional .env file, with defaults declared as struct
// tags on each partial config (server, storage, log, database).
package config
