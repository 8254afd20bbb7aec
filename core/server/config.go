package server

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	ApiKey string `mapstructure:"api_key" default:""`
	// Consortium is the consortium release track the service curates.
	Consortium string `mapstructure:"consortium" default:"genie"`
	// Centers is the comma-separated list of contributing center codes.
	Centers string `mapstructure:"centers" default:""`
	// CacheTTLSeconds is how long table snapshots are cached for
	// dashboard reads. Zero disables caching.
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds" default:"60"`
}
