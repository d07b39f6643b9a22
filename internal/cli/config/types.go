// Package config provides configuration management for the dbcomp CLI.
//
// Configuration is layered from defaults, an optional dbcomp.yaml file,
// DBCOMP_-prefixed environment variables, and command-line flags, in
// ascending order of precedence. The database URL additionally falls
// back to POSTGRES_URL so the server picks up the same connection
// string notebook clients use.
package config

// Config holds all CLI configuration options.
type Config struct {
	// Port is the HTTP listen port for serve.
	Port int `koanf:"port"`

	// DatabaseURL is the fallback connection string for requests that
	// carry no db_url of their own. Resolved from (in order) the
	// database_url key, DBCOMP_DATABASE_URL, and POSTGRES_URL.
	DatabaseURL string `koanf:"database_url"`

	// AuthToken guards the /jl-db-comp routes when non-empty.
	AuthToken string `koanf:"auth_token"`

	// CORSOrigins lists origins allowed to call the API from browsers.
	CORSOrigins []string `koanf:"cors_origins"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat is text or json.
	LogFormat string `koanf:"log_format"`

	Verbose bool `koanf:"verbose"`
}

// Default configuration values.
const (
	DefaultPort      = 8765
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)
