// Package config provides environment-driven configuration for typegraph.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Secret wraps a sensitive string to prevent accidental logging or marshalling.
type Secret string

// String implements fmt.Stringer, returning a redacted placeholder.
func (s Secret) String() string { return "[REDACTED]" }

// GoString implements fmt.GoStringer, returning a redacted placeholder.
func (s Secret) GoString() string { return "[REDACTED]" }

// MarshalText implements encoding.TextMarshaler, returning a redacted placeholder.
func (s Secret) MarshalText() ([]byte, error) { return []byte("[REDACTED]"), nil }

// Value returns the underlying secret string.
func (s Secret) Value() string { return string(s) }

// Config holds all application configuration values.
type Config struct {
	SPARQLEndpoint    string
	OntologyNamespace string
	ResourceNamespace string
	LabelLanguage     string
	QueryTimeout      time.Duration
	DiscoverTimeout   time.Duration
	QueryRate         float64
	QueryBurst        int
	DiscoverWorkers   int
	ClientRate        float64
	ClientBurst       int
	DatabaseURL       Secret
	DBMaxConns        int
	Port              string
	ListenHost        string
	CORSOrigins       []string
	LogLevel          string
}

// Load reads configuration from environment variables, applying defaults for unset keys.
func Load() (*Config, error) {
	cfg := &Config{
		SPARQLEndpoint:    envOrDefault("SPARQL_ENDPOINT", "https://dbpedia.org/sparql"),
		OntologyNamespace: envOrDefault("ONTOLOGY_NAMESPACE", "http://dbpedia.org/ontology/"),
		ResourceNamespace: envOrDefault("RESOURCE_NAMESPACE", "http://dbpedia.org/resource/"),
		LabelLanguage:     envOrDefault("LABEL_LANGUAGE", "en"),
		DatabaseURL:       Secret(envOrDefault("DATABASE_URL", "")),
		Port:              envOrDefault("PORT", "3040"),
		ListenHost:        envOrDefault("LISTEN_HOST", "127.0.0.1"),
		LogLevel:          envOrDefault("LOG_LEVEL", "info"),
	}

	timeout, err := time.ParseDuration(envOrDefault("QUERY_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("QUERY_TIMEOUT must be a duration (e.g. 30s): %w", err)
	}
	cfg.QueryTimeout = timeout

	discoverTimeout, err := time.ParseDuration(envOrDefault("DISCOVER_TIMEOUT", "5m"))
	if err != nil {
		return nil, fmt.Errorf("DISCOVER_TIMEOUT must be a duration (e.g. 5m): %w", err)
	}
	cfg.DiscoverTimeout = discoverTimeout

	queryRate, err := strconv.ParseFloat(envOrDefault("QUERY_RATE", "0"), 64)
	if err != nil {
		return nil, fmt.Errorf("QUERY_RATE must be a number: %w", err)
	}
	cfg.QueryRate = queryRate

	queryBurst, err := strconv.Atoi(envOrDefault("QUERY_BURST", "1"))
	if err != nil {
		return nil, fmt.Errorf("QUERY_BURST must be an integer: %w", err)
	}
	cfg.QueryBurst = queryBurst

	workers, err := strconv.Atoi(envOrDefault("DISCOVER_WORKERS", "4"))
	if err != nil || workers < 1 || workers > 32 {
		return nil, fmt.Errorf("DISCOVER_WORKERS must be an integer between 1 and 32")
	}
	cfg.DiscoverWorkers = workers

	clientRate, err := strconv.ParseFloat(envOrDefault("CLIENT_RATE", "5"), 64)
	if err != nil {
		return nil, fmt.Errorf("CLIENT_RATE must be a number: %w", err)
	}
	cfg.ClientRate = clientRate

	clientBurst, err := strconv.Atoi(envOrDefault("CLIENT_BURST", "10"))
	if err != nil {
		return nil, fmt.Errorf("CLIENT_BURST must be an integer: %w", err)
	}
	cfg.ClientBurst = clientBurst

	maxConns, err := strconv.Atoi(envOrDefault("DB_MAX_CONNS", "10"))
	if err != nil || maxConns < 1 || maxConns > 100 {
		return nil, fmt.Errorf("DB_MAX_CONNS must be an integer between 1 and 100")
	}
	cfg.DBMaxConns = maxConns

	origins := envOrDefault("CORS_ORIGINS", "http://localhost:3000")
	cfg.CORSOrigins = strings.Split(origins, ",")

	for i, o := range cfg.CORSOrigins {
		cfg.CORSOrigins[i] = strings.TrimSpace(o)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// Addr returns the listen address in host:port format.
func (c *Config) Addr() string {
	return c.ListenHost + ":" + c.Port
}

// StorageEnabled reports whether a database is configured for saving runs.
func (c *Config) StorageEnabled() bool {
	return c.DatabaseURL.Value() != ""
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}
