package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	// maxQueryTimeoutSeconds caps QUERY_TIMEOUT.
	maxQueryTimeoutSeconds = 600

	// maxDiscoverTimeoutSeconds caps DISCOVER_TIMEOUT.
	maxDiscoverTimeoutSeconds = 3600
)

func (c *Config) validate() error {
	if err := c.validateEndpoint(); err != nil {
		return err
	}

	if err := c.validateNamespaces(); err != nil {
		return err
	}

	if err := c.validateQueries(); err != nil {
		return err
	}

	if err := c.validateDatabase(); err != nil {
		return err
	}

	if err := c.validateNetwork(); err != nil {
		return err
	}

	if err := c.validateCORS(); err != nil {
		return err
	}

	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL is invalid: %w", err)
	}

	return nil
}

func (c *Config) validateEndpoint() error {
	u, err := url.ParseRequestURI(c.SPARQLEndpoint)
	if err != nil {
		return fmt.Errorf("SPARQL_ENDPOINT is not a valid URL: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("SPARQL_ENDPOINT scheme must be http:// or https://")
	}

	if u.Host == "" {
		return fmt.Errorf("SPARQL_ENDPOINT must include a host")
	}

	return nil
}

func (c *Config) validateNamespaces() error {
	for name, ns := range map[string]string{
		"ONTOLOGY_NAMESPACE": c.OntologyNamespace,
		"RESOURCE_NAMESPACE": c.ResourceNamespace,
	} {
		u, err := url.Parse(ns)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s must be an absolute IRI, got %q", name, ns)
		}

		if !strings.HasSuffix(ns, "/") && !strings.HasSuffix(ns, "#") {
			return fmt.Errorf("%s must end with '/' or '#', got %q", name, ns)
		}
	}

	if c.OntologyNamespace == c.ResourceNamespace {
		return fmt.Errorf("ONTOLOGY_NAMESPACE and RESOURCE_NAMESPACE must differ")
	}

	if c.LabelLanguage == "" || strings.ContainsAny(c.LabelLanguage, " \"@") {
		return fmt.Errorf("LABEL_LANGUAGE must be a language tag, got %q", c.LabelLanguage)
	}

	return nil
}

func (c *Config) validateQueries() error {
	if c.QueryTimeout <= 0 || c.QueryTimeout.Seconds() > maxQueryTimeoutSeconds {
		return fmt.Errorf("QUERY_TIMEOUT must be positive and at most %ds", maxQueryTimeoutSeconds)
	}

	if c.DiscoverTimeout < c.QueryTimeout || c.DiscoverTimeout.Seconds() > maxDiscoverTimeoutSeconds {
		return fmt.Errorf("DISCOVER_TIMEOUT must be at least QUERY_TIMEOUT and at most %ds", maxDiscoverTimeoutSeconds)
	}

	if c.QueryRate < 0 {
		return fmt.Errorf("QUERY_RATE must not be negative")
	}

	if c.QueryBurst < 1 {
		return fmt.Errorf("QUERY_BURST must be at least 1")
	}

	if c.ClientRate <= 0 {
		return fmt.Errorf("CLIENT_RATE must be positive")
	}

	if c.ClientBurst < 1 {
		return fmt.Errorf("CLIENT_BURST must be at least 1")
	}

	return nil
}

// validateDatabase accepts an empty DATABASE_URL, which disables run storage.
func (c *Config) validateDatabase() error {
	if c.DatabaseURL.Value() == "" {
		return nil
	}

	dbURL, err := url.Parse(c.DatabaseURL.Value())
	if err != nil {
		return fmt.Errorf("DATABASE_URL is not a valid URL: %w", err)
	}

	if dbURL.Scheme != "postgres" && dbURL.Scheme != "postgresql" {
		return fmt.Errorf("DATABASE_URL scheme must be postgres:// or postgresql://")
	}

	if dbURL.Hostname() == "" {
		return fmt.Errorf("DATABASE_URL must include a host")
	}

	dbHost := dbURL.Hostname()
	if !isLoopback(dbHost) && dbURL.Query().Get("sslmode") == "disable" {
		return fmt.Errorf("DATABASE_URL sslmode=disable is not allowed for non-local host %q", dbHost)
	}

	return nil
}

func (c *Config) validateNetwork() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil {
		return fmt.Errorf("PORT must be a valid integer: %w", err)
	}

	if port < 1 || port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}

	if !isLoopback(c.ListenHost) {
		return fmt.Errorf("LISTEN_HOST must be a loopback address (127.0.0.1, ::1, or localhost), got %q", c.ListenHost)
	}

	return nil
}

func (c *Config) validateCORS() error {
	for _, origin := range c.CORSOrigins {
		if origin == "*" {
			return fmt.Errorf("CORS_ORIGINS must not contain wildcard '*'")
		}

		if strings.ContainsAny(origin, "*?[]") {
			return fmt.Errorf("CORS_ORIGINS must not contain glob characters (*?[]), got %q", origin)
		}

		u, err := url.Parse(origin)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("CORS_ORIGINS contains invalid origin %q (must have scheme and host)", origin)
		}
	}

	return nil
}

func isLoopback(host string) bool {
	return host == "localhost" || host == "127.0.0.1" || host == "::1"
}
