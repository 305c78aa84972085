// Package sparql implements the SPARQL 1.1 protocol over HTTP with JSON results.
package sparql

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const resultsMediaType = "application/sparql-results+json"

// Querier executes SELECT and ASK queries against an endpoint.
type Querier interface {
	Select(ctx context.Context, query string) ([]Binding, error)
	Ask(ctx context.Context, query string) (bool, error)
}

// Compile-time check: *Client must satisfy Querier.
var _ Querier = (*Client)(nil)

// Client sends queries to a single SPARQL endpoint.
type Client struct {
	endpoint   string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the HTTP client timeout. It applies to a copy, so a client passed to
// WithHTTPClient is never modified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.httpClient
		hc.Timeout = d
		c.httpClient = &hc
	}
}

// WithRateLimit paces outgoing queries to rps per second. A non-positive rps disables pacing.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}

		if burst < 1 {
			burst = 1
		}

		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithUserAgent sets the User-Agent header sent with each query.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// New creates a Client for the given endpoint (e.g. "https://dbpedia.org/sparql").
func New(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint:   endpoint,
		userAgent:  "typegraph",
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}

	return c
}

// Endpoint returns the endpoint URL queries are sent to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// HealthCheck verifies the endpoint answers a trivial ASK query.
func (c *Client) HealthCheck(ctx context.Context) error {
	if _, err := c.Ask(ctx, "ASK {}"); err != nil {
		return fmt.Errorf("sparql health check: %w", err)
	}

	return nil
}

// Select runs a SELECT query and returns its solution bindings.
func (c *Client) Select(ctx context.Context, query string) ([]Binding, error) {
	var resp response
	if err := c.do(ctx, query, &resp); err != nil {
		return nil, err
	}

	if resp.Results == nil {
		return nil, fmt.Errorf("%w: missing results for select query", ErrUpstream)
	}

	return resp.Results.Bindings, nil
}

// Ask runs an ASK query and returns its boolean answer.
func (c *Client) Ask(ctx context.Context, query string) (bool, error) {
	var resp response
	if err := c.do(ctx, query, &resp); err != nil {
		return false, err
	}

	if resp.Boolean == nil {
		return false, fmt.Errorf("%w: missing boolean for ask query", ErrUpstream)
	}

	return *resp.Boolean, nil
}

// do posts a form-encoded query and decodes the JSON result document.
func (c *Client) do(ctx context.Context, query string, result *response) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("waiting for rate limiter: %w", err)
		}
	}

	form := url.Values{"query": {query}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", resultsMediaType)

	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: request failed: %w", ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %w", ErrUpstream, err)
	}

	if resp.StatusCode >= 400 {
		return parseEndpointError(resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("%w: decode response: %w", ErrUpstream, err)
	}

	return nil
}
