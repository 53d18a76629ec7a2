package exa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/exa-labs/exa-mcp-server-go/internal/errors"
)

const (
	// DefaultBaseURL is the production Exa API endpoint.
	DefaultBaseURL = "https://api.exa.ai"

	// maxErrorBodySize caps how much of an error response body is retained
	// for reporting.
	maxErrorBodySize = 4 * 1024
)

// Client calls the Exa search API.
//
// The zero timeout default matches the upstream behavior this server
// reproduces: a hanging upstream call stalls only the session waiting on it.
// Use WithTimeout to bound calls instead.
type Client struct {
	log        *slog.Logger
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// Option configures a Client during construction.
type Option func(*Client)

// WithBaseURL overrides the API endpoint. Used for tests and proxies.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout bounds each upstream call. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// NewClient creates a client authenticated with apiKey.
//
// An empty apiKey is permitted at construction time so that tool discovery
// works without a credential; Search fails with ErrMissingAPIKey instead.
func NewClient(log *slog.Logger, apiKey string, opts ...Option) *Client {
	c := &Client{
		log:        log.With("component", "exa_client"),
		httpClient: &http.Client{},
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Search performs a search request against POST {baseURL}/search.
func (c *Client) Search(ctx context.Context, req *SearchRequest) (*SearchResponse, error) {
	if c.apiKey == "" {
		return nil, errors.ErrMissingAPIKey
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)

	c.log.Debug("Calling Exa search API", "query", req.Query, "numResults", req.NumResults)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("exa search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))

		return nil, &errors.StatusError{
			StatusCode: resp.StatusCode,
			Body:       string(bytes.TrimSpace(errBody)),
		}
	}

	var result SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	c.log.Debug("Exa search completed", "requestId", result.RequestID, "results", len(result.Results))

	return &result, nil
}
