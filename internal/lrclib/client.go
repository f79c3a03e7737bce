// Package lrclib searches the LRCLIB lyrics database, a credential-free
// alternative to the AudD lyrics search.
package lrclib

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is the LRCLIB API root.
	DefaultBaseURL = "https://lrclib.net"

	userAgent          = "songscout/1.0"
	maxResponseSize    = 4 << 20
	defaultHTTPTimeout = 15 * time.Second
)

// searchResult mirrors one entry of the /api/search response.
type searchResult struct {
	TrackName    string `json:"trackName"`
	ArtistName   string `json:"artistName"`
	Instrumental bool   `json:"instrumental"`
	PlainLyrics  string `json:"plainLyrics"`
}

// Client is an LRCLIB API client.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimSuffix(baseURL, "/")
		}
	}
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.client = client
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates an LRCLIB client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		client:  &http.Client{Timeout: defaultHTTPTimeout},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FindLyrics returns the plain lyrics of the first search result that has
// any, or "" when nothing matched.
func (c *Client) FindLyrics(ctx context.Context, query string) (string, error) {
	reqURL := fmt.Sprintf("%s/api/search?q=%s", c.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("lrclib request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusNotFound {
		return "", nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("lrclib returned status %d", resp.StatusCode)
	}

	var results []searchResult
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&results); err != nil {
		return "", fmt.Errorf("failed to decode lrclib response: %w", err)
	}

	for _, r := range results {
		if r.Instrumental || strings.TrimSpace(r.PlainLyrics) == "" {
			continue
		}
		c.logger.Debug("Found lyrics",
			zap.String("track", r.TrackName),
			zap.String("artist", r.ArtistName))
		return strings.TrimSpace(r.PlainLyrics), nil
	}

	return "", nil
}
