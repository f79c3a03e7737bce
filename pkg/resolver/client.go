// Package resolver is the client side of song identification. It sends a link
// or a recorded clip to an identification server and turns the answer into a
// SongResult or a typed error.
package resolver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	identifyPath       = "/identify"
	maxResponseSize    = 4 << 20
	defaultHTTPTimeout = 60 * time.Second
)

// SongResult is an identified song as presented to the caller. NoLyrics is
// true exactly when Lyrics is empty.
type SongResult struct {
	Title         string
	Artist        string
	AlbumArt      string
	Lyrics        string
	Platform      string
	Source        string
	NoLyrics      bool
	Message       string
	SpotifyURL    string
	AppleMusicURL string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for all requests.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
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

// Client talks to an identification server. It holds no per-call state and
// is safe for concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// New creates a Client for the server at baseURL. apiKey is sent as a bearer
// token when set.
func New(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IdentifyByURL identifies the song behind a platform link. The link is
// passed on as is; the server decides whether it is supported.
func (c *Client) IdentifyByURL(ctx context.Context, url string) (*SongResult, error) {
	body, err := json.Marshal(URLRequest{URL: url})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	return c.identify(ctx, "application/json", body)
}

// IdentifyByAudio identifies the song in a recorded clip.
func (c *Client) IdentifyByAudio(ctx context.Context, payload []byte) (*SongResult, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile(AudioField, AudioFilename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(payload); err != nil {
		return nil, fmt.Errorf("failed to write audio: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	return c.identify(ctx, writer.FormDataContentType(), buf.Bytes())
}

func (c *Client) identify(ctx context.Context, contentType string, body []byte) (*SongResult, error) {
	if c.baseURL == "" {
		return nil, &ConfigurationError{Message: "identification server URL is not set"}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+identifyPath, bytes.NewReader(body))
	if err != nil {
		return nil, &ConfigurationError{Message: fmt.Sprintf("invalid server URL %q: %v", c.baseURL, err)}
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	logger := c.logger.With(zap.String("request_id", requestID))
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Warn("Identify request failed", zap.Error(err))
		return nil, &TransportError{Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("failed to read response: %w", err)}
	}

	logger.Debug("Identify response received",
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errorFromResponse(resp.StatusCode, raw)
	}

	return decodeSong(raw)
}

// envelope accepts both shapes since a 2xx body may still carry an error.
type envelope struct {
	SongPayload
	Error string `json:"error"`
}

func decodeSong(raw []byte) (*SongResult, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &TransportError{Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	if env.Error != "" {
		return nil, &ResolutionError{StatusCode: http.StatusOK, Message: env.Error, Detail: env.Message}
	}
	if env.Title == "" || env.Artist == "" {
		return nil, &ResolutionError{StatusCode: http.StatusOK, Message: genericResolutionMessage, Detail: "response is missing title or artist"}
	}

	result := &SongResult{
		Title:         env.Title,
		Artist:        env.Artist,
		AlbumArt:      env.AlbumCover,
		Lyrics:        deref(env.Lyrics),
		Platform:      env.Platform,
		Source:        deref(env.Source),
		Message:       env.Message,
		SpotifyURL:    env.SpotifyURL,
		AppleMusicURL: env.AppleMusicURL,
	}
	result.NoLyrics = strings.TrimSpace(result.Lyrics) == ""
	if result.NoLyrics {
		result.Lyrics = ""
		result.Source = ""
	}

	return result, nil
}

func errorFromResponse(status int, raw []byte) error {
	var payload ErrorPayload
	if err := json.Unmarshal(raw, &payload); err != nil || payload.Error == "" {
		payload.Error = http.StatusText(status)
	}

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusServiceUnavailable:
		return &ConfigurationError{StatusCode: status, Message: payload.Error}
	}

	message := payload.Error
	if message == "" {
		message = genericResolutionMessage
	}
	return &ResolutionError{StatusCode: status, Message: message, Detail: payload.Message}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// IsRetryable reports whether the same request may succeed later.
func IsRetryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	var resErr *ResolutionError
	if errors.As(err, &resErr) {
		return resErr.StatusCode == http.StatusTooManyRequests || resErr.StatusCode >= http.StatusInternalServerError
	}
	return errors.Is(err, ErrTransport)
}
