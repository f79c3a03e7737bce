// Package audd talks to the AudD music recognition API: audio fingerprinting
// and lyrics search.
package audd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is the AudD API root.
	DefaultBaseURL = "https://api.audd.io"
	// PlaceholderArtwork is used when no service returned cover art.
	PlaceholderArtwork = "https://images.unsplash.com/photo-1514320291840-2e0a9bf2a9ae?w=400&q=80"
	// RecordingFilename is the filename the recording is uploaded under.
	RecordingFilename = "recording.mp3"
	// returnServices asks AudD to include matches from these services.
	returnServices = "apple_music,spotify,deezer,soundcloud,lyrics"

	statusSuccess      = "success"
	appleArtworkSize   = "400"
	maxResponseSize    = 4 << 20
	defaultHTTPTimeout = 30 * time.Second
)

// AudD error codes that mean the API token is missing or invalid.
const (
	errorCodeNoToken      = 900
	errorCodeInvalidToken = 901
)

var (
	// ErrNotRecognized is returned when AudD found no match for the recording.
	ErrNotRecognized = errors.New("song not recognized")
	// ErrUnauthorized is returned when AudD rejects the API token.
	ErrUnauthorized = errors.New("audd rejected the api token")
	// ErrMissingAPIKey is returned when the client has no API token.
	ErrMissingAPIKey = errors.New("audd api token is not configured")
)

// Recognition is a successful fingerprint match.
type Recognition struct {
	Title         string
	Artist        string
	Album         string
	ArtworkURL    string // Never empty; falls back to PlaceholderArtwork.
	Lyrics        string // Inline lyrics, empty when AudD had none.
	SpotifyURL    string
	AppleMusicURL string
}

// Client is an AudD API client.
type Client struct {
	apiKey  string
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

// NewClient creates an AudD client for the given API token.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		client:  &http.Client{Timeout: defaultHTTPTimeout},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether an API token is set.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Recognize fingerprints an audio recording.
func (c *Client) Recognize(ctx context.Context, audio []byte) (*Recognition, error) {
	if !c.Configured() {
		return nil, ErrMissingAPIKey
	}

	body, contentType, err := c.recognitionForm(audio)
	if err != nil {
		return nil, fmt.Errorf("failed to build recognition request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	var resp recognizeResponse
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}

	if err := resp.apiError(); err != nil {
		return nil, err
	}
	if resp.Status != statusSuccess || resp.Result == nil {
		return nil, ErrNotRecognized
	}

	recognition := resp.Result.toRecognition()
	c.logger.Debug("Recognized recording",
		zap.String("title", recognition.Title),
		zap.String("artist", recognition.Artist),
		zap.Bool("inline_lyrics", recognition.Lyrics != ""))

	return recognition, nil
}

// FindLyrics searches for lyrics and returns the first result's text, or ""
// when there is no match.
func (c *Client) FindLyrics(ctx context.Context, query string) (string, error) {
	if !c.Configured() {
		return "", ErrMissingAPIKey
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("api_token", c.apiKey)
	reqURL := fmt.Sprintf("%s/findLyrics/?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return "", err
	}

	var resp findLyricsResponse
	if err := c.do(req, &resp); err != nil {
		return "", err
	}

	if err := resp.apiError(); err != nil {
		return "", err
	}
	if resp.Status != statusSuccess || len(resp.Result) == 0 {
		return "", nil
	}

	return strings.TrimSpace(resp.Result[0].Lyrics), nil
}

func (c *Client) recognitionForm(audio []byte) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("api_token", c.apiKey); err != nil {
		return nil, "", err
	}
	part, err := w.CreateFormFile("file", RecordingFilename)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(audio); err != nil {
		return nil, "", err
	}
	if err := w.WriteField("return", returnServices); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}

	return &buf, w.FormDataContentType(), nil
}

func (c *Client) do(req *http.Request, dest interface{}) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("audd request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("audd returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode audd response: %w", err)
	}
	return nil
}
