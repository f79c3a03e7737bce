package musiclink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// commonUserAgent is the user agent string used for page requests.
	commonUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	// commonAcceptHeader is the accept header used for page requests.
	commonAcceptHeader = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	// artistTitleSeparator separates artist and title in "Artist - Title" encodings.
	artistTitleSeparator = " - "
	// expectedSplitParts is the expected number of parts when splitting title/artist strings.
	expectedSplitParts = 2
	// defaultHTTPTimeout is the default timeout for HTTP requests.
	defaultHTTPTimeout = 10 * time.Second
	// maxHTTPRedirects is the maximum number of HTTP redirects to follow.
	maxHTTPRedirects = 5
	// maxJSONReadSize limits API response bodies.
	maxJSONReadSize = 1 << 20
)

var (
	// ErrTooManyRedirects is returned when too many redirects are encountered.
	ErrTooManyRedirects = errors.New("too many redirects")
)

// newHTTPClient creates a new HTTP client with standard settings and redirect validation.
func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout: defaultHTTPTimeout,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxHTTPRedirects {
				return ErrTooManyRedirects
			}
			return nil
		},
	}
}

// SplitArtistTitle splits an "Artist - Title" encoded string on the first
// separator. The remainder, which may contain further separators, is the title.
// Without a separator the whole string is the title and ok is false.
func SplitArtistTitle(s string) (artist, title string, ok bool) {
	s = strings.TrimSpace(s)
	parts := strings.SplitN(s, artistTitleSeparator, expectedSplitParts)
	if len(parts) != expectedSplitParts {
		return "", s, false
	}

	artist = strings.TrimSpace(parts[0])
	title = strings.TrimSpace(parts[1])
	if artist == "" || title == "" {
		return "", s, false
	}
	return artist, title, true
}

// fetchHTMLFromURL fetches HTML content from a URL with a size limit.
func fetchHTMLFromURL(
	ctx context.Context,
	client *http.Client,
	pageURL string,
	serviceName string,
	maxReadSize int64,
) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return "", err
	}

	// Set realistic browser headers.
	req.Header.Set("User-Agent", commonUserAgent)
	req.Header.Set("Accept", commonAcceptHeader)

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s returned status %d", serviceName, resp.StatusCode)
	}

	// Read response body (limited to avoid excessive memory use).
	limitedReader := io.LimitReader(resp.Body, maxReadSize)
	bodyBytes, err := io.ReadAll(limitedReader)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	return string(bodyBytes), nil
}

// fetchJSON issues a GET request and decodes the JSON response into dest.
func fetchJSON(ctx context.Context, client *http.Client, reqURL, serviceName string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned status %d", serviceName, resp.StatusCode)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxJSONReadSize)).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", serviceName, err)
	}

	return nil
}

// oembedRequestURL builds the oEmbed lookup URL for a target link.
func oembedRequestURL(endpoint, targetURL string) string {
	return fmt.Sprintf("%s?url=%s&format=json", endpoint, url.QueryEscape(targetURL))
}

// firstNonEmpty returns the first argument that is not blank.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
