// Package spotify resolves Spotify track links through the Web API using the
// client credentials flow.
package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"songscout/internal/core"
	"songscout/pkg/musiclink"
)

// artistJoiner separates multiple artists of a track
const artistJoiner = ", "

// ErrNotTrackLink is returned for Spotify links that do not point to a track.
var ErrNotTrackLink = errors.New("not a Spotify track link")

// Option configures a Client.
type Option func(*options)

type options struct {
	httpClient *http.Client
	apiBaseURL string
	tokenURL   string
	fallback   musiclink.Resolver
}

// WithHTTPClient sets the HTTP client used for token and API requests.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithAPIBaseURL overrides the Web API root. The URL must end with a slash.
func WithAPIBaseURL(baseURL string) Option {
	return func(o *options) {
		o.apiBaseURL = baseURL
	}
}

// WithTokenURL overrides the OAuth token endpoint.
func WithTokenURL(tokenURL string) Option {
	return func(o *options) {
		o.tokenURL = tokenURL
	}
}

// WithFallback sets the resolver used for Spotify links that are not tracks,
// such as albums or shortened spotify.link URLs.
func WithFallback(resolver musiclink.Resolver) Option {
	return func(o *options) {
		o.fallback = resolver
	}
}

// Client is a Spotify Web API metadata resolver.
type Client struct {
	logger   *zap.Logger
	client   *spotify.Client
	fallback musiclink.Resolver
}

// NewClient creates a Web API client authenticated with the client
// credentials in config. Tokens are fetched lazily on the first request.
func NewClient(config *core.SpotifyConfig, logger *zap.Logger, opts ...Option) (*Client, error) {
	if !config.Enabled() {
		return nil, errors.New("spotify client ID and secret are required")
	}

	o := &options{tokenURL: spotifyauth.TokenURL}
	for _, opt := range opts {
		opt(o)
	}

	ctx := context.Background()
	if o.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, o.httpClient)
	}

	creds := &clientcredentials.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		TokenURL:     o.tokenURL,
	}

	var clientOpts []spotify.ClientOption
	if o.apiBaseURL != "" {
		clientOpts = append(clientOpts, spotify.WithBaseURL(o.apiBaseURL))
	}

	return &Client{
		logger:   logger,
		client:   spotify.New(creds.Client(ctx), clientOpts...),
		fallback: o.fallback,
	}, nil
}

// Resolve looks up a Spotify track link. Links that are not tracks go to the
// fallback resolver when one is set.
func (c *Client) Resolve(ctx context.Context, rawURL string) (*musiclink.TrackMetadata, error) {
	trackID := musiclink.ExtractSpotifyTrackID(rawURL)
	if trackID == "" {
		if c.fallback != nil {
			c.logger.Debug("Not a track link, using fallback", zap.String("url", rawURL))
			return c.fallback.Resolve(ctx, rawURL)
		}
		return nil, ErrNotTrackLink
	}

	track, err := c.client.GetTrack(ctx, spotify.ID(trackID))
	if err != nil {
		return nil, fmt.Errorf("failed to get track: %w", err)
	}

	meta := convertSpotifyTrack(track)
	c.logger.Debug("Resolved Spotify track",
		zap.String("trackID", trackID),
		zap.String("title", meta.Title),
		zap.String("artist", meta.Artist))

	return meta, nil
}

func convertSpotifyTrack(track *spotify.FullTrack) *musiclink.TrackMetadata {
	artists := make([]string, 0, len(track.Artists))
	for _, artist := range track.Artists {
		if artist.Name != "" {
			artists = append(artists, artist.Name)
		}
	}

	title := strings.TrimSpace(track.Name)
	if title == "" {
		title = musiclink.UnknownTitle
	}
	artist := strings.Join(artists, artistJoiner)
	if artist == "" {
		artist = musiclink.UnknownArtist
	}

	return &musiclink.TrackMetadata{
		Title:      title,
		Artist:     artist,
		ArtworkURL: largestImage(track.Album.Images),
	}
}

func largestImage(images []spotify.Image) string {
	var best spotify.Image
	for _, img := range images {
		if best.URL == "" || img.Height > best.Height {
			best = img
		}
	}
	return best.URL
}
