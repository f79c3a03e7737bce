// Package musiclink detects which music platform a link belongs to and looks up
// the title, artist and artwork of the linked track.
package musiclink

import (
	"context"
	"net/http"
)

// Platform is a supported music or video hosting service.
type Platform string

const (
	PlatformSpotify          Platform = "Spotify"
	PlatformAppleMusic       Platform = "Apple Music"
	PlatformYouTube          Platform = "YouTube"
	PlatformSoundCloud       Platform = "SoundCloud"
	PlatformDeezer           Platform = "Deezer"
	PlatformAudiomack        Platform = "Audiomack"
	PlatformBoomplay         Platform = "Boomplay"
	PlatformAudioRecognition Platform = "Audio Recognition"
	PlatformUnknown          Platform = "Unknown"
)

const (
	// UnknownTitle is used when a platform returns no usable title.
	UnknownTitle = "Unknown Title"
	// UnknownArtist is used when the artist cannot be determined.
	UnknownArtist = "Unknown Artist"
)

// TrackMetadata holds what a single platform lookup produced.
type TrackMetadata struct {
	Title      string // Track title.
	Artist     string // Artist name(s).
	ArtworkURL string // Cover image, may be empty.
	// Description is the platform's free-form description or caption, kept only
	// so it can be tested as a lyrics candidate.
	Description string
}

// Resolver looks up track metadata for links of one platform.
type Resolver interface {
	// Resolve extracts track information from a platform URL.
	Resolve(ctx context.Context, url string) (*TrackMetadata, error)
}

// MetadataFetcher is the capability the identification pipeline depends on.
type MetadataFetcher interface {
	FetchMetadata(ctx context.Context, url string, platform Platform) (*TrackMetadata, error)
}

// TitleSplitter separates artist and title from a free-form title that lacks
// the usual "Artist - Title" separator.
type TitleSplitter interface {
	SplitTitle(ctx context.Context, rawTitle string) (artist, title string, err error)
}

// ResolverOption configures the HTTP client and endpoint of a resolver.
type ResolverOption func(*resolverConfig)

type resolverConfig struct {
	client   *http.Client
	endpoint string
}

// WithHTTPClient sets the HTTP client used by a resolver.
func WithHTTPClient(client *http.Client) ResolverOption {
	return func(c *resolverConfig) {
		c.client = client
	}
}

// WithEndpoint overrides the API endpoint a resolver talks to.
func WithEndpoint(endpoint string) ResolverOption {
	return func(c *resolverConfig) {
		c.endpoint = endpoint
	}
}

func newResolverConfig(defaultEndpoint string, opts []ResolverOption) resolverConfig {
	cfg := resolverConfig{endpoint: defaultEndpoint}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.client == nil {
		cfg.client = newHTTPClient()
	}
	return cfg
}
