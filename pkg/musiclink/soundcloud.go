package musiclink

import (
	"context"
	"net/http"
)

const (
	// SoundCloudOEmbedURL is the SoundCloud oEmbed API endpoint.
	SoundCloudOEmbedURL = "https://soundcloud.com/oembed"
)

// SoundCloudResolver resolves SoundCloud links to track information.
type SoundCloudResolver struct {
	client   *http.Client
	endpoint string
}

// NewSoundCloudResolver creates a new SoundCloud link resolver.
func NewSoundCloudResolver(opts ...ResolverOption) *SoundCloudResolver {
	cfg := newResolverConfig(SoundCloudOEmbedURL, opts)
	return &SoundCloudResolver{
		client:   cfg.client,
		endpoint: cfg.endpoint,
	}
}

// Resolve extracts track information from a SoundCloud URL using the oEmbed API.
func (r *SoundCloudResolver) Resolve(ctx context.Context, rawURL string) (*TrackMetadata, error) {
	oembedResp, err := fetchOEmbed(ctx, r.client, r.endpoint, rawURL, string(PlatformSoundCloud))
	if err != nil {
		return nil, err
	}

	// Uploads are usually titled "Artist - Title"; the uploader account is not
	// necessarily the artist.
	artist, title, _ := SplitArtistTitle(oembedResp.Title)

	return &TrackMetadata{
		Title:       firstNonEmpty(title, UnknownTitle),
		Artist:      firstNonEmpty(artist, UnknownArtist),
		ArtworkURL:  oembedResp.artwork(),
		Description: oembedResp.Description,
	}, nil
}
