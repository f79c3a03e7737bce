package musiclink

import (
	"context"
	"fmt"
	"net/http"
)

const (
	// SpotifyOEmbedURL is the Spotify oEmbed API endpoint.
	SpotifyOEmbedURL = "https://open.spotify.com/oembed"
	// DeezerOEmbedURL is the Deezer oEmbed API endpoint.
	DeezerOEmbedURL = "https://www.deezer.com/oembed"
)

// OEmbedResponse is the subset of the oEmbed document the resolvers read.
// Platforms disagree on field names, so every field is optional.
type OEmbedResponse struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	Author       string `json:"author"`
	ThumbnailURL string `json:"thumbnail_url"`
	Thumbnail    string `json:"thumbnail"`
	Description  string `json:"description"`
}

func (r *OEmbedResponse) artist() string {
	return firstNonEmpty(r.AuthorName, r.Author)
}

func (r *OEmbedResponse) artwork() string {
	return firstNonEmpty(r.ThumbnailURL, r.Thumbnail)
}

// OEmbedResolver resolves links of platforms that expose a public oEmbed
// endpoint whose title field is the plain track title.
type OEmbedResolver struct {
	platform Platform
	client   *http.Client
	endpoint string
}

// NewSpotifyOEmbedResolver creates a resolver for Spotify links backed by oEmbed.
func NewSpotifyOEmbedResolver(opts ...ResolverOption) *OEmbedResolver {
	return newOEmbedResolver(PlatformSpotify, SpotifyOEmbedURL, opts)
}

// NewDeezerResolver creates a resolver for Deezer links backed by oEmbed.
func NewDeezerResolver(opts ...ResolverOption) *OEmbedResolver {
	return newOEmbedResolver(PlatformDeezer, DeezerOEmbedURL, opts)
}

func newOEmbedResolver(platform Platform, endpoint string, opts []ResolverOption) *OEmbedResolver {
	cfg := newResolverConfig(endpoint, opts)
	return &OEmbedResolver{
		platform: platform,
		client:   cfg.client,
		endpoint: cfg.endpoint,
	}
}

// Resolve fetches the oEmbed document for the link and maps it to metadata.
func (r *OEmbedResolver) Resolve(ctx context.Context, rawURL string) (*TrackMetadata, error) {
	oembedResp, err := fetchOEmbed(ctx, r.client, r.endpoint, rawURL, string(r.platform))
	if err != nil {
		return nil, err
	}

	return &TrackMetadata{
		Title:       firstNonEmpty(oembedResp.Title, UnknownTitle),
		Artist:      firstNonEmpty(oembedResp.artist(), UnknownArtist),
		ArtworkURL:  oembedResp.artwork(),
		Description: oembedResp.Description,
	}, nil
}

// fetchOEmbed fetches and decodes an oEmbed document.
func fetchOEmbed(ctx context.Context, client *http.Client, endpoint, targetURL, serviceName string) (*OEmbedResponse, error) {
	var oembedResp OEmbedResponse
	if err := fetchJSON(ctx, client, oembedRequestURL(endpoint, targetURL), serviceName+" oEmbed", &oembedResp); err != nil {
		return nil, fmt.Errorf("failed to fetch oEmbed data: %w", err)
	}
	return &oembedResp, nil
}
