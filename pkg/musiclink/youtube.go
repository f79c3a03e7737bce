package musiclink

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
)

const (
	// YouTubeOEmbedURL is the YouTube oEmbed API endpoint.
	YouTubeOEmbedURL = "https://www.youtube.com/oembed"
)

var (
	// youtubeNoisePattern matches common video-specific suffixes in titles.
	youtubeNoisePattern = regexp.MustCompile(`(?i)\s*[\(\[](official (music )?video|official audio|lyric video|lyrics|visualizer|hd|4k)[\)\]]`)
)

// YouTubeResolver resolves YouTube and YouTube Music links to track information.
type YouTubeResolver struct {
	client   *http.Client
	endpoint string
}

// NewYouTubeResolver creates a new YouTube link resolver.
func NewYouTubeResolver(opts ...ResolverOption) *YouTubeResolver {
	cfg := newResolverConfig(YouTubeOEmbedURL, opts)
	return &YouTubeResolver{
		client:   cfg.client,
		endpoint: cfg.endpoint,
	}
}

// Resolve extracts track information from a YouTube URL using the oEmbed API.
func (r *YouTubeResolver) Resolve(ctx context.Context, rawURL string) (*TrackMetadata, error) {
	// Canonical watch URLs are accepted by oEmbed for every link shape we can
	// parse; anything else is passed through unchanged.
	videoURL := rawURL
	if videoID, err := r.extractVideoID(rawURL); err == nil {
		videoURL = fmt.Sprintf("https://www.youtube.com/watch?v=%s", videoID)
	}

	oembedResp, err := fetchOEmbed(ctx, r.client, r.endpoint, videoURL, string(PlatformYouTube))
	if err != nil {
		return nil, err
	}

	title, artist := r.parseTrackInfo(oembedResp)

	return &TrackMetadata{
		Title:       title,
		Artist:      artist,
		ArtworkURL:  oembedResp.artwork(),
		Description: oembedResp.Description,
	}, nil
}

// extractVideoID extracts the YouTube video ID from various URL formats.
func (r *YouTubeResolver) extractVideoID(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	hostname := strings.ToLower(u.Hostname())

	// Handle youtu.be short links.
	if hostname == "youtu.be" {
		path := strings.Trim(u.Path, "/")
		if path == "" {
			return "", errors.New("no video ID in youtu.be URL")
		}
		return path, nil
	}

	// Handle /shorts/<id> links.
	if strings.HasPrefix(u.Path, "/shorts/") {
		if id := strings.Trim(strings.TrimPrefix(u.Path, "/shorts/"), "/"); id != "" {
			return id, nil
		}
	}

	videoID := u.Query().Get("v")
	if videoID == "" {
		return "", errors.New("no video ID in YouTube URL")
	}
	return videoID, nil
}

// parseTrackInfo extracts track title and artist from oEmbed response.
// YouTube titles commonly encode "Artist - Title"; without the separator the
// artist stays unknown even when the channel name is available.
func (r *YouTubeResolver) parseTrackInfo(resp *OEmbedResponse) (title, artist string) {
	artist, title, _ = SplitArtistTitle(resp.Title)
	title = firstNonEmpty(r.cleanTitle(title), UnknownTitle)
	return title, firstNonEmpty(artist, UnknownArtist)
}

// cleanTitle removes common YouTube video markers from titles.
func (r *YouTubeResolver) cleanTitle(title string) string {
	return strings.TrimSpace(youtubeNoisePattern.ReplaceAllString(title, ""))
}
