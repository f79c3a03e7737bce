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
	// ITunesLookupURL is the iTunes/Apple Music API lookup endpoint.
	ITunesLookupURL = "https://itunes.apple.com/lookup"
	// appleArtworkSize is the edge length requested when upscaling catalog artwork.
	appleArtworkSize = "400x400"
)

var (
	// ErrNoAppleMusicTrackID is returned when a link carries no numeric identifier.
	ErrNoAppleMusicTrackID = errors.New("no track ID found in Apple Music URL")

	appleQueryIDPattern = regexp.MustCompile(`i=(\d+)`)
	applePathIDPattern  = regexp.MustCompile(`/(\d+)(?:\?|$)`)
)

// iTunesLookupResponse represents the response from iTunes lookup API.
type iTunesLookupResponse struct {
	ResultCount int                 `json:"resultCount"`
	Results     []iTunesTrackResult `json:"results"`
}

// iTunesTrackResult represents a track or collection result from iTunes API.
type iTunesTrackResult struct {
	TrackName      string `json:"trackName"`
	CollectionName string `json:"collectionName"`
	ArtistName     string `json:"artistName"`
	ArtworkURL100  string `json:"artworkUrl100"`
	ArtworkURL60   string `json:"artworkUrl60"`
}

func (t *iTunesTrackResult) artwork() string {
	if t.ArtworkURL100 != "" {
		return strings.Replace(t.ArtworkURL100, "100x100", appleArtworkSize, 1)
	}
	if t.ArtworkURL60 != "" {
		return strings.Replace(t.ArtworkURL60, "60x60", appleArtworkSize, 1)
	}
	return ""
}

// AppleMusicResolver resolves Apple Music links to track information.
type AppleMusicResolver struct {
	client   *http.Client
	endpoint string
}

// NewAppleMusicResolver creates a new Apple Music link resolver.
func NewAppleMusicResolver(opts ...ResolverOption) *AppleMusicResolver {
	cfg := newResolverConfig(ITunesLookupURL, opts)
	return &AppleMusicResolver{
		client:   cfg.client,
		endpoint: cfg.endpoint,
	}
}

// Resolve extracts track information from an Apple Music URL using iTunes API.
func (r *AppleMusicResolver) Resolve(ctx context.Context, rawURL string) (*TrackMetadata, error) {
	trackID, err := ExtractAppleMusicTrackID(rawURL)
	if err != nil {
		return nil, err
	}

	trackData, err := r.fetchTrackData(ctx, trackID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch track data: %w", err)
	}

	return &TrackMetadata{
		Title:      firstNonEmpty(trackData.TrackName, trackData.CollectionName, UnknownTitle),
		Artist:     firstNonEmpty(trackData.ArtistName, UnknownArtist),
		ArtworkURL: trackData.artwork(),
	}, nil
}

// ExtractAppleMusicTrackID returns the numeric catalog ID of the track an Apple
// Music link points to. Album links that select a song with ?i=<id> resolve to
// the song, not the album.
func ExtractAppleMusicTrackID(rawURL string) (string, error) {
	if u, err := url.Parse(rawURL); err == nil {
		if id := u.Query().Get("i"); isDigits(id) {
			return id, nil
		}
	}

	if m := appleQueryIDPattern.FindStringSubmatch(rawURL); m != nil {
		return m[1], nil
	}

	if m := applePathIDPattern.FindStringSubmatch(rawURL); m != nil {
		return m[1], nil
	}

	return "", ErrNoAppleMusicTrackID
}

// fetchTrackData fetches track metadata from iTunes lookup API.
func (r *AppleMusicResolver) fetchTrackData(ctx context.Context, trackID string) (*iTunesTrackResult, error) {
	reqURL := fmt.Sprintf("%s?id=%s", r.endpoint, url.QueryEscape(trackID))

	var lookupResp iTunesLookupResponse
	if err := fetchJSON(ctx, r.client, reqURL, "iTunes API", &lookupResp); err != nil {
		return nil, err
	}

	if lookupResp.ResultCount == 0 || len(lookupResp.Results) == 0 {
		return nil, errors.New("no track found in iTunes API response")
	}

	return &lookupResp.Results[0], nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
