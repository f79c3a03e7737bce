package audd

import (
	"fmt"
	"strings"
)

// The types below mirror the parts of AudD's JSON that are read. Every nested
// object is optional and is converted to Recognition right after decoding.

type apiErrorBody struct {
	ErrorCode    int    `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

type envelope struct {
	Status string        `json:"status"`
	Error  *apiErrorBody `json:"error"`
}

func (e *envelope) apiError() error {
	if e.Error == nil {
		return nil
	}
	switch e.Error.ErrorCode {
	case errorCodeNoToken, errorCodeInvalidToken:
		return fmt.Errorf("%w: %s", ErrUnauthorized, e.Error.ErrorMessage)
	}
	// every other API error means the recording could not be matched
	return fmt.Errorf("%w: audd error %d: %s", ErrNotRecognized, e.Error.ErrorCode, e.Error.ErrorMessage)
}

type recognizeResponse struct {
	envelope
	Result *recognizeResult `json:"result"`
}

type recognizeResult struct {
	Title      string            `json:"title"`
	Artist     string            `json:"artist"`
	Album      string            `json:"album"`
	Lyrics     *lyricsResult     `json:"lyrics"`
	Spotify    *spotifyResult    `json:"spotify"`
	AppleMusic *appleMusicResult `json:"apple_music"`
	Deezer     *deezerResult     `json:"deezer"`
}

type lyricsResult struct {
	Lyrics string `json:"lyrics"`
}

type spotifyResult struct {
	Album *struct {
		Images []struct {
			URL string `json:"url"`
		} `json:"images"`
	} `json:"album"`
	ExternalURLs *struct {
		Spotify string `json:"spotify"`
	} `json:"external_urls"`
}

type appleMusicResult struct {
	URL     string `json:"url"`
	Artwork *struct {
		URL string `json:"url"`
	} `json:"artwork"`
}

type deezerResult struct {
	Album *struct {
		CoverXL string `json:"cover_xl"`
	} `json:"album"`
}

type findLyricsResponse struct {
	envelope
	Result []lyricsResult `json:"result"`
}

func (r *recognizeResult) toRecognition() *Recognition {
	rec := &Recognition{
		Title:  strings.TrimSpace(r.Title),
		Artist: strings.TrimSpace(r.Artist),
		Album:  strings.TrimSpace(r.Album),
	}
	if r.Lyrics != nil {
		rec.Lyrics = strings.TrimSpace(r.Lyrics.Lyrics)
	}
	if r.Spotify != nil && r.Spotify.ExternalURLs != nil {
		rec.SpotifyURL = r.Spotify.ExternalURLs.Spotify
	}
	if r.AppleMusic != nil {
		rec.AppleMusicURL = r.AppleMusic.URL
	}
	rec.ArtworkURL = r.artwork()
	return rec
}

// artwork picks cover art in order: Spotify, Apple Music, Deezer, placeholder.
func (r *recognizeResult) artwork() string {
	if r.Spotify != nil && r.Spotify.Album != nil && len(r.Spotify.Album.Images) > 0 && r.Spotify.Album.Images[0].URL != "" {
		return r.Spotify.Album.Images[0].URL
	}
	if r.AppleMusic != nil && r.AppleMusic.Artwork != nil && r.AppleMusic.Artwork.URL != "" {
		u := strings.Replace(r.AppleMusic.Artwork.URL, "{w}", appleArtworkSize, 1)
		return strings.Replace(u, "{h}", appleArtworkSize, 1)
	}
	if r.Deezer != nil && r.Deezer.Album != nil && r.Deezer.Album.CoverXL != "" {
		return r.Deezer.Album.CoverXL
	}
	return PlaceholderArtwork
}
