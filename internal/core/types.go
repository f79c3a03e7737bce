package core

import (
	"songscout/pkg/musiclink"
)

// RequestKind distinguishes the two identification inputs.
type RequestKind int

const (
	// RequestKindURL identifies a song from a platform link.
	RequestKindURL RequestKind = iota
	// RequestKindAudio identifies a song from a recorded clip.
	RequestKindAudio
)

func (k RequestKind) String() string {
	switch k {
	case RequestKindURL:
		return "url"
	case RequestKindAudio:
		return "audio"
	default:
		return "unknown"
	}
}

// IdentificationRequest is a single-use identification input. Exactly one of URL
// or Payload is meaningful, selected by Kind.
type IdentificationRequest struct {
	Kind    RequestKind
	URL     string
	Payload []byte
}

// NewURLRequest builds a URL identification request.
func NewURLRequest(url string) IdentificationRequest {
	return IdentificationRequest{Kind: RequestKindURL, URL: url}
}

// NewAudioRequest builds an audio identification request.
func NewAudioRequest(payload []byte) IdentificationRequest {
	return IdentificationRequest{Kind: RequestKindAudio, Payload: payload}
}

// LyricsSource records which tier produced the lyrics.
type LyricsSource string

const (
	// LyricsSourceNone means no tier produced lyrics.
	LyricsSourceNone LyricsSource = ""
	// LyricsSourcePrimary is the lyrics search / fingerprinting service.
	LyricsSourcePrimary LyricsSource = "audd"
	// LyricsSourceDescription is the platform description heuristic.
	LyricsSourceDescription LyricsSource = "platform_metadata"
)

// LyricsResult is the outcome of lyrics resolution. An empty Text is a valid
// terminal state.
type LyricsResult struct {
	Text   string
	Source LyricsSource
}

// Found reports whether lyrics were located.
func (r LyricsResult) Found() bool {
	return r.Text != ""
}

// SongResult is the unified identification result returned to callers.
type SongResult struct {
	Title         string
	Artist        string
	AlbumArt      string
	Lyrics        string
	Platform      musiclink.Platform
	Source        LyricsSource
	NoLyrics      bool
	Message       string
	SpotifyURL    string
	AppleMusicURL string
}

// NewSongResult assembles a result from metadata and lyrics. NoLyrics is derived
// from the lyrics text and the explanatory message is only kept when lyrics are
// missing.
func NewSongResult(meta *musiclink.TrackMetadata, platform musiclink.Platform, lyrics LyricsResult, missingMessage string) *SongResult {
	result := &SongResult{
		Title:    meta.Title,
		Artist:   meta.Artist,
		AlbumArt: meta.ArtworkURL,
		Platform: platform,
	}

	if lyrics.Found() {
		result.Lyrics = lyrics.Text
		result.Source = lyrics.Source
		return result
	}

	result.NoLyrics = true
	result.Message = missingMessage
	return result
}
