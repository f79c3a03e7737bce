package resolver

// SongPayload is the JSON body of a successful identify response. Lyrics and
// Source are null when no lyrics were found.
type SongPayload struct {
	Title         string  `json:"title"`
	Artist        string  `json:"artist"`
	AlbumCover    string  `json:"albumCover"`
	Platform      string  `json:"platform"`
	Lyrics        *string `json:"lyrics"`
	Source        *string `json:"source"`
	Message       string  `json:"message,omitempty"`
	SpotifyURL    string  `json:"spotifyUrl,omitempty"`
	AppleMusicURL string  `json:"appleMusicUrl,omitempty"`
}

// ErrorPayload is the JSON body of every non-2xx response.
type ErrorPayload struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// URLRequest is the JSON body of a link identification request.
type URLRequest struct {
	URL string `json:"url"`
}

const (
	// AudioField is the multipart field carrying the recorded clip.
	AudioField = "audio"
	// AudioFilename is the filename sent with recorded clips.
	AudioFilename = "recording.mp3"
	// RequestIDHeader correlates client and server log lines.
	RequestIDHeader = "X-Request-Id"
)
