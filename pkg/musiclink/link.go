package musiclink

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	linkRegex = regexp.MustCompile(`https?://\S+`)

	// trackingParams are query parameters that never affect which track a link
	// points to.
	trackingParams = []string{
		"utm_source", "utm_medium", "utm_campaign", "utm_term", "utm_content",
		"si", "feature", "ref",
	}
)

// ExtractLink returns the first http(s) link in pasted text with trailing
// punctuation and tracking parameters removed. Text without a link is returned
// trimmed so that classification can still reject it.
func ExtractLink(text string) string {
	text = strings.TrimSpace(text)
	match := linkRegex.FindString(text)
	if match == "" {
		return text
	}

	if cleaned := CleanLink(match); cleaned != "" {
		return cleaned
	}
	return match
}

// CleanLink strips trailing punctuation and tracking query parameters. It
// returns "" for strings that are not absolute http(s) URLs.
func CleanLink(rawURL string) string {
	rawURL = strings.TrimRight(rawURL, ".,!?;)")

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return ""
	}

	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}

	if u.RawQuery == "" {
		return u.String()
	}

	q := u.Query()
	for _, param := range trackingParams {
		q.Del(param)
	}
	u.RawQuery = q.Encode()

	return u.String()
}

// ExtractSpotifyTrackID returns the track ID of an open.spotify.com track link
// or a spotify:track: URI, or "" when the link is not a track.
func ExtractSpotifyTrackID(rawURL string) string {
	if strings.HasPrefix(rawURL, "spotify:track:") {
		return strings.TrimPrefix(rawURL, "spotify:track:")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	pathParts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, part := range pathParts {
		if part == "track" && i+1 < len(pathParts) {
			return pathParts[i+1]
		}
	}
	return ""
}
