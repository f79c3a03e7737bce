// Package lyrics decides whether free-form text is song lyrics and prepares
// lyric text for display.
package lyrics

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

const (
	// MinLength is the shortest text, in characters, accepted as lyrics.
	MinLength = 50
	// MinLines is the fewest non-blank lines accepted as lyrics.
	MinLines = 4
	// MaxAvgLineLength bounds the average line length for texts that qualify
	// through repeated lines.
	MaxAvgLineLength = 100
)

var sectionMarkerRegex = regexp.MustCompile(`(?i)verse|chorus|bridge|intro|outro`)

// LooksLikeLyrics reports whether a platform description is plausibly song
// lyrics. Text shorter than MinLength or with fewer than MinLines non-blank
// lines is rejected. Otherwise it is accepted when it names a song section, or
// when some line repeats exactly and lines are short on average.
func LooksLikeLyrics(text string) bool {
	length := utf8.RuneCountInString(text)
	if length < MinLength {
		return false
	}

	lines := nonBlankLines(text)
	if len(lines) < MinLines {
		return false
	}

	if sectionMarkerRegex.MatchString(text) {
		return true
	}

	return hasRepeatedLine(lines) && length/len(lines) < MaxAvgLineLength
}

// Normalize composes characters (NFC) and converts line endings to "\n".
// Compatibility characters such as ligatures and fullwidth forms are kept.
func Normalize(text string) string {
	text = norm.NFC.String(text)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.TrimSpace(text)
}

func nonBlankLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func hasRepeatedLine(lines []string) bool {
	seen := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		if _, ok := seen[line]; ok {
			return true
		}
		seen[line] = struct{}{}
	}
	return false
}
