package identify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"songscout/internal/audd"
	"songscout/internal/core"
	"songscout/pkg/lyrics"
	"songscout/pkg/musiclink"
)

// LyricsTier is one lyrics source. Find returns "" when the tier has nothing.
// Errors are logged and treated the same way, except credential errors which
// end the request.
type LyricsTier struct {
	Name   string
	Source core.LyricsSource
	Find   func(ctx context.Context) (string, error)
}

// resolveLyrics runs the tiers in order and stops at the first one that
// yields text. Tiers never run concurrently.
func (s *Service) resolveLyrics(ctx context.Context, logger *zap.Logger, tiers []LyricsTier) (core.LyricsResult, error) {
	for _, tier := range tiers {
		if ctx.Err() != nil {
			break
		}

		text, err := tier.Find(ctx)
		if isCredentialError(err) {
			logger.Error("Lyrics service rejected the configured credentials", zap.String("tier", tier.Name), zap.Error(err))
			return core.LyricsResult{}, err
		}
		if err != nil {
			logger.Warn("Lyrics tier failed", zap.String("tier", tier.Name), zap.Error(err))
			continue
		}

		text = strings.TrimSpace(text)
		if text == "" {
			logger.Debug("Lyrics tier found nothing", zap.String("tier", tier.Name))
			continue
		}

		s.observer.ObserveLyrics(tier.Source)
		return core.LyricsResult{Text: text, Source: tier.Source}, nil
	}

	s.observer.ObserveLyrics(core.LyricsSourceNone)
	return core.LyricsResult{}, nil
}

func isCredentialError(err error) bool {
	return errors.Is(err, audd.ErrMissingAPIKey) || errors.Is(err, audd.ErrUnauthorized)
}

// searchTier queries the lyrics search service with "<title> <artist>".
func (s *Service) searchTier(meta *musiclink.TrackMetadata) LyricsTier {
	return LyricsTier{
		Name:   "search",
		Source: core.LyricsSourcePrimary,
		Find: func(ctx context.Context) (string, error) {
			if s.lyrics == nil {
				return "", nil
			}

			ctx, cancel := context.WithTimeout(ctx, s.callTimeout)
			defer cancel()

			start := time.Now()
			text, err := s.lyrics.FindLyrics(ctx, searchQuery(meta))
			s.observer.ObserveCall("lyrics_search", time.Since(start), err)
			return text, err
		},
	}
}

// descriptionTier accepts the platform description when it looks like lyrics.
func descriptionTier(meta *musiclink.TrackMetadata) LyricsTier {
	return LyricsTier{
		Name:   "description",
		Source: core.LyricsSourceDescription,
		Find: func(context.Context) (string, error) {
			if !lyrics.LooksLikeLyrics(meta.Description) {
				return "", nil
			}
			return lyrics.Normalize(meta.Description), nil
		},
	}
}

// inlineTier uses lyrics returned together with the fingerprint match.
func inlineTier(rec *audd.Recognition) LyricsTier {
	return LyricsTier{
		Name:   "inline",
		Source: core.LyricsSourcePrimary,
		Find: func(context.Context) (string, error) {
			return rec.Lyrics, nil
		},
	}
}

func searchQuery(meta *musiclink.TrackMetadata) string {
	artist := meta.Artist
	if artist == musiclink.UnknownArtist {
		artist = ""
	}
	return strings.TrimSpace(fmt.Sprintf("%s %s", meta.Title, artist))
}
