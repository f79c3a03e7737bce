// Package identify turns a platform link or an audio clip into a song result
// with title, artist, artwork and, when available, lyrics.
package identify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"songscout/internal/audd"
	"songscout/internal/core"
	"songscout/internal/i18n"
	"songscout/pkg/musiclink"
)

// Recognizer fingerprints audio recordings.
type Recognizer interface {
	Recognize(ctx context.Context, audio []byte) (*audd.Recognition, error)
}

// LyricsSearcher looks up lyrics by a free text query. An empty string with a
// nil error means nothing was found.
type LyricsSearcher interface {
	FindLyrics(ctx context.Context, query string) (string, error)
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithObserver sets the metrics observer.
func WithObserver(observer Observer) Option {
	return func(s *Service) {
		if observer != nil {
			s.observer = observer
		}
	}
}

// WithLocalizer sets the localizer for user-facing messages.
func WithLocalizer(localizer *i18n.Localizer) Option {
	return func(s *Service) {
		if localizer != nil {
			s.localizer = localizer
		}
	}
}

// WithCallTimeout bounds every single outbound call.
func WithCallTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		if timeout > 0 {
			s.callTimeout = timeout
		}
	}
}

// Service is the identification aggregator. It keeps no per-request state
// and is safe for concurrent use.
type Service struct {
	metadata    musiclink.MetadataFetcher
	recognizer  Recognizer
	lyrics      LyricsSearcher
	logger      *zap.Logger
	observer    Observer
	localizer   *i18n.Localizer
	callTimeout time.Duration
}

// New creates a Service. recognizer and lyrics may be nil, in which case
// audio identification fails with a configuration error and the lyrics search
// tier finds nothing.
func New(metadata musiclink.MetadataFetcher, recognizer Recognizer, lyrics LyricsSearcher, opts ...Option) *Service {
	s := &Service{
		metadata:    metadata,
		recognizer:  recognizer,
		lyrics:      lyrics,
		logger:      zap.NewNop(),
		observer:    nopObserver{},
		localizer:   i18n.NewLocalizer(i18n.DefaultLanguage),
		callTimeout: core.DefaultCallTimeoutSecs * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Identify dispatches on the request kind.
func (s *Service) Identify(ctx context.Context, req core.IdentificationRequest) (*core.SongResult, error) {
	switch req.Kind {
	case core.RequestKindURL:
		return s.IdentifyURL(ctx, req.URL)
	case core.RequestKindAudio:
		return s.IdentifyAudio(ctx, req.Payload)
	default:
		return nil, core.E(core.KindInvalidInput, core.Op("identify"), fmt.Sprintf("unknown request kind %d", req.Kind))
	}
}

// IdentifyURL identifies the song behind a platform link. The platform is
// classified before any network call; unknown links fail without contacting
// any service.
func (s *Service) IdentifyURL(ctx context.Context, rawURL string) (*core.SongResult, error) {
	const op core.Op = "identify.url"

	link := musiclink.ExtractLink(rawURL)
	if link == "" {
		return nil, core.E(core.KindInvalidInput, op, "url is required")
	}

	logger := s.logger.With(zap.String("request_id", requestID(ctx)), zap.String("url", link))

	platform := musiclink.DetectPlatform(link)
	if platform == musiclink.PlatformUnknown {
		logger.Info("Unsupported link")
		s.observer.ObserveIdentification(core.RequestKindURL, platform, OutcomeFailure)
		return nil, core.E(core.KindUnsupported, op, fmt.Sprintf("no supported platform in %q", link))
	}

	meta, err := s.fetchMetadata(ctx, link, platform)
	if err != nil {
		logger.Warn("Metadata lookup failed", zap.String("platform", string(platform)), zap.Error(err))
		s.observer.ObserveIdentification(core.RequestKindURL, platform, OutcomeFailure)
		return nil, core.E(core.KindMetadata, op, err)
	}

	lyrics, err := s.resolveLyrics(ctx, logger, []LyricsTier{
		s.searchTier(meta),
		descriptionTier(meta),
	})
	if err != nil {
		s.observer.ObserveIdentification(core.RequestKindURL, platform, OutcomeFailure)
		return nil, core.E(core.KindConfiguration, op, err)
	}

	result := core.NewSongResult(meta, platform, lyrics, s.localizer.T("lyrics.not_found"))

	logger.Info("Identified song from link",
		zap.String("platform", string(platform)),
		zap.String("title", result.Title),
		zap.String("artist", result.Artist),
		zap.String("lyrics_source", string(result.Source)))
	s.observer.ObserveIdentification(core.RequestKindURL, platform, OutcomeSuccess)

	return result, nil
}

// IdentifyAudio identifies the song in a recorded clip.
func (s *Service) IdentifyAudio(ctx context.Context, payload []byte) (*core.SongResult, error) {
	const op core.Op = "identify.audio"
	platform := musiclink.PlatformAudioRecognition

	if len(payload) == 0 {
		return nil, core.E(core.KindInvalidInput, op, "audio payload is empty")
	}
	if s.recognizer == nil {
		return nil, core.E(core.KindConfiguration, op, "audio recognition is not configured")
	}

	logger := s.logger.With(zap.String("request_id", requestID(ctx)), zap.Int("audio_bytes", len(payload)))

	rec, err := s.recognize(ctx, payload)
	if err != nil {
		logger.Warn("Audio recognition failed", zap.Error(err))
		s.observer.ObserveIdentification(core.RequestKindAudio, platform, OutcomeFailure)
		return nil, core.E(recognitionErrorKind(err), op, err)
	}

	meta := &musiclink.TrackMetadata{
		Title:      firstNonEmpty(rec.Title, musiclink.UnknownTitle),
		Artist:     firstNonEmpty(rec.Artist, musiclink.UnknownArtist),
		ArtworkURL: rec.ArtworkURL,
	}

	lyrics, err := s.resolveLyrics(ctx, logger, []LyricsTier{
		inlineTier(rec),
		s.searchTier(meta),
	})
	if err != nil {
		s.observer.ObserveIdentification(core.RequestKindAudio, platform, OutcomeFailure)
		return nil, core.E(core.KindConfiguration, op, err)
	}

	result := core.NewSongResult(meta, platform, lyrics, s.localizer.T("lyrics.not_found"))
	result.SpotifyURL = rec.SpotifyURL
	result.AppleMusicURL = rec.AppleMusicURL

	logger.Info("Identified song from audio",
		zap.String("title", result.Title),
		zap.String("artist", result.Artist),
		zap.String("lyrics_source", string(result.Source)))
	s.observer.ObserveIdentification(core.RequestKindAudio, platform, OutcomeSuccess)

	return result, nil
}

func (s *Service) fetchMetadata(ctx context.Context, link string, platform musiclink.Platform) (*musiclink.TrackMetadata, error) {
	ctx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	start := time.Now()
	meta, err := s.metadata.FetchMetadata(ctx, link, platform)
	s.observer.ObserveCall("metadata", time.Since(start), err)
	if err == nil && meta == nil {
		err = errors.New("no metadata returned")
	}
	return meta, err
}

func (s *Service) recognize(ctx context.Context, payload []byte) (*audd.Recognition, error) {
	ctx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	start := time.Now()
	rec, err := s.recognizer.Recognize(ctx, payload)
	s.observer.ObserveCall("recognize", time.Since(start), err)
	if err == nil && rec == nil {
		err = audd.ErrNotRecognized
	}
	return rec, err
}

// recognitionErrorKind maps fingerprinting failures onto error kinds. Only
// network and HTTP failures count as transport errors.
func recognitionErrorKind(err error) core.Kind {
	switch {
	case errors.Is(err, audd.ErrNotRecognized):
		return core.KindNotRecognized
	case isCredentialError(err):
		return core.KindConfiguration
	default:
		return core.KindTransport
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
