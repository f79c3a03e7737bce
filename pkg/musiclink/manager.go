package musiclink

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

var (
	// ErrUnsupportedPlatform is returned for links no resolver is registered for.
	ErrUnsupportedPlatform = errors.New("unsupported platform")
)

// platformMarkers lists the domain substrings that identify each platform.
// Order matters: the first match wins.
var platformMarkers = []struct {
	platform Platform
	markers  []string
}{
	{PlatformSpotify, []string{"spotify.com"}},
	{PlatformAppleMusic, []string{"music.apple.com"}},
	{PlatformYouTube, []string{"youtube.com", "youtu.be"}},
	{PlatformSoundCloud, []string{"soundcloud.com"}},
	{PlatformDeezer, []string{"deezer.com"}},
	{PlatformAudiomack, []string{"audiomack.com"}},
	{PlatformBoomplay, []string{"boomplay.com"}},
}

// DetectPlatform classifies a link by the domain substrings it contains. It
// never touches the network.
func DetectPlatform(rawURL string) Platform {
	lower := strings.ToLower(rawURL)
	for _, pm := range platformMarkers {
		for _, marker := range pm.markers {
			if strings.Contains(lower, marker) {
				return pm.platform
			}
		}
	}
	return PlatformUnknown
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithResolver registers or replaces the resolver for a platform.
func WithResolver(platform Platform, resolver Resolver) ManagerOption {
	return func(m *Manager) {
		m.resolvers[platform] = resolver
	}
}

// WithTitleSplitter sets the splitter consulted when a title carries no
// artist separator.
func WithTitleSplitter(splitter TitleSplitter) ManagerOption {
	return func(m *Manager) {
		m.splitter = splitter
	}
}

// WithLogger sets the logger used by the manager.
func WithLogger(logger *zap.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// Manager holds one metadata strategy per platform.
type Manager struct {
	resolvers map[Platform]Resolver
	splitter  TitleSplitter
	logger    *zap.Logger
}

// NewManager creates a music link manager with the default resolvers for all
// supported platforms.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		resolvers: map[Platform]Resolver{
			PlatformSpotify:    NewSpotifyOEmbedResolver(),
			PlatformAppleMusic: NewAppleMusicResolver(),
			PlatformYouTube:    NewYouTubeResolver(),
			PlatformSoundCloud: NewSoundCloudResolver(),
			PlatformDeezer:     NewDeezerResolver(),
			PlatformAudiomack:  NewAudiomackResolver(),
			PlatformBoomplay:   NewBoomplayResolver(),
		},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Supports reports whether a resolver is registered for the platform.
func (m *Manager) Supports(platform Platform) bool {
	_, ok := m.resolvers[platform]
	return ok
}

// FetchMetadata looks up track metadata using the platform's strategy. There is
// no fallback to other platforms.
func (m *Manager) FetchMetadata(ctx context.Context, rawURL string, platform Platform) (*TrackMetadata, error) {
	resolver, ok := m.resolvers[platform]
	if !ok || platform == PlatformUnknown {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, platform)
	}

	meta, err := resolver.Resolve(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	if meta == nil {
		return nil, fmt.Errorf("%s resolver returned no metadata", platform)
	}

	if meta.Artist == UnknownArtist && meta.Title != UnknownTitle && m.splitter != nil {
		m.splitTitle(ctx, meta)
	}

	return meta, nil
}

// Resolve detects the platform of a link and fetches its metadata.
func (m *Manager) Resolve(ctx context.Context, rawURL string) (*TrackMetadata, error) {
	return m.FetchMetadata(ctx, rawURL, DetectPlatform(rawURL))
}

// splitTitle asks the title splitter to separate artist and title. Failures
// leave the metadata untouched.
func (m *Manager) splitTitle(ctx context.Context, meta *TrackMetadata) {
	artist, title, err := m.splitter.SplitTitle(ctx, meta.Title)
	if err != nil {
		m.logger.Debug("Title split failed", zap.String("title", meta.Title), zap.Error(err))
		return
	}
	artist = strings.TrimSpace(artist)
	title = strings.TrimSpace(title)
	if artist == "" || title == "" {
		return
	}

	m.logger.Debug("Split title",
		zap.String("raw", meta.Title),
		zap.String("artist", artist),
		zap.String("title", title))
	meta.Artist = artist
	meta.Title = title
}
