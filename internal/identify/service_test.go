package identify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"songscout/internal/audd"
	"songscout/internal/core"
	"songscout/internal/i18n"
	"songscout/pkg/musiclink"
)

const lyricsNotFound = "Lyrics not found — try listening via mic instead."

type fakeMetadata struct {
	meta     *musiclink.TrackMetadata
	err      error
	delay    time.Duration
	calls    int
	platform musiclink.Platform
	url      string
}

func (f *fakeMetadata) FetchMetadata(ctx context.Context, url string, platform musiclink.Platform) (*musiclink.TrackMetadata, error) {
	f.calls++
	f.platform = platform
	f.url = url
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	m := *f.meta
	return &m, nil
}

type fakeRecognizer struct {
	rec   *audd.Recognition
	err   error
	calls int
}

func (f *fakeRecognizer) Recognize(_ context.Context, _ []byte) (*audd.Recognition, error) {
	f.calls++
	return f.rec, f.err
}

type fakeLyrics struct {
	text    string
	err     error
	queries []string
}

func (f *fakeLyrics) FindLyrics(_ context.Context, query string) (string, error) {
	f.queries = append(f.queries, query)
	return f.text, f.err
}

type recordingObserver struct {
	mu       sync.Mutex
	calls    []string
	outcomes []string
	sources  []core.LyricsSource
}

func (o *recordingObserver) ObserveCall(call string, _ time.Duration, _ error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls = append(o.calls, call)
}

func (o *recordingObserver) ObserveIdentification(_ core.RequestKind, _ musiclink.Platform, outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, outcome)
}

func (o *recordingObserver) ObserveLyrics(source core.LyricsSource) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sources = append(o.sources, source)
}

func newTestService(metadata musiclink.MetadataFetcher, recognizer Recognizer, lyrics LyricsSearcher, opts ...Option) *Service {
	opts = append([]Option{WithLogger(zap.NewNop())}, opts...)
	return New(metadata, recognizer, lyrics, opts...)
}

func TestIdentifyURL_PrimaryLyrics(t *testing.T) {
	metadata := &fakeMetadata{meta: &musiclink.TrackMetadata{Title: "Hello", Artist: "Adele", ArtworkURL: "https://art"}}
	search := &fakeLyrics{text: "Hello, it's me\nI was wondering"}
	observer := &recordingObserver{}
	svc := newTestService(metadata, nil, search, WithObserver(observer))

	result, err := svc.IdentifyURL(context.Background(), "https://www.youtube.com/watch?v=YQHsXMglC9A")
	require.NoError(t, err)

	assert.Equal(t, musiclink.PlatformYouTube, metadata.platform)
	assert.Equal(t, []string{"Hello Adele"}, search.queries)
	assert.Equal(t, "Hello", result.Title)
	assert.Equal(t, "Adele", result.Artist)
	assert.Equal(t, "https://art", result.AlbumArt)
	assert.Equal(t, musiclink.PlatformYouTube, result.Platform)
	assert.Equal(t, "Hello, it's me\nI was wondering", result.Lyrics)
	assert.Equal(t, core.LyricsSourcePrimary, result.Source)
	assert.False(t, result.NoLyrics)
	assert.Empty(t, result.Message)

	assert.Equal(t, []string{"metadata", "lyrics_search"}, observer.calls)
	assert.Equal(t, []string{OutcomeSuccess}, observer.outcomes)
	assert.Equal(t, []core.LyricsSource{core.LyricsSourcePrimary}, observer.sources)
}

func TestIdentifyURL_DescriptionHeuristic(t *testing.T) {
	description := "[Verse 1]\nline one\nline two\nline three\n[Chorus]\nline four"
	metadata := &fakeMetadata{meta: &musiclink.TrackMetadata{Title: "Song", Artist: "Band", Description: description}}
	svc := newTestService(metadata, nil, &fakeLyrics{})

	result, err := svc.IdentifyURL(context.Background(), "https://soundcloud.com/band/song")
	require.NoError(t, err)

	assert.False(t, result.NoLyrics)
	assert.Equal(t, core.LyricsSourceDescription, result.Source)
	assert.Equal(t, description, result.Lyrics)
	assert.Empty(t, result.Message)
}

func TestIdentifyURL_DescriptionKeepsCharacters(t *testing.T) {
	description := "[Verse]\r\nＨｅｌｌｏ ﬁre\r\nline two\r\nline three\r\n[Chorus] x²"
	metadata := &fakeMetadata{meta: &musiclink.TrackMetadata{Title: "Song", Artist: "Band", Description: description}}
	svc := newTestService(metadata, nil, &fakeLyrics{})

	result, err := svc.IdentifyURL(context.Background(), "https://audiomack.com/band/song/song")
	require.NoError(t, err)

	assert.Equal(t, core.LyricsSourceDescription, result.Source)
	assert.Equal(t, "[Verse]\nＨｅｌｌｏ ﬁre\nline two\nline three\n[Chorus] x²", result.Lyrics)
}

func TestIdentifyURL_NoLyrics(t *testing.T) {
	metadata := &fakeMetadata{meta: &musiclink.TrackMetadata{Title: "Song", Artist: "Band", Description: "Out now everywhere!"}}
	svc := newTestService(metadata, nil, &fakeLyrics{})

	result, err := svc.IdentifyURL(context.Background(), "https://www.deezer.com/track/1")
	require.NoError(t, err)

	assert.True(t, result.NoLyrics)
	assert.Empty(t, result.Lyrics)
	assert.Equal(t, core.LyricsSourceNone, result.Source)
	assert.Equal(t, lyricsNotFound, result.Message)
}

func TestIdentifyURL_SearchErrorIsSoft(t *testing.T) {
	description := "[Chorus]\nwe go on and on\nwe go on and on\nuntil the night is done\nand on"
	metadata := &fakeMetadata{meta: &musiclink.TrackMetadata{Title: "Song", Artist: "Band", Description: description}}
	svc := newTestService(metadata, nil, &fakeLyrics{err: errors.New("lyrics service down")})

	result, err := svc.IdentifyURL(context.Background(), "https://open.spotify.com/track/x")
	require.NoError(t, err)
	assert.Equal(t, core.LyricsSourceDescription, result.Source)
}

func TestIdentifyURL_SearchCredentialErrors(t *testing.T) {
	tests := []struct {
		name   string
		search LyricsSearcher
	}{
		{name: "Missing key", search: audd.NewClient("")},
		{name: "Rejected key", search: &fakeLyrics{err: fmt.Errorf("%w: invalid api_token", audd.ErrUnauthorized)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			description := "[Chorus]\nwe go on and on\nwe go on and on\nuntil the night is done\nand on"
			metadata := &fakeMetadata{meta: &musiclink.TrackMetadata{Title: "Song", Artist: "Band", Description: description}}
			observer := &recordingObserver{}
			svc := newTestService(metadata, nil, tt.search, WithObserver(observer))

			result, err := svc.IdentifyURL(context.Background(), "https://www.youtube.com/watch?v=x")
			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, core.IsKind(err, core.KindConfiguration), "error: %v", err)
			assert.Equal(t, []string{OutcomeFailure}, observer.outcomes)
		})
	}
}

func TestIdentifyAudio_SearchCredentialError(t *testing.T) {
	recognizer := &fakeRecognizer{rec: &audd.Recognition{Title: "Hello", Artist: "Adele"}}
	svc := newTestService(&fakeMetadata{}, recognizer, &fakeLyrics{err: audd.ErrUnauthorized})

	_, err := svc.IdentifyAudio(context.Background(), []byte("x"))
	assert.True(t, core.IsKind(err, core.KindConfiguration), "error: %v", err)
}

func TestIdentifyURL_UnsupportedLink(t *testing.T) {
	metadata := &fakeMetadata{}
	search := &fakeLyrics{}
	svc := newTestService(metadata, nil, search)

	_, err := svc.IdentifyURL(context.Background(), "https://example.com/some/song")
	require.Error(t, err)

	assert.True(t, core.IsKind(err, core.KindUnsupported))
	assert.Equal(t, 0, metadata.calls, "no metadata lookup for unsupported links")
	assert.Empty(t, search.queries, "no lyrics lookup for unsupported links")
}

func TestIdentifyURL_MetadataFailure(t *testing.T) {
	search := &fakeLyrics{}
	svc := newTestService(&fakeMetadata{err: errors.New("oEmbed returned status 404")}, nil, search)

	_, err := svc.IdentifyURL(context.Background(), "https://music.apple.com/us/album/x/1?i=2")
	require.Error(t, err)
	assert.True(t, core.IsKind(err, core.KindMetadata))
	assert.Contains(t, err.Error(), "status 404")
	assert.Empty(t, search.queries)
}

func TestIdentifyURL_MetadataTimeout(t *testing.T) {
	metadata := &fakeMetadata{meta: &musiclink.TrackMetadata{Title: "x", Artist: "y"}, delay: time.Second}
	svc := newTestService(metadata, nil, nil, WithCallTimeout(20*time.Millisecond))

	start := time.Now()
	_, err := svc.IdentifyURL(context.Background(), "https://youtu.be/abc")
	require.Error(t, err)
	assert.True(t, core.IsKind(err, core.KindMetadata))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestIdentifyURL_EmptyAndPastedText(t *testing.T) {
	metadata := &fakeMetadata{meta: &musiclink.TrackMetadata{Title: "Hello", Artist: "Adele"}}
	svc := newTestService(metadata, nil, nil)

	_, err := svc.IdentifyURL(context.Background(), "   ")
	assert.True(t, core.IsKind(err, core.KindInvalidInput))

	_, err = svc.IdentifyURL(context.Background(), "check this https://youtu.be/abc?si=share")
	require.NoError(t, err)
	assert.Equal(t, "https://youtu.be/abc", metadata.url)
}

func TestIdentifyAudio_InlineLyrics(t *testing.T) {
	recognizer := &fakeRecognizer{rec: &audd.Recognition{
		Title:         "Hello",
		Artist:        "Adele",
		ArtworkURL:    "https://i.scdn.co/x",
		Lyrics:        "Hello, it's me",
		SpotifyURL:    "https://open.spotify.com/track/x",
		AppleMusicURL: "https://music.apple.com/x",
	}}
	search := &fakeLyrics{text: "should not be used"}
	svc := newTestService(nil, recognizer, search)

	result, err := svc.IdentifyAudio(context.Background(), []byte("clip"))
	require.NoError(t, err)

	assert.Equal(t, musiclink.PlatformAudioRecognition, result.Platform)
	assert.Equal(t, "Hello, it's me", result.Lyrics)
	assert.Equal(t, core.LyricsSourcePrimary, result.Source)
	assert.Equal(t, "https://open.spotify.com/track/x", result.SpotifyURL)
	assert.Equal(t, "https://music.apple.com/x", result.AppleMusicURL)
	assert.Empty(t, search.queries, "search must not run when inline lyrics exist")
}

func TestIdentifyAudio_SearchFallback(t *testing.T) {
	recognizer := &fakeRecognizer{rec: &audd.Recognition{Title: "Hello", Artist: "Adele", ArtworkURL: audd.PlaceholderArtwork}}
	search := &fakeLyrics{text: "searched lyrics"}
	svc := newTestService(nil, recognizer, search)

	result, err := svc.IdentifyAudio(context.Background(), []byte("clip"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Hello Adele"}, search.queries)
	assert.Equal(t, "searched lyrics", result.Lyrics)
	assert.Equal(t, audd.PlaceholderArtwork, result.AlbumArt)
}

func TestIdentifyAudio_NoLyricsGerman(t *testing.T) {
	recognizer := &fakeRecognizer{rec: &audd.Recognition{Title: "Hello", Artist: "Adele"}}
	svc := newTestService(nil, recognizer, &fakeLyrics{}, WithLocalizer(i18n.NewLocalizer(i18n.GermanMessages)))

	result, err := svc.IdentifyAudio(context.Background(), []byte("clip"))
	require.NoError(t, err)
	assert.True(t, result.NoLyrics)
	assert.Equal(t, i18n.NewLocalizer(i18n.GermanMessages).T("lyrics.not_found"), result.Message)
}

func TestIdentifyAudio_Errors(t *testing.T) {
	tests := []struct {
		name       string
		recognizer Recognizer
		payload    []byte
		expected   core.Kind
	}{
		{name: "Empty payload", recognizer: &fakeRecognizer{}, payload: nil, expected: core.KindInvalidInput},
		{name: "No recognizer", recognizer: nil, payload: []byte("x"), expected: core.KindConfiguration},
		{name: "Not recognized", recognizer: &fakeRecognizer{err: audd.ErrNotRecognized}, payload: []byte("x"), expected: core.KindNotRecognized},
		{name: "Nil recognition", recognizer: &fakeRecognizer{}, payload: []byte("x"), expected: core.KindNotRecognized},
		{name: "Missing key", recognizer: &fakeRecognizer{err: audd.ErrMissingAPIKey}, payload: []byte("x"), expected: core.KindConfiguration},
		{name: "Rejected key", recognizer: &fakeRecognizer{err: audd.ErrUnauthorized}, payload: []byte("x"), expected: core.KindConfiguration},
		{name: "Recognition API error", recognizer: &fakeRecognizer{err: fmt.Errorf("%w: audd error 300: Recognition failed", audd.ErrNotRecognized)}, payload: []byte("x"), expected: core.KindNotRecognized},
		{name: "Network", recognizer: &fakeRecognizer{err: errors.New("connection refused")}, payload: []byte("x"), expected: core.KindTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(nil, tt.recognizer, nil)
			_, err := svc.IdentifyAudio(context.Background(), tt.payload)
			require.Error(t, err)
			assert.Equal(t, tt.expected, core.KindOf(err), "error: %v", err)
		})
	}
}

func TestIdentify_Dispatch(t *testing.T) {
	metadata := &fakeMetadata{meta: &musiclink.TrackMetadata{Title: "Hello", Artist: "Adele"}}
	recognizer := &fakeRecognizer{rec: &audd.Recognition{Title: "Hello", Artist: "Adele"}}
	svc := newTestService(metadata, recognizer, nil)

	_, err := svc.Identify(context.Background(), core.NewURLRequest("https://youtu.be/abc"))
	require.NoError(t, err)
	_, err = svc.Identify(context.Background(), core.NewAudioRequest([]byte("clip")))
	require.NoError(t, err)
	assert.Equal(t, 1, metadata.calls)
	assert.Equal(t, 1, recognizer.calls)

	_, err = svc.Identify(context.Background(), core.IdentificationRequest{Kind: core.RequestKind(42)})
	assert.True(t, core.IsKind(err, core.KindInvalidInput))
}

func TestNoLyricsInvariant(t *testing.T) {
	descriptions := []string{
		"",
		"short tagline",
		"[Verse 1]\nline one\nline two\nline three\n[Chorus]\nline four",
	}
	searchTexts := []string{"", "   ", "found lyrics"}

	for _, desc := range descriptions {
		for _, text := range searchTexts {
			metadata := &fakeMetadata{meta: &musiclink.TrackMetadata{Title: "t", Artist: "a", Description: desc}}
			svc := newTestService(metadata, nil, &fakeLyrics{text: text})

			result, err := svc.IdentifyURL(context.Background(), "https://youtu.be/abc")
			require.NoError(t, err)
			assert.Equal(t, result.Lyrics == "", result.NoLyrics)
			assert.Equal(t, result.NoLyrics, result.Message != "")
			assert.Equal(t, result.NoLyrics, result.Source == core.LyricsSourceNone)
		}
	}
}

func TestSearchQuery(t *testing.T) {
	assert.Equal(t, "Hello Adele", searchQuery(&musiclink.TrackMetadata{Title: "Hello", Artist: "Adele"}))
	assert.Equal(t, "Hello", searchQuery(&musiclink.TrackMetadata{Title: "Hello", Artist: musiclink.UnknownArtist}))
}

func TestRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	assert.Equal(t, "req-1", requestID(ctx))

	generated := requestID(context.Background())
	assert.Len(t, generated, 36)
}
