package musiclink

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSoundCloudResolver_Resolve(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedTitle  string
		expectedArtist string
		expectedArt    string
	}{
		{
			name:           "Artist - Title upload",
			body:           `{"title": "Burna Boy - Last Last", "author_name": "burnaboy", "thumbnail_url": "https://i1.sndcdn.com/art.jpg"}`,
			expectedTitle:  "Last Last",
			expectedArtist: "Burna Boy",
			expectedArt:    "https://i1.sndcdn.com/art.jpg",
		},
		{
			name:           "Title without separator",
			body:           `{"title": "Late night demo", "author_name": "someone"}`,
			expectedTitle:  "Late night demo",
			expectedArtist: UnknownArtist,
		},
		{
			name:           "Alternate thumbnail field",
			body:           `{"title": "A - B", "thumbnail": "https://example.com/t.jpg"}`,
			expectedTitle:  "B",
			expectedArtist: "A",
			expectedArt:    "https://example.com/t.jpg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newOEmbedServer(t, tt.body, nil)
			resolver := NewSoundCloudResolver(WithEndpoint(srv.URL), WithHTTPClient(srv.Client()))

			meta, err := resolver.Resolve(context.Background(), "https://soundcloud.com/artist/track")
			require.NoError(t, err)
			assert.Equal(t, tt.expectedTitle, meta.Title)
			assert.Equal(t, tt.expectedArtist, meta.Artist)
			assert.Equal(t, tt.expectedArt, meta.ArtworkURL)
		})
	}
}

func TestOEmbedResolver_Resolve(t *testing.T) {
	tests := []struct {
		name           string
		newResolver    func(opts ...ResolverOption) *OEmbedResolver
		body           string
		expectedTitle  string
		expectedArtist string
		expectedDesc   string
	}{
		{
			name:           "Spotify author_name",
			newResolver:    NewSpotifyOEmbedResolver,
			body:           `{"title": "Hello", "author_name": "Adele", "thumbnail_url": "https://i.scdn.co/image/x"}`,
			expectedTitle:  "Hello",
			expectedArtist: "Adele",
		},
		{
			name:           "Deezer author field",
			newResolver:    NewDeezerResolver,
			body:           `{"title": "Essence", "author": "Wizkid", "description": "a caption"}`,
			expectedTitle:  "Essence",
			expectedArtist: "Wizkid",
			expectedDesc:   "a caption",
		},
		{
			name:           "Missing fields use placeholders",
			newResolver:    NewSpotifyOEmbedResolver,
			body:           `{}`,
			expectedTitle:  UnknownTitle,
			expectedArtist: UnknownArtist,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newOEmbedServer(t, tt.body, nil)
			resolver := tt.newResolver(WithEndpoint(srv.URL), WithHTTPClient(srv.Client()))

			meta, err := resolver.Resolve(context.Background(), "https://open.spotify.com/track/abc")
			require.NoError(t, err)
			assert.Equal(t, tt.expectedTitle, meta.Title)
			assert.Equal(t, tt.expectedArtist, meta.Artist)
			assert.Equal(t, tt.expectedDesc, meta.Description)
		})
	}
}

func TestOEmbedResolver_ResolveInvalidJSON(t *testing.T) {
	srv := newOEmbedServer(t, `not json`, nil)
	resolver := NewDeezerResolver(WithEndpoint(srv.URL), WithHTTPClient(srv.Client()))

	_, err := resolver.Resolve(context.Background(), "https://www.deezer.com/track/1")
	require.Error(t, err)
}
