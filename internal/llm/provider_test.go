package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"songscout/internal/core"
)

type fakeClient struct {
	content string
	err     error
	user    string
}

func (f *fakeClient) Complete(_ context.Context, _, user string) (string, error) {
	f.user = user
	return f.content, f.err
}

func TestParseSplitResponse(t *testing.T) {
	tests := []struct {
		name           string
		content        string
		expectedArtist string
		expectedTitle  string
		wantErr        error
	}{
		{
			name:           "Plain JSON",
			content:        `{"found": true, "artist": "Adele", "title": "Hello"}`,
			expectedArtist: "Adele",
			expectedTitle:  "Hello",
		},
		{
			name:           "Code fence",
			content:        "```json\n{\"found\": true, \"artist\": \" Burna Boy \", \"title\": \"Last Last\"}\n```",
			expectedArtist: "Burna Boy",
			expectedTitle:  "Last Last",
		},
		{
			name:    "Not found",
			content: `{"found": false}`,
			wantErr: ErrNoSplit,
		},
		{
			name:    "Found without artist",
			content: `{"found": true, "title": "Hello"}`,
			wantErr: ErrNoSplit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			artist, title, err := parseSplitResponse(tt.content)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedArtist, artist)
			assert.Equal(t, tt.expectedTitle, title)
		})
	}

	_, _, err := parseSplitResponse("not json")
	assert.Error(t, err)
}

func TestNewProvider(t *testing.T) {
	logger := zap.NewNop()

	p, err := NewProvider(&core.LLMConfig{Provider: "none"}, logger)
	require.NoError(t, err)
	assert.False(t, p.Enabled())

	_, _, err = p.SplitTitle(context.Background(), "Adele Hello")
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = NewProvider(&core.LLMConfig{Provider: "openai"}, logger)
	assert.Error(t, err, "openai without API key")

	_, err = NewProvider(&core.LLMConfig{Provider: "anthropic"}, logger)
	assert.Error(t, err, "anthropic without API key")

	_, err = NewProvider(&core.LLMConfig{Provider: "mystery"}, logger)
	assert.Error(t, err)

	p, err = NewProvider(&core.LLMConfig{Provider: "openai", APIKey: "sk-test"}, logger)
	require.NoError(t, err)
	assert.True(t, p.Enabled())
}

func TestProvider_SplitTitle(t *testing.T) {
	client := &fakeClient{content: `{"found": true, "artist": "Adele", "title": "Hello"}`}
	p := &Provider{config: &core.LLMConfig{}, logger: zap.NewNop(), client: client}

	artist, title, err := p.SplitTitle(context.Background(), "Adele Hello Live at the BBC")
	require.NoError(t, err)
	assert.Equal(t, "Adele", artist)
	assert.Equal(t, "Hello", title)
	assert.Contains(t, client.user, "Adele Hello Live at the BBC")

	_, _, err = p.SplitTitle(context.Background(), "  ")
	assert.Error(t, err)

	p.client = &fakeClient{err: errors.New("rate limited")}
	_, _, err = p.SplitTitle(context.Background(), "x")
	assert.Error(t, err)
}

func TestOllamaClient_Complete(t *testing.T) {
	var got OllamaRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(OllamaResponse{Response: `{"found": false}`, Done: true})
	}))
	defer srv.Close()

	client, err := NewOllamaClient(&core.LLMConfig{BaseURL: srv.URL + "/"}, zap.NewNop())
	require.NoError(t, err)

	content, err := client.Complete(context.Background(), "system prompt", "user prompt")
	require.NoError(t, err)
	assert.Equal(t, `{"found": false}`, content)
	assert.Equal(t, defaultOllamaModel, got.Model)
	assert.Equal(t, "system prompt", got.System)
	assert.Equal(t, "json", got.Format)
	assert.False(t, got.Stream)
}
