// Package llm separates artist and title in free-form track titles using a
// language model. It is only consulted for titles without the usual
// "Artist - Title" separator.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"songscout/internal/core"
)

var (
	// ErrNotConfigured is returned by the no-op client.
	ErrNotConfigured = errors.New("LLM provider not configured")
	// ErrNoSplit is returned when the model could not tell artist from title.
	ErrNoSplit = errors.New("model could not separate artist and title")
)

const splitSystemPrompt = `You separate the artist and the song title in titles of music videos and uploads.

Return JSON in this exact format:
{"found": true, "artist": "Artist Name", "title": "Song Title"}

Rules:
- Only use names that appear in the input, do not guess from world knowledge
- Remove decorations like "(Official Video)", "[HD]" or "lyrics" from the title
- Keep featured artists in the artist field
- If the input does not contain both an artist and a title, return {"found": false}

Respond with valid JSON only.`

// Client sends a single system and user prompt to a model and returns its
// text answer.
type Client interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Provider splits titles with the configured model.
type Provider struct {
	config *core.LLMConfig
	logger *zap.Logger
	client Client
}

// NewProvider creates a provider for config.Provider, one of openai,
// anthropic, ollama or none.
func NewProvider(config *core.LLMConfig, logger *zap.Logger) (*Provider, error) {
	var client Client
	var err error

	switch config.Provider {
	case "openai":
		client, err = NewOpenAIClient(config, logger)
	case "anthropic":
		client, err = NewAnthropicClient(config, logger)
	case "ollama":
		client, err = NewOllamaClient(config, logger)
	case "none", "":
		client = &NoOpClient{}
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", config.Provider)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", config.Provider, err)
	}

	return &Provider{
		config: config,
		logger: logger,
		client: client,
	}, nil
}

// Enabled reports whether a real model is configured.
func (p *Provider) Enabled() bool {
	_, noop := p.client.(*NoOpClient)
	return !noop
}

// SplitTitle asks the model for the artist and title contained in rawTitle.
func (p *Provider) SplitTitle(ctx context.Context, rawTitle string) (artist, title string, err error) {
	if strings.TrimSpace(rawTitle) == "" {
		return "", "", errors.New("empty title provided")
	}

	content, err := p.client.Complete(ctx, splitSystemPrompt, fmt.Sprintf("Input title: %q", rawTitle))
	if err != nil {
		return "", "", err
	}

	artist, title, err = parseSplitResponse(content)
	if err != nil {
		p.logger.Debug("Model did not split title",
			zap.String("raw_title", rawTitle),
			zap.String("content", content),
			zap.Error(err))
		return "", "", err
	}

	p.logger.Debug("Model split title",
		zap.String("raw_title", rawTitle),
		zap.String("artist", artist),
		zap.String("title", title))

	return artist, title, nil
}

// splitResponse is the JSON document the model is asked to produce.
type splitResponse struct {
	Found  bool   `json:"found"`
	Artist string `json:"artist"`
	Title  string `json:"title"`
}

// parseSplitResponse decodes the model answer, tolerating markdown code fences.
func parseSplitResponse(content string) (artist, title string, err error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var resp splitResponse
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &resp); err != nil {
		return "", "", fmt.Errorf("failed to parse model response: %w", err)
	}

	artist = strings.TrimSpace(resp.Artist)
	title = strings.TrimSpace(resp.Title)
	if !resp.Found || artist == "" || title == "" {
		return "", "", ErrNoSplit
	}
	return artist, title, nil
}

// NoOpClient is used when no provider is configured.
type NoOpClient struct{}

// Complete always fails with ErrNotConfigured.
func (n *NoOpClient) Complete(_ context.Context, _, _ string) (string, error) {
	return "", ErrNotConfigured
}
