package core

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.App.Language != DefaultLanguage {
		t.Errorf("Expected default language to be %s, got %s", DefaultLanguage, config.App.Language)
	}

	if config.Lyrics.Provider != DefaultLyricsProvider {
		t.Errorf("Expected default lyrics provider %s, got %s", DefaultLyricsProvider, config.Lyrics.Provider)
	}

	if config.LLM.Provider != "none" {
		t.Errorf("Expected default LLM provider to be none, got %s", config.LLM.Provider)
	}

	if config.Spotify.Enabled() {
		t.Errorf("Expected Spotify Web API to be disabled without credentials")
	}

	if config.AudD.APIKey != "" {
		t.Errorf("AudD API key must not have a default")
	}
}

func TestSpotifyConfig_Enabled(t *testing.T) {
	tests := []struct {
		name     string
		config   SpotifyConfig
		expected bool
	}{
		{name: "Both set", config: SpotifyConfig{ClientID: "id", ClientSecret: "secret"}, expected: true},
		{name: "Only ID", config: SpotifyConfig{ClientID: "id"}, expected: false},
		{name: "Only secret", config: SpotifyConfig{ClientSecret: "secret"}, expected: false},
		{name: "Empty", config: SpotifyConfig{}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.config.Enabled(); got != tt.expected {
				t.Errorf("Enabled() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestAppConfig_CallTimeout(t *testing.T) {
	if got := (AppConfig{CallTimeoutSecs: 3}).CallTimeout(); got != 3*time.Second {
		t.Errorf("CallTimeout() = %v, want 3s", got)
	}

	if got := (AppConfig{}).CallTimeout(); got != DefaultCallTimeoutSecs*time.Second {
		t.Errorf("CallTimeout() with zero value = %v, want default", got)
	}
}

func TestConfigConstants(t *testing.T) {
	if DefaultCallTimeoutSecs <= 0 {
		t.Error("DefaultCallTimeoutSecs should be positive")
	}

	if DefaultMaxUploadBytes <= 0 {
		t.Error("DefaultMaxUploadBytes should be positive")
	}

	if DefaultServerPort <= 0 || DefaultServerPort > 65535 {
		t.Error("DefaultServerPort should be a valid port number")
	}
}
