package core

import (
	"time"
)

const (
	// DefaultServerPort is the default HTTP listen port.
	DefaultServerPort = 8080
	// DefaultCallTimeoutSecs bounds every single outbound call made while identifying a song.
	DefaultCallTimeoutSecs = 10
	// DefaultMaxUploadBytes is the largest audio clip accepted by the identify endpoint.
	DefaultMaxUploadBytes = 10 << 20
	// DefaultFloodLimitPerMinute is the number of identify requests a single client may issue per minute.
	DefaultFloodLimitPerMinute = 30
	// DefaultLyricsProvider is the primary lyrics search backend.
	DefaultLyricsProvider = "audd"
	// DefaultLanguage is the language used for user facing messages.
	DefaultLanguage = "en"
)

type Config struct {
	AudD    AudDConfig
	Lyrics  LyricsConfig
	Spotify SpotifyConfig
	LLM     LLMConfig
	Payment PaymentConfig
	Server  ServerConfig
	Log     LogConfig
	App     AppConfig
}

type AudDConfig struct {
	APIKey  string
	BaseURL string
}

type LyricsConfig struct {
	Provider      string
	LRCLibBaseURL string
}

// SpotifyConfig holds optional Web API client credentials. When both are empty
// Spotify links are resolved through the public oEmbed endpoint.
type SpotifyConfig struct {
	ClientID     string
	ClientSecret string
}

// Enabled reports whether Web API credentials are configured.
func (c SpotifyConfig) Enabled() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

type LLMConfig struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
}

type PaymentConfig struct {
	SecretKey string
	BaseURL   string
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	AllowOrigin  string

	// TrustProxy takes the client address from X-Forwarded-For and X-Real-IP.
	// Only enable it behind a proxy that overwrites those headers.
	TrustProxy bool
}

type LogConfig struct {
	Level  string
	Format string
}

type AppConfig struct {
	CallTimeoutSecs     int
	MaxUploadBytes      int64
	FloodLimitPerMinute int
	Language            string
}

// CallTimeout returns the per-call timeout as a duration.
func (c AppConfig) CallTimeout() time.Duration {
	if c.CallTimeoutSecs <= 0 {
		return DefaultCallTimeoutSecs * time.Second
	}
	return time.Duration(c.CallTimeoutSecs) * time.Second
}

func DefaultConfig() *Config {
	return &Config{
		AudD: AudDConfig{
			BaseURL: "https://api.audd.io",
		},
		Lyrics: LyricsConfig{
			Provider:      DefaultLyricsProvider,
			LRCLibBaseURL: "https://lrclib.net",
		},
		LLM: LLMConfig{
			Provider: "none",
		},
		Payment: PaymentConfig{
			BaseURL: "https://api.paystack.co",
		},
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         DefaultServerPort,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
			AllowOrigin:  "*",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		App: AppConfig{
			CallTimeoutSecs:     DefaultCallTimeoutSecs,
			MaxUploadBytes:      DefaultMaxUploadBytes,
			FloodLimitPerMinute: DefaultFloodLimitPerMinute,
			Language:            DefaultLanguage,
		},
	}
}
