// Package main provides the SongScout CLI application entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"songscout/internal/audd"
	"songscout/internal/core"
	"songscout/internal/flood"
	httpserver "songscout/internal/http"
	"songscout/internal/i18n"
	"songscout/internal/identify"
	"songscout/internal/llm"
	"songscout/internal/lrclib"
	"songscout/internal/payment"
	"songscout/internal/spotify"
	"songscout/pkg/musiclink"
)

const (
	defaultServerHost    = "0.0.0.0"
	envPrefix            = "SONGSCOUT"
	noneProvider         = "none"
	lyricsProviderAudD   = "audd"
	lyricsProviderLRCLib = "lrclib"
)

var (
	cfgFile string
	config  *core.Config
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "songscout",
	Short: "SongScout - identify songs from links and recordings",
	Long: `SongScout identifies songs from Spotify, Apple Music, YouTube, SoundCloud, Deezer,
Audiomack and Boomplay links or from short audio recordings, and finds their lyrics.
Without a subcommand it runs the HTTP identification server.`,
	RunE: runServer,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is .env)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "json", "log format (json, console)")
	flags.String("audd-api-key", "", "AudD API token for audio recognition and lyrics search")
	flags.String("audd-base-url", audd.DefaultBaseURL, "AudD API base URL")
	flags.String("lyrics-provider", core.DefaultLyricsProvider, "Lyrics search provider (audd, lrclib)")
	flags.String("lrclib-base-url", lrclib.DefaultBaseURL, "LRCLIB API base URL")
	flags.String("spotify-client-id", "", "Spotify client ID (optional, enables Web API lookups)")
	flags.String("spotify-client-secret", "", "Spotify client secret")
	flags.String("llm-provider", noneProvider, "LLM provider for splitting titles (openai, anthropic, ollama, none)")
	flags.String("llm-model", "", "LLM model name")
	flags.String("llm-api-key", "", "LLM API key")
	flags.String("llm-base-url", "", "LLM base URL (Ollama)")
	flags.String("paystack-secret-key", "", "Paystack secret key for payment verification")
	flags.String("paystack-base-url", payment.DefaultBaseURL, "Paystack API base URL")
	flags.String("server-host", defaultServerHost, "HTTP server host")
	flags.Int("server-port", core.DefaultServerPort, "HTTP server port")
	flags.String("server-allow-origin", "*", "Value of the Access-Control-Allow-Origin header")
	flags.Bool("server-trust-proxy", false, "Take client IPs from X-Forwarded-For/X-Real-IP (only behind a trusted proxy)")
	flags.Int("call-timeout-secs", core.DefaultCallTimeoutSecs, "Timeout for each call to an external service in seconds")
	flags.Int64("max-upload-bytes", core.DefaultMaxUploadBytes, "Largest accepted audio upload in bytes")
	flags.Int("flood-limit-per-minute", core.DefaultFloodLimitPerMinute, "Maximum identify requests per client per minute (0 disables)")
	supportedLangs := strings.Join(i18n.GetSupportedLanguages(), ", ")
	flags.String("language", i18n.DefaultLanguage, fmt.Sprintf("Language of user facing messages (%s)", supportedLangs))
	flags.Bool("generate-env-example", false, "Generate .env.example file from current configuration and exit")

	if err := viper.BindPFlags(flags); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bind flags: %v\n", err)
		os.Exit(1)
	}

	rootCmd.AddCommand(identifyCmd)
}

func initConfig() {
	envFile := ".env"
	if cfgFile != "" {
		envFile = cfgFile
	}

	if err := gotenv.Load(envFile); err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
		}
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	config = buildConfig()
	logger = buildLogger(config.Log.Level, config.Log.Format)
}

func buildConfig() *core.Config {
	cfg := core.DefaultConfig()

	configureAudD(cfg)
	configureSpotify(cfg)
	configureLLM(cfg)
	configurePayment(cfg)
	configureServer(cfg)
	configureApp(cfg)

	return cfg
}

func configureAudD(cfg *core.Config) {
	cfg.AudD.APIKey = viper.GetString("audd-api-key")
	if baseURL := viper.GetString("audd-base-url"); baseURL != "" {
		cfg.AudD.BaseURL = baseURL
	}

	cfg.Lyrics.Provider = strings.ToLower(viper.GetString("lyrics-provider"))
	if cfg.Lyrics.Provider == "" {
		cfg.Lyrics.Provider = core.DefaultLyricsProvider
	}
	if baseURL := viper.GetString("lrclib-base-url"); baseURL != "" {
		cfg.Lyrics.LRCLibBaseURL = baseURL
	}
}

func configureSpotify(cfg *core.Config) {
	cfg.Spotify.ClientID = viper.GetString("spotify-client-id")
	cfg.Spotify.ClientSecret = viper.GetString("spotify-client-secret")
}

func configureLLM(cfg *core.Config) {
	cfg.LLM.Provider = viper.GetString("llm-provider")
	cfg.LLM.Model = viper.GetString("llm-model")
	cfg.LLM.APIKey = viper.GetString("llm-api-key")
	cfg.LLM.BaseURL = viper.GetString("llm-base-url")
}

func configurePayment(cfg *core.Config) {
	cfg.Payment.SecretKey = viper.GetString("paystack-secret-key")
	if baseURL := viper.GetString("paystack-base-url"); baseURL != "" {
		cfg.Payment.BaseURL = baseURL
	}
}

func configureServer(cfg *core.Config) {
	cfg.Server.Host = viper.GetString("server-host")
	if cfg.Server.Host == "" {
		cfg.Server.Host = defaultServerHost
	}
	cfg.Server.Port = viper.GetInt("server-port")
	cfg.Server.AllowOrigin = viper.GetString("server-allow-origin")
	cfg.Server.TrustProxy = viper.GetBool("server-trust-proxy")
	cfg.Log.Level = viper.GetString("log-level")
	cfg.Log.Format = viper.GetString("log-format")
}

func configureApp(cfg *core.Config) {
	cfg.App.CallTimeoutSecs = viper.GetInt("call-timeout-secs")
	if cfg.App.CallTimeoutSecs <= 0 {
		fmt.Fprintf(os.Stderr, "Warning: Invalid call timeout (%d), using default (%d)\n",
			cfg.App.CallTimeoutSecs, core.DefaultCallTimeoutSecs)
		cfg.App.CallTimeoutSecs = core.DefaultCallTimeoutSecs
	}

	cfg.App.MaxUploadBytes = viper.GetInt64("max-upload-bytes")
	if cfg.App.MaxUploadBytes <= 0 {
		cfg.App.MaxUploadBytes = core.DefaultMaxUploadBytes
	}

	cfg.App.Language = viper.GetString("language")
	if cfg.App.Language == "" {
		cfg.App.Language = i18n.DefaultLanguage
	}
	if !i18n.IsSupported(cfg.App.Language) {
		fmt.Fprintf(os.Stderr, "Warning: Unsupported language '%s', falling back to '%s'. Supported languages: %s\n",
			cfg.App.Language, i18n.DefaultLanguage, strings.Join(i18n.GetSupportedLanguages(), ", "))
		cfg.App.Language = i18n.DefaultLanguage
	}

	cfg.App.FloodLimitPerMinute = viper.GetInt("flood-limit-per-minute")
	if cfg.App.FloodLimitPerMinute < 0 {
		cfg.App.FloodLimitPerMinute = 0
	}
}

func buildLogger(level, format string) *zap.Logger {
	var zapLevel zapcore.Level
	switch strings.ToLower(level) {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	if strings.EqualFold(format, "console") {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)

	builtLogger, err := cfg.Build()
	if err != nil {
		panic(fmt.Sprintf("Failed to build logger: %v", err))
	}

	return builtLogger
}

func runServer(cmd *cobra.Command, _ []string) error {
	if viper.GetBool("generate-env-example") {
		return generateEnvExample(cmd)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("Starting SongScout",
		zap.String("version", "1.0.0"),
		zap.String("lyrics_provider", config.Lyrics.Provider),
		zap.String("llm_provider", config.LLM.Provider),
		zap.Bool("audio_recognition", config.AudD.APIKey != ""),
		zap.Bool("spotify_web_api", config.Spotify.Enabled()),
		zap.Bool("payments", config.Payment.SecretKey != ""))

	if err := validateConfig(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	svcs, err := initializeServices()
	if err != nil {
		return err
	}
	defer svcs.floodgate.Stop()

	return runServices(ctx, svcs)
}

type services struct {
	httpServer *httpserver.Server
	floodgate  *flood.Floodgate
}

func initializeServices() (*services, error) {
	localizer := i18n.NewLocalizer(config.App.Language)
	metrics := httpserver.NewMetrics(prometheus.DefaultRegisterer)

	llmProvider, err := createLLMProvider()
	if err != nil {
		return nil, err
	}

	manager, err := createMetadataManager(llmProvider)
	if err != nil {
		return nil, err
	}

	recognizer := audd.NewClient(config.AudD.APIKey,
		audd.WithBaseURL(config.AudD.BaseURL),
		audd.WithLogger(logger.Named("audd")))

	service := identify.New(manager, recognizer, createLyricsSearcher(recognizer),
		identify.WithLogger(logger.Named("identify")),
		identify.WithObserver(metrics),
		identify.WithLocalizer(localizer),
		identify.WithCallTimeout(config.App.CallTimeout()))

	verifier := payment.NewVerifier(config.Payment.SecretKey,
		payment.WithBaseURL(config.Payment.BaseURL),
		payment.WithLogger(logger.Named("payment")))

	floodgate := flood.New(config.App.FloodLimitPerMinute)

	httpServer := httpserver.NewServer(&config.Server, service, logger.Named("http"),
		httpserver.WithPayments(verifier),
		httpserver.WithFloodgate(floodgate),
		httpserver.WithLocalizer(localizer),
		httpserver.WithMetrics(metrics, prometheus.DefaultGatherer),
		httpserver.WithMaxUploadBytes(config.App.MaxUploadBytes))

	return &services{
		httpServer: httpServer,
		floodgate:  floodgate,
	}, nil
}

func createLLMProvider() (*llm.Provider, error) {
	if config.LLM.Provider != noneProvider && config.LLM.Provider != "" {
		provider, err := llm.NewProvider(&config.LLM, logger.Named("llm"))
		if err != nil {
			return nil, fmt.Errorf("failed to create LLM provider: %w", err)
		}
		return provider, nil
	}
	return nil, nil
}

// createMetadataManager registers the default resolvers and, when configured,
// the Spotify Web API and the LLM title splitter.
func createMetadataManager(llmProvider *llm.Provider) (*musiclink.Manager, error) {
	opts := []musiclink.ManagerOption{musiclink.WithLogger(logger.Named("musiclink"))}

	if config.Spotify.Enabled() {
		spotifyClient, err := spotify.NewClient(&config.Spotify, logger.Named("spotify"),
			spotify.WithFallback(musiclink.NewSpotifyOEmbedResolver()))
		if err != nil {
			return nil, fmt.Errorf("failed to create Spotify client: %w", err)
		}
		opts = append(opts, musiclink.WithResolver(musiclink.PlatformSpotify, spotifyClient))
	}

	if llmProvider != nil && llmProvider.Enabled() {
		opts = append(opts, musiclink.WithTitleSplitter(llmProvider))
	}

	return musiclink.NewManager(opts...), nil
}

// createLyricsSearcher keeps an unconfigured AudD client wired so that
// identification reports the missing key instead of silently finding no lyrics.
func createLyricsSearcher(auddClient *audd.Client) identify.LyricsSearcher {
	switch config.Lyrics.Provider {
	case lyricsProviderLRCLib:
		return lrclib.NewClient(
			lrclib.WithBaseURL(config.Lyrics.LRCLibBaseURL),
			lrclib.WithLogger(logger.Named("lrclib")))
	default:
		if !auddClient.Configured() {
			logger.Warn("AudD API key not set, identification requests will fail until it is configured")
		}
		return auddClient
	}
}

func runServices(ctx context.Context, svcs *services) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return svcs.httpServer.Start(gCtx)
	})

	logger.Info("SongScout started successfully",
		zap.String("http_addr", fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)))

	if err := g.Wait(); err != nil {
		logger.Error("SongScout stopped with error", zap.Error(err))
		return err
	}

	logger.Info("SongScout stopped gracefully")
	return nil
}

func validateConfig() error {
	if err := validateLyricsConfig(); err != nil {
		return err
	}

	if err := validateLLMConfig(); err != nil {
		return err
	}

	if config.AudD.APIKey == "" {
		logger.Warn("AudD API key not set, audio identification will report a configuration error")
	}

	return nil
}

func validateLyricsConfig() error {
	switch config.Lyrics.Provider {
	case lyricsProviderAudD, lyricsProviderLRCLib:
		return nil
	default:
		return fmt.Errorf("unsupported lyrics provider: %s", config.Lyrics.Provider)
	}
}

func validateLLMConfig() error {
	if config.LLM.Provider != noneProvider && config.LLM.Provider != "" {
		if config.LLM.APIKey == "" && config.LLM.Provider != "ollama" {
			return fmt.Errorf("LLM API key is required for provider: %s", config.LLM.Provider)
		}
	}
	return nil
}
