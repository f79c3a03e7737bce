package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"songscout/pkg/resolver"
)

var identifyCmd = &cobra.Command{
	Use:   "identify",
	Short: "Identify a song through a running SongScout server",
	Long: `Sends a link (--url) or an audio file (--audio) to a SongScout server and prints
the result as JSON.`,
	RunE: runIdentify,
}

func init() {
	flags := identifyCmd.Flags()
	flags.String("url", "", "Music platform link to identify")
	flags.String("audio", "", "Path to an audio recording to identify")
	flags.String("server-url", "http://127.0.0.1:8080", "SongScout server base URL")
	flags.String("api-key", "", "API key sent as bearer token")

	for _, name := range []string{"server-url", "api-key"} {
		if err := viper.BindPFlag(name, flags.Lookup(name)); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to bind flag %s: %v\n", name, err)
			os.Exit(1)
		}
	}
}

type identifyOutput struct {
	Title         string `json:"title"`
	Artist        string `json:"artist"`
	AlbumArt      string `json:"albumArt,omitempty"`
	Platform      string `json:"platform"`
	Lyrics        string `json:"lyrics,omitempty"`
	Source        string `json:"source,omitempty"`
	NoLyrics      bool   `json:"noLyrics"`
	Message       string `json:"message,omitempty"`
	SpotifyURL    string `json:"spotifyUrl,omitempty"`
	AppleMusicURL string `json:"appleMusicUrl,omitempty"`
}

func runIdentify(cmd *cobra.Command, _ []string) error {
	url, _ := cmd.Flags().GetString("url")
	audioPath, _ := cmd.Flags().GetString("audio")

	if (url == "") == (audioPath == "") {
		return errors.New("exactly one of --url or --audio is required")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client := resolver.New(viper.GetString("server-url"), viper.GetString("api-key"),
		resolver.WithLogger(logger.Named("resolver")))

	var (
		result *resolver.SongResult
		err    error
	)
	if url != "" {
		result, err = client.IdentifyByURL(ctx, url)
	} else {
		var payload []byte
		payload, err = os.ReadFile(audioPath)
		if err != nil {
			return fmt.Errorf("failed to read audio file: %w", err)
		}
		result, err = client.IdentifyByAudio(ctx, payload)
	}

	if err != nil {
		logger.Debug("Identification failed", zap.Error(err), zap.Bool("retryable", resolver.IsRetryable(err)))
		return describeIdentifyError(err)
	}

	return writeIdentifyOutput(cmd.OutOrStdout(), result)
}

func describeIdentifyError(err error) error {
	switch {
	case errors.Is(err, resolver.ErrConfiguration):
		return fmt.Errorf("server or credentials unusable: %w", err)
	case errors.Is(err, resolver.ErrTransport):
		return fmt.Errorf("server unreachable, try again: %w", err)
	default:
		return err
	}
}

func writeIdentifyOutput(w io.Writer, result *resolver.SongResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(identifyOutput{
		Title:         result.Title,
		Artist:        result.Artist,
		AlbumArt:      result.AlbumArt,
		Platform:      result.Platform,
		Lyrics:        result.Lyrics,
		Source:        result.Source,
		NoLyrics:      result.NoLyrics,
		Message:       result.Message,
		SpotifyURL:    result.SpotifyURL,
		AppleMusicURL: result.AppleMusicURL,
	})
}
