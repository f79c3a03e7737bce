package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"songscout/internal/i18n"
)

func generateEnvExample(cmd *cobra.Command) error {
	fmt.Println("Generating .env.example file from current configuration...")

	content := generateEnvExampleContent(cmd)

	if err := os.WriteFile(".env.example", []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write .env.example: %w", err)
	}

	fmt.Println("✅ Successfully generated .env.example file")
	return nil
}

func generateEnvExampleContent(cmd *cobra.Command) string {
	var content strings.Builder

	content.WriteString("# =============================================================================\n")
	content.WriteString("# SongScout Configuration\n")
	content.WriteString("# =============================================================================\n")
	content.WriteString("#\n")
	content.WriteString("# Copy this file to .env and update with your values\n")
	content.WriteString("# All environment variables have CLI flag equivalents (use --help to see them)\n")
	content.WriteString("#\n")
	content.WriteString("# Format: SONGSCOUT_<SECTION>_<SETTING>=value\n")
	content.WriteString("# CLI equivalent: --<section>-<setting>\n")
	content.WriteString("#\n\n")

	generateRecognitionSection(&content, cmd)
	generateSpotifySection(&content)
	generateLLMSection(&content, cmd)
	generatePaymentSection(&content, cmd)
	generateAppSection(&content, cmd)
	generateServerSection(&content, cmd)
	generateLoggingSection(&content, cmd)

	return content.String()
}

func flagToEnvVar(flagName string) string {
	return envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(flagName, "-", "_"))
}

func getDefaultValueString(cmd *cobra.Command, flagName string) string {
	if f := cmd.PersistentFlags().Lookup(flagName); f != nil {
		return f.DefValue
	}
	return ""
}

func generateRecognitionSection(content *strings.Builder, cmd *cobra.Command) {
	content.WriteString("# =============================================================================\n")
	content.WriteString("# AUDIO RECOGNITION AND LYRICS\n")
	content.WriteString("# =============================================================================\n")
	content.WriteString("# Get an API token from https://dashboard.audd.io\n")
	content.WriteString("# CLI: --audd-api-key, --lyrics-provider\n")

	providerDefault := getDefaultValueString(cmd, "lyrics-provider")

	fmt.Fprintf(content, "%s=your_audd_token_here             # Required for audio identification and audd lyrics\n",
		flagToEnvVar("audd-api-key"))
	fmt.Fprintf(content, "%s=%s                             # Lyrics search: audd, lrclib (default: %s)\n",
		flagToEnvVar("lyrics-provider"), providerDefault, providerDefault)
	fmt.Fprintf(content, "# %s=%s         # LRCLIB API root, no key needed\n",
		flagToEnvVar("lrclib-base-url"), getDefaultValueString(cmd, "lrclib-base-url"))
	content.WriteString("\n")
}

func generateSpotifySection(content *strings.Builder) {
	content.WriteString("# =============================================================================\n")
	content.WriteString("# SPOTIFY WEB API - Optional\n")
	content.WriteString("# =============================================================================\n")
	content.WriteString("# Without credentials Spotify links are resolved through the public oEmbed API\n")
	content.WriteString("# Get credentials from https://developer.spotify.com/dashboard\n")
	content.WriteString("# CLI: --spotify-client-id, --spotify-client-secret\n")

	fmt.Fprintf(content, "# %s=your_spotify_client_id_here\n", flagToEnvVar("spotify-client-id"))
	fmt.Fprintf(content, "# %s=your_spotify_client_secret_here\n", flagToEnvVar("spotify-client-secret"))
	content.WriteString("\n")
}

func generateLLMSection(content *strings.Builder, cmd *cobra.Command) {
	content.WriteString("# =============================================================================\n")
	content.WriteString("# AI/LLM TITLE SPLITTING - Optional\n")
	content.WriteString("# =============================================================================\n")
	content.WriteString("# Used only for titles without an \"Artist - Title\" separator\n")
	content.WriteString("# CLI: --llm-provider, --llm-api-key, --llm-model, --llm-base-url\n")

	providerDefault := getDefaultValueString(cmd, "llm-provider")

	fmt.Fprintf(content, "%s=%s                        # Provider: none, openai, anthropic, ollama (default: %s)\n",
		flagToEnvVar("llm-provider"), providerDefault, providerDefault)
	fmt.Fprintf(content, "# %s=sk-...                     # OpenAI or Anthropic API key\n",
		flagToEnvVar("llm-api-key"))
	fmt.Fprintf(content, "# %s=gpt-4o-mini                  # Model name\n",
		flagToEnvVar("llm-model"))
	fmt.Fprintf(content, "# %s=http://localhost:11434    # Ollama server URL\n",
		flagToEnvVar("llm-base-url"))
	content.WriteString("\n")
}

func generatePaymentSection(content *strings.Builder, cmd *cobra.Command) {
	content.WriteString("# =============================================================================\n")
	content.WriteString("# PAYMENTS - Optional\n")
	content.WriteString("# =============================================================================\n")
	content.WriteString("# CLI: --paystack-secret-key\n")

	fmt.Fprintf(content, "# %s=sk_live_...          # Enables POST /verify-payment\n",
		flagToEnvVar("paystack-secret-key"))
	fmt.Fprintf(content, "# %s=%s\n",
		flagToEnvVar("paystack-base-url"), getDefaultValueString(cmd, "paystack-base-url"))
	content.WriteString("\n")
}

func generateAppSection(content *strings.Builder, cmd *cobra.Command) {
	content.WriteString("# =============================================================================\n")
	content.WriteString("# APPLICATION SETTINGS\n")
	content.WriteString("# =============================================================================\n")
	content.WriteString("# CLI: --language, --call-timeout-secs, --max-upload-bytes, --flood-limit-per-minute\n")

	langDefault := getDefaultValueString(cmd, "language")
	supportedLangs := strings.Join(i18n.GetSupportedLanguages(), ", ")
	timeoutDefault := getDefaultValueString(cmd, "call-timeout-secs")
	uploadDefault := getDefaultValueString(cmd, "max-upload-bytes")
	floodDefault := getDefaultValueString(cmd, "flood-limit-per-minute")

	fmt.Fprintf(content, "%s=%s                        # Message language: %s (default: %s)\n",
		flagToEnvVar("language"), langDefault, supportedLangs, langDefault)
	fmt.Fprintf(content, "%s=%s              # Timeout per external call (default: %s)\n",
		flagToEnvVar("call-timeout-secs"), timeoutDefault, timeoutDefault)
	fmt.Fprintf(content, "%s=%s         # Largest audio upload (default: %s)\n",
		flagToEnvVar("max-upload-bytes"), uploadDefault, uploadDefault)
	fmt.Fprintf(content, "%s=%s         # Identify requests per client per minute, 0 disables (default: %s)\n",
		flagToEnvVar("flood-limit-per-minute"), floodDefault, floodDefault)
	content.WriteString("\n")
}

func generateServerSection(content *strings.Builder, cmd *cobra.Command) {
	content.WriteString("# -----------------------------------------------------------------------------\n")
	content.WriteString("# HTTP Server Configuration\n")
	content.WriteString("# -----------------------------------------------------------------------------\n")
	content.WriteString("# CLI: --server-host, --server-port, --server-allow-origin, --server-trust-proxy\n")

	hostDefault := getDefaultValueString(cmd, "server-host")
	portDefault := getDefaultValueString(cmd, "server-port")
	originDefault := getDefaultValueString(cmd, "server-allow-origin")

	fmt.Fprintf(content, "%s=%s                         # Server bind address (default: %s)\n",
		flagToEnvVar("server-host"), "127.0.0.1", hostDefault)
	fmt.Fprintf(content, "%s=%s                              # Server port (default: %s)\n",
		flagToEnvVar("server-port"), portDefault, portDefault)
	fmt.Fprintf(content, "%s=%s                          # CORS allowed origin (default: %s)\n",
		flagToEnvVar("server-allow-origin"), originDefault, originDefault)
	fmt.Fprintf(content, "%s=%s                         # Trust X-Forwarded-For for rate limits, only behind a proxy (default: %s)\n",
		flagToEnvVar("server-trust-proxy"), getDefaultValueString(cmd, "server-trust-proxy"), getDefaultValueString(cmd, "server-trust-proxy"))
	content.WriteString("\n")
}

func generateLoggingSection(content *strings.Builder, cmd *cobra.Command) {
	content.WriteString("# -----------------------------------------------------------------------------\n")
	content.WriteString("# Logging Configuration\n")
	content.WriteString("# -----------------------------------------------------------------------------\n")
	content.WriteString("# CLI: --log-level, --log-format\n")

	logDefault := getDefaultValueString(cmd, "log-level")
	formatDefault := getDefaultValueString(cmd, "log-format")

	fmt.Fprintf(content, "%s=%s                                # Log level: debug, info, warn, error (default: %s)\n",
		flagToEnvVar("log-level"), logDefault, logDefault)
	fmt.Fprintf(content, "%s=%s                               # Log format: json, console (default: %s)\n",
		flagToEnvVar("log-format"), formatDefault, formatDefault)
	content.WriteString("\n")
}
