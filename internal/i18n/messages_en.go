package i18n

// englishMessages contains all English translations.
var englishMessages = map[string]string{
	// Request validation
	"error.url_required":      "URL parameter is required",
	"error.audio_required":    "Audio file is required",
	"error.audio_too_large":   "Audio file is too large (max %d MB)",
	"error.invalid_content":   "Invalid content type. Use application/json or multipart/form-data",
	"error.invalid_json":      "Request body must be valid JSON",
	"error.reference_missing": "Payment reference is required",

	// Identification failures
	"error.unsupported_link": "Unsupported link. Try a Spotify, YouTube, Apple Music, SoundCloud, " +
		"Deezer, Audiomack, or Boomplay link.",
	"error.metadata_failed":         "Failed to fetch song metadata from this URL",
	"error.not_recognized":          "Song not recognized",
	"error.not_recognized_detail":   "Could not identify the song from audio",
	"error.not_configured":          "Song identification is not configured on this server",
	"error.upstream_unavailable":    "The recognition service is unavailable. Please try again.",
	"error.identify_failed":         "Failed to identify song",
	"error.rate_limited":            "Too many requests. Please wait a minute and try again.",
	"error.generic":                 "Something went wrong. Please try again.",
	"error.payment_not_configured":  "Payment verification is not configured on this server",
	"error.payment_verify_failed":   "Payment verification failed",
	"error.payment_upstream_failed": "Could not reach the payment provider. Please try again.",

	// Results
	"lyrics.not_found": "Lyrics not found — try listening via mic instead.",

	// Payments
	"payment.verified": "Payment verified successfully",
}
