package i18n

// germanMessages contains all German translations.
var germanMessages = map[string]string{
	// Request validation
	"error.url_required":      "Der Parameter URL fehlt",
	"error.audio_required":    "Eine Audiodatei ist erforderlich",
	"error.audio_too_large":   "Die Audiodatei ist zu groß (max. %d MB)",
	"error.invalid_content":   "Ungültiger Content-Type. Verwende application/json oder multipart/form-data",
	"error.invalid_json":      "Der Request-Body muss gültiges JSON sein",
	"error.reference_missing": "Die Zahlungsreferenz fehlt",

	// Identification failures
	"error.unsupported_link": "Link wird nicht unterstützt. Versuche einen Link von Spotify, YouTube, " +
		"Apple Music, SoundCloud, Deezer, Audiomack oder Boomplay.",
	"error.metadata_failed":         "Die Songdaten konnten von dieser URL nicht abgerufen werden",
	"error.not_recognized":          "Song nicht erkannt",
	"error.not_recognized_detail":   "Der Song konnte anhand der Aufnahme nicht erkannt werden",
	"error.not_configured":          "Die Songerkennung ist auf diesem Server nicht eingerichtet",
	"error.upstream_unavailable":    "Der Erkennungsdienst ist nicht erreichbar. Bitte versuche es erneut.",
	"error.identify_failed":         "Der Song konnte nicht identifiziert werden",
	"error.rate_limited":            "Zu viele Anfragen. Bitte warte eine Minute und versuche es erneut.",
	"error.generic":                 "Etwas ist schiefgelaufen. Bitte versuche es erneut.",
	"error.payment_not_configured":  "Die Zahlungsprüfung ist auf diesem Server nicht eingerichtet",
	"error.payment_verify_failed":   "Die Zahlung konnte nicht bestätigt werden",
	"error.payment_upstream_failed": "Der Zahlungsanbieter ist nicht erreichbar. Bitte versuche es erneut.",

	// Results
	"lyrics.not_found": "Kein Songtext gefunden. Versuche es stattdessen über das Mikrofon.",

	// Payments
	"payment.verified": "Zahlung erfolgreich bestätigt",
}
