package http

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"songscout/internal/core"
	"songscout/internal/identify"
	"songscout/internal/payment"
	"songscout/pkg/resolver"
)

const (
	maxJSONBodySize = 64 << 10
	// multipartOverhead leaves room for boundaries and part headers on top of
	// the audio size limit.
	multipartOverhead = 1 << 20
	multipartMemory   = 8 << 20
)

type paymentRequest struct {
	Reference string `json:"reference"`
}

type paymentResponse struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Data    *payment.Verification `json:"data"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, status int, errorText, message string) {
	writeJSON(w, status, resolver.ErrorPayload{Error: errorText, Message: message})
}

func (s *Server) handleIdentify(w http.ResponseWriter, r *http.Request) {
	if s.floodgate != nil && !s.floodgate.Allow(clientKey(r)) {
		s.metrics.RecordRateLimited()
		s.writeError(w, http.StatusTooManyRequests, s.localizer.T("error.rate_limited"), "")
		return
	}

	var (
		req core.IdentificationRequest
		ok  bool
	)

	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch {
	case err != nil:
		s.writeError(w, http.StatusBadRequest, s.localizer.T("error.invalid_content"), "")
		return
	case mediaType == "application/json":
		req, ok = s.readURLRequest(w, r)
	case mediaType == "multipart/form-data":
		req, ok = s.readAudioRequest(w, r)
	default:
		s.writeError(w, http.StatusBadRequest, s.localizer.T("error.invalid_content"), "")
		return
	}
	if !ok {
		return
	}

	ctx := identify.WithRequestID(r.Context(), middleware.GetReqID(r.Context()))
	result, err := s.identifier.Identify(ctx, req)
	if err != nil {
		s.writeIdentifyError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, songPayload(result))
}

func (s *Server) readURLRequest(w http.ResponseWriter, r *http.Request) (core.IdentificationRequest, bool) {
	var body resolver.URLRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBodySize)).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, s.localizer.T("error.invalid_json"), "")
		return core.IdentificationRequest{}, false
	}

	if strings.TrimSpace(body.URL) == "" {
		s.writeError(w, http.StatusBadRequest, s.localizer.T("error.url_required"), "")
		return core.IdentificationRequest{}, false
	}

	return core.NewURLRequest(body.URL), true
}

func (s *Server) readAudioRequest(w http.ResponseWriter, r *http.Request) (core.IdentificationRequest, bool) {
	tooLarge := func() (core.IdentificationRequest, bool) {
		s.writeError(w, http.StatusRequestEntityTooLarge, s.localizer.T("error.audio_too_large", s.maxUploadBytes>>20), "")
		return core.IdentificationRequest{}, false
	}
	missing := func() (core.IdentificationRequest, bool) {
		s.writeError(w, http.StatusBadRequest, s.localizer.T("error.audio_required"), "")
		return core.IdentificationRequest{}, false
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes+multipartOverhead)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return tooLarge()
		}
		return missing()
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	file, _, err := r.FormFile(resolver.AudioField)
	if err != nil {
		return missing()
	}
	defer func() {
		_ = file.Close()
	}()

	payload, err := io.ReadAll(io.LimitReader(file, s.maxUploadBytes+1))
	if err != nil {
		return missing()
	}
	if int64(len(payload)) > s.maxUploadBytes {
		return tooLarge()
	}
	if len(payload) == 0 {
		return missing()
	}

	return core.NewAudioRequest(payload), true
}

// writeIdentifyError maps error kinds to status codes and localized messages.
// Internal error text never reaches the client.
func (s *Server) writeIdentifyError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		status  int
		errText string
		message string
	)

	kind := core.KindOf(err)
	switch kind {
	case core.KindInvalidInput:
		status, errText = http.StatusBadRequest, s.localizer.T("error.identify_failed")
	case core.KindUnsupported:
		status, errText = http.StatusBadRequest, s.localizer.T("error.unsupported_link")
	case core.KindMetadata:
		status, errText = http.StatusBadRequest, s.localizer.T("error.metadata_failed")
	case core.KindNotRecognized:
		status, errText = http.StatusNotFound, s.localizer.T("error.not_recognized")
		message = s.localizer.T("error.not_recognized_detail")
	case core.KindConfiguration:
		status, errText = http.StatusServiceUnavailable, s.localizer.T("error.not_configured")
	case core.KindTransport:
		status, errText = http.StatusBadGateway, s.localizer.T("error.upstream_unavailable")
	default:
		status, errText = http.StatusInternalServerError, s.localizer.T("error.identify_failed")
		message = s.localizer.T("error.generic")
	}

	logFn := s.logger.Info
	if status >= http.StatusInternalServerError {
		logFn = s.logger.Error
	}
	logFn("Identification failed",
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.Stringer("kind", kind),
		zap.Int("status", status),
		zap.Error(err))

	s.writeError(w, status, errText, message)
}

func songPayload(result *core.SongResult) resolver.SongPayload {
	payload := resolver.SongPayload{
		Title:         result.Title,
		Artist:        result.Artist,
		AlbumCover:    result.AlbumArt,
		Platform:      string(result.Platform),
		Message:       result.Message,
		SpotifyURL:    result.SpotifyURL,
		AppleMusicURL: result.AppleMusicURL,
	}
	if !result.NoLyrics {
		lyrics := result.Lyrics
		source := string(result.Source)
		payload.Lyrics = &lyrics
		payload.Source = &source
	}
	return payload
}

func (s *Server) handleVerifyPayment(w http.ResponseWriter, r *http.Request) {
	if s.payments == nil {
		s.metrics.RecordPayment("not_configured")
		s.writeError(w, http.StatusServiceUnavailable, s.localizer.T("error.payment_not_configured"), "")
		return
	}

	var body paymentRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBodySize)).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, s.localizer.T("error.invalid_json"), "")
		return
	}

	verification, err := s.payments.Verify(r.Context(), body.Reference)
	if err != nil {
		var declined *payment.DeclinedError
		switch {
		case errors.Is(err, payment.ErrMissingReference):
			s.writeError(w, http.StatusBadRequest, s.localizer.T("error.reference_missing"), "")
		case errors.Is(err, payment.ErrNotConfigured):
			s.metrics.RecordPayment("not_configured")
			s.writeError(w, http.StatusServiceUnavailable, s.localizer.T("error.payment_not_configured"), "")
		case errors.As(err, &declined):
			s.metrics.RecordPayment("declined")
			s.writeError(w, http.StatusBadRequest, s.localizer.T("error.payment_verify_failed"), declined.Message)
		default:
			s.metrics.RecordPayment("error")
			s.logger.Error("Payment verification failed", zap.Error(err))
			s.writeError(w, http.StatusBadGateway, s.localizer.T("error.payment_upstream_failed"), "")
		}
		return
	}

	s.metrics.RecordPayment("verified")
	writeJSON(w, http.StatusOK, paymentResponse{
		Success: true,
		Message: s.localizer.T("payment.verified"),
		Data:    verification,
	})
}

func (s *Server) handlePaymentRateLimited(w http.ResponseWriter, _ *http.Request) {
	s.metrics.RecordRateLimited()
	s.writeError(w, http.StatusTooManyRequests, s.localizer.T("error.rate_limited"), "")
}

// clientKey identifies the caller for flood limiting. With a trusted proxy
// RealIP has already replaced RemoteAddr from the forwarding headers.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
