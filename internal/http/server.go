// Package http serves the identification and payment endpoints together with
// health checks and Prometheus metrics.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"songscout/internal/core"
	"songscout/internal/flood"
	"songscout/internal/i18n"
	"songscout/internal/payment"
)

const (
	shutdownTimeout = 10 * time.Second
	// paymentRateLimit is the number of payment verifications one IP may
	// request per minute.
	paymentRateLimit = 10
)

// Identifier identifies songs from links or audio.
type Identifier interface {
	Identify(ctx context.Context, req core.IdentificationRequest) (*core.SongResult, error)
}

// PaymentVerifier confirms a payment by its transaction reference.
type PaymentVerifier interface {
	Verify(ctx context.Context, reference string) (*payment.Verification, error)
}

type Server struct {
	config         *core.ServerConfig
	logger         *zap.Logger
	server         *http.Server
	metrics        *Metrics
	gatherer       prometheus.Gatherer
	identifier     Identifier
	payments       PaymentVerifier
	floodgate      *flood.Floodgate
	localizer      *i18n.Localizer
	maxUploadBytes int64
}

// Option configures a Server.
type Option func(*Server)

// WithPayments enables POST /verify-payment.
func WithPayments(payments PaymentVerifier) Option {
	return func(s *Server) {
		s.payments = payments
	}
}

// WithFloodgate limits identify requests per client.
func WithFloodgate(floodgate *flood.Floodgate) Option {
	return func(s *Server) {
		if floodgate != nil && floodgate.Enabled() {
			s.floodgate = floodgate
		}
	}
}

// WithLocalizer sets the language of error messages.
func WithLocalizer(localizer *i18n.Localizer) Option {
	return func(s *Server) {
		if localizer != nil {
			s.localizer = localizer
		}
	}
}

// WithMetrics sets the collectors and the gatherer served on /metrics.
func WithMetrics(metrics *Metrics, gatherer prometheus.Gatherer) Option {
	return func(s *Server) {
		if metrics != nil && gatherer != nil {
			s.metrics = metrics
			s.gatherer = gatherer
		}
	}
}

// WithMaxUploadBytes bounds the size of uploaded audio clips.
func WithMaxUploadBytes(limit int64) Option {
	return func(s *Server) {
		if limit > 0 {
			s.maxUploadBytes = limit
		}
	}
}

func NewServer(config *core.ServerConfig, identifier Identifier, logger *zap.Logger, opts ...Option) *Server {
	s := &Server{
		config:         config,
		logger:         logger,
		identifier:     identifier,
		localizer:      i18n.NewLocalizer(i18n.DefaultLanguage),
		maxUploadBytes: core.DefaultMaxUploadBytes,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.metrics == nil {
		registry := prometheus.NewRegistry()
		s.metrics = NewMetrics(registry)
		s.gatherer = registry
	}

	s.server = createHTTPServer(config, s.setupRoutes())
	return s
}

func createHTTPServer(config *core.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:      handler,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}
}

func (s *Server) setupRoutes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	if s.config.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors(s.config.AllowOrigin))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "songscout"})
	})

	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready", "service": "songscout"})
	})

	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(indexPage))
	})

	r.Post("/identify", s.handleIdentify)
	r.With(httprate.Limit(paymentRateLimit, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(s.handlePaymentRateLimited),
	)).Post("/verify-payment", s.handleVerifyPayment)

	return r
}

// Handler returns the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("Starting HTTP server",
		zap.String("addr", s.server.Addr))

	go func() {
		<-ctx.Done()
		s.logger.Info("Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := s.server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Failed to shutdown HTTP server gracefully", zap.Error(err))
		}
	}()

	if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	return nil
}

func (s *Server) GetMetrics() *Metrics {
	return s.metrics
}

const indexPage = `<!DOCTYPE html>
<html>
<head>
    <title>SongScout</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 40px; }
        .header { color: #333; }
        .endpoint { margin: 10px 0; }
        .endpoint a { text-decoration: none; color: #0066cc; }
        .endpoint a:hover { text-decoration: underline; }
    </style>
</head>
<body>
    <h1 class="header">🎵 SongScout</h1>
    <p>Identify songs from a link or a recording and find their lyrics.</p>

    <h2>Endpoints</h2>
    <div class="endpoint">🔎 POST /identify - JSON {"url": "..."} or multipart field "audio"</div>
    <div class="endpoint">💳 POST /verify-payment - JSON {"reference": "..."}</div>
    <div class="endpoint">📊 <a href="/metrics">Metrics</a> - Prometheus metrics</div>
    <div class="endpoint">💚 <a href="/healthz">Health</a> - Health check</div>
    <div class="endpoint">✅ <a href="/readyz">Ready</a> - Readiness check</div>
</body>
</html>`
