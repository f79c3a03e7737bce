package identify

import (
	"context"
	"time"

	"github.com/google/uuid"

	"songscout/internal/core"
	"songscout/pkg/musiclink"
)

// Outcome labels reported to the Observer.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Observer receives measurements of identification attempts.
type Observer interface {
	// ObserveCall records one outbound call and its duration.
	ObserveCall(call string, duration time.Duration, err error)
	// ObserveIdentification records the final outcome of an attempt.
	ObserveIdentification(kind core.RequestKind, platform musiclink.Platform, outcome string)
	// ObserveLyrics records which tier produced lyrics, LyricsSourceNone if none did.
	ObserveLyrics(source core.LyricsSource)
}

type nopObserver struct{}

func (nopObserver) ObserveCall(string, time.Duration, error) {}

func (nopObserver) ObserveIdentification(core.RequestKind, musiclink.Platform, string) {}

func (nopObserver) ObserveLyrics(core.LyricsSource) {}

type requestIDKey struct{}

// WithRequestID attaches a request ID used to correlate log lines.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// requestID returns the request ID carried by ctx or a fresh one.
func requestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}
