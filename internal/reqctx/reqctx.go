package reqctx

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type key int

const requestKey key = 0

// RequestContext identifies one scrape request across its log lines
type RequestContext struct {
	RequestID string
	URL       string
	StartTime time.Time
}

// WithRequestContext attaches a fresh request ID for url to ctx. An existing
// request context is kept so that an HTTP request ID flows into the engine.
func WithRequestContext(ctx context.Context, url string) context.Context {
	if rc, ok := ctx.Value(requestKey).(*RequestContext); ok {
		if rc.URL == "" {
			rc.URL = url
		}
		return ctx
	}
	return WithID(ctx, uuid.NewString(), url)
}

// WithID attaches a caller-chosen request ID
func WithID(ctx context.Context, id, url string) context.Context {
	return context.WithValue(ctx, requestKey, &RequestContext{
		RequestID: id,
		URL:       url,
		StartTime: time.Now(),
	})
}

// GetRequestContext returns the request context or a placeholder
func GetRequestContext(ctx context.Context) *RequestContext {
	if rc, ok := ctx.Value(requestKey).(*RequestContext); ok {
		return rc
	}
	return &RequestContext{
		RequestID: "unknown",
		StartTime: time.Now(),
	}
}

// Logger returns the global logger tagged with the request ID and URL
func Logger(ctx context.Context) zerolog.Logger {
	rc := GetRequestContext(ctx)
	l := log.With().Str("request_id", rc.RequestID)
	if rc.URL != "" {
		l = l.Str("url", rc.URL)
	}
	return l.Logger()
}

// Elapsed returns the time since the request started
func Elapsed(ctx context.Context) time.Duration {
	return time.Since(GetRequestContext(ctx).StartTime)
}
