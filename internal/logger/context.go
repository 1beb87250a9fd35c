package logger

import (
	"context"

	"github.com/rs/zerolog"
)

type requestIDKey struct{}

// WithRequestID returns a copy of ctx carrying the request identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the identifier stored by WithRequestID, if any.
func RequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey{}).(string)
	return id, ok && id != ""
}

// FromContext returns base tagged with the request identifier carried by ctx.
// Without one, base is returned as is.
func FromContext(ctx context.Context, base zerolog.Logger) *zerolog.Logger {
	if id, ok := RequestID(ctx); ok {
		l := base.With().Str("request_id", id).Logger()
		return &l
	}
	return &base
}
