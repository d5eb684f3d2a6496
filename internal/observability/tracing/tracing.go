package tracing

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type traceID struct{}

// InjectTraceID attaches a fresh trace id to the context and its logger.
func InjectTraceID(ctx context.Context) context.Context {
	return WithTraceID(ctx, uuid.New().String())
}

// WithTraceID attaches id to the context and to the zerolog logger derived from it.
func WithTraceID(ctx context.Context, id string) context.Context {
	base := log.Ctx(ctx)
	if base.GetLevel() == zerolog.Disabled {
		// no logger on the context yet
		base = &log.Logger
	}
	logger := base.With().Str("traceId", id).Logger()
	ctx = context.WithValue(ctx, traceID{}, id)
	return logger.WithContext(ctx)
}

// TraceID returns the id set by InjectTraceID, empty if none.
func TraceID(ctx context.Context) string {
	id, _ := ctx.Value(traceID{}).(string)
	return id
}
