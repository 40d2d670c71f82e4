package tracing

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const TraceIdHeader = "X-Trace-Id"

// InjectTraceID attaches a new trace id to the context logger.
func InjectTraceID(ctx context.Context) context.Context {
	return WithTraceID(ctx, uuid.New().String())
}

// WithTraceID attaches id to the context logger, falling back to the global
// logger when the context carries none.
func WithTraceID(ctx context.Context, id string) context.Context {
	base := log.Logger
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		base = *l
	}
	logger := base.With().Str("traceId", id).Logger()
	return logger.WithContext(ctx)
}
