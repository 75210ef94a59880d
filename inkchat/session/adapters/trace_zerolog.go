package adapters

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	ports "github.com/inkwell-dev/inkchat/inkchat/session/ports"
)

// ZerologTracer implements the Tracer port using zerolog.
type ZerologTracer struct {
	logger zerolog.Logger
}

// NewZerologTracer creates a new zerolog tracer.
func NewZerologTracer(logger zerolog.Logger) *ZerologTracer {
	return &ZerologTracer{logger: logger}
}

type spanLoggerKey struct{}

// StartSpan starts a tracing span and returns the context plus a finish
// function to call when the span completes.
func (t *ZerologTracer) StartSpan(ctx context.Context, name string, attrs map[string]any) (context.Context, func(err error)) {
	logger := t.logger.With().Str("span", name).Logger()
	for k, v := range attrs {
		logger = logger.With().Interface(k, v).Logger()
	}
	ctx = context.WithValue(ctx, spanLoggerKey{}, logger)

	start := time.Now()
	logger.Debug().Msg("span start")

	finish := func(err error) {
		event := logger.Debug()
		if err != nil {
			event = logger.Error().Err(err)
		}
		event.Dur("duration", time.Since(start)).Msg("span end")
	}
	return ctx, finish
}

// Event logs a point-in-time event within the current span, if any.
func (t *ZerologTracer) Event(ctx context.Context, name string, attrs map[string]any) {
	logger := t.logger
	if l, ok := ctx.Value(spanLoggerKey{}).(zerolog.Logger); ok {
		logger = l
	}
	event := logger.Debug()
	for k, v := range attrs {
		event = event.Interface(k, v)
	}
	event.Str("event", name).Msg("trace event")
}

// Ensure ZerologTracer implements the Tracer port.
var _ ports.Tracer = (*ZerologTracer)(nil)
