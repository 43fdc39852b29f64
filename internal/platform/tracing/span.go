// Package tracing opens child spans for in-process layers. Root spans belong to
// the HTTP middleware and the job entry points.
package tracing

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var noop = trace.SpanFromContext(context.Background())

// Child starts name under the span already in ctx. Without a valid parent, or
// with a blank name, ctx is returned unchanged together with a no-op span.
func Child(ctx context.Context, tracer trace.Tracer, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if strings.TrimSpace(name) == "" || !trace.SpanContextFromContext(ctx).IsValid() {
		return ctx, noop
	}
	if len(attrs) == 0 {
		return tracer.Start(ctx, name)
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// Skip hands back ctx with a no-op span for callers that share a span format
// but must not open one.
func Skip(ctx context.Context) (context.Context, trace.Span) {
	return ctx, noop
}

// Fail marks the span in ctx as errored. A nil error or an untraced ctx is a no-op.
func Fail(ctx context.Context, err error) {
	if err == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
