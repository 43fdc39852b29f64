package httpapi

import (
	"context"
	"strings"

	"github.com/riskibarqy/f1-fantasy/internal/platform/tracing"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const handlerSpanPrefix = "httpapi.Handler."

var apiTracer = otel.Tracer("f1-fantasy/internal/interfaces/httpapi")

// startSpan opens spans for handler entry points only. Response helpers run
// inside the handler span and get a no-op.
func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if !strings.HasPrefix(name, handlerSpanPrefix) {
		return tracing.Skip(ctx)
	}
	return tracing.Child(ctx, apiTracer, name)
}
