package httpapi

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const handlerSpanPrefix = "httpapi.Handler."

var handlerTracer = otel.Tracer("sports-data-service/internal/interfaces/httpapi")

// startHandlerSpan opens "httpapi.Handler.<op>" under the otelhttp server
// span. Requests otelhttp filtered out (health probes) have no parent and
// get the non-recording span already in ctx.
func startHandlerSpan(ctx context.Context, op string) (context.Context, trace.Span) {
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() {
		return ctx, parent
	}
	return handlerTracer.Start(ctx, handlerSpanPrefix+op)
}
