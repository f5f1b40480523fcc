package httpapi

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var (
	apiTracer = otel.Tracer("what2watch/internal/interfaces/httpapi")

	// Span returned for calls that should not produce their own span. It is
	// non-recording, so End is a no-op.
	passthroughSpan = trace.SpanFromContext(context.Background())
)

// startSpan opens a child span under the request span. Without a valid parent
// (filtered routes such as /healthz) or for low-level write helpers it hands
// back a non-recording span instead of creating a root span.
func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if !trace.SpanFromContext(ctx).SpanContext().IsValid() || !shouldCreateHTTPAPISpan(name) {
		return ctx, passthroughSpan
	}
	return apiTracer.Start(ctx, name)
}

func shouldCreateHTTPAPISpan(name string) bool {
	return strings.HasPrefix(name, "httpapi.Handler.")
}
