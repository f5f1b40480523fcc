package usecase

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var serviceTracer = otel.Tracer("what2watch/internal/usecase")

// startUsecaseSpan opens a service-layer span when the request already
// carries a recording parent. Otherwise it returns a non-recording span so
// callers can defer span.End unconditionally.
func startUsecaseSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	parent := trace.SpanFromContext(ctx)
	if strings.TrimSpace(name) == "" || !parent.SpanContext().IsValid() {
		return ctx, trace.SpanFromContext(context.Background())
	}
	return serviceTracer.Start(ctx, name)
}
