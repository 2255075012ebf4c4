package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/gridqueue/gridbroker"

// NewSpan starts a span named after the component and operation. Without a configured
// tracer provider the global no-op provider is used.
func NewSpan(ctx context.Context, component, operation string, attrs ...attribute.KeyValue) (context.Context, oteltrace.Span) {
	return otel.Tracer(instrumentationName).Start(ctx, component+"."+operation,
		oteltrace.WithSpanKind(oteltrace.SpanKindInternal),
		oteltrace.WithAttributes(attrs...),
	)
}

// RecordError marks the span as failed when err is not nil.
func RecordError(span oteltrace.Span, err error) {
	if err != nil {
		span.RecordError(err)
	}
}
