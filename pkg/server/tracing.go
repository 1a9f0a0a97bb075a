package server

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracerName identifies the server's spans. The tracer uses the global
// OpenTelemetry tracer provider; configure it in main() before starting
// the server.
const tracerName = "lattice/server"

func tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// startEventSpan opens a span for one delivered client event.
func startEventSpan(ctx context.Context, sessionID, target string) (context.Context, trace.Span) {
	return tracer().Start(ctx, "lattice.event",
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("lattice.session_id", sessionID),
			attribute.String("lattice.target", target),
		),
	)
}

// startRenderSpan opens a span for one layout render pass.
func startRenderSpan(ctx context.Context, sessionID string) (context.Context, trace.Span) {
	return tracer().Start(ctx, "lattice.render",
		trace.WithAttributes(
			attribute.String("lattice.session_id", sessionID),
		),
	)
}

// endSpan records err (if any) and ends the span.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
