// Package otel implements recipe.AuditSink by recording each event as
// an OpenTelemetry span, adapted from the teacher engine's
// graph/emit.OTelEmitter.
package otel

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/CoReason-AI/coreason-maco/recipe"
)

// Sink creates one span per event. Events represent points in time, so
// each span is started and ended immediately rather than left open.
type Sink struct {
	tracer trace.Tracer
}

// New builds a Sink from a tracer, typically otel.Tracer("recipe").
func New(tracer trace.Tracer) *Sink {
	return &Sink{tracer: tracer}
}

// Record satisfies recipe.AuditSink.
func (s *Sink) Record(ctx context.Context, event recipe.Event) {
	_, span := s.tracer.Start(ctx, string(event.EventType))
	defer span.End()

	span.SetAttributes(
		attribute.String("recipe.trace_id", event.TraceID),
		attribute.String("recipe.run_id", event.RunID),
		attribute.Int64("recipe.sequence_id", event.SequenceID),
		attribute.String("recipe.node_id", event.NodeID),
	)

	for key, value := range event.Payload {
		switch v := value.(type) {
		case string:
			span.SetAttributes(attribute.String("recipe.payload."+key, v))
		case int:
			span.SetAttributes(attribute.Int("recipe.payload."+key, v))
		case int64:
			span.SetAttributes(attribute.Int64("recipe.payload."+key, v))
		case float64:
			span.SetAttributes(attribute.Float64("recipe.payload."+key, v))
		case bool:
			span.SetAttributes(attribute.Bool("recipe.payload."+key, v))
		default:
			span.SetAttributes(attribute.String("recipe.payload."+key, fmt.Sprintf("%v", v)))
		}
	}

	if event.EventType == recipe.EventError {
		msg, _ := event.Payload["message"].(string)
		span.SetStatus(codes.Error, msg)
		span.RecordError(fmt.Errorf("%s", msg))
	}
}
