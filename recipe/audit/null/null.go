// Package null provides a no-op recipe.AuditSink, adapted from the
// teacher engine's graph/emit.NullEmitter.
package null

import (
	"context"

	"github.com/CoReason-AI/coreason-maco/recipe"
)

// Sink discards every event. Safe for concurrent use; zero overhead.
type Sink struct{}

// New builds a Sink.
func New() *Sink { return &Sink{} }

// Record satisfies recipe.AuditSink by doing nothing.
func (s *Sink) Record(_ context.Context, _ recipe.Event) {}
