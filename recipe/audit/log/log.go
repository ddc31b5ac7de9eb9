// Package log implements recipe.AuditSink by writing structured log
// lines, adapted from the teacher engine's graph/emit.LogEmitter.
package log

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/CoReason-AI/coreason-maco/recipe"
)

// Sink writes one line per event to an io.Writer, either as
// human-readable key=value text or as JSONL.
type Sink struct {
	writer   io.Writer
	jsonMode bool
}

// New builds a Sink. A nil writer defaults to os.Stdout.
func New(writer io.Writer, jsonMode bool) *Sink {
	if writer == nil {
		writer = os.Stdout
	}
	return &Sink{writer: writer, jsonMode: jsonMode}
}

// Record satisfies recipe.AuditSink.
func (s *Sink) Record(_ context.Context, event recipe.Event) {
	if s.jsonMode {
		s.recordJSON(event)
		return
	}
	s.recordText(event)
}

func (s *Sink) recordJSON(event recipe.Event) {
	data, err := json.Marshal(struct {
		TraceID    string            `json:"trace_id"`
		RunID      string            `json:"run_id"`
		SequenceID int64             `json:"sequence_id"`
		NodeID     string            `json:"node_id"`
		EventType  recipe.EventType  `json:"event_type"`
		Payload    map[string]any    `json:"payload"`
		Visuals    map[string]string `json:"visuals"`
	}{
		TraceID:    event.TraceID,
		RunID:      event.RunID,
		SequenceID: event.SequenceID,
		NodeID:     event.NodeID,
		EventType:  event.EventType,
		Payload:    event.Payload,
		Visuals:    event.Visuals,
	})
	if err != nil {
		fmt.Fprintf(s.writer, "{\"error\":%q}\n", err.Error())
		return
	}
	fmt.Fprintf(s.writer, "%s\n", data)
}

func (s *Sink) recordText(event recipe.Event) {
	fmt.Fprintf(s.writer, "[%s] run=%s seq=%d node=%s",
		event.EventType, event.RunID, event.SequenceID, event.NodeID)
	if len(event.Payload) > 0 {
		if payloadJSON, err := json.Marshal(event.Payload); err == nil {
			fmt.Fprintf(s.writer, " payload=%s", payloadJSON)
		}
	}
	fmt.Fprintln(s.writer)
}
