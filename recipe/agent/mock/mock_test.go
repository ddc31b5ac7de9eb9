package mock

import (
	"context"
	"testing"

	"github.com/CoReason-AI/coreason-maco/recipe"
)

func TestExecutor_InvokeReturnsQueuedResponsesInOrder(t *testing.T) {
	e := NewExecutor()
	e.Responses["writer"] = []recipe.Output{{"text": "first"}, {"text": "second"}}

	out1, err := e.Invoke(context.Background(), "writer", nil, nil)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	out2, err := e.Invoke(context.Background(), "writer", nil, nil)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	out3, err := e.Invoke(context.Background(), "writer", nil, nil)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}

	if out1["text"] != "first" || out2["text"] != "second" || out3["text"] != "second" {
		t.Errorf("responses = %v, %v, %v", out1, out2, out3)
	}
	if e.CallCount() != 3 {
		t.Errorf("CallCount = %d, want 3", e.CallCount())
	}
}

func TestExecutor_InvokeStreamDeliversChunksBeforeResult(t *testing.T) {
	e := NewExecutor()
	e.StreamChunks = []recipe.StreamChunk{"a", "b"}
	e.Default = recipe.Output{"text": "done"}

	var seen []recipe.StreamChunk
	out, err := e.InvokeStream(context.Background(), "agent", nil, nil, func(c recipe.StreamChunk) {
		seen = append(seen, c)
	})
	if err != nil {
		t.Fatalf("InvokeStream: %v", err)
	}
	if len(seen) != 2 || seen[0] != "a" || seen[1] != "b" {
		t.Errorf("seen chunks = %v", seen)
	}
	if out["text"] != "done" {
		t.Errorf("out = %v", out)
	}
}

func TestExecutor_ErrInjection(t *testing.T) {
	e := NewExecutor()
	e.Err = context.DeadlineExceeded

	_, err := e.Invoke(context.Background(), "x", nil, nil)
	if err != context.DeadlineExceeded {
		t.Fatalf("err = %v, want DeadlineExceeded", err)
	}
}
