package tool

import (
	"context"
	"errors"
	"testing"

	"github.com/CoReason-AI/coreason-maco/recipe/tool/mock"
)

func TestRegistry_ExecuteDispatchesByName(t *testing.T) {
	m := &mock.Tool{ToolName: "echo", Responses: []map[string]any{{"ok": true}}}
	reg := NewRegistry(m)

	out, err := reg.Execute(context.Background(), "echo", map[string]any{"a": 1})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if out["ok"] != true {
		t.Errorf("out = %v, want ok=true", out)
	}
	if m.CallCount() != 1 {
		t.Errorf("CallCount = %d, want 1", m.CallCount())
	}
}

func TestRegistry_UnknownToolErrors(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Execute(context.Background(), "nope", nil)

	var unknown *ErrUnknownTool
	if !errors.As(err, &unknown) {
		t.Fatalf("expected ErrUnknownTool, got %v", err)
	}
}

func TestRegistry_PropagatesToolError(t *testing.T) {
	wantErr := errors.New("boom")
	m := &mock.Tool{ToolName: "breaks", Err: wantErr}
	reg := NewRegistry(m)

	_, err := reg.Execute(context.Background(), "breaks", nil)
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
}
