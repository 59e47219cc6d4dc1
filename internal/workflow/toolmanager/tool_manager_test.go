package toolmanager

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Cyclone1070/termcoder/internal/provider"
	"github.com/Cyclone1070/termcoder/internal/tool"
	"github.com/Cyclone1070/termcoder/internal/workflow"
)

// fakeGate records authorization calls and returns a configured error.
type fakeGate struct {
	calls    []string
	previews []string
	err      error
}

func (g *fakeGate) Authorize(ctx context.Context, toolName string, category tool.Category, prompt, preview string) error {
	g.calls = append(g.calls, toolName)
	g.previews = append(g.previews, preview)
	return g.err
}

// echoRequest is a minimal tool input with validation.
type echoRequest struct {
	Text string `mapstructure:"text" json:"text"`
}

func (r *echoRequest) Validate() error {
	if r.Text == "" {
		return fmt.Errorf("text is required")
	}
	return nil
}

func (r *echoRequest) String() string { return "Echo " + r.Text }

// echoTool echoes its input; category is configurable.
type echoTool struct {
	category tool.Category
	execute  func(ctx context.Context, req *echoRequest) (string, error)
}

func (t *echoTool) Name() string            { return "echo" }
func (t *echoTool) Category() tool.Category { return t.category }
func (t *echoTool) Input() any              { return &echoRequest{} }

func (t *echoTool) Declaration() tool.Declaration {
	return tool.Declaration{
		Name:        "echo",
		Description: "echo text back",
		Parameters: &tool.Schema{
			Type: tool.TypeObject,
			Properties: map[string]*tool.Schema{
				"text": {Type: tool.TypeString},
			},
			Required: []string{"text"},
		},
	}
}

func (t *echoTool) Execute(ctx context.Context, input any) (string, error) {
	req := input.(*echoRequest)
	if t.execute != nil {
		return t.execute(ctx, req)
	}
	return req.Text, nil
}

func drainEvents() (chan workflow.Event, func() []workflow.Event) {
	events := make(chan workflow.Event, 16)
	return events, func() []workflow.Event {
		close(events)
		var out []workflow.Event
		for e := range events {
			out = append(out, e)
		}
		return out
	}
}

func resultFrom(t *testing.T, msg provider.Message) tool.Result {
	t.Helper()
	if msg.Role != provider.RoleTool {
		t.Fatalf("message role = %q, want tool", msg.Role)
	}
	var res tool.Result
	if err := json.Unmarshal([]byte(msg.Content), &res); err != nil {
		t.Fatalf("tool message content is not a result: %v", err)
	}
	return res
}

func TestExecuteSuccess(t *testing.T) {
	gate := &fakeGate{}
	tm := NewToolManager(gate, &echoTool{category: tool.CategoryReadOnly})
	events, collect := drainEvents()

	msg, err := tm.Execute(context.Background(), provider.ToolCall{
		ID: "c1", Name: "echo", Args: map[string]any{"text": "hi"},
	}, events)
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}

	res := resultFrom(t, msg)
	if !res.Success || res.Output != "hi" {
		t.Errorf("result = %+v", res)
	}
	if msg.ToolCallID != "c1" || msg.ToolName != "echo" {
		t.Errorf("message = %+v", msg)
	}

	got := collect()
	if len(got) != 2 {
		t.Fatalf("got %d events, want start and end", len(got))
	}
	start, ok := got[0].(workflow.ToolStartEvent)
	if !ok || start.RequestDisplay != "Echo hi" {
		t.Errorf("start event = %+v", got[0])
	}
	if end, ok := got[1].(workflow.ToolEndEvent); !ok || !end.Success {
		t.Errorf("end event = %+v", got[1])
	}
}

// diffRequest carries a richer approval preview than its display line.
type diffRequest struct {
	Text string `mapstructure:"text" json:"text"`
}

func (r *diffRequest) String() string { return "Edit a.txt" }

func (r *diffRequest) Preview() string {
	return "a.txt\n- old line\n+ " + r.Text
}

type diffTool struct{}

func (t *diffTool) Name() string            { return "diff" }
func (t *diffTool) Category() tool.Category { return tool.CategoryFileMutating }
func (t *diffTool) Input() any              { return &diffRequest{} }

func (t *diffTool) Declaration() tool.Declaration {
	return tool.Declaration{Name: "diff", Description: "apply an edit"}
}

func (t *diffTool) Execute(ctx context.Context, input any) (string, error) {
	return "{}", nil
}

func TestExecutePassesPreviewToGate(t *testing.T) {
	gate := &fakeGate{}
	tm := NewToolManager(gate, &diffTool{}, &echoTool{category: tool.CategoryFileMutating})

	_, err := tm.Execute(context.Background(), provider.ToolCall{
		ID: "c1", Name: "diff", Args: map[string]any{"text": "new line"},
	}, nil)
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if len(gate.previews) != 1 || gate.previews[0] != "a.txt\n- old line\n+ new line" {
		t.Errorf("gate previews = %q, want the request's diff preview", gate.previews)
	}

	// A request without a preview falls back to its display string.
	_, err = tm.Execute(context.Background(), provider.ToolCall{
		ID: "c2", Name: "echo", Args: map[string]any{"text": "hi"},
	}, nil)
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if got := gate.previews[1]; got != "Echo hi" {
		t.Errorf("fallback preview = %q, want %q", got, "Echo hi")
	}
}

func TestExecuteUnknownTool(t *testing.T) {
	gate := &fakeGate{}
	tm := NewToolManager(gate, &echoTool{category: tool.CategoryReadOnly})

	msg, err := tm.Execute(context.Background(), provider.ToolCall{
		ID: "c1", Name: "rocket_launch", Args: map[string]any{},
	}, nil)
	if err != nil {
		t.Fatalf("unknown tool must not abort the loop: %v", err)
	}
	res := resultFrom(t, msg)
	if res.Success || res.ErrorKind != tool.KindUnknownTool {
		t.Errorf("result = %+v", res)
	}
	if !strings.Contains(res.Detail, "echo") {
		t.Errorf("available tools not listed: %q", res.Detail)
	}
	if len(gate.calls) != 0 {
		t.Error("gate consulted for an unknown tool")
	}
}

func TestExecuteInvalidArguments(t *testing.T) {
	gate := &fakeGate{}
	tm := NewToolManager(gate, &echoTool{category: tool.CategoryFileMutating})

	msg, err := tm.Execute(context.Background(), provider.ToolCall{
		ID: "c1", Name: "echo", Args: map[string]any{"text": ""},
	}, nil)
	if err != nil {
		t.Fatalf("validation failure must not abort the loop: %v", err)
	}
	res := resultFrom(t, msg)
	if res.Success || res.ErrorKind != tool.KindInvalidArguments {
		t.Errorf("result = %+v", res)
	}
	if len(gate.calls) != 0 {
		t.Error("gate consulted before arguments validated")
	}
}

func TestExecuteDeniedToolHasNoSideEffect(t *testing.T) {
	target := filepath.Join(t.TempDir(), "out.txt")
	executed := false
	et := &echoTool{
		category: tool.CategoryFileMutating,
		execute: func(ctx context.Context, req *echoRequest) (string, error) {
			executed = true
			os.WriteFile(target, []byte(req.Text), 0o644)
			return "written", nil
		},
	}
	gate := &fakeGate{err: tool.NewError(tool.KindUserDenied, "user denied echo")}
	tm := NewToolManager(gate, et)

	msg, err := tm.Execute(context.Background(), provider.ToolCall{
		ID: "c1", Name: "echo", Args: map[string]any{"text": "secret"},
	}, nil)
	if err != nil {
		t.Fatalf("denial must not abort the loop: %v", err)
	}

	res := resultFrom(t, msg)
	if res.Success || res.ErrorKind != tool.KindUserDenied {
		t.Errorf("result = %+v", res)
	}
	if executed {
		t.Error("tool executed despite denial")
	}
	if _, statErr := os.Stat(target); !os.IsNotExist(statErr) {
		t.Error("side effect happened despite denial")
	}
}

func TestExecutePreservesPartialOutputOnError(t *testing.T) {
	et := &echoTool{
		category: tool.CategoryReadOnly,
		execute: func(ctx context.Context, req *echoRequest) (string, error) {
			return "partial", tool.NewError(tool.KindTimeout, "took too long")
		},
	}
	tm := NewToolManager(&fakeGate{}, et)

	msg, err := tm.Execute(context.Background(), provider.ToolCall{
		ID: "c1", Name: "echo", Args: map[string]any{"text": "x"},
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	res := resultFrom(t, msg)
	if res.Success || res.ErrorKind != tool.KindTimeout {
		t.Errorf("result = %+v", res)
	}
	if res.Output != "partial" {
		t.Errorf("partial output lost: %+v", res)
	}
}

func TestExecuteContextCancellationAborts(t *testing.T) {
	et := &echoTool{
		category: tool.CategoryReadOnly,
		execute: func(ctx context.Context, req *echoRequest) (string, error) {
			return "", ctx.Err()
		},
	}
	tm := NewToolManager(&fakeGate{}, et)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := tm.Execute(ctx, provider.ToolCall{
		ID: "c1", Name: "echo", Args: map[string]any{"text": "x"},
	}, nil)
	if err == nil {
		t.Fatal("cancellation should abort the call")
	}
}

func TestDeclarationsSorted(t *testing.T) {
	a := &echoTool{category: tool.CategoryReadOnly}
	tm := NewToolManager(&fakeGate{}, a)
	decls := tm.Declarations()
	if len(decls) != 1 || decls[0].Name != "echo" {
		t.Errorf("declarations = %+v", decls)
	}
	defs := tm.Definitions()
	if len(defs) != 1 || defs[0].Parameters == nil {
		t.Fatalf("definitions = %+v", defs)
	}
	if defs[0].Parameters.Properties["text"].Type != "string" {
		t.Errorf("schema not converted: %+v", defs[0].Parameters.Properties["text"])
	}
}
