package loop

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Cyclone1070/termcoder/internal/provider"
	"github.com/Cyclone1070/termcoder/internal/workflow"
)

// scriptedProvider returns canned responses in order.
type scriptedProvider struct {
	responses []*provider.Message
	usages    []provider.Usage
	err       error
	calls     int
}

func (p *scriptedProvider) Generate(ctx context.Context, system string, history []provider.Message, tools []provider.ToolDefinition) (*provider.Message, provider.Usage, error) {
	if p.err != nil {
		return nil, provider.Usage{}, p.err
	}
	i := p.calls
	p.calls++
	usage := provider.Usage{}
	if i < len(p.usages) {
		usage = p.usages[i]
	}
	if i >= len(p.responses) {
		return &provider.Message{Role: provider.RoleModel, Content: "done"}, usage, nil
	}
	return p.responses[i], usage, nil
}

// recordingTools records executed calls and returns canned results.
type recordingTools struct {
	executed []string
	result   func(tc provider.ToolCall) (provider.Message, error)
}

func (m *recordingTools) Definitions() []provider.ToolDefinition { return nil }

func (m *recordingTools) Execute(ctx context.Context, tc provider.ToolCall, events chan<- workflow.Event) (provider.Message, error) {
	m.executed = append(m.executed, tc.Name)
	if m.result != nil {
		return m.result(tc)
	}
	return provider.Message{Role: provider.RoleTool, ToolCallID: tc.ID, ToolName: tc.Name, Content: "{}"}, nil
}

func TestRunPlainTextTurn(t *testing.T) {
	p := &scriptedProvider{
		responses: []*provider.Message{
			{Role: provider.RoleModel, Content: "hello there"},
		},
		usages: []provider.Usage{{PromptTokens: 7, CompletionTokens: 3}},
	}
	events := make(chan workflow.Event, 16)
	l := NewLoop(p, &recordingTools{}, events, "system", 10)

	if err := l.Run(context.Background(), "hi"); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	history := l.History()
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
	if history[0].Role != provider.RoleUser || history[1].Role != provider.RoleModel {
		t.Errorf("history roles = %q, %q", history[0].Role, history[1].Role)
	}
	if got := l.Usage(); got.PromptTokens != 7 || got.CompletionTokens != 3 {
		t.Errorf("usage = %+v", got)
	}

	close(events)
	var sawText, sawDone bool
	for e := range events {
		switch ev := e.(type) {
		case workflow.TextEvent:
			sawText = ev.Text == "hello there"
		case workflow.DoneEvent:
			sawDone = ev.Err == nil
		}
	}
	if !sawText || !sawDone {
		t.Errorf("text event seen = %v, done event seen = %v", sawText, sawDone)
	}
}

func TestRunExecutesToolCallsInOrder(t *testing.T) {
	p := &scriptedProvider{
		responses: []*provider.Message{
			{Role: provider.RoleModel, ToolCalls: []provider.ToolCall{
				{ID: "c1", Name: "read_file", Args: map[string]any{"path": "a"}},
				{ID: "c2", Name: "edit_file", Args: map[string]any{"path": "a"}},
			}},
			{Role: provider.RoleModel, Content: "edited"},
		},
	}
	tools := &recordingTools{}
	l := NewLoop(p, tools, nil, "", 10)

	if err := l.Run(context.Background(), "fix a"); err != nil {
		t.Fatal(err)
	}
	if len(tools.executed) != 2 || tools.executed[0] != "read_file" || tools.executed[1] != "edit_file" {
		t.Errorf("executed = %v", tools.executed)
	}

	// user, model(tool calls), tool, tool, model(text)
	history := l.History()
	if len(history) != 5 {
		t.Fatalf("history length = %d, want 5", len(history))
	}
	if history[2].Role != provider.RoleTool || history[3].Role != provider.RoleTool {
		t.Errorf("tool results missing from history: %+v", history)
	}
}

func TestRunFailedToolContinuesLoop(t *testing.T) {
	p := &scriptedProvider{
		responses: []*provider.Message{
			{Role: provider.RoleModel, ToolCalls: []provider.ToolCall{
				{ID: "c1", Name: "read_file", Args: map[string]any{"path": "missing"}},
			}},
			{Role: provider.RoleModel, Content: "that file does not exist"},
		},
	}
	tools := &recordingTools{
		result: func(tc provider.ToolCall) (provider.Message, error) {
			return provider.Message{
				Role: provider.RoleTool, ToolCallID: tc.ID, ToolName: tc.Name,
				Content: `{"success":false,"error_kind":"not_found","error":"file not found"}`,
			}, nil
		},
	}
	l := NewLoop(p, tools, nil, "", 10)

	if err := l.Run(context.Background(), "read missing"); err != nil {
		t.Fatalf("failed tool must not end the turn: %v", err)
	}
	if p.calls != 2 {
		t.Errorf("provider called %d times, want 2", p.calls)
	}
}

func TestRunIterationLimit(t *testing.T) {
	// Model requests a tool on every iteration, never answering.
	endless := &provider.Message{Role: provider.RoleModel, ToolCalls: []provider.ToolCall{
		{ID: "c", Name: "list_files", Args: map[string]any{}},
	}}
	p := &scriptedProvider{responses: []*provider.Message{endless, endless, endless}}
	l := NewLoop(p, &recordingTools{}, nil, "", 3)

	err := l.Run(context.Background(), "loop forever")
	if err == nil {
		t.Fatal("expected iteration limit error")
	}
	if p.calls != 3 {
		t.Errorf("provider called %d times, want 3", p.calls)
	}
}

func TestRunProviderError(t *testing.T) {
	wantErr := &provider.ProviderError{Code: provider.ErrorCodeRateLimit, Message: "slow down"}
	p := &scriptedProvider{err: wantErr}
	l := NewLoop(p, &recordingTools{}, nil, "", 10)

	err := l.Run(context.Background(), "hi")
	var provErr *provider.ProviderError
	if !errors.As(err, &provErr) || provErr.Code != provider.ErrorCodeRateLimit {
		t.Errorf("provider error lost: %v", err)
	}
}

func TestRunCancelledContext(t *testing.T) {
	p := &scriptedProvider{}
	l := NewLoop(p, &recordingTools{}, nil, "", 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := l.Run(ctx, "hi"); !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
	if p.calls != 0 {
		t.Error("provider called after cancellation")
	}
}

func TestRunCancelledMidToolAnswersPendingCalls(t *testing.T) {
	p := &scriptedProvider{
		responses: []*provider.Message{
			{Role: provider.RoleModel, ToolCalls: []provider.ToolCall{
				{ID: "c1", Name: "run_bash", Args: map[string]any{"command": "sleep 60"}},
				{ID: "c2", Name: "read_file", Args: map[string]any{"path": "a"}},
			}},
			{Role: provider.RoleModel, Content: "understood"},
		},
	}
	ctx, cancel := context.WithCancel(context.Background())
	tools := &recordingTools{
		result: func(tc provider.ToolCall) (provider.Message, error) {
			cancel()
			return provider.Message{}, ctx.Err()
		},
	}
	l := NewLoop(p, tools, nil, "", 10)

	if err := l.Run(ctx, "run it"); err == nil {
		t.Fatal("expected cancellation error")
	}

	// user, model(2 tool calls), tool c1, tool c2, user "[cancelled by user]"
	history := l.History()
	if len(history) != 5 {
		t.Fatalf("history length = %d, want 5: %+v", len(history), history)
	}
	for i, wantID := range []string{"c1", "c2"} {
		msg := history[2+i]
		if msg.Role != provider.RoleTool || msg.ToolCallID != wantID {
			t.Errorf("history[%d] = role %q id %q, want tool result for %q", 2+i, msg.Role, msg.ToolCallID, wantID)
		}
		if !strings.Contains(msg.Content, "user_denied") || !strings.Contains(msg.Content, "cancelled") {
			t.Errorf("history[%d] content = %q, want cancelled user_denied result", 2+i, msg.Content)
		}
	}
	if last := history[4]; last.Role != provider.RoleUser || last.Content != "[cancelled by user]" {
		t.Errorf("last turn = %+v, want user cancellation note", last)
	}

	// The session survives: the next turn runs over the repaired history.
	if err := l.Run(context.Background(), "continue"); err != nil {
		t.Fatalf("turn after cancellation failed: %v", err)
	}
	if got := l.History(); got[len(got)-1].Content != "understood" {
		t.Errorf("follow-up turn missing model reply: %+v", got[len(got)-1])
	}
}

func TestClearDropsHistoryKeepsUsage(t *testing.T) {
	p := &scriptedProvider{
		responses: []*provider.Message{{Role: provider.RoleModel, Content: "ok"}},
		usages:    []provider.Usage{{PromptTokens: 5, CompletionTokens: 5}},
	}
	l := NewLoop(p, &recordingTools{}, nil, "", 10)
	if err := l.Run(context.Background(), "hi"); err != nil {
		t.Fatal(err)
	}

	l.Clear()
	if len(l.History()) != 0 {
		t.Error("history survived Clear")
	}
	if l.Usage().Total() != 10 {
		t.Error("usage should survive Clear")
	}
}

func TestHistoryPersistsAcrossTurns(t *testing.T) {
	p := &scriptedProvider{
		responses: []*provider.Message{
			{Role: provider.RoleModel, Content: "first"},
			{Role: provider.RoleModel, Content: "second"},
		},
	}
	l := NewLoop(p, &recordingTools{}, nil, "", 10)
	if err := l.Run(context.Background(), "one"); err != nil {
		t.Fatal(err)
	}
	if err := l.Run(context.Background(), "two"); err != nil {
		t.Fatal(err)
	}
	if len(l.History()) != 4 {
		t.Errorf("history length = %d, want 4", len(l.History()))
	}
}
