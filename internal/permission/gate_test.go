package permission

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Cyclone1070/termcoder/internal/tool"
)

// mockPrompter implements Prompter with an injectable answer.
type mockPrompter struct {
	mu        sync.Mutex
	calls     int
	replyFunc func(prompt, preview string) (Decision, error)
}

func (m *mockPrompter) ReadPermission(ctx context.Context, prompt, preview string) (Decision, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	return m.replyFunc(prompt, preview)
}

func (m *mockPrompter) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func TestDecideTable(t *testing.T) {
	cases := []struct {
		mode     Mode
		category tool.Category
		want     Action
	}{
		{ModeDefault, tool.CategoryReadOnly, ActionAutoApprove},
		{ModeDefault, tool.CategoryFileMutating, ActionPrompt},
		{ModeDefault, tool.CategoryProcess, ActionPrompt},
		{ModeAcceptEdits, tool.CategoryReadOnly, ActionAutoApprove},
		{ModeAcceptEdits, tool.CategoryFileMutating, ActionAutoApprove},
		{ModeAcceptEdits, tool.CategoryProcess, ActionPrompt},
		{ModeYolo, tool.CategoryReadOnly, ActionAutoApprove},
		{ModeYolo, tool.CategoryFileMutating, ActionAutoApprove},
		{ModeYolo, tool.CategoryProcess, ActionAutoApprove},
	}
	for _, c := range cases {
		g := NewGate(c.mode, nil)
		if got := g.Decide(c.category); got != c.want {
			t.Errorf("mode %s, category %s: got %v, want %v", c.mode, c.category, got, c.want)
		}
	}
}

func TestAuthorizeReadOnlyNeverPrompts(t *testing.T) {
	prompter := &mockPrompter{replyFunc: func(string, string) (Decision, error) {
		return DecisionDeny, nil
	}}
	g := NewGate(ModeDefault, prompter)
	if err := g.Authorize(context.Background(), "read_file", tool.CategoryReadOnly, "", ""); err != nil {
		t.Fatalf("read-only call was not auto-approved: %v", err)
	}
	if prompter.callCount() != 0 {
		t.Error("prompter consulted for a read-only tool")
	}
}

func TestAuthorizeDeny(t *testing.T) {
	prompter := &mockPrompter{replyFunc: func(string, string) (Decision, error) {
		return DecisionDeny, nil
	}}
	g := NewGate(ModeDefault, prompter)
	err := g.Authorize(context.Background(), "write_file", tool.CategoryFileMutating, "write?", "")
	if kind, ok := tool.KindOf(err); !ok || kind != tool.KindUserDenied {
		t.Errorf("got kind %v, want %v", kind, tool.KindUserDenied)
	}
}

func TestAuthorizeAllowAlwaysSkipsLaterPrompts(t *testing.T) {
	prompter := &mockPrompter{replyFunc: func(string, string) (Decision, error) {
		return DecisionAllowAlways, nil
	}}
	g := NewGate(ModeDefault, prompter)

	for i := 0; i < 3; i++ {
		if err := g.Authorize(context.Background(), "run_bash", tool.CategoryProcess, "run?", ""); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}
	if prompter.callCount() != 1 {
		t.Errorf("prompter consulted %d times, want 1", prompter.callCount())
	}
}

func TestAuthorizeSessionAllowIsPerTool(t *testing.T) {
	prompter := &mockPrompter{replyFunc: func(string, string) (Decision, error) {
		return DecisionAllowAlways, nil
	}}
	g := NewGate(ModeDefault, prompter)

	if err := g.Authorize(context.Background(), "write_file", tool.CategoryFileMutating, "", ""); err != nil {
		t.Fatal(err)
	}
	if err := g.Authorize(context.Background(), "edit_file", tool.CategoryFileMutating, "", ""); err != nil {
		t.Fatal(err)
	}
	if prompter.callCount() != 2 {
		t.Errorf("prompter consulted %d times, want one per tool", prompter.callCount())
	}
}

func TestAuthorizePrompterError(t *testing.T) {
	wantErr := errors.New("ui gone")
	prompter := &mockPrompter{replyFunc: func(string, string) (Decision, error) {
		return "", wantErr
	}}
	g := NewGate(ModeDefault, prompter)
	err := g.Authorize(context.Background(), "run_bash", tool.CategoryProcess, "", "")
	if !errors.Is(err, wantErr) {
		t.Errorf("prompter error lost: %v", err)
	}
}

func TestAuthorizeConcurrentAllowAlways(t *testing.T) {
	prompter := &mockPrompter{replyFunc: func(string, string) (Decision, error) {
		return DecisionAllowAlways, nil
	}}
	g := NewGate(ModeDefault, prompter)

	var wg sync.WaitGroup
	tools := []string{"write_file", "edit_file", "run_bash"}
	for _, name := range tools {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			if err := g.Authorize(context.Background(), name, tool.CategoryProcess, "", ""); err != nil {
				t.Errorf("Authorize(%s): %v", name, err)
			}
		}(name)
	}
	wg.Wait()

	for _, name := range tools {
		if err := g.Authorize(context.Background(), name, tool.CategoryProcess, "", ""); err != nil {
			t.Errorf("session allowance for %s lost: %v", name, err)
		}
	}
}

func TestModeCycle(t *testing.T) {
	m := ModeDefault
	order := []Mode{ModeAcceptEdits, ModeYolo, ModeDefault}
	for _, want := range order {
		m = m.Cycle()
		if m != want {
			t.Fatalf("cycle = %s, want %s", m, want)
		}
	}
}

func TestParseMode(t *testing.T) {
	for _, m := range []Mode{ModeDefault, ModeAcceptEdits, ModeYolo} {
		got, err := ParseMode(m.String())
		if err != nil || got != m {
			t.Errorf("ParseMode(%q) = (%v, %v)", m.String(), got, err)
		}
	}
	if _, err := ParseMode("rampage"); err == nil {
		t.Error("unknown mode accepted")
	}
}
