package permission

import (
	"context"
	"fmt"
	"sync"

	"github.com/Cyclone1070/termcoder/internal/tool"
)

// Decision is the user's answer to a permission prompt.
type Decision string

const (
	DecisionAllow       Decision = "allow"
	DecisionDeny        Decision = "deny"
	DecisionAllowAlways Decision = "allow_always"
)

// Prompter asks the user to approve one tool call. Implementations block
// until the user answers or ctx is cancelled.
type Prompter interface {
	ReadPermission(ctx context.Context, prompt, preview string) (Decision, error)
}

// Action is the gate's verdict before any prompting happens.
type Action int

const (
	ActionAutoApprove Action = iota
	ActionPrompt
)

// Gate decides whether a tool call may proceed. Read-only tools always
// pass; mutating tools pass depending on the mode, a per-session allow
// list, or an interactive decision.
type Gate struct {
	prompter Prompter

	mu           sync.RWMutex
	mode         Mode
	sessionAllow map[string]bool
}

func NewGate(mode Mode, prompter Prompter) *Gate {
	return &Gate{
		prompter:     prompter,
		mode:         mode,
		sessionAllow: make(map[string]bool),
	}
}

// Mode returns the active permission mode.
func (g *Gate) Mode() Mode {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.mode
}

// SetMode switches the active mode. Session allowances survive mode
// changes; they were granted to tools, not to a mode.
func (g *Gate) SetMode(mode Mode) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.mode = mode
}

// CycleMode advances to the next mode and returns it.
func (g *Gate) CycleMode() Mode {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.mode = g.mode.Cycle()
	return g.mode
}

// Decide returns the gate's verdict for a tool category under the
// current mode, before session allowances are considered.
func (g *Gate) Decide(category tool.Category) Action {
	g.mu.RLock()
	defer g.mu.RUnlock()

	switch category {
	case tool.CategoryReadOnly:
		return ActionAutoApprove
	case tool.CategoryFileMutating:
		if g.mode == ModeAcceptEdits || g.mode == ModeYolo {
			return ActionAutoApprove
		}
		return ActionPrompt
	case tool.CategoryProcess:
		if g.mode == ModeYolo {
			return ActionAutoApprove
		}
		return ActionPrompt
	default:
		return ActionPrompt
	}
}

// Authorize runs the full gate for one tool call: mode decision, session
// allow list, then an interactive prompt. A denial is returned as a
// user_denied tool error so the model sees it as a normal tool failure.
func (g *Gate) Authorize(ctx context.Context, toolName string, category tool.Category, prompt, preview string) error {
	if g.Decide(category) == ActionAutoApprove {
		return nil
	}

	g.mu.RLock()
	allowed := g.sessionAllow[toolName]
	g.mu.RUnlock()
	if allowed {
		return nil
	}

	decision, err := g.prompter.ReadPermission(ctx, prompt, preview)
	if err != nil {
		return fmt.Errorf("read permission: %w", err)
	}

	switch decision {
	case DecisionAllow:
		return nil
	case DecisionAllowAlways:
		g.mu.Lock()
		g.sessionAllow[toolName] = true
		g.mu.Unlock()
		return nil
	case DecisionDeny:
		return tool.NewError(tool.KindUserDenied, "user denied %s", toolName)
	default:
		return fmt.Errorf("invalid permission decision: %s", decision)
	}
}
