// Package loop drives the conversation: send history to the model,
// execute the tool calls it requests, feed results back, repeat until
// the model answers in plain text.
package loop

import (
	"context"
	"fmt"
	"sync"

	"github.com/Cyclone1070/termcoder/internal/provider"
	"github.com/Cyclone1070/termcoder/internal/tool"
	"github.com/Cyclone1070/termcoder/internal/workflow"
)

// Loop owns the conversation history for one session. History persists
// across Run calls until Clear.
type Loop struct {
	provider      llmProvider
	tools         toolManager
	events        chan<- workflow.Event
	systemPrompt  string
	maxIterations int

	mu      sync.Mutex
	history []provider.Message
	usage   provider.Usage
}

func NewLoop(llm llmProvider, tools toolManager, events chan<- workflow.Event, systemPrompt string, maxIterations int) *Loop {
	return &Loop{
		provider:      llm,
		tools:         tools,
		events:        events,
		systemPrompt:  systemPrompt,
		maxIterations: maxIterations,
	}
}

// Run processes one user turn. Tool calls are executed sequentially in
// the order the model requested them; a failed tool feeds its error back
// to the model rather than ending the turn.
func (l *Loop) Run(ctx context.Context, userInput string) (err error) {
	l.appendMessage(provider.Message{Role: provider.RoleUser, Content: userInput})

	defer func() {
		if l.events != nil {
			l.events <- workflow.DoneEvent{Err: err}
		}
	}()

	for i := 0; i < l.maxIterations; i++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			l.appendMessage(provider.Message{Role: provider.RoleUser, Content: "[cancelled by user]"})
			return ctxErr
		}

		if l.events != nil {
			l.events <- workflow.ThinkingEvent{}
		}

		resp, usage, genErr := l.provider.Generate(ctx, l.systemPrompt, l.History(), l.tools.Definitions())
		l.addUsage(usage)
		if l.events != nil && usage.Total() > 0 {
			l.events <- workflow.UsageEvent{
				PromptTokens:     usage.PromptTokens,
				CompletionTokens: usage.CompletionTokens,
			}
		}
		if genErr != nil {
			return fmt.Errorf("generate: %w", genErr)
		}

		l.appendMessage(*resp)
		if resp.Content != "" && l.events != nil {
			l.events <- workflow.TextEvent{Text: resp.Content}
		}
		if len(resp.ToolCalls) == 0 {
			return nil
		}

		for idx, tc := range resp.ToolCalls {
			toolMsg, execErr := l.tools.Execute(ctx, tc, l.events)
			if execErr != nil {
				// Every function call in history needs a matching
				// function response or the provider rejects the next
				// request. Answer the aborted call and any calls that
				// never ran, then record the cancellation.
				for _, unanswered := range resp.ToolCalls[idx:] {
					l.appendMessage(cancelledResult(unanswered))
				}
				l.appendMessage(provider.Message{Role: provider.RoleUser, Content: "[cancelled by user]"})
				return fmt.Errorf("execute %s: %w", tc.Name, execErr)
			}
			l.appendMessage(toolMsg)
		}
	}

	l.appendMessage(provider.Message{Role: provider.RoleUser, Content: "[iteration limit reached]"})
	return fmt.Errorf("iteration limit (%d) reached", l.maxIterations)
}

// cancelledResult builds the tool-role turn for a call interrupted by
// the user before it could produce a real result.
func cancelledResult(tc provider.ToolCall) provider.Message {
	res := tool.ErrResult(tc.ID, tool.NewError(tool.KindUserDenied, "cancelled by user"))
	return provider.Message{
		Role:       provider.RoleTool,
		ToolCallID: tc.ID,
		ToolName:   tc.Name,
		Content:    res.LLMContent(),
	}
}

// History returns a copy of the conversation so far.
func (l *Loop) History() []provider.Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]provider.Message, len(l.history))
	copy(out, l.history)
	return out
}

// Clear drops the conversation history. Token usage is session-wide and
// survives a clear.
func (l *Loop) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.history = nil
}

// Usage returns the accumulated token usage for the session.
func (l *Loop) Usage() provider.Usage {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.usage
}

func (l *Loop) appendMessage(msg provider.Message) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.history = append(l.history, msg)
}

func (l *Loop) addUsage(u provider.Usage) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.usage.Add(u)
}
