package loop

import (
	"context"

	"github.com/Cyclone1070/termcoder/internal/provider"
	"github.com/Cyclone1070/termcoder/internal/workflow"
)

// llmProvider communicates with an LLM.
type llmProvider interface {
	Generate(ctx context.Context, system string, history []provider.Message, tools []provider.ToolDefinition) (*provider.Message, provider.Usage, error)
}

// toolManager stores and executes tools.
type toolManager interface {
	// Definitions returns all tool schemas in provider format.
	Definitions() []provider.ToolDefinition

	// Execute runs a tool call and returns its result as a tool-role
	// message. It emits ToolStart and ToolEnd events to the channel.
	Execute(ctx context.Context, tc provider.ToolCall, events chan<- workflow.Event) (provider.Message, error)
}
