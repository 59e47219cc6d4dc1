// Package provider defines the model-agnostic conversation types and the
// interface a backing LLM must implement.
package provider

import "context"

// Role identifies who produced a message.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
	RoleTool  Role = "tool"
)

// ToolCall is one function invocation requested by the model.
type ToolCall struct {
	ID   string
	Name string
	Args map[string]any
}

// Message is one turn in the conversation. A model message may carry
// text, tool calls, or both; a tool message carries the result of one
// call back to the model.
type Message struct {
	Role      Role
	Content   string
	ToolCalls []ToolCall

	// Set on RoleTool messages only.
	ToolCallID string
	ToolName   string
}

// Usage accumulates token counts across a session.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
}

func (u *Usage) Add(other Usage) {
	u.PromptTokens += other.PromptTokens
	u.CompletionTokens += other.CompletionTokens
}

func (u Usage) Total() int {
	return u.PromptTokens + u.CompletionTokens
}

// ModelInfo describes one model the provider can serve.
type ModelInfo struct {
	Name             string
	InputTokenLimit  int
	OutputTokenLimit int
}

// ToolDefinition declares one callable function to the model.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  *ParameterSchema
}

// ParameterSchema is a JSON-schema object description for tool
// parameters, kept provider-neutral.
type ParameterSchema struct {
	Properties map[string]*PropertySchema
	Required   []string
}

// PropertySchema describes one parameter.
type PropertySchema struct {
	Type        string
	Description string
	Enum        []string
	Items       *PropertySchema
}

// Provider generates model responses. Implementations must be safe for
// concurrent use of SetModel/GetModel against in-flight Generate calls.
type Provider interface {
	// Generate sends the system prompt, full history and tool
	// declarations, and returns the model's next message plus the token
	// usage of this call.
	Generate(ctx context.Context, system string, history []Message, tools []ToolDefinition) (*Message, Usage, error)

	// SetModel switches the active model at runtime.
	SetModel(model string) error

	// GetModel returns the active model name.
	GetModel() string

	// ListModels returns the models available to this provider.
	ListModels(ctx context.Context) ([]ModelInfo, error)
}
