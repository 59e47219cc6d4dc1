// Package workflow defines the events the agent loop emits toward the UI.
package workflow

// Event is the interface for all workflow events.
// The UI handles events via type switch.
type Event interface {
	isEvent()
}

// ThinkingEvent is emitted while a model request is in flight.
type ThinkingEvent struct{}

func (ThinkingEvent) isEvent() {}

// TextEvent is emitted when the model produces text output.
type TextEvent struct {
	Text string
}

func (TextEvent) isEvent() {}

// ToolStartEvent is emitted when a tool execution begins.
type ToolStartEvent struct {
	ToolName       string
	RequestDisplay string // e.g. "Read cmd/main.go"
}

func (ToolStartEvent) isEvent() {}

// ToolEndEvent is emitted when a tool completes, successfully or not.
type ToolEndEvent struct {
	ToolName string
	Success  bool
	Display  string // short outcome line for the transcript
}

func (ToolEndEvent) isEvent() {}

// UsageEvent reports the token cost of one model call.
type UsageEvent struct {
	PromptTokens     int
	CompletionTokens int
}

func (UsageEvent) isEvent() {}

// DoneEvent is emitted when one run of the loop completes.
type DoneEvent struct {
	Err error // nil on normal completion
}

func (DoneEvent) isEvent() {}
