package ui

import (
	"context"

	"github.com/Cyclone1070/termcoder/internal/permission"
)

// UICommand is an out-of-band instruction from the user to the agent
// runtime, produced by slash commands and cancellation keys.
type UICommand struct {
	Type string // "cycle_mode", "list_models", "switch_model", "clear", "show_tokens", "cancel", "quit"
	Args map[string]string
}

// UserInterface defines the contract for all user interactions.
//
// All blocking methods accept a context; if it is cancelled they return
// immediately with the context error.
type UserInterface interface {
	// ReadInput blocks until the user submits a message.
	ReadInput(ctx context.Context) (string, error)

	// ReadPermission blocks until the user answers an approval popup.
	ReadPermission(ctx context.Context, prompt, preview string) (permission.Decision, error)

	// WriteStatus updates the ephemeral status bar.
	WriteStatus(phase, message string)

	// WriteMessage appends a message to the transcript.
	WriteMessage(role, content string)

	// WriteModelList opens the model selection popup.
	WriteModelList(models []string)

	// SetModel, SetMode and SetTokens update the status bar indicators.
	SetModel(model string)
	SetMode(mode string)
	SetTokens(total int)

	// Commands returns the stream of slash commands and cancellations.
	Commands() <-chan UICommand

	// Ready is closed once the UI accepts requests.
	Ready() <-chan struct{}

	// Start runs the UI event loop on the calling goroutine.
	Start() error
}
