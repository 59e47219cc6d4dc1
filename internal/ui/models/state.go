// Package models holds the render state for the terminal UI.
package models

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
)

// Message is one line in the transcript.
type Message struct {
	Role    string // "user", "assistant", "tool", "system"
	Content string
}

// PermissionRequest is a pending approval popup.
type PermissionRequest struct {
	Prompt  string
	Preview string
}

// State is the full render state for the UI.
type State struct {
	Input    textinput.Model
	Viewport viewport.Model
	Spinner  spinner.Model

	Width  int
	Height int

	Messages  []Message
	CanSubmit bool

	// Status bar
	StatusPhase   string // "ready", "thinking", "executing", "done", "error"
	StatusMessage string
	DotCount      int

	CurrentModel string
	Mode         string
	TotalTokens  int

	PendingPermission *PermissionRequest

	// Model selection popup
	ShowModelList  bool
	ModelList      []string
	ModelListIndex int
}
