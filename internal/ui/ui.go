// Package ui implements the terminal interface with Bubble Tea. The
// agent runtime talks to it through channels; blocking reads pair a
// request channel with a response channel so cancellation can interrupt
// either side.
package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Cyclone1070/termcoder/internal/permission"
	"github.com/Cyclone1070/termcoder/internal/ui/services"
)

// UI implements UserInterface using Bubble Tea.
type UI struct {
	program *tea.Program

	// runtime -> UI
	inputReq      chan struct{}
	inputResp     chan string
	permReq       chan permRequest
	permResp      chan permission.Decision
	statusChan    chan statusMsg
	messageChan   chan transcriptMsg
	metaChan      chan metaMsg
	modelListChan chan []string

	// UI -> runtime
	commandChan chan UICommand

	readyChan chan struct{}
}

type permRequest struct {
	prompt  string
	preview string
}

type statusMsg struct {
	phase   string
	message string
}

type transcriptMsg struct {
	role    string
	content string
}

// metaMsg updates one status bar indicator.
type metaMsg struct {
	model  *string
	mode   *string
	tokens *int
}

// New creates the Bubble Tea UI.
func New(renderer services.MarkdownRenderer) *UI {
	u := &UI{
		inputReq:      make(chan struct{}),
		inputResp:     make(chan string),
		permReq:       make(chan permRequest),
		permResp:      make(chan permission.Decision),
		statusChan:    make(chan statusMsg, 10),
		messageChan:   make(chan transcriptMsg, 10),
		metaChan:      make(chan metaMsg, 10),
		modelListChan: make(chan []string),
		commandChan:   make(chan UICommand, 10),
		readyChan:     make(chan struct{}),
	}

	model := newBubbleTeaModel(u, renderer)
	u.program = tea.NewProgram(model, tea.WithAltScreen())
	return u
}

// Start runs the UI program until quit.
func (u *UI) Start() error {
	_, err := u.program.Run()
	return err
}

func (u *UI) ReadInput(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case u.inputReq <- struct{}{}:
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case response := <-u.inputResp:
			return response, nil
		}
	}
}

func (u *UI) ReadPermission(ctx context.Context, prompt, preview string) (permission.Decision, error) {
	select {
	case <-ctx.Done():
		return permission.DecisionDeny, ctx.Err()
	case u.permReq <- permRequest{prompt: prompt, preview: preview}:
		select {
		case <-ctx.Done():
			return permission.DecisionDeny, ctx.Err()
		case decision := <-u.permResp:
			return decision, nil
		}
	}
}

func (u *UI) WriteStatus(phase, message string) {
	select {
	case u.statusChan <- statusMsg{phase: phase, message: message}:
	default:
		// drop if full
	}
}

func (u *UI) WriteMessage(role, content string) {
	select {
	case u.messageChan <- transcriptMsg{role: role, content: content}:
	default:
		// drop if full
	}
}

func (u *UI) WriteModelList(models []string) {
	select {
	case u.modelListChan <- models:
	default:
	}
}

func (u *UI) SetModel(model string) {
	select {
	case u.metaChan <- metaMsg{model: &model}:
	default:
	}
}

func (u *UI) SetMode(mode string) {
	select {
	case u.metaChan <- metaMsg{mode: &mode}:
	default:
	}
}

func (u *UI) SetTokens(total int) {
	select {
	case u.metaChan <- metaMsg{tokens: &total}:
	default:
	}
}

func (u *UI) Commands() <-chan UICommand {
	return u.commandChan
}

func (u *UI) Ready() <-chan struct{} {
	return u.readyChan
}
