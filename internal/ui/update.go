package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Cyclone1070/termcoder/internal/permission"
	"github.com/Cyclone1070/termcoder/internal/ui/models"
	"github.com/Cyclone1070/termcoder/internal/ui/services"
	"github.com/Cyclone1070/termcoder/internal/ui/views"
)

const helpText = `Available commands:
- /help     Show this help
- /mode     Cycle permission mode (default → accept-edits → yolo)
- /model    List and switch models
- /clear    Clear conversation history
- /tokens   Show session token usage
- /quit     Exit

Keys: Esc cancels a running turn, Ctrl+C quits.`

// BubbleTeaModel implements tea.Model.
type BubbleTeaModel struct {
	state    models.State
	renderer services.MarkdownRenderer

	inputReq      <-chan struct{}
	inputResp     chan<- string
	permReq       <-chan permRequest
	permResp      chan<- permission.Decision
	statusChan    <-chan statusMsg
	messageChan   <-chan transcriptMsg
	metaChan      <-chan metaMsg
	modelListChan <-chan []string
	commandChan   chan<- UICommand
	readyChan     chan<- struct{}
}

func newBubbleTeaModel(u *UI, renderer services.MarkdownRenderer) BubbleTeaModel {
	ti := textinput.New()
	ti.Placeholder = "Type a message..."
	ti.Focus()

	vp := viewport.New(80, 20)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return BubbleTeaModel{
		state: models.State{
			Input:    ti,
			Viewport: vp,
			Spinner:  sp,
			Messages: []models.Message{},
		},
		renderer:      renderer,
		inputReq:      u.inputReq,
		inputResp:     u.inputResp,
		permReq:       u.permReq,
		permResp:      u.permResp,
		statusChan:    u.statusChan,
		messageChan:   u.messageChan,
		metaChan:      u.metaChan,
		modelListChan: u.modelListChan,
		commandChan:   u.commandChan,
		readyChan:     u.readyChan,
	}
}

// Internal messages
type tickMsg time.Time
type inputRequestMsg struct{}
type permRequestMsg permRequest
type statusUpdateMsg statusMsg
type messageReceivedMsg transcriptMsg
type metaReceivedMsg metaMsg
type modelListReceivedMsg []string

func (m BubbleTeaModel) Init() tea.Cmd {
	if m.readyChan != nil {
		close(m.readyChan)
	}
	return tea.Batch(
		textinput.Blink,
		m.state.Spinner.Tick,
		tick(),
		listenForInputRequests(m.inputReq),
		listenForPermRequests(m.permReq),
		listenForStatus(m.statusChan),
		listenForMessages(m.messageChan),
		listenForMeta(m.metaChan),
		listenForModelList(m.modelListChan),
	)
}

func (m BubbleTeaModel) View() string {
	return views.RenderRoot(m.state, m.renderer)
}

func (m BubbleTeaModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.state.Width = msg.Width
		m.state.Height = msg.Height
		m.state.Viewport.Width = msg.Width
		m.state.Viewport.Height = msg.Height - 6 // input and status rows

	case tickMsg:
		m.state.DotCount = (m.state.DotCount + 1) % 4
		var cmd tea.Cmd
		m.state.Spinner, cmd = m.state.Spinner.Update(msg)
		return m, tea.Batch(cmd, tick())

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.state.Spinner, cmd = m.state.Spinner.Update(msg)
		return m, cmd

	case inputRequestMsg:
		m.state.CanSubmit = true
		return m, listenForInputRequests(m.inputReq)

	case permRequestMsg:
		m.state.PendingPermission = &models.PermissionRequest{
			Prompt:  msg.prompt,
			Preview: msg.preview,
		}
		return m, listenForPermRequests(m.permReq)

	case statusUpdateMsg:
		m.state.StatusPhase = msg.phase
		m.state.StatusMessage = msg.message
		return m, listenForStatus(m.statusChan)

	case messageReceivedMsg:
		m.state.Messages = append(m.state.Messages, models.Message{
			Role:    msg.role,
			Content: msg.content,
		})
		m.updateViewport()
		return m, listenForMessages(m.messageChan)

	case metaReceivedMsg:
		if msg.model != nil {
			m.state.CurrentModel = *msg.model
		}
		if msg.mode != nil {
			m.state.Mode = *msg.mode
		}
		if msg.tokens != nil {
			m.state.TotalTokens = *msg.tokens
		}
		return m, listenForMeta(m.metaChan)

	case modelListReceivedMsg:
		m.state.ModelList = []string(msg)
		m.state.ShowModelList = true
		m.state.ModelListIndex = 0
		return m, listenForModelList(m.modelListChan)
	}

	var cmd tea.Cmd
	m.state.Input, cmd = m.state.Input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m BubbleTeaModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.state.ShowModelList {
		switch msg.String() {
		case "up", "k":
			if m.state.ModelListIndex > 0 {
				m.state.ModelListIndex--
			}
		case "down", "j":
			if m.state.ModelListIndex < len(m.state.ModelList)-1 {
				m.state.ModelListIndex++
			}
		case "enter":
			if m.state.ModelListIndex < len(m.state.ModelList) {
				m.commandChan <- UICommand{
					Type: "switch_model",
					Args: map[string]string{
						"model": m.state.ModelList[m.state.ModelListIndex],
					},
				}
			}
			m.state.ShowModelList = false
		case "esc":
			m.state.ShowModelList = false
		}
		return m, nil
	}

	if m.state.PendingPermission != nil {
		switch msg.String() {
		case "y":
			m.permResp <- permission.DecisionAllow
			m.state.PendingPermission = nil
		case "n":
			m.permResp <- permission.DecisionDeny
			m.state.PendingPermission = nil
		case "a":
			m.permResp <- permission.DecisionAllowAlways
			m.state.PendingPermission = nil
		case "esc":
			// Cancel the whole turn; the blocked permission read
			// unblocks via its context.
			m.state.PendingPermission = nil
			m.sendCommand(UICommand{Type: "cancel"})
		case "ctrl+c":
			m.sendCommand(UICommand{Type: "quit"})
			return m, tea.Quit
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c":
		m.sendCommand(UICommand{Type: "quit"})
		return m, tea.Quit

	case "esc":
		// Cancel the running turn, if any.
		m.sendCommand(UICommand{Type: "cancel"})
		return m, nil

	case "enter":
		input := m.state.Input.Value()
		if input == "" {
			return m, nil
		}
		if strings.HasPrefix(input, "/") {
			return m.handleCommand(input)
		}
		if m.state.CanSubmit {
			m.state.Messages = append(m.state.Messages, models.Message{
				Role:    "user",
				Content: input,
			})
			m.updateViewport()
			m.inputResp <- input
			m.state.Input.SetValue("")
			m.state.CanSubmit = false
		}
	}

	return m, nil
}

// handleCommand handles slash commands. /help is answered locally; the
// rest are forwarded to the runtime.
func (m BubbleTeaModel) handleCommand(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}
	m.state.Input.SetValue("")

	switch parts[0] {
	case "/help":
		m.state.Messages = append(m.state.Messages, models.Message{
			Role:    "system",
			Content: helpText,
		})
		m.updateViewport()
	case "/mode":
		m.sendCommand(UICommand{Type: "cycle_mode"})
	case "/model", "/models":
		m.sendCommand(UICommand{Type: "list_models"})
	case "/clear":
		m.state.Messages = nil
		m.updateViewport()
		m.sendCommand(UICommand{Type: "clear"})
	case "/tokens":
		m.sendCommand(UICommand{Type: "show_tokens"})
	case "/quit", "/exit":
		m.sendCommand(UICommand{Type: "quit"})
		return m, tea.Quit
	default:
		m.state.Messages = append(m.state.Messages, models.Message{
			Role:    "system",
			Content: "Unknown command " + parts[0] + ". Try /help.",
		})
		m.updateViewport()
	}
	return m, nil
}

func (m BubbleTeaModel) sendCommand(cmd UICommand) {
	select {
	case m.commandChan <- cmd:
	default:
	}
}

func (m *BubbleTeaModel) updateViewport() {
	content := views.FormatChatContent(m.state.Messages, m.renderer)
	m.state.Viewport.SetContent(content)
	m.state.Viewport.GotoBottom()
}

func listenForInputRequests(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return inputRequestMsg{}
	}
}

func listenForPermRequests(ch <-chan permRequest) tea.Cmd {
	return func() tea.Msg {
		return permRequestMsg(<-ch)
	}
}

func listenForStatus(ch <-chan statusMsg) tea.Cmd {
	return func() tea.Msg {
		return statusUpdateMsg(<-ch)
	}
}

func listenForMessages(ch <-chan transcriptMsg) tea.Cmd {
	return func() tea.Msg {
		return messageReceivedMsg(<-ch)
	}
}

func listenForMeta(ch <-chan metaMsg) tea.Cmd {
	return func() tea.Msg {
		return metaReceivedMsg(<-ch)
	}
}

func listenForModelList(ch <-chan []string) tea.Cmd {
	return func() tea.Msg {
		return modelListReceivedMsg(<-ch)
	}
}

func tick() tea.Cmd {
	return tea.Tick(300*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
