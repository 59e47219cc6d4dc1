package ui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/Cyclone1070/termcoder/internal/permission"
	"github.com/Cyclone1070/termcoder/internal/ui/models"
)

// MockMarkdownRenderer passes content through unchanged.
type MockMarkdownRenderer struct{}

func (m *MockMarkdownRenderer) Render(content string) (string, error) {
	return content, nil
}

func createTestModel() BubbleTeaModel {
	u := New(&MockMarkdownRenderer{})
	model := newBubbleTeaModel(u, &MockMarkdownRenderer{})
	return model
}

func TestInit_ReturnsCommands(t *testing.T) {
	model := createTestModel()
	cmd := model.Init()
	assert.NotNil(t, cmd)
}

func TestUpdate_KeyEnter_SubmitsInput(t *testing.T) {
	model := createTestModel()
	model.state.Input.SetValue("hello")
	model.state.CanSubmit = true

	respChan := make(chan string, 1)
	model.inputResp = respChan

	newModel, _ := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m := newModel.(BubbleTeaModel)

	assert.Equal(t, "", m.state.Input.Value())
	assert.False(t, m.state.CanSubmit)
	assert.Len(t, m.state.Messages, 1)
	assert.Equal(t, "user", m.state.Messages[0].Role)

	select {
	case resp := <-respChan:
		assert.Equal(t, "hello", resp)
	case <-time.After(100 * time.Millisecond):
		t.Error("timeout waiting for response")
	}
}

func TestUpdate_EnterWithoutPendingRead_DoesNotSubmit(t *testing.T) {
	model := createTestModel()
	model.state.Input.SetValue("hello")
	model.state.CanSubmit = false

	newModel, _ := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m := newModel.(BubbleTeaModel)

	assert.Len(t, m.state.Messages, 0)
	assert.Equal(t, "hello", m.state.Input.Value())
}

func TestUpdate_PermissionKeys(t *testing.T) {
	cases := []struct {
		key  string
		want permission.Decision
	}{
		{"y", permission.DecisionAllow},
		{"n", permission.DecisionDeny},
		{"a", permission.DecisionAllowAlways},
	}
	for _, c := range cases {
		model := createTestModel()
		model.state.PendingPermission = &models.PermissionRequest{Prompt: "Allow write_file?"}

		respChan := make(chan permission.Decision, 1)
		model.permResp = respChan

		newModel, _ := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(c.key)})
		m := newModel.(BubbleTeaModel)

		assert.Nil(t, m.state.PendingPermission, "popup should close after %q", c.key)
		select {
		case got := <-respChan:
			assert.Equal(t, c.want, got)
		case <-time.After(100 * time.Millisecond):
			t.Errorf("timeout waiting for decision on key %q", c.key)
		}
	}
}

func TestUpdate_PermissionEscCancelsTurn(t *testing.T) {
	model := createTestModel()
	model.state.PendingPermission = &models.PermissionRequest{Prompt: "Allow run_bash?"}

	cmdChan := make(chan UICommand, 1)
	model.commandChan = cmdChan

	newModel, _ := model.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m := newModel.(BubbleTeaModel)

	assert.Nil(t, m.state.PendingPermission, "popup should close on esc")
	select {
	case cmd := <-cmdChan:
		assert.Equal(t, "cancel", cmd.Type)
	case <-time.After(100 * time.Millisecond):
		t.Error("esc during permission prompt should emit a cancel command")
	}
}

func TestUpdate_PermissionCtrlCQuits(t *testing.T) {
	model := createTestModel()
	model.state.PendingPermission = &models.PermissionRequest{Prompt: "Allow run_bash?"}

	cmdChan := make(chan UICommand, 1)
	model.commandChan = cmdChan

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	assert.NotNil(t, cmd, "ctrl+c during permission prompt should quit")
	select {
	case got := <-cmdChan:
		assert.Equal(t, "quit", got.Type)
	case <-time.After(100 * time.Millisecond):
		t.Error("ctrl+c during permission prompt should emit a quit command")
	}
}

func TestUpdate_PermissionIgnoresOtherKeys(t *testing.T) {
	model := createTestModel()
	model.state.PendingPermission = &models.PermissionRequest{Prompt: "Allow?"}

	newModel, _ := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	m := newModel.(BubbleTeaModel)

	assert.NotNil(t, m.state.PendingPermission)
}

func TestUpdate_SlashMode_SendsCycleCommand(t *testing.T) {
	model := createTestModel()
	model.state.Input.SetValue("/mode")

	cmdChan := make(chan UICommand, 1)
	model.commandChan = cmdChan

	model.Update(tea.KeyMsg{Type: tea.KeyEnter})

	select {
	case cmd := <-cmdChan:
		assert.Equal(t, "cycle_mode", cmd.Type)
	case <-time.After(100 * time.Millisecond):
		t.Error("timeout waiting for command")
	}
}

func TestUpdate_SlashModel_SendsListCommand(t *testing.T) {
	model := createTestModel()
	model.state.Input.SetValue("/model")

	cmdChan := make(chan UICommand, 1)
	model.commandChan = cmdChan

	model.Update(tea.KeyMsg{Type: tea.KeyEnter})

	select {
	case cmd := <-cmdChan:
		assert.Equal(t, "list_models", cmd.Type)
	case <-time.After(100 * time.Millisecond):
		t.Error("timeout waiting for command")
	}
}

func TestUpdate_SlashClear_DropsTranscript(t *testing.T) {
	model := createTestModel()
	model.state.Messages = []models.Message{{Role: "user", Content: "old"}}
	model.state.Input.SetValue("/clear")

	cmdChan := make(chan UICommand, 1)
	model.commandChan = cmdChan

	newModel, _ := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m := newModel.(BubbleTeaModel)

	assert.Len(t, m.state.Messages, 0)
	select {
	case cmd := <-cmdChan:
		assert.Equal(t, "clear", cmd.Type)
	case <-time.After(100 * time.Millisecond):
		t.Error("timeout waiting for command")
	}
}

func TestUpdate_SlashHelp_AnsweredLocally(t *testing.T) {
	model := createTestModel()
	model.state.Input.SetValue("/help")

	cmdChan := make(chan UICommand, 1)
	model.commandChan = cmdChan

	newModel, _ := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m := newModel.(BubbleTeaModel)

	assert.Len(t, m.state.Messages, 1)
	assert.Equal(t, "system", m.state.Messages[0].Role)
	assert.Len(t, cmdChan, 0, "/help should not reach the runtime")
}

func TestUpdate_UnknownSlashCommand(t *testing.T) {
	model := createTestModel()
	model.state.Input.SetValue("/frobnicate")

	newModel, _ := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m := newModel.(BubbleTeaModel)

	assert.Len(t, m.state.Messages, 1)
	assert.Contains(t, m.state.Messages[0].Content, "Unknown command")
}

func TestUpdate_Esc_SendsCancel(t *testing.T) {
	model := createTestModel()

	cmdChan := make(chan UICommand, 1)
	model.commandChan = cmdChan

	model.Update(tea.KeyMsg{Type: tea.KeyEsc})

	select {
	case cmd := <-cmdChan:
		assert.Equal(t, "cancel", cmd.Type)
	case <-time.After(100 * time.Millisecond):
		t.Error("timeout waiting for cancel")
	}
}

func TestUpdate_ModelPopupNavigationAndSelect(t *testing.T) {
	model := createTestModel()
	model.state.ShowModelList = true
	model.state.ModelList = []string{"a", "b", "c"}
	model.state.ModelListIndex = 0

	cmdChan := make(chan UICommand, 1)
	model.commandChan = cmdChan

	newModel, _ := model.Update(tea.KeyMsg{Type: tea.KeyDown})
	m := newModel.(BubbleTeaModel)
	assert.Equal(t, 1, m.state.ModelListIndex)

	newModel, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = newModel.(BubbleTeaModel)
	assert.False(t, m.state.ShowModelList)

	select {
	case cmd := <-cmdChan:
		assert.Equal(t, "switch_model", cmd.Type)
		assert.Equal(t, "b", cmd.Args["model"])
	case <-time.After(100 * time.Millisecond):
		t.Error("timeout waiting for switch command")
	}
}

func TestUpdate_StatusAndMeta(t *testing.T) {
	model := createTestModel()

	newModel, _ := model.Update(statusUpdateMsg{phase: "thinking", message: ""})
	m := newModel.(BubbleTeaModel)
	assert.Equal(t, "thinking", m.state.StatusPhase)

	mode := "yolo"
	newModel, _ = m.Update(metaReceivedMsg{mode: &mode})
	m = newModel.(BubbleTeaModel)
	assert.Equal(t, "yolo", m.state.Mode)

	tokens := 1234
	newModel, _ = m.Update(metaReceivedMsg{tokens: &tokens})
	m = newModel.(BubbleTeaModel)
	assert.Equal(t, 1234, m.state.TotalTokens)
}
