package views

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Cyclone1070/termcoder/internal/ui/models"
	"github.com/Cyclone1070/termcoder/internal/ui/services"
)

// RenderRoot renders the complete UI layout.
func RenderRoot(s models.State, renderer services.MarkdownRenderer) string {
	if s.ShowModelList {
		return overlay(s, RenderModelPopup(s))
	}
	if s.PendingPermission != nil {
		return overlay(s, RenderPermissionPopup(s))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		RenderChat(s, renderer),
		RenderInput(s),
		RenderStatus(s),
	)
}

func overlay(s models.State, popup string) string {
	return lipgloss.Place(
		s.Width,
		s.Height,
		lipgloss.Center,
		lipgloss.Center,
		popup,
		lipgloss.WithWhitespaceChars(""),
		lipgloss.WithWhitespaceForeground(lipgloss.Color("0")),
	)
}
