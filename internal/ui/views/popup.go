package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Cyclone1070/termcoder/internal/ui/models"
)

// RenderPermissionPopup renders the pending approval box.
func RenderPermissionPopup(s models.State) string {
	if s.PendingPermission == nil {
		return ""
	}

	var lines []string
	lines = append(lines, lipgloss.NewStyle().Bold(true).Render(s.PendingPermission.Prompt))
	if s.PendingPermission.Preview != "" {
		lines = append(lines, "")
		lines = append(lines, renderPreview(s.PendingPermission.Preview))
	}
	lines = append(lines, "")
	lines = append(lines, lipgloss.NewStyle().Faint(true).Render("y: Allow  n: Deny  a: Always allow this tool  esc: Cancel turn"))

	return PermissionBoxStyle.Render(strings.Join(lines, "\n"))
}

// renderPreview colours diff-style preview lines: removed lines red,
// added lines green, everything else untouched.
func renderPreview(preview string) string {
	removed := lipgloss.NewStyle().Foreground(ColorDanger)
	added := lipgloss.NewStyle().Foreground(ColorOK)

	lines := strings.Split(preview, "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "- "):
			lines[i] = removed.Render(line)
		case strings.HasPrefix(line, "+ "):
			lines[i] = added.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}

// RenderModelPopup renders the model selection popup.
func RenderModelPopup(s models.State) string {
	if !s.ShowModelList || len(s.ModelList) == 0 {
		return ""
	}

	var lines []string
	lines = append(lines, lipgloss.NewStyle().Bold(true).Render("Select Model:"))
	lines = append(lines, "")
	for i, model := range s.ModelList {
		if i == s.ModelListIndex {
			lines = append(lines, lipgloss.NewStyle().
				Foreground(ColorPrimary).
				Bold(true).
				Render(fmt.Sprintf("▸ %s", model)))
		} else {
			lines = append(lines, fmt.Sprintf("  %s", model))
		}
	}
	lines = append(lines, "")
	lines = append(lines, lipgloss.NewStyle().Faint(true).Render("↑/↓: Navigate  Enter: Select  Esc: Cancel"))

	return PermissionBoxStyle.Copy().BorderForeground(ColorPrimary).Render(strings.Join(lines, "\n"))
}
