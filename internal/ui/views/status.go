package views

import (
	"fmt"
	"strings"

	"github.com/Cyclone1070/termcoder/internal/ui/models"
)

// RenderStatus renders the status bar: activity on the left, mode,
// model and token count on the right.
func RenderStatus(s models.State) string {
	var left string
	switch s.StatusPhase {
	case "thinking":
		dots := strings.Repeat(".", s.DotCount)
		left = StatusThinkingStyle.Render(fmt.Sprintf("%s Thinking%s", s.Spinner.View(), dots))
	case "executing":
		left = StatusExecutingStyle.Render(fmt.Sprintf("%s %s", s.Spinner.View(), s.StatusMessage))
	case "done":
		left = StatusDoneStyle.Render("✔ " + s.StatusMessage)
	case "error":
		left = StatusErrorStyle.Render("✗ " + s.StatusMessage)
	default:
		left = StatusDefaultStyle.Render("Ready")
	}

	var right []string
	if s.Mode != "" {
		style, ok := ModeStyles[s.Mode]
		if !ok {
			style = StatusDefaultStyle
		}
		right = append(right, style.Render("["+s.Mode+"]"))
	}
	if s.CurrentModel != "" {
		right = append(right, StatusDefaultStyle.Render(s.CurrentModel))
	}
	if s.TotalTokens > 0 {
		right = append(right, StatusDefaultStyle.Render(fmt.Sprintf("%d tok", s.TotalTokens)))
	}

	if len(right) == 0 {
		return left
	}
	return left + "  " + strings.Join(right, " ")
}
