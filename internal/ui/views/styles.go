package views

import "github.com/charmbracelet/lipgloss"

var (
	ColorPrimary = lipgloss.Color("62")
	ColorWarn    = lipgloss.Color("208")
	ColorDanger  = lipgloss.Color("196")
	ColorOK      = lipgloss.Color("78")
	ColorDim     = lipgloss.Color("241")

	UserMessageStyle = lipgloss.NewStyle().
				Foreground(ColorPrimary).
				Bold(true)

	AssistantMessageStyle = lipgloss.NewStyle()

	ToolMessageStyle = lipgloss.NewStyle().
				Foreground(ColorDim)

	SystemMessageStyle = lipgloss.NewStyle().
				Foreground(ColorDim).
				Italic(true)

	InputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 1)

	StatusDefaultStyle   = lipgloss.NewStyle().Foreground(ColorDim)
	StatusThinkingStyle  = lipgloss.NewStyle().Foreground(ColorPrimary)
	StatusExecutingStyle = lipgloss.NewStyle().Foreground(ColorWarn)
	StatusDoneStyle      = lipgloss.NewStyle().Foreground(ColorOK)
	StatusErrorStyle     = lipgloss.NewStyle().Foreground(ColorDanger)

	PermissionBoxStyle = lipgloss.NewStyle().
				Border(lipgloss.DoubleBorder()).
				BorderForeground(ColorWarn).
				Padding(1, 2)

	// ModeStyles colors the mode indicator: the riskier the mode, the
	// louder the color.
	ModeStyles = map[string]lipgloss.Style{
		"default":      lipgloss.NewStyle().Foreground(ColorDim),
		"accept-edits": lipgloss.NewStyle().Foreground(ColorWarn),
		"yolo":         lipgloss.NewStyle().Foreground(ColorDanger).Bold(true),
	}
)
