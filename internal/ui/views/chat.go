package views

import (
	"strings"

	"github.com/Cyclone1070/termcoder/internal/ui/models"
	"github.com/Cyclone1070/termcoder/internal/ui/services"
)

// RenderChat renders the message history.
func RenderChat(s models.State, renderer services.MarkdownRenderer) string {
	if len(s.Messages) == 0 {
		return SystemMessageStyle.Render("No messages yet. Type a message to start, or /help for commands.")
	}
	return s.Viewport.View()
}

// FormatChatContent formats the transcript for the viewport.
func FormatChatContent(messages []models.Message, renderer services.MarkdownRenderer) string {
	var lines []string
	for _, msg := range messages {
		switch msg.Role {
		case "user":
			lines = append(lines, UserMessageStyle.Render("You: "+msg.Content))
		case "tool":
			lines = append(lines, ToolMessageStyle.Render("  ⚒ "+msg.Content))
		case "system":
			lines = append(lines, SystemMessageStyle.Render(msg.Content))
		default:
			lines = append(lines, AssistantMessageStyle.Render(services.RenderMarkdown(msg.Content, renderer)))
		}
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
