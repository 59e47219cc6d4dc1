package file

import (
	"fmt"
	"strings"
)

// previewMaxLines caps how many lines of a pending change the approval
// popup shows.
const previewMaxLines = 20

// Preview renders the pending edit as a line diff: the text to be
// removed prefixed "- ", its replacement prefixed "+ ".
func (r *EditFileRequest) Preview() string {
	var sb strings.Builder
	sb.WriteString(r.Path)
	sb.WriteString("\n")
	remaining := appendPrefixed(&sb, "- ", r.OldText, previewMaxLines)
	appendPrefixed(&sb, "+ ", r.NewText, remaining)
	return strings.TrimRight(sb.String(), "\n")
}

// Preview shows the content that would be written.
func (r *WriteFileRequest) Preview() string {
	var sb strings.Builder
	sb.WriteString(r.Path)
	sb.WriteString("\n")
	appendPrefixed(&sb, "+ ", r.Content, previewMaxLines)
	return strings.TrimRight(sb.String(), "\n")
}

// appendPrefixed writes each line of text prefixed, up to remaining
// lines, and returns the line budget left. Text past the budget is
// summarised as an omission count.
func appendPrefixed(sb *strings.Builder, prefix, text string, remaining int) int {
	if text == "" {
		return remaining
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if remaining <= 0 {
			fmt.Fprintf(sb, "%s... (%d more lines)\n", prefix, len(lines)-i)
			return 0
		}
		sb.WriteString(prefix)
		sb.WriteString(line)
		sb.WriteString("\n")
		remaining--
	}
	return remaining
}
