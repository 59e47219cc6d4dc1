// Package services provides rendering helpers for the terminal UI.
package services

import "github.com/charmbracelet/glamour"

// MarkdownRenderer renders markdown to styled terminal output.
type MarkdownRenderer interface {
	Render(content string) (string, error)
}

// GlamourRenderer implements MarkdownRenderer with glamour.
type GlamourRenderer struct {
	renderer *glamour.TermRenderer
}

func NewGlamourRenderer(width int) (*GlamourRenderer, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	return &GlamourRenderer{renderer: r}, nil
}

func (g *GlamourRenderer) Render(content string) (string, error) {
	return g.renderer.Render(content)
}

// RenderMarkdown renders content through the given renderer, falling
// back to the raw text when rendering fails or no renderer is set.
func RenderMarkdown(content string, renderer MarkdownRenderer) string {
	if renderer == nil {
		return content
	}
	out, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return out
}
