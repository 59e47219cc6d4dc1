package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/Cyclone1070/termcoder/internal/config"
	"github.com/Cyclone1070/termcoder/internal/tool"
)

// WebFetchRequest is the input for web_fetch.
type WebFetchRequest struct {
	URL string `mapstructure:"url" json:"url"`
}

func (r *WebFetchRequest) Validate() error {
	if r.URL == "" {
		return fmt.Errorf("url is required")
	}
	u, err := url.Parse(r.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("url must be an absolute http or https URL")
	}
	return nil
}

func (r *WebFetchRequest) String() string {
	return fmt.Sprintf("Fetch %s", r.URL)
}

// WebFetchResponse is the output of web_fetch. Content is the page
// rendered to text by the API, capped to the configured maximum.
type WebFetchResponse struct {
	URL     string   `json:"url"`
	Title   string   `json:"title,omitempty"`
	Content string   `json:"content"`
	Links   []string `json:"links,omitempty"`
}

// FetchTool retrieves one page as text through the hosted web API.
type FetchTool struct {
	client *Client
	cfg    config.ToolsConfig
}

func NewFetchTool(client *Client, cfg config.ToolsConfig) *FetchTool {
	return &FetchTool{client: client, cfg: cfg}
}

func (t *FetchTool) Name() string { return "web_fetch" }

func (t *FetchTool) Category() tool.Category { return tool.CategoryReadOnly }

func (t *FetchTool) Input() any { return &WebFetchRequest{} }

func (t *FetchTool) Declaration() tool.Declaration {
	return tool.Declaration{
		Name:        t.Name(),
		Description: "Fetch a web page and return its text content. Long pages are truncated.",
		Parameters: &tool.Schema{
			Type: tool.TypeObject,
			Properties: map[string]*tool.Schema{
				"url": {
					Type:        tool.TypeString,
					Description: "Absolute http or https URL to fetch.",
				},
			},
			Required: []string{"url"},
		},
	}
}

func (t *FetchTool) Execute(ctx context.Context, input any) (string, error) {
	req, ok := input.(*WebFetchRequest)
	if !ok {
		return "", tool.NewError(tool.KindInvalidArguments, "unexpected input type %T", input)
	}

	var apiResp struct {
		Title   string   `json:"title"`
		Content string   `json:"content"`
		Links   []string `json:"links"`
	}
	if err := t.client.post(ctx, "/api/web_fetch", map[string]any{"url": req.URL}, &apiResp); err != nil {
		return "", err
	}

	content := apiResp.Content
	if len(content) > t.cfg.WebFetchMaxContent {
		content = content[:t.cfg.WebFetchMaxContent] + "\n... [content truncated]"
	}

	out, err := json.Marshal(WebFetchResponse{
		URL:     req.URL,
		Title:   apiResp.Title,
		Content: content,
		Links:   apiResp.Links,
	})
	if err != nil {
		return "", fmt.Errorf("marshal response: %w", err)
	}
	return string(out), nil
}
