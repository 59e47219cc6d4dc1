package web

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Cyclone1070/termcoder/internal/config"
	"github.com/Cyclone1070/termcoder/internal/tool"
)

// WebSearchRequest is the input for web_search.
type WebSearchRequest struct {
	Query      string `mapstructure:"query" json:"query"`
	MaxResults int    `mapstructure:"max_results" json:"max_results"`
}

func (r *WebSearchRequest) Validate() error {
	if r.Query == "" {
		return fmt.Errorf("query is required")
	}
	if r.MaxResults < 0 {
		return fmt.Errorf("max_results must not be negative")
	}
	return nil
}

func (r *WebSearchRequest) String() string {
	return fmt.Sprintf("Search the web for %q", r.Query)
}

// SearchResult is one hit returned by the search API.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

// WebSearchResponse is the output of web_search.
type WebSearchResponse struct {
	Query   string         `json:"query"`
	Results []SearchResult `json:"results"`
}

// SearchTool queries the hosted web search API.
type SearchTool struct {
	client *Client
	cfg    config.ToolsConfig
}

func NewSearchTool(client *Client, cfg config.ToolsConfig) *SearchTool {
	return &SearchTool{client: client, cfg: cfg}
}

func (t *SearchTool) Name() string { return "web_search" }

func (t *SearchTool) Category() tool.Category { return tool.CategoryReadOnly }

func (t *SearchTool) Input() any { return &WebSearchRequest{} }

func (t *SearchTool) Declaration() tool.Declaration {
	return tool.Declaration{
		Name:        t.Name(),
		Description: "Search the web and return titles, URLs and snippets for the top results.",
		Parameters: &tool.Schema{
			Type: tool.TypeObject,
			Properties: map[string]*tool.Schema{
				"query": {
					Type:        tool.TypeString,
					Description: "Search query.",
				},
				"max_results": {
					Type:        tool.TypeInteger,
					Description: "Number of results to return, between 1 and 10. Optional.",
				},
			},
			Required: []string{"query"},
		},
	}
}

func (t *SearchTool) Execute(ctx context.Context, input any) (string, error) {
	req, ok := input.(*WebSearchRequest)
	if !ok {
		return "", tool.NewError(tool.KindInvalidArguments, "unexpected input type %T", input)
	}

	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = t.cfg.WebSearchMaxResults
	}
	if maxResults > 10 {
		maxResults = 10
	}

	var apiResp struct {
		Results []SearchResult `json:"results"`
	}
	payload := map[string]any{"query": req.Query, "max_results": maxResults}
	if err := t.client.post(ctx, "/api/web_search", payload, &apiResp); err != nil {
		return "", err
	}

	out, err := json.Marshal(WebSearchResponse{Query: req.Query, Results: apiResp.Results})
	if err != nil {
		return "", fmt.Errorf("marshal response: %w", err)
	}
	return string(out), nil
}
