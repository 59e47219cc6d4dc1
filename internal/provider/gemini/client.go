package gemini

import (
	"context"
	"strings"

	"google.golang.org/genai"

	"github.com/Cyclone1070/termcoder/internal/provider"
)

// Client defines the slice of the Gemini SDK this package uses. The
// indirection keeps conversion and error mapping testable without
// network access.
type Client interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	ListModels(ctx context.Context) ([]provider.ModelInfo, error)
}

// RealClient wraps the official SDK client to satisfy Client.
type RealClient struct {
	client *genai.Client
}

func NewRealClient(client *genai.Client) *RealClient {
	return &RealClient{client: client}
}

func (c *RealClient) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return c.client.Models.GenerateContent(ctx, model, contents, config)
}

// ListModels returns the text-generation gemini models, filtering out
// embedding, image, audio and live variants.
func (c *RealClient) ListModels(ctx context.Context) ([]provider.ModelInfo, error) {
	var models []provider.ModelInfo
	for model, err := range c.client.Models.All(ctx) {
		if err != nil {
			return nil, err
		}
		if !strings.HasPrefix(model.Name, "models/gemini-") {
			continue
		}
		if strings.Contains(model.Name, "embedding") ||
			strings.Contains(model.Name, "image") ||
			strings.Contains(model.Name, "audio") ||
			strings.Contains(model.Name, "live") {
			continue
		}
		models = append(models, provider.ModelInfo{
			Name:             strings.TrimPrefix(model.Name, "models/"),
			InputTokenLimit:  int(model.InputTokenLimit),
			OutputTokenLimit: int(model.OutputTokenLimit),
		})
	}
	return models, nil
}
