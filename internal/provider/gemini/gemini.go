// Package gemini implements the provider interface on Google's Gemini
// API via the official genai SDK.
package gemini

import (
	"context"
	"sync"

	"google.golang.org/genai"

	"github.com/Cyclone1070/termcoder/internal/provider"
)

// GeminiProvider implements provider.Provider for Google Gemini.
type GeminiProvider struct {
	client Client

	mu        sync.RWMutex
	modelName string
}

func New(client Client, modelName string) *GeminiProvider {
	return &GeminiProvider{client: client, modelName: modelName}
}

// NewFromAPIKey builds a provider backed by the real SDK client.
func NewFromAPIKey(ctx context.Context, apiKey, modelName string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, mapGeminiError(err)
	}
	return New(NewRealClient(client), modelName), nil
}

func (p *GeminiProvider) Generate(ctx context.Context, system string, history []provider.Message, tools []provider.ToolDefinition) (*provider.Message, provider.Usage, error) {
	p.mu.RLock()
	model := p.modelName
	p.mu.RUnlock()

	config := &genai.GenerateContentConfig{
		SafetySettings: defaultSafetySettings(),
	}
	if system != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{genai.NewPartFromText(system)},
		}
	}
	if len(tools) > 0 {
		config.Tools = toGeminiTools(tools)
	}

	resp, err := p.client.GenerateContent(ctx, model, toGeminiContents(history), config)
	if err != nil {
		return nil, provider.Usage{}, mapGeminiError(err)
	}
	return fromGeminiResponse(resp)
}

func (p *GeminiProvider) SetModel(model string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.modelName = model
	return nil
}

func (p *GeminiProvider) GetModel() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.modelName
}

func (p *GeminiProvider) ListModels(ctx context.Context) ([]provider.ModelInfo, error) {
	models, err := p.client.ListModels(ctx)
	if err != nil {
		return nil, mapGeminiError(err)
	}
	return models, nil
}
