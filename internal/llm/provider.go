// Package llm isolates the summarizer from any concrete model backend.
package llm

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
)

// Client is the minimal interface needed to call a chat model. It mirrors
// the CreateChatCompletion method so that any OpenAI-compatible backend can
// be adapted, and so tests can substitute a fake.
type Client interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIProvider adapts *openai.Client to the Client interface.
type OpenAIProvider struct {
	Inner *openai.Client
}

func (p *OpenAIProvider) CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return p.Inner.CreateChatCompletion(ctx, request)
}

// New builds a provider for the given API key and optional base URL. An
// empty base URL targets the default OpenAI endpoint.
func New(apiKey, baseURL string) *OpenAIProvider {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIProvider{Inner: openai.NewClientWithConfig(cfg)}
}
