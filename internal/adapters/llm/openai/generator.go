// Package openai provides chat-style text generation through any
// OpenAI-compatible endpoint (OpenAI, Groq, a LiteLLM proxy) via
// langchaingo.
package openai

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/blogify/api/internal/core/ports"
)

type Generator struct {
	llm   *openai.LLM
	model string
}

func NewGenerator(baseURL, apiKey, model string) (ports.TextGenerator, error) {
	if apiKey == "" {
		// langchaingo requires a token even for keyless proxies.
		apiKey = "placeholder"
	}

	llm, err := openai.New(
		openai.WithBaseURL(baseURL),
		openai.WithToken(apiKey),
		openai.WithModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("creating OpenAI client: %w", err)
	}

	return &Generator{llm: llm, model: model}, nil
}

func (g *Generator) Generate(ctx context.Context, system, prompt string) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, system),
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}

	resp, err := g.llm.GenerateContent(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("generating content: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("model %s returned no choices", g.model)
	}
	return resp.Choices[0].Content, nil
}
