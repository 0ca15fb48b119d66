package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/huggingface"
	"github.com/tmc/langchaingo/llms/openai"
)

// Params are the generation parameters shared by both backends.
type Params struct {
	MaxNewTokens int
	Temperature  float64
	TopP         float64
}

func generate(ctx context.Context, model llms.Model, prompt string, params Params) (string, error) {
	messages := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextContent{Text: prompt}},
		},
	}
	res, err := model.GenerateContent(ctx, messages,
		llms.WithMaxTokens(params.MaxNewTokens),
		llms.WithTemperature(params.Temperature),
		llms.WithTopP(params.TopP),
	)
	if err != nil {
		return "", err
	}
	if len(res.Choices) == 0 {
		return "", fmt.Errorf("llm: empty response")
	}
	return res.Choices[0].Content, nil
}

// Granite is the primary generation backend, reached through an
// OpenAI-compatible endpoint.
type Granite struct {
	llm    *openai.LLM
	params Params
}

// NewGranite constructs the primary backend. A missing API key is not an
// error: the backend is simply unavailable and nil is returned.
func NewGranite(apiKey, baseURL, model string, params Params) (*Granite, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, nil
	}
	llm, err := openai.New(
		openai.WithBaseURL(baseURL),
		openai.WithToken(strings.TrimPrefix(apiKey, "Bearer ")),
		openai.WithModel(model),
	)
	if err != nil {
		return nil, err
	}
	return &Granite{llm: llm, params: params}, nil
}

func (g *Granite) Name() string { return "IBM Granite" }

func (g *Granite) Generate(ctx context.Context, prompt string) (string, error) {
	return generate(ctx, g.llm, prompt, g.params)
}

// HugChat is the secondary generation backend on the Hugging Face
// inference service.
type HugChat struct {
	llm    *huggingface.LLM
	params Params
}

// NewHugChat constructs the secondary backend; nil without a token, same
// optionally-absent contract as NewGranite.
func NewHugChat(token, model string, params Params) (*HugChat, error) {
	if strings.TrimSpace(token) == "" {
		return nil, nil
	}
	llm, err := huggingface.New(
		huggingface.WithToken(token),
		huggingface.WithModel(model),
	)
	if err != nil {
		return nil, err
	}
	return &HugChat{llm: llm, params: params}, nil
}

func (h *HugChat) Name() string { return "HugChat" }

func (h *HugChat) Generate(ctx context.Context, prompt string) (string, error) {
	return generate(ctx, h.llm, prompt, h.params)
}
