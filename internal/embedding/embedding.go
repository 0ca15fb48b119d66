package embedding

import (
	"context"
	"strings"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// Encoder is the embedding backend contract: a batch of texts in, one
// fixed-dimension vector per text out. The dimension is stable across calls
// within a session.
type Encoder interface {
	Encode(ctx context.Context, texts []string) ([][]float32, error)
}

// LangChainEncoder adapts a langchaingo embedder to the Encoder contract.
type LangChainEncoder struct {
	embedder *embeddings.EmbedderImpl
}

func (e *LangChainEncoder) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	return e.embedder.EmbedDocuments(ctx, texts)
}

// NewOllamaEncoder builds an encoder backed by an Ollama embedding model.
func NewOllamaEncoder(serverURL, model string) (*LangChainEncoder, error) {
	llm, err := ollama.New(
		ollama.WithServerURL(serverURL),
		ollama.WithModel(model),
	)
	if err != nil {
		return nil, err
	}
	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, err
	}
	return &LangChainEncoder{embedder: embedder}, nil
}

// NewOpenAIEncoder builds an encoder backed by an OpenAI-compatible
// embeddings endpoint.
func NewOpenAIEncoder(apiKey, baseURL, model string) (*LangChainEncoder, error) {
	llm, err := openai.New(
		openai.WithBaseURL(baseURL),
		openai.WithToken(strings.TrimPrefix(apiKey, "Bearer ")),
		openai.WithModel(model),
		openai.WithEmbeddingModel(model),
	)
	if err != nil {
		return nil, err
	}
	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, err
	}
	return &LangChainEncoder{embedder: embedder}, nil
}
