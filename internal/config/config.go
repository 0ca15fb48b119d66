package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// ChunkingConfig controls the word-window chunker. Overlap is a pointer
// because zero is a valid setting and must survive loading; nil means the
// option was absent and the default applies.
type ChunkingConfig struct {
	Size    int  `yaml:"size"`
	Overlap *int `yaml:"overlap"`
}

// RetrievalConfig controls nearest-neighbor search.
type RetrievalConfig struct {
	TopK int `yaml:"top_k"`
}

// EmbeddingConfig selects the embedding backend.
type EmbeddingConfig struct {
	Provider  string `yaml:"provider"` // "ollama" or "openai"
	BaseURL   string `yaml:"base_url"`
	Model     string `yaml:"model"`
	APIKeyEnv string `yaml:"api_key_env"`
}

// GenerationConfig holds the parameters passed to both generation backends.
// Temperature is a pointer because zero means greedy decoding, not unset.
type GenerationConfig struct {
	MaxNewTokens int      `yaml:"max_new_tokens"`
	Temperature  *float64 `yaml:"temperature"`
	TopP         float64  `yaml:"top_p"`
}

// PrimaryConfig is the watsonx-style primary backend; without the API key
// in the environment the backend is unavailable, which is not an error.
type PrimaryConfig struct {
	APIKeyEnv string `yaml:"api_key_env"`
	BaseURL   string `yaml:"base_url"`
	Model     string `yaml:"model"`
}

// SecondaryConfig is the optional HugChat-style fallback backend.
type SecondaryConfig struct {
	Enabled  bool   `yaml:"enabled"`
	TokenEnv string `yaml:"token_env"`
	Model    string `yaml:"model"`
}

// TranslationConfig gates query translation before retrieval.
type TranslationConfig struct {
	Enabled        bool   `yaml:"enabled"`
	Model          string `yaml:"model"`
	TargetLanguage string `yaml:"target_language"`
}

// SummaryConfig configures per-document summarization.
type SummaryConfig struct {
	Model     string `yaml:"model"`
	MinLength int    `yaml:"min_length"`
	MaxLength int    `yaml:"max_length"`
}

// OCRConfig controls the optical-recognition fallback during extraction.
type OCRConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Language string `yaml:"language"`
}

type Config struct {
	Chunking    ChunkingConfig    `yaml:"chunking"`
	Retrieval   RetrievalConfig   `yaml:"retrieval"`
	Embedding   EmbeddingConfig   `yaml:"embedding"`
	Generation  GenerationConfig  `yaml:"generation"`
	Primary     PrimaryConfig     `yaml:"primary"`
	Secondary   SecondaryConfig   `yaml:"secondary"`
	Translation TranslationConfig `yaml:"translation"`
	Summary     SummaryConfig     `yaml:"summary"`
	OCR         OCRConfig         `yaml:"ocr"`
}

// Load reads the config from path. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := &Config{}
			applyDefaults(cfg)
			return cfg, nil
		}
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Chunking.Size == 0 {
		cfg.Chunking.Size = 200
	}
	if cfg.Chunking.Overlap == nil {
		overlap := 50
		cfg.Chunking.Overlap = &overlap
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 5
	}
	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = "ollama"
	}
	if cfg.Embedding.BaseURL == "" {
		cfg.Embedding.BaseURL = "http://localhost:11434"
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = "nomic-embed-text"
	}
	if cfg.Embedding.APIKeyEnv == "" {
		cfg.Embedding.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.Generation.MaxNewTokens == 0 {
		cfg.Generation.MaxNewTokens = 512
	}
	if cfg.Generation.Temperature == nil {
		temperature := 0.7
		cfg.Generation.Temperature = &temperature
	}
	if cfg.Generation.TopP == 0 {
		cfg.Generation.TopP = 0.9
	}
	if cfg.Primary.APIKeyEnv == "" {
		cfg.Primary.APIKeyEnv = "WATSONX_API_KEY"
	}
	if cfg.Primary.BaseURL == "" {
		cfg.Primary.BaseURL = "https://us-south.ml.cloud.ibm.com/v1"
	}
	if cfg.Primary.Model == "" {
		cfg.Primary.Model = "ibm/granite-13b-chat"
	}
	if cfg.Secondary.TokenEnv == "" {
		cfg.Secondary.TokenEnv = "HF_API_KEY"
	}
	if cfg.Secondary.Model == "" {
		cfg.Secondary.Model = "HuggingFaceH4/zephyr-7b-beta"
	}
	if cfg.Translation.Model == "" {
		cfg.Translation.Model = "Helsinki-NLP/opus-mt-mul-en"
	}
	if cfg.Translation.TargetLanguage == "" {
		cfg.Translation.TargetLanguage = "en"
	}
	if cfg.Summary.Model == "" {
		cfg.Summary.Model = "facebook/bart-large-cnn"
	}
	if cfg.Summary.MinLength == 0 {
		cfg.Summary.MinLength = 30
	}
	if cfg.Summary.MaxLength == 0 {
		cfg.Summary.MaxLength = 150
	}
	if cfg.OCR.Language == "" {
		cfg.OCR.Language = "eng"
	}
}
