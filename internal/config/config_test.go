package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("Should fall back to defaults when the file is missing", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		assert.Equal(t, 200, cfg.Chunking.Size)
		require.NotNil(t, cfg.Chunking.Overlap)
		assert.Equal(t, 50, *cfg.Chunking.Overlap)
		assert.Equal(t, 5, cfg.Retrieval.TopK)
		assert.Equal(t, "ollama", cfg.Embedding.Provider)
		require.NotNil(t, cfg.Generation.Temperature)
		assert.InDelta(t, 0.7, *cfg.Generation.Temperature, 1e-9)
		assert.InDelta(t, 0.9, cfg.Generation.TopP, 1e-9)
	})

	t.Run("Should apply defaults for options absent from the file", func(t *testing.T) {
		path := writeConfig(t, "chunking:\n  size: 120\n")
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 120, cfg.Chunking.Size)
		require.NotNil(t, cfg.Chunking.Overlap)
		assert.Equal(t, 50, *cfg.Chunking.Overlap)
		require.NotNil(t, cfg.Generation.Temperature)
		assert.InDelta(t, 0.7, *cfg.Generation.Temperature, 1e-9)
	})

	t.Run("Should keep an explicit zero overlap", func(t *testing.T) {
		path := writeConfig(t, "chunking:\n  size: 120\n  overlap: 0\n")
		cfg, err := Load(path)
		require.NoError(t, err)
		require.NotNil(t, cfg.Chunking.Overlap)
		assert.Equal(t, 0, *cfg.Chunking.Overlap)
	})

	t.Run("Should keep an explicit zero temperature", func(t *testing.T) {
		path := writeConfig(t, "generation:\n  temperature: 0\n")
		cfg, err := Load(path)
		require.NoError(t, err)
		require.NotNil(t, cfg.Generation.Temperature)
		assert.Zero(t, *cfg.Generation.Temperature)
	})

	t.Run("Should read configured values over defaults", func(t *testing.T) {
		path := writeConfig(t, `
chunking:
  size: 100
  overlap: 25
retrieval:
  top_k: 3
embedding:
  provider: openai
  base_url: https://api.example.com/v1
  model: text-embedding-3-small
generation:
  max_new_tokens: 256
  temperature: 0.2
ocr:
  enabled: true
  language: deu
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 100, cfg.Chunking.Size)
		assert.Equal(t, 25, *cfg.Chunking.Overlap)
		assert.Equal(t, 3, cfg.Retrieval.TopK)
		assert.Equal(t, "openai", cfg.Embedding.Provider)
		assert.Equal(t, 256, cfg.Generation.MaxNewTokens)
		assert.InDelta(t, 0.2, *cfg.Generation.Temperature, 1e-9)
		assert.True(t, cfg.OCR.Enabled)
		assert.Equal(t, "deu", cfg.OCR.Language)
	})

	t.Run("Should fail on malformed yaml", func(t *testing.T) {
		path := writeConfig(t, "chunking: [not a mapping")
		_, err := Load(path)
		require.Error(t, err)
	})
}
