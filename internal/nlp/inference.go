package nlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultInferenceBaseURL = "https://api-inference.huggingface.co"

// InferenceClient calls a Hugging Face inference model. One client serves
// one model; the session holds separate clients for summarization and
// translation.
type InferenceClient struct {
	baseURL string
	token   string
	model   string
	client  *http.Client
}

func NewInferenceClient(token, model string, timeout time.Duration) *InferenceClient {
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &InferenceClient{
		baseURL: defaultInferenceBaseURL,
		token:   token,
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

// Summarize condenses text to between minLength and maxLength tokens.
func (c *InferenceClient) Summarize(ctx context.Context, text string, minLength, maxLength int) (string, error) {
	payload := map[string]any{
		"inputs": text,
		"parameters": map[string]any{
			"min_length": minLength,
			"max_length": maxLength,
			"do_sample":  false,
		},
		"options": map[string]any{"wait_for_model": true},
	}
	var out []struct {
		SummaryText string `json:"summary_text"`
	}
	if err := c.post(ctx, payload, &out); err != nil {
		return "", err
	}
	if len(out) == 0 {
		return "", fmt.Errorf("no summary returned")
	}
	return out[0].SummaryText, nil
}

// Translate runs the text through the client's translation model.
func (c *InferenceClient) Translate(ctx context.Context, text string) (string, error) {
	payload := map[string]any{
		"inputs":  text,
		"options": map[string]any{"wait_for_model": true},
	}
	var out []struct {
		TranslationText string `json:"translation_text"`
	}
	if err := c.post(ctx, payload, &out); err != nil {
		return "", err
	}
	if len(out) == 0 {
		return "", fmt.Errorf("no translation returned")
	}
	return out[0].TranslationText, nil
}

func (c *InferenceClient) post(ctx context.Context, payload any, out any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	url := fmt.Sprintf("%s/models/%s", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("inference request for %s failed: %s", c.model, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
