// Package llm provides the Ollama generation adapter.
// Clean Architecture: Adapter implementing ports.LLMService.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Distinct failure modes of the generation service. Callers match with
// errors.Is; no error text ever flows into a chat response.
var (
	// ErrUnreachable covers connection failures and non-200 statuses.
	ErrUnreachable = errors.New("generation service unreachable")

	// ErrBadResponse covers responses that are not the expected JSON.
	ErrBadResponse = errors.New("generation service returned a malformed response")
)

// OllamaLLMAdapter implements ports.LLMService using the Ollama API.
type OllamaLLMAdapter struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewOllamaLLMAdapter creates a new Ollama generation adapter.
func NewOllamaLLMAdapter(baseURL, model string) *OllamaLLMAdapter {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "mistral"
	}
	return &OllamaLLMAdapter{
		baseURL: baseURL,
		model:   model,
		client: &http.Client{
			Timeout: 300 * time.Second, // Local models can be slow on first token
		},
	}
}

// ollamaGenerateRequest is the Ollama generate API request.
type ollamaGenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

// ollamaGenerateResponse is the Ollama generate API response.
type ollamaGenerateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Generate produces a response for the given prompt, non-streaming.
// The response field is returned verbatim.
func (a *OllamaLLMAdapter) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody := ollamaGenerateRequest{
		Model:  a.model,
		Prompt: prompt,
		Stream: false,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", a.baseURL+"/api/generate", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrUnreachable, resp.StatusCode)
	}

	var genResp ollamaGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadResponse, err)
	}

	return genResp.Response, nil
}
