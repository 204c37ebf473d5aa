package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/sentinel-care/brandkit/internal/providers"
)

const DefaultModel = "llama3.1:8b"

// Ollama is a text provider backed by a local Ollama server
type Ollama struct {
	URL        string
	HTTPClient *http.Client
}

// New returns an Ollama provider using OLLAMA_URL (or OLLAMA_HOST)
func New() *Ollama {
	ollamaURL := os.Getenv("OLLAMA_URL")
	if ollamaURL == "" {
		ollamaURL = os.Getenv("OLLAMA_HOST")
	}
	if ollamaURL == "" {
		ollamaURL = "http://localhost:11434"
	}
	return &Ollama{URL: ollamaURL, HTTPClient: &http.Client{}}
}

// Model returns OLLAMA_MODEL or the default model
func Model() string {
	if model := os.Getenv("OLLAMA_MODEL"); model != "" {
		return model
	}
	return DefaultModel
}

// GenerateText runs a non-streaming generate call
func (o *Ollama) GenerateText(ctx context.Context, config providers.Config) (string, error) {
	url := strings.TrimRight(o.URL, "/") + "/api/generate"

	requestBody, err := json.Marshal(map[string]interface{}{
		"model":  config.Model,
		"prompt": config.Prompt,
		"stream": false,
		"options": map[string]interface{}{
			"temperature": config.Temperature,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(requestBody))
	if err != nil {
		return "", fmt.Errorf("failed to create new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := o.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("received non-200 status code: %d - %s", resp.StatusCode, string(body))
	}

	var response struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode response body: %w", err)
	}

	return response.Response, nil
}
