package gemini

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/sentinel-care/brandkit/internal/providers"
	"google.golang.org/api/option"
)

const DefaultModel = "gemini-1.5-flash"

// Gemini is a text provider backed by Google Gemini
type Gemini struct {
	APIKey string
}

// New returns a Gemini provider using GEMINI_API_KEY
func New() *Gemini {
	return &Gemini{APIKey: os.Getenv("GEMINI_API_KEY")}
}

// Model returns GEMINI_MODEL or the default model
func Model() string {
	if model := os.Getenv("GEMINI_MODEL"); model != "" {
		return model
	}
	return DefaultModel
}

// GenerateText sends the prompt to Gemini and returns the concatenated text parts
func (g *Gemini) GenerateText(ctx context.Context, config providers.Config) (string, error) {
	if g.APIKey == "" {
		return "", fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(g.APIKey))
	if err != nil {
		return "", fmt.Errorf("failed to create new gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(config.Model)
	model.SetTemperature(float32(config.Temperature))

	resp, err := model.GenerateContent(ctx, genai.Text(config.Prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned from Gemini")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("empty content returned from Gemini")
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("unexpected response format from Gemini")
	}

	return sb.String(), nil
}
