package providers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Config represents one text generation request
type Config struct {
	Model       string
	Temperature float64
	Prompt      string
}

// Provider defines the interface for a text generation backend
type Provider interface {
	GenerateText(ctx context.Context, config Config) (string, error)
}

// Enhancer rewrites campaign prompts into fuller photographic briefs
type Enhancer struct {
	Provider    Provider
	Model       string
	Temperature float64
}

func NewEnhancer(provider Provider, model string) *Enhancer {
	return &Enhancer{
		Provider:    provider,
		Model:       model,
		Temperature: 0.4,
	}
}

// Enhance returns the rewritten prompt, or the original prompt when the
// provider fails or returns nothing usable.
func (e *Enhancer) Enhance(ctx context.Context, prompt string) string {
	if e == nil || e.Provider == nil {
		return prompt
	}

	text, err := e.Provider.GenerateText(ctx, Config{
		Model:       e.Model,
		Temperature: e.Temperature,
		Prompt:      buildEnhancePrompt(prompt),
	})
	if err != nil {
		slog.Warn("Prompt enhancement failed, using original prompt", "model", e.Model, "error", err)
		return prompt
	}

	enhanced := cleanResponse(text)
	if enhanced == "" {
		slog.Warn("Prompt enhancement returned empty text, using original prompt", "model", e.Model)
		return prompt
	}

	slog.Debug("Enhanced prompt", "original", prompt, "enhanced", enhanced)
	return enhanced
}

func buildEnhancePrompt(prompt string) string {
	return fmt.Sprintf(`You write prompts for a photorealistic text-to-image model.

Rewrite the brief below into a single prompt of at most 80 words. Keep every
subject, setting and color requirement from the brief. Add concrete details
about composition, lens and lighting. Do not add text overlays or logos.

Respond with the prompt only, no preamble and no quotes.

Brief: %s`, prompt)
}

func cleanResponse(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "Prompt:")
	text = strings.TrimSpace(text)
	text = strings.Trim(text, "\"'`")
	return strings.Join(strings.Fields(text), " ")
}
