package utils

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

var ErrAIDisabled = errors.New("gemini api key not configured")

// AIConfig selects the Gemini model used for generated text.
type AIConfig struct {
	APIKey string
	Model  string
}

func (c AIConfig) Enabled() bool { return strings.TrimSpace(c.APIKey) != "" }

// Complete sends a single prompt and returns the text of all candidates.
func Complete(ctx context.Context, cfg AIConfig, prompt string) (string, error) {
	if !cfg.Enabled() {
		return "", ErrAIDisabled
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return "", fmt.Errorf("gemini client: %w", err)
	}
	defer client.Close()

	m := client.GenerativeModel(cfg.Model)
	m.SetTemperature(0.2)
	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return candidateText(resp), nil
}

func candidateText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, p := range cand.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
	}
	return strings.TrimSpace(b.String())
}
