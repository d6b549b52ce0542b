package advisory

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/genai"
)

// GeminiAdvisor answers farm questions through the Gemini API.
type GeminiAdvisor struct {
	client *genai.Client
	model  string
}

var _ Advisor = (*GeminiAdvisor)(nil)

// NewGeminiAdvisor creates an advisor backed by the Gemini API.
func NewGeminiAdvisor(ctx context.Context, apiKey, model string) (*GeminiAdvisor, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiAdvisor{
		client: client,
		model:  model,
	}, nil
}

func (a *GeminiAdvisor) Advise(ctx context.Context, briefing, question string) (string, error) {
	prompt := "You are an assistant for a small farm's record keeping.\n" +
		"Answer briefly and concretely using only the data below.\n\n" +
		briefing + "\nQuestion: " + question

	cctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	result, err := a.client.Models.GenerateContent(cctx, a.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}

	answer := result.Text()
	if answer == "" {
		return "", fmt.Errorf("no answer returned")
	}

	slog.InfoContext(ctx, "Advisory answer generated", "model", a.model, "answer_length", len(answer))
	return answer, nil
}
