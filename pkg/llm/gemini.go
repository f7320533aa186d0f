package llm

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

// Gemini calls the Gemini API for text generation. It is the production
// TextBackend; the client is created once at process start and shared.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGemini creates a Gemini text backend for the given model name.
func NewGemini(ctx context.Context, apiKey, modelName string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	model := client.GenerativeModel(modelName)
	return &Gemini{client: client, model: model}, nil
}

// GenerateText sends one instruction and returns the raw text output. A
// single attempt; pacing and error classification live in the caller.
func (g *Gemini) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		log.Errorf("Gemini content generation failed: %v", err)
		return "", fmt.Errorf("gemini API call failed: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		log.Warn("Gemini returned no candidates or content.")
		return "", fmt.Errorf("gemini API returned no content")
	}

	part := resp.Candidates[0].Content.Parts[0]
	text, ok := part.(genai.Text)
	if !ok {
		log.Errorf("Gemini response part is not text: %T", part)
		return "", fmt.Errorf("gemini API returned non-text content")
	}

	return string(text), nil
}

// Close releases the underlying client.
func (g *Gemini) Close() error {
	log.Info("Closing Gemini client.")
	return g.client.Close()
}
