package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// ErrUnavailable is returned when the completion service fails or times out.
// Callers distinguish it from extraction failures to phrase user messages.
var ErrUnavailable = errors.New("ai: completion service unavailable")

// Completer is the text-completion collaborator: one prompt in, one
// best-effort completion out. Implementations may fail or time out; they
// never retry implicitly.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.0-flash"

// GeminiCompleter implements Completer on top of the Gemini API.
type GeminiCompleter struct {
	client *genai.Client
	model  string
}

// NewGeminiCompleter creates a Gemini-backed completer. The API key is read
// from the environment by the genai client when apiKey is empty.
func NewGeminiCompleter(ctx context.Context, apiKey, model string) (*GeminiCompleter, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("NewGeminiCompleter: create genai client: %w", err)
	}

	if model == "" {
		model = DefaultModel
	}

	return &GeminiCompleter{client: client, model: model}, nil
}

// Complete implements the Completer interface. A transport or model failure
// surfaces as ErrUnavailable with the cause attached.
func (g *GeminiCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("Complete: generate content: %w: %v", ErrUnavailable, err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("Complete: empty response from model: %w", ErrUnavailable)
	}

	return text, nil
}

// StripFences removes Markdown code fences the model may wrap its answer in
// despite instructions, returning the inner text trimmed.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		// Drop the first line (``` or ```json).
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			// Single-line weirdness; just return as-is.
			return s
		}
		s = strings.TrimSpace(s)
	}

	// Remove trailing ``` if present.
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	return strings.TrimSpace(s)
}

// Ensure GeminiCompleter implements the Completer interface.
var _ Completer = (*GeminiCompleter)(nil)
