package extract

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dvloznov/gastobot/internal/ai"
	"github.com/dvloznov/gastobot/internal/domain"
)

// fakeCompleter is a scripted completion collaborator for testing.
type fakeCompleter struct {
	response string
	err      error
	calls    int
	prompts  []string
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func TestSemanticExtractor_TryExtract(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     domain.Draft
		wantErr  error
	}{
		{
			name:     "plain json",
			response: `{"item": "jantar", "valor": 35}`,
			want:     domain.Draft{Item: "jantar", TotalPrice: 35, Quantity: 1},
		},
		{
			name:     "fenced json",
			response: "```json\n{\"item\": \"jantar\", \"valor\": 35}\n```",
			want:     domain.Draft{Item: "jantar", TotalPrice: 35, Quantity: 1},
		},
		{
			name:     "json wrapped in prose",
			response: "Claro! Aqui está:\n{\"item\": \"almoço\", \"valor\": 12.5}\nEspero ter ajudado.",
			want:     domain.Draft{Item: "almoço", TotalPrice: 12.5, Quantity: 1},
		},
		{
			name:     "explicit quantity",
			response: `{"item": "cerveja", "valor": 27, "quantidade": 3}`,
			want:     domain.Draft{Item: "cerveja", TotalPrice: 27, Quantity: 3},
		},
		{
			name:     "explicit cannot-extract signal",
			response: `{"erro": "Não foi possível identificar o item e valor"}`,
			wantErr:  ErrNoExtraction,
		},
		{
			name:     "unparseable output",
			response: "desculpe, não entendi",
			wantErr:  ErrNoExtraction,
		},
		{
			name:     "missing item",
			response: `{"valor": 35}`,
			wantErr:  ErrNoExtraction,
		},
		{
			name:     "zero amount",
			response: `{"item": "café", "valor": 0}`,
			wantErr:  ErrInvalidDraft,
		},
		{
			name:     "negative amount",
			response: `{"item": "café", "valor": -5}`,
			wantErr:  ErrInvalidDraft,
		},
		{
			name:     "negative quantity",
			response: `{"item": "café", "valor": 10, "quantidade": -2}`,
			wantErr:  ErrInvalidDraft,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completer := &fakeCompleter{response: tt.response}
			extractor := NewSemanticExtractor(completer)

			got, hit, err := extractor.TryExtract(context.Background(), "Gastei 35 com jantar")

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("TryExtract error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("TryExtract failed: %v", err)
			}
			if !hit {
				t.Fatal("TryExtract returned a miss, want a hit")
			}
			if got != tt.want {
				t.Errorf("TryExtract = %+v, want %+v", got, tt.want)
			}
			if completer.calls != 1 {
				t.Errorf("completer called %d times, want exactly 1 (no implicit retry)", completer.calls)
			}
		})
	}
}

func TestSemanticExtractor_ServiceFailurePropagates(t *testing.T) {
	completer := &fakeCompleter{err: ai.ErrUnavailable}
	extractor := NewSemanticExtractor(completer)

	_, _, err := extractor.TryExtract(context.Background(), "Gastei 35 com jantar")
	if !errors.Is(err, ai.ErrUnavailable) {
		t.Errorf("TryExtract error = %v, want ai.ErrUnavailable", err)
	}
	if errors.Is(err, ErrNoExtraction) {
		t.Error("service failure must stay distinct from extraction failure")
	}
}

func TestSemanticExtractor_PromptCarriesMessage(t *testing.T) {
	completer := &fakeCompleter{response: `{"item": "jantar", "valor": 35}`}
	extractor := NewSemanticExtractor(completer)

	if _, _, err := extractor.TryExtract(context.Background(), "Gastei 35 com jantar"); err != nil {
		t.Fatalf("TryExtract failed: %v", err)
	}

	if len(completer.prompts) != 1 || !strings.Contains(completer.prompts[0], "Gastei 35 com jantar") {
		t.Error("prompt should embed the raw user message")
	}
	if !strings.Contains(completer.prompts[0], "erro") {
		t.Error("prompt should state the explicit cannot-extract signal")
	}
}

func TestResolver_NumericHitSkipsCompletion(t *testing.T) {
	completer := &fakeCompleter{response: `{"item": "nunca", "valor": 1}`}
	resolver := NewResolver(NewNumericExtractor(), NewSemanticExtractor(completer))

	draft, err := resolver.Resolve(context.Background(), "Coffee 5.50")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	want := domain.Draft{Item: "Coffee", TotalPrice: 5.50, Quantity: 1}
	if draft != want {
		t.Errorf("Resolve = %+v, want %+v", draft, want)
	}
	if completer.calls != 0 {
		t.Errorf("completer called %d times, want 0 on the fast path", completer.calls)
	}
}

func TestResolver_FallsBackToSemantic(t *testing.T) {
	completer := &fakeCompleter{response: `{"item": "jantar", "valor": 35}`}
	resolver := NewResolver(NewNumericExtractor(), NewSemanticExtractor(completer))

	draft, err := resolver.Resolve(context.Background(), "Gastei 35 com jantar")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	want := domain.Draft{Item: "jantar", TotalPrice: 35, Quantity: 1}
	if draft != want {
		t.Errorf("Resolve = %+v, want %+v", draft, want)
	}
	if completer.calls != 1 {
		t.Errorf("completer called %d times, want 1", completer.calls)
	}
}

func TestResolver_AllMissesYieldNoExtraction(t *testing.T) {
	resolver := NewResolver(NewNumericExtractor())

	_, err := resolver.Resolve(context.Background(), "nada de útil aqui")
	if !errors.Is(err, ErrNoExtraction) {
		t.Errorf("Resolve error = %v, want ErrNoExtraction", err)
	}
}
