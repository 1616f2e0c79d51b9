package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dvloznov/gastobot/internal/ai"
	"github.com/dvloznov/gastobot/internal/domain"
)

// SemanticExtractor interprets natural-language expense messages through the
// completion collaborator. It makes exactly one call per input; failures of
// the collaborator propagate as ai.ErrUnavailable so the caller can phrase a
// distinct message.
type SemanticExtractor struct {
	completer ai.Completer
}

// NewSemanticExtractor creates the completion-backed extractor.
func NewSemanticExtractor(completer ai.Completer) *SemanticExtractor {
	return &SemanticExtractor{completer: completer}
}

// extractionResult is the output schema the prompt demands from the model.
type extractionResult struct {
	Item       string  `json:"item"`
	Valor      float64 `json:"valor"`
	Quantidade int     `json:"quantidade"`
	Erro       string  `json:"erro"`
}

const extractionPromptFormat = `Analise a seguinte mensagem de despesa em português e extraia o item/serviço, o valor e a quantidade:
%q

Exemplos de entradas e suas interpretações:
1. "Gastei com café hoje 5 reais" → item: café, valor: 5
2. "Paguei a conta de luz de 150,90" → item: conta de luz, valor: 150.90
3. "Almocei por 32 reais" → item: almoço, valor: 32
4. "Uber 25" → item: uber, valor: 25
5. "Comprei 3 cervejas por 27" → item: cerveja, valor: 27, quantidade: 3

Responda APENAS com um JSON no formato:
{
  "item": "nome do item ou serviço",
  "valor": número (com ponto como separador decimal, valor TOTAL da despesa),
  "quantidade": número inteiro (opcional, padrão 1)
}

Se não for possível extrair tanto o item quanto o valor, responda com:
{
  "erro": "Não foi possível identificar o item e valor"
}

IMPORTANTE: Não inclua formatação markdown, blocos de código ou outras marcações. Responda apenas com o objeto JSON puro.`

// TryExtract implements the Extractor interface. The model's answer is
// stripped of incidental code fences before parsing; an explicit "erro"
// signal or unparseable output maps to ErrNoExtraction, bad numeric values
// to ErrInvalidDraft.
func (e *SemanticExtractor) TryExtract(ctx context.Context, text string) (domain.Draft, bool, error) {
	prompt := fmt.Sprintf(extractionPromptFormat, text)

	raw, err := e.completer.Complete(ctx, prompt)
	if err != nil {
		return domain.Draft{}, false, fmt.Errorf("semantic extract: %w", err)
	}

	clean := extractJSONObject(ai.StripFences(raw))

	var result extractionResult
	if err := json.Unmarshal([]byte(clean), &result); err != nil {
		return domain.Draft{}, false, fmt.Errorf("semantic extract: unparseable model output: %w", ErrNoExtraction)
	}

	if result.Erro != "" {
		return domain.Draft{}, false, fmt.Errorf("semantic extract: model found no expense: %w", ErrNoExtraction)
	}

	if strings.TrimSpace(result.Item) == "" {
		return domain.Draft{}, false, fmt.Errorf("semantic extract: missing item: %w", ErrNoExtraction)
	}
	if result.Valor <= 0 {
		return domain.Draft{}, false, fmt.Errorf("semantic extract: amount %v not positive: %w", result.Valor, ErrInvalidDraft)
	}

	quantity := result.Quantidade
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 1 {
		return domain.Draft{}, false, fmt.Errorf("semantic extract: quantity %d below 1: %w", result.Quantidade, ErrInvalidDraft)
	}

	return domain.Draft{
		Item:       strings.TrimSpace(result.Item),
		TotalPrice: result.Valor,
		Quantity:   quantity,
	}, true, nil
}

// extractJSONObject keeps only the first '{' through the last '}' when the
// model surrounds the JSON with extra prose.
func extractJSONObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start != -1 && end != -1 && end > start {
		return strings.TrimSpace(s[start : end+1])
	}
	return s
}

// Ensure SemanticExtractor implements the Extractor interface.
var _ Extractor = (*SemanticExtractor)(nil)
