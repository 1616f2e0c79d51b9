package extract

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/dvloznov/gastobot/internal/domain"
)

// expensePattern splits a leading label from a trailing numeric amount,
// tolerating an optional currency marker ("R$", "$") and either "." or ","
// as the decimal separator: "Café 5.50", "Pizza R$25", "Uber 15,90".
var expensePattern = regexp.MustCompile(`(?i)^(.+?)\s*R?\$?\s*([0-9]+[.,]?[0-9]*)$`)

// NumericExtractor is the zero-latency fast path for short structured input.
// It never calls any external service and never returns an error: anything
// it cannot read is a miss, deferred to the semantic extractor.
type NumericExtractor struct{}

// NewNumericExtractor creates the regex-based extractor.
func NewNumericExtractor() *NumericExtractor {
	return &NumericExtractor{}
}

// TryExtract implements the Extractor interface.
func (e *NumericExtractor) TryExtract(ctx context.Context, text string) (domain.Draft, bool, error) {
	match := expensePattern.FindStringSubmatch(strings.TrimSpace(text))
	if match == nil {
		return domain.Draft{}, false, nil
	}

	item := strings.TrimSpace(match[1])
	if item == "" {
		return domain.Draft{}, false, nil
	}

	amount, err := strconv.ParseFloat(strings.ReplaceAll(match[2], ",", "."), 64)
	if err != nil || amount < 0 {
		return domain.Draft{}, false, nil
	}

	return domain.Draft{Item: item, TotalPrice: amount, Quantity: 1}, true, nil
}

// Ensure NumericExtractor implements the Extractor interface.
var _ Extractor = (*NumericExtractor)(nil)
