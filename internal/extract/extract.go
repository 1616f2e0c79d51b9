package extract

import (
	"context"
	"errors"

	"github.com/dvloznov/gastobot/internal/domain"
)

// ErrNoExtraction is returned when the text carries no recoverable
// item+amount pair.
var ErrNoExtraction = errors.New("extract: no item and amount found")

// ErrInvalidDraft is returned when an extracted draft fails validation
// (amount not positive, quantity below 1 or non-numeric fields).
var ErrInvalidDraft = errors.New("extract: invalid draft values")

// Extractor turns free-form text into a draft transaction.
// TryExtract returns ok=false with a nil error to signal a miss: the input is
// not in a shape this extractor understands and the next one should be tried.
// A non-nil error aborts the chain.
type Extractor interface {
	TryExtract(ctx context.Context, text string) (domain.Draft, bool, error)
}

// Resolver tries a fixed-priority list of extractors in order.
type Resolver struct {
	extractors []Extractor
}

// NewResolver creates a resolver over the given extractors. Order matters:
// earlier extractors win.
func NewResolver(extractors ...Extractor) *Resolver {
	return &Resolver{extractors: extractors}
}

// Resolve returns the first successful draft. A miss from every extractor
// yields ErrNoExtraction.
func (r *Resolver) Resolve(ctx context.Context, text string) (domain.Draft, error) {
	for _, e := range r.extractors {
		draft, ok, err := e.TryExtract(ctx, text)
		if err != nil {
			return domain.Draft{}, err
		}
		if ok {
			return draft, nil
		}
	}
	return domain.Draft{}, ErrNoExtraction
}
