package report

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dvloznov/gastobot/internal/domain"
)

// ErrNoEntries is returned by AI-assisted views when the window holds no
// committed entries to work with.
var ErrNoEntries = errors.New("report: no entries in window")

// Bucket is one AI-provided category with its member labels and the total
// reconciled against the ledger.
type Bucket struct {
	Name    string
	Members []string
	Total   float64
}

const categorizePromptFormat = `Categorize os seguintes itens de despesa em categorias claras e úteis (ex: Alimentação, Transporte, Lazer, etc):
%s

Responda com uma lista de categorias e seus respectivos itens no formato:
categoria1: item1, item2
categoria2: item3, item4

Use no máximo 5 categorias principais. Seja objetivo e conciso.`

// Categorize asks the completion collaborator to bucket the last 30 days of
// item labels, then reconciles each ledger entry to a bucket and sums spend
// per bucket. When the model's answer yields no parseable buckets, the raw
// text is still returned without totals: a degraded but successful outcome.
func (r *Reporter) Categorize(ctx context.Context, conversationID string) (string, error) {
	entries, err := r.store.Query(ctx, conversationID, 30)
	if err != nil {
		return "", fmt.Errorf("Categorize: query: %w", err)
	}
	if len(entries) == 0 {
		return "", ErrNoEntries
	}

	labels := make([]string, 0, len(entries))
	for _, e := range entries {
		labels = append(labels, e.Item)
	}

	raw, err := r.completer.Complete(ctx, fmt.Sprintf(categorizePromptFormat, strings.Join(labels, ", ")))
	if err != nil {
		return "", fmt.Errorf("Categorize: %w", err)
	}
	raw = strings.TrimSpace(raw)

	buckets := ParseBuckets(raw)
	if len(buckets) == 0 {
		return fmt.Sprintf("📊 *Categorias de gastos:*\n\n%s", raw), nil
	}

	ReconcileTotals(buckets, entries)

	var b strings.Builder
	b.WriteString("📊 *Suas despesas por categoria:*\n\n")
	b.WriteString(raw)
	b.WriteString("\n\n*Totais por categoria:*\n")
	for _, bucket := range buckets {
		fmt.Fprintf(&b, "%s: %s\n", bucket.Name, FormatAmount(bucket.Total))
	}

	return strings.TrimSpace(b.String()), nil
}

// ParseBuckets reads "categoria: item1, item2" lines out of the model's
// answer, preserving listing order. Lines without a colon are ignored.
func ParseBuckets(raw string) []Bucket {
	var buckets []Bucket
	for _, line := range strings.Split(raw, "\n") {
		name, itemsText, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		var members []string
		for _, item := range strings.Split(itemsText, ",") {
			item = strings.ToLower(strings.TrimSpace(item))
			if item != "" {
				members = append(members, item)
			}
		}
		if len(members) == 0 {
			continue
		}

		buckets = append(buckets, Bucket{Name: name, Members: members})
	}
	return buckets
}

// ReconcileTotals assigns each entry to at most one bucket by case-insensitive
// substring containment of a member name inside the entry's label. The first
// matching bucket in listing order wins; entries matching no bucket are left
// out of every total.
func ReconcileTotals(buckets []Bucket, entries []domain.Transaction) {
	for _, entry := range entries {
		label := strings.ToLower(entry.Item)
	bucketLoop:
		for i := range buckets {
			for _, member := range buckets[i].Members {
				if strings.Contains(label, member) {
					buckets[i].Total += entry.UnitPrice
					break bucketLoop
				}
			}
		}
	}
}
