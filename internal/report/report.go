// Package report renders ledger views: daily/weekly summaries, monthly
// totals and the AI-assisted analysis and categorization of recent spend.
package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dvloznov/gastobot/internal/ai"
	"github.com/dvloznov/gastobot/internal/domain"
	"github.com/dvloznov/gastobot/internal/ledger"
)

// Reporter produces formatted views over a conversation's ledger. The
// completion collaborator is only consulted for the AI-assisted views;
// everything else is deterministic.
type Reporter struct {
	store     ledger.Store
	completer ai.Completer
	now       func() time.Time
}

// NewReporter creates a reporter over the given store and completer.
func NewReporter(store ledger.Store, completer ai.Completer) *Reporter {
	return &Reporter{
		store:     store,
		completer: completer,
		now:       time.Now,
	}
}

// FormatAmount renders a monetary amount for display, always to 2 decimals.
func FormatAmount(v float64) string {
	return fmt.Sprintf("R$ %.2f", v)
}

// Total sums the unit prices of the given entries. No rounding happens here;
// amounts are only rounded at display time.
func Total(entries []domain.Transaction) float64 {
	var total float64
	for _, e := range entries {
		total += e.UnitPrice
	}
	return total
}

// Summarize renders one line per entry plus a trailing total.
func Summarize(entries []domain.Transaction) string {
	var b strings.Builder
	b.WriteString("📊 Resumo de Gastos:\n\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "#%d - %s: %s\n", e.ID, e.Item, FormatAmount(e.UnitPrice))
	}
	fmt.Fprintf(&b, "\n💰 Total: %s", FormatAmount(Total(entries)))
	return b.String()
}

// Daily returns the entries committed today for the conversation.
func (r *Reporter) Daily(ctx context.Context, conversationID string) ([]domain.Transaction, error) {
	return r.store.Query(ctx, conversationID, 1)
}

// Weekly returns the last 7 calendar days of entries for the conversation.
func (r *Reporter) Weekly(ctx context.Context, conversationID string) ([]domain.Transaction, error) {
	return r.store.Query(ctx, conversationID, 7)
}

// MonthlyTotal sums the current month's spend. The window never reaches back
// across the month boundary: on day N of the month at most N days are
// queried, capped at 30.
func (r *Reporter) MonthlyTotal(ctx context.Context, conversationID string) (float64, int, error) {
	daysBack := r.now().Day()
	if daysBack > 30 {
		daysBack = 30
	}

	entries, err := r.store.Query(ctx, conversationID, daysBack)
	if err != nil {
		return 0, 0, fmt.Errorf("MonthlyTotal: query: %w", err)
	}

	return Total(entries), len(entries), nil
}

const analysisPromptFormat = `Analise os seguintes gastos de um usuário nos últimos 30 dias:

%s

Total: %s

Forneça:
1. Uma análise concisa dos padrões de gastos
2. Sugestões para possíveis economias
3. Categorias com maior gasto

Responda em português, de forma amigável e objetiva, em até 500 caracteres.
Não formate sua resposta com markdown ou blocos de código.`

// Analyze asks the completion collaborator for an insight over the last 30
// days of entries. The reply is passed through verbatim.
func (r *Reporter) Analyze(ctx context.Context, conversationID string) (string, error) {
	entries, err := r.store.Query(ctx, conversationID, 30)
	if err != nil {
		return "", fmt.Errorf("Analyze: query: %w", err)
	}
	if len(entries) == 0 {
		return "", ErrNoEntries
	}

	prompt := fmt.Sprintf(analysisPromptFormat, entriesAsLines(entries), FormatAmount(Total(entries)))

	text, err := r.completer.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("Analyze: %w", err)
	}

	return strings.TrimSpace(text), nil
}

const weeklyInsightPromptFormat = `Analise os seguintes gastos de um usuário na última semana:

%s

Total: %s

Forneça:
1. Um breve resumo dos gastos da semana
2. Uma dica de economia baseada nos padrões de compra
3. Uma previsão para a próxima semana

Responda em português, de forma amigável e concisa, em até 300 caracteres.`

// WeeklyInsight generates the short AI note appended to the scheduled weekly
// summary.
func (r *Reporter) WeeklyInsight(ctx context.Context, entries []domain.Transaction) (string, error) {
	prompt := fmt.Sprintf(weeklyInsightPromptFormat, entriesAsLines(entries), FormatAmount(Total(entries)))

	text, err := r.completer.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("WeeklyInsight: %w", err)
	}

	return strings.TrimSpace(text), nil
}

// entriesAsLines renders entries as "item: R$ x.xx" lines for prompts.
func entriesAsLines(entries []domain.Transaction) string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("%s: %s", e.Item, FormatAmount(e.UnitPrice)))
	}
	return strings.Join(lines, "\n")
}
