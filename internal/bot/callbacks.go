package bot

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/dvloznov/gastobot/internal/ai"
	"github.com/dvloznov/gastobot/internal/domain"
	"github.com/dvloznov/gastobot/internal/ledger"
	"github.com/dvloznov/gastobot/internal/report"
	"github.com/dvloznov/gastobot/internal/token"
)

// labelPromptFormat asks the model to clean up an item label before commit.
const labelPromptFormat = `Formate o nome deste item de despesa para ser consistente e organizado: %q.
Use apenas letras minúsculas, corrija erros ortográficos óbvios e padronize o nome.
Não adicione informações extras, apenas retorne o nome formatado.
Exemplos: "cafe" vira "café", "refri coca" vira "refrigerante coca-cola", "almoço restaurante" vira "almoço".
Responda apenas com o texto formatado, sem explicações.`

// handleConfirm decodes the draft carried inside the pressed control and
// commits it to the ledger. An undecodable identifier is treated exactly like
// a cancellation, with its own message so the user knows to resend.
func (c *Controller) handleConfirm(ctx context.Context, s Session, data string) {
	log := c.updateLogger(s)

	draft, err := token.Decode(strings.TrimPrefix(data, confirmPrefix))
	if err != nil {
		log.Warn().Err(err).Str("data", data).Msg("Undecodable confirmation control")
		c.acknowledge(s, log, "")
		c.edit(s, log, msgBadToken, mainKeyboard())
		return
	}

	c.acknowledge(s, log, "Registrando gasto...")

	item := c.normalizeLabel(ctx, log, draft.Item)

	ids, failed := c.commitDraft(ctx, log, s.ConversationID(), item, draft)

	if err := s.DeleteCurrent(); err != nil {
		log.Warn().Err(err).Msg("Failed to delete confirmation message")
	}

	unit := report.FormatAmount(draft.UnitPrice())

	switch {
	case len(ids) == 0:
		log.Error().Int("quantity", draft.Quantity).Msg("No ledger entries committed")
		c.reply(s, log, msgCommitFailed, mainKeyboard())

	case failed > 0:
		log.Warn().Int("committed", len(ids)).Int("failed", failed).Msg("Partial commit")
		c.reply(s, log, fmt.Sprintf(
			"⚠️ Registrados %d de %d gastos de %s (%s cada): %s\nOs demais não puderam ser registrados, tente novamente.",
			len(ids), draft.Quantity, item, unit, formatIDs(ids)), mainKeyboard())

	case draft.Quantity > 1:
		c.reply(s, log, fmt.Sprintf(
			"✅ Registrados %d gastos de %s (%s cada): %s\n\nPara remover um deles, use /remove [id]",
			len(ids), item, unit, formatIDs(ids)), multiCommittedKeyboard())

	default:
		c.reply(s, log, fmt.Sprintf(
			"✅ Registrado: #%d - %s - %s\n\nPara remover, use /remove %d",
			ids[0], item, unit, ids[0]), committedKeyboard(ids[0]))
	}
}

// normalizeLabel asks the model for a cleaned-up item label. The original is
// kept whenever the service fails, answers nothing, or pads the label out to
// more than twice its length.
func (c *Controller) normalizeLabel(ctx context.Context, log zerolog.Logger, item string) string {
	raw, err := c.completer.Complete(ctx, fmt.Sprintf(labelPromptFormat, item))
	if err != nil {
		log.Warn().Err(err).Msg("Label formatting unavailable, keeping original")
		return item
	}

	formatted := strings.TrimSpace(ai.StripFences(raw))
	if formatted == "" || utf8.RuneCountInString(formatted) > 2*utf8.RuneCountInString(item) {
		return item
	}
	return formatted
}

// commitDraft writes one ledger entry per unit at the per-unit price.
// Failures never abort the siblings; the caller reports partial success to
// the user. Returned ids are sorted ascending.
func (c *Controller) commitDraft(ctx context.Context, log zerolog.Logger, conversationID, item string, draft domain.Draft) (ids []int64, failed int) {
	unit := draft.UnitPrice()
	occurredAt := c.now()

	qty := draft.Quantity
	if qty < 1 {
		qty = 1
	}

	if qty == 1 {
		id, err := c.store.Commit(ctx, conversationID, item, unit, occurredAt)
		if err != nil {
			log.Error().Err(err).Msg("Commit failed")
			return nil, 1
		}
		return []int64{id}, 0
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < qty; i++ {
		g.Go(func() error {
			id, err := c.store.Commit(gctx, conversationID, item, unit, occurredAt)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
				log.Error().Err(err).Msg("Commit failed")
				return nil
			}
			ids = append(ids, id)
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, failed
}

func formatIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = "#" + strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ", ")
}

// handleCancel discards the pending draft by rewriting the confirmation
// message. Since the draft only ever lived inside the control identifier,
// there is nothing else to clean up.
func (c *Controller) handleCancel(ctx context.Context, s Session, data string) {
	log := c.updateLogger(s)
	c.acknowledge(s, log, "")
	c.edit(s, log, msgCancelled, mainKeyboard())
}

// handleRemoveButton handles the ❌ control attached to a committed entry.
func (c *Controller) handleRemoveButton(ctx context.Context, s Session, data string) {
	log := c.updateLogger(s)
	c.acknowledge(s, log, "")

	id, err := strconv.ParseInt(strings.TrimPrefix(data, removePrefix), 10, 64)
	if err != nil {
		log.Warn().Err(err).Str("data", data).Msg("Malformed remove control")
		c.edit(s, log, msgRemoveBadID, mainKeyboard())
		return
	}

	removed, err := c.store.Remove(ctx, s.ConversationID(), id)
	if errors.Is(err, ledger.ErrNotFound) {
		c.edit(s, log, fmt.Sprintf("Não foi encontrado nenhum gasto com ID %d.", id), mainKeyboard())
		return
	}
	if err != nil {
		log.Error().Err(err).Int64("entry_id", id).Msg("Remove failed")
		c.edit(s, log, msgServiceDown, mainKeyboard())
		return
	}

	c.edit(s, log, fmt.Sprintf("✅ Removido: %s - %s", removed.Item, report.FormatAmount(removed.UnitPrice)), mainKeyboard())
}

func (c *Controller) handleSummaryButton(ctx context.Context, s Session, data string) {
	log := c.updateLogger(s)
	c.acknowledge(s, log, "")

	entries, err := c.reporter.Daily(ctx, s.ConversationID())
	if err != nil {
		log.Error().Err(err).Msg("Daily summary failed")
		c.reply(s, log, msgServiceDown, mainKeyboard())
		return
	}
	if len(entries) == 0 {
		c.reply(s, log, msgNoExpensesToday, mainKeyboard())
		return
	}
	c.reply(s, log, report.Summarize(entries), summaryKeyboard())
}

func (c *Controller) handleTotalButton(ctx context.Context, s Session, data string) {
	log := c.updateLogger(s)
	c.acknowledge(s, log, "")

	total, n, err := c.reporter.MonthlyTotal(ctx, s.ConversationID())
	if err != nil {
		log.Error().Err(err).Msg("Monthly total failed")
		c.reply(s, log, msgServiceDown, mainKeyboard())
		return
	}
	if n == 0 {
		c.reply(s, log, msgNoExpensesMonth, mainKeyboard())
		return
	}
	c.reply(s, log, fmt.Sprintf("Total gasto neste mês: %s", report.FormatAmount(total)), mainKeyboard())
}

// handleAnalyzeButton reuses the message that carried the button as the
// progress indicator, rewriting it in place as the analysis proceeds.
func (c *Controller) handleAnalyzeButton(ctx context.Context, s Session, data string) {
	log := c.updateLogger(s)
	c.acknowledge(s, log, "")
	c.edit(s, log, msgAnalyzing, nil)

	analysis, err := c.reporter.Analyze(ctx, s.ConversationID())
	switch {
	case errors.Is(err, report.ErrNoEntries):
		c.edit(s, log, msgNoExpensesAnalyze, mainKeyboard())
	case err != nil:
		log.Error().Err(err).Msg("Analysis failed")
		c.edit(s, log, msgAnalysisFailed, mainKeyboard())
	default:
		c.edit(s, log, "📊 *Análise de Gastos* 📊\n\n"+analysis, mainKeyboard())
	}
}

func (c *Controller) handleHelpButton(ctx context.Context, s Session, data string) {
	log := c.updateLogger(s)
	c.acknowledge(s, log, "")
	c.reply(s, log, msgHelp, mainKeyboard())
}

func (c *Controller) handleAddButton(ctx context.Context, s Session, data string) {
	log := c.updateLogger(s)
	c.acknowledge(s, log, "")
	c.reply(s, log, msgAddPrompt, nil)
}

func (c *Controller) handleCategorizeButton(ctx context.Context, s Session, data string) {
	log := c.updateLogger(s)
	c.acknowledge(s, log, "")
	c.edit(s, log, msgCategorizing, nil)

	result, err := c.reporter.Categorize(ctx, s.ConversationID())
	switch {
	case errors.Is(err, report.ErrNoEntries):
		c.edit(s, log, msgNoExpensesCategory, mainKeyboard())
	case err != nil:
		log.Error().Err(err).Msg("Categorization failed")
		c.edit(s, log, msgCategoryFailed, mainKeyboard())
	default:
		c.edit(s, log, result, mainKeyboard())
	}
}
