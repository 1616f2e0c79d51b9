package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dvloznov/gastobot/internal/ai"
	"github.com/dvloznov/gastobot/internal/extract"
	"github.com/dvloznov/gastobot/internal/ledger"
	"github.com/dvloznov/gastobot/internal/report"
)

// Controller routes incoming messages and button presses through the
// extractor chain, the confirmation token codec and the ledger store. Every
// error is absorbed here and turned into a specific user-facing message;
// nothing propagates far enough to crash the process.
type Controller struct {
	transport Transport
	numeric   extract.Extractor
	resolver  *extract.Resolver
	completer ai.Completer
	store     ledger.Store
	reporter  *report.Reporter
	log       zerolog.Logger
	now       func() time.Time
}

// NewController wires the controller. numeric and semantic are tried in that
// fixed priority order; completer is used for best-effort label formatting.
func NewController(
	transport Transport,
	numeric, semantic extract.Extractor,
	completer ai.Completer,
	store ledger.Store,
	reporter *report.Reporter,
	log zerolog.Logger,
) *Controller {
	return &Controller{
		transport: transport,
		numeric:   numeric,
		resolver:  extract.NewResolver(numeric, semantic),
		completer: completer,
		store:     store,
		reporter:  reporter,
		log:       log,
		now:       time.Now,
	}
}

// Register attaches all handlers to the transport.
func (c *Controller) Register() {
	c.transport.OnText(c.handleText)

	c.transport.OnButton(confirmPrefix, c.handleConfirm)
	c.transport.OnButton(actionCancel, c.handleCancel)
	c.transport.OnButton(removePrefix, c.handleRemoveButton)
	c.transport.OnButton(actionSummary, c.handleSummaryButton)
	c.transport.OnButton(actionTotal, c.handleTotalButton)
	c.transport.OnButton(actionAnalyze, c.handleAnalyzeButton)
	c.transport.OnButton(actionHelp, c.handleHelpButton)
	c.transport.OnButton(actionAdd, c.handleAddButton)
	c.transport.OnButton(actionCategorize, c.handleCategorizeButton)
}

// updateLogger returns a logger scoped to one incoming update.
func (c *Controller) updateLogger(s Session) zerolog.Logger {
	return c.log.With().
		Str("update_id", uuid.NewString()).
		Str("conversation_id", s.ConversationID()).
		Logger()
}

// handleText dispatches commands and treats everything else as a candidate
// expense message.
func (c *Controller) handleText(ctx context.Context, s Session, text string) {
	if strings.HasPrefix(text, "/") {
		c.handleCommand(ctx, s, text)
		return
	}
	c.handleExpense(ctx, s, text)
}

// handleExpense resolves the text into a draft and replies with the
// confirmation control. Nothing is persisted here: the draft's whole state
// rides inside the control identifier until the user confirms.
func (c *Controller) handleExpense(ctx context.Context, s Session, text string) {
	log := c.updateLogger(s)

	// The fast path is deterministic, so a quick probe tells us whether the
	// slower AI interpretation is coming and the user should be warned.
	if _, fast, _ := c.numeric.TryExtract(ctx, text); !fast {
		if _, err := s.Reply(msgInterpreting, nil); err != nil {
			log.Warn().Err(err).Msg("Failed to send interpreting notice")
		}
	}

	draft, err := c.resolver.Resolve(ctx, text)
	if err != nil {
		log.Info().Err(err).Msg("Extraction failed")
		c.reply(s, log, extractionFailureMessage(err), mainKeyboard())
		return
	}

	var question string
	if draft.Quantity > 1 {
		question = fmt.Sprintf("Entendi que você gastou %s com %q (%d unidades). Está correto?",
			report.FormatAmount(draft.TotalPrice), draft.Item, draft.Quantity)
	} else {
		question = fmt.Sprintf("Entendi que você gastou %s com %q. Está correto?",
			report.FormatAmount(draft.TotalPrice), draft.Item)
	}

	c.reply(s, log, question, confirmKeyboard(draft))
}

// handleCommand implements the /start, /resumo, /total, /analise and
// /remove text commands. Unknown commands get the help text.
func (c *Controller) handleCommand(ctx context.Context, s Session, text string) {
	log := c.updateLogger(s)

	fields := strings.Fields(text)
	if len(fields) == 0 {
		return
	}

	// Strip the bot-name suffix some platforms append ("/start@SomeBot").
	command, _, _ := strings.Cut(fields[0], "@")

	switch command {
	case "/start":
		c.reply(s, log, msgWelcome, mainKeyboard())

	case "/resumo":
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

	case "/total":
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

	case "/analise":
		waitID, err := s.Reply(msgAnalyzing, nil)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to send analyzing notice")
		}

		analysis, err := c.reporter.Analyze(ctx, s.ConversationID())

		if delErr := s.Delete(waitID); delErr != nil {
			log.Warn().Err(delErr).Msg("Failed to delete analyzing notice")
		}

		switch {
		case errors.Is(err, report.ErrNoEntries):
			c.reply(s, log, msgNoExpensesAnalyze, mainKeyboard())
		case err != nil:
			log.Error().Err(err).Msg("Analysis failed")
			c.reply(s, log, msgAnalysisFailed, mainKeyboard())
		default:
			c.reply(s, log, "📊 *Análise de Gastos* 📊\n\n"+analysis, mainKeyboard())
		}

	case "/remove":
		c.handleRemoveCommand(ctx, s, log, fields[1:])

	default:
		c.reply(s, log, msgHelp, mainKeyboard())
	}
}

// handleRemoveCommand expects exactly one integer argument.
func (c *Controller) handleRemoveCommand(ctx context.Context, s Session, log zerolog.Logger, args []string) {
	if len(args) != 1 {
		c.reply(s, log, msgRemoveUsage, nil)
		return
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		c.reply(s, log, msgRemoveBadID, nil)
		return
	}

	removed, err := c.store.Remove(ctx, s.ConversationID(), id)
	if errors.Is(err, ledger.ErrNotFound) {
		c.reply(s, log, fmt.Sprintf("Não foi encontrado nenhum gasto com ID %d.", id), nil)
		return
	}
	if err != nil {
		log.Error().Err(err).Int64("entry_id", id).Msg("Remove failed")
		c.reply(s, log, msgServiceDown, nil)
		return
	}

	c.reply(s, log, fmt.Sprintf("✅ Removido: %s - %s", removed.Item, report.FormatAmount(removed.UnitPrice)), nil)
}

// reply sends a message, logging delivery failures instead of surfacing them.
func (c *Controller) reply(s Session, log zerolog.Logger, text string, kb Keyboard) {
	if _, err := s.Reply(text, kb); err != nil {
		log.Error().Err(err).Msg("Failed to send reply")
	}
}

// edit rewrites the control's message, logging failures.
func (c *Controller) edit(s Session, log zerolog.Logger, text string, kb Keyboard) {
	if err := s.Edit(text, kb); err != nil {
		log.Error().Err(err).Msg("Failed to edit message")
	}
}

// acknowledge answers a button press, logging failures.
func (c *Controller) acknowledge(s Session, log zerolog.Logger, notice string) {
	if err := s.Acknowledge(notice); err != nil {
		log.Warn().Err(err).Msg("Failed to acknowledge button press")
	}
}

// extractionFailureMessage maps the extraction error taxonomy onto the
// user-facing Portuguese messages.
func extractionFailureMessage(err error) string {
	switch {
	case errors.Is(err, extract.ErrNoExtraction):
		return msgNotUnderstood
	case errors.Is(err, extract.ErrInvalidDraft):
		return msgInvalidValues
	case errors.Is(err, ai.ErrUnavailable):
		return msgServiceDown
	default:
		return msgServiceDown
	}
}
