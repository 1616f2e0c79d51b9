package bot

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/dvloznov/gastobot/internal/report"
)

// Broadcaster pushes scheduled summaries to a fixed set of conversations.
// One conversation failing never blocks the others, and conversations with
// nothing to report are skipped silently.
type Broadcaster struct {
	transport     Transport
	reporter      *report.Reporter
	conversations []string
	log           zerolog.Logger
}

// NewBroadcaster wires a broadcaster over the given conversation ids.
func NewBroadcaster(transport Transport, reporter *report.Reporter, conversations []string, log zerolog.Logger) *Broadcaster {
	return &Broadcaster{
		transport:     transport,
		reporter:      reporter,
		conversations: conversations,
		log:           log,
	}
}

// Daily sends each conversation its summary for the current day.
func (b *Broadcaster) Daily(ctx context.Context) {
	b.fanOut(ctx, "daily", b.sendDaily)
}

// Weekly sends each conversation its seven-day summary with an AI insight
// appended when the insight service is reachable.
func (b *Broadcaster) Weekly(ctx context.Context) {
	b.fanOut(ctx, "weekly", b.sendWeekly)
}

func (b *Broadcaster) fanOut(ctx context.Context, kind string, send func(ctx context.Context, conversationID string) error) {
	g := new(errgroup.Group)
	for _, conversationID := range b.conversations {
		g.Go(func() error {
			if err := send(ctx, conversationID); err != nil {
				b.log.Error().Err(err).
					Str("broadcast", kind).
					Str("conversation_id", conversationID).
					Msg("Broadcast delivery failed")
			}
			return nil
		})
	}
	_ = g.Wait()
}

func (b *Broadcaster) sendDaily(ctx context.Context, conversationID string) error {
	entries, err := b.reporter.Daily(ctx, conversationID)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	text := "🌙 Resumo diário de gastos:\n\n" + report.Summarize(entries)
	return b.transport.Send(conversationID, text, broadcastKeyboard(len(entries)))
}

func (b *Broadcaster) sendWeekly(ctx context.Context, conversationID string) error {
	entries, err := b.reporter.Weekly(ctx, conversationID)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	text := "🌙 Resumo semanal de gastos:\n\n" + report.Summarize(entries)

	// The summary is still worth sending when the insight service is down.
	insight, err := b.reporter.WeeklyInsight(ctx, entries)
	if err != nil {
		b.log.Warn().Err(err).
			Str("conversation_id", conversationID).
			Msg("Weekly insight unavailable, sending summary alone")
	} else {
		text += "\n\n💡 *Insights da IA*:\n" + insight
	}

	return b.transport.Send(conversationID, text, broadcastKeyboard(len(entries)))
}
