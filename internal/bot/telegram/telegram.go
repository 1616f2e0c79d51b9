// Package telegram adapts the Telegram Bot API to the bot.Transport
// contract using long polling.
package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	tele "gopkg.in/telebot.v3"

	"github.com/dvloznov/gastobot/internal/bot"
)

const pollTimeout = 10 * time.Second

// Transport drives a Telegram bot and routes its updates to the registered
// handlers. Button presses are dispatched on the control identifier prefix,
// first registered match wins.
type Transport struct {
	bot     *tele.Bot
	log     zerolog.Logger
	baseCtx context.Context
	routes  []route
}

type route struct {
	prefix  string
	handler bot.ButtonHandler
}

var _ bot.Transport = (*Transport)(nil)

// New connects to the Telegram Bot API with the given token.
func New(botToken string, log zerolog.Logger) (*Transport, error) {
	t := &Transport{log: log, baseCtx: context.Background()}

	b, err := tele.NewBot(tele.Settings{
		Token:     botToken,
		Poller:    &tele.LongPoller{Timeout: pollTimeout},
		ParseMode: tele.ModeMarkdown,
		OnError: func(err error, c tele.Context) {
			log.Error().Err(err).Msg("Telegram handler error")
		},
	})
	if err != nil {
		return nil, fmt.Errorf("New: create telegram bot: %w", err)
	}

	t.bot = b
	b.Handle(tele.OnCallback, t.dispatchButton)
	return t, nil
}

// OnText registers the plain text handler.
func (t *Transport) OnText(h bot.TextHandler) {
	t.bot.Handle(tele.OnText, func(c tele.Context) error {
		h(t.baseCtx, t.session(c), c.Text())
		return nil
	})
}

// OnButton registers a handler for control identifiers under prefix.
func (t *Transport) OnButton(prefix string, h bot.ButtonHandler) {
	t.routes = append(t.routes, route{prefix: prefix, handler: h})
}

func (t *Transport) dispatchButton(c tele.Context) error {
	// Telegram callback payloads built by telebot helpers carry a \f marker.
	data := strings.TrimPrefix(c.Callback().Data, "\f")

	for _, r := range t.routes {
		if strings.HasPrefix(data, r.prefix) {
			r.handler(t.baseCtx, t.session(c), data)
			return nil
		}
	}

	t.log.Warn().Str("data", data).Msg("Button press matched no registered handler")
	return c.Respond(&tele.CallbackResponse{})
}

// Send delivers a message outside any update flow.
func (t *Transport) Send(conversationID, text string, kb bot.Keyboard) error {
	chatID, err := strconv.ParseInt(conversationID, 10, 64)
	if err != nil {
		return fmt.Errorf("Send: parse conversation id %q: %w", conversationID, err)
	}

	if _, err := t.bot.Send(tele.ChatID(chatID), text, sendOptions(kb)...); err != nil {
		return fmt.Errorf("Send: %w", err)
	}
	return nil
}

// Start begins long polling and blocks until the context is cancelled.
func (t *Transport) Start(ctx context.Context) error {
	t.baseCtx = ctx

	go func() {
		<-ctx.Done()
		t.bot.Stop()
	}()

	t.log.Info().Str("bot", t.bot.Me.Username).Msg("Telegram transport started")
	t.bot.Start()
	return ctx.Err()
}

// Stop shuts polling down.
func (t *Transport) Stop() {
	t.bot.Stop()
}

func (t *Transport) session(c tele.Context) *session {
	return &session{bot: t.bot, c: c}
}

// session is the per-update reply surface.
type session struct {
	bot *tele.Bot
	c   tele.Context
}

var _ bot.Session = (*session)(nil)

func (s *session) ConversationID() string {
	return strconv.FormatInt(s.c.Chat().ID, 10)
}

func (s *session) Reply(text string, kb bot.Keyboard) (bot.MessageID, error) {
	msg, err := s.bot.Send(s.c.Chat(), text, sendOptions(kb)...)
	if err != nil {
		return 0, fmt.Errorf("Reply: %w", err)
	}
	return bot.MessageID(msg.ID), nil
}

func (s *session) Edit(text string, kb bot.Keyboard) error {
	if s.c.Callback() == nil {
		return nil
	}
	if err := s.c.Edit(text, sendOptions(kb)...); err != nil {
		return fmt.Errorf("Edit: %w", err)
	}
	return nil
}

func (s *session) Delete(id bot.MessageID) error {
	stored := tele.StoredMessage{
		MessageID: strconv.Itoa(int(id)),
		ChatID:    s.c.Chat().ID,
	}
	if err := s.bot.Delete(stored); err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	return nil
}

func (s *session) DeleteCurrent() error {
	cb := s.c.Callback()
	if cb == nil || cb.Message == nil {
		return nil
	}
	if err := s.bot.Delete(cb.Message); err != nil {
		return fmt.Errorf("DeleteCurrent: %w", err)
	}
	return nil
}

func (s *session) Acknowledge(notice string) error {
	if s.c.Callback() == nil {
		return nil
	}
	if err := s.c.Respond(&tele.CallbackResponse{Text: notice}); err != nil {
		return fmt.Errorf("Acknowledge: %w", err)
	}
	return nil
}

// sendOptions translates a keyboard into telebot send options. An empty
// keyboard yields no options so messages go out without markup.
func sendOptions(kb bot.Keyboard) []interface{} {
	if len(kb) == 0 {
		return nil
	}

	rows := make([][]tele.InlineButton, len(kb))
	for i, row := range kb {
		rows[i] = make([]tele.InlineButton, len(row))
		for j, btn := range row {
			rows[i][j] = tele.InlineButton{Text: btn.Label, Data: btn.Data}
		}
	}
	return []interface{}{&tele.ReplyMarkup{InlineKeyboard: rows}}
}
