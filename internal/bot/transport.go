package bot

import (
	"context"
)

// MessageID identifies a message previously sent in a conversation, for
// later editing or deletion.
type MessageID int

// Button is one interactive control. Data is the opaque control identifier
// delivered back on press; it must honor the documented token grammar.
type Button struct {
	Label string
	Data  string
}

// Keyboard is rows of buttons attached to a message.
type Keyboard [][]Button

// Session is the reply surface for one incoming update. Edit, DeleteCurrent
// and Acknowledge act on the message bearing the pressed control and are
// no-ops for plain text updates.
type Session interface {
	// ConversationID identifies the chat/thread this update belongs to.
	ConversationID() string

	// Reply sends a new message to the conversation.
	Reply(text string, kb Keyboard) (MessageID, error)

	// Edit rewrites the message the pressed control is attached to.
	Edit(text string, kb Keyboard) error

	// Delete removes a previously sent message by id.
	Delete(id MessageID) error

	// DeleteCurrent removes the message the pressed control is attached to.
	DeleteCurrent() error

	// Acknowledge answers a button press, optionally with a short notice.
	Acknowledge(notice string) error
}

// TextHandler processes an incoming text message.
type TextHandler func(ctx context.Context, s Session, text string)

// ButtonHandler processes a button press. data is the full control
// identifier, including any prefix it was registered under.
type ButtonHandler func(ctx context.Context, s Session, data string)

// Transport abstracts the chat service. Implementations deliver incoming
// updates to the registered handlers and send outbound messages.
// This abstraction keeps the controller independent of the chat platform
// and lets tests drive it with a scripted transport.
type Transport interface {
	// OnText registers the handler for plain text messages.
	OnText(h TextHandler)

	// OnButton registers a handler for button presses whose control
	// identifier starts with prefix. The first registered matching prefix
	// wins.
	OnButton(prefix string, h ButtonHandler)

	// Send delivers a message to a conversation outside any update flow,
	// used by scheduled broadcasts.
	Send(conversationID, text string, kb Keyboard) error

	// Start begins delivering updates and blocks until the context is
	// cancelled or the transport fails.
	Start(ctx context.Context) error

	// Stop shuts the transport down.
	Stop()
}
