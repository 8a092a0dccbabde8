// Package transport defines the chat-facing boundary. The bot core speaks
// only these types; the concrete chat network lives in a subpackage so the
// core can be exercised against a fake in tests.
package transport

import "context"

// MaxControlDataBytes is the payload-size ceiling the chat network imposes
// on per-control callback data. Encoded tokens must fit within it.
const MaxControlDataBytes = 64

// Control is one tappable button. Data round-trips back verbatim in the
// resulting callback Update.
type Control struct {
	Label string
	Data  string
	URL   string
}

// Message is an outbound text message with an optional control grid.
type Message struct {
	Text     string
	ImageURL string
	Controls [][]Control
}

// Audio is an outbound audio attachment.
type Audio struct {
	Title           string
	Performer       string
	FileName        string
	DurationSeconds int
	ThumbURL        string
	Caption         string
	Data            []byte
}

// Update is one inbound chat event: either a text message (possibly a
// command) or a control tap.
type Update struct {
	UserID    int64
	ChatID    int64
	MessageID int64
	UserName  string

	// Text message fields. Command is set (without the leading slash) when
	// the text is a command.
	Text    string
	Command string

	// Control tap fields. CallbackID is non-empty iff this is a tap.
	CallbackID   string
	CallbackData string
}

// IsCallback reports whether the update is a control tap.
func (u Update) IsCallback() bool { return u.CallbackID != "" }

// Sender is the outbound half of the chat boundary.
type Sender interface {
	// Send delivers a new message and returns its id.
	Send(ctx context.Context, chatID int64, msg Message) (int64, error)
	// Edit replaces an existing message's text and controls.
	Edit(ctx context.Context, chatID, messageID int64, msg Message) error
	// EditControls replaces only the control grid of an existing message.
	EditControls(ctx context.Context, chatID, messageID int64, controls [][]Control) error
	// Delete removes a message.
	Delete(ctx context.Context, chatID, messageID int64) error
	// SendAudio delivers an audio attachment.
	SendAudio(ctx context.Context, chatID int64, audio Audio) error
	// Answer acknowledges a control tap, optionally flashing a notice.
	Answer(ctx context.Context, callbackID, notice string) error
}

// Transport is the full chat boundary: outbound sends plus the inbound
// update stream.
type Transport interface {
	Sender
	// Updates delivers inbound events until ctx is cancelled. The channel
	// is closed on return.
	Updates(ctx context.Context) <-chan Update
}
