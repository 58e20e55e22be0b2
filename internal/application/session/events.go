package session

import (
	"context"

	"github.com/khanhnv2901/sitecheck-bot/internal/application/report"
)

// Event kinds, used for logging and metrics labels.
const (
	KindCommand  = "command"
	KindText     = "text"
	KindCallback = "callback"
)

// CommandStart is the only command the bot answers.
const CommandStart = "start"

// MessageRef addresses a message the bot has sent or is editing.
type MessageRef struct {
	ChatID    int64
	MessageID int
}

// Command is a slash command such as /start.
type Command struct {
	Name      string
	SenderID  int64
	ChatID    int64
	MessageID int
}

// TextMessage is a plain text message, interpreted as a URL.
type TextMessage struct {
	SenderID  int64
	ChatID    int64
	MessageID int
	Text      string
}

// CallbackPress is an inline button press.
type CallbackPress struct {
	SenderID int64
	QueryID  string
	Message  MessageRef
	// HasMedia is true when the pressed message carries a photo, so its
	// caption rather than its text must be edited.
	HasMedia bool
	Payload  string
}

// Transport is the outbound surface of the chat platform.
type Transport interface {
	SendText(ctx context.Context, chatID int64, replyTo int, text string, button *report.Button) (MessageRef, error)
	SendPhoto(ctx context.Context, chatID int64, replyTo int, path, caption string, button *report.Button) (MessageRef, error)
	EditText(ctx context.Context, ref MessageRef, text string, button *report.Button) error
	EditCaption(ctx context.Context, ref MessageRef, caption string, button *report.Button) error
	Delete(ctx context.Context, ref MessageRef) error
	AnswerCallback(ctx context.Context, queryID, text string, alert bool) error
}
