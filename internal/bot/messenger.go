package bot

import "context"

// Messenger delivers text to a chat and removes messages from it.
type Messenger interface {
	SendText(ctx context.Context, chatID int64, text string) error
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
}

// Incoming is a text message received from a chat.
type Incoming struct {
	ChatID    int64
	MessageID int
	Text      string
}
