package telegram

import "context"

// Client defines an interface for sending messages via a Telegram bot.
// This helps in decoupling the polling logic from the specific bot library.
type Client interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}
