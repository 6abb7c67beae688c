// internal/infra/telegram/client.go
package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"homework_status_bot/internal/domain/homework"

	"golang.org/x/time/rate"
	"gopkg.in/telebot.v3"
)

// MaxMessageRunes is the Bot API limit for sendMessage text.
const MaxMessageRunes = 4096

// Sender is the part of *telebot.Bot used by the adapter.
type Sender interface {
	Send(to telebot.Recipient, what interface{}, opts ...interface{}) (*telebot.Message, error)
}

// TelebotAdapter implements the Client interface using the gopkg.in/telebot.v3 library.
// Sends are throttled by a token bucket and bounded by a timeout.
type TelebotAdapter struct {
	bot     Sender
	limiter *rate.Limiter
	timeout time.Duration
}

// NewTelebotAdapter wraps b. ratePerSec <= 0 disables throttling.
func NewTelebotAdapter(b Sender, ratePerSec int, timeout time.Duration) *TelebotAdapter {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if ratePerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(ratePerSec), ratePerSec)
	}
	return &TelebotAdapter{bot: b, limiter: limiter, timeout: timeout}
}

// SendMessage sends a plain text message to chatID, cut to MaxMessageRunes.
// Every failure is wrapped with homework.ErrDelivery.
func (tba *TelebotAdapter) SendMessage(ctx context.Context, chatID int64, text string) error {
	if tba.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, tba.timeout)
		defer cancel()
	}
	if err := tba.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: chat %d: waiting for send slot: %v", homework.ErrDelivery, chatID, err)
	}

	type result struct{ err error }
	done := make(chan result, 1)
	go func() {
		_, err := tba.bot.Send(telebot.ChatID(chatID), limitText(text), &telebot.SendOptions{})
		done <- result{err: err}
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: chat %d: %v", homework.ErrDelivery, chatID, ctx.Err())
	case res := <-done:
		if res.err != nil {
			return fmt.Errorf("%w: chat %d: %v", homework.ErrDelivery, chatID, redact(res.err))
		}
		return nil
	}
}

// NewBot builds a send-only bot. The HTTP client timeout bounds every Bot API call.
func NewBot(token, apiURL string, timeout time.Duration, offline bool) (*telebot.Bot, error) {
	bot, err := telebot.NewBot(telebot.Settings{
		URL:     apiURL,
		Token:   token,
		Client:  &http.Client{Timeout: timeout},
		Offline: offline,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}
	return bot, nil
}

func limitText(text string) string {
	runes := []rune(text)
	if len(runes) <= MaxMessageRunes {
		return text
	}
	return string(runes[:MaxMessageRunes-1]) + "…"
}

// redact drops the request URL from transport errors; it embeds the bot token.
func redact(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}
