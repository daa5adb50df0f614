package notifier

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramNotifier sends reports via the Telegram Bot API.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramNotifier creates a notifier for the configured chat.
func NewTelegramNotifier(botToken, chatID string) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid chat id %q: %w", chatID, err)
	}
	return &TelegramNotifier{bot: bot, chatID: id}, nil
}

// SendWithRetry sends an HTML-formatted message, retrying with linear
// backoff. It gives up early if the context is cancelled.
func (t *TelegramNotifier) SendWithRetry(ctx context.Context, text string, attempts int) error {
	if attempts <= 0 {
		attempts = 3
	}
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML

	var lastErr error
	for i := 0; i < attempts; i++ {
		if _, err := t.bot.Send(msg); err == nil {
			return nil
		} else {
			lastErr = err
			log.Printf("[WARN] telegram send attempt %d/%d failed: %v", i+1, attempts, err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second * time.Duration(i+1)):
		}
	}
	return fmt.Errorf("send after %d attempts: %w", attempts, lastErr)
}
