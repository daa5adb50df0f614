package notifier

import (
	"context"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// CommandHandler processes a user command and returns a reply.
// An empty reply means the handler already responded out of band.
type CommandHandler func(command string) string

// StartPolling consumes bot updates until the context is cancelled,
// forwarding text messages from the configured chat to the handler.
func (t *TelegramNotifier) StartPolling(ctx context.Context, handle CommandHandler) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := t.bot.GetUpdatesChan(u)
	for {
		select {
		case <-ctx.Done():
			t.bot.StopReceivingUpdates()
			log.Println("[INFO] telegram polling stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil || update.Message.Chat == nil {
				continue
			}
			if update.Message.Chat.ID != t.chatID {
				continue
			}
			reply := handle(update.Message.Text)
			if reply == "" {
				continue
			}
			msg := tgbotapi.NewMessage(t.chatID, reply)
			msg.ParseMode = tgbotapi.ModeHTML
			if _, err := t.bot.Send(msg); err != nil {
				log.Printf("[ERROR] telegram reply: %v", err)
			}
		}
	}
}
