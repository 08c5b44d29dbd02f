package notify

import (
	"context"
	"errors"
	"fmt"
	"html"
	"sync/atomic"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ErrNoChat means no chat has granted the tracker a delivery channel yet.
// The analog of a denied notification permission: alerts are suppressed
// without affecting task management.
var ErrNoChat = errors.New("no chat bound for notifications")

// Telegram delivers notifications as messages to the chat bound to the
// active session.
type Telegram struct {
	api    *tgbotapi.BotAPI
	chatID atomic.Int64
}

func NewTelegram(api *tgbotapi.BotAPI) *Telegram {
	return &Telegram{api: api}
}

// Bind points deliveries at the given chat. Called when a session opens.
func (n *Telegram) Bind(chatID int64) {
	n.chatID.Store(chatID)
}

// Unbind suppresses deliveries. Called on logout.
func (n *Telegram) Unbind() {
	n.chatID.Store(0)
}

func (n *Telegram) Notify(ctx context.Context, title, body string) error {
	_ = ctx

	chatID := n.chatID.Load()
	if chatID == 0 {
		return ErrNoChat
	}

	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("🔔 <b>%s</b>\n%s", html.EscapeString(title), html.EscapeString(body)))
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	return nil
}

var _ Notifier = (*Telegram)(nil)
