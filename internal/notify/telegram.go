package notify

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type telegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramTransport delivers reminders as Telegram bot messages. The device
// token is the numeric chat id the user registered from the bot.
type TelegramTransport struct {
	api telegramSender
}

func NewTelegramTransport(botToken string) (*TelegramTransport, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("init telegram bot: %w", err)
	}
	return &TelegramTransport{api: api}, nil
}

func (t *TelegramTransport) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	chatID, err := strconv.ParseInt(strings.TrimSpace(msg.Token), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: chat id %q", ErrInvalidToken, msg.Token)
	}

	text := fmt.Sprintf("🔔 <b>%s</b>\n%s", html.EscapeString(msg.Title), html.EscapeString(msg.Body))
	out := tgbotapi.NewMessage(chatID, text)
	out.ParseMode = tgbotapi.ModeHTML
	if _, err := t.api.Send(out); err != nil {
		var apiErr *tgbotapi.Error
		if errors.As(err, &apiErr) && (apiErr.Code == http.StatusBadRequest || apiErr.Code == http.StatusForbidden) {
			return fmt.Errorf("%w: %s", ErrInvalidToken, apiErr.Message)
		}
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}
