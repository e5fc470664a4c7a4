// Package bot runs the Telegram companion bot that hands users the chat id
// they register as a device token for reminder delivery.
package bot

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const pollTimeout = 60

type botAPI interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot answers private chats with the chat id used by the telegram push transport.
type Bot struct {
	api    botAPI
	logger *log.Logger
}

func New(token string, logger *log.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	logger = logger.WithPrefix("bot")
	logger.Info("bot authorized", "account", api.Self.UserName)

	return &Bot{api: api, logger: logger}, nil
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = pollTimeout
	updates := b.api.GetUpdatesChan(updateConfig)

	b.logger.Info("start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		msg := update.Message
		if msg == nil || msg.Chat == nil || !msg.Chat.IsPrivate() {
			continue
		}
		if err := b.handleMessage(msg); err != nil {
			b.logger.Warn("handle message", "chat", msg.Chat.ID, "err", err)
		}
	}

	return nil
}

func (b *Bot) handleMessage(msg *tgbotapi.Message) error {
	if !msg.IsCommand() {
		return b.sendText(msg.Chat.ID, "Send /token to get the device token for the planner app, or /help for the command list.")
	}

	b.logger.Debug("command", "chat", msg.Chat.ID, "command", msg.Command())

	switch msg.Command() {
	case "start":
		return b.handleStart(msg)
	case "token":
		return b.sendText(msg.Chat.ID, tokenText(msg.Chat.ID))
	case "help":
		return b.sendText(msg.Chat.ID, helpText)
	default:
		return b.sendText(msg.Chat.ID, "Command is not supported. See /help.")
	}
}

func (b *Bot) handleStart(msg *tgbotapi.Message) error {
	name := ""
	if msg.From != nil {
		name = strings.TrimSpace(msg.From.FirstName)
	}
	if name == "" {
		name = "there"
	}

	text := fmt.Sprintf("👋 Hi, %s!\n<b>I deliver your task reminders.</b>\n\n%s", html.EscapeString(name), tokenText(msg.Chat.ID))
	return b.sendText(msg.Chat.ID, text)
}

const helpText = "ℹ️ <b>Commands</b>\n" +
	"• /token: show the device token for this chat\n" +
	"• /help: this message"

func tokenText(chatID int64) string {
	return fmt.Sprintf("Your device token is <code>%s</code>.\nPaste it into the planner app settings to get reminders here.", strconv.FormatInt(chatID, 10))
}

func (b *Bot) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}
