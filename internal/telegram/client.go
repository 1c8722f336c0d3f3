// Package telegram exposes the estimator as a Telegram bot.
// Users send /estimate with key=value attributes and receive the price per
// square foot and total price formatted with MarkdownV2.
//
// The bot long-polls for updates until its context is cancelled. When a chat
// ID is configured, messages from any other chat are ignored.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/rewired-gh/ppsf/internal/estimator"
	"github.com/rewired-gh/ppsf/internal/logger"
	"github.com/rewired-gh/ppsf/internal/models"
)

// Client handles Telegram commands
type Client struct {
	bot     *tgbotapi.BotAPI
	chatID  int64 // 0 accepts any chat
	service *estimator.Service
}

// NewClient creates a new Telegram client
func NewClient(botToken, chatID string, service *estimator.Service) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	var chatIDInt int64
	if chatID != "" {
		chatIDInt, err = strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid chat ID: %w", err)
		}
	}

	return &Client{
		bot:     bot,
		chatID:  chatIDInt,
		service: service,
	}, nil
}

// ListenForCommands polls for updates in a background goroutine until ctx is done.
func (c *Client) ListenForCommands(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := c.bot.GetUpdatesChan(u)

	logger.Info("Telegram bot @%s listening for commands", c.bot.Self.UserName)

	go func() {
		for {
			select {
			case <-ctx.Done():
				c.bot.StopReceivingUpdates()
				return
			case update, ok := <-updates:
				if !ok {
					return
				}
				c.handleUpdate(ctx, update)
			}
		}
	}()
}

func (c *Client) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || !msg.IsCommand() || msg.Chat == nil {
		return
	}
	if c.chatID != 0 && msg.Chat.ID != c.chatID {
		logger.Debug("Ignoring command from chat %d", msg.Chat.ID)
		return
	}

	text := c.reply(ctx, msg.Command(), msg.CommandArguments())

	out := tgbotapi.NewMessage(msg.Chat.ID, text)
	out.ParseMode = tgbotapi.ModeMarkdownV2
	out.ReplyToMessageID = msg.MessageID
	if _, err := c.bot.Send(out); err != nil {
		logger.Warn("Failed to send Telegram reply: %v", err)
	}
}

// reply computes the MarkdownV2 answer to one command.
func (c *Client) reply(ctx context.Context, command, args string) string {
	switch command {
	case "estimate":
		tables := c.service.Tables()
		attrs, err := parseAttributes(args, tables.DefaultAttributes(), tables.FirstZip)
		if err != nil {
			return formatError(err)
		}
		est, err := c.service.Estimate(ctx, attrs)
		if err != nil {
			return formatError(err)
		}
		return formatEstimate(est)
	case "cities":
		return formatCities(c.service.Tables())
	case "start", "help":
		return helpMessage()
	default:
		return escapeMarkdownV2(fmt.Sprintf("Unknown command /%s. Try /help.", command))
	}
}

func formatError(err error) string {
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		return "⚠️ " + escapeMarkdownV2(err.Error())
	default:
		logger.Error("Telegram estimate failed: %v", err)
		return "❌ " + escapeMarkdownV2("Sorry, the estimate could not be computed right now.")
	}
}
