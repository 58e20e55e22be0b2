package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"

	"github.com/khanhnv2901/sitecheck-bot/internal/application/report"
	"github.com/khanhnv2901/sitecheck-bot/internal/application/session"
	sharedErrors "github.com/khanhnv2901/sitecheck-bot/internal/shared/errors"
)

// botAPI is the subset of *tgbotapi.BotAPI the client calls.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Client implements session.Transport on the Telegram Bot API. Outbound calls
// share one rate limiter to stay under the platform's flood limits.
type Client struct {
	api     botAPI
	bot     *tgbotapi.BotAPI
	limiter *rate.Limiter
}

var _ session.Transport = (*Client)(nil)

// New authenticates with token and returns a client limited to sendRate calls per second.
func New(token string, sendRate int, debug bool) (*Client, error) {
	if token == "" {
		return nil, sharedErrors.ErrMissingToken
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("connect to telegram: %w", err)
	}
	bot.Debug = debug

	c := newClient(bot, sendRate)
	c.bot = bot
	return c, nil
}

func newClient(api botAPI, sendRate int) *Client {
	c := &Client{api: api}
	if sendRate > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(sendRate), sendRate)
	}
	return c
}

// Username returns the bot's account name.
func (c *Client) Username() string {
	if c.bot == nil {
		return ""
	}
	return c.bot.Self.UserName
}

// Updates starts long polling with the given timeout in seconds.
func (c *Client) Updates(timeoutSecs int) tgbotapi.UpdatesChannel {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeoutSecs
	return c.bot.GetUpdatesChan(u)
}

// Stop ends long polling and closes the updates channel.
func (c *Client) Stop() {
	if c.bot != nil {
		c.bot.StopReceivingUpdates()
	}
}

// SendText sends a text message, optionally as a reply and with a button.
func (c *Client) SendText(ctx context.Context, chatID int64, replyTo int, text string, button *report.Button) (session.MessageRef, error) {
	if err := c.wait(ctx); err != nil {
		return session.MessageRef{}, err
	}
	cfg := tgbotapi.NewMessage(chatID, text)
	cfg.ReplyToMessageID = replyTo
	if kb := keyboard(button); kb != nil {
		cfg.ReplyMarkup = *kb
	}
	msg, err := c.api.Send(cfg)
	if err != nil {
		return session.MessageRef{}, fmt.Errorf("send message: %w", err)
	}
	return refOf(msg, chatID), nil
}

// SendPhoto uploads the file at path with a caption.
func (c *Client) SendPhoto(ctx context.Context, chatID int64, replyTo int, path, caption string, button *report.Button) (session.MessageRef, error) {
	if err := c.wait(ctx); err != nil {
		return session.MessageRef{}, err
	}
	cfg := tgbotapi.NewPhoto(chatID, tgbotapi.FilePath(path))
	cfg.Caption = caption
	cfg.ReplyToMessageID = replyTo
	if kb := keyboard(button); kb != nil {
		cfg.ReplyMarkup = *kb
	}
	msg, err := c.api.Send(cfg)
	if err != nil {
		return session.MessageRef{}, fmt.Errorf("send photo: %w", err)
	}
	return refOf(msg, chatID), nil
}

// EditText replaces a text message's body and button.
func (c *Client) EditText(ctx context.Context, ref session.MessageRef, text string, button *report.Button) error {
	if err := c.wait(ctx); err != nil {
		return err
	}
	cfg := tgbotapi.NewEditMessageText(ref.ChatID, ref.MessageID, text)
	cfg.ReplyMarkup = keyboard(button)
	if _, err := c.api.Request(cfg); err != nil {
		return fmt.Errorf("edit message text: %w", err)
	}
	return nil
}

// EditCaption replaces a photo message's caption and button.
func (c *Client) EditCaption(ctx context.Context, ref session.MessageRef, caption string, button *report.Button) error {
	if err := c.wait(ctx); err != nil {
		return err
	}
	cfg := tgbotapi.NewEditMessageCaption(ref.ChatID, ref.MessageID, caption)
	cfg.ReplyMarkup = keyboard(button)
	if _, err := c.api.Request(cfg); err != nil {
		return fmt.Errorf("edit message caption: %w", err)
	}
	return nil
}

// Delete removes a message.
func (c *Client) Delete(ctx context.Context, ref session.MessageRef) error {
	if err := c.wait(ctx); err != nil {
		return err
	}
	if _, err := c.api.Request(tgbotapi.NewDeleteMessage(ref.ChatID, ref.MessageID)); err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}

// AnswerCallback acknowledges a button press, optionally as an alert popup.
func (c *Client) AnswerCallback(ctx context.Context, queryID, text string, alert bool) error {
	if err := c.wait(ctx); err != nil {
		return err
	}
	cfg := tgbotapi.NewCallback(queryID, text)
	if alert {
		cfg = tgbotapi.NewCallbackWithAlert(queryID, text)
	}
	if _, err := c.api.Request(cfg); err != nil {
		return fmt.Errorf("answer callback: %w", err)
	}
	return nil
}

func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

func keyboard(button *report.Button) *tgbotapi.InlineKeyboardMarkup {
	if button == nil {
		return nil
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(button.Label, button.Payload),
		),
	)
	return &kb
}

func refOf(msg tgbotapi.Message, fallbackChat int64) session.MessageRef {
	ref := session.MessageRef{ChatID: fallbackChat, MessageID: msg.MessageID}
	if msg.Chat != nil {
		ref.ChatID = msg.Chat.ID
	}
	return ref
}
