// Package notification provides the Telegram messaging transport.
package notification

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/raykavin/bitsobot/command"
	"github.com/raykavin/bitsobot/core"
	tb "gopkg.in/tucnak/telebot.v2"
)

const pollingTimeout = 10 * time.Second

// Telegram implements the core.MessengerWithStart interface and wires
// inbound commands to the command router.
type Telegram struct {
	client *tb.Bot
	router *command.Router
	log    core.Logger
}

// Option is a function that configures a Telegram instance.
type Option func(*Telegram)

// NewTelegram creates and initializes a new Telegram transport.
func NewTelegram(router *command.Router, settings *core.Settings, log core.Logger, options ...Option) (
	core.MessengerWithStart,
	error,
) {
	client, err := initializeBotClient(settings)
	if err != nil {
		return nil, err
	}

	if err := setupCommands(client); err != nil {
		return nil, fmt.Errorf("failed to set commands: %w", err)
	}

	bot := &Telegram{
		client: client,
		router: router,
		log:    log,
	}

	// Apply custom options if provided
	for _, option := range options {
		option(bot)
	}

	registerHandlers(client, bot)

	return bot, nil
}

// initializeBotClient creates and configures the Telegram bot client
func initializeBotClient(settings *core.Settings) (*tb.Bot, error) {
	client, err := tb.NewBot(tb.Settings{
		Token:  settings.Telegram.Token,
		Poller: &tb.LongPoller{Timeout: pollingTimeout},
	})

	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	return client, nil
}

// setupCommands configures available bot commands
func setupCommands(client *tb.Bot) error {
	return client.SetCommands([]tb.Command{
		{Text: "/start", Description: "Show the welcome message"},
		{Text: "/help", Description: "Display help instructions"},
		{Text: "/price", Description: "Show current prices"},
		{Text: "/subscribe", Description: "Enable automatic price updates"},
		{Text: "/unsubscribe", Description: "Disable automatic price updates"},
	})
}

// registerHandlers registers all command handlers
func registerHandlers(client *tb.Bot, bot *Telegram) {
	client.Handle("/start", bot.StartHandle)
	client.Handle("/help", bot.StartHandle)
	client.Handle("/price", bot.PriceHandle)
	client.Handle("/subscribe", bot.SubscribeHandle)
	client.Handle("/unsubscribe", bot.UnsubscribeHandle)
}

// Start begins long polling for inbound commands.
func (t *Telegram) Start() {
	go t.client.Start()
	t.log.Info("telegram transport started")
}

// Send delivers a text message to a destination. Failures are returned
// as *core.DeliveryError with permanent rejections flagged, so callers
// can prune dead chats without matching on error strings.
func (t *Telegram) Send(dest core.Destination, text string) error {
	_, err := t.client.Send(tb.ChatID(dest), text)
	if err == nil {
		return nil
	}

	return &core.DeliveryError{
		Destination: dest,
		Permanent:   isPermanentRejection(err),
		Err:         err,
	}
}

// isPermanentRejection reports whether a telebot error means the chat
// will never accept messages again. Anything unclassifiable counts as
// transient so delivery is retried rather than silently dropped.
func isPermanentRejection(err error) bool {
	switch {
	case errors.Is(err, tb.ErrBlockedByUser),
		errors.Is(err, tb.ErrChatNotFound),
		errors.Is(err, tb.ErrUserIsDeactivated),
		errors.Is(err, tb.ErrBotKickedFromGroup),
		errors.Is(err, tb.ErrBotKickedFromSuperGroup):
		return true
	}

	var apiErr *tb.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusForbidden
	}

	return false
}

// Command handlers
// ---------------

// StartHandle handles /start and /help.
func (t *Telegram) StartHandle(m *tb.Message) {
	t.reply(m, t.router.Start())
}

// PriceHandle handles /price with an on-demand report for the requester.
func (t *Telegram) PriceHandle(m *tb.Message) {
	t.reply(m, t.router.Price(context.Background()))
}

// SubscribeHandle handles /subscribe for the requesting chat.
func (t *Telegram) SubscribeHandle(m *tb.Message) {
	t.reply(m, t.router.Subscribe(core.Destination(m.Chat.ID)))
}

// UnsubscribeHandle handles /unsubscribe for the requesting chat.
func (t *Telegram) UnsubscribeHandle(m *tb.Message) {
	t.reply(m, t.router.Unsubscribe(core.Destination(m.Chat.ID)))
}

// reply sends a response back to the chat a message came from.
func (t *Telegram) reply(m *tb.Message, text string) {
	if _, err := t.client.Send(m.Chat, text); err != nil {
		t.log.WithError(err).WithField("chat", m.Chat.ID).Error("failed to send reply")
	}
}
