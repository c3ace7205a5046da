// Package bot wires the price tracker, subscription registry, scheduler,
// and messaging transport into one application context.
package bot

import (
	"context"

	"github.com/raykavin/bitsobot/broadcast"
	"github.com/raykavin/bitsobot/command"
	"github.com/raykavin/bitsobot/core"
	"github.com/raykavin/bitsobot/market"
	"github.com/raykavin/bitsobot/notification"
	"github.com/raykavin/bitsobot/subscription"
)

// Bot owns every stateful collaborator explicitly; there are no
// package-level singletons.
type Bot struct {
	settings *core.Settings
	log      core.Logger

	tracker   *market.Tracker
	reporter  *market.Reporter
	registry  *subscription.Registry
	router    *command.Router
	scheduler *broadcast.Scheduler
	messenger core.MessengerWithStart
}

// Option is a function that configures a Bot instance.
type Option func(*Bot)

// WithMessenger injects a messaging transport, replacing the default
// Telegram client. Mainly useful in tests.
func WithMessenger(messenger core.MessengerWithStart) Option {
	return func(b *Bot) {
		b.messenger = messenger
	}
}

// NewBot creates a bot instance with the provided settings and quote
// source. The Telegram transport is created unless one is injected.
func NewBot(settings *core.Settings, quoter core.Quoter, log core.Logger, options ...Option) (*Bot, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	tracker := market.NewTracker(quoter, log)
	reporter := market.NewReporter(tracker, settings.Pairs)
	registry := subscription.NewRegistry()
	router := command.NewRouter(reporter, registry, settings.UpdateInterval, log)

	bot := &Bot{
		settings: settings,
		log:      log,
		tracker:  tracker,
		reporter: reporter,
		registry: registry,
		router:   router,
	}

	// Apply custom options if provided
	for _, option := range options {
		option(bot)
	}

	if bot.messenger == nil {
		messenger, err := notification.NewTelegram(router, settings, log)
		if err != nil {
			return nil, err
		}
		bot.messenger = messenger
	}

	bot.scheduler = broadcast.NewScheduler(
		settings.UpdateInterval,
		registry,
		reporter,
		bot.messenger,
		log,
	)

	return bot, nil
}

// Run starts the broadcast scheduler and the command listener, then
// blocks until the context is canceled.
func (b *Bot) Run(ctx context.Context) error {
	b.log.Infof("starting bot, tracking %d pairs", len(b.settings.Pairs))

	go b.scheduler.Run(ctx)
	b.messenger.Start()

	<-ctx.Done()
	b.log.Info("bot stopped")

	return ctx.Err()
}
