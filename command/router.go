// Package command maps inbound bot commands to replies and registry
// mutations, independent of the messaging transport.
package command

import (
	"context"
	"fmt"
	"time"

	"github.com/raykavin/bitsobot/core"
	"github.com/raykavin/bitsobot/subscription"
)

const welcomeText = `Hi! 👋 I am the Bitso price bot.

Available commands:
/price - Show current prices 💰
/subscribe - Enable automatic updates ⚡
/unsubscribe - Disable automatic updates 🚫
/help - Show this help message ℹ️`

// Reporter builds an on-demand price report.
type Reporter interface {
	Report(ctx context.Context) string
}

// Router dispatches one command at a time; the registry provides all the
// locking the handlers need.
type Router struct {
	reporter Reporter
	registry *subscription.Registry
	interval time.Duration
	log      core.Logger
}

func NewRouter(reporter Reporter, registry *subscription.Registry, interval time.Duration, log core.Logger) *Router {
	return &Router{
		reporter: reporter,
		registry: registry,
		interval: interval,
		log:      log,
	}
}

// Start handles /start and /help.
func (r *Router) Start() string {
	return welcomeText
}

// Price handles /price: an on-demand report for the requester only.
func (r *Router) Price(ctx context.Context) string {
	return r.reporter.Report(ctx)
}

// Subscribe handles /subscribe, with a distinct reply when the chat was
// already subscribed.
func (r *Router) Subscribe(dest core.Destination) string {
	if !r.registry.Add(dest) {
		return "⚠️ Automatic updates are already enabled."
	}

	r.log.WithField("chat", dest).Info("chat subscribed")
	return fmt.Sprintf(
		"✅ Automatic updates enabled.\nYou will receive prices every %d minutes.",
		int(r.interval.Minutes()),
	)
}

// Unsubscribe handles /unsubscribe, with a distinct reply when the chat
// was not subscribed.
func (r *Router) Unsubscribe(dest core.Destination) string {
	if !r.registry.Remove(dest) {
		return "⚠️ Automatic updates are already disabled."
	}

	r.log.WithField("chat", dest).Info("chat unsubscribed")
	return "❌ Automatic updates disabled."
}
