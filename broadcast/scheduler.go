// Package broadcast fans price reports out to subscribed chats on a
// fixed period.
package broadcast

import (
	"context"
	"time"

	"github.com/raykavin/bitsobot/core"
	"github.com/raykavin/bitsobot/subscription"
)

// Reporter builds a full price report, refreshing every tracked pair.
type Reporter interface {
	Report(ctx context.Context) string
}

// Scheduler periodically builds one report and delivers it to every
// subscribed destination. Ticks run on a single goroutine, so a slow
// tick delays the next one rather than overlapping it.
type Scheduler struct {
	interval  time.Duration
	registry  *subscription.Registry
	reporter  Reporter
	messenger core.Messenger
	log       core.Logger
}

func NewScheduler(
	interval time.Duration,
	registry *subscription.Registry,
	reporter Reporter,
	messenger core.Messenger,
	log core.Logger,
) *Scheduler {
	return &Scheduler{
		interval:  interval,
		registry:  registry,
		reporter:  reporter,
		messenger: messenger,
		log:       log,
	}
}

// Run drives the periodic broadcast until the context is canceled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Infof("broadcast scheduler started, interval %s", s.interval)

	for {
		select {
		case <-ctx.Done():
			s.log.Info("broadcast scheduler stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// tick performs one fetch-format-broadcast cycle. An empty registry
// skips the cycle entirely, without touching the quote service.
func (s *Scheduler) tick(ctx context.Context) {
	if s.registry.Len() == 0 {
		s.log.Debug("no subscribers, skipping broadcast")
		return
	}

	report := s.reporter.Report(ctx)

	for _, dest := range s.registry.Destinations() {
		err := s.messenger.Send(dest, report)
		if err == nil {
			s.log.WithField("chat", dest).Debug("report delivered")
			continue
		}

		if core.IsPermanentRejection(err) {
			s.registry.Remove(dest)
			s.log.WithError(err).WithField("chat", dest).Warn("destination unreachable, unsubscribed")
			continue
		}

		// Transient failure: keep the subscription, the next tick retries.
		s.log.WithError(err).WithField("chat", dest).Error("failed to deliver report")
	}
}
