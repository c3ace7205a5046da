// Package market tracks prices across polling cycles and renders reports.
package market

import (
	"context"
	"sync"
	"time"

	"github.com/raykavin/bitsobot/core"
)

// Tracker retains the most recent price per pair and shifts the old
// sample into the snapshot's previous slot on every successful update.
// It is safe for concurrent use by the scheduler and command paths.
type Tracker struct {
	quoter core.Quoter
	log    core.Logger

	mu        sync.RWMutex
	snapshots map[string]core.PriceSnapshot
}

func NewTracker(quoter core.Quoter, log core.Logger) *Tracker {
	return &Tracker{
		quoter:    quoter,
		log:       log,
		snapshots: make(map[string]core.PriceSnapshot),
	}
}

// Update fetches the latest price for a pair and replaces the stored
// snapshot atomically. A failed fetch leaves the stored state untouched
// and returns core.ErrUnavailable; one pair's failure never affects
// another's state.
func (t *Tracker) Update(ctx context.Context, pair string) (core.PriceSnapshot, error) {
	price, err := t.quoter.LastQuote(ctx, pair)
	if err != nil {
		t.log.WithField("book", pair).Debug("quote unavailable this cycle")
		return core.PriceSnapshot{}, core.ErrUnavailable
	}

	if price <= 0 {
		t.log.WithField("book", pair).Debug("discarding non-positive quote")
		return core.PriceSnapshot{}, core.ErrUnavailable
	}

	sample := core.PriceSample{
		Pair:       pair,
		Value:      price,
		ObservedAt: time.Now(),
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	snapshot := core.PriceSnapshot{Current: sample}
	if stored, ok := t.snapshots[pair]; ok {
		previous := stored.Current
		snapshot.Previous = &previous
	}
	t.snapshots[pair] = snapshot

	return snapshot, nil
}

// UpdateAll updates every pair and returns the snapshots of the pairs
// that are available this cycle. Unavailable pairs are simply absent.
func (t *Tracker) UpdateAll(ctx context.Context, pairs []string) map[string]core.PriceSnapshot {
	snapshots := make(map[string]core.PriceSnapshot, len(pairs))
	for _, pair := range pairs {
		snapshot, err := t.Update(ctx, pair)
		if err != nil {
			continue
		}
		snapshots[pair] = snapshot
	}
	return snapshots
}

// Snapshot returns the stored snapshot for a pair, if any.
func (t *Tracker) Snapshot(pair string) (core.PriceSnapshot, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	snapshot, ok := t.snapshots[pair]
	return snapshot, ok
}
