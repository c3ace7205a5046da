package command

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/raykavin/bitsobot/core"
	logadapter "github.com/raykavin/bitsobot/logger/zerolog"
	"github.com/raykavin/bitsobot/subscription"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func testLogger() core.Logger {
	logger := zerolog.New(io.Discard)
	return logadapter.NewAdapter(&logger)
}

type staticReporter struct {
	text  string
	calls int
}

func (r *staticReporter) Report(context.Context) string {
	r.calls++
	return r.text
}

func newTestRouter(reporter Reporter) (*Router, *subscription.Registry) {
	registry := subscription.NewRegistry()
	return NewRouter(reporter, registry, 5*time.Minute, testLogger()), registry
}

func TestRouter_StartListsCommands(t *testing.T) {
	router, _ := newTestRouter(&staticReporter{})

	text := router.Start()
	require.Contains(t, text, "/price")
	require.Contains(t, text, "/subscribe")
	require.Contains(t, text, "/unsubscribe")
	require.Contains(t, text, "/help")
}

func TestRouter_PriceReturnsOnDemandReport(t *testing.T) {
	reporter := &staticReporter{text: "BTC: $101.50 MXN"}
	router, _ := newTestRouter(reporter)

	require.Equal(t, "BTC: $101.50 MXN", router.Price(context.Background()))
	require.Equal(t, 1, reporter.calls)
}

func TestRouter_SubscribeIsIdempotentWithDistinctReplies(t *testing.T) {
	router, registry := newTestRouter(&staticReporter{})

	first := router.Subscribe(42)
	require.Contains(t, first, "enabled")
	require.Contains(t, first, "every 5 minutes")
	require.Equal(t, 1, registry.Len())

	second := router.Subscribe(42)
	require.Contains(t, second, "already enabled")
	require.Equal(t, 1, registry.Len())
}

func TestRouter_UnsubscribeIsIdempotentWithDistinctReplies(t *testing.T) {
	router, registry := newTestRouter(&staticReporter{})

	require.Contains(t, router.Unsubscribe(42), "already disabled")
	require.Equal(t, 0, registry.Len())

	router.Subscribe(42)
	require.Contains(t, router.Unsubscribe(42), "disabled")
	require.Equal(t, 0, registry.Len())
}
