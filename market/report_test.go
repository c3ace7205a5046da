package market

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/raykavin/bitsobot/core"

	"github.com/stretchr/testify/require"
)

func sampleSnapshot(pair string, previous, current float64) core.PriceSnapshot {
	prev := core.PriceSample{Pair: pair, Value: previous}
	return core.PriceSnapshot{
		Current:  core.PriceSample{Pair: pair, Value: current},
		Previous: &prev,
	}
}

func TestRender_FixedOrderAndUnavailableMarker(t *testing.T) {
	pairs := []string{"btc_mxn", "eth_mxn", "xrp_mxn"}
	snapshots := map[string]core.PriceSnapshot{
		"xrp_mxn": sampleSnapshot("xrp_mxn", 10, 10),
		"btc_mxn": sampleSnapshot("btc_mxn", 100, 101.5),
	}

	report := Render(pairs, snapshots, time.Unix(0, 0).UTC())

	btc := "BTC: $101.50 MXN 🔼 +1.50%"
	eth := "ETH: unavailable"
	xrp := "XRP: $10.00 MXN ➡️ 0.00%"

	require.Contains(t, report, btc)
	require.Contains(t, report, eth)
	require.Contains(t, report, xrp)

	// Configured order, not map order.
	require.Less(t, strings.Index(report, btc), strings.Index(report, eth))
	require.Less(t, strings.Index(report, eth), strings.Index(report, xrp))
}

func TestRender_NewPairOmitsPercentage(t *testing.T) {
	snapshots := map[string]core.PriceSnapshot{
		"btc_mxn": {Current: core.PriceSample{Pair: "btc_mxn", Value: 950000}},
	}

	report := Render([]string{"btc_mxn"}, snapshots, time.Unix(0, 0).UTC())

	require.Contains(t, report, "BTC: $950,000.00 MXN 🆕")
	require.NotContains(t, report, "%")
}

func TestRender_SlightBandKeepsSignWithFlatArrow(t *testing.T) {
	snapshots := map[string]core.PriceSnapshot{
		"btc_mxn": sampleSnapshot("btc_mxn", 10000, 10005),
	}

	report := Render([]string{"btc_mxn"}, snapshots, time.Unix(0, 0).UTC())

	require.Contains(t, report, "➡️ +0.05%")
}

func TestRender_AppendsGenerationTimestamp(t *testing.T) {
	at := time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)

	report := Render([]string{"btc_mxn"}, nil, at)

	require.Contains(t, report, "Updated at 2024-03-15 09:30:00")
}

func TestRender_IsDeterministic(t *testing.T) {
	pairs := []string{"btc_mxn", "eth_mxn"}
	snapshots := map[string]core.PriceSnapshot{
		"btc_mxn": sampleSnapshot("btc_mxn", 100, 106),
		"eth_mxn": sampleSnapshot("eth_mxn", 50, 47),
	}
	at := time.Unix(1700000000, 0).UTC()

	require.Equal(t, Render(pairs, snapshots, at), Render(pairs, snapshots, at))
}

func TestFormatPrice_GroupsThousands(t *testing.T) {
	require.Equal(t, "101.50", formatPrice(101.5))
	require.Equal(t, "1,234,567.89", formatPrice(1234567.891))
	require.Equal(t, "950,000.00", formatPrice(950000))
	require.Equal(t, "0.25", formatPrice(0.25))
}

func TestReporter_EndToEnd(t *testing.T) {
	quoter := &scriptedQuoter{
		quotes: []float64{100, 101.5, 0},
		errs:   []error{nil, nil, core.ErrUnavailable},
	}
	tracker := NewTracker(quoter, testLogger())
	reporter := NewReporter(tracker, []string{"btc_mxn"})

	// First cycle: new sample, no percentage.
	report := reporter.Report(context.Background())
	require.Contains(t, report, "BTC: $100.00 MXN 🆕")

	// Second cycle: up move against the previous sample.
	report = reporter.Report(context.Background())
	require.Contains(t, report, "BTC")
	require.Contains(t, report, "$101.50")
	require.Contains(t, report, "🔼")
	require.Contains(t, report, "+1.50%")

	// Third cycle: fetch fails, the pair renders as unavailable.
	report = reporter.Report(context.Background())
	require.Contains(t, report, "BTC: unavailable")
	require.NotContains(t, report, "$101.50")
}
