package market

import (
	"context"
	"io"
	"testing"

	"github.com/raykavin/bitsobot/core"
	logadapter "github.com/raykavin/bitsobot/logger/zerolog"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func testLogger() core.Logger {
	logger := zerolog.New(io.Discard)
	return logadapter.NewAdapter(&logger)
}

// scriptedQuoter replays a fixed sequence of quotes for a single pair
// and counts how many fetches were issued.
type scriptedQuoter struct {
	quotes []float64
	errs   []error
	calls  int
}

func (q *scriptedQuoter) LastQuote(_ context.Context, _ string) (float64, error) {
	i := q.calls
	q.calls++
	if q.errs[i] != nil {
		return 0, q.errs[i]
	}
	return q.quotes[i], nil
}

func TestTracker_FirstUpdateHasNoPrevious(t *testing.T) {
	quoter := &scriptedQuoter{quotes: []float64{100}, errs: []error{nil}}
	tracker := NewTracker(quoter, testLogger())

	snapshot, err := tracker.Update(context.Background(), "btc_mxn")
	require.NoError(t, err)
	require.Equal(t, 100.0, snapshot.Current.Value)
	require.Nil(t, snapshot.Previous)
	require.Equal(t, core.TrendNew, snapshot.Trend())
}

func TestTracker_SecondUpdateShiftsPrevious(t *testing.T) {
	quoter := &scriptedQuoter{quotes: []float64{100, 101.5}, errs: []error{nil, nil}}
	tracker := NewTracker(quoter, testLogger())

	_, err := tracker.Update(context.Background(), "btc_mxn")
	require.NoError(t, err)

	snapshot, err := tracker.Update(context.Background(), "btc_mxn")
	require.NoError(t, err)
	require.Equal(t, 101.5, snapshot.Current.Value)
	require.NotNil(t, snapshot.Previous)
	require.Equal(t, 100.0, snapshot.Previous.Value)
}

func TestTracker_FailureLeavesStateUntouched(t *testing.T) {
	quoter := &scriptedQuoter{
		quotes: []float64{100, 0, 102},
		errs:   []error{nil, core.ErrUnavailable, nil},
	}
	tracker := NewTracker(quoter, testLogger())

	_, err := tracker.Update(context.Background(), "btc_mxn")
	require.NoError(t, err)

	_, err = tracker.Update(context.Background(), "btc_mxn")
	require.ErrorIs(t, err, core.ErrUnavailable)

	// The stored snapshot survived the failed cycle.
	stored, ok := tracker.Snapshot("btc_mxn")
	require.True(t, ok)
	require.Equal(t, 100.0, stored.Current.Value)

	// The next success shifts 100 into previous, not absent.
	snapshot, err := tracker.Update(context.Background(), "btc_mxn")
	require.NoError(t, err)
	require.NotNil(t, snapshot.Previous)
	require.Equal(t, 100.0, snapshot.Previous.Value)
}

func TestTracker_NonPositiveQuoteIsUnavailable(t *testing.T) {
	quoter := &scriptedQuoter{quotes: []float64{0}, errs: []error{nil}}
	tracker := NewTracker(quoter, testLogger())

	_, err := tracker.Update(context.Background(), "btc_mxn")
	require.ErrorIs(t, err, core.ErrUnavailable)

	_, ok := tracker.Snapshot("btc_mxn")
	require.False(t, ok)
}

// pairQuoter fails a chosen pair while serving every other one.
type pairQuoter struct {
	failing string
}

func (q *pairQuoter) LastQuote(_ context.Context, pair string) (float64, error) {
	if pair == q.failing {
		return 0, core.ErrUnavailable
	}
	return 250, nil
}

func TestTracker_UpdateAllIsolatesFailures(t *testing.T) {
	tracker := NewTracker(&pairQuoter{failing: "eth_mxn"}, testLogger())
	pairs := []string{"btc_mxn", "eth_mxn", "xrp_mxn"}

	snapshots := tracker.UpdateAll(context.Background(), pairs)

	require.Len(t, snapshots, 2)
	require.Contains(t, snapshots, "btc_mxn")
	require.Contains(t, snapshots, "xrp_mxn")
	require.NotContains(t, snapshots, "eth_mxn")
}
