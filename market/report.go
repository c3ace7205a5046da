package market

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/raykavin/bitsobot/core"

	"github.com/samber/lo"
)

const (
	reportHeader     = "💰 Current Bitso prices:"
	reportTimeLayout = "2006-01-02 15:04:05"
	unavailableText  = "unavailable"
)

// Reporter builds a full price report for a fixed, ordered pair list.
type Reporter struct {
	tracker *Tracker
	pairs   []string
}

func NewReporter(tracker *Tracker, pairs []string) *Reporter {
	return &Reporter{tracker: tracker, pairs: pairs}
}

// Report refreshes every tracked pair and renders the result.
func (r *Reporter) Report(ctx context.Context) string {
	snapshots := r.tracker.UpdateAll(ctx, r.pairs)
	return Render(r.pairs, snapshots, time.Now())
}

// Render produces the report text. It is a pure function: pairs are
// iterated in the given order, absent snapshots render as unavailable,
// and the generation timestamp is supplied by the caller.
func Render(pairs []string, snapshots map[string]core.PriceSnapshot, at time.Time) string {
	lines := lo.Map(pairs, func(pair string, _ int) string {
		snapshot, ok := snapshots[pair]
		if !ok {
			asset, _ := splitBook(pair)
			return fmt.Sprintf("%s: %s", asset, unavailableText)
		}
		return renderLine(pair, snapshot)
	})

	var sb strings.Builder
	sb.WriteString(reportHeader)
	sb.WriteString("\n\n")
	sb.WriteString(strings.Join(lines, "\n"))
	sb.WriteString("\n\n")
	sb.WriteString("Updated at ")
	sb.WriteString(at.Format(reportTimeLayout))

	return sb.String()
}

// renderLine formats one available pair: symbol, grouped price with the
// quote currency suffix, trend glyph, and the change percentage.
func renderLine(pair string, snapshot core.PriceSnapshot) string {
	asset, quote := splitBook(pair)
	price := formatPrice(snapshot.Current.Value)
	trend := snapshot.Trend()

	line := fmt.Sprintf("%s: $%s %s %s", asset, price, quote, trendGlyph(trend))
	if change := formatChange(snapshot, trend); change != "" {
		line += " " + change
	}

	return line
}

// formatChange renders the percentage for a snapshot. New pairs show no
// percentage; flat ones print an unsigned 0.00%; everything else keeps
// the sign, including the slight band displayed with a flat arrow.
func formatChange(snapshot core.PriceSnapshot, trend core.Trend) string {
	switch trend {
	case core.TrendNew:
		return ""
	case core.TrendFlat:
		return "0.00%"
	default:
		pct, _ := snapshot.ChangePercent()
		return fmt.Sprintf("%+.2f%%", pct)
	}
}

func trendGlyph(trend core.Trend) string {
	switch trend {
	case core.TrendNew:
		return "🆕"
	case core.TrendUpStrong:
		return "⏫"
	case core.TrendUp:
		return "🔼"
	case core.TrendDownStrong:
		return "⏬"
	case core.TrendDown:
		return "🔽"
	default:
		// Flat and the slight band share the sideways arrow.
		return "➡️"
	}
}

// splitBook splits a Bitso book identifier into upper-cased asset and
// quote symbols, e.g. "btc_mxn" -> ("BTC", "MXN").
func splitBook(pair string) (asset, quote string) {
	parts := strings.SplitN(pair, "_", 2)
	asset = strings.ToUpper(parts[0])
	if len(parts) == 2 {
		quote = strings.ToUpper(parts[1])
	}
	return asset, quote
}

// formatPrice renders a value with two decimals and grouped thousands.
func formatPrice(value float64) string {
	text := strconv.FormatFloat(value, 'f', 2, 64)

	sign := ""
	if strings.HasPrefix(text, "-") {
		sign, text = "-", text[1:]
	}

	whole, decimals, _ := strings.Cut(text, ".")
	var groups []string
	for len(whole) > 3 {
		groups = append([]string{whole[len(whole)-3:]}, groups...)
		whole = whole[:len(whole)-3]
	}
	groups = append([]string{whole}, groups...)

	return sign + strings.Join(groups, ",") + "." + decimals
}
