package core

import (
	"math"
	"time"
)

// Trend classification thresholds, in percent. Boundary values fall into
// the lower-magnitude bucket: exactly 0.1% is a regular move, exactly 5%
// is not a strong one.
const (
	flatThreshold   = 0.01
	slightThreshold = 0.1
	strongThreshold = 5.0
)

// PriceSample is one observed price for a trading pair. A value is always
// positive; a pair with no sample is unavailable, never zero.
type PriceSample struct {
	Pair       string
	Value      float64
	ObservedAt time.Time
}

// PriceSnapshot holds the current sample for a pair and, when a prior
// polling cycle succeeded, the sample it replaced.
type PriceSnapshot struct {
	Current  PriceSample
	Previous *PriceSample
}

// ChangePercent returns the percent change from the previous sample to the
// current one. ok is false when there is no previous sample.
func (s PriceSnapshot) ChangePercent() (pct float64, ok bool) {
	if s.Previous == nil {
		return 0, false
	}
	return (s.Current.Value - s.Previous.Value) / s.Previous.Value * 100, true
}

// Trend classifies the price movement between two consecutive samples.
type Trend int

const (
	TrendNew Trend = iota
	TrendFlat
	TrendUpSlight
	TrendUp
	TrendUpStrong
	TrendDownSlight
	TrendDown
	TrendDownStrong
)

func (t Trend) String() string {
	switch t {
	case TrendNew:
		return "new"
	case TrendFlat:
		return "flat"
	case TrendUpSlight:
		return "up_slight"
	case TrendUp:
		return "up"
	case TrendUpStrong:
		return "up_strong"
	case TrendDownSlight:
		return "down_slight"
	case TrendDown:
		return "down"
	case TrendDownStrong:
		return "down_strong"
	}
	return "unknown"
}

// Trend derives the classification for this snapshot.
func (s PriceSnapshot) Trend() Trend {
	pct, ok := s.ChangePercent()
	if !ok {
		return TrendNew
	}

	abs := math.Abs(pct)
	switch {
	case abs < flatThreshold:
		return TrendFlat
	case abs < slightThreshold:
		if pct > 0 {
			return TrendUpSlight
		}
		return TrendDownSlight
	case pct > 0:
		if pct > strongThreshold {
			return TrendUpStrong
		}
		return TrendUp
	default:
		if pct < -strongThreshold {
			return TrendDownStrong
		}
		return TrendDown
	}
}
