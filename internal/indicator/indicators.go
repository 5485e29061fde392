// Package indicator computes derived series from daily bars. A Set is
// scoped to one simulation run and passed explicitly; there is no
// shared cache between runs.
package indicator

import (
	"math"

	"walkforward-lab/internal/domain"
)

// Undefined marks bars inside an indicator's warm-up period. Undefined
// values propagate as "no signal" in rule evaluation, never as a fault.
var Undefined = math.NaN()

// IsDefined reports whether an indicator value is outside its warm-up
// period.
func IsDefined(v float64) bool {
	return !math.IsNaN(v)
}

// Requirements declares the indicators a rule-set needs.
type Requirements struct {
	MomentumLookbacks []int // pct-change lookbacks in bars
	SMAPeriods        []int // rolling average window sizes in bars
}

// MaxLookback returns the longest warm-up any declared indicator needs.
// Bars before this offset may carry undefined values.
func (r Requirements) MaxLookback() int {
	max := 0
	for _, lb := range r.MomentumLookbacks {
		if lb > max {
			max = lb
		}
	}
	for _, p := range r.SMAPeriods {
		if p > max {
			max = p
		}
	}
	return max
}

// Set holds named derived series aligned index-for-index with the bars
// they were computed from.
type Set struct {
	// Momentum[lb][i] = (close[i] - close[i-lb]) / close[i-lb] * 100.
	Momentum map[int][]float64

	// SMA[p][i] = mean of closes over the trailing p bars ending at i.
	SMA map[int][]float64

	// DistSMA[p][i] = (close[i] - SMA[p][i]) / SMA[p][i] * 100.
	DistSMA map[int][]float64
}

// Compute derives all required series for the given bars.
func Compute(bars []domain.PriceBar, req Requirements) *Set {
	set := &Set{
		Momentum: make(map[int][]float64, len(req.MomentumLookbacks)),
		SMA:      make(map[int][]float64, len(req.SMAPeriods)),
		DistSMA:  make(map[int][]float64, len(req.SMAPeriods)),
	}

	for _, lb := range req.MomentumLookbacks {
		if _, ok := set.Momentum[lb]; !ok {
			set.Momentum[lb] = momentum(bars, lb)
		}
	}

	for _, p := range req.SMAPeriods {
		if _, ok := set.SMA[p]; !ok {
			sma := rollingMean(bars, p)
			set.SMA[p] = sma
			set.DistSMA[p] = distance(bars, sma)
		}
	}

	return set
}

// MomentumAt returns the momentum value for a lookback at index i, or
// Undefined when the series was not computed or i is in warm-up.
func (s *Set) MomentumAt(lookback, i int) float64 {
	series, ok := s.Momentum[lookback]
	if !ok || i < 0 || i >= len(series) {
		return Undefined
	}
	return series[i]
}

// SMAAt returns the rolling average for a period at index i, or
// Undefined when unavailable.
func (s *Set) SMAAt(period, i int) float64 {
	series, ok := s.SMA[period]
	if !ok || i < 0 || i >= len(series) {
		return Undefined
	}
	return series[i]
}

// DistSMAAt returns the percent distance from the rolling average, or
// Undefined when unavailable.
func (s *Set) DistSMAAt(period, i int) float64 {
	series, ok := s.DistSMA[period]
	if !ok || i < 0 || i >= len(series) {
		return Undefined
	}
	return series[i]
}

// momentum computes percent change over a fixed lookback. The first
// lookback bars are undefined.
func momentum(bars []domain.PriceBar, lookback int) []float64 {
	out := make([]float64, len(bars))
	for i := range bars {
		if lookback <= 0 || i < lookback {
			out[i] = Undefined
			continue
		}
		prev := bars[i-lookback].Close
		out[i] = (bars[i].Close - prev) / prev * 100
	}
	return out
}

// rollingMean computes a simple moving average over trailing period
// bars. The first period-1 bars are undefined.
func rollingMean(bars []domain.PriceBar, period int) []float64 {
	out := make([]float64, len(bars))
	if period <= 0 {
		for i := range out {
			out[i] = Undefined
		}
		return out
	}

	sum := 0.0
	for i := range bars {
		sum += bars[i].Close
		if i >= period {
			sum -= bars[i-period].Close
		}
		if i < period-1 {
			out[i] = Undefined
			continue
		}
		out[i] = sum / float64(period)
	}
	return out
}

// distance computes percent distance of close from a reference series.
func distance(bars []domain.PriceBar, ref []float64) []float64 {
	out := make([]float64, len(bars))
	for i := range bars {
		if !IsDefined(ref[i]) {
			out[i] = Undefined
			continue
		}
		out[i] = (bars[i].Close - ref[i]) / ref[i] * 100
	}
	return out
}

// Merge combines two requirement declarations, deduplicating entries.
func Merge(a, b Requirements) Requirements {
	return Requirements{
		MomentumLookbacks: mergeInts(a.MomentumLookbacks, b.MomentumLookbacks),
		SMAPeriods:        mergeInts(a.SMAPeriods, b.SMAPeriods),
	}
}

func mergeInts(a, b []int) []int {
	seen := make(map[int]struct{}, len(a)+len(b))
	var out []int
	for _, v := range append(append([]int{}, a...), b...) {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
