// Package metrics converts a trade ledger and an equity curve into
// performance statistics. All functions are pure.
package metrics

import (
	"math"

	"walkforward-lab/internal/domain"
)

// tradingDaysPerYear annualizes the Sharpe ratio.
const tradingDaysPerYear = 252

// Compute derives Metrics from a closed-trade ledger and its equity
// curve. An empty ledger yields a zero-valued record with NumTrades 0,
// never an error: downstream aggregation assumes a fixed-shape record.
func Compute(trades []domain.Trade, equity []domain.EquityPoint) domain.Metrics {
	if len(trades) == 0 {
		return domain.Metrics{}
	}

	returns := make([]float64, len(trades))
	for i, t := range trades {
		returns[i] = t.ReturnPct / 100
	}

	var (
		wins, losses           []float64
		grossProfit, grossLoss float64
		totalDuration          float64
	)
	for i, r := range returns {
		if r > 0 {
			wins = append(wins, r)
			grossProfit += r
		} else if r < 0 {
			losses = append(losses, r)
			grossLoss += -r
		}
		totalDuration += float64(trades[i].DurationDays)
	}

	m := domain.Metrics{
		NumTrades:        len(trades),
		SharpeRatio:      sharpe(returns),
		TotalReturn:      totalReturn(equity),
		WinRate:          float64(len(wins)) / float64(len(returns)) * 100,
		MaxDrawdown:      MaxDrawdown(equity),
		AvgTradeDuration: totalDuration / float64(len(trades)),
	}

	if grossLoss > 0 {
		m.ProfitFactor = grossProfit / grossLoss
	}
	if len(wins) > 0 {
		m.AvgWin = mean(wins) * 100
	}
	if len(losses) > 0 {
		m.AvgLoss = mean(losses) * 100
	}

	return m
}

// sharpe annualizes mean(returns)/stdev(returns). Zero when fewer than
// two trades exist or the deviation is zero: always a real number.
func sharpe(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	sd := stddev(returns)
	if sd == 0 {
		return 0
	}
	return mean(returns) / sd * math.Sqrt(tradingDaysPerYear)
}

// totalReturn derives the span return from the equity endpoints, so
// compounding is captured rather than summing trade returns.
func totalReturn(equity []domain.EquityPoint) float64 {
	if len(equity) == 0 || equity[0].Equity == 0 {
		return 0
	}
	return (equity[len(equity)-1].Equity/equity[0].Equity - 1) * 100
}

// MaxDrawdown returns the worst peak-to-trough decline of the equity
// curve as a percentage of the prior peak (<= 0).
func MaxDrawdown(equity []domain.EquityPoint) float64 {
	if len(equity) == 0 {
		return 0
	}

	peak := equity[0].Equity
	worst := 0.0
	for _, p := range equity {
		if p.Equity > peak {
			peak = p.Equity
		}
		if peak > 0 {
			dd := (p.Equity - peak) / peak * 100
			if dd < worst {
				worst = dd
			}
		}
	}
	return worst
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stddev is the population standard deviation (n denominator).
func stddev(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	m := mean(values)
	sumSq := 0.0
	for _, v := range values {
		d := v - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(n))
}
