package metrics

import (
	"math"

	"walkforward-lab/internal/domain"
)

// Aggregate averages metrics field-wise across windows. NumTrades is
// rounded to the nearest whole trade. An empty input yields the zero
// record.
func Aggregate(list []domain.Metrics) domain.Metrics {
	if len(list) == 0 {
		return domain.Metrics{}
	}

	var agg domain.Metrics
	n := float64(len(list))
	trades := 0.0

	for _, m := range list {
		agg.SharpeRatio += m.SharpeRatio
		agg.TotalReturn += m.TotalReturn
		agg.WinRate += m.WinRate
		agg.ProfitFactor += m.ProfitFactor
		agg.MaxDrawdown += m.MaxDrawdown
		agg.AvgTradeDuration += m.AvgTradeDuration
		agg.AvgWin += m.AvgWin
		agg.AvgLoss += m.AvgLoss
		trades += float64(m.NumTrades)
	}

	agg.SharpeRatio /= n
	agg.TotalReturn /= n
	agg.WinRate /= n
	agg.ProfitFactor /= n
	agg.MaxDrawdown /= n
	agg.AvgTradeDuration /= n
	agg.AvgWin /= n
	agg.AvgLoss /= n
	agg.NumTrades = int(math.Round(trades / n))

	return agg
}
