package optimizer

import (
	"math"

	"walkforward-lab/internal/domain"
)

// profitFactorCap bounds the profit factor term so a handful of lucky
// trades cannot dominate the score.
const profitFactorCap = 5.0

// CombinedScore collapses a metrics record into a single comparable
// number. Each term is normalized to roughly [0, 1] before weighting,
// and the whole score is linearly discounted when the combination
// produced fewer than minTrades trades.
func CombinedScore(m domain.Metrics, w domain.ScoreWeights, minTrades int) float64 {
	if w.IsZero() {
		w = domain.DefaultScoreWeights
	}
	if minTrades <= 0 {
		minTrades = domain.DefaultMinTrades
	}

	// MaxDrawdown is <= 0 in percent, so 1 + dd/100 maps no drawdown
	// to 1 and a full wipeout to 0.
	ddTerm := 1 + m.MaxDrawdown/100
	pfTerm := math.Min(m.ProfitFactor, profitFactorCap) / profitFactorCap

	score := w.Sharpe*m.SharpeRatio +
		w.Drawdown*ddTerm +
		w.WinRate*m.WinRate/100 +
		w.ProfitFactor*pfTerm

	penalty := math.Min(float64(m.NumTrades)/float64(minTrades), 1)
	return score * penalty
}
