package domain

// RunResult is the complete output of one walk-forward analysis.
// Aggregated by value: window results own their trade slices and the
// combined equity curve is an independent copy of test-span values.
type RunResult struct {
	RunID        string
	InstrumentID string
	StrategyID   string
	CreatedAt    int64 // Unix ms

	Config WalkForwardConfig

	Windows []WindowResult

	// OptimalParams is the element-wise median of each window's
	// selected parameters.
	OptimalParams ParameterSet

	// Aggregates across windows.
	InSampleMetrics  Metrics
	OutSampleMetrics Metrics
	Degradation      Degradation
	Stability        map[string]ParameterStability

	// Out-of-sample trade ledger and concatenated test-span equity.
	TestTrades  []Trade
	EquityCurve []EquityPoint
}

// WalkForwardConfig is the structural configuration of a run.
// All lengths are in bars.
type WalkForwardConfig struct {
	TrainLength int
	TestLength  int
	StepLength  int

	StrategyType string
	Grid         ParameterGrid

	// MinTrades is the trade-count penalty threshold of the combined
	// score. Zero selects DefaultMinTrades.
	MinTrades int

	// Weights for the combined score. Zero value selects
	// DefaultScoreWeights.
	Weights ScoreWeights
}

// ScoreWeights is the weight tuple of the optimizer's combined score.
type ScoreWeights struct {
	Sharpe       float64
	Drawdown     float64
	WinRate      float64
	ProfitFactor float64
}

// DefaultScoreWeights is the canonical multi-objective weighting.
var DefaultScoreWeights = ScoreWeights{
	Sharpe:       0.40,
	Drawdown:     0.25,
	WinRate:      0.20,
	ProfitFactor: 0.15,
}

// DefaultMinTrades is the default trade-count penalty threshold:
// combinations with fewer trades are linearly discounted.
const DefaultMinTrades = 10

// IsZero reports whether no weight is set.
func (w ScoreWeights) IsZero() bool {
	return w.Sharpe == 0 && w.Drawdown == 0 && w.WinRate == 0 && w.ProfitFactor == 0
}
