package domain

// Metrics holds performance statistics derived from a trade ledger and
// an equity curve. Every field is numeric and zero-defaulted so an
// empty ledger still produces a fixed-shape record.
type Metrics struct {
	SharpeRatio      float64 // mean(returns) / stdev(returns) * sqrt(252)
	TotalReturn      float64 // from first/last equity values (%)
	WinRate          float64 // winning trades / total trades (%)
	ProfitFactor     float64 // gross profit / gross loss
	MaxDrawdown      float64 // worst peak-to-trough of equity curve (%, <= 0)
	NumTrades        int
	AvgTradeDuration float64 // mean holding period in days
	AvgWin           float64 // mean return of winning trades (%)
	AvgLoss          float64 // mean return of losing trades (%)
}

// Degradation compares out-of-sample to in-sample performance per
// window. Each field is test_metric / train_metric; a zero train value
// reports 0 rather than dividing by zero. Overall is the arithmetic
// mean of the three ratios: near 1.0 signals generalization, far below
// 1.0 signals overfitting.
type Degradation struct {
	SharpeRatio  float64
	WinRate      float64
	ProfitFactor float64
	Overall      float64
}

// ParameterStability summarizes how consistently the optimizer selected
// one parameter across windows. A high coefficient of variation flags a
// parameter the optimizer could not pin down.
type ParameterStability struct {
	Mean float64
	Std  float64
	Min  float64
	Max  float64
	CV   float64 // std / mean, 0 when mean is not positive
}
