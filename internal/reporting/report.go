package reporting

import (
	"time"

	"walkforward-lab/internal/domain"
	"walkforward-lab/internal/robustness"
)

// Report is the rendered summary of one walk-forward run.
type Report struct {
	// Metadata
	GeneratedAt time.Time
	RunID       string
	Instrument  InstrumentSummary

	// Run configuration
	StrategyID  string
	TrainLength int
	TestLength  int
	StepLength  int
	NumWindows  int

	// Selected parameters (element-wise median across windows),
	// sorted by name.
	OptimalParams []ParamRow

	// Per-window rows, ordered by window ID.
	Windows []WindowRow

	// Aggregates across windows.
	InSample    domain.Metrics
	OutSample   domain.Metrics
	Degradation domain.Degradation

	// Stability rows, sorted by parameter name.
	Stability []StabilityRow

	// Out-of-sample equity summary.
	Equity EquitySummary

	// Deployability verdict.
	Robustness *robustness.Result
}

// InstrumentSummary describes the analyzed instrument.
type InstrumentSummary struct {
	InstrumentID string
	Symbol       string
	Exchange     string
}

// ParamRow is one selected parameter.
type ParamRow struct {
	Name  string
	Value float64
}

// WindowRow is one row in the window results table.
type WindowRow struct {
	WindowID   int
	TrainStart int
	TrainEnd   int
	TestStart  int
	TestEnd    int

	BestScore float64
	Params    []ParamRow

	TrainSharpe float64
	TestSharpe  float64
	TrainReturn float64
	TestReturn  float64
	TrainTrades int
	TestTrades  int

	DegradationOverall float64
}

// StabilityRow summarizes one parameter's selections across windows.
type StabilityRow struct {
	Name string
	Mean float64
	Std  float64
	Min  float64
	Max  float64
	CV   float64
}

// EquitySummary describes the chained out-of-sample equity curve.
type EquitySummary struct {
	Points      int
	StartEquity float64
	EndEquity   float64
	StartDate   int64 // Unix ms
	EndDate     int64 // Unix ms
}
