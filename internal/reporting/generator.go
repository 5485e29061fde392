package reporting

import (
	"context"
	"errors"
	"sort"
	"time"

	"walkforward-lab/internal/domain"
	"walkforward-lab/internal/observability"
	"walkforward-lab/internal/robustness"
	"walkforward-lab/internal/storage"
)

// Generator produces reports from stored runs.
type Generator struct {
	instruments storage.InstrumentStore
	runs        storage.RunStore
	curves      storage.EquityCurveStore
	evaluator   *robustness.Evaluator
	now         func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator with default robustness
// thresholds.
func NewGenerator(
	instrumentStore storage.InstrumentStore,
	runStore storage.RunStore,
	curveStore storage.EquityCurveStore,
) *Generator {
	return &Generator{
		instruments: instrumentStore,
		runs:        runStore,
		curves:      curveStore,
		evaluator:   robustness.NewEvaluator(robustness.Thresholds{}),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// WithThresholds sets custom robustness thresholds.
func (g *Generator) WithThresholds(t robustness.Thresholds) *Generator {
	g.evaluator = robustness.NewEvaluator(t)
	return g
}

// Generate builds a complete report for a stored run.
func (g *Generator) Generate(ctx context.Context, runID string) (*Report, error) {
	run, err := g.runs.GetByID(ctx, runID)
	if err != nil {
		return nil, err
	}

	curve, err := g.curves.GetByRunID(ctx, runID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	instrument := InstrumentSummary{InstrumentID: run.InstrumentID}
	ins, err := g.instruments.GetByID(ctx, run.InstrumentID)
	switch {
	case err == nil:
		instrument.Symbol = ins.Symbol
		instrument.Exchange = ins.Exchange
	case !errors.Is(err, storage.ErrNotFound):
		return nil, err
	}

	report := g.FromRun(run, instrument, curve)
	observability.RecordReportGenerated()
	return report, nil
}

// FromRun builds a report directly from an in-memory run result.
// Used by the analysis command to report without a storage round-trip.
func (g *Generator) FromRun(run *domain.RunResult, instrument InstrumentSummary, curve []domain.EquityPoint) *Report {
	return &Report{
		GeneratedAt:   g.now(),
		RunID:         run.RunID,
		Instrument:    instrument,
		StrategyID:    run.StrategyID,
		TrainLength:   run.Config.TrainLength,
		TestLength:    run.Config.TestLength,
		StepLength:    run.Config.StepLength,
		NumWindows:    len(run.Windows),
		OptimalParams: paramRows(run.OptimalParams),
		Windows:       windowRows(run.Windows),
		InSample:      run.InSampleMetrics,
		OutSample:     run.OutSampleMetrics,
		Degradation:   run.Degradation,
		Stability:     stabilityRows(run.Stability),
		Equity:        equitySummary(curve),
		Robustness:    g.evaluator.Evaluate(run),
	}
}

// paramRows flattens a parameter set into rows sorted by name.
func paramRows(params domain.ParameterSet) []ParamRow {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([]ParamRow, len(names))
	for i, name := range names {
		rows[i] = ParamRow{Name: name, Value: params[name]}
	}
	return rows
}

func windowRows(windows []domain.WindowResult) []WindowRow {
	rows := make([]WindowRow, len(windows))
	for i, w := range windows {
		rows[i] = WindowRow{
			WindowID:           w.WindowID,
			TrainStart:         w.Window.TrainStart,
			TrainEnd:           w.Window.TrainEnd,
			TestStart:          w.Window.TestStart,
			TestEnd:            w.Window.TestEnd,
			BestScore:          w.BestScore,
			Params:             paramRows(w.BestParams),
			TrainSharpe:        w.TrainMetrics.SharpeRatio,
			TestSharpe:         w.TestMetrics.SharpeRatio,
			TrainReturn:        w.TrainMetrics.TotalReturn,
			TestReturn:         w.TestMetrics.TotalReturn,
			TrainTrades:        w.TrainMetrics.NumTrades,
			TestTrades:         w.TestMetrics.NumTrades,
			DegradationOverall: w.Degradation.Overall,
		}
	}

	// Stored runs return windows ordered; sort anyway so the report
	// never depends on store ordering.
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].WindowID < rows[j].WindowID
	})
	return rows
}

func stabilityRows(stability map[string]domain.ParameterStability) []StabilityRow {
	names := make([]string, 0, len(stability))
	for name := range stability {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([]StabilityRow, len(names))
	for i, name := range names {
		s := stability[name]
		rows[i] = StabilityRow{Name: name, Mean: s.Mean, Std: s.Std, Min: s.Min, Max: s.Max, CV: s.CV}
	}
	return rows
}

func equitySummary(curve []domain.EquityPoint) EquitySummary {
	if len(curve) == 0 {
		return EquitySummary{}
	}
	first, last := curve[0], curve[len(curve)-1]
	return EquitySummary{
		Points:      len(curve),
		StartEquity: first.Equity,
		EndEquity:   last.Equity,
		StartDate:   first.Date,
		EndDate:     last.Date,
	}
}
