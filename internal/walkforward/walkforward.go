// Package walkforward coordinates the full analysis pipeline:
// validation → window generation → per-window optimization →
// out-of-sample evaluation → aggregation.
package walkforward

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"walkforward-lab/internal/analysis"
	"walkforward-lab/internal/domain"
	"walkforward-lab/internal/idhash"
	"walkforward-lab/internal/indicator"
	"walkforward-lab/internal/metrics"
	"walkforward-lab/internal/observability"
	"walkforward-lab/internal/optimizer"
	"walkforward-lab/internal/series"
	"walkforward-lab/internal/simulator"
	"walkforward-lab/internal/strategy"
	"walkforward-lab/internal/window"
)

// Analyzer runs walk-forward analyses. Zero value is usable; Options
// configure logging and the clock.
type Analyzer struct {
	verbose bool
	now     func() int64
}

// Options for creating an Analyzer.
type Options struct {
	Verbose bool

	// Now supplies the run timestamp in Unix ms. Nil uses wall time.
	Now func() int64
}

// New creates a new Analyzer.
func New(opts Options) *Analyzer {
	now := opts.Now
	if now == nil {
		now = func() int64 { return time.Now().UnixMilli() }
	}
	return &Analyzer{
		verbose: opts.Verbose,
		now:     now,
	}
}

// Run executes a complete walk-forward analysis over the bar history.
// Windows are processed sequentially in chronological order; the
// context is checked between windows so cancellation takes effect at a
// window boundary.
func (a *Analyzer) Run(ctx context.Context, instrumentID string, bars []domain.PriceBar, cfg domain.WalkForwardConfig) (*domain.RunResult, error) {
	started := time.Now()

	result, err := a.run(ctx, instrumentID, bars, cfg)
	if err != nil {
		observability.RecordRun("error", time.Since(started).Seconds())
		return nil, err
	}
	observability.RecordRun("success", time.Since(started).Seconds())
	return result, nil
}

func (a *Analyzer) run(ctx context.Context, instrumentID string, bars []domain.PriceBar, cfg domain.WalkForwardConfig) (*domain.RunResult, error) {
	if err := series.Validate(bars); err != nil {
		return nil, err
	}

	rules, err := strategy.FromType(cfg.StrategyType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfiguration, err)
	}
	req := rules.Requirements()

	windows, err := window.Generate(len(bars), cfg.TrainLength, cfg.TestLength, cfg.StepLength)
	if err != nil {
		return nil, err
	}
	a.log("Generated %d windows over %d bars", len(windows), len(bars))

	createdAt := a.now()
	result := &domain.RunResult{
		RunID:        idhash.ComputeRunID(instrumentID, cfg, createdAt),
		InstrumentID: instrumentID,
		StrategyID:   rules.ID(),
		CreatedAt:    createdAt,
		Config:       cfg,
		Windows:      make([]domain.WindowResult, 0, len(windows)),
	}

	var (
		selections   []domain.ParameterSet
		trainMetrics []domain.Metrics
		testMetrics  []domain.Metrics
		degradations []domain.Degradation
		equityBase   = simulator.InitialEquity
	)

	for i, w := range windows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		windowStarted := time.Now()

		wr, testSim, opt, err := a.runWindow(ctx, bars, w, rules, req, cfg)
		if err != nil {
			return nil, fmt.Errorf("window %d: %w", i, err)
		}
		wr.WindowID = i

		// Chain this window's test equity onto the cumulative curve so
		// the combined curve compounds across windows.
		testEquity := rebaseEquity(clipEquity(testSim.Equity, bars[w.TestStart].Date), equityBase)
		if len(testEquity) > 0 {
			equityBase = testEquity[len(testEquity)-1].Equity
		}
		result.EquityCurve = append(result.EquityCurve, testEquity...)
		result.TestTrades = append(result.TestTrades, wr.TestTrades...)
		result.Windows = append(result.Windows, wr)

		selections = append(selections, wr.BestParams)
		trainMetrics = append(trainMetrics, wr.TrainMetrics)
		testMetrics = append(testMetrics, wr.TestMetrics)
		degradations = append(degradations, wr.Degradation)

		observability.RecordWindow(time.Since(windowStarted).Seconds(),
			cfg.Grid.Size(), len(wr.TrainTrades)+len(wr.TestTrades), opt.Fallback)

		a.log("Window %d/%d: score=%.4f train_trades=%d test_trades=%d degradation=%.2f",
			i+1, len(windows), wr.BestScore, len(wr.TrainTrades), len(wr.TestTrades), wr.Degradation.Overall)
	}

	result.OptimalParams = medianParams(selections)
	result.InSampleMetrics = metrics.Aggregate(trainMetrics)
	result.OutSampleMetrics = metrics.Aggregate(testMetrics)
	result.Degradation = analysis.MeanDegradation(degradations)
	result.Stability = analysis.Stability(selections)

	a.log("Run %s complete: %d windows, %d OOS trades, overall degradation %.2f",
		result.RunID[:12], len(result.Windows), len(result.TestTrades), result.Degradation.Overall)

	return result, nil
}

// runWindow optimizes on the anchored train span and evaluates the
// selected parameters on the held-out test span.
func (a *Analyzer) runWindow(ctx context.Context, bars []domain.PriceBar, w domain.Window, rules strategy.RuleSet, req indicator.Requirements, cfg domain.WalkForwardConfig) (domain.WindowResult, *simulator.Result, *optimizer.Result, error) {
	trainBars := bars[w.TrainStart : w.TrainEnd+1]
	trainInd := indicator.Compute(trainBars, req)

	opt, err := optimizer.Optimize(ctx, trainBars, trainInd, rules, cfg)
	if err != nil {
		return domain.WindowResult{}, nil, nil, err
	}

	trainSim := simulator.Run(trainBars, trainInd, rules, opt.Params)
	trainM := metrics.Compute(trainSim.Trades, trainSim.Equity)

	// The test slice carries a warm-up prefix so indicators are defined
	// from the first test bar. Trades entered inside the prefix belong
	// to the train span and are excluded from the test ledger.
	warmStart := w.TestStart - req.MaxLookback()
	if warmStart < 0 {
		warmStart = 0
	}
	testBars := bars[warmStart : w.TestEnd+1]
	testInd := indicator.Compute(testBars, req)
	testSim := simulator.Run(testBars, testInd, rules, opt.Params)

	testTrades := clipTrades(testSim.Trades, bars[w.TestStart].Date)
	testM := metrics.Compute(testTrades, clipEquity(testSim.Equity, bars[w.TestStart].Date))

	wr := domain.WindowResult{
		Window:       w,
		BestParams:   opt.Params,
		BestScore:    opt.Score,
		TrainMetrics: trainM,
		TestMetrics:  testM,
		Degradation:  analysis.DegradationRatios(trainM, testM),
		TrainTrades:  trainSim.Trades,
		TestTrades:   testTrades,
	}
	return wr, testSim, opt, nil
}

// clipTrades keeps trades entered on or after the cutoff date.
func clipTrades(trades []domain.Trade, cutoff int64) []domain.Trade {
	out := make([]domain.Trade, 0, len(trades))
	for _, t := range trades {
		if t.EntryDate >= cutoff {
			out = append(out, t)
		}
	}
	return out
}

// clipEquity keeps equity points on or after the cutoff date.
func clipEquity(equity []domain.EquityPoint, cutoff int64) []domain.EquityPoint {
	out := make([]domain.EquityPoint, 0, len(equity))
	for _, p := range equity {
		if p.Date >= cutoff {
			out = append(out, p)
		}
	}
	return out
}

// rebaseEquity scales the curve so its first point equals base.
func rebaseEquity(equity []domain.EquityPoint, base float64) []domain.EquityPoint {
	if len(equity) == 0 || equity[0].Equity == 0 {
		return equity
	}
	factor := base / equity[0].Equity
	out := make([]domain.EquityPoint, len(equity))
	for i, p := range equity {
		out[i] = domain.EquityPoint{Date: p.Date, Equity: p.Equity * factor}
	}
	return out
}

// medianParams returns the element-wise median of the selected
// parameter sets across windows.
func medianParams(selections []domain.ParameterSet) domain.ParameterSet {
	byName := make(map[string][]float64)
	for _, sel := range selections {
		for name, v := range sel {
			byName[name] = append(byName[name], v)
		}
	}

	out := make(domain.ParameterSet, len(byName))
	for name, values := range byName {
		sort.Float64s(values)
		n := len(values)
		if n%2 == 1 {
			out[name] = values[n/2]
		} else {
			out[name] = (values[n/2-1] + values[n/2]) / 2
		}
	}
	return out
}

func (a *Analyzer) log(format string, args ...interface{}) {
	if a.verbose {
		log.Printf("[walkforward] "+format, args...)
	}
}
