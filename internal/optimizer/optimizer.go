package optimizer

import (
	"context"
	"fmt"

	"walkforward-lab/internal/domain"
	"walkforward-lab/internal/indicator"
	"walkforward-lab/internal/metrics"
	"walkforward-lab/internal/simulator"
	"walkforward-lab/internal/strategy"
)

// Result is the outcome of one grid search.
type Result struct {
	Params  domain.ParameterSet
	Score   float64
	Metrics domain.Metrics

	// Evaluated counts combinations that produced at least one trade.
	Evaluated int

	// Fallback is set when no combination traded and the grid medians
	// were selected instead.
	Fallback bool
}

// Optimize runs every grid combination through the simulator on the
// given bars and returns the highest-scoring one. Combinations that
// produce zero trades are skipped; ties keep the first-enumerated
// combination. When nothing trades at all, the element-wise grid
// medians are returned with a zero score so a window always yields
// usable parameters.
func Optimize(ctx context.Context, bars []domain.PriceBar, ind *indicator.Set, rules strategy.RuleSet, cfg domain.WalkForwardConfig) (*Result, error) {
	if cfg.Grid.Size() == 0 {
		return nil, fmt.Errorf("%w: parameter grid is empty", domain.ErrConfiguration)
	}

	res := &Result{}
	enum := NewEnumerator(cfg.Grid)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		params, ok := enum.Next()
		if !ok {
			break
		}

		sim := simulator.Run(bars, ind, rules, params)
		if len(sim.Trades) == 0 {
			continue
		}
		res.Evaluated++

		m := metrics.Compute(sim.Trades, sim.Equity)
		score := CombinedScore(m, cfg.Weights, cfg.MinTrades)
		if res.Params == nil || score > res.Score {
			res.Params = params
			res.Score = score
			res.Metrics = m
		}
	}

	if res.Params == nil {
		res.Params = cfg.Grid.Medians()
		res.Score = 0
		res.Fallback = true
	}
	return res, nil
}
