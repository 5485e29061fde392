package simulator

import (
	"math"
	"reflect"
	"testing"

	"walkforward-lab/internal/domain"
	"walkforward-lab/internal/indicator"
	"walkforward-lab/internal/strategy"
)

// stubRuleSet enters when the close exceeds its 50-bar trailing
// average and exits only on the shared trailing stop. Used to exercise
// the state machine in isolation from the production rule-sets.
type stubRuleSet struct{}

func (stubRuleSet) ID() string { return "STUB_SMA50" }

func (stubRuleSet) Requirements() indicator.Requirements {
	return indicator.Requirements{SMAPeriods: []int{50}}
}

func (stubRuleSet) Entry(ctx *strategy.Context) bool {
	sma := ctx.Indicators.SMAAt(50, ctx.Index)
	return indicator.IsDefined(sma) && ctx.Bar().Close > sma
}

func (stubRuleSet) ExitRules() []strategy.ExitRule {
	stopPrice := func(ctx *strategy.Context, pos *strategy.PositionState) float64 {
		return pos.HighestPrice * (1 - ctx.Params[domain.ParamTrailingStopPct]/100)
	}
	return []strategy.ExitRule{{
		Reason: domain.ExitReasonTrailingStop,
		Triggered: func(ctx *strategy.Context, pos *strategy.PositionState) bool {
			return ctx.Bar().Close < stopPrice(ctx, pos)
		},
		Price: stopPrice,
	}}
}

func (stubRuleSet) TrendRef(ctx *strategy.Context) (float64, bool) {
	sma := ctx.Indicators.SMAAt(50, ctx.Index)
	return sma, indicator.IsDefined(sma)
}

// risingBars builds a series whose close rises pct percent per bar.
func risingBars(n int, pct float64) []domain.PriceBar {
	bars := make([]domain.PriceBar, n)
	price := 100.0
	for i := range bars {
		bars[i] = domain.PriceBar{
			Date:  int64(i+1) * domain.MillisPerDay,
			Open:  price,
			High:  price,
			Low:   price,
			Close: price,
		}
		price *= 1 + pct/100
	}
	return bars
}

func runStub(bars []domain.PriceBar, params domain.ParameterSet) *Result {
	var rules stubRuleSet
	ind := indicator.Compute(bars, rules.Requirements())
	return Run(bars, ind, rules, params)
}

// A monotonically rising series never breaches the trailing stop: the
// position stays open through the final bar, the ledger stays empty,
// and the equity curve carries the cumulative return from entry.
func TestRun_RisingSeriesLeavesPositionOpen(t *testing.T) {
	bars := risingBars(500, 1)
	result := runStub(bars, domain.ParameterSet{domain.ParamTrailingStopPct: 10})

	if len(result.Trades) != 0 {
		t.Fatalf("expected 0 closed trades, got %d", len(result.Trades))
	}
	if result.OpenPosition == nil {
		t.Fatal("expected an open position at span end")
	}

	entryPrice := result.OpenPosition.EntryPrice
	wantFinal := InitialEquity * bars[len(bars)-1].Close / entryPrice
	gotFinal := result.Equity[len(result.Equity)-1].Equity
	if math.Abs(gotFinal-wantFinal)/wantFinal > 1e-9 {
		t.Errorf("final equity: got %f, want %f", gotFinal, wantFinal)
	}
	if len(result.Equity) != len(bars) {
		t.Errorf("equity curve has %d points, want one per bar (%d)", len(result.Equity), len(bars))
	}
}

// A 20% gap through a 10% trailing stop realizes the configured stop
// distance, not the raw drop magnitude.
func TestRun_TrailingStopFillsAtStopLevel(t *testing.T) {
	bars := risingBars(53, 0.1)
	drop := bars[50].Close * 0.80
	for i := 51; i < len(bars); i++ {
		bars[i].Open = drop
		bars[i].High = drop
		bars[i].Low = drop
		bars[i].Close = drop
	}

	result := runStub(bars, domain.ParameterSet{domain.ParamTrailingStopPct: 10})

	if len(result.Trades) != 1 {
		t.Fatalf("expected exactly 1 closed trade, got %d", len(result.Trades))
	}

	trade := result.Trades[0]
	if trade.ExitReason != domain.ExitReasonTrailingStop {
		t.Errorf("exit reason: got %s, want %s", trade.ExitReason, domain.ExitReasonTrailingStop)
	}
	if math.Abs(trade.ReturnPct-(-10)) > 0.5 {
		t.Errorf("return: got %.2f%%, want about -10%%", trade.ReturnPct)
	}
}

func TestRun_TradesFullyResolvedAndOrdered(t *testing.T) {
	// Alternate run-ups and crashes to force several round-trips.
	bars := risingBars(300, 0.5)
	for _, crash := range []int{80, 150, 220} {
		level := bars[crash-1].Close * 0.70
		for i := crash; i < crash+10; i++ {
			bars[i].Open = level
			bars[i].High = level
			bars[i].Low = level
			bars[i].Close = level
		}
	}

	result := runStub(bars, domain.ParameterSet{domain.ParamTrailingStopPct: 10})

	if len(result.Trades) == 0 {
		t.Fatal("expected at least one closed trade")
	}

	var prevExit int64
	for i, trade := range result.Trades {
		if trade.ExitDate <= trade.EntryDate {
			t.Errorf("trade %d: exit date not after entry date", i)
		}
		if trade.EntryDate < prevExit {
			t.Errorf("trade %d overlaps previous trade", i)
		}
		prevExit = trade.ExitDate
	}
}

func TestRun_Idempotent(t *testing.T) {
	bars := risingBars(300, 0.5)
	level := bars[99].Close * 0.70
	for i := 100; i < 110; i++ {
		bars[i].Close = level
		bars[i].High = level
		bars[i].Low = level
	}
	params := domain.ParameterSet{domain.ParamTrailingStopPct: 10}

	first := runStub(bars, params)
	second := runStub(bars, params)

	if !reflect.DeepEqual(first.Trades, second.Trades) {
		t.Error("trade ledgers differ between identical runs")
	}
	if !reflect.DeepEqual(first.Equity, second.Equity) {
		t.Error("equity curves differ between identical runs")
	}
}

// Equity compounds: after a close, realized equity is multiplied by
// (1 + return), and flat spans hold it constant.
func TestRun_EquityCompounding(t *testing.T) {
	bars := risingBars(70, 0.1)
	drop := bars[54].Close * 0.50
	for i := 55; i < len(bars); i++ {
		bars[i].Open = drop
		bars[i].High = drop
		bars[i].Low = drop
		bars[i].Close = drop
	}

	result := runStub(bars, domain.ParameterSet{domain.ParamTrailingStopPct: 10})

	if len(result.Trades) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(result.Trades))
	}
	trade := result.Trades[0]

	wantRealized := InitialEquity * (1 + trade.ReturnPct/100)
	final := result.Equity[len(result.Equity)-1].Equity
	if math.Abs(final-wantRealized) > 1e-6 {
		t.Errorf("final equity %f does not match compounded realized %f", final, wantRealized)
	}
}
