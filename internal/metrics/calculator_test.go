package metrics

import (
	"math"
	"testing"

	"walkforward-lab/internal/domain"
)

func tradeWithReturn(pct float64, days int) domain.Trade {
	return domain.Trade{
		EntryDate:    1 * domain.MillisPerDay,
		ExitDate:     int64(days+1) * domain.MillisPerDay,
		ReturnPct:    pct,
		DurationDays: days,
	}
}

func equityFromValues(values ...float64) []domain.EquityPoint {
	points := make([]domain.EquityPoint, len(values))
	for i, v := range values {
		points[i] = domain.EquityPoint{Date: int64(i+1) * domain.MillisPerDay, Equity: v}
	}
	return points
}

func TestCompute_EmptyLedgerReturnsZeroShape(t *testing.T) {
	m := Compute(nil, equityFromValues(10000, 10100))

	if m != (domain.Metrics{}) {
		t.Errorf("expected zero-valued metrics, got %+v", m)
	}
	if m.NumTrades != 0 {
		t.Errorf("NumTrades: got %d, want 0", m.NumTrades)
	}
}

func TestCompute_SharpeZeroWithOneTrade(t *testing.T) {
	trades := []domain.Trade{tradeWithReturn(5, 10)}
	m := Compute(trades, equityFromValues(10000, 10500))

	if m.SharpeRatio != 0 {
		t.Errorf("Sharpe with one trade: got %f, want 0", m.SharpeRatio)
	}
	if m.NumTrades != 1 {
		t.Errorf("NumTrades: got %d, want 1", m.NumTrades)
	}
}

func TestCompute_SharpeZeroWithZeroStdev(t *testing.T) {
	trades := []domain.Trade{tradeWithReturn(5, 10), tradeWithReturn(5, 10)}
	m := Compute(trades, equityFromValues(10000, 10500, 11025))

	if m.SharpeRatio != 0 {
		t.Errorf("Sharpe with identical returns: got %f, want 0", m.SharpeRatio)
	}
}

func TestCompute_SharpeAnnualized(t *testing.T) {
	trades := []domain.Trade{tradeWithReturn(10, 5), tradeWithReturn(-2, 5)}
	m := Compute(trades, equityFromValues(10000, 11000, 10780))

	// returns: 0.10, -0.02 -> mean 0.04, population stdev 0.06
	want := 0.04 / 0.06 * math.Sqrt(252)
	if math.Abs(m.SharpeRatio-want) > 1e-9 {
		t.Errorf("Sharpe: got %f, want %f", m.SharpeRatio, want)
	}
}

func TestCompute_TotalReturnFromEquityEndpoints(t *testing.T) {
	trades := []domain.Trade{tradeWithReturn(1, 1)}
	m := Compute(trades, equityFromValues(10000, 12000, 11000))

	if math.Abs(m.TotalReturn-10) > 1e-9 {
		t.Errorf("TotalReturn: got %f, want 10", m.TotalReturn)
	}
}

func TestCompute_WinRateAndProfitFactor(t *testing.T) {
	trades := []domain.Trade{
		tradeWithReturn(10, 3),
		tradeWithReturn(6, 4),
		tradeWithReturn(-4, 2),
	}
	m := Compute(trades, equityFromValues(10000, 11000, 11660, 11194))

	if math.Abs(m.WinRate-200.0/3) > 1e-9 {
		t.Errorf("WinRate: got %f, want %f", m.WinRate, 200.0/3)
	}
	// gross profit 0.16, gross loss 0.04
	if math.Abs(m.ProfitFactor-4) > 1e-9 {
		t.Errorf("ProfitFactor: got %f, want 4", m.ProfitFactor)
	}
	if math.Abs(m.AvgWin-8) > 1e-9 {
		t.Errorf("AvgWin: got %f, want 8", m.AvgWin)
	}
	if math.Abs(m.AvgLoss-(-4)) > 1e-9 {
		t.Errorf("AvgLoss: got %f, want -4", m.AvgLoss)
	}
	if math.Abs(m.AvgTradeDuration-3) > 1e-9 {
		t.Errorf("AvgTradeDuration: got %f, want 3", m.AvgTradeDuration)
	}
}

func TestCompute_ProfitFactorZeroWithoutLosses(t *testing.T) {
	trades := []domain.Trade{tradeWithReturn(5, 1), tradeWithReturn(3, 1)}
	m := Compute(trades, equityFromValues(10000, 10500, 10815))

	if m.ProfitFactor != 0 {
		t.Errorf("ProfitFactor without losses: got %f, want 0", m.ProfitFactor)
	}
}

func TestMaxDrawdown(t *testing.T) {
	equity := equityFromValues(10000, 12000, 9000, 11000, 8800)

	// Worst: 8800 from peak 12000 -> -26.66%
	want := (8800.0 - 12000.0) / 12000.0 * 100
	if got := MaxDrawdown(equity); math.Abs(got-want) > 1e-9 {
		t.Errorf("MaxDrawdown: got %f, want %f", got, want)
	}
}

func TestMaxDrawdown_MonotonicRiseIsZero(t *testing.T) {
	if got := MaxDrawdown(equityFromValues(1, 2, 3, 4)); got != 0 {
		t.Errorf("MaxDrawdown on rising curve: got %f, want 0", got)
	}
}

func TestAggregate(t *testing.T) {
	list := []domain.Metrics{
		{SharpeRatio: 1, WinRate: 60, NumTrades: 10, TotalReturn: 20},
		{SharpeRatio: 3, WinRate: 40, NumTrades: 15, TotalReturn: 10},
	}

	agg := Aggregate(list)
	if math.Abs(agg.SharpeRatio-2) > 1e-9 {
		t.Errorf("aggregated Sharpe: got %f, want 2", agg.SharpeRatio)
	}
	if math.Abs(agg.WinRate-50) > 1e-9 {
		t.Errorf("aggregated WinRate: got %f, want 50", agg.WinRate)
	}
	if agg.NumTrades != 13 {
		t.Errorf("aggregated NumTrades: got %d, want 13", agg.NumTrades)
	}

	if Aggregate(nil) != (domain.Metrics{}) {
		t.Error("aggregating empty list should yield zero metrics")
	}
}
