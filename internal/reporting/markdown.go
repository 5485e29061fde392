package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Walk-Forward Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Run: `%s`\n\n", r.RunID))

	// Run Summary
	sb.WriteString("## Run Summary\n\n")
	sb.WriteString("| Field | Value |\n")
	sb.WriteString("|-------|-------|\n")
	if r.Instrument.Symbol != "" {
		sb.WriteString(fmt.Sprintf("| Instrument | %s/%s |\n", r.Instrument.Symbol, r.Instrument.Exchange))
	}
	sb.WriteString(fmt.Sprintf("| Instrument ID | %s |\n", r.Instrument.InstrumentID))
	sb.WriteString(fmt.Sprintf("| Strategy | %s |\n", r.StrategyID))
	sb.WriteString(fmt.Sprintf("| Train/Test/Step (bars) | %d/%d/%d |\n", r.TrainLength, r.TestLength, r.StepLength))
	sb.WriteString(fmt.Sprintf("| Windows | %d |\n", r.NumWindows))
	sb.WriteString("\n")

	// Optimal Parameters
	sb.WriteString("## Optimal Parameters\n\n")
	if len(r.OptimalParams) > 0 {
		sb.WriteString("| Parameter | Value |\n")
		sb.WriteString("|-----------|-------|\n")
		for _, p := range r.OptimalParams {
			sb.WriteString(fmt.Sprintf("| %s | %.4f |\n", p.Name, p.Value))
		}
	} else {
		sb.WriteString("No parameters selected.\n")
	}
	sb.WriteString("\n")

	// Window Results
	sb.WriteString("## Window Results\n\n")
	if len(r.Windows) > 0 {
		sb.WriteString("| Window | Train | Test | Score | IS Sharpe | OOS Sharpe | IS Return% | OOS Return% | IS Trades | OOS Trades | Degradation |\n")
		sb.WriteString("|--------|-------|------|-------|-----------|------------|------------|-------------|-----------|------------|-------------|\n")
		for _, w := range r.Windows {
			sb.WriteString(fmt.Sprintf("| %d | [%d, %d] | [%d, %d] | %.4f | %.4f | %.4f | %.2f | %.2f | %d | %d | %.4f |\n",
				w.WindowID, w.TrainStart, w.TrainEnd, w.TestStart, w.TestEnd,
				w.BestScore, w.TrainSharpe, w.TestSharpe, w.TrainReturn, w.TestReturn,
				w.TrainTrades, w.TestTrades, w.DegradationOverall))
		}
	} else {
		sb.WriteString("No window results available.\n")
	}
	sb.WriteString("\n")

	// Aggregate Performance
	sb.WriteString("## Aggregate Performance\n\n")
	sb.WriteString("| Metric | In-Sample | Out-of-Sample |\n")
	sb.WriteString("|--------|-----------|---------------|\n")
	sb.WriteString(fmt.Sprintf("| Sharpe Ratio | %.4f | %.4f |\n", r.InSample.SharpeRatio, r.OutSample.SharpeRatio))
	sb.WriteString(fmt.Sprintf("| Total Return %% | %.2f | %.2f |\n", r.InSample.TotalReturn, r.OutSample.TotalReturn))
	sb.WriteString(fmt.Sprintf("| Win Rate %% | %.2f | %.2f |\n", r.InSample.WinRate, r.OutSample.WinRate))
	sb.WriteString(fmt.Sprintf("| Profit Factor | %.4f | %.4f |\n", r.InSample.ProfitFactor, r.OutSample.ProfitFactor))
	sb.WriteString(fmt.Sprintf("| Max Drawdown %% | %.2f | %.2f |\n", r.InSample.MaxDrawdown, r.OutSample.MaxDrawdown))
	sb.WriteString(fmt.Sprintf("| Trades | %d | %d |\n", r.InSample.NumTrades, r.OutSample.NumTrades))
	sb.WriteString("\n")

	// Degradation
	sb.WriteString("## Degradation (OOS / IS)\n\n")
	sb.WriteString("| Ratio | Value |\n")
	sb.WriteString("|-------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Sharpe | %.4f |\n", r.Degradation.SharpeRatio))
	sb.WriteString(fmt.Sprintf("| Win Rate | %.4f |\n", r.Degradation.WinRate))
	sb.WriteString(fmt.Sprintf("| Profit Factor | %.4f |\n", r.Degradation.ProfitFactor))
	sb.WriteString(fmt.Sprintf("| **Overall** | **%.4f** |\n", r.Degradation.Overall))
	sb.WriteString("\n")

	// Parameter Stability
	sb.WriteString("## Parameter Stability\n\n")
	if len(r.Stability) > 0 {
		sb.WriteString("| Parameter | Mean | Std | Min | Max | CV |\n")
		sb.WriteString("|-----------|------|-----|-----|-----|----|\n")
		for _, s := range r.Stability {
			sb.WriteString(fmt.Sprintf("| %s | %.4f | %.4f | %.4f | %.4f | %.4f |\n",
				s.Name, s.Mean, s.Std, s.Min, s.Max, s.CV))
		}
	} else {
		sb.WriteString("No stability data available.\n")
	}
	sb.WriteString("\n")

	// Equity
	sb.WriteString("## Out-of-Sample Equity\n\n")
	if r.Equity.Points > 0 {
		sb.WriteString("| Field | Value |\n")
		sb.WriteString("|-------|-------|\n")
		sb.WriteString(fmt.Sprintf("| Points | %d |\n", r.Equity.Points))
		sb.WriteString(fmt.Sprintf("| Start Equity | %.2f |\n", r.Equity.StartEquity))
		sb.WriteString(fmt.Sprintf("| End Equity | %.2f |\n", r.Equity.EndEquity))
		sb.WriteString(fmt.Sprintf("| Date Range (ms) | [%d, %d] |\n", r.Equity.StartDate, r.Equity.EndDate))
	} else {
		sb.WriteString("No equity curve available.\n")
	}
	sb.WriteString("\n")

	// Robustness Verdict
	sb.WriteString("## Robustness Verdict\n\n")
	if r.Robustness != nil {
		sb.WriteString(fmt.Sprintf("**Verdict: %s**\n\n", r.Robustness.Verdict))

		sb.WriteString("### GO Criteria\n\n")
		sb.WriteString("| Criterion | Threshold | Actual | Status |\n")
		sb.WriteString("|-----------|-----------|--------|--------|\n")
		for _, c := range r.Robustness.GOCriteria {
			status := "FAIL"
			if c.Pass {
				status = "PASS"
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n", c.Name, c.Threshold, c.Actual, status))
		}
		sb.WriteString("\n")

		sb.WriteString("### NO-GO Triggers\n\n")
		sb.WriteString("| Trigger | Condition | Actual | Status |\n")
		sb.WriteString("|---------|-----------|--------|--------|\n")
		for _, c := range r.Robustness.NOGOChecks {
			status := "FIRED"
			if c.Pass {
				status = "CLEAR"
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n", c.Name, c.Threshold, c.Actual, status))
		}
	} else {
		sb.WriteString("No verdict available.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}
