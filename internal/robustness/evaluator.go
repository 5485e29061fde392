package robustness

import (
	"fmt"
	"sort"

	"walkforward-lab/internal/domain"
)

// Evaluator evaluates deployability criteria.
type Evaluator struct {
	thresholds Thresholds
}

// NewEvaluator creates a new evaluator. Zero thresholds select the
// defaults.
func NewEvaluator(thresholds Thresholds) *Evaluator {
	if thresholds == (Thresholds{}) {
		thresholds = DefaultThresholds
	}
	return &Evaluator{thresholds: thresholds}
}

// Evaluate produces a Result from a completed run.
// GO if ALL criteria pass and NO NO-GO triggers.
// NO-GO if ANY criterion fails or ANY trigger fires.
func (e *Evaluator) Evaluate(run *domain.RunResult) *Result {
	goCriteria := e.evaluateGOCriteria(run)
	nogoChecks := e.evaluateNOGOTriggers(run)

	allGOPass := true
	for _, c := range goCriteria {
		if !c.Pass {
			allGOPass = false
			break
		}
	}

	anyNOGOTriggered := false
	for _, c := range nogoChecks {
		if !c.Pass { // Pass=false means triggered
			anyNOGOTriggered = true
			break
		}
	}

	verdict := VerdictGO
	if !allGOPass || anyNOGOTriggered {
		verdict = VerdictNOGO
	}

	return &Result{
		Verdict:    verdict,
		GOCriteria: goCriteria,
		NOGOChecks: nogoChecks,
	}
}

func (e *Evaluator) evaluateGOCriteria(run *domain.RunResult) []CriterionResult {
	t := e.thresholds
	criteria := make([]CriterionResult, 4)

	// 1. Out-of-sample performance holds up against in-sample.
	criteria[0] = CriterionResult{
		Name:      "Performance retention",
		Threshold: fmt.Sprintf("overall degradation >= %.2f", t.MinOverallDegradation),
		Actual:    fmt.Sprintf("%.2f", run.Degradation.Overall),
		Pass:      run.Degradation.Overall >= t.MinOverallDegradation,
	}

	// 2. Out-of-sample edge exists at all.
	criteria[1] = CriterionResult{
		Name:      "Out-of-sample edge",
		Threshold: "OOS Sharpe > 0",
		Actual:    fmt.Sprintf("%.2f", run.OutSampleMetrics.SharpeRatio),
		Pass:      run.OutSampleMetrics.SharpeRatio > 0,
	}

	// 3. Selected parameters are stable across windows.
	name, worst := worstCV(run.Stability)
	criteria[2] = CriterionResult{
		Name:      "Parameter stability",
		Threshold: fmt.Sprintf("max CV <= %.2f", t.MaxParameterCV),
		Actual:    fmt.Sprintf("%s CV=%.2f", name, worst),
		Pass:      worst <= t.MaxParameterCV,
	}

	// 4. Enough out-of-sample trades to trust the statistics.
	criteria[3] = CriterionResult{
		Name:      "Out-of-sample sample size",
		Threshold: fmt.Sprintf(">= %d trades", t.MinOOSTrades),
		Actual:    fmt.Sprintf("%d", len(run.TestTrades)),
		Pass:      len(run.TestTrades) >= t.MinOOSTrades,
	}

	return criteria
}

// evaluateNOGOTriggers evaluates the hard failure triggers.
// Pass=true means NOT triggered, Pass=false means triggered.
func (e *Evaluator) evaluateNOGOTriggers(run *domain.RunResult) []CriterionResult {
	t := e.thresholds
	checks := make([]CriterionResult, 3)

	// 1. Edge disappears out of sample.
	triggered1 := run.InSampleMetrics.SharpeRatio > 0 && run.OutSampleMetrics.SharpeRatio <= 0
	checks[0] = CriterionResult{
		Name:      "Edge disappears out of sample",
		Threshold: "IS Sharpe > 0 AND OOS Sharpe <= 0",
		Actual: fmt.Sprintf("IS=%.2f, OOS=%.2f",
			run.InSampleMetrics.SharpeRatio, run.OutSampleMetrics.SharpeRatio),
		Pass: !triggered1,
	}

	// 2. Out-of-sample drawdown exceeds the risk limit.
	triggered2 := -run.OutSampleMetrics.MaxDrawdown > t.MaxDrawdownPct
	checks[1] = CriterionResult{
		Name:      "Excessive drawdown",
		Threshold: fmt.Sprintf("OOS drawdown > %.0f%%", t.MaxDrawdownPct),
		Actual:    fmt.Sprintf("%.2f%%", run.OutSampleMetrics.MaxDrawdown),
		Pass:      !triggered2,
	}

	// 3. Out-of-sample returns are net negative.
	triggered3 := run.OutSampleMetrics.TotalReturn < 0
	checks[2] = CriterionResult{
		Name:      "Negative out-of-sample return",
		Threshold: "OOS total return < 0",
		Actual:    fmt.Sprintf("%.2f%%", run.OutSampleMetrics.TotalReturn),
		Pass:      !triggered3,
	}

	return checks
}

// worstCV returns the parameter with the highest coefficient of
// variation. Names are scanned in sorted order so ties resolve
// deterministically.
func worstCV(stability map[string]domain.ParameterStability) (string, float64) {
	names := make([]string, 0, len(stability))
	for name := range stability {
		names = append(names, name)
	}
	sort.Strings(names)

	worstName := "none"
	worst := 0.0
	for _, name := range names {
		if cv := stability[name].CV; cv > worst {
			worstName = name
			worst = cv
		}
	}
	return worstName, worst
}
