// Package robustness turns walk-forward diagnostics into a GO/NO-GO
// verdict on whether the optimized strategy is deployable.
package robustness

// Verdict represents the final GO/NO-GO result.
type Verdict string

const (
	VerdictGO   Verdict = "GO"
	VerdictNOGO Verdict = "NO-GO"
)

// CriterionResult represents pass/fail for one criterion.
type CriterionResult struct {
	Name      string
	Threshold string
	Actual    string
	Pass      bool
}

// Result contains the final verdict with checklist.
type Result struct {
	Verdict    Verdict
	GOCriteria []CriterionResult // criteria that must all pass
	NOGOChecks []CriterionResult // triggers that must not fire
}

// Thresholds are the tunable limits of the evaluation.
type Thresholds struct {
	// MinOverallDegradation is the lowest acceptable mean test/train
	// ratio.
	MinOverallDegradation float64

	// MaxParameterCV is the highest acceptable coefficient of
	// variation of any selected parameter.
	MaxParameterCV float64

	// MinOOSTrades is the lowest acceptable out-of-sample trade count.
	MinOOSTrades int

	// MaxDrawdownPct is the worst acceptable out-of-sample drawdown,
	// as a positive percentage.
	MaxDrawdownPct float64
}

// DefaultThresholds are the standard deployability limits.
var DefaultThresholds = Thresholds{
	MinOverallDegradation: 0.5,
	MaxParameterCV:        0.5,
	MinOOSTrades:          10,
	MaxDrawdownPct:        40,
}
