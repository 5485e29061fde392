package robustness

import (
	"testing"

	"walkforward-lab/internal/domain"
)

func healthyRun() *domain.RunResult {
	trades := make([]domain.Trade, 15)
	return &domain.RunResult{
		InSampleMetrics:  domain.Metrics{SharpeRatio: 1.8, TotalReturn: 40, MaxDrawdown: -12},
		OutSampleMetrics: domain.Metrics{SharpeRatio: 1.2, TotalReturn: 18, MaxDrawdown: -15},
		Degradation:      domain.Degradation{Overall: 0.7},
		Stability: map[string]domain.ParameterStability{
			domain.ParamTrailingStopPct: {Mean: 10, Std: 2, CV: 0.2},
		},
		TestTrades: trades,
	}
}

func TestEvaluate_HealthyRunIsGO(t *testing.T) {
	result := NewEvaluator(Thresholds{}).Evaluate(healthyRun())

	if result.Verdict != VerdictGO {
		t.Errorf("verdict: got %s, want GO", result.Verdict)
		for _, c := range result.GOCriteria {
			if !c.Pass {
				t.Logf("failed criterion: %s (%s, actual %s)", c.Name, c.Threshold, c.Actual)
			}
		}
	}
	if len(result.GOCriteria) != 4 || len(result.NOGOChecks) != 3 {
		t.Errorf("checklist shape: %d criteria, %d triggers", len(result.GOCriteria), len(result.NOGOChecks))
	}
}

func TestEvaluate_HighDegradationIsNOGO(t *testing.T) {
	run := healthyRun()
	run.Degradation.Overall = 0.2

	if got := NewEvaluator(Thresholds{}).Evaluate(run).Verdict; got != VerdictNOGO {
		t.Errorf("verdict with degradation 0.2: got %s, want NO-GO", got)
	}
}

func TestEvaluate_UnstableParametersIsNOGO(t *testing.T) {
	run := healthyRun()
	run.Stability[domain.ParamMomentumThreshold] = domain.ParameterStability{Mean: 5, Std: 5, CV: 1.0}

	if got := NewEvaluator(Thresholds{}).Evaluate(run).Verdict; got != VerdictNOGO {
		t.Errorf("verdict with CV 1.0: got %s, want NO-GO", got)
	}
}

func TestEvaluate_VanishedEdgeTriggers(t *testing.T) {
	run := healthyRun()
	run.OutSampleMetrics.SharpeRatio = -0.3

	result := NewEvaluator(Thresholds{}).Evaluate(run)
	if result.Verdict != VerdictNOGO {
		t.Fatalf("verdict: got %s, want NO-GO", result.Verdict)
	}
	if result.NOGOChecks[0].Pass {
		t.Error("vanished edge trigger should have fired")
	}
}

func TestEvaluate_ThinSampleIsNOGO(t *testing.T) {
	run := healthyRun()
	run.TestTrades = run.TestTrades[:3]

	if got := NewEvaluator(Thresholds{}).Evaluate(run).Verdict; got != VerdictNOGO {
		t.Errorf("verdict with 3 OOS trades: got %s, want NO-GO", got)
	}
}

func TestEvaluate_CustomThresholds(t *testing.T) {
	run := healthyRun()
	run.Degradation.Overall = 0.3

	loose := NewEvaluator(Thresholds{
		MinOverallDegradation: 0.25,
		MaxParameterCV:        1.0,
		MinOOSTrades:          1,
		MaxDrawdownPct:        60,
	})
	if got := loose.Evaluate(run).Verdict; got != VerdictGO {
		t.Errorf("verdict with loose thresholds: got %s, want GO", got)
	}
}
