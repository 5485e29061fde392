package memory

import (
	"context"
	"errors"
	"testing"

	"walkforward-lab/internal/domain"
	"walkforward-lab/internal/storage"
)

func sampleRun(runID, instrumentID string, createdAt int64) *domain.RunResult {
	return &domain.RunResult{
		RunID:        runID,
		InstrumentID: instrumentID,
		StrategyID:   domain.StrategyTypeMomentumTrend,
		CreatedAt:    createdAt,
		Config: domain.WalkForwardConfig{
			TrainLength:  252,
			TestLength:   63,
			StepLength:   21,
			StrategyType: domain.StrategyTypeMomentumTrend,
			Grid:         domain.DefaultParameterGrid(),
		},
		Windows: []domain.WindowResult{{
			WindowID:   0,
			BestParams: domain.ParameterSet{domain.ParamTrailingStopPct: 10},
			BestScore:  1.2,
		}},
		OptimalParams: domain.ParameterSet{domain.ParamTrailingStopPct: 10},
		Degradation:   domain.Degradation{Overall: 0.8},
		Stability: map[string]domain.ParameterStability{
			domain.ParamTrailingStopPct: {Mean: 10},
		},
		TestTrades:  []domain.Trade{{EntryDate: 1000, ExitDate: 2000, ReturnPct: 5}},
		EquityCurve: []domain.EquityPoint{{Date: 1000, Equity: 10000}},
	}
}

func TestRunStore_InsertAndGet(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()

	if err := store.Insert(ctx, sampleRun("run1", "instr1", 1000)); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.GetByID(ctx, "run1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Degradation.Overall != 0.8 {
		t.Errorf("Degradation mismatch: got %f", got.Degradation.Overall)
	}
	if len(got.Windows) != 1 || got.Windows[0].BestScore != 1.2 {
		t.Error("window results not preserved")
	}
	if got.EquityCurve != nil {
		t.Error("stored run should not carry the equity curve")
	}
}

func TestRunStore_DuplicateKey(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()

	if err := store.Insert(ctx, sampleRun("run1", "instr1", 1000)); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}
	if err := store.Insert(ctx, sampleRun("run1", "instr1", 2000)); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestRunStore_NotFound(t *testing.T) {
	store := NewRunStore()

	if _, err := store.GetByID(context.Background(), "nonexistent"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestRunStore_GetByInstrumentOrdered(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()

	for _, r := range []*domain.RunResult{
		sampleRun("run2", "instr1", 3000),
		sampleRun("run1", "instr1", 1000),
		sampleRun("run3", "instr2", 2000),
	} {
		if err := store.Insert(ctx, r); err != nil {
			t.Fatalf("Insert %s failed: %v", r.RunID, err)
		}
	}

	runs, err := store.GetByInstrumentID(ctx, "instr1")
	if err != nil {
		t.Fatalf("GetByInstrumentID failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].RunID != "run1" || runs[1].RunID != "run2" {
		t.Errorf("runs not ordered by created_at: %s, %s", runs[0].RunID, runs[1].RunID)
	}
}

func TestRunStore_CopyIsolation(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()

	run := sampleRun("run1", "instr1", 1000)
	if err := store.Insert(ctx, run); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	run.OptimalParams[domain.ParamTrailingStopPct] = 99
	run.Windows[0].BestScore = -1

	got, err := store.GetByID(ctx, "run1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.OptimalParams[domain.ParamTrailingStopPct] != 10 {
		t.Error("store exposed parameter mutation")
	}
	if got.Windows[0].BestScore != 1.2 {
		t.Error("store exposed window mutation")
	}
}
