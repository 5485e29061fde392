package memory

import (
	"context"
	"errors"
	"testing"

	"walkforward-lab/internal/domain"
	"walkforward-lab/internal/storage"
)

func TestEquityCurveStore_InsertBulkAndGet(t *testing.T) {
	store := NewEquityCurveStore()
	ctx := context.Background()

	points := []domain.EquityPoint{
		{Date: 2000, Equity: 10100},
		{Date: 1000, Equity: 10000},
	}
	if err := store.InsertBulk(ctx, "run1", points); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, err := store.GetByRunID(ctx, "run1")
	if err != nil {
		t.Fatalf("GetByRunID failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 points, got %d", len(got))
	}
	if got[0].Date != 1000 || got[1].Date != 2000 {
		t.Error("points not ordered by date ASC")
	}
}

func TestEquityCurveStore_DuplicateDate(t *testing.T) {
	store := NewEquityCurveStore()
	ctx := context.Background()

	if err := store.InsertBulk(ctx, "run1", []domain.EquityPoint{{Date: 1000, Equity: 10000}}); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}
	err := store.InsertBulk(ctx, "run1", []domain.EquityPoint{{Date: 1000, Equity: 10500}})
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}

	// Same date under a different run is fine.
	if err := store.InsertBulk(ctx, "run2", []domain.EquityPoint{{Date: 1000, Equity: 10000}}); err != nil {
		t.Errorf("different run must not collide: %v", err)
	}
}

func TestEquityCurveStore_EmptyRun(t *testing.T) {
	store := NewEquityCurveStore()

	got, err := store.GetByRunID(context.Background(), "nonexistent")
	if err != nil {
		t.Fatalf("GetByRunID failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty curve, got %d points", len(got))
	}
}
