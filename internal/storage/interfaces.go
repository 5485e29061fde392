package storage

import (
	"context"

	"walkforward-lab/internal/domain"
)

// InstrumentStore provides access to instruments storage.
type InstrumentStore interface {
	// Insert adds a new instrument. Returns ErrDuplicateKey if instrument_id exists.
	Insert(ctx context.Context, ins *domain.Instrument) error

	// GetByID retrieves an instrument by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, instrumentID string) (*domain.Instrument, error)

	// GetBySymbol retrieves an instrument by symbol and exchange. Returns ErrNotFound if not exists.
	GetBySymbol(ctx context.Context, symbol, exchange string) (*domain.Instrument, error)

	// List retrieves all instruments, ordered by symbol ASC.
	List(ctx context.Context) ([]*domain.Instrument, error)
}

// PriceBarStore provides access to daily bar storage.
type PriceBarStore interface {
	// InsertBulk adds multiple bars for an instrument. Fails entire batch
	// on duplicate (instrument_id, date).
	InsertBulk(ctx context.Context, instrumentID string, bars []domain.PriceBar) error

	// GetByInstrumentID retrieves all bars for an instrument, ordered by date ASC.
	GetByInstrumentID(ctx context.Context, instrumentID string) ([]domain.PriceBar, error)

	// GetByTimeRange retrieves bars for an instrument within [start, end] (inclusive).
	GetByTimeRange(ctx context.Context, instrumentID string, start, end int64) ([]domain.PriceBar, error)
}

// RunStore provides access to walk-forward run storage.
type RunStore interface {
	// Insert adds a completed run. Returns ErrDuplicateKey if run_id exists.
	Insert(ctx context.Context, run *domain.RunResult) error

	// GetByID retrieves a run by its ID. Returns ErrNotFound if not exists.
	// The stored run carries window results but not the equity curve;
	// curves live in the EquityCurveStore.
	GetByID(ctx context.Context, runID string) (*domain.RunResult, error)

	// GetByInstrumentID retrieves all runs for an instrument, ordered by created_at ASC.
	GetByInstrumentID(ctx context.Context, instrumentID string) ([]*domain.RunResult, error)
}

// EquityCurveStore provides access to out-of-sample equity curves.
type EquityCurveStore interface {
	// InsertBulk adds the curve of a run. Fails entire batch on duplicate (run_id, date).
	InsertBulk(ctx context.Context, runID string, points []domain.EquityPoint) error

	// GetByRunID retrieves the curve of a run, ordered by date ASC.
	GetByRunID(ctx context.Context, runID string) ([]domain.EquityPoint, error)
}
