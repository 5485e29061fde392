package memory

import (
	"context"
	"sort"
	"sync"

	"walkforward-lab/internal/domain"
	"walkforward-lab/internal/storage"
)

// RunStore is an in-memory implementation of storage.RunStore.
type RunStore struct {
	mu   sync.RWMutex
	data map[string]*domain.RunResult // keyed by run_id
}

// NewRunStore creates a new in-memory run store.
func NewRunStore() *RunStore {
	return &RunStore{
		data: make(map[string]*domain.RunResult),
	}
}

// Insert adds a completed run. Returns ErrDuplicateKey if run_id exists.
func (s *RunStore) Insert(_ context.Context, run *domain.RunResult) error {
	if run == nil || run.RunID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[run.RunID]; exists {
		return storage.ErrDuplicateKey
	}

	s.data[run.RunID] = copyRun(run)
	return nil
}

// GetByID retrieves a run by its ID. Returns ErrNotFound if not exists.
func (s *RunStore) GetByID(_ context.Context, runID string) (*domain.RunResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, exists := s.data[runID]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return copyRun(run), nil
}

// GetByInstrumentID retrieves all runs for an instrument, ordered by created_at ASC.
func (s *RunStore) GetByInstrumentID(_ context.Context, instrumentID string) ([]*domain.RunResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.RunResult
	for _, run := range s.data {
		if run.InstrumentID == instrumentID {
			result = append(result, copyRun(run))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt < result[j].CreatedAt
	})

	return result, nil
}

// copyRun deep-copies the slices and maps a caller could mutate. The
// equity curve is dropped: curves belong to the EquityCurveStore.
func copyRun(run *domain.RunResult) *domain.RunResult {
	out := *run
	out.EquityCurve = nil

	out.Windows = append([]domain.WindowResult(nil), run.Windows...)
	for i, w := range out.Windows {
		out.Windows[i].BestParams = w.BestParams.Clone()
		out.Windows[i].TrainTrades = append([]domain.Trade(nil), w.TrainTrades...)
		out.Windows[i].TestTrades = append([]domain.Trade(nil), w.TestTrades...)
	}

	out.OptimalParams = run.OptimalParams.Clone()
	out.TestTrades = append([]domain.Trade(nil), run.TestTrades...)

	if run.Stability != nil {
		out.Stability = make(map[string]domain.ParameterStability, len(run.Stability))
		for k, v := range run.Stability {
			out.Stability[k] = v
		}
	}
	if run.Config.Grid != nil {
		grid := make(domain.ParameterGrid, len(run.Config.Grid))
		for k, v := range run.Config.Grid {
			grid[k] = append([]float64(nil), v...)
		}
		out.Config.Grid = grid
	}

	return &out
}

var _ storage.RunStore = (*RunStore)(nil)
