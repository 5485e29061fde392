package memory

import (
	"context"
	"sort"
	"sync"

	"walkforward-lab/internal/domain"
	"walkforward-lab/internal/storage"
)

// EquityCurveStore is an in-memory implementation of storage.EquityCurveStore.
type EquityCurveStore struct {
	mu   sync.RWMutex
	data map[string]map[int64]domain.EquityPoint // run_id -> date -> point
}

// NewEquityCurveStore creates a new in-memory equity curve store.
func NewEquityCurveStore() *EquityCurveStore {
	return &EquityCurveStore{
		data: make(map[string]map[int64]domain.EquityPoint),
	}
}

// InsertBulk adds the curve of a run. Fails entire batch on duplicate (run_id, date).
func (s *EquityCurveStore) InsertBulk(_ context.Context, runID string, points []domain.EquityPoint) error {
	if runID == "" {
		return storage.ErrInvalidInput
	}
	if len(points) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.data[runID]

	batchKeys := make(map[int64]struct{}, len(points))
	for _, p := range points {
		if _, exists := existing[p.Date]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[p.Date]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[p.Date] = struct{}{}
	}

	if existing == nil {
		existing = make(map[int64]domain.EquityPoint, len(points))
		s.data[runID] = existing
	}
	for _, p := range points {
		existing[p.Date] = p
	}

	return nil
}

// GetByRunID retrieves the curve of a run, ordered by date ASC.
func (s *EquityCurveStore) GetByRunID(_ context.Context, runID string) ([]domain.EquityPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.EquityPoint, 0, len(s.data[runID]))
	for _, p := range s.data[runID] {
		result = append(result, p)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Date < result[j].Date
	})

	return result, nil
}

var _ storage.EquityCurveStore = (*EquityCurveStore)(nil)
