package memory

import (
	"context"
	"sort"
	"sync"

	"walkforward-lab/internal/domain"
	"walkforward-lab/internal/storage"
)

// InstrumentStore is an in-memory implementation of storage.InstrumentStore.
type InstrumentStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Instrument // keyed by instrument_id
}

// NewInstrumentStore creates a new in-memory instrument store.
func NewInstrumentStore() *InstrumentStore {
	return &InstrumentStore{
		data: make(map[string]*domain.Instrument),
	}
}

// Insert adds a new instrument. Returns ErrDuplicateKey if instrument_id exists.
func (s *InstrumentStore) Insert(_ context.Context, ins *domain.Instrument) error {
	if ins == nil || ins.InstrumentID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[ins.InstrumentID]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *ins
	s.data[ins.InstrumentID] = &copy
	return nil
}

// GetByID retrieves an instrument by its ID. Returns ErrNotFound if not exists.
func (s *InstrumentStore) GetByID(_ context.Context, instrumentID string) (*domain.Instrument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ins, exists := s.data[instrumentID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	copy := *ins
	return &copy, nil
}

// GetBySymbol retrieves an instrument by symbol and exchange. Returns ErrNotFound if not exists.
func (s *InstrumentStore) GetBySymbol(_ context.Context, symbol, exchange string) (*domain.Instrument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, ins := range s.data {
		if ins.Symbol == symbol && ins.Exchange == exchange {
			copy := *ins
			return &copy, nil
		}
	}
	return nil, storage.ErrNotFound
}

// List retrieves all instruments, ordered by symbol ASC.
func (s *InstrumentStore) List(_ context.Context) ([]*domain.Instrument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Instrument, 0, len(s.data))
	for _, ins := range s.data {
		copy := *ins
		result = append(result, &copy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Symbol < result[j].Symbol
	})

	return result, nil
}

var _ storage.InstrumentStore = (*InstrumentStore)(nil)
