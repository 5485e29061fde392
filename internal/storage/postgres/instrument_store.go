package postgres

import (
	"context"
	"fmt"

	"walkforward-lab/internal/domain"
	"walkforward-lab/internal/storage"
)

// InstrumentStore implements storage.InstrumentStore using PostgreSQL.
type InstrumentStore struct {
	pool *Pool
}

// NewInstrumentStore creates a new InstrumentStore.
func NewInstrumentStore(pool *Pool) *InstrumentStore {
	return &InstrumentStore{pool: pool}
}

// Compile-time interface check.
var _ storage.InstrumentStore = (*InstrumentStore)(nil)

// Insert adds a new instrument. Returns ErrDuplicateKey if instrument_id exists.
func (s *InstrumentStore) Insert(ctx context.Context, ins *domain.Instrument) error {
	query := `
		INSERT INTO instruments (
			instrument_id, symbol, exchange, first_bar_date, last_bar_date, bar_count
		) VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.pool.Exec(ctx, query,
		ins.InstrumentID, ins.Symbol, ins.Exchange,
		ins.FirstBarDate, ins.LastBarDate, ins.BarCount,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert instrument: %w", err)
	}
	return nil
}

// GetByID retrieves an instrument by its ID. Returns ErrNotFound if not exists.
func (s *InstrumentStore) GetByID(ctx context.Context, instrumentID string) (*domain.Instrument, error) {
	query := `
		SELECT instrument_id, symbol, exchange, first_bar_date, last_bar_date, bar_count
		FROM instruments
		WHERE instrument_id = $1
	`

	var ins domain.Instrument
	err := s.pool.QueryRow(ctx, query, instrumentID).Scan(
		&ins.InstrumentID, &ins.Symbol, &ins.Exchange,
		&ins.FirstBarDate, &ins.LastBarDate, &ins.BarCount,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get instrument by id: %w", err)
	}
	return &ins, nil
}

// GetBySymbol retrieves an instrument by symbol and exchange. Returns ErrNotFound if not exists.
func (s *InstrumentStore) GetBySymbol(ctx context.Context, symbol, exchange string) (*domain.Instrument, error) {
	query := `
		SELECT instrument_id, symbol, exchange, first_bar_date, last_bar_date, bar_count
		FROM instruments
		WHERE symbol = $1 AND exchange = $2
	`

	var ins domain.Instrument
	err := s.pool.QueryRow(ctx, query, symbol, exchange).Scan(
		&ins.InstrumentID, &ins.Symbol, &ins.Exchange,
		&ins.FirstBarDate, &ins.LastBarDate, &ins.BarCount,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get instrument by symbol: %w", err)
	}
	return &ins, nil
}

// List retrieves all instruments, ordered by symbol ASC.
func (s *InstrumentStore) List(ctx context.Context) ([]*domain.Instrument, error) {
	query := `
		SELECT instrument_id, symbol, exchange, first_bar_date, last_bar_date, bar_count
		FROM instruments
		ORDER BY symbol ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list instruments: %w", err)
	}
	defer rows.Close()

	var result []*domain.Instrument
	for rows.Next() {
		var ins domain.Instrument
		err := rows.Scan(
			&ins.InstrumentID, &ins.Symbol, &ins.Exchange,
			&ins.FirstBarDate, &ins.LastBarDate, &ins.BarCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan instrument row: %w", err)
		}
		result = append(result, &ins)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate instrument rows: %w", err)
	}

	return result, nil
}
