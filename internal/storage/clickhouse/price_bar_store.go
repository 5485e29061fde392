package clickhouse

import (
	"context"
	"fmt"

	"walkforward-lab/internal/domain"
	"walkforward-lab/internal/storage"
)

// PriceBarStore implements storage.PriceBarStore using ClickHouse.
type PriceBarStore struct {
	conn *Conn
}

// NewPriceBarStore creates a new PriceBarStore.
func NewPriceBarStore(conn *Conn) *PriceBarStore {
	return &PriceBarStore{conn: conn}
}

// Compile-time interface check.
var _ storage.PriceBarStore = (*PriceBarStore)(nil)

// InsertBulk adds multiple bars for an instrument. Fails entire batch
// on duplicate (instrument_id, date). MergeTree does not enforce
// uniqueness, so duplicates are rejected by explicit checks before the
// batch is sent.
func (s *PriceBarStore) InsertBulk(ctx context.Context, instrumentID string, bars []domain.PriceBar) error {
	if instrumentID == "" {
		return storage.ErrInvalidInput
	}
	if len(bars) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	seen := make(map[int64]struct{}, len(bars))
	for _, b := range bars {
		if _, exists := seen[b.Date]; exists {
			return storage.ErrDuplicateKey
		}
		seen[b.Date] = struct{}{}
	}

	// Check for duplicates against existing DB rows
	lo, hi := bars[0].Date, bars[0].Date
	for _, b := range bars {
		if b.Date < lo {
			lo = b.Date
		}
		if b.Date > hi {
			hi = b.Date
		}
	}
	existing, err := s.existingDates(ctx, instrumentID, lo, hi)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	for _, b := range bars {
		if _, exists := existing[b.Date]; exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO price_bars (
			instrument_id, date, open, high, low, close, volume
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, b := range bars {
		err = batch.Append(
			instrumentID, uint64(b.Date),
			b.Open, b.High, b.Low, b.Close, b.Volume,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByInstrumentID retrieves all bars for an instrument, ordered by date ASC.
func (s *PriceBarStore) GetByInstrumentID(ctx context.Context, instrumentID string) ([]domain.PriceBar, error) {
	query := `
		SELECT date, open, high, low, close, volume
		FROM price_bars
		WHERE instrument_id = ?
		ORDER BY date ASC
	`

	rows, err := s.conn.Query(ctx, query, instrumentID)
	if err != nil {
		return nil, fmt.Errorf("query by instrument id: %w", err)
	}
	defer rows.Close()

	return scanPriceBars(rows)
}

// GetByTimeRange retrieves bars for an instrument within [start, end] (inclusive).
func (s *PriceBarStore) GetByTimeRange(ctx context.Context, instrumentID string, start, end int64) ([]domain.PriceBar, error) {
	query := `
		SELECT date, open, high, low, close, volume
		FROM price_bars
		WHERE instrument_id = ? AND date >= ? AND date <= ?
		ORDER BY date ASC
	`

	rows, err := s.conn.Query(ctx, query, instrumentID, uint64(start), uint64(end))
	if err != nil {
		return nil, fmt.Errorf("query by time range: %w", err)
	}
	defer rows.Close()

	return scanPriceBars(rows)
}

// existingDates returns the stored dates of an instrument inside [lo, hi].
func (s *PriceBarStore) existingDates(ctx context.Context, instrumentID string, lo, hi int64) (map[int64]struct{}, error) {
	query := `
		SELECT date FROM price_bars
		WHERE instrument_id = ? AND date >= ? AND date <= ?
	`

	rows, err := s.conn.Query(ctx, query, instrumentID, uint64(lo), uint64(hi))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dates := make(map[int64]struct{})
	for rows.Next() {
		var date uint64
		if err := rows.Scan(&date); err != nil {
			return nil, err
		}
		dates[int64(date)] = struct{}{}
	}
	return dates, rows.Err()
}

// scanPriceBars scans multiple rows.
func scanPriceBars(rows chRows) ([]domain.PriceBar, error) {
	var bars []domain.PriceBar

	for rows.Next() {
		var b domain.PriceBar
		var date uint64

		err := rows.Scan(&date, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume)
		if err != nil {
			return nil, fmt.Errorf("scan price bar row: %w", err)
		}

		b.Date = int64(date)
		bars = append(bars, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate price bar rows: %w", err)
	}

	return bars, nil
}
