package clickhouse

import (
	"context"
	"fmt"

	"walkforward-lab/internal/domain"
	"walkforward-lab/internal/storage"
)

// EquityCurveStore implements storage.EquityCurveStore using ClickHouse.
type EquityCurveStore struct {
	conn *Conn
}

// NewEquityCurveStore creates a new EquityCurveStore.
func NewEquityCurveStore(conn *Conn) *EquityCurveStore {
	return &EquityCurveStore{conn: conn}
}

// Compile-time interface check.
var _ storage.EquityCurveStore = (*EquityCurveStore)(nil)

// InsertBulk adds the curve of a run. Fails entire batch on duplicate (run_id, date).
func (s *EquityCurveStore) InsertBulk(ctx context.Context, runID string, points []domain.EquityPoint) error {
	if runID == "" {
		return storage.ErrInvalidInput
	}
	if len(points) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	seen := make(map[int64]struct{}, len(points))
	for _, p := range points {
		if _, exists := seen[p.Date]; exists {
			return storage.ErrDuplicateKey
		}
		seen[p.Date] = struct{}{}
	}

	// A run's curve is written once; any stored point means a duplicate.
	var count uint64
	err := s.conn.QueryRow(ctx, `SELECT count(*) FROM equity_curves WHERE run_id = ?`, runID).Scan(&count)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if count > 0 {
		return storage.ErrDuplicateKey
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO equity_curves (run_id, date, equity)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, p := range points {
		if err := batch.Append(runID, uint64(p.Date), p.Equity); err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByRunID retrieves the curve of a run, ordered by date ASC.
func (s *EquityCurveStore) GetByRunID(ctx context.Context, runID string) ([]domain.EquityPoint, error) {
	query := `
		SELECT date, equity
		FROM equity_curves
		WHERE run_id = ?
		ORDER BY date ASC
	`

	rows, err := s.conn.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("query by run id: %w", err)
	}
	defer rows.Close()

	var points []domain.EquityPoint
	for rows.Next() {
		var p domain.EquityPoint
		var date uint64

		if err := rows.Scan(&date, &p.Equity); err != nil {
			return nil, fmt.Errorf("scan equity point row: %w", err)
		}
		p.Date = int64(date)
		points = append(points, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate equity point rows: %w", err)
	}

	return points, nil
}
