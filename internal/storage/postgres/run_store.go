package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"walkforward-lab/internal/domain"
	"walkforward-lab/internal/storage"
)

// RunStore implements storage.RunStore using PostgreSQL. Queryable
// identity fields live in dedicated columns; the structured payloads
// (config, windows, diagnostics) are stored as JSONB.
type RunStore struct {
	pool *Pool
}

// NewRunStore creates a new RunStore.
func NewRunStore(pool *Pool) *RunStore {
	return &RunStore{pool: pool}
}

// Compile-time interface check.
var _ storage.RunStore = (*RunStore)(nil)

// runPayload is the JSONB document of one run.
type runPayload struct {
	Config        domain.WalkForwardConfig             `json:"config"`
	Windows       []domain.WindowResult                `json:"windows"`
	OptimalParams domain.ParameterSet                  `json:"optimal_params"`
	InSample      domain.Metrics                       `json:"in_sample"`
	OutSample     domain.Metrics                       `json:"out_sample"`
	Degradation   domain.Degradation                   `json:"degradation"`
	Stability     map[string]domain.ParameterStability `json:"stability"`
	TestTrades    []domain.Trade                       `json:"test_trades"`
}

// Insert adds a completed run. Returns ErrDuplicateKey if run_id exists.
func (s *RunStore) Insert(ctx context.Context, run *domain.RunResult) error {
	if run == nil || run.RunID == "" {
		return storage.ErrInvalidInput
	}

	payload, err := json.Marshal(runPayload{
		Config:        run.Config,
		Windows:       run.Windows,
		OptimalParams: run.OptimalParams,
		InSample:      run.InSampleMetrics,
		OutSample:     run.OutSampleMetrics,
		Degradation:   run.Degradation,
		Stability:     run.Stability,
		TestTrades:    run.TestTrades,
	})
	if err != nil {
		return fmt.Errorf("marshal run payload: %w", err)
	}

	query := `
		INSERT INTO walkforward_runs (
			run_id, instrument_id, strategy_id, created_at, payload
		) VALUES ($1, $2, $3, $4, $5)
	`

	_, err = s.pool.Exec(ctx, query,
		run.RunID, run.InstrumentID, run.StrategyID, run.CreatedAt, payload,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// GetByID retrieves a run by its ID. Returns ErrNotFound if not exists.
func (s *RunStore) GetByID(ctx context.Context, runID string) (*domain.RunResult, error) {
	query := `
		SELECT run_id, instrument_id, strategy_id, created_at, payload
		FROM walkforward_runs
		WHERE run_id = $1
	`

	run, err := scanRun(s.pool.QueryRow(ctx, query, runID))
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get run by id: %w", err)
	}
	return run, nil
}

// GetByInstrumentID retrieves all runs for an instrument, ordered by created_at ASC.
func (s *RunStore) GetByInstrumentID(ctx context.Context, instrumentID string) ([]*domain.RunResult, error) {
	query := `
		SELECT run_id, instrument_id, strategy_id, created_at, payload
		FROM walkforward_runs
		WHERE instrument_id = $1
		ORDER BY created_at ASC
	`

	rows, err := s.pool.Query(ctx, query, instrumentID)
	if err != nil {
		return nil, fmt.Errorf("query runs by instrument: %w", err)
	}
	defer rows.Close()

	var result []*domain.RunResult
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		result = append(result, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run rows: %w", err)
	}

	return result, nil
}

// scanRun scans one run row and unpacks its JSONB payload.
func scanRun(row pgx.Row) (*domain.RunResult, error) {
	var run domain.RunResult
	var raw []byte

	if err := row.Scan(&run.RunID, &run.InstrumentID, &run.StrategyID, &run.CreatedAt, &raw); err != nil {
		return nil, err
	}

	var payload runPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("unmarshal run payload: %w", err)
	}

	run.Config = payload.Config
	run.Windows = payload.Windows
	run.OptimalParams = payload.OptimalParams
	run.InSampleMetrics = payload.InSample
	run.OutSampleMetrics = payload.OutSample
	run.Degradation = payload.Degradation
	run.Stability = payload.Stability
	run.TestTrades = payload.TestTrades

	return &run, nil
}
