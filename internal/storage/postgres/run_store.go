package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"rectification-lab/internal/domain"
	"rectification-lab/internal/storage"
)

// RunStore implements storage.RunStore using PostgreSQL.
type RunStore struct {
	pool *Pool
}

// NewRunStore creates a new RunStore.
func NewRunStore(pool *Pool) *RunStore {
	return &RunStore{pool: pool}
}

// Compile-time interface check.
var _ storage.RunStore = (*RunStore)(nil)

const runColumns = `
	run_id, local_date, latitude, longitude, offset_seconds, search_window,
	strict_mode, outcome, attempts, candidate_count, rejection_count,
	best_candidate_id, best_score, best_instant, created_at
`

// Insert adds a run summary. Returns ErrDuplicateKey if run_id exists.
func (s *RunStore) Insert(ctx context.Context, run *domain.RunSummary) error {
	if run == nil || run.RunID == "" {
		return storage.ErrInvalidInput
	}

	query := `INSERT INTO search_runs (` + runColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	start := time.Now()
	_, err := s.pool.Exec(ctx, query,
		run.RunID,
		run.Date,
		run.Latitude,
		run.Longitude,
		run.OffsetSeconds,
		run.Window,
		run.StrictMode,
		string(run.Outcome),
		run.Attempts,
		run.CandidateCount,
		run.RejectionCount,
		run.BestCandidateID,
		run.BestScore,
		run.BestInstant,
		run.CreatedAt.UTC(),
	)
	observe("insert_run", start, err)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert search run: %w", err)
	}
	return nil
}

// GetByID retrieves a run by its ID. Returns ErrNotFound if not exists.
func (s *RunStore) GetByID(ctx context.Context, runID string) (*domain.RunSummary, error) {
	query := `SELECT ` + runColumns + ` FROM search_runs WHERE run_id = $1`

	start := time.Now()
	run, err := scanRun(s.pool.QueryRow(ctx, query, runID))
	observe("get_run", start, err)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get search run by id: %w", err)
	}
	return run, nil
}

// GetByDate retrieves all runs for a birth date, ordered by created_at ASC.
func (s *RunStore) GetByDate(ctx context.Context, date string) ([]*domain.RunSummary, error) {
	query := `SELECT ` + runColumns + ` FROM search_runs
		WHERE local_date = $1
		ORDER BY created_at ASC, run_id ASC`

	start := time.Now()
	rows, err := s.pool.Query(ctx, query, date)
	observe("list_runs", start, err)
	if err != nil {
		return nil, fmt.Errorf("query search runs by date: %w", err)
	}
	defer rows.Close()

	var result []*domain.RunSummary
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan search run: %w", err)
		}
		result = append(result, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate search runs: %w", err)
	}
	return result, nil
}

// scanRun scans a single row into RunSummary.
func scanRun(row pgx.Row) (*domain.RunSummary, error) {
	var r domain.RunSummary
	var outcome string

	err := row.Scan(
		&r.RunID,
		&r.Date,
		&r.Latitude,
		&r.Longitude,
		&r.OffsetSeconds,
		&r.Window,
		&r.StrictMode,
		&outcome,
		&r.Attempts,
		&r.CandidateCount,
		&r.RejectionCount,
		&r.BestCandidateID,
		&r.BestScore,
		&r.BestInstant,
		&r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	r.Outcome = domain.SearchOutcome(outcome)
	r.CreatedAt = r.CreatedAt.UTC()
	if r.BestInstant != nil {
		utc := r.BestInstant.UTC()
		r.BestInstant = &utc
	}
	return &r, nil
}
