package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// StepRepository persists workflow step-completion records. It satisfies
// workflow.StepStore: jobs are keyed by the order id.
type StepRepository interface {
	Get(ctx context.Context, jobID, step string) (json.RawMessage, bool, error)
	Put(ctx context.Context, jobID, step string, result json.RawMessage) error
}

type stepRepo struct {
	db  *sql.DB
	log *slog.Logger
}

func NewStepRepository(db *sql.DB, log *slog.Logger) StepRepository {
	if log == nil {
		log = slog.Default()
	}
	return &stepRepo{db: db, log: log}
}

func (r *stepRepo) Get(ctx context.Context, jobID, step string) (json.RawMessage, bool, error) {
	var result string
	err := r.db.QueryRowContext(ctx,
		`SELECT result FROM job_steps WHERE order_id = $1 AND step = $2`,
		jobID, step).Scan(&result)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		r.log.Error("step record read failed", "job_id", jobID, "step", step, "err", err)
		return nil, false, fmt.Errorf("read step record: %w", err)
	}
	return json.RawMessage(result), true, nil
}

func (r *stepRepo) Put(ctx context.Context, jobID, step string, result json.RawMessage) error {
	// First write wins: a memoized result is immutable.
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO job_steps (order_id, step, result, completed_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (order_id, step) DO NOTHING`,
		jobID, step, string(result), time.Now().UTC())
	if err != nil {
		r.log.Error("step record write failed", "job_id", jobID, "step", step, "err", err)
		return fmt.Errorf("write step record: %w", err)
	}
	return nil
}
