// Package workflow provides a durable, step-memoized job runner. A run
// executes named steps in order; each step's result is recorded before the
// run proceeds, so a crashed or re-triggered run replays recorded results
// instead of re-executing completed side effects.
package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// StepStore persists step results keyed by (job id, step name).
type StepStore interface {
	Get(ctx context.Context, jobID, step string) (json.RawMessage, bool, error)
	Put(ctx context.Context, jobID, step string, result json.RawMessage) error
}

// Runner executes runs against a step store with a per-step retry budget.
type Runner struct {
	store       StepStore
	log         *slog.Logger
	maxAttempts int
	newBackOff  func() backoff.BackOff
}

type Option func(*Runner)

// WithMaxAttempts sets the per-step attempt budget (default 3).
func WithMaxAttempts(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.maxAttempts = n
		}
	}
}

// WithBackOff overrides the backoff between failed attempts.
func WithBackOff(f func() backoff.BackOff) Option {
	return func(r *Runner) {
		if f != nil {
			r.newBackOff = f
		}
	}
}

func NewRunner(store StepStore, logger *slog.Logger, opts ...Option) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Runner{
		store:       store,
		log:         logger,
		maxAttempts: 3,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 500 * time.Millisecond
			b.MaxInterval = 30 * time.Second
			return b
		},
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Run is one logical job execution. Runs for the same job id share recorded
// step results.
type Run struct {
	JobID  string
	runner *Runner
}

func (r *Runner) NewRun(jobID string) *Run {
	return &Run{JobID: jobID, runner: r}
}

// Step executes fn under the step's name, unless a recorded result already
// exists for this job, in which case the recorded result is returned and fn
// is not called. A failing fn is retried up to the runner's attempt budget;
// the result is recorded only after success.
func Step[T any](ctx context.Context, run *Run, name string, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	r := run.runner

	raw, ok, err := r.store.Get(ctx, run.JobID, name)
	if err != nil {
		return zero, fmt.Errorf("step %q: read record: %w", name, err)
	}
	if ok {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return zero, fmt.Errorf("step %q: decode recorded result: %w", name, err)
		}
		r.log.Debug("step.memoized", "job_id", run.JobID, "step", name)
		return v, nil
	}

	var (
		out     T
		attempt int
	)
	op := func() error {
		attempt++
		v, err := fn(ctx)
		if err != nil {
			r.log.Warn("step.attempt_failed",
				"job_id", run.JobID, "step", name,
				"attempt", attempt, "max_attempts", r.maxAttempts, "error", err)
			return err
		}
		out = v
		return nil
	}
	b := backoff.WithContext(backoff.WithMaxRetries(r.newBackOff(), uint64(r.maxAttempts-1)), ctx)
	if err := backoff.Retry(op, b); err != nil {
		r.log.Error("step.failed", "job_id", run.JobID, "step", name, "attempts", attempt, "error", err)
		return zero, fmt.Errorf("step %q failed after %d attempts: %w", name, attempt, err)
	}

	rec, err := json.Marshal(out)
	if err != nil {
		return zero, fmt.Errorf("step %q: encode result: %w", name, err)
	}
	if err := r.store.Put(ctx, run.JobID, name, rec); err != nil {
		return zero, fmt.Errorf("step %q: record result: %w", name, err)
	}
	r.log.Info("step.ok", "job_id", run.JobID, "step", name, "attempts", attempt)
	return out, nil
}

// Do is Step for side-effect-only units of work.
func Do(ctx context.Context, run *Run, name string, fn func(ctx context.Context) error) error {
	_, err := Step(ctx, run, name, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}
