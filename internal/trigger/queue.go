package trigger

import (
	"context"
	"sync"
	"time"

	"log/slog"

	"github.com/google/uuid"
)

// JobRunner executes the translation job for one order.
type JobRunner interface {
	Run(ctx context.Context, orderID uuid.UUID) error
}

// Queue fans translation events out to a fixed pool of workers. An order
// already queued or running is not enqueued a second time; a completed
// order re-delivered later is enqueued again and the job's step records
// make the re-run a no-op.
type Queue struct {
	runner  JobRunner
	logger  *slog.Logger
	workers int
	timeout time.Duration

	ch   chan uuid.UUID
	wg   sync.WaitGroup
	once sync.Once

	// mu guards closed and is held across every send on ch, so Shutdown
	// cannot close the channel under a blocked backpressure send.
	mu     sync.Mutex
	closed bool

	// inFlight has its own lock: workers must be able to clear entries
	// while an enqueue holds mu waiting for channel space.
	inFlightMu sync.Mutex
	inFlight   map[uuid.UUID]struct{}
}

type Option func(*Queue)

func WithWorkers(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.workers = n
		}
	}
}
func WithQueueSize(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.ch = make(chan uuid.UUID, n)
		}
	}
}
func WithJobTimeout(d time.Duration) Option {
	return func(q *Queue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

func NewQueue(runner JobRunner, logger *slog.Logger, opts ...Option) *Queue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &Queue{
		runner:   runner,
		logger:   logger,
		workers:  2,
		timeout:  2 * time.Hour,
		ch:       make(chan uuid.UUID, 64),
		inFlight: make(map[uuid.UUID]struct{}),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *Queue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Info("worker started", "worker_id", workerID)

				for orderID := range q.ch {
					ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
					err := q.runner.Run(ctx, orderID)
					cancel()

					q.inFlightMu.Lock()
					delete(q.inFlight, orderID)
					q.inFlightMu.Unlock()

					if err != nil {
						q.logger.Error("translation job failed", "worker_id", workerID, "order_id", orderID, "error", err)
					} else {
						q.logger.Info("translation job finished", "worker_id", workerID, "order_id", orderID)
					}
				}

				q.logger.Info("worker stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

// Enqueue schedules a translation job for the order. It returns false when
// the order is already queued or running, or the queue is shutting down.
func (q *Queue) Enqueue(_ context.Context, orderID uuid.UUID) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		q.logger.Warn("cannot enqueue: queue is shutting down", "order_id", orderID)
		return false
	}

	q.inFlightMu.Lock()
	if _, ok := q.inFlight[orderID]; ok {
		q.inFlightMu.Unlock()
		q.logger.Info("order already queued, skipping", "order_id", orderID)
		return false
	}
	q.inFlight[orderID] = struct{}{}
	q.inFlightMu.Unlock()

	select {
	case q.ch <- orderID:
		q.logger.Info("queued order for translation", "order_id", orderID)
	default:
		q.logger.Warn("queue full, applying backpressure", "order_id", orderID)
		q.ch <- orderID
	}
	return true
}

// Shutdown stops accepting work and waits for in-flight jobs to finish or
// the context to expire.
func (q *Queue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.logger.Warn("shutdown interrupted by context")
	case <-done:
		q.logger.Info("queue drained, shutdown complete")
	}
}
