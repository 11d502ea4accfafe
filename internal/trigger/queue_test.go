package trigger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

type blockingRunner struct {
	mu      sync.Mutex
	runs    []uuid.UUID
	release chan struct{}
}

func newBlockingRunner() *blockingRunner {
	return &blockingRunner{release: make(chan struct{})}
}

func (r *blockingRunner) Run(_ context.Context, orderID uuid.UUID) error {
	r.mu.Lock()
	r.runs = append(r.runs, orderID)
	r.mu.Unlock()
	<-r.release
	return nil
}

func (r *blockingRunner) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.runs)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestQueueRunsEnqueuedOrders(t *testing.T) {
	runner := newBlockingRunner()
	q := NewQueue(runner, nil, WithWorkers(2))
	defer close(runner.release)

	a, b := uuid.New(), uuid.New()
	if !q.Enqueue(context.Background(), a) {
		t.Error("enqueue a = false")
	}
	if !q.Enqueue(context.Background(), b) {
		t.Error("enqueue b = false")
	}
	waitFor(t, func() bool { return runner.count() == 2 })
}

func TestQueueDedupesInFlightOrder(t *testing.T) {
	runner := newBlockingRunner()
	q := NewQueue(runner, nil, WithWorkers(1))

	id := uuid.New()
	if !q.Enqueue(context.Background(), id) {
		t.Fatal("first enqueue = false")
	}
	waitFor(t, func() bool { return runner.count() == 1 })

	// Still running: the duplicate must be dropped.
	if q.Enqueue(context.Background(), id) {
		t.Error("duplicate enqueue = true, want false")
	}

	close(runner.release)
	waitFor(t, func() bool {
		q.inFlightMu.Lock()
		defer q.inFlightMu.Unlock()
		return len(q.inFlight) == 0
	})

	// Finished: a re-delivery is accepted again.
	runner.release = make(chan struct{})
	if !q.Enqueue(context.Background(), id) {
		t.Error("re-delivery after completion = false, want true")
	}
	close(runner.release)
	waitFor(t, func() bool { return runner.count() == 2 })
}

// A shutdown racing an enqueue that is blocked in the backpressure send must
// not close the channel under it: the send completes once a worker drains an
// item, and every accepted order still runs.
func TestQueueShutdownDuringBackpressure(t *testing.T) {
	runner := newBlockingRunner()
	q := NewQueue(runner, nil, WithWorkers(1), WithQueueSize(1))

	a, b, c := uuid.New(), uuid.New(), uuid.New()
	if !q.Enqueue(context.Background(), a) {
		t.Fatal("enqueue a = false")
	}
	waitFor(t, func() bool { return runner.count() == 1 }) // worker busy on a
	if !q.Enqueue(context.Background(), b) {               // fills the channel
		t.Fatal("enqueue b = false")
	}

	enqueued := make(chan bool, 1)
	go func() { enqueued <- q.Enqueue(context.Background(), c) }()
	time.Sleep(20 * time.Millisecond) // let it block in the backpressure send

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		q.Shutdown(ctx)
	}()

	close(runner.release)
	if !<-enqueued {
		t.Error("blocked enqueue = false, want true")
	}
	<-shutdownDone
	waitFor(t, func() bool { return runner.count() == 3 })
}

func TestQueueShutdownRejectsNewWork(t *testing.T) {
	runner := newBlockingRunner()
	close(runner.release)
	q := NewQueue(runner, nil, WithWorkers(1))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	q.Shutdown(ctx)

	if q.Enqueue(context.Background(), uuid.New()) {
		t.Error("enqueue after shutdown = true, want false")
	}
}

func TestServerHandleEvent(t *testing.T) {
	runner := newBlockingRunner()
	close(runner.release)
	q := NewQueue(runner, nil, WithWorkers(1))
	s := NewServer(":0", q, nil)

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(body))
		rec := httptest.NewRecorder()
		s.httpServer.Handler.ServeHTTP(rec, req)
		return rec
	}

	id := uuid.New()
	rec := post(`{"name":"book/translate.requested","data":{"orderId":"` + id.String() + `"}}`)
	if rec.Code != http.StatusAccepted {
		t.Errorf("valid event status = %d, want 202", rec.Code)
	}
	waitFor(t, func() bool { return runner.count() == 1 })

	rec = post(`{"name":"book/other","data":{"orderId":"` + id.String() + `"}}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown event status = %d, want 400", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	getRec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(getRec, req)
	if getRec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET status = %d, want 405", getRec.Code)
	}
}
