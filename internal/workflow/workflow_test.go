package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/cenkalti/backoff/v4"
)

type memStore struct {
	mu      sync.Mutex
	records map[string]json.RawMessage
	getErr  error
}

func newMemStore() *memStore {
	return &memStore{records: make(map[string]json.RawMessage)}
}

func (s *memStore) Get(_ context.Context, jobID, step string) (json.RawMessage, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, false, s.getErr
	}
	raw, ok := s.records[jobID+"/"+step]
	return raw, ok, nil
}

func (s *memStore) Put(_ context.Context, jobID, step string, result json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[jobID+"/"+step]; ok {
		return nil
	}
	s.records[jobID+"/"+step] = result
	return nil
}

func testRunner(store StepStore, opts ...Option) *Runner {
	opts = append([]Option{WithBackOff(func() backoff.BackOff { return &backoff.ZeroBackOff{} })}, opts...)
	return NewRunner(store, nil, opts...)
}

func TestStepRecordsResult(t *testing.T) {
	store := newMemStore()
	run := testRunner(store).NewRun("job-1")

	calls := 0
	got, err := Step(context.Background(), run, "greet", func(ctx context.Context) (string, error) {
		calls++
		return "hello", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "hello" {
		t.Fatalf("got %q, want %q", got, "hello")
	}
	if calls != 1 {
		t.Fatalf("fn called %d times, want 1", calls)
	}
	if _, ok := store.records["job-1/greet"]; !ok {
		t.Fatal("result not recorded")
	}
}

func TestStepMemoizationSkipsExecution(t *testing.T) {
	store := newMemStore()
	runner := testRunner(store)

	calls := 0
	fn := func(ctx context.Context) (int, error) {
		calls++
		return 42, nil
	}

	if _, err := Step(context.Background(), runner.NewRun("job-1"), "count", fn); err != nil {
		t.Fatalf("first run: %v", err)
	}
	// Same job replays the recorded result.
	got, err := Step(context.Background(), runner.NewRun("job-1"), "count", fn)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if got != 42 {
		t.Fatalf("got %d, want 42", got)
	}
	if calls != 1 {
		t.Fatalf("fn called %d times, want 1", calls)
	}

	// A different job id executes independently.
	if _, err := Step(context.Background(), runner.NewRun("job-2"), "count", fn); err != nil {
		t.Fatalf("other job: %v", err)
	}
	if calls != 2 {
		t.Fatalf("fn called %d times across jobs, want 2", calls)
	}
}

func TestStepRetriesUntilSuccess(t *testing.T) {
	store := newMemStore()
	run := testRunner(store, WithMaxAttempts(3)).NewRun("job-1")

	calls := 0
	got, err := Step(context.Background(), run, "flaky", func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("transient")
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" {
		t.Fatalf("got %q, want %q", got, "ok")
	}
	if calls != 3 {
		t.Fatalf("fn called %d times, want 3", calls)
	}
}

func TestStepExhaustsRetryBudget(t *testing.T) {
	store := newMemStore()
	run := testRunner(store, WithMaxAttempts(3)).NewRun("job-1")

	calls := 0
	_, err := Step(context.Background(), run, "doomed", func(ctx context.Context) (string, error) {
		calls++
		return "", errors.New("permanent")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 3 {
		t.Fatalf("fn called %d times, want 3", calls)
	}
	if _, ok := store.records["job-1/doomed"]; ok {
		t.Fatal("failed step must not be recorded")
	}
}

func TestResumeAfterCrash(t *testing.T) {
	store := newMemStore()
	runner := testRunner(store)

	var order []string
	step := func(name string, fail bool) func(ctx context.Context) error {
		return func(ctx context.Context) error {
			order = append(order, name)
			if fail {
				return errors.New("boom")
			}
			return nil
		}
	}

	// First run: a succeeds, b fails the whole run.
	run := runner.NewRun("job-1")
	if err := Do(context.Background(), run, "a", step("a", false)); err != nil {
		t.Fatalf("step a: %v", err)
	}
	if err := Do(context.Background(), run, "b", step("b", true)); err == nil {
		t.Fatal("expected step b to fail")
	}

	// Resumed run: a is replayed from its record, b executes again.
	order = nil
	run = runner.NewRun("job-1")
	if err := Do(context.Background(), run, "a", step("a", false)); err != nil {
		t.Fatalf("resumed step a: %v", err)
	}
	if err := Do(context.Background(), run, "b", step("b", false)); err != nil {
		t.Fatalf("resumed step b: %v", err)
	}
	if len(order) != 1 || order[0] != "b" {
		t.Fatalf("resumed execution order = %v, want [b]", order)
	}
}

func TestStepTypedResultRoundTrip(t *testing.T) {
	type result struct {
		Text  string `json:"text"`
		Count int    `json:"count"`
	}
	store := newMemStore()
	runner := testRunner(store)

	want := result{Text: "bonjour", Count: 7}
	if _, err := Step(context.Background(), runner.NewRun("j"), "typed", func(ctx context.Context) (result, error) {
		return want, nil
	}); err != nil {
		t.Fatalf("first run: %v", err)
	}
	got, err := Step(context.Background(), runner.NewRun("j"), "typed", func(ctx context.Context) (result, error) {
		t.Fatal("must not execute")
		return result{}, nil
	})
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if got != want {
		t.Fatalf("replayed result = %+v, want %+v", got, want)
	}
}

func TestStepStoreReadErrorFailsFast(t *testing.T) {
	store := newMemStore()
	store.getErr = errors.New("db down")
	run := testRunner(store).NewRun("job-1")

	calls := 0
	_, err := Step(context.Background(), run, "s", func(ctx context.Context) (string, error) {
		calls++
		return "", nil
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 0 {
		t.Fatalf("fn called %d times, want 0", calls)
	}
}
