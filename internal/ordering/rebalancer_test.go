package ordering

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeStore — подменное хранилище для тестов Rebalancer.
type fakeStore struct {
	updated int64
	err     error
	calls   int
}

func (s *fakeStore) RebalanceOrder(ctx context.Context) (int64, error) {
	s.calls++
	return s.updated, s.err
}

func TestRebalancer_Tick(t *testing.T) {
	store := &fakeStore{updated: 42}
	r := NewRebalancer(Config{Store: store})

	updated, err := r.Tick(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated != 42 {
		t.Errorf("expected 42 updated rows, got %d", updated)
	}
	if store.calls != 1 {
		t.Errorf("expected 1 store call, got %d", store.calls)
	}
}

func TestRebalancer_TickError(t *testing.T) {
	storeErr := errors.New("connection lost")
	r := NewRebalancer(Config{Store: &fakeStore{err: storeErr}})

	_, err := r.Tick(context.Background())
	if !errors.Is(err, storeErr) {
		t.Errorf("expected wrapped store error, got %v", err)
	}
}

func TestParseSchedule_Default(t *testing.T) {
	schedule, err := ParseSchedule("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Каждые 9 часов: с полуночи следующий запуск в 09:00
	from := time.Date(2025, 6, 1, 0, 0, 1, 0, time.UTC)
	next := NextRun(schedule, from)
	want := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Errorf("expected next run %v, got %v", want, next)
	}
}

func TestParseSchedule_Invalid(t *testing.T) {
	if _, err := ParseSchedule("not a cron"); err == nil {
		t.Error("expected error for invalid expression")
	}
}
