package quota

import (
	"context"
	"testing"
	"time"
)

type memoryRepository struct {
	state State
	saves int
}

func (r *memoryRepository) Load(_ context.Context) (State, error) {
	return r.state, nil
}

func (r *memoryRepository) Save(_ context.Context, state State) error {
	r.state = state
	r.saves++
	return nil
}

func fixedClock(day string) func() time.Time {
	parsed, _ := time.Parse("2006-01-02", day)
	return func() time.Time { return parsed }
}

func TestTracker_AllowIncrementsUntilBudget(t *testing.T) {
	t.Parallel()

	repo := &memoryRepository{}
	tracker := NewTracker(repo)
	tracker.now = fixedClock("2026-08-29")

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		ok, err := tracker.Allow(ctx, "fixtures", 3)
		if err != nil {
			t.Fatalf("allow %d: %v", i, err)
		}
		if !ok {
			t.Fatalf("allow %d: expected true", i)
		}
	}

	ok, err := tracker.Allow(ctx, "fixtures", 3)
	if err != nil {
		t.Fatalf("allow over budget: %v", err)
	}
	if ok {
		t.Fatalf("expected false once budget spent")
	}
	if repo.state.Count != 3 {
		t.Fatalf("denied call must not increment, count=%d", repo.state.Count)
	}
	if repo.state.LastKind != "fixtures" {
		t.Fatalf("unexpected last kind: %s", repo.state.LastKind)
	}
}

func TestTracker_DayRolloverResets(t *testing.T) {
	t.Parallel()

	repo := &memoryRepository{state: State{Date: "2026-08-28", Count: 100}}
	tracker := NewTracker(repo)
	tracker.now = fixedClock("2026-08-29")

	ctx := context.Background()

	remaining, err := tracker.Remaining(ctx, 100)
	if err != nil {
		t.Fatalf("remaining: %v", err)
	}
	if remaining != 100 {
		t.Fatalf("expected full budget after rollover, got %d", remaining)
	}

	ok, err := tracker.Allow(ctx, "fixtures", 100)
	if err != nil {
		t.Fatalf("allow: %v", err)
	}
	if !ok {
		t.Fatalf("expected allow after rollover")
	}
	if repo.state.Date != "2026-08-29" || repo.state.Count != 1 {
		t.Fatalf("unexpected state after rollover: %+v", repo.state)
	}
}

func TestTracker_RemainingNeverNegative(t *testing.T) {
	t.Parallel()

	repo := &memoryRepository{state: State{Date: "2026-08-29", Count: 150}}
	tracker := NewTracker(repo)
	tracker.now = fixedClock("2026-08-29")

	remaining, err := tracker.Remaining(context.Background(), 100)
	if err != nil {
		t.Fatalf("remaining: %v", err)
	}
	if remaining != 0 {
		t.Fatalf("expected 0, got %d", remaining)
	}
}

func TestTracker_RemainingDoesNotWrite(t *testing.T) {
	t.Parallel()

	repo := &memoryRepository{state: State{Date: "2026-08-29", Count: 2}}
	tracker := NewTracker(repo)
	tracker.now = fixedClock("2026-08-29")

	if _, err := tracker.Remaining(context.Background(), 10); err != nil {
		t.Fatalf("remaining: %v", err)
	}
	if repo.saves != 0 {
		t.Fatalf("remaining must be read-only, saves=%d", repo.saves)
	}
}
