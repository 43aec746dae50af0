package quota

import (
	"context"
	"fmt"
	"time"
)

// State is the persisted daily counter for the external results API.
type State struct {
	Date     string `json:"date"`
	Count    int    `json:"count"`
	LastKind string `json:"last_kind,omitempty"`
}

// Repository loads and saves the single active quota state.
type Repository interface {
	Load(ctx context.Context) (State, error)
	Save(ctx context.Context, state State) error
}

// Tracker enforces a per-day call budget. The read-modify-write on the
// persisted counter is not safe against concurrent processes; this is a
// known limitation of the single-operator deployment, not something the
// tracker tries to fix.
type Tracker struct {
	repo Repository
	now  func() time.Time
}

func NewTracker(repo Repository) *Tracker {
	return &Tracker{repo: repo, now: time.Now}
}

// Allow checks and increments today's counter. It returns false without
// incrementing once the budget is spent. A stored state from a previous
// day is reset before checking.
func (t *Tracker) Allow(ctx context.Context, kind string, maxPerDay int) (bool, error) {
	if maxPerDay <= 0 {
		return false, fmt.Errorf("max per day must be > 0, got %d", maxPerDay)
	}

	state, err := t.repo.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("load quota state: %w", err)
	}

	today := t.today()
	if state.Date != today {
		state = State{Date: today}
	}

	if state.Count >= maxPerDay {
		return false, nil
	}

	state.Count++
	state.LastKind = kind
	if err := t.repo.Save(ctx, state); err != nil {
		return false, fmt.Errorf("save quota state: %w", err)
	}
	return true, nil
}

// Remaining reports today's unused budget without incrementing. Never
// negative; a stale date counts as a full budget.
func (t *Tracker) Remaining(ctx context.Context, maxPerDay int) (int, error) {
	if maxPerDay <= 0 {
		return 0, fmt.Errorf("max per day must be > 0, got %d", maxPerDay)
	}

	state, err := t.repo.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("load quota state: %w", err)
	}

	if state.Date != t.today() {
		return maxPerDay, nil
	}

	remaining := maxPerDay - state.Count
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

func (t *Tracker) today() string {
	return t.now().Format("2006-01-02")
}
