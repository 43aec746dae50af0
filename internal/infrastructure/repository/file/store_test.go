package file

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/brunoavln/goalscout/internal/domain/game"
	"github.com/brunoavln/goalscout/internal/domain/quota"
)

func TestQuotaStore_RoundTrip(t *testing.T) {
	t.Parallel()

	store := NewQuotaStore(filepath.Join(t.TempDir(), "quota.json"))
	ctx := context.Background()

	state, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load missing file: %v", err)
	}
	if state != (quota.State{}) {
		t.Fatalf("expected zero state, got %+v", state)
	}

	want := quota.State{Date: "2026-08-29", Count: 7, LastKind: "fixtures"}
	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != want {
		t.Fatalf("round trip mismatch: %+v != %+v", got, want)
	}
}

func TestAlertStore_ContainsAfterAdd(t *testing.T) {
	t.Parallel()

	store := NewAlertStore(filepath.Join(t.TempDir(), "alerts.json"), 30)
	ctx := context.Background()

	ok, err := store.Contains(ctx, "Portugal-Porto-vs-Benfica-16:30")
	if err != nil {
		t.Fatalf("contains on missing file: %v", err)
	}
	if ok {
		t.Fatalf("empty store must not contain anything")
	}

	if err := store.Add(ctx, []string{"Portugal-Porto-vs-Benfica-16:30", "Spain-Betis-vs-Sevilla-21:00"}); err != nil {
		t.Fatalf("add: %v", err)
	}

	for _, id := range []string{"Portugal-Porto-vs-Benfica-16:30", "Spain-Betis-vs-Sevilla-21:00"} {
		ok, err := store.Contains(ctx, id)
		if err != nil {
			t.Fatalf("contains: %v", err)
		}
		if !ok {
			t.Fatalf("expected %s recorded", id)
		}
	}
}

func TestAlertStore_RetentionPrunesOldEntries(t *testing.T) {
	t.Parallel()

	store := NewAlertStore(filepath.Join(t.TempDir(), "alerts.json"), 30)
	ctx := context.Background()

	store.now = func() time.Time {
		return time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
	}
	if err := store.Add(ctx, []string{"old-identity"}); err != nil {
		t.Fatalf("add old: %v", err)
	}

	store.now = func() time.Time {
		return time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	}
	if err := store.Add(ctx, []string{"fresh-identity"}); err != nil {
		t.Fatalf("add fresh: %v", err)
	}

	ok, err := store.Contains(ctx, "old-identity")
	if err != nil {
		t.Fatalf("contains: %v", err)
	}
	if ok {
		t.Fatalf("entry beyond retention must be pruned")
	}

	ok, err = store.Contains(ctx, "fresh-identity")
	if err != nil {
		t.Fatalf("contains: %v", err)
	}
	if !ok {
		t.Fatalf("fresh entry must survive pruning")
	}
}

func TestSnapshotStore_RoundTrip(t *testing.T) {
	t.Parallel()

	store := NewSnapshotStore(filepath.Join(t.TempDir(), "snapshot.json"))
	ctx := context.Background()

	date, games, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load missing file: %v", err)
	}
	if date != "" || games != nil {
		t.Fatalf("expected empty snapshot, got %q %v", date, games)
	}

	kickoff, err := game.NewKickoff(16, 30)
	if err != nil {
		t.Fatalf("new kickoff: %v", err)
	}
	prob := 65.5
	in := []game.Game{{
		Country:   "Portugal",
		HomeTeam:  "Porto",
		AwayTeam:  "Benfica",
		MatchDate: "2026-08-29",
		Kickoff:   kickoff,
		AvgOver15: &prob,
		AvgProb:   58.25,
	}}

	if err := store.Save(ctx, "2026-08-29", in); err != nil {
		t.Fatalf("save: %v", err)
	}

	date, games, err = store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if date != "2026-08-29" || len(games) != 1 {
		t.Fatalf("unexpected snapshot: %q %v", date, games)
	}

	got := games[0]
	if got.Kickoff.String() != "16:30" {
		t.Fatalf("kickoff lost in round trip: %s", got.Kickoff)
	}
	if got.AvgOver15 == nil || *got.AvgOver15 != 65.5 {
		t.Fatalf("metric lost in round trip: %v", got.AvgOver15)
	}
	if got.Identity() != in[0].Identity() {
		t.Fatalf("identity changed across round trip")
	}
}

func TestSnapshotStore_SaveReplacesPreviousDay(t *testing.T) {
	t.Parallel()

	store := NewSnapshotStore(filepath.Join(t.TempDir(), "snapshot.json"))
	ctx := context.Background()

	if err := store.Save(ctx, "2026-08-28", []game.Game{{HomeTeam: "A", AwayTeam: "B"}}); err != nil {
		t.Fatalf("save first day: %v", err)
	}
	if err := store.Save(ctx, "2026-08-29", nil); err != nil {
		t.Fatalf("save second day: %v", err)
	}

	date, games, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if date != "2026-08-29" || len(games) != 0 {
		t.Fatalf("stale day leaked through: %q %v", date, games)
	}
}
