package game

import (
	"testing"
	"time"
)

func TestIdentity_StableAcrossMetricChanges(t *testing.T) {
	t.Parallel()

	kickoff, err := NewKickoff(16, 30)
	if err != nil {
		t.Fatalf("new kickoff: %v", err)
	}

	prob := 70.0
	g := Game{
		Country:    "Portugal",
		HomeTeam:   "Porto",
		AwayTeam:   "Benfica",
		Kickoff:    kickoff,
		League:     "Primeira Liga",
		HomeOver15: &prob,
	}

	first := g.Identity()
	if first != "Portugal-Porto-vs-Benfica-16:30" {
		t.Fatalf("unexpected identity: %s", first)
	}

	g.League = "Taça de Portugal"
	other := 88.5
	g.HomeOver15 = &other
	g.AvgProb = 99

	if second := g.Identity(); second != first {
		t.Fatalf("identity changed with metric fields: %s != %s", second, first)
	}
}

func TestIdentity_MissingFieldsUsePlaceholders(t *testing.T) {
	t.Parallel()

	var g Game
	if got := g.Identity(); got != "NP-NT1-vs-NT2-00:00" {
		t.Fatalf("unexpected identity for empty game: %s", got)
	}
}

func TestParseKickoff_OffsetAppliedOnce(t *testing.T) {
	t.Parallel()

	k, err := ParseKickoff("16:30", -3*time.Hour)
	if err != nil {
		t.Fatalf("parse kickoff: %v", err)
	}
	if k.String() != "13:30" {
		t.Fatalf("expected 13:30, got %s", k)
	}
}

func TestParseKickoff_WrapsAroundMidnight(t *testing.T) {
	t.Parallel()

	k, err := ParseKickoff("23:45", 30*time.Minute)
	if err != nil {
		t.Fatalf("parse kickoff: %v", err)
	}
	if k.String() != "00:15" {
		t.Fatalf("expected 00:15, got %s", k)
	}

	k, err = ParseKickoff("01:00", -2*time.Hour)
	if err != nil {
		t.Fatalf("parse kickoff: %v", err)
	}
	if k.String() != "23:00" {
		t.Fatalf("expected 23:00, got %s", k)
	}
}

func TestParseKickoff_AcceptsSeconds(t *testing.T) {
	t.Parallel()

	k, err := ParseKickoff("09:05:00", 0)
	if err != nil {
		t.Fatalf("parse kickoff: %v", err)
	}
	if k.String() != "09:05" {
		t.Fatalf("expected 09:05, got %s", k)
	}
}

func TestParseKickoff_Invalid(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "noon", "25:00", "12:61", "12"} {
		if _, err := ParseKickoff(raw, 0); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestKickoffOnDay(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("BRT", -3*3600)
	ref := time.Date(2026, 8, 29, 10, 0, 0, 0, loc)

	k, err := NewKickoff(16, 30)
	if err != nil {
		t.Fatalf("new kickoff: %v", err)
	}

	at := k.OnDay(ref)
	if at.Hour() != 16 || at.Minute() != 30 || at.Day() != 29 || at.Location() != loc {
		t.Fatalf("unexpected anchored time: %s", at)
	}
}
