package usecase

import (
	"testing"

	"github.com/brunoavln/goalscout/internal/domain/game"
	"github.com/brunoavln/goalscout/internal/platform/logging"
)

func fullyScrapedGame() game.Game {
	h15, h25, hb := 70.0, 50.0, 60.0
	a15, a25, ab := 60.0, 40.0, 50.0
	return game.Game{
		Country:    "Portugal",
		HomeTeam:   "Porto",
		AwayTeam:   "Benfica",
		HomeOver15: &h15,
		HomeOver25: &h25,
		HomeBTTS:   &hb,
		AwayOver15: &a15,
		AwayOver25: &a25,
		AwayBTTS:   &ab,
	}
}

func TestMetricsService_Calculate(t *testing.T) {
	t.Parallel()

	svc := NewMetricsService(logging.NewNop())

	out := svc.Calculate([]game.Game{fullyScrapedGame()})
	if len(out) != 1 {
		t.Fatalf("expected 1 row, got %d", len(out))
	}

	g := out[0]
	if g.AvgOver15 == nil || *g.AvgOver15 != 65 {
		t.Fatalf("unexpected AvgOver15: %v", g.AvgOver15)
	}
	if g.AvgOver25 == nil || *g.AvgOver25 != 45 {
		t.Fatalf("unexpected AvgOver25: %v", g.AvgOver25)
	}
	if g.AvgBTTS == nil || *g.AvgBTTS != 55 {
		t.Fatalf("unexpected AvgBTTS: %v", g.AvgBTTS)
	}
	if g.AvgProb != 55 {
		t.Fatalf("unexpected AvgProb: %v", g.AvgProb)
	}
}

func TestMetricsService_RoundsToTwoDecimals(t *testing.T) {
	t.Parallel()

	svc := NewMetricsService(logging.NewNop())

	g := fullyScrapedGame()
	h15 := 66.666
	a15 := 33.333
	g.HomeOver15 = &h15
	g.AwayOver15 = &a15

	out := svc.Calculate([]game.Game{g})
	if len(out) != 1 {
		t.Fatalf("expected 1 row, got %d", len(out))
	}
	if got := *out[0].AvgOver15; got != 50.0 {
		t.Fatalf("unexpected rounded AvgOver15: %v", got)
	}
}

func TestMetricsService_DropsIncompleteRows(t *testing.T) {
	t.Parallel()

	svc := NewMetricsService(logging.NewNop())

	incomplete := fullyScrapedGame()
	incomplete.AwayBTTS = nil

	out := svc.Calculate([]game.Game{incomplete, fullyScrapedGame()})
	if len(out) != 1 {
		t.Fatalf("expected incomplete row dropped, got %d rows", len(out))
	}
	if out[0].AwayBTTS == nil {
		t.Fatalf("kept the wrong row")
	}
}

func TestOverallMean_MissingOperandIsZero(t *testing.T) {
	t.Parallel()

	v := 80.0
	if got := overallMean([]*float64{&v, nil, &v}); got != 0 {
		t.Fatalf("expected 0 for missing operand, got %v", got)
	}
}
