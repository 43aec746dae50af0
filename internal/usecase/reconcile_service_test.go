package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/brunoavln/goalscout/internal/domain/game"
	"github.com/brunoavln/goalscout/internal/domain/result"
	"github.com/brunoavln/goalscout/internal/domain/teamname"
	"github.com/brunoavln/goalscout/internal/platform/logging"
)

type stubGameRepository struct {
	exactAffected  map[string]int64   // "home|away" -> rows affected
	candidates     map[string][]int64 // "homePattern|awayPattern" -> row ids
	updatedByID    map[int64]game.ResultUpdate
	probes         []string
	reconcileCalls int
}

func (r *stubGameRepository) UpsertBatch(_ context.Context, games []game.Game) (int, error) {
	return len(games), nil
}

func (r *stubGameRepository) Reconcile(_ context.Context, fn func(game.ResultStore) error) error {
	r.reconcileCalls++
	return fn(r)
}

func (r *stubGameRepository) UpdateResult(_ context.Context, update game.ResultUpdate) (int64, error) {
	return r.exactAffected[update.HomeTeam+"|"+update.AwayTeam], nil
}

func (r *stubGameRepository) FindCandidateIDs(_ context.Context, _, homePattern, awayPattern string) ([]int64, error) {
	key := homePattern + "|" + awayPattern
	r.probes = append(r.probes, key)
	return r.candidates[key], nil
}

func (r *stubGameRepository) UpdateResultByID(_ context.Context, id int64, update game.ResultUpdate) error {
	if r.updatedByID == nil {
		r.updatedByID = map[int64]game.ResultUpdate{}
	}
	r.updatedByID[id] = update
	return nil
}

func finishedRow(home, away string, homeGoals, awayGoals int) result.Row {
	return result.Row{
		MatchDate: "2026-08-29",
		HomeTeam:  home,
		AwayTeam:  away,
		HomeGoals: &homeGoals,
		AwayGoals: &awayGoals,
		Status:    "FT",
	}
}

func newReconcileService(repo *stubGameRepository, fuzzy bool) *ReconcileService {
	return NewReconcileService(repo, teamname.NewNormalizer(teamname.DefaultConfig()), fuzzy, logging.NewNop())
}

func TestReconcileService_ExactMatch(t *testing.T) {
	t.Parallel()

	repo := &stubGameRepository{
		exactAffected: map[string]int64{"Porto|Benfica": 1},
	}
	svc := newReconcileService(repo, true)

	stats, err := svc.Apply(context.Background(), []result.Row{finishedRow("Porto", "Benfica", 2, 1)})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if stats.Exact != 1 || stats.Processed != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if len(repo.probes) != 0 {
		t.Fatalf("exact hit must not probe, got %v", repo.probes)
	}
}

func TestReconcileService_SkipsUnfinishedAndScoreless(t *testing.T) {
	t.Parallel()

	repo := &stubGameRepository{}
	svc := newReconcileService(repo, true)

	two := 2
	rows := []result.Row{
		{MatchDate: "2026-08-29", HomeTeam: "A", AwayTeam: "B", HomeGoals: &two, AwayGoals: &two, Status: "1H"},
		{MatchDate: "2026-08-29", HomeTeam: "C", AwayTeam: "D", Status: "FT"},
	}

	stats, err := svc.Apply(context.Background(), rows)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if stats.Skipped != 2 || stats.Processed != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestReconcileService_FuzzyForward(t *testing.T) {
	t.Parallel()

	repo := &stubGameRepository{
		candidates: map[string][]int64{
			"%fc porto%|%sl benfica%": {7},
		},
	}
	svc := newReconcileService(repo, true)

	stats, err := svc.Apply(context.Background(), []result.Row{finishedRow("FC Porto", "SL Benfica", 3, 0)})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if stats.Fuzzy != 1 || stats.Unmatched != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	applied, ok := repo.updatedByID[7]
	if !ok {
		t.Fatalf("expected update on row 7, got %v", repo.updatedByID)
	}
	if applied.HomeGoals != 3 || applied.AwayGoals != 0 {
		t.Fatalf("unexpected goals: %+v", applied)
	}
}

func TestReconcileService_FuzzyMatchesBareStoredNames(t *testing.T) {
	t.Parallel()

	// The feed spells teams with org prefixes and a gender suffix; the
	// scraper stored them bare. The filtered-token patterns must still
	// reach the stored row decisively.
	repo := &stubGameRepository{
		candidates: map[string][]int64{
			"%porto%|%benfica%": {42},
		},
	}
	svc := newReconcileService(repo, true)

	stats, err := svc.Apply(context.Background(), []result.Row{finishedRow("FC Porto", "SL Benfica W", 2, 1)})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if stats.Fuzzy != 1 || stats.Unmatched != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	applied, ok := repo.updatedByID[42]
	if !ok {
		t.Fatalf("expected update on row 42, got %v", repo.updatedByID)
	}
	if applied.HomeGoals != 2 || applied.AwayGoals != 1 {
		t.Fatalf("unexpected goals: %+v", applied)
	}
}

func TestReconcileService_FuzzyReversedSwapsGoals(t *testing.T) {
	t.Parallel()

	// Only the sides-swapped probe finds the stored row: the scraper had
	// the fixture with home and away the other way round.
	repo := &stubGameRepository{
		candidates: map[string][]int64{
			"%sl benfica%|%fc porto%": {11},
		},
	}
	svc := newReconcileService(repo, true)

	stats, err := svc.Apply(context.Background(), []result.Row{finishedRow("FC Porto", "SL Benfica", 3, 1)})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if stats.FuzzyReversed != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	applied := repo.updatedByID[11]
	if applied.HomeGoals != 1 || applied.AwayGoals != 3 {
		t.Fatalf("reversed match must swap goals: %+v", applied)
	}
	if applied.HomeTeam != "SL Benfica" || applied.AwayTeam != "FC Porto" {
		t.Fatalf("reversed match must swap teams: %+v", applied)
	}
}

func TestReconcileService_AmbiguousProbeIsNoOp(t *testing.T) {
	t.Parallel()

	repo := &stubGameRepository{
		candidates: map[string][]int64{
			"%fc porto%|%sl benfica%": {1, 2},
		},
	}
	svc := newReconcileService(repo, true)

	stats, err := svc.Apply(context.Background(), []result.Row{finishedRow("FC Porto", "SL Benfica", 2, 2)})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if stats.Unmatched != 1 || stats.Fuzzy != 0 || stats.FuzzyReversed != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if len(repo.updatedByID) != 0 {
		t.Fatalf("ambiguous probe must not update: %v", repo.updatedByID)
	}
}

func TestReconcileService_FallbackDisabled(t *testing.T) {
	t.Parallel()

	repo := &stubGameRepository{
		candidates: map[string][]int64{
			"%fc porto%|%sl benfica%": {7},
		},
	}
	svc := newReconcileService(repo, false)

	stats, err := svc.Apply(context.Background(), []result.Row{finishedRow("FC Porto", "SL Benfica", 1, 0)})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if stats.Unmatched != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if len(repo.probes) != 0 {
		t.Fatalf("disabled fallback must not probe, got %v", repo.probes)
	}
}

func TestReconcileService_BatchSharesOneTransaction(t *testing.T) {
	t.Parallel()

	repo := &stubGameRepository{
		exactAffected: map[string]int64{
			"Porto|Benfica":   1,
			"Braga|Guimarães": 1,
		},
	}
	svc := newReconcileService(repo, true)

	rows := []result.Row{
		finishedRow("Porto", "Benfica", 2, 1),
		finishedRow("Braga", "Guimarães", 0, 0),
	}
	stats, err := svc.Apply(context.Background(), rows)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if stats.Exact != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if repo.reconcileCalls != 1 {
		t.Fatalf("batch must run inside one transaction scope, got %d", repo.reconcileCalls)
	}
}

func TestReconcileService_ProbeOrder(t *testing.T) {
	t.Parallel()

	repo := &stubGameRepository{}
	svc := newReconcileService(repo, true)

	_, err := svc.Apply(context.Background(), []result.Row{finishedRow("Borussia Dortmund II", "Bayern", 0, 0)})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	// Forward probes come before the reversed ones, widest home pattern first.
	want := fmt.Sprintf("%s|%s", "%borussia dortmund ii%", "%bayern%")
	if len(repo.probes) == 0 || repo.probes[0] != want {
		t.Fatalf("unexpected first probe: %v", repo.probes)
	}
	last := repo.probes[len(repo.probes)-1]
	if last != fmt.Sprintf("%s|%s", "%bayern%", "%borussia%dortmund%") {
		t.Fatalf("unexpected last probe: %v", repo.probes)
	}
}
