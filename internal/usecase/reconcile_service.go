package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/brunoavln/goalscout/internal/domain/game"
	"github.com/brunoavln/goalscout/internal/domain/result"
	"github.com/brunoavln/goalscout/internal/domain/teamname"
	"github.com/brunoavln/goalscout/internal/platform/logging"
)

// ReconcileStats summarizes one results-feed batch.
type ReconcileStats struct {
	Processed     int
	Exact         int
	Fuzzy         int
	FuzzyReversed int
	Unmatched     int
	Skipped       int
}

// ReconcileService writes final scores from the results feed onto the
// scraped fixture rows. Feed and scraper spell team names differently, so
// a miss on the exact (date, home, away) key falls back to ILIKE probes
// built from normalized name patterns. A probe is decisive only when it
// returns exactly one candidate; anything else leaves the row untouched.
type ReconcileService struct {
	games         game.Repository
	names         *teamname.Normalizer
	fuzzyFallback bool
	logger        *logging.Logger
}

func NewReconcileService(
	games game.Repository,
	names *teamname.Normalizer,
	fuzzyFallback bool,
	logger *logging.Logger,
) *ReconcileService {
	return &ReconcileService{
		games:         games,
		names:         names,
		fuzzyFallback: fuzzyFallback,
		logger:        logger,
	}
}

// Apply reconciles a feed batch row by row inside one transaction:
// either every matched row's update commits, or a failure rolls the
// whole batch back and the stats so far describe the aborted attempt.
// Unfinished rows and rows without a score are skipped.
func (s *ReconcileService) Apply(ctx context.Context, rows []result.Row) (ReconcileStats, error) {
	var stats ReconcileStats

	err := s.games.Reconcile(ctx, func(store game.ResultStore) error {
		for _, row := range rows {
			if !result.IsFinishedStatus(row.Status) || !row.HasScore() {
				stats.Skipped++
				continue
			}
			stats.Processed++

			update := game.ResultUpdate{
				MatchDate: row.MatchDate,
				HomeTeam:  strings.TrimSpace(row.HomeTeam),
				AwayTeam:  strings.TrimSpace(row.AwayTeam),
				HomeGoals: *row.HomeGoals,
				AwayGoals: *row.AwayGoals,
				Status:    strings.ToUpper(strings.TrimSpace(row.Status)),
			}
			if league := strings.TrimSpace(row.League); league != "" {
				update.League = &league
			}

			affected, err := store.UpdateResult(ctx, update)
			if err != nil {
				return fmt.Errorf("update result %s vs %s: %w", update.HomeTeam, update.AwayTeam, err)
			}
			if affected > 0 {
				stats.Exact++
				continue
			}

			if !s.fuzzyFallback {
				stats.Unmatched++
				continue
			}

			matched, reversed, err := s.applyFuzzy(ctx, store, update)
			if err != nil {
				return err
			}
			switch {
			case matched && reversed:
				stats.FuzzyReversed++
			case matched:
				stats.Fuzzy++
			default:
				stats.Unmatched++
			}
		}
		return nil
	})

	return stats, err
}

// applyFuzzy probes the home/away pattern cross-product forward, then with
// the sides swapped. A reversed hit means the stored row has the teams the
// other way round, so the goals swap with them.
func (s *ReconcileService) applyFuzzy(ctx context.Context, store game.ResultStore, update game.ResultUpdate) (matched, reversed bool, err error) {
	homePatterns := s.names.Patterns(update.HomeTeam)
	awayPatterns := s.names.Patterns(update.AwayTeam)
	if len(homePatterns) == 0 || len(awayPatterns) == 0 {
		return false, false, nil
	}

	id, found, err := s.probe(ctx, store, update.MatchDate, homePatterns, awayPatterns)
	if err != nil {
		return false, false, err
	}
	if found {
		if err := store.UpdateResultByID(ctx, id, update); err != nil {
			return false, false, fmt.Errorf("update result by id %d: %w", id, err)
		}
		s.logger.Debug("fuzzy reconcile matched",
			"strategy", "forward",
			"row_id", id,
			"home", update.HomeTeam,
			"away", update.AwayTeam,
		)
		return true, false, nil
	}

	id, found, err = s.probe(ctx, store, update.MatchDate, awayPatterns, homePatterns)
	if err != nil {
		return false, false, err
	}
	if !found {
		s.logger.Debug("fuzzy reconcile unmatched",
			"home", update.HomeTeam,
			"away", update.AwayTeam,
			"home_patterns", homePatterns,
			"away_patterns", awayPatterns,
		)
		return false, false, nil
	}

	swapped := update
	swapped.HomeTeam, swapped.AwayTeam = update.AwayTeam, update.HomeTeam
	swapped.HomeGoals, swapped.AwayGoals = update.AwayGoals, update.HomeGoals
	if err := store.UpdateResultByID(ctx, id, swapped); err != nil {
		return false, false, fmt.Errorf("update result by id %d: %w", id, err)
	}
	s.logger.Debug("fuzzy reconcile matched",
		"strategy", "reversed",
		"row_id", id,
		"home", update.HomeTeam,
		"away", update.AwayTeam,
	)
	return true, true, nil
}

// probe tries every pattern pair in order and stops at the first pair that
// narrows down to exactly one stored row.
func (s *ReconcileService) probe(ctx context.Context, store game.ResultStore, matchDate string, homePatterns, awayPatterns []string) (int64, bool, error) {
	for _, hp := range homePatterns {
		for _, ap := range awayPatterns {
			ids, err := store.FindCandidateIDs(ctx, matchDate, hp, ap)
			if err != nil {
				return 0, false, fmt.Errorf("probe candidates %q/%q: %w", hp, ap, err)
			}
			if len(ids) == 1 {
				return ids[0], true, nil
			}
		}
	}
	return 0, false, nil
}
