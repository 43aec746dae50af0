package postgres

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/jmoiron/sqlx"

	"github.com/brunoavln/goalscout/internal/domain/game"
	qb "github.com/brunoavln/goalscout/internal/platform/querybuilder"
)

// GameRepository is the relational gateway for fixture rows. It reads the
// live column set of the games table once and silently drops values whose
// column does not exist, so a schema one migration behind (or ahead) keeps
// working for the columns both sides know.
type GameRepository struct {
	db *sqlx.DB

	mu      sync.Mutex
	columns map[string]struct{}
}

func NewGameRepository(db *sqlx.DB) *GameRepository {
	return &GameRepository{db: db}
}

// UpsertBatch inserts the given fixtures in one transaction. A row that
// already exists under its (match_date, home_team, away_team) key gets its
// metric columns refreshed; home_goals, away_goals and status are never
// touched here. Any statement failure rolls back the whole batch.
func (r *GameRepository) UpsertBatch(ctx context.Context, games []game.Game) (int, error) {
	if len(games) == 0 {
		return 0, nil
	}

	live, err := r.liveColumns(ctx)
	if err != nil {
		return 0, err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx upsert games: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	upserted := 0
	for _, g := range games {
		allColumns, allValues := gameColumnValues(g)
		columns, values := filterLiveColumns(live, allColumns, allValues)
		if len(columns) == 0 {
			return 0, fmt.Errorf("games table shares no columns with the fixture model")
		}

		query, args, err := qb.InsertInto("games").
			Columns(columns...).
			Values(values...).
			Suffix(upsertSuffix(columns, live)).
			ToSQL()
		if err != nil {
			return 0, fmt.Errorf("build upsert game query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return 0, fmt.Errorf("upsert game %s vs %s: %w", g.HomeTeam, g.AwayTeam, err)
		}
		upserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit upsert games tx: %w", err)
	}
	return upserted, nil
}

// Reconcile runs fn against a result store bound to one transaction:
// the whole feed batch's probes and updates commit together, and an
// error from fn rolls all of them back.
func (r *GameRepository) Reconcile(ctx context.Context, fn func(game.ResultStore) error) error {
	live, err := r.liveColumns(ctx)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx reconcile results: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(&resultTx{tx: tx, live: live}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reconcile results tx: %w", err)
	}
	return nil
}

// resultTx is the transaction-scoped write path handed to Reconcile's
// callback.
type resultTx struct {
	tx   *sqlx.Tx
	live map[string]struct{}
}

// UpdateResult applies a final score by exact key. The feed's league name
// is written along with the score when the schema stores one; the scraper
// often leaves the column empty, so the league must never narrow the match.
func (s *resultTx) UpdateResult(ctx context.Context, update game.ResultUpdate) (int64, error) {
	query, args, err := resultUpdateBuilder(update, s.live).
		Where(
			qb.Eq("match_date", update.MatchDate),
			qb.Eq("home_team", update.HomeTeam),
			qb.Eq("away_team", update.AwayTeam),
		).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build update result query: %w", err)
	}

	res, err := s.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("update result: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update result rows affected: %w", err)
	}
	return affected, nil
}

// FindCandidateIDs returns the ids of same-day rows whose team names match
// the given ILIKE patterns.
func (s *resultTx) FindCandidateIDs(ctx context.Context, matchDate, homePattern, awayPattern string) ([]int64, error) {
	query, args, err := qb.Select("id").From("games").
		Where(
			qb.Eq("match_date", matchDate),
			qb.ILike("home_team", homePattern),
			qb.ILike("away_team", awayPattern),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build candidate ids query: %w", err)
	}

	var ids []int64
	if err := s.tx.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("select candidate ids: %w", err)
	}
	return ids, nil
}

// UpdateResultByID applies a final score to one row found by a fuzzy
// probe. Team name columns stay as scraped.
func (s *resultTx) UpdateResultByID(ctx context.Context, id int64, update game.ResultUpdate) error {
	query, args, err := resultUpdateBuilder(update, s.live).
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update result by id query: %w", err)
	}

	if _, err := s.tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update result by id: %w", err)
	}
	return nil
}

func resultUpdateBuilder(update game.ResultUpdate, live map[string]struct{}) *qb.UpdateBuilder {
	builder := qb.Update("games").
		Set("home_goals", update.HomeGoals).
		Set("away_goals", update.AwayGoals).
		Set("status", update.Status)
	if update.League != nil {
		if _, ok := live["league"]; ok {
			builder = builder.Set("league", *update.League)
		}
	}
	if _, ok := live["updated_at"]; ok {
		builder = builder.SetExpr("updated_at", "NOW()")
	}
	return builder
}

func (r *GameRepository) liveColumns(ctx context.Context) (map[string]struct{}, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.columns != nil {
		return r.columns, nil
	}

	const query = `SELECT column_name FROM information_schema.columns
WHERE table_schema = current_schema() AND table_name = 'games'`

	var names []string
	if err := r.db.SelectContext(ctx, &names, query); err != nil {
		return nil, fmt.Errorf("introspect games columns: %w", err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("games table not found in current schema")
	}

	columns := make(map[string]struct{}, len(names))
	for _, name := range names {
		columns[name] = struct{}{}
	}
	r.columns = columns
	return columns, nil
}

func filterLiveColumns(live map[string]struct{}, columns []string, values []any) ([]string, []any) {
	outCols := make([]string, 0, len(columns))
	outVals := make([]any, 0, len(values))
	for i, col := range columns {
		if _, ok := live[col]; !ok {
			continue
		}
		outCols = append(outCols, col)
		outVals = append(outVals, values[i])
	}
	return outCols, outVals
}

func upsertSuffix(columns []string, live map[string]struct{}) string {
	var sets []string
	for _, col := range columns {
		if _, ok := gameKeyColumns[col]; ok {
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", col, col))
	}
	if _, ok := live["updated_at"]; ok {
		sets = append(sets, "updated_at = NOW()")
	}
	if len(sets) == 0 {
		return "ON CONFLICT (match_date, home_team, away_team) DO NOTHING"
	}

	return "ON CONFLICT (match_date, home_team, away_team)\nDO UPDATE SET\n    " +
		strings.Join(sets, ",\n    ")
}
