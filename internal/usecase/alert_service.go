package usecase

import (
	"context"
	"fmt"
	"html"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/valyala/bytebufferpool"

	"github.com/brunoavln/goalscout/internal/domain/alert"
	"github.com/brunoavln/goalscout/internal/domain/game"
	"github.com/brunoavln/goalscout/internal/platform/logging"
)

// Messenger delivers one rendered alert to one recipient. Implementations
// report delivery failures instead of swallowing them.
type Messenger interface {
	Send(ctx context.Context, recipient, text string) error
}

// AlertThresholds are the qualification rules for a notification.
type AlertThresholds struct {
	// PairwiseMin qualifies a fixture when any of the three pairwise
	// averages reaches it.
	PairwiseMin float64
	// HighProbMin and HighProbMatches together mark the high-probability
	// variant: overall average at or above the floor with enough analyzed
	// matches behind it.
	HighProbMin     float64
	HighProbMatches int
	// KickoffWindow relabels a qualifying fixture whose kickoff is at
	// most this far in the future.
	KickoffWindow time.Duration
}

func DefaultAlertThresholds() AlertThresholds {
	return AlertThresholds{
		PairwiseMin:     60,
		HighProbMin:     70,
		HighProbMatches: 10,
		KickoffWindow:   30 * time.Minute,
	}
}

// DispatchReport summarizes one alert dispatch pass.
type DispatchReport struct {
	Candidates  int
	AlreadySent int
	Sent        int
	FailedSends int
}

// AlertService filters a day's fixtures against the thresholds, skips the
// ones already alerted, and fans the rendered messages out to the static
// recipient list through a bounded worker pool. Newly alerted identities
// are recorded in one batch after the sends, so a crash in between repeats
// at most one cycle's notifications.
type AlertService struct {
	store      alert.Store
	messenger  Messenger
	recipients []string
	thresholds AlertThresholds
	poolSize   int
	logger     *logging.Logger
	now        func() time.Time
}

func NewAlertService(
	store alert.Store,
	messenger Messenger,
	recipients []string,
	thresholds AlertThresholds,
	poolSize int,
	logger *logging.Logger,
) *AlertService {
	if poolSize <= 0 {
		poolSize = 1
	}
	return &AlertService{
		store:      store,
		messenger:  messenger,
		recipients: recipients,
		thresholds: thresholds,
		poolSize:   poolSize,
		logger:     logger,
		now:        time.Now,
	}
}

type pendingAlert struct {
	identity string
	kind     alert.Kind
	text     string
}

// Dispatch runs one pass over the given fixtures.
func (s *AlertService) Dispatch(ctx context.Context, games []game.Game) (DispatchReport, error) {
	var report DispatchReport

	pending := make([]pendingAlert, 0, len(games))
	for _, g := range games {
		kind, ok := s.classify(g)
		if !ok {
			continue
		}
		report.Candidates++

		identity := g.Identity()
		sent, err := s.store.Contains(ctx, identity)
		if err != nil {
			return report, fmt.Errorf("check alerted set: %w", err)
		}
		if sent {
			report.AlreadySent++
			continue
		}

		pending = append(pending, pendingAlert{
			identity: identity,
			kind:     kind,
			text:     renderAlert(g, kind),
		})
	}

	if len(pending) == 0 || len(s.recipients) == 0 {
		return report, nil
	}

	delivered, failedSends, err := s.fanOut(ctx, pending)
	if err != nil {
		return report, err
	}
	report.FailedSends = failedSends

	recorded := make([]string, 0, len(pending))
	for i, p := range pending {
		if delivered[i].Load() > 0 {
			report.Sent++
			recorded = append(recorded, p.identity)
		}
	}
	if len(recorded) > 0 {
		if err := s.store.Add(ctx, recorded); err != nil {
			return report, fmt.Errorf("record alerted identities: %w", err)
		}
	}

	return report, nil
}

func (s *AlertService) fanOut(ctx context.Context, pending []pendingAlert) ([]atomic.Int32, int, error) {
	delivered := make([]atomic.Int32, len(pending))
	var failed atomic.Int32

	pool, err := ants.NewPool(s.poolSize)
	if err != nil {
		return nil, 0, fmt.Errorf("create send pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for i, p := range pending {
		for _, recipient := range s.recipients {
			i, p, recipient := i, p, recipient
			workers.Add(1)
			if err := pool.Submit(func() {
				defer workers.Done()

				if err := s.messenger.Send(ctx, recipient, p.text); err != nil {
					failed.Add(1)
					s.logger.Warn("alert delivery failed",
						"recipient", recipient,
						"identity", p.identity,
						"error", err,
					)
					return
				}
				delivered[i].Add(1)
			}); err != nil {
				workers.Done()
				return nil, 0, fmt.Errorf("submit send to pool: %w", err)
			}
		}
	}
	workers.Wait()

	return delivered, int(failed.Load()), nil
}

// classify decides whether a fixture qualifies and under which label. The
// kickoff-soon label wins over the others when the fixture is about to
// start, so the single alert a fixture ever gets carries the most urgent
// framing available at dispatch time.
func (s *AlertService) classify(g game.Game) (alert.Kind, bool) {
	high := g.AvgProb >= s.thresholds.HighProbMin &&
		g.Matches != nil && *g.Matches > s.thresholds.HighProbMatches
	standard := anyAtLeast(s.thresholds.PairwiseMin, g.AvgOver15, g.AvgOver25, g.AvgBTTS)

	if !high && !standard {
		return "", false
	}
	if s.withinKickoffWindow(g) {
		return alert.KindKickoffSoon, true
	}
	if high {
		return alert.KindHighProb, true
	}
	return alert.KindStandard, true
}

func (s *AlertService) withinKickoffWindow(g game.Game) bool {
	if s.thresholds.KickoffWindow <= 0 {
		return false
	}
	now := s.now()
	until := g.Kickoff.OnDay(now).Sub(now)
	return until >= 0 && until <= s.thresholds.KickoffWindow
}

func anyAtLeast(min float64, values ...*float64) bool {
	for _, v := range values {
		if v != nil && *v >= min {
			return true
		}
	}
	return false
}

var kindHeadlines = map[alert.Kind]string{
	alert.KindStandard:    "⚽️ Match alert",
	alert.KindHighProb:    "🔥 High probability alert",
	alert.KindKickoffSoon: "⏰ Kickoff soon",
}

// renderAlert builds the HTML notification body. Team and competition
// names come from scraped pages, so they are escaped.
func renderAlert(g game.Game, kind alert.Kind) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	home := html.EscapeString(g.HomeTeam)
	away := html.EscapeString(g.AwayTeam)
	search := url.QueryEscape(g.HomeTeam + " vs " + g.AwayTeam)

	fmt.Fprintf(buf, "%s\n", kindHeadlines[kind])
	fmt.Fprintf(buf, "<b>%s vs %s</b> | <a href=\"https://www.google.com/search?q=%s\">🔎 search</a>\n", home, away, search)

	competition := html.EscapeString(g.Country)
	if g.League != "" {
		competition += " · " + html.EscapeString(g.League)
	}
	fmt.Fprintf(buf, "%s\n", competition)
	fmt.Fprintf(buf, "%s %s\n\n", g.MatchDate, g.Kickoff)

	fmt.Fprintf(buf, "🔥 <b>Avg: %.2f%%</b>", g.AvgProb)
	if g.Matches != nil {
		fmt.Fprintf(buf, " (%d matches)", *g.Matches)
	}
	buf.WriteString("\n\n")

	buf.WriteString("📊 <b>Averages</b>\n")
	appendMetric(buf, "Over 1.5", g.AvgOver15)
	appendMetric(buf, "Over 2.5", g.AvgOver25)
	appendMetric(buf, "BTTS", g.AvgBTTS)
	buf.WriteString("\n")

	fmt.Fprintf(buf, "🏠 <b>%s (H) | %s (A)</b>\n", home, away)
	fmt.Fprintf(buf, "O1.5: %s | %s\n", fmtPct(g.HomeOver15), fmtPct(g.AwayOver15))
	fmt.Fprintf(buf, "O2.5: %s | %s\n", fmtPct(g.HomeOver25), fmtPct(g.AwayOver25))
	fmt.Fprintf(buf, "BTTS: %s | %s\n", fmtPct(g.HomeBTTS), fmtPct(g.AwayBTTS))
	fmt.Fprintf(buf, "📈 PPG: %s | %s\n", fmtNum(g.PPGHome), fmtNum(g.PPGAway))
	fmt.Fprintf(buf, "⚽ Avg goals: %s | %s\n", fmtNum(g.AvgGoalsHome), fmtNum(g.AvgGoalsAway))
	fmt.Fprintf(buf, "🎯 Scored/conceded: %s/%s | %s/%s\n",
		fmtNum(g.GoalsForHome), fmtNum(g.GoalsAgainstHome),
		fmtNum(g.GoalsForAway), fmtNum(g.GoalsAgainstAway))
	if g.HomeWinPct != nil || g.AwayWinPct != nil {
		fmt.Fprintf(buf, "🏆 Win %%: %s | %s\n", fmtPct(g.HomeWinPct), fmtPct(g.AwayWinPct))
	}

	return buf.String()
}

func appendMetric(buf *bytebufferpool.ByteBuffer, label string, value *float64) {
	if value == nil {
		return
	}
	fmt.Fprintf(buf, "%s: %.2f%%\n", label, *value)
}

func fmtPct(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.0f%%", *v)
}

func fmtNum(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", *v)
}
