package usecase

import (
	"math"

	"github.com/brunoavln/goalscout/internal/domain/game"
	"github.com/brunoavln/goalscout/internal/platform/logging"
)

// MetricsService derives the betting averages from a day's scraped rows.
// It is pure: no I/O, no mutation of the input slice's elements beyond the
// derived fields of the returned copies.
type MetricsService struct {
	logger *logging.Logger
}

func NewMetricsService(logger *logging.Logger) *MetricsService {
	return &MetricsService{logger: logger}
}

// Calculate drops rows missing any of the six raw percentages, then fills
// AvgOver15/AvgOver25/AvgBTTS as pairwise means and AvgProb as the mean of
// all six, each rounded to two decimals. A row that somehow reaches the
// overall average with a missing operand gets AvgProb exactly 0 rather
// than a partial mean.
func (s *MetricsService) Calculate(games []game.Game) []game.Game {
	out := make([]game.Game, 0, len(games))
	dropped := 0

	for _, g := range games {
		if !g.HasAllRawPercentages() {
			dropped++
			continue
		}

		g.AvgOver15 = pairMean(g.HomeOver15, g.AwayOver15)
		g.AvgOver25 = pairMean(g.HomeOver25, g.AwayOver25)
		g.AvgBTTS = pairMean(g.HomeBTTS, g.AwayBTTS)
		g.AvgProb = overallMean(g.RawPercentages())

		out = append(out, g)
	}

	if dropped > 0 {
		s.logger.Debug("dropped rows with incomplete percentages",
			"dropped", dropped,
			"kept", len(out),
		)
	}
	return out
}

func pairMean(home, away *float64) *float64 {
	if home == nil || away == nil {
		return nil
	}
	v := round2((*home + *away) / 2)
	return &v
}

func overallMean(values []*float64) float64 {
	sum := 0.0
	for _, v := range values {
		if v == nil {
			return 0
		}
		sum += *v
	}
	if len(values) == 0 {
		return 0
	}
	return round2(sum / float64(len(values)))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
