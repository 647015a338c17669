package pricing

import "github.com/govsure/costroll/internal/advisory"

const startingScore = 100

// penalties are shown to users as a concrete score; keep thresholds and
// magnitudes stable.
var penalties = []advisory.Penalty[input]{
	{Name: "fee-high", Points: 15, When: func(in input) bool { return in.settings.FeePercentage > maxFeePercent }},
	{Name: "fee-low", Points: 10, When: func(in input) bool { return in.settings.FeePercentage < minFeePercent }},
	{Name: "overhead-high", Points: 20, When: func(in input) bool { return in.settings.OverheadRate > maxOverheadPercent }},
	{Name: "overhead-low", Points: 5, When: func(in input) bool { return in.settings.OverheadRate < minOverheadPercent }},
	{Name: "average-rate-high", Points: 10, When: func(in input) bool { return in.averageRate() > maxAverageRate }},
	{Name: "ganda-high", Points: 10, When: func(in input) bool { return in.settings.GandARate > maxGandAPercent }},
}

// CompetitivenessScore reduces m to a 0-100 heuristic score.
func CompetitivenessScore(m Model) int {
	return advisory.Score(startingScore, penalties, input{settings: m.Settings, items: m.LaborItems()})
}
