package engine

import "rummyscore/models"

// Stats summarizes a game for display. Average, highest and lowest are
// computed over per-player running totals, not over individual round
// entries; RummyCount counts every rummy declared across all rounds.
type Stats struct {
	TotalRounds  int     `json:"total_rounds"`
	AverageScore float64 `json:"average_score"`
	HighestScore int     `json:"highest_score"`
	LowestScore  int     `json:"lowest_score"`
	RummyCount   int     `json:"rummy_count"`
}

// GameStats computes the game's summary stats. A game with no rounds yields
// the zero Stats.
func GameStats(game models.Game) Stats {
	if len(game.Rounds) == 0 {
		return Stats{}
	}

	stats := Stats{TotalRounds: len(game.Rounds)}
	for _, round := range game.Rounds {
		for _, score := range round.Scores {
			if score.IsRummy {
				stats.RummyCount++
			}
		}
	}

	totals := CalculatePlayerTotals(game)
	// A validated game with rounds always has players; this only guards
	// hand-built aggregates that never went through AssertGame.
	if len(totals) == 0 {
		return stats
	}
	sum := 0
	stats.HighestScore = totals[0].TotalScore
	stats.LowestScore = totals[0].TotalScore
	for _, p := range totals {
		sum += p.TotalScore
		if p.TotalScore > stats.HighestScore {
			stats.HighestScore = p.TotalScore
		}
		if p.TotalScore < stats.LowestScore {
			stats.LowestScore = p.TotalScore
		}
	}
	stats.AverageScore = float64(sum) / float64(len(totals))
	return stats
}
