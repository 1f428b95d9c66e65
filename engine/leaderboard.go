package engine

import (
	"sort"

	"rummyscore/models"
)

// CalculatePlayerTotals recomputes every player's running total from the
// game's rounds. The returned slice preserves the order of game.Players;
// IsLeader is carried over untouched.
func CalculatePlayerTotals(game models.Game) []models.Player {
	totals := make(map[string]int, len(game.Players))
	for _, round := range game.Rounds {
		for _, score := range round.Scores {
			totals[score.PlayerID] += score.Score
		}
	}

	players := make([]models.Player, len(game.Players))
	for i, p := range game.Players {
		p.TotalScore = totals[p.ID]
		players[i] = p
	}
	return players
}

// CalculateLeaderboard ranks players ascending by total: lowest score wins
// in rummy, which is a rule of the game and not a sorting accident. Exactly
// the first entry is marked leader. Players on equal totals keep the
// aggregate's player order (stable sort), so ties never reorder players the
// user didn't reorder themselves.
func CalculateLeaderboard(game models.Game) []models.Player {
	players := CalculatePlayerTotals(game)
	sort.SliceStable(players, func(i, j int) bool {
		return players[i].TotalScore < players[j].TotalScore
	})
	for i := range players {
		players[i].IsLeader = i == 0
	}
	return players
}
