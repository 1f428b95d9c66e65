// Package engine holds the pure game rules: creating games, applying and
// reworking rounds, computing totals and leaderboards, and deciding when a
// game ends. Every function is synchronous, performs no I/O, and never
// mutates the aggregate it is given; callers get a fresh Game back.
package engine

import (
	"strings"
	"time"

	"rummyscore/models"
	"rummyscore/validation"
)

// CreateGame builds a new active game from the given player names. Names are
// trimmed before players are built. The optional target score sets the end
// threshold; nil means the game only ends when the players say so.
func CreateGame(names []string, targetScore *int) (models.Game, error) {
	if err := validation.AssertPlayerNameBatch(names); err != nil {
		return models.Game{}, err
	}

	players := make([]models.Player, len(names))
	for i, name := range names {
		players[i] = models.Player{
			ID:         newID(),
			Name:       strings.TrimSpace(name),
			TotalScore: 0,
			IsLeader:   false,
		}
	}

	game := models.Game{
		ID:          newID(),
		Players:     players,
		Rounds:      []models.Round{},
		TargetScore: targetScore,
		Status:      models.GameStatusActive,
		CreatedAt:   time.Now(),
	}

	if err := validation.AssertGame(game); err != nil {
		return models.Game{}, err
	}
	return game, nil
}

// CheckGameEnd reports whether the game has reached its end condition: some
// player's running total meets or exceeds the target score. Games without a
// target, and games already completed, never report true.
func CheckGameEnd(game models.Game) bool {
	if game.TargetScore == nil || game.Status == models.GameStatusCompleted {
		return false
	}
	for _, p := range CalculatePlayerTotals(game) {
		if p.TotalScore >= *game.TargetScore {
			return true
		}
	}
	return false
}

// DetermineWinner returns the player currently winning the game: the first
// entry of the leaderboard, i.e. the lowest total. Returns nil when the game
// has no players.
func DetermineWinner(game models.Game) *models.Player {
	if len(game.Players) == 0 {
		return nil
	}
	leaderboard := CalculateLeaderboard(game)
	return &leaderboard[0]
}

// EndGame marks the game completed, stamping the completion time and the
// winner. It does not check the end condition itself; both the manual
// end-game action and the automatic target-score trigger call it the same
// way, and the caller decides when.
func EndGame(game models.Game) models.Game {
	ended := game
	ended.Status = models.GameStatusCompleted
	now := time.Now()
	ended.CompletedAt = &now
	if winner := DetermineWinner(game); winner != nil {
		ended.Winner = winner.ID
	}
	return ended
}

// CurrentRoundNumber returns the number the next round will carry.
func CurrentRoundNumber(game models.Game) int {
	return len(game.Rounds) + 1
}
