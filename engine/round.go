package engine

import (
	"time"

	"rummyscore/models"
	"rummyscore/validation"
)

// CreatePlayerScore builds one player's entry for a round. A rummy always
// scores zero, whatever score was passed in; this constructor is the single
// place that rule is enforced.
func CreatePlayerScore(playerID string, score int, isRummy bool) models.PlayerScore {
	if isRummy {
		score = 0
	}
	return models.PlayerScore{
		PlayerID: playerID,
		Score:    score,
		IsRummy:  isRummy,
	}
}

// AddRound appends a new round to the game. The supplied scores must cover
// exactly the game's current players, no more and no fewer.
func AddRound(game models.Game, scores []models.PlayerScore) (models.Game, error) {
	if err := assertFullCoverage(game, scores); err != nil {
		return models.Game{}, err
	}

	round := models.Round{
		ID:          newID(),
		RoundNumber: len(game.Rounds) + 1,
		Scores:      append([]models.PlayerScore(nil), scores...),
		Timestamp:   time.Now(),
	}
	if err := validation.AssertRound(round); err != nil {
		return models.Game{}, err
	}

	updated := game
	updated.Rounds = append(append([]models.Round(nil), game.Rounds...), round)
	return updated, nil
}

// EditRound replaces the scores of an existing round and bumps its timestamp.
// The round keeps its number and its position in the sequence.
func EditRound(game models.Game, roundID string, scores []models.PlayerScore) (models.Game, error) {
	index := roundIndex(game, roundID)
	if index < 0 {
		return models.Game{}, validation.Errorf("round not found")
	}
	if err := assertFullCoverage(game, scores); err != nil {
		return models.Game{}, err
	}

	round := game.Rounds[index]
	round.Scores = append([]models.PlayerScore(nil), scores...)
	round.Timestamp = time.Now()
	if err := validation.AssertRound(round); err != nil {
		return models.Game{}, err
	}

	updated := game
	updated.Rounds = append([]models.Round(nil), game.Rounds...)
	updated.Rounds[index] = round
	return updated, nil
}

// DeleteRound removes a round and renumbers the remaining rounds so they
// stay contiguous from 1 in their current relative order.
func DeleteRound(game models.Game, roundID string) (models.Game, error) {
	index := roundIndex(game, roundID)
	if index < 0 {
		return models.Game{}, validation.Errorf("round not found")
	}

	remaining := make([]models.Round, 0, len(game.Rounds)-1)
	for i, r := range game.Rounds {
		if i == index {
			continue
		}
		r.RoundNumber = len(remaining) + 1
		remaining = append(remaining, r)
	}

	updated := game
	updated.Rounds = remaining
	return updated, nil
}

func roundIndex(game models.Game, roundID string) int {
	for i := range game.Rounds {
		if game.Rounds[i].ID == roundID {
			return i
		}
	}
	return -1
}

// assertFullCoverage checks that the score set matches the game's player
// set exactly: one entry per player, no strangers, no duplicates.
func assertFullCoverage(game models.Game, scores []models.PlayerScore) error {
	if len(scores) != len(game.Players) {
		return validation.Errorf("all players must have scores for the round")
	}
	seen := make(map[string]struct{}, len(scores))
	for _, s := range scores {
		if game.PlayerByID(s.PlayerID) == nil {
			return validation.Errorf("all players must have scores for the round")
		}
		if _, dup := seen[s.PlayerID]; dup {
			return validation.Errorf("all players must have scores for the round")
		}
		seen[s.PlayerID] = struct{}{}
	}
	return nil
}
