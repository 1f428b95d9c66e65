package models

import "time"

// Round is one scoring event across all players in a game. RoundNumber is
// 1-based and contiguous: deleting an earlier round renumbers every later
// round, so the number always reflects current sequence position rather than
// creation order.
type Round struct {
	ID          string        `json:"id"`
	RoundNumber int           `json:"round_number"`
	Scores      []PlayerScore `json:"scores"`
	Timestamp   time.Time     `json:"timestamp"`
}

// ScoreFor returns the score entry for the given player id, or nil if the
// round has no entry for that player.
func (r *Round) ScoreFor(playerID string) *PlayerScore {
	for i := range r.Scores {
		if r.Scores[i].PlayerID == playerID {
			return &r.Scores[i]
		}
	}
	return nil
}
