package models

import "time"

// Game status values. A game starts active and moves to completed exactly
// once, via the end-game operation; the transition is irreversible.
const (
	GameStatusActive    = "active"
	GameStatusCompleted = "completed"
)

// Game is the aggregate root. It exclusively owns its Players and Rounds;
// nothing inside it is shared across games. TotalScore and IsLeader on the
// embedded players are derived from the rounds and recomputed on read, never
// stored authoritatively.
type Game struct {
	ID          string     `json:"id"`
	Players     []Player   `json:"players"`
	Rounds      []Round    `json:"rounds"`
	TargetScore *int       `json:"target_score,omitempty"`
	Status      string     `json:"status"` // active, completed
	Winner      string     `json:"winner,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// PlayerByID returns the player with the given id, or nil if no such player
// exists in this game.
func (g *Game) PlayerByID(id string) *Player {
	for i := range g.Players {
		if g.Players[i].ID == id {
			return &g.Players[i]
		}
	}
	return nil
}

// RoundByID returns the round with the given id, or nil if absent.
func (g *Game) RoundByID(id string) *Round {
	for i := range g.Rounds {
		if g.Rounds[i].ID == id {
			return &g.Rounds[i]
		}
	}
	return nil
}
