package models

// Player belongs to exactly one game. The id is immutable and unique within
// the game; the name is unique case-insensitively among the game's players.
type Player struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	TotalScore int    `json:"total_score"`
	IsLeader   bool   `json:"is_leader"`
}
