package models

// PlayerScore is one player's result for one round. A Rummy means the player
// went out and scored zero for the round, so IsRummy=true always pairs with
// Score=0; that pairing is enforced by the engine's score constructor.
type PlayerScore struct {
	PlayerID string `json:"player_id"`
	Score    int    `json:"score"`
	IsRummy  bool   `json:"is_rummy"`
}
