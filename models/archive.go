package models

import (
	"time"

	"gorm.io/gorm"
)

// ArchivedGame is the durable record written when a game completes. The
// live aggregate lives in the key-value store; the archive only feeds
// all-time stats and is never read back into a Game.
type ArchivedGame struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	GameID       string         `json:"game_id" gorm:"uniqueIndex;not null"`
	TargetScore  *int           `json:"target_score"`
	RoundsPlayed int            `json:"rounds_played" gorm:"not null"`
	WinnerName   string         `json:"winner_name"`
	StartedAt    time.Time      `json:"started_at"`
	CompletedAt  time.Time      `json:"completed_at"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Results []ArchivedResult `json:"results,omitempty" gorm:"foreignKey:ArchivedGameID"`
}

// ArchivedResult is one player's final line in an archived game.
type ArchivedResult struct {
	ID             uint   `json:"id" gorm:"primaryKey"`
	ArchivedGameID uint   `json:"archived_game_id" gorm:"not null;index"`
	PlayerName     string `json:"player_name" gorm:"not null;index"`
	TotalScore     int    `json:"total_score" gorm:"not null"`
	Place          int    `json:"place" gorm:"not null"`
	RummyCount     int    `json:"rummy_count" gorm:"not null;default:0"`
	Won            bool   `json:"won" gorm:"not null;default:false"`
}
