package storage

import (
	"fmt"

	"gorm.io/gorm"

	"rummyscore/models"
)

// ArchiveRepo keeps a durable row-based record of completed games in the
// relational database. It is additive only: games are archived for all-time
// stats and never loaded back as live aggregates.
type ArchiveRepo struct {
	db *gorm.DB
}

func NewArchiveRepo(db *gorm.DB) *ArchiveRepo {
	return &ArchiveRepo{db: db}
}

// PlayerRecord is one player's all-time line across every archived game.
type PlayerRecord struct {
	PlayerName  string `json:"player_name"`
	GamesPlayed int    `json:"games_played"`
	Wins        int    `json:"wins"`
	TotalPoints int    `json:"total_points"`
	Rummies     int    `json:"rummies"`
}

// ArchiveGame writes a completed game and its final standings. The caller
// passes the leaderboard so this layer never needs the rules engine; place
// is the leaderboard position, 1-based.
func (r *ArchiveRepo) ArchiveGame(game models.Game, leaderboard []models.Player) error {
	if game.Status != models.GameStatusCompleted {
		return fmt.Errorf("cannot archive game %s: game is not completed", game.ID)
	}

	rummies := make(map[string]int, len(game.Players))
	for _, round := range game.Rounds {
		for _, score := range round.Scores {
			if score.IsRummy {
				rummies[score.PlayerID]++
			}
		}
	}

	archived := models.ArchivedGame{
		GameID:       game.ID,
		TargetScore:  game.TargetScore,
		RoundsPlayed: len(game.Rounds),
		StartedAt:    game.CreatedAt,
	}
	if game.CompletedAt != nil {
		archived.CompletedAt = *game.CompletedAt
	}
	if winner := game.PlayerByID(game.Winner); winner != nil {
		archived.WinnerName = winner.Name
	}

	for i, p := range leaderboard {
		archived.Results = append(archived.Results, models.ArchivedResult{
			PlayerName: p.Name,
			TotalScore: p.TotalScore,
			Place:      i + 1,
			RummyCount: rummies[p.ID],
			Won:        p.ID == game.Winner,
		})
	}

	return r.db.Create(&archived).Error
}

// AllTimeStats aggregates archived results per player name, most wins
// first.
func (r *ArchiveRepo) AllTimeStats() ([]PlayerRecord, error) {
	var records []PlayerRecord
	err := r.db.Model(&models.ArchivedResult{}).
		Select("player_name, COUNT(*) as games_played, SUM(CASE WHEN won THEN 1 ELSE 0 END) as wins, SUM(total_score) as total_points, SUM(rummy_count) as rummies").
		Group("player_name").
		Order("wins DESC, games_played DESC").
		Scan(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
