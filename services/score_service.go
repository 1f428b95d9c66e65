package services

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/gin-gonic/gin"

	"rummyscore/engine"
	"rummyscore/models"
	"rummyscore/storage"
)

// ScoreService is the application coordinator: the single authoritative
// holder of the current game. Every mutation takes the in-memory snapshot
// through the engine, persists the new aggregate, then publishes it to the
// hub. The engine itself never holds state. Operations are serialized by
// the mutex; the engine's snapshot-in/aggregate-out shape means a stale
// concurrent write would be last-writer-wins, which is acceptable for a
// single-user device.
type ScoreService struct {
	store   *storage.GameStore
	archive *storage.ArchiveRepo
	hub     *Hub

	mu      sync.Mutex
	current *models.Game
}

var (
	ErrNoActiveGame    = errors.New("no active game")
	ErrGameCompleted   = errors.New("game is already completed")
	ErrArchiveDisabled = errors.New("game archive is not configured")
)

func NewScoreService(store *storage.GameStore, archive *storage.ArchiveRepo, hub *Hub) *ScoreService {
	return &ScoreService{
		store:   store,
		archive: archive,
		hub:     hub,
	}
}

// Resume loads the persisted current game, if any, back into memory. Called
// once on startup so the app picks up where the device left off.
func (s *ScoreService) Resume(ctx context.Context) error {
	game, err := s.store.LoadCurrentGame(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.current = game
	s.mu.Unlock()

	if game != nil {
		log.Printf("Resumed game %s with %d players and %d rounds", game.ID, len(game.Players), len(game.Rounds))
	}
	return nil
}

// StartGame creates a new game and makes it current, replacing whatever
// game was in progress. The player names are remembered for future setup
// suggestions.
func (s *ScoreService) StartGame(ctx context.Context, names []string, targetScore *int) (models.Game, error) {
	game, err := engine.CreateGame(names, targetScore)
	if err != nil {
		return models.Game{}, err
	}

	if err := s.store.SaveGame(ctx, game); err != nil {
		return models.Game{}, err
	}
	if err := s.store.SavePlayerNames(ctx, playerNames(game.Players)); err != nil {
		log.Printf("Failed to remember player names: %v", err)
	}

	s.mu.Lock()
	s.current = &game
	s.mu.Unlock()

	s.publish("game_started", game)
	return game, nil
}

// CurrentGame returns the active game snapshot, loading it from the store
// if the coordinator has not seen one yet. Returns ErrNoActiveGame when
// there is none.
func (s *ScoreService) CurrentGame(ctx context.Context) (models.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentLocked(ctx)
}

// AddRoundToGame appends a round of scores to the current game. If the new
// totals reach the target score the game is completed automatically.
func (s *ScoreService) AddRoundToGame(ctx context.Context, scores []models.PlayerScore) (models.Game, error) {
	return s.mutate(ctx, func(game models.Game) (models.Game, error) {
		return engine.AddRound(game, scores)
	})
}

// EditRoundInGame replaces the scores of an existing round. Edits can push
// a total over the target, so the end condition is re-checked just like
// after an add.
func (s *ScoreService) EditRoundInGame(ctx context.Context, roundID string, scores []models.PlayerScore) (models.Game, error) {
	return s.mutate(ctx, func(game models.Game) (models.Game, error) {
		return engine.EditRound(game, roundID, scores)
	})
}

// DeleteRoundFromGame removes a round; later rounds are renumbered by the
// engine to stay contiguous.
func (s *ScoreService) DeleteRoundFromGame(ctx context.Context, roundID string) (models.Game, error) {
	return s.mutate(ctx, func(game models.Game) (models.Game, error) {
		return engine.DeleteRound(game, roundID)
	})
}

// mutate runs one engine transformation against the current snapshot,
// persists the result, republishes state, and then applies the automatic
// end-of-game check. A failed transformation leaves memory and storage
// untouched.
func (s *ScoreService) mutate(ctx context.Context, transform func(models.Game) (models.Game, error)) (models.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	game, err := s.currentLocked(ctx)
	if err != nil {
		return models.Game{}, err
	}
	if game.Status == models.GameStatusCompleted {
		return models.Game{}, ErrGameCompleted
	}

	updated, err := transform(game)
	if err != nil {
		return models.Game{}, err
	}

	if err := s.store.SaveGame(ctx, updated); err != nil {
		return models.Game{}, err
	}
	s.current = &updated
	s.publish("game_update", updated)

	if engine.CheckGameEnd(updated) {
		return s.completeLocked(ctx)
	}
	return updated, nil
}

// CompleteGame ends the current game on the user's say-so, regardless of
// the target score.
func (s *ScoreService) CompleteGame(ctx context.Context) (models.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	game, err := s.currentLocked(ctx)
	if err != nil {
		return models.Game{}, err
	}
	if game.Status == models.GameStatusCompleted {
		return models.Game{}, ErrGameCompleted
	}
	return s.completeLocked(ctx)
}

// completeLocked stamps the current game completed, persists it, records it
// in history and the archive, and announces the result. Callers hold the
// mutex and have already ruled out a missing or completed game.
func (s *ScoreService) completeLocked(ctx context.Context) (models.Game, error) {
	ended := engine.EndGame(*s.current)

	if err := s.store.SaveGame(ctx, ended); err != nil {
		return models.Game{}, err
	}
	// The current-game record is the canonical one; once it is written the
	// in-memory snapshot must match it. History and archive are secondary
	// records, so a failure there is logged rather than un-ending the game.
	s.current = &ended

	if err := s.store.AddGameToHistory(ctx, ended); err != nil {
		log.Printf("Failed to add game %s to history: %v", ended.ID, err)
	}

	leaderboard := engine.CalculateLeaderboard(ended)
	if s.archive != nil {
		// Best effort: a broken archive database must not block finishing
		// the game on the device.
		if err := s.archive.ArchiveGame(ended, leaderboard); err != nil {
			log.Printf("Failed to archive game %s: %v", ended.ID, err)
		}
	}

	if s.hub != nil {
		s.hub.Broadcast("game_end", gin.H{
			"game":        ended,
			"leaderboard": leaderboard,
			"winner":      engine.DetermineWinner(ended),
		})
	}
	return ended, nil
}

// ClearCurrentGame discards the current game without recording it.
func (s *ScoreService) ClearCurrentGame(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.ClearCurrentGame(ctx); err != nil {
		return err
	}
	s.current = nil

	if s.hub != nil {
		s.hub.Broadcast("game_cleared", gin.H{})
	}
	return nil
}

// ClearAllData wipes the device store: current game, history, and recent
// players.
func (s *ScoreService) ClearAllData(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.ClearAllData(ctx); err != nil {
		return err
	}
	s.current = nil

	if s.hub != nil {
		s.hub.Broadcast("game_cleared", gin.H{})
	}
	return nil
}

// Leaderboard returns the current game's standings, lowest total first.
func (s *ScoreService) Leaderboard(ctx context.Context) ([]models.Player, error) {
	game, err := s.CurrentGame(ctx)
	if err != nil {
		return nil, err
	}
	return engine.CalculateLeaderboard(game), nil
}

// Stats returns the current game's summary stats.
func (s *ScoreService) Stats(ctx context.Context) (engine.Stats, error) {
	game, err := s.CurrentGame(ctx)
	if err != nil {
		return engine.Stats{}, err
	}
	return engine.GameStats(game), nil
}

// History returns completed games, most recent first.
func (s *ScoreService) History(ctx context.Context) ([]models.Game, error) {
	return s.store.LoadGameHistory(ctx)
}

// GameByID finds a game in the current slot or the history.
func (s *ScoreService) GameByID(ctx context.Context, id string) (models.Game, error) {
	game, err := s.store.LoadGame(ctx, id)
	if err != nil {
		return models.Game{}, err
	}
	return *game, nil
}

// RecentPlayers returns remembered player names for game setup, most
// recently used first.
func (s *ScoreService) RecentPlayers(ctx context.Context) ([]string, error) {
	return s.store.LoadRecentPlayerNames(ctx)
}

// AllTimeStats returns per-player records across every archived game.
func (s *ScoreService) AllTimeStats() ([]storage.PlayerRecord, error) {
	if s.archive == nil {
		return nil, ErrArchiveDisabled
	}
	return s.archive.AllTimeStats()
}

func (s *ScoreService) currentLocked(ctx context.Context) (models.Game, error) {
	if s.current == nil {
		game, err := s.store.LoadCurrentGame(ctx)
		if err != nil {
			return models.Game{}, err
		}
		s.current = game
	}
	if s.current == nil {
		return models.Game{}, ErrNoActiveGame
	}
	return *s.current, nil
}

// publish pushes a fresh state snapshot to connected clients.
func (s *ScoreService) publish(messageType string, game models.Game) {
	if s.hub == nil {
		return
	}
	s.hub.Broadcast(messageType, gin.H{
		"game":        game,
		"leaderboard": engine.CalculateLeaderboard(game),
		"stats":       engine.GameStats(game),
	})
}

func playerNames(players []models.Player) []string {
	names := make([]string, len(players))
	for i, p := range players {
		names[i] = p.Name
	}
	return names
}
