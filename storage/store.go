// Package storage is the only I/O boundary of the scorekeeping core. The
// live aggregates are kept as JSON blobs in Redis under fixed logical keys;
// a record that fails to deserialize or fails structural validation on load
// is treated as corrupt, deleted, and reported as absent. Corruption never
// crashes the caller.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/redis/go-redis/v9"

	"rummyscore/models"
	"rummyscore/validation"
)

// Logical store keys.
const (
	currentGameKey   = "currentGame"
	gameHistoryKey   = "gameHistory"
	recentPlayersKey = "recentPlayers"
)

const (
	maxHistoryEntries = 100
	maxRecentPlayers  = 50
)

// ErrGameNotFound is returned by LoadGame when the id matches neither the
// current game nor any history entry.
var ErrGameNotFound = errors.New("game not found")

type GameStore struct {
	rdb *redis.Client
}

func NewGameStore(rdb *redis.Client) *GameStore {
	return &GameStore{rdb: rdb}
}

// SaveGame serializes the game and writes it as the current-game record.
// Dates round-trip as RFC 3339 strings inside the JSON blob.
func (s *GameStore) SaveGame(ctx context.Context, game models.Game) error {
	data, err := json.Marshal(game)
	if err != nil {
		return &StorageError{Op: "save current game", Err: err}
	}
	if err := s.rdb.Set(ctx, currentGameKey, data, 0).Err(); err != nil {
		return &StorageError{Op: "save current game", Err: err}
	}
	return nil
}

// LoadCurrentGame reads the current-game record. It returns nil without an
// error when no record exists, and likewise when the record turns out to be
// corrupt; a corrupt record is deleted so the next load starts clean.
func (s *GameStore) LoadCurrentGame(ctx context.Context) (*models.Game, error) {
	data, err := s.rdb.Get(ctx, currentGameKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, &StorageError{Op: "load current game", Err: err}
	}

	var game models.Game
	if err := json.Unmarshal(data, &game); err != nil {
		s.dropCorrupt(ctx, currentGameKey, err)
		return nil, nil
	}
	if err := validation.AssertGame(game); err != nil {
		s.dropCorrupt(ctx, currentGameKey, err)
		return nil, nil
	}
	return &game, nil
}

// LoadGameHistory reads the completed-game history, most recent first. A
// corrupt history record is deleted and an empty list returned.
func (s *GameStore) LoadGameHistory(ctx context.Context) ([]models.Game, error) {
	data, err := s.rdb.Get(ctx, gameHistoryKey).Bytes()
	if err == redis.Nil {
		return []models.Game{}, nil
	}
	if err != nil {
		return nil, &StorageError{Op: "load game history", Err: err}
	}

	var games []models.Game
	if err := json.Unmarshal(data, &games); err != nil {
		s.dropCorrupt(ctx, gameHistoryKey, err)
		return []models.Game{}, nil
	}
	for i, game := range games {
		if err := validation.AssertGame(game); err != nil {
			s.dropCorrupt(ctx, gameHistoryKey, validation.Errorf("history entry %d: %v", i, err))
			return []models.Game{}, nil
		}
	}
	return games, nil
}

// AddGameToHistory prepends the game to the history list and truncates the
// list to the most recent entries; anything past the cap is silently
// dropped.
func (s *GameStore) AddGameToHistory(ctx context.Context, game models.Game) error {
	history, err := s.LoadGameHistory(ctx)
	if err != nil {
		return err
	}

	history = append([]models.Game{game}, history...)
	if len(history) > maxHistoryEntries {
		history = history[:maxHistoryEntries]
	}

	data, err := json.Marshal(history)
	if err != nil {
		return &StorageError{Op: "save game history", Err: err}
	}
	if err := s.rdb.Set(ctx, gameHistoryKey, data, 0).Err(); err != nil {
		return &StorageError{Op: "save game history", Err: err}
	}
	return nil
}

// LoadGame finds a game by id, checking the current game first and the
// history second. Returns ErrGameNotFound when the id matches neither.
func (s *GameStore) LoadGame(ctx context.Context, id string) (*models.Game, error) {
	current, err := s.LoadCurrentGame(ctx)
	if err != nil {
		return nil, err
	}
	if current != nil && current.ID == id {
		return current, nil
	}

	history, err := s.LoadGameHistory(ctx)
	if err != nil {
		return nil, err
	}
	for i := range history {
		if history[i].ID == id {
			return &history[i], nil
		}
	}
	return nil, ErrGameNotFound
}

// SavePlayerNames merges the given names into the recent-player list: new
// names first, earlier occurrences of the exact same name removed, list
// truncated to the cap. Dedup is deliberately case-sensitive, it only folds
// exact re-entries of the same name.
func (s *GameStore) SavePlayerNames(ctx context.Context, names []string) error {
	recent, err := s.LoadRecentPlayerNames(ctx)
	if err != nil {
		return err
	}

	merged := make([]string, 0, len(names)+len(recent))
	seen := make(map[string]struct{}, len(names)+len(recent))
	for _, name := range append(append([]string{}, names...), recent...) {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		merged = append(merged, name)
	}
	if len(merged) > maxRecentPlayers {
		merged = merged[:maxRecentPlayers]
	}

	data, err := json.Marshal(merged)
	if err != nil {
		return &StorageError{Op: "save player names", Err: err}
	}
	if err := s.rdb.Set(ctx, recentPlayersKey, data, 0).Err(); err != nil {
		return &StorageError{Op: "save player names", Err: err}
	}
	return nil
}

// LoadRecentPlayerNames reads the recent-player list, most recently used
// first. A corrupt list is cleared and an empty list returned.
func (s *GameStore) LoadRecentPlayerNames(ctx context.Context) ([]string, error) {
	data, err := s.rdb.Get(ctx, recentPlayersKey).Bytes()
	if err == redis.Nil {
		return []string{}, nil
	}
	if err != nil {
		return nil, &StorageError{Op: "load player names", Err: err}
	}

	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		s.dropCorrupt(ctx, recentPlayersKey, err)
		return []string{}, nil
	}
	return names, nil
}

// ClearCurrentGame deletes the current-game record. Deleting an absent
// record is not an error.
func (s *GameStore) ClearCurrentGame(ctx context.Context) error {
	if err := s.rdb.Del(ctx, currentGameKey).Err(); err != nil {
		return &StorageError{Op: "clear current game", Err: err}
	}
	return nil
}

// ClearAllData deletes every record the store owns.
func (s *GameStore) ClearAllData(ctx context.Context) error {
	if err := s.rdb.Del(ctx, currentGameKey, gameHistoryKey, recentPlayersKey).Err(); err != nil {
		return &StorageError{Op: "clear all data", Err: err}
	}
	return nil
}

// dropCorrupt deletes a record that failed deserialization or validation.
// Losing the record silently beats crashing the app on every launch after a
// partial write or a format drift.
func (s *GameStore) dropCorrupt(ctx context.Context, key string, cause error) {
	log.Printf("Dropping corrupt %s record: %v", key, cause)
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		log.Printf("Failed to delete corrupt %s record: %v", key, err)
	}
}
