package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rummyscore/models"
)

func newTestStore(t *testing.T) (*GameStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewGameStore(client), mr
}

func testGame(id string) models.Game {
	now := time.Now().UTC().Truncate(time.Second)
	return models.Game{
		ID: id,
		Players: []models.Player{
			{ID: id + "-p1", Name: "Alice"},
			{ID: id + "-p2", Name: "Bob"},
		},
		Rounds: []models.Round{
			{
				ID:          id + "-r1",
				RoundNumber: 1,
				Scores: []models.PlayerScore{
					{PlayerID: id + "-p1", Score: 10},
					{PlayerID: id + "-p2", Score: 20},
				},
				Timestamp: now,
			},
		},
		Status:    models.GameStatusActive,
		CreatedAt: now,
	}
}

func completedGame(id string) models.Game {
	game := testGame(id)
	game.Status = models.GameStatusCompleted
	game.Winner = game.Players[0].ID
	completed := game.CreatedAt.Add(time.Hour)
	game.CompletedAt = &completed
	return game
}

func TestSaveAndLoadCurrentGame(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	game := testGame("g1")

	require.NoError(t, store.SaveGame(ctx, game))

	loaded, err := store.LoadCurrentGame(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.Equal(t, game.ID, loaded.ID)
	assert.Equal(t, game.Players, loaded.Players)
	assert.Len(t, loaded.Rounds, 1)
	// Dates survive the JSON round trip.
	assert.True(t, loaded.CreatedAt.Equal(game.CreatedAt))
	assert.True(t, loaded.Rounds[0].Timestamp.Equal(game.Rounds[0].Timestamp))
}

func TestLoadCurrentGameAbsent(t *testing.T) {
	store, _ := newTestStore(t)

	loaded, err := store.LoadCurrentGame(context.Background())
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestLoadCurrentGameCorruptJSON(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, mr.Set("currentGame", "{not json"))

	loaded, err := store.LoadCurrentGame(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded)

	// The corrupt record is gone, so a second load is clean too.
	assert.False(t, mr.Exists("currentGame"))
	loaded, err = store.LoadCurrentGame(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestLoadCurrentGameStructurallyInvalid(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	// Well-formed JSON, but a one-player game violates the aggregate rules.
	require.NoError(t, mr.Set("currentGame",
		`{"id":"g1","players":[{"id":"p1","name":"Alice"}],"rounds":[],"status":"active","created_at":"2026-01-02T15:04:05Z"}`))

	loaded, err := store.LoadCurrentGame(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded)
	assert.False(t, mr.Exists("currentGame"))
}

func TestGameHistory(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	history, err := store.LoadGameHistory(ctx)
	require.NoError(t, err)
	assert.Empty(t, history)

	require.NoError(t, store.AddGameToHistory(ctx, completedGame("g1")))
	require.NoError(t, store.AddGameToHistory(ctx, completedGame("g2")))

	history, err = store.LoadGameHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history, 2)
	// Most recent first.
	assert.Equal(t, "g2", history[0].ID)
	assert.Equal(t, "g1", history[1].ID)
}

func TestGameHistoryCap(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < maxHistoryEntries+3; i++ {
		require.NoError(t, store.AddGameToHistory(ctx, completedGame(fmt.Sprintf("g%d", i))))
	}

	history, err := store.LoadGameHistory(ctx)
	require.NoError(t, err)
	assert.Len(t, history, maxHistoryEntries)
	// The newest entry survives, the oldest were dropped.
	assert.Equal(t, fmt.Sprintf("g%d", maxHistoryEntries+2), history[0].ID)
}

func TestGameHistoryCorrupt(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, mr.Set("gameHistory", `[{"id":""}]`))

	history, err := store.LoadGameHistory(ctx)
	require.NoError(t, err)
	assert.Empty(t, history)
	assert.False(t, mr.Exists("gameHistory"))
}

func TestLoadGame(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveGame(ctx, testGame("current")))
	require.NoError(t, store.AddGameToHistory(ctx, completedGame("old")))

	game, err := store.LoadGame(ctx, "current")
	require.NoError(t, err)
	assert.Equal(t, "current", game.ID)

	game, err = store.LoadGame(ctx, "old")
	require.NoError(t, err)
	assert.Equal(t, "old", game.ID)

	_, err = store.LoadGame(ctx, "missing")
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func TestSavePlayerNames(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SavePlayerNames(ctx, []string{"Alice", "Bob"}))
	require.NoError(t, store.SavePlayerNames(ctx, []string{"Carol", "Alice"}))

	names, err := store.LoadRecentPlayerNames(ctx)
	require.NoError(t, err)
	// Most recently used first, exact duplicates folded.
	assert.Equal(t, []string{"Carol", "Alice", "Bob"}, names)
}

func TestSavePlayerNamesCaseSensitiveDedup(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SavePlayerNames(ctx, []string{"Alice", "alice"}))

	names, err := store.LoadRecentPlayerNames(ctx)
	require.NoError(t, err)
	// Different casing is a different entry here, unlike in-game names.
	assert.Equal(t, []string{"Alice", "alice"}, names)
}

func TestSavePlayerNamesCap(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	var names []string
	for i := 0; i < maxRecentPlayers+10; i++ {
		names = append(names, fmt.Sprintf("Player%d", i))
	}
	require.NoError(t, store.SavePlayerNames(ctx, names))

	loaded, err := store.LoadRecentPlayerNames(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded, maxRecentPlayers)
	assert.Equal(t, "Player0", loaded[0])
}

func TestLoadRecentPlayerNamesCorrupt(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, mr.Set("recentPlayers", `["Alice", 42]`))

	names, err := store.LoadRecentPlayerNames(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)
	assert.False(t, mr.Exists("recentPlayers"))
}

func TestClearOperationsAreIdempotent(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveGame(ctx, testGame("g1")))
	require.NoError(t, store.AddGameToHistory(ctx, completedGame("g2")))
	require.NoError(t, store.SavePlayerNames(ctx, []string{"Alice", "Bob"}))

	require.NoError(t, store.ClearCurrentGame(ctx))
	require.NoError(t, store.ClearCurrentGame(ctx))
	assert.False(t, mr.Exists("currentGame"))

	require.NoError(t, store.ClearAllData(ctx))
	require.NoError(t, store.ClearAllData(ctx))
	assert.False(t, mr.Exists("gameHistory"))
	assert.False(t, mr.Exists("recentPlayers"))
}

func TestSaveGameStorageError(t *testing.T) {
	store, mr := newTestStore(t)
	mr.Close()

	err := store.SaveGame(context.Background(), testGame("g1"))
	require.Error(t, err)

	var storageErr *StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "save current game", storageErr.Op)
	assert.NotNil(t, storageErr.Unwrap())
}
