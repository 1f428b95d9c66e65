package services

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rummyscore/engine"
	"rummyscore/models"
	"rummyscore/storage"
)

// newTestService runs the coordinator against a real store on miniredis.
// Hub and archive are nil: both are optional collaborators the service
// checks for, same as the game service checks its hub upstream.
func newTestService(t *testing.T) (*ScoreService, *storage.GameStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := storage.NewGameStore(client)
	return NewScoreService(store, nil, nil), store
}

func roundScores(game models.Game, values ...int) []models.PlayerScore {
	scores := make([]models.PlayerScore, len(values))
	for i, v := range values {
		scores[i] = engine.CreatePlayerScore(game.Players[i].ID, v, false)
	}
	return scores
}

func intPtr(n int) *int { return &n }

func TestStartGamePersistsAndRemembersNames(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	game, err := svc.StartGame(ctx, []string{"Alice", "Bob"}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.GameStatusActive, game.Status)

	persisted, err := store.LoadCurrentGame(ctx)
	require.NoError(t, err)
	require.NotNil(t, persisted)
	assert.Equal(t, game.ID, persisted.ID)

	names, err := store.LoadRecentPlayerNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Bob"}, names)
}

func TestCurrentGameWithoutOne(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CurrentGame(context.Background())
	assert.ErrorIs(t, err, ErrNoActiveGame)
}

func TestAddRoundPersistsNewAggregate(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	game, err := svc.StartGame(ctx, []string{"Alice", "Bob"}, nil)
	require.NoError(t, err)

	updated, err := svc.AddRoundToGame(ctx, roundScores(game, 10, 20))
	require.NoError(t, err)
	require.Len(t, updated.Rounds, 1)

	persisted, err := store.LoadCurrentGame(ctx)
	require.NoError(t, err)
	assert.Len(t, persisted.Rounds, 1)
}

func TestFailedRoundLeavesStateUntouched(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	game, err := svc.StartGame(ctx, []string{"Alice", "Bob"}, nil)
	require.NoError(t, err)

	// Only one of two players covered: the engine rejects it and nothing
	// may be persisted.
	_, err = svc.AddRoundToGame(ctx, roundScores(game, 10))
	require.Error(t, err)

	persisted, err := store.LoadCurrentGame(ctx)
	require.NoError(t, err)
	assert.Empty(t, persisted.Rounds)

	current, err := svc.CurrentGame(ctx)
	require.NoError(t, err)
	assert.Empty(t, current.Rounds)
}

func TestAddRoundAutoCompletesAtTarget(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	game, err := svc.StartGame(ctx, []string{"Alice", "Bob"}, intPtr(50))
	require.NoError(t, err)

	updated, err := svc.AddRoundToGame(ctx, roundScores(game, 25, 20))
	require.NoError(t, err)
	assert.Equal(t, models.GameStatusActive, updated.Status)

	// Alice crosses 50, the game completes on its own; Bob has the lower
	// total and wins.
	updated, err = svc.AddRoundToGame(ctx, roundScores(game, 30, 25))
	require.NoError(t, err)
	assert.Equal(t, models.GameStatusCompleted, updated.Status)
	assert.Equal(t, game.Players[1].ID, updated.Winner)
	require.NotNil(t, updated.CompletedAt)

	history, err := store.LoadGameHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, game.ID, history[0].ID)
}

func TestMutationsRejectedOnCompletedGame(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	game, err := svc.StartGame(ctx, []string{"Alice", "Bob"}, nil)
	require.NoError(t, err)
	_, err = svc.AddRoundToGame(ctx, roundScores(game, 10, 20))
	require.NoError(t, err)

	completed, err := svc.CompleteGame(ctx)
	require.NoError(t, err)
	require.Equal(t, models.GameStatusCompleted, completed.Status)

	_, err = svc.AddRoundToGame(ctx, roundScores(game, 1, 2))
	assert.ErrorIs(t, err, ErrGameCompleted)

	_, err = svc.CompleteGame(ctx)
	assert.ErrorIs(t, err, ErrGameCompleted)
}

func TestCompleteGameSurvivesHistoryFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := storage.NewGameStore(client)
	svc := NewScoreService(store, nil, nil)
	ctx := context.Background()

	game, err := svc.StartGame(ctx, []string{"Alice", "Bob"}, nil)
	require.NoError(t, err)
	_, err = svc.AddRoundToGame(ctx, roundScores(game, 10, 20))
	require.NoError(t, err)

	// A hash under the history key makes its read fail with a wrong-type
	// error, while the current-game write still succeeds.
	mr.HSet("gameHistory", "field", "value")

	completed, err := svc.CompleteGame(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.GameStatusCompleted, completed.Status)

	// Memory and storage agree on the completed game.
	persisted, err := store.LoadCurrentGame(ctx)
	require.NoError(t, err)
	require.NotNil(t, persisted)
	assert.Equal(t, models.GameStatusCompleted, persisted.Status)

	current, err := svc.CurrentGame(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.GameStatusCompleted, current.Status)
}

func TestCompleteGameMatchesDeterminedWinner(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	game, err := svc.StartGame(ctx, []string{"Alice", "Bob"}, nil)
	require.NoError(t, err)
	before, err := svc.AddRoundToGame(ctx, roundScores(game, 40, 15))
	require.NoError(t, err)

	winner := engine.DetermineWinner(before)
	completed, err := svc.CompleteGame(ctx)
	require.NoError(t, err)
	assert.Equal(t, winner.ID, completed.Winner)
}

func TestResumePicksUpPersistedGame(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	game, err := svc.StartGame(ctx, []string{"Alice", "Bob"}, nil)
	require.NoError(t, err)

	// A new coordinator over the same store stands in for an app restart.
	restarted := NewScoreService(store, nil, nil)
	require.NoError(t, restarted.Resume(ctx))

	current, err := restarted.CurrentGame(ctx)
	require.NoError(t, err)
	assert.Equal(t, game.ID, current.ID)
}

func TestClearCurrentGame(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.StartGame(ctx, []string{"Alice", "Bob"}, nil)
	require.NoError(t, err)

	require.NoError(t, svc.ClearCurrentGame(ctx))

	_, err = svc.CurrentGame(ctx)
	assert.ErrorIs(t, err, ErrNoActiveGame)
}

func TestLeaderboardAndStats(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	game, err := svc.StartGame(ctx, []string{"Alice", "Bob"}, nil)
	require.NoError(t, err)
	_, err = svc.AddRoundToGame(ctx, roundScores(game, 30, 10))
	require.NoError(t, err)

	leaderboard, err := svc.Leaderboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Bob", leaderboard[0].Name)
	assert.True(t, leaderboard[0].IsLeader)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalRounds)
	assert.Equal(t, 30, stats.HighestScore)
}

func TestAllTimeStatsWithoutArchive(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.AllTimeStats()
	assert.ErrorIs(t, err, ErrArchiveDisabled)
}
