package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"rummyscore/engine"
	"rummyscore/models"
	"rummyscore/services"
	"rummyscore/storage"
	"rummyscore/validation"
)

type GameHandler struct {
	scoreService *services.ScoreService
}

func NewGameHandler(scoreService *services.ScoreService) *GameHandler {
	return &GameHandler{scoreService: scoreService}
}

type StartGameRequest struct {
	Names       []string `json:"names" binding:"required"`
	TargetScore *int     `json:"target_score"`
}

type ScoreEntry struct {
	PlayerID string `json:"player_id" binding:"required"`
	Score    int    `json:"score"`
	IsRummy  bool   `json:"is_rummy"`
}

type RoundRequest struct {
	Scores []ScoreEntry `json:"scores" binding:"required"`
}

func (h *GameHandler) StartGame(c *gin.Context) {
	var req StartGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	game, err := h.scoreService.StartGame(c.Request.Context(), req.Names, req.TargetScore)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, game)
}

func (h *GameHandler) GetCurrentGame(c *gin.Context) {
	game, err := h.scoreService.CurrentGame(c.Request.Context())
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, game)
}

func (h *GameHandler) AddRound(c *gin.Context) {
	var req RoundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	game, err := h.scoreService.AddRoundToGame(c.Request.Context(), toPlayerScores(req.Scores))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, game)
}

func (h *GameHandler) EditRound(c *gin.Context) {
	roundID := c.Param("roundId")

	var req RoundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	game, err := h.scoreService.EditRoundInGame(c.Request.Context(), roundID, toPlayerScores(req.Scores))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, game)
}

func (h *GameHandler) DeleteRound(c *gin.Context) {
	roundID := c.Param("roundId")

	game, err := h.scoreService.DeleteRoundFromGame(c.Request.Context(), roundID)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, game)
}

func (h *GameHandler) EndGame(c *gin.Context) {
	game, err := h.scoreService.CompleteGame(c.Request.Context())
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, game)
}

func (h *GameHandler) GetLeaderboard(c *gin.Context) {
	leaderboard, err := h.scoreService.Leaderboard(c.Request.Context())
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, leaderboard)
}

func (h *GameHandler) GetStats(c *gin.Context) {
	stats, err := h.scoreService.Stats(c.Request.Context())
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *GameHandler) GetHistory(c *gin.Context) {
	history, err := h.scoreService.History(c.Request.Context())
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, history)
}

func (h *GameHandler) GetGameByID(c *gin.Context) {
	game, err := h.scoreService.GameByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, game)
}

func (h *GameHandler) GetRecentPlayers(c *gin.Context) {
	names, err := h.scoreService.RecentPlayers(c.Request.Context())
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, names)
}

func (h *GameHandler) GetAllTimeStats(c *gin.Context) {
	records, err := h.scoreService.AllTimeStats()
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, records)
}

func (h *GameHandler) ClearCurrentGame(c *gin.Context) {
	if err := h.scoreService.ClearCurrentGame(c.Request.Context()); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Current game cleared"})
}

func (h *GameHandler) ClearAllData(c *gin.Context) {
	if err := h.scoreService.ClearAllData(c.Request.Context()); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All data cleared"})
}

// toPlayerScores builds score entries through the engine constructor so the
// rummy-scores-zero rule holds no matter what the client sent.
func toPlayerScores(entries []ScoreEntry) []models.PlayerScore {
	scores := make([]models.PlayerScore, len(entries))
	for i, e := range entries {
		scores[i] = engine.CreatePlayerScore(e.PlayerID, e.Score, e.IsRummy)
	}
	return scores
}

func statusFor(err error) int {
	var validationErr *validation.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNoActiveGame), errors.Is(err, storage.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrGameCompleted):
		return http.StatusConflict
	case errors.Is(err, services.ErrArchiveDisabled):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
