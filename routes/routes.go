package routes

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"rummyscore/handlers"
	"rummyscore/middleware"
	"rummyscore/services"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

func SetupRoutes(
	router *gin.Engine,
	authHandler *handlers.AuthHandler,
	gameHandler *handlers.GameHandler,
	hub *services.Hub,
	jwtSecret string,
) {
	// API routes
	api := router.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware(jwtSecret))
		{
			// User profile
			protected.GET("/auth/profile", authHandler.GetProfile)

			// Game routes
			games := protected.Group("/games")
			{
				games.POST("", gameHandler.StartGame)
				games.GET("/current", gameHandler.GetCurrentGame)
				games.DELETE("/current", gameHandler.ClearCurrentGame)
				games.POST("/current/rounds", gameHandler.AddRound)
				games.PUT("/current/rounds/:roundId", gameHandler.EditRound)
				games.DELETE("/current/rounds/:roundId", gameHandler.DeleteRound)
				games.POST("/current/end", gameHandler.EndGame)
				games.GET("/current/leaderboard", gameHandler.GetLeaderboard)
				games.GET("/current/stats", gameHandler.GetStats)
				games.GET("/history", gameHandler.GetHistory)
				games.GET("/:id", gameHandler.GetGameByID)
			}

			// Player name suggestions and all-time records
			players := protected.Group("/players")
			{
				players.GET("/recent", gameHandler.GetRecentPlayers)
				players.GET("/records", gameHandler.GetAllTimeStats)
			}

			protected.DELETE("/data", gameHandler.ClearAllData)
		}
	}

	// WebSocket endpoint: clients connect once and receive a fresh state
	// snapshot after every game mutation.
	router.GET("/ws", func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("WebSocket upgrade failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upgrade connection"})
			return
		}

		hub.RegisterClient(conn)
	})

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
