package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"

	"rummyscore/config"
	"rummyscore/handlers"
	"rummyscore/middleware"
	"rummyscore/models"
	"rummyscore/routes"
	"rummyscore/services"
	"rummyscore/storage"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database models
	err = db.AutoMigrate(
		&models.User{},
		&models.ArchivedGame{},
		&models.ArchivedResult{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize Redis
	redisClient := config.InitRedis(cfg)

	// Initialize the store and archive
	store := storage.NewGameStore(redisClient)
	archive := storage.NewArchiveRepo(db)

	// Initialize WebSocket hub
	hub := services.NewHub()
	go hub.Run()

	// Initialize services
	authService := services.NewAuthService(db, cfg.JWTSecret)
	scoreService := services.NewScoreService(store, archive, hub)

	// Pick up the game the device was in the middle of, if any
	if err := scoreService.Resume(context.Background()); err != nil {
		log.Printf("Failed to resume current game: %v", err)
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	gameHandler := handlers.NewGameHandler(scoreService)

	// Setup Gin router
	router := gin.Default()

	// Add CORS middleware
	router.Use(middleware.CORS())

	// Setup routes
	routes.SetupRoutes(router, authHandler, gameHandler, hub, cfg.JWTSecret)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
