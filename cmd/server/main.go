package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskassist-api/internal/config"
	"github.com/yukikurage/taskassist-api/internal/database"
	"github.com/yukikurage/taskassist-api/internal/repository"
	"github.com/yukikurage/taskassist-api/internal/server"
	"github.com/yukikurage/taskassist-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	var store repository.Store
	switch cfg.StorageDriver {
	case config.StorageMemory:
		log.Println("Using in-memory storage; data is lost on restart")
		store = repository.NewMemoryStore()
	case config.StorageSQL:
		db, err := database.Connect(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}

		// Run migrations
		if err := database.Migrate(db); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		store = repository.NewGormStore(db)
	default:
		log.Fatalf("Unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	// Initialize AI service
	var ai services.TaskGenerator
	if cfg.OpenAIAPIKey != "" {
		ai = services.NewAIService(cfg.OpenAIAPIKey)
	} else {
		log.Println("OPENAI_API_KEY not set; task generation is disabled")
	}

	r := server.NewRouter(cfg, store, ai)

	// Start server
	addr := ":" + cfg.AppPort
	log.Printf("Server starting on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
