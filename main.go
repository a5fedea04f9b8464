package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dakshcoder1/Capstone-project-Final/internal/api"
	"github.com/dakshcoder1/Capstone-project-Final/internal/auth"
	"github.com/dakshcoder1/Capstone-project-Final/internal/config"
	"github.com/dakshcoder1/Capstone-project-Final/internal/database"
	"github.com/dakshcoder1/Capstone-project-Final/internal/genai"
	"github.com/dakshcoder1/Capstone-project-Final/internal/logger"
	"github.com/dakshcoder1/Capstone-project-Final/internal/services"
)

func main() {
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Ensure the directory for uploaded and generated images exists
	if err := os.MkdirAll(cfg.GeneratedDir, 0755); err != nil {
		log.Fatalf("Failed to create generated directory: %v", err)
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to apply database migrations: %v", err)
	}

	// Set up services
	userService := services.NewUserService(db)
	historyService := services.NewHistoryService(db)

	// Token issuing and the auth guard share one explicit configuration;
	// rotating JWT_SECRET invalidates every outstanding session.
	tokens := auth.NewTokenManager(cfg.JWTSecret)
	guard := auth.NewGuard(tokens, userService)

	// Text-generation collaborator
	generator := genai.NewClient(genai.Config{
		BaseURL: cfg.GeminiBaseURL,
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
	})

	// Set up router
	router := api.NewRouter(cfg, guard, tokens, userService, historyService, generator)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on port %d\n", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
