package api

import (
	"net/http"

	"github.com/dakshcoder1/Capstone-project-Final/internal/api/handlers"
	"github.com/dakshcoder1/Capstone-project-Final/internal/auth"
	"github.com/dakshcoder1/Capstone-project-Final/internal/config"
	"github.com/dakshcoder1/Capstone-project-Final/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	cfg *config.Config,
	guard *auth.Guard,
	tokens *auth.TokenManager,
	userService services.UserServiceProvider,
	historyService services.HistoryServiceProvider,
	generator handlers.TextGenerator,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, tokens)
	historyHandler := handlers.NewHistoryHandler(historyService)
	adminHandler := handlers.NewAdminHandler(userService, historyService)
	toolHandler := handlers.NewToolHandler(historyService, generator, cfg.GeneratedDir, cfg.PublicBaseURL)

	// Health check
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"backend running"}`))
	})

	// Stored and placeholder images
	fileServer := http.FileServer(http.Dir(cfg.GeneratedDir))
	r.Handle("/generated/*", http.StripPrefix("/generated/", fileServer))

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)

		// Protected routes: the guard runs before anything else
		r.Group(func(r chi.Router) {
			r.Use(guard.RequireUser)

			r.Get("/history", historyHandler.GetOwn)

			r.Post("/prompt-to-image", toolHandler.PromptToImage)
			r.Post("/image-to-style", toolHandler.ImageToStyle)
			r.Post("/specs-tryon", toolHandler.SpecsTryon)
			r.Post("/haircut-preview", toolHandler.HaircutPreview)
			r.Post("/insta-story-template", toolHandler.InstaStoryTemplate)
			r.Post("/enhance-prompt", toolHandler.EnhancePrompt)
			r.Post("/insta-post-generator", toolHandler.InstaPostGenerator)
			r.Post("/safety-gear", toolHandler.SafetyGear)
			r.Post("/story-image-generater", toolHandler.StoryImageGenerater)
			r.Post("/posture-analyze", toolHandler.PostureAnalyze)
		})

		// Admin routes
		r.Route("/admin", func(r chi.Router) {
			r.Use(guard.RequireUser)
			r.Use(guard.RequireAdmin)

			r.Get("/users", adminHandler.ListUsers)
			r.Delete("/users/{id}", adminHandler.DeleteUser)
			r.Get("/stats", adminHandler.GetStats)
			r.Get("/history", adminHandler.ListHistory)
		})
	})

	return r
}
