package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration, populated from the environment.
type Config struct {
	ServerPort     int      `env:"PORT" envDefault:"8080"`
	DatabasePath   string   `env:"DATABASE_PATH" envDefault:"./capstone.db"`
	JWTSecret      string   `env:"JWT_SECRET" envDefault:"fallback-secret-key"`
	GeneratedDir   string   `env:"GENERATED_DIR" envDefault:"./generated"`
	PublicBaseURL  string   `env:"PUBLIC_BASE_URL" envDefault:"http://127.0.0.1:8080"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"http://localhost:3000" envSeparator:","`

	// Text-generation collaborator settings. An empty API key is allowed:
	// calls will fail and handlers substitute their fallback text.
	GeminiAPIKey  string `env:"GEMINI_API_KEY"`
	GeminiBaseURL string `env:"GEMINI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com"`
	GeminiModel   string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
}

// Load parses configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}
