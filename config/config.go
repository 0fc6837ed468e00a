package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port          string        `env:"PORT" envDefault:"8080"`
	DatabaseURL   string        `env:"DATABASE_URL,required,notEmpty"`
	JWTSecret     string        `env:"JWT_SECRET,required,notEmpty"`
	JWTTTL        time.Duration `env:"JWT_TTL" envDefault:"24h"`
	ResetTokenTTL time.Duration `env:"RESET_TOKEN_TTL" envDefault:"1h"`
	// ReturnResetToken echoes reset tokens in the API response; there is no mail transport.
	ReturnResetToken bool   `env:"RETURN_RESET_TOKEN" envDefault:"false"`
	GeminiAPIKey     string `env:"GEMINI_API_KEY"`
	GeminiModel      string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-pro"`
	SeedSampleData   bool   `env:"SEED_SAMPLE_DATA" envDefault:"false"`
	DefaultLanguage  string `env:"DEFAULT_LANGUAGE" envDefault:"en"`
	// PercentageTolerance bounds how far the monthly percentages may drift from 100.
	PercentageTolerance float64 `env:"PERCENTAGE_TOLERANCE" envDefault:"0.01"`
}

// Load reads .env (if present) and the process environment. Missing required
// values are fatal.
func Load() Config {
	_ = godotenv.Load()
	cfg, err := Parse()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return cfg
}

// Parse reads the configuration from the process environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.PercentageTolerance < 0 {
		return Config{}, fmt.Errorf("PERCENTAGE_TOLERANCE must not be negative")
	}
	return cfg, nil
}
