package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config is everything the server reads from the environment.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string
	// DatabaseURL enables match-history persistence when set.
	DatabaseURL string
	// BoardPath overrides the embedded default board.
	BoardPath string
	// Debug switches the logger to development output.
	Debug bool
}

// Load reads .env (if present) and the process environment.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Addr:        os.Getenv("ADDR"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		BoardPath:   os.Getenv("BOARD_PATH"),
		Debug:       os.Getenv("DEBUG") == "true",
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	return cfg
}
