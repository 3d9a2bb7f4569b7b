package main

import (
	"context"
	"log"
	"net/http"

	"go.uber.org/zap"

	"pokeduel/internal/config"
	"pokeduel/internal/game"
	"pokeduel/internal/httpapi"
	"pokeduel/internal/logging"
	"pokeduel/internal/registry"
	"pokeduel/internal/storage"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.Debug)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	board, err := loadBoard(cfg)
	if err != nil {
		logger.Fatal("failed to load board", zap.Error(err))
	}

	var store *storage.Store
	if cfg.DatabaseURL != "" {
		db, err := storage.New(cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("failed to open database", zap.Error(err))
		}
		store = storage.NewStore(db)
	} else {
		logger.Info("no DATABASE_URL set, match history disabled")
	}

	ctx := context.Background()
	reg := registry.NewRegistry(ctx, board, store, logger)

	handler := httpapi.SetupRoutes(reg, store, logger)

	logger.Info("listening", zap.String("addr", cfg.Addr))
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func loadBoard(cfg config.Config) (*game.Board, error) {
	if cfg.BoardPath != "" {
		return game.BoardFromFile(cfg.BoardPath)
	}
	return game.DefaultBoard()
}
