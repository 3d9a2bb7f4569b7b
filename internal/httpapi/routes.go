package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"pokeduel/internal/registry"
	"pokeduel/internal/storage"
	"pokeduel/internal/ws"
)

func SetupRoutes(reg *registry.Registry, store *storage.Store, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Public routes
	r.Post("/rooms", CreateRoom(reg))
	r.Get("/stats", Stats(store))
	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(reg, logger))
	return r
}
