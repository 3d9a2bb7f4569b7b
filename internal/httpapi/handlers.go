package httpapi

import (
	"encoding/json"
	"net/http"

	"pokeduel/internal/registry"
	"pokeduel/internal/storage"
)

// CreateRoom pre-creates an empty room and returns its code, for clients
// that want a shareable code before opening the websocket.
func CreateRoom(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reply := make(chan registry.JoinReply, 1)
		reg.Inbox() <- registry.CreateEmpty{Reply: reply}
		res := <-reply
		if res.Err != nil {
			http.Error(w, "failed to create room", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(struct {
			Code string `json:"code"`
		}{Code: res.Code})
	}
}

// Stats reports aggregate match counts. Without a database it returns zeros.
func Stats(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := store.FetchStats(r.Context())
		if err != nil {
			http.Error(w, "failed to fetch stats", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(stats)
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
