package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pairgrid/pairgrid/internal/config"
)

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// ListSets reports the available content-set names so a client can offer
// the invite choices.
func ListSets(store *config.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(struct {
			Sets []string `json:"sets"`
		}{Sets: store.Names()})
	}
}

// GameConfig serves one content set's configuration document.
func GameConfig(store *config.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "set")
		cfg, ok := store.Get(name)
		if !ok {
			http.Error(w, "unknown content set", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(cfg)
	}
}
