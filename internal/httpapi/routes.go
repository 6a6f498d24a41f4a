package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/pairgrid/pairgrid/internal/config"
	"github.com/pairgrid/pairgrid/internal/relay"
	"github.com/pairgrid/pairgrid/internal/ws"
)

func SetupRoutes(h *relay.Hub, store *config.Store, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(h, log))
	r.Get("/content", ListSets(store))
	r.Get("/content/{set}/game_config.json", GameConfig(store))
	return r
}
