// Package ws bridges WebSocket connections into the relay hub.
package ws

import (
	"context"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pairgrid/pairgrid/internal/relay"
)

// Handler accepts a WebSocket connection, registers it with the hub and
// pumps frames both ways until either side goes away.
func Handler(h *relay.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			log.Warn("websocket accept failed", zap.Error(err))
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		connID := uuid.New()
		out := make(chan []byte, 16)
		h.Inbox() <- relay.Join{ID: connID, Outbox: out}
		defer func() { h.Inbox() <- relay.Leave{ID: connID} }()

		// writer
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for data := range out {
				if err := conn.Write(writeCtx, websocket.MessageText, data); err != nil {
					return
				}
			}
		}()

		// reader
		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				default:
					log.Debug("read ended", zap.String("conn", connID.String()), zap.Error(err))
				}
				return
			}
			h.Inbox() <- relay.Frame{From: connID, Data: data}
		}
	}
}
