// Package relay implements the dumb broadcast relay: every peer frame is
// echoed verbatim to all connected clients, including the sender. The only
// frames the relay interprets are the RequestWsUid bootstrap (answered to
// the sender alone) — consistency of the game is entirely the clients'
// business.
package relay

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pairgrid/pairgrid/pkg/protocol"
)

type Msg interface{ isRelayMsg() }

type Join struct {
	ID     uuid.UUID
	Outbox chan []byte
}

type Leave struct{ ID uuid.UUID }

type Frame struct {
	From uuid.UUID
	Data []byte
}

type Shutdown struct{}

// GetStats reflects internal state without data races, for tests.
type GetStats struct {
	Reply chan Stats
}

type Stats struct {
	NumClients int
	NumFrames  int
}

func (Join) isRelayMsg()     {}
func (Leave) isRelayMsg()    {}
func (Frame) isRelayMsg()    {}
func (Shutdown) isRelayMsg() {}
func (GetStats) isRelayMsg() {}

type Hub struct {
	inbox   chan Msg
	clients map[uuid.UUID]chan []byte
	frames  int
	log     *zap.Logger
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewHub(parent context.Context, log *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:   make(chan Msg, 64),
		clients: make(map[uuid.UUID]chan []byte),
		log:     log,
		ctx:     ctx,
		cancel:  cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- Msg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case Join:
				h.clients[msg.ID] = msg.Outbox
				h.log.Info("client joined", zap.String("conn", msg.ID.String()),
					zap.Int("clients", len(h.clients)))

			case Leave:
				if ch, ok := h.clients[msg.ID]; ok {
					close(ch)
					delete(h.clients, msg.ID)
				}
				h.log.Info("client left", zap.String("conn", msg.ID.String()),
					zap.Int("clients", len(h.clients)))

			case Frame:
				h.handleFrame(msg)

			case GetStats:
				msg.Reply <- Stats{NumClients: len(h.clients), NumFrames: h.frames}

			case Shutdown:
				h.shutdown()
				return
			}
		}
	}
}

func (h *Hub) handleFrame(f Frame) {
	kind, err := protocol.Sniff(f.Data)
	if err != nil {
		// never relay garbage; one bad peer must not poison the rest
		h.log.Warn("dropping unparseable frame", zap.String("conn", f.From.String()), zap.Error(err))
		return
	}
	h.frames++

	if kind == protocol.KindRequestWsUid {
		h.answerUidRequest(f)
		return
	}
	h.broadcast(f.Data)
}

// answerUidRequest echoes the client's self-chosen id back to it alone. The
// id is client-generated; the relay just confirms what it heard so the
// client can detect a mangled handshake.
func (h *Hub) answerUidRequest(f Frame) {
	req, err := protocol.Decode(f.Data)
	if err != nil {
		h.log.Warn("bad uid request", zap.String("conn", f.From.String()), zap.Error(err))
		return
	}
	reply, err := protocol.Encode(protocol.Message{
		Kind:      protocol.KindResponseWsUid,
		YourWsUid: req.ClientID,
	})
	if err != nil {
		h.log.Error("encode uid response", zap.Error(err))
		return
	}
	h.send(f.From, reply)
}

func (h *Hub) send(id uuid.UUID, data []byte) {
	ch, ok := h.clients[id]
	if !ok {
		return
	}
	select {
	case ch <- data:
	default:
		// slow client, drop it
		close(ch)
		delete(h.clients, id)
		h.log.Warn("dropped slow client", zap.String("conn", id.String()))
	}
}

// broadcast fans a frame out to every connection, sender included; clients
// do their own echo suppression.
func (h *Hub) broadcast(data []byte) {
	for id, ch := range h.clients {
		select {
		case ch <- data:
		default:
			close(ch)
			delete(h.clients, id)
			h.log.Warn("dropped slow client", zap.String("conn", id.String()))
		}
	}
}

func (h *Hub) shutdown() {
	for id, ch := range h.clients {
		close(ch)
		delete(h.clients, id)
	}
	h.cancel()
}
