// Package session is the synchronization layer for one client. A single
// goroutine owns the game data; local user actions and inbound relay frames
// are both delivered through the inbox and drive the same engine
// transitions, so there is exactly one mutator and no locks. Rendering is
// signalled, not pushed: mutations coalesce into at most one pending render
// until the consumer drains the signal.
package session

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/pairgrid/pairgrid/internal/engine"
	"github.com/pairgrid/pairgrid/internal/game"
	"github.com/pairgrid/pairgrid/internal/transport"
	"github.com/pairgrid/pairgrid/internal/view"
	"github.com/pairgrid/pairgrid/pkg/protocol"
)

type Msg interface{ isSessionMsg() }

// Local is a user action.
type Local struct {
	Input engine.Input
}

func (Local) isSessionMsg() {}

// Frame is a raw inbound relay frame.
type Frame struct {
	Data []byte
}

func (Frame) isSessionMsg() {}

// TransportLost signals a reader goroutine saw its connection die. Tr
// identifies which transport died so a stale reader for an abandoned
// transport cannot disturb a session that already reconnected.
type TransportLost struct {
	Tr transport.Transport
}

func (TransportLost) isSessionMsg() {}

// Reconnect is the user-triggered recovery action.
type Reconnect struct{}

func (Reconnect) isSessionMsg() {}

// GetView asks for the current projection, used by the render consumer and
// by tests to observe state without data races.
type GetView struct {
	Reply chan view.Descriptor
}

func (GetView) isSessionMsg() {}

type Shutdown struct{}

func (Shutdown) isSessionMsg() {}

// Session owns one client's game data and its transport.
type Session struct {
	inbox      chan Msg
	renders    chan struct{}
	data       game.Data
	prevStatus game.Status // status to resume after a reconnect
	lastSeq    map[int64]int64
	tr         transport.Transport
	dial       transport.Dialer
	log        *zap.Logger
	ctx        context.Context
	cancel     context.CancelFunc
}

// New starts the session actor. dial is invoked for the initial connection
// and again on every user-triggered reconnect; the session keeps running in
// the Reconnect status if the first dial fails.
func New(parent context.Context, clientID int64, dial transport.Dialer, log *zap.Logger) *Session {
	ctx, cancel := context.WithCancel(parent)
	s := &Session{
		inbox:   make(chan Msg, 64),
		renders: make(chan struct{}, 1),
		data:    game.New(clientID),
		lastSeq: make(map[int64]int64),
		dial:    dial,
		log:     log,
		ctx:     ctx,
		cancel:  cancel,
	}
	s.connect()
	go s.loop()
	return s
}

func (s *Session) Inbox() chan<- Msg { return s.inbox }

// Renders signals at most once per pending batch of mutations; read it and
// then ask for the view.
func (s *Session) Renders() <-chan struct{} { return s.renders }

func (s *Session) loop() {
	for {
		select {
		case <-s.ctx.Done():
			s.shutdown()
			return

		case m := <-s.inbox:
			switch msg := m.(type) {
			case Local:
				s.applyLocal(msg.Input)

			case Frame:
				s.applyFrame(msg.Data)

			case TransportLost:
				s.transportLost(msg.Tr)

			case Reconnect:
				s.reconnect()

			case GetView:
				msg.Reply <- view.Project(s.data)

			case Shutdown:
				s.shutdown()
				return
			}
		}
	}
}

func (s *Session) applyLocal(in engine.Input) {
	out, next, err := engine.Apply(s.data, in)
	if err != nil {
		// recoverable reject-and-no-op; peers may race harmlessly
		s.log.Debug("local input rejected",
			zap.String("input", string(in.Kind)),
			zap.String("status", string(s.data.Status)),
			zap.Error(err))
		return
	}
	s.data = next
	s.broadcast(out)
	s.scheduleRender()
}

// applyFrame is the message-receive dispatcher: deserialize, suppress our
// own echoes, drop replays of sequence-stamped messages, check status
// compatibility, then run the shared transition.
func (s *Session) applyFrame(data []byte) {
	m, err := protocol.Decode(data)
	if err != nil {
		// a malformed message from one peer must not crash all peers
		s.log.Warn("dropping malformed frame", zap.Error(err))
		return
	}
	if m.ClientID == s.data.ClientID {
		return // echo of our own broadcast, already applied locally
	}
	if m.Seq > 0 {
		if m.Seq <= s.lastSeq[m.ClientID] {
			s.log.Debug("dropping replayed message",
				zap.String("kind", string(m.Kind)),
				zap.Int64("client_id", m.ClientID),
				zap.Int64("seq", m.Seq))
			return
		}
		s.lastSeq[m.ClientID] = m.Seq
	}
	if m.Status != "" && m.Status != s.data.Status {
		s.log.Warn("message status does not match local status, applying best-effort",
			zap.String("kind", string(m.Kind)),
			zap.String("msg_status", string(m.Status)),
			zap.String("local_status", string(s.data.Status)))
	}

	_, next, err := engine.Apply(s.data, engine.Inbound(m))
	if err != nil {
		s.log.Warn("inbound message rejected",
			zap.String("kind", string(m.Kind)),
			zap.Error(err))
		return
	}
	s.data = next
	s.scheduleRender()
}

func (s *Session) broadcast(out []protocol.Message) {
	if s.tr == nil {
		return
	}
	for _, m := range out {
		if err := s.tr.Send(s.ctx, m); err != nil {
			s.log.Warn("send failed", zap.String("kind", string(m.Kind)), zap.Error(err))
		}
	}
}

// transportLost flips the orthogonal Reconnect status once a game is in
// progress; during setup the connection state is not worth an overlay.
func (s *Session) transportLost(tr transport.Transport) {
	if tr != s.tr {
		return // stale reader of an abandoned transport
	}
	s.tr = nil
	if s.data.Status == game.StatusReconnect || !s.data.Status.Started() {
		s.scheduleRender()
		return
	}
	s.prevStatus = s.data.Status
	s.data.Status = game.StatusReconnect
	s.scheduleRender()
}

// reconnect dials a fresh transport and resumes the pre-loss status. The
// old transport is abandoned, not cancelled; its pending callbacks become
// inert.
func (s *Session) reconnect() {
	tr, err := s.dial(s.ctx)
	if err != nil {
		if errors.Is(err, transport.ErrUidMismatch) {
			s.data.ErrorText = "assigned ws uid does not match this client"
		}
		s.log.Warn("reconnect failed", zap.Error(err))
		s.scheduleRender()
		return
	}
	s.tr = tr
	go s.readTransport(tr)
	if s.data.Status == game.StatusReconnect && s.prevStatus != "" {
		s.data.Status = s.prevStatus
		s.prevStatus = ""
	}
	s.scheduleRender()
}

// connect performs the initial dial; a failure leaves the session usable
// and waiting for an explicit Reconnect.
func (s *Session) connect() {
	tr, err := s.dial(s.ctx)
	if err != nil {
		if errors.Is(err, transport.ErrUidMismatch) {
			s.data.ErrorText = "assigned ws uid does not match this client"
		}
		s.log.Warn("initial dial failed", zap.Error(err))
		return
	}
	s.tr = tr
	go s.readTransport(tr)
}

// readTransport pumps one transport into the inbox.
func (s *Session) readTransport(tr transport.Transport) {
	for {
		data, err := tr.Recv(s.ctx)
		if err != nil {
			select {
			case s.inbox <- TransportLost{Tr: tr}:
			case <-s.ctx.Done():
			}
			return
		}
		select {
		case s.inbox <- Frame{Data: data}:
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Session) scheduleRender() {
	select {
	case s.renders <- struct{}{}:
	default:
		// a render is already pending; mutations coalesce
	}
}

func (s *Session) shutdown() {
	if s.tr != nil {
		_ = s.tr.Close()
		s.tr = nil
	}
	s.cancel()
}
