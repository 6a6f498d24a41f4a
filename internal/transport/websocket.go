package transport

import (
	"context"
	"fmt"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/pairgrid/pairgrid/pkg/protocol"
)

const handshakeTimeout = 5 * time.Second

type wsTransport struct {
	conn *websocket.Conn
	log  *zap.Logger
}

// Dial connects to the relay's /ws endpoint and performs the
// RequestWsUid/ResponseWsUid bootstrap. The relay answering with an id we
// did not ask for is a deliberate fail-stop: the caller surfaces it in the
// error view instead of playing with a wrong identity.
func Dial(ctx context.Context, url string, clientID int64, log *zap.Logger) (Transport, error) {
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial relay: %w", err)
	}
	t := &wsTransport{conn: conn, log: log}

	hctx, cancel := context.WithTimeout(ctx, handshakeTimeout)
	defer cancel()
	if err := t.Send(hctx, protocol.Message{
		Kind:     protocol.KindRequestWsUid,
		ClientID: clientID,
	}); err != nil {
		_ = t.Close()
		return nil, fmt.Errorf("send uid request: %w", err)
	}
	data, err := t.Recv(hctx)
	if err != nil {
		_ = t.Close()
		return nil, fmt.Errorf("read uid response: %w", err)
	}
	reply, err := protocol.Decode(data)
	if err != nil {
		_ = t.Close()
		return nil, fmt.Errorf("%w: %v", ErrBadHandshake, err)
	}
	if reply.Kind != protocol.KindResponseWsUid {
		_ = t.Close()
		return nil, fmt.Errorf("%w: kind %q", ErrBadHandshake, reply.Kind)
	}
	if reply.YourWsUid != clientID {
		_ = t.Close()
		return nil, fmt.Errorf("%w: got %d, want %d", ErrUidMismatch, reply.YourWsUid, clientID)
	}
	log.Debug("relay handshake complete", zap.Int64("client_id", clientID))
	return t, nil
}

// NewDialer binds Dial to a relay URL and client identity.
func NewDialer(url string, clientID int64, log *zap.Logger) Dialer {
	return func(ctx context.Context) (Transport, error) {
		return Dial(ctx, url, clientID, log)
	}
}

func (t *wsTransport) Send(ctx context.Context, m protocol.Message) error {
	payload, err := protocol.Encode(m)
	if err != nil {
		return fmt.Errorf("encode %s: %w", m.Kind, err)
	}
	return t.conn.Write(ctx, websocket.MessageText, payload)
}

func (t *wsTransport) Recv(ctx context.Context) ([]byte, error) {
	_, data, err := t.conn.Read(ctx)
	return data, err
}

func (t *wsTransport) Close() error {
	return t.conn.Close(websocket.StatusNormalClosure, "bye")
}
