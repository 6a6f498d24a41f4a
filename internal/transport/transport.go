// Package transport is the client side of the relay connection: a
// persistent, ordered duplex message channel plus the uid bootstrap
// handshake performed on dial.
package transport

import (
	"context"
	"errors"

	"github.com/pairgrid/pairgrid/pkg/protocol"
)

var ErrUidMismatch = errors.New("relay assigned a ws uid that is not ours")
var ErrBadHandshake = errors.New("unexpected handshake reply")

// Transport is one live connection to the relay. Recv returns raw frames;
// decoding and dispatch belong to the session layer.
type Transport interface {
	Send(ctx context.Context, m protocol.Message) error
	Recv(ctx context.Context) ([]byte, error)
	Close() error
}

// Dialer establishes a fresh Transport. The session calls it on startup and
// again on every user-triggered reconnect.
type Dialer func(ctx context.Context) (Transport, error)
