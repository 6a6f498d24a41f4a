// Package protocol defines the tagged-union messages exchanged between
// peers through the broadcast relay. The relay echoes every message to all
// connected clients including the sender, so every peer-originated message
// carries the sender's client_id for echo suppression.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pairgrid/pairgrid/internal/game"
)

type Kind string

const (
	// connection bootstrap, client <-> relay only
	KindRequestWsUid  Kind = "RequestWsUid"
	KindResponseWsUid Kind = "ResponseWsUid"

	// peer to peer, relayed verbatim
	KindInvite                 Kind = "Invite"
	KindPlayAccept             Kind = "PlayAccept"
	KindGameDataInit           Kind = "GameDataInit"
	KindPlayerClick1stCard     Kind = "PlayerClick1stCard"
	KindPlayerClick2ndCard     Kind = "PlayerClick2ndCard"
	KindTakeTurnBegin          Kind = "TakeTurnBegin"
	KindTakeTurnEnd            Kind = "TakeTurnEnd"
	KindGameOverPlayAgainBegin Kind = "GameOverPlayAgainBegin"
)

var ErrUnknownKind = errors.New("unknown message kind")
var ErrMalformed = errors.New("malformed message")

// Message is the single wire envelope. Click and turn messages carry the
// complete resulting sub-state (players, cards, status, click indices)
// rather than deltas, so late or duplicate delivery of list-replacement
// fields is idempotent to re-apply. Seq is the sender's monotonic counter
// on score-affecting messages, used by receivers to drop replays.
type Message struct {
	Kind        Kind          `json:"kind"`
	ClientID    int64         `json:"client_id,omitempty"`
	Seq         int64         `json:"seq,omitempty"`
	YourWsUid   int64         `json:"your_ws_uid,omitempty"`
	SetName     string        `json:"set_name,omitempty"`
	Players     []game.Player `json:"players,omitempty"`
	Cards       []game.Card   `json:"cards,omitempty"`
	Config      *game.Config  `json:"game_config,omitempty"`
	Status      game.Status   `json:"status,omitempty"`
	CardIndex   int           `json:"card_index,omitempty"`
	FirstClick  int           `json:"first_click,omitempty"`
	SecondClick int           `json:"second_click,omitempty"`
}

var validKinds = map[Kind]bool{
	KindRequestWsUid:           true,
	KindResponseWsUid:          true,
	KindInvite:                 true,
	KindPlayAccept:             true,
	KindGameDataInit:           true,
	KindPlayerClick1stCard:     true,
	KindPlayerClick2ndCard:     true,
	KindTakeTurnBegin:          true,
	KindTakeTurnEnd:            true,
	KindGameOverPlayAgainBegin: true,
}

func Encode(m Message) ([]byte, error) {
	return json.Marshal(m)
}

// Decode parses a wire frame. A frame that is not valid JSON or does not
// declare a known kind is rejected; a malformed message from one peer must
// never crash the others.
func Decode(data []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return Message{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if !validKinds[m.Kind] {
		return Message{}, fmt.Errorf("%w: %q", ErrUnknownKind, m.Kind)
	}
	return m, nil
}

// Sniff reads only the kind discriminator. The relay uses it to intercept
// the bootstrap handshake without parsing peer payloads it relays verbatim.
func Sniff(data []byte) (Kind, error) {
	var probe struct {
		Kind Kind `json:"kind"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if !validKinds[probe.Kind] {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, probe.Kind)
	}
	return probe.Kind, nil
}
