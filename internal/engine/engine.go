// Package engine holds the status state machine. A single transition
// function serves both local user actions and inbound peer messages, so the
// two paths cannot drift apart. Transitions never mutate the input state:
// they return the next state plus the messages the local client must
// broadcast (inbound inputs never produce outbound messages; re-broadcast
// is the relay's job).
package engine

import (
	"errors"
	"math/rand/v2"

	"github.com/pairgrid/pairgrid/internal/game"
	"github.com/pairgrid/pairgrid/pkg/protocol"
)

var ErrWrongStatus = errors.New("action not allowed in current status")
var ErrWrongTurn = errors.New("not this player's turn")
var ErrCardNotDown = errors.New("card is not face down")
var ErrSameCard = errors.New("second click on the same card")
var ErrCardOutOfRange = errors.New("card index out of range")
var ErrUnsupportedInput = errors.New("unsupported input")

type InputKind string

const (
	InPickSet   InputKind = "PickSet"
	InAccept    InputKind = "AcceptInvite"
	InStartGame InputKind = "StartGame"
	InClickCard InputKind = "ClickCard"
	InTakeTurn  InputKind = "TakeTurn"
	InPlayAgain InputKind = "PlayAgain"
	InInbound   InputKind = "Inbound"
)

// Input is the union of everything that can drive a transition: a local
// user action or a message received from a peer.
type Input struct {
	Kind      InputKind
	SetName   string
	Config    game.Config
	CardIndex int
	Msg       *protocol.Message
}

func PickSet(name string, cfg game.Config) Input {
	return Input{Kind: InPickSet, SetName: name, Config: cfg}
}
func Accept() Input             { return Input{Kind: InAccept} }
func StartGame() Input          { return Input{Kind: InStartGame} }
func ClickCard(index int) Input { return Input{Kind: InClickCard, CardIndex: index} }
func TakeTurn() Input           { return Input{Kind: InTakeTurn} }
func PlayAgain() Input          { return Input{Kind: InPlayAgain} }
func Inbound(m protocol.Message) Input {
	return Input{Kind: InInbound, Msg: &m}
}

// deal is stubbed in tests for deterministic decks.
var deal = func(playerCount int, cfg game.Config) ([]game.Card, error) {
	return game.Deal(playerCount, cfg, rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
}

// Apply executes one transition. On error the returned state is the input
// state unchanged; every error here is a recoverable reject-and-no-op, not
// a session-fatal condition, since peers may race harmlessly.
func Apply(d game.Data, in Input) ([]protocol.Message, game.Data, error) {
	switch in.Kind {
	case InPickSet:
		return applyPickSet(d, in.SetName, in.Config)
	case InAccept:
		return applyAccept(d)
	case InStartGame:
		return applyStartGame(d)
	case InClickCard:
		return applyClick(d, in.CardIndex, true)
	case InTakeTurn:
		return applyTakeTurn(d, true)
	case InPlayAgain:
		return applyPlayAgain(d)
	case InInbound:
		return applyInbound(d, *in.Msg)
	default:
		return nil, d, ErrUnsupportedInput
	}
}

// applyPickSet: the inviting player chose a content set. Seat one becomes
// ours and the invite goes out to whoever is listening on the relay.
func applyPickSet(d game.Data, setName string, cfg game.Config) ([]protocol.Message, game.Data, error) {
	if d.Status != game.StatusInviteAskBegin {
		return nil, d, ErrWrongStatus
	}
	next := d.Clone()
	next.MyPlayerNumber = 1
	next.Players = []game.Player{{ClientID: d.ClientID}}
	next.Status = game.StatusInviteAsking
	next.RequestedSet = setName
	next.Config = cfg

	out := []protocol.Message{{
		Kind:     protocol.KindInvite,
		ClientID: d.ClientID,
		SetName:  setName,
	}}
	return out, next, nil
}

func applyAccept(d game.Data) ([]protocol.Message, game.Data, error) {
	if d.Status != game.StatusInviteAsked {
		return nil, d, ErrWrongStatus
	}
	next := d.Clone()
	next.Status = game.StatusPlayAccepted

	out := []protocol.Message{{
		Kind:     protocol.KindPlayAccept,
		ClientID: d.ClientID,
		Players:  next.Players,
	}}
	return out, next, nil
}

// applyStartGame: the inviting player deals a fresh deck and publishes the
// complete initial state. The players list ordering is frozen here and
// defines turn rotation for the rest of the game.
func applyStartGame(d game.Data) ([]protocol.Message, game.Data, error) {
	if d.Status != game.StatusInviteAsking {
		return nil, d, ErrWrongStatus
	}
	cards, err := deal(len(d.Players), d.Config)
	if err != nil {
		return nil, d, err
	}
	next := d.Clone()
	next.Cards = cards
	next.ContentSet = next.RequestedSet
	next.Turn = 1
	next.FirstClick = 0
	next.SecondClick = 0
	next.Status = game.StatusPlayBefore1stCard

	cfg := next.Config
	out := []protocol.Message{{
		Kind:     protocol.KindGameDataInit,
		ClientID: d.ClientID,
		Cards:    next.Cards,
		Config:   &cfg,
		Players:  next.Players,
		Status:   next.Status,
	}}
	return out, next, nil
}

func applyTakeTurn(d game.Data, local bool) ([]protocol.Message, game.Data, error) {
	if d.Status != game.StatusTakeTurnBegin {
		return nil, d, ErrWrongStatus
	}
	if local && d.MyPlayerNumber != game.NextTurn(d.Turn, len(d.Players)) {
		return nil, d, ErrWrongTurn
	}
	next := takeTurnEnd(d.Clone())
	if !local {
		return nil, next, nil
	}
	next.NextSeq++
	out := []protocol.Message{{
		Kind:        protocol.KindTakeTurnEnd,
		ClientID:    d.ClientID,
		Seq:         next.NextSeq,
		Players:     next.Players,
		Cards:       next.Cards,
		Status:      next.Status,
		FirstClick:  next.FirstClick,
		SecondClick: next.SecondClick,
	}}
	return out, next, nil
}

// takeTurnEnd flips the two temporarily revealed cards back down, clears
// the click indices and rotates the turn to the next player.
func takeTurnEnd(next game.Data) game.Data {
	next.Turn = game.NextTurn(next.Turn, len(next.Players))
	if next.FirstClick > 0 && next.FirstClick < len(next.Cards) {
		next.Cards[next.FirstClick].Face = game.FaceDown
	}
	if next.SecondClick > 0 && next.SecondClick < len(next.Cards) {
		next.Cards[next.SecondClick].Face = game.FaceDown
	}
	next.FirstClick = 0
	next.SecondClick = 0
	next.Status = game.StatusPlayBefore1stCard
	return next
}

func applyPlayAgain(d game.Data) ([]protocol.Message, game.Data, error) {
	if d.Status != game.StatusGameOverPlayAgainBegin {
		return nil, d, ErrWrongStatus
	}
	next := d.Clone()
	next.Reset()
	return nil, next, nil
}
