package engine

import (
	"github.com/pairgrid/pairgrid/internal/game"
	"github.com/pairgrid/pairgrid/pkg/protocol"
)

// applyInbound replays a peer's transition on the local state. Echo
// suppression and sequence deduplication happen in the session layer before
// the message ever reaches the engine. When the local status disagrees with
// the status the message was produced in, the full state carried by the
// message is adopted instead of replaying the transition: divergence is
// repaired best-effort rather than crashing the session.
func applyInbound(d game.Data, m protocol.Message) ([]protocol.Message, game.Data, error) {
	switch m.Kind {
	case protocol.KindResponseWsUid:
		// normally consumed by the transport handshake; an unexpected id
		// arriving here is the one deliberate fail-stop
		if m.YourWsUid != d.ClientID {
			next := d.Clone()
			next.ErrorText = "assigned ws uid does not match this client"
			return nil, next, nil
		}
		return nil, d, nil

	case protocol.KindInvite:
		return nil, inboundInvite(d, m), nil

	case protocol.KindPlayAccept:
		return nil, inboundPlayAccept(d, m), nil

	case protocol.KindGameDataInit:
		return nil, inboundGameDataInit(d, m), nil

	case protocol.KindPlayerClick1stCard, protocol.KindPlayerClick2ndCard:
		// the Status field on click messages is the status the click was
		// made in; use it only for compatibility checking, never adopt it
		if d.Status != m.Status {
			return nil, adoptClick(d, m), nil
		}
		_, next, err := applyClick(d, m.CardIndex, false)
		if err != nil {
			return nil, adoptClick(d, m), nil
		}
		return nil, next, nil

	case protocol.KindTakeTurnBegin:
		// redundant for peers that already resolved the second click;
		// adopting the carried state makes re-application idempotent
		return nil, adoptState(d, m, game.StatusTakeTurnBegin), nil

	case protocol.KindTakeTurnEnd:
		if d.Status != game.StatusTakeTurnBegin {
			return nil, adoptState(d, m, game.StatusPlayBefore1stCard), nil
		}
		_, next, err := applyTakeTurn(d, false)
		return nil, next, err

	case protocol.KindGameOverPlayAgainBegin:
		next := d.Clone()
		next.Status = game.StatusGameOverPlayAgainBegin
		if len(m.Players) > 0 {
			next.Players = append([]game.Player(nil), m.Players...)
		}
		return nil, next, nil

	case protocol.KindRequestWsUid:
		// relay-bound bootstrap, nothing for a peer to do
		return nil, d, nil

	default:
		return nil, d, protocol.ErrUnknownKind
	}
}

// inboundInvite: another player asks to play. Whatever we were doing is
// abandoned; the inviter holds seat one and we take seat two until the
// authoritative list arrives with GameDataInit.
func inboundInvite(d game.Data, m protocol.Message) game.Data {
	next := d.Clone()
	next.Reset()
	next.Status = game.StatusInviteAsked
	next.Players = []game.Player{{ClientID: m.ClientID}, {ClientID: d.ClientID}}
	next.MyPlayerNumber = 2
	next.RequestedSet = m.SetName
	return next
}

// inboundPlayAccept: only the inviting player grows the list; everybody
// else gets the final roster from GameDataInit.
func inboundPlayAccept(d game.Data, m protocol.Message) game.Data {
	if d.MyPlayerNumber != 1 || d.Status != game.StatusInviteAsking {
		return d
	}
	next := d.Clone()
	next.Players = append(next.Players, game.Player{ClientID: m.ClientID})
	return next
}

func inboundGameDataInit(d game.Data, m protocol.Message) game.Data {
	next := d.Clone()
	next.ContentSet = next.RequestedSet
	next.Status = game.StatusPlayBefore1stCard
	next.Turn = 1
	next.FirstClick = 0
	next.SecondClick = 0
	next.Cards = append([]game.Card(nil), m.Cards...)
	next.Players = append([]game.Player(nil), m.Players...)
	if m.Config != nil {
		next.Config = *m.Config
	}
	if n := next.PlayerNumberOf(d.ClientID); n > 0 {
		next.MyPlayerNumber = n
	}
	return next
}

// adoptClick repairs divergence after a click message that could not be
// replayed as a transition: the carried sub-state is adopted wholesale and
// the resulting status is derived from it.
func adoptClick(d game.Data, m protocol.Message) game.Data {
	next := d.Clone()
	if len(m.Players) > 0 {
		next.Players = append([]game.Player(nil), m.Players...)
	}
	if len(m.Cards) > 0 {
		next.Cards = append([]game.Card(nil), m.Cards...)
	}
	next.FirstClick = m.FirstClick
	next.SecondClick = m.SecondClick
	switch {
	case m.Kind == protocol.KindPlayerClick1stCard:
		next.Status = game.StatusPlayBefore2ndCard
	case next.FirstClick != 0 && next.SecondClick != 0:
		// miss: cards stay revealed until the turn is claimed
		next.Status = game.StatusTakeTurnBegin
	case next.AllPairsResolved():
		next.Status = game.StatusGameOverPlayAgainBegin
	default:
		next.Status = game.StatusPlayBefore1stCard
	}
	return next
}

// adoptState replaces the local view of the shared sub-state with the full
// payload the message carries. fallback is used when the message predates
// the status field or carries none.
func adoptState(d game.Data, m protocol.Message, fallback game.Status) game.Data {
	next := d.Clone()
	if len(m.Players) > 0 {
		next.Players = append([]game.Player(nil), m.Players...)
	}
	if len(m.Cards) > 0 {
		next.Cards = append([]game.Card(nil), m.Cards...)
	}
	switch {
	case m.Status != "":
		next.Status = m.Status
	case fallback != "":
		next.Status = fallback
	}
	next.FirstClick = m.FirstClick
	next.SecondClick = m.SecondClick
	return next
}
