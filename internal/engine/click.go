package engine

import (
	"github.com/pairgrid/pairgrid/internal/game"
	"github.com/pairgrid/pairgrid/pkg/protocol"
)

// applyClick handles a card click in either clickable status. local is true
// for a click made on this machine (which must broadcast) and false for a
// click replayed from a peer message.
func applyClick(d game.Data, index int, local bool) ([]protocol.Message, game.Data, error) {
	switch d.Status {
	case game.StatusPlayBefore1stCard:
		return applyFirstClick(d, index, local)
	case game.StatusPlayBefore2ndCard:
		return applySecondClick(d, index, local)
	default:
		return nil, d, ErrWrongStatus
	}
}

func clickGuard(d game.Data, index int, local bool) error {
	if index < 1 || index >= len(d.Cards) {
		return ErrCardOutOfRange
	}
	if d.Cards[index].Face != game.FaceDown {
		return ErrCardNotDown
	}
	if local && d.MyPlayerNumber != d.Turn {
		return ErrWrongTurn
	}
	return nil
}

func applyFirstClick(d game.Data, index int, local bool) ([]protocol.Message, game.Data, error) {
	if err := clickGuard(d, index, local); err != nil {
		return nil, d, err
	}
	next := d.Clone()
	next.FirstClick = index
	next.Cards[index].Face = game.FaceUpTemporary
	next.Status = game.StatusPlayBefore2ndCard

	if !local {
		return nil, next, nil
	}
	next.NextSeq++
	out := []protocol.Message{{
		Kind:        protocol.KindPlayerClick1stCard,
		ClientID:    d.ClientID,
		Seq:         next.NextSeq,
		Players:     next.Players,
		Cards:       next.Cards,
		Status:      d.Status, // status the click was made in
		CardIndex:   index,
		FirstClick:  next.FirstClick,
		SecondClick: next.SecondClick,
	}}
	return out, next, nil
}

// applySecondClick flips the second card and resolves the pair. On a match
// the acting player scores and keeps the turn; when the last pair falls the
// game is over. On a miss the cards stay temporarily revealed until the
// next player claims the turn.
func applySecondClick(d game.Data, index int, local bool) ([]protocol.Message, game.Data, error) {
	if err := clickGuard(d, index, local); err != nil {
		return nil, d, err
	}
	if index == d.FirstClick {
		return nil, d, ErrSameCard
	}
	next := d.Clone()
	next.SecondClick = index
	next.Cards[index].Face = game.FaceUpTemporary

	matched := next.Cards[next.FirstClick].FaceValue == next.Cards[next.SecondClick].FaceValue
	if matched {
		next.Players[next.Turn-1].Score++
		next.Cards[next.FirstClick].Face = game.FaceUpPermanent
		next.Cards[next.SecondClick].Face = game.FaceUpPermanent
		next.FirstClick = 0
		next.SecondClick = 0
		if next.AllPairsResolved() {
			next.Status = game.StatusGameOverPlayAgainBegin
		} else {
			// same player continues, no rotation
			next.Status = game.StatusPlayBefore1stCard
		}
	} else {
		next.Status = game.StatusTakeTurnBegin
	}

	if !local {
		return nil, next, nil
	}
	next.NextSeq++
	out := []protocol.Message{{
		Kind:        protocol.KindPlayerClick2ndCard,
		ClientID:    d.ClientID,
		Seq:         next.NextSeq,
		Players:     next.Players,
		Cards:       next.Cards,
		Status:      d.Status, // status the click was made in
		CardIndex:   index,
		FirstClick:  next.FirstClick,
		SecondClick: next.SecondClick,
	}}
	switch next.Status {
	case game.StatusGameOverPlayAgainBegin:
		out = append(out, protocol.Message{
			Kind:     protocol.KindGameOverPlayAgainBegin,
			ClientID: d.ClientID,
			Players:  next.Players,
			Cards:    next.Cards,
			Status:   next.Status,
		})
	case game.StatusTakeTurnBegin:
		out = append(out, protocol.Message{
			Kind:        protocol.KindTakeTurnBegin,
			ClientID:    d.ClientID,
			Players:     next.Players,
			Cards:       next.Cards,
			Status:      next.Status,
			FirstClick:  next.FirstClick,
			SecondClick: next.SecondClick,
		})
	}
	return out, next, nil
}
