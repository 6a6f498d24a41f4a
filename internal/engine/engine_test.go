package engine

import (
	"errors"
	"testing"

	"github.com/pairgrid/pairgrid/internal/game"
	"github.com/pairgrid/pairgrid/pkg/protocol"
)

// testDeck builds a deterministic deck: the sentinel plus one card per
// given face value, positions 1..n.
func testDeck(values ...int) []game.Card {
	cards := []game.Card{{Face: game.FaceDown, FaceValue: 0, Position: 0}}
	for i, v := range values {
		cards = append(cards, game.Card{Face: game.FaceDown, FaceValue: v, Position: i + 1})
	}
	return cards
}

func testConfig() game.Config {
	return game.Config{
		Names:       []string{"down", "alpha", "bravo", "charlie"},
		CardWidth:   100,
		CardHeight:  100,
		GridColumns: 4,
	}
}

// playingData is a 2-player game in progress; the local client holds seat 1
// and the turn.
func playingData(deck []game.Card) game.Data {
	return game.Data{
		Cards:          deck,
		Players:        []game.Player{{ClientID: 100}, {ClientID: 200}},
		Status:         game.StatusPlayBefore1stCard,
		Turn:           1,
		MyPlayerNumber: 1,
		ClientID:       100,
		ContentSet:     "alphabet",
		Config:         testConfig(),
	}
}

func containsKind(out []protocol.Message, kind protocol.Kind) bool {
	for _, m := range out {
		if m.Kind == kind {
			return true
		}
	}
	return false
}

func TestPickSetStartsInviting(t *testing.T) {
	d := game.New(100)
	out, next, err := Apply(d, PickSet("alphabet", testConfig()))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if next.Status != game.StatusInviteAsking {
		t.Fatalf("status = %s, want %s", next.Status, game.StatusInviteAsking)
	}
	if next.MyPlayerNumber != 1 || len(next.Players) != 1 || next.Players[0].ClientID != 100 {
		t.Fatalf("inviter must hold seat one: %+v", next.Players)
	}
	if len(out) != 1 || out[0].Kind != protocol.KindInvite || out[0].SetName != "alphabet" {
		t.Fatalf("want one Invite broadcast, got %+v", out)
	}
	if out[0].ClientID != 100 {
		t.Fatalf("invite must carry the sender id, got %d", out[0].ClientID)
	}
}

func TestPickSetRejectedOutsideInviteAskBegin(t *testing.T) {
	d := playingData(testDeck(1, 1, 2, 2))
	out, next, err := Apply(d, PickSet("alphabet", testConfig()))
	if !errors.Is(err, ErrWrongStatus) {
		t.Fatalf("want ErrWrongStatus, got %v", err)
	}
	if len(out) != 0 || next.Status != d.Status {
		t.Fatalf("rejected input must not change state or broadcast")
	}
}

func TestAcceptBroadcastsPlayAccept(t *testing.T) {
	d := game.New(200)
	d.Status = game.StatusInviteAsked
	d.Players = []game.Player{{ClientID: 100}, {ClientID: 200}}
	d.MyPlayerNumber = 2

	out, next, err := Apply(d, Accept())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if next.Status != game.StatusPlayAccepted {
		t.Fatalf("status = %s, want %s", next.Status, game.StatusPlayAccepted)
	}
	if len(out) != 1 || out[0].Kind != protocol.KindPlayAccept || out[0].ClientID != 200 {
		t.Fatalf("want one PlayAccept broadcast, got %+v", out)
	}
}

func TestStartGameDealsAndPublishesInit(t *testing.T) {
	restore := deal
	deal = func(playerCount int, cfg game.Config) ([]game.Card, error) {
		if playerCount != 2 {
			t.Fatalf("deal called with %d players, want 2", playerCount)
		}
		return testDeck(1, 1, 2, 2), nil
	}
	defer func() { deal = restore }()

	d := game.New(100)
	d.Status = game.StatusInviteAsking
	d.Players = []game.Player{{ClientID: 100}, {ClientID: 200}}
	d.MyPlayerNumber = 1
	d.RequestedSet = "alphabet"
	d.Config = testConfig()

	out, next, err := Apply(d, StartGame())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if next.Status != game.StatusPlayBefore1stCard {
		t.Fatalf("status = %s, want %s", next.Status, game.StatusPlayBefore1stCard)
	}
	if next.Turn != 1 {
		t.Fatalf("turn = %d, want 1", next.Turn)
	}
	if next.ContentSet != "alphabet" {
		t.Fatalf("content set = %q, want alphabet", next.ContentSet)
	}
	if len(out) != 1 || out[0].Kind != protocol.KindGameDataInit {
		t.Fatalf("want one GameDataInit broadcast, got %+v", out)
	}
	if len(out[0].Cards) != 5 || out[0].Config == nil || len(out[0].Players) != 2 {
		t.Fatalf("GameDataInit must carry the full initial state: %+v", out[0])
	}
}

func TestTakeTurnRotatesAndFlipsBack(t *testing.T) {
	deck := testDeck(1, 2, 1, 2)
	deck[1].Face = game.FaceUpTemporary
	deck[2].Face = game.FaceUpTemporary
	d := playingData(deck)
	d.Status = game.StatusTakeTurnBegin
	d.FirstClick = 1
	d.SecondClick = 2
	d.MyPlayerNumber = 2 // seat 2 is next in rotation
	d.ClientID = 200

	out, next, err := Apply(d, TakeTurn())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if next.Turn != 2 {
		t.Fatalf("turn = %d, want 2", next.Turn)
	}
	if next.Status != game.StatusPlayBefore1stCard {
		t.Fatalf("status = %s, want %s", next.Status, game.StatusPlayBefore1stCard)
	}
	if next.Cards[1].Face != game.FaceDown || next.Cards[2].Face != game.FaceDown {
		t.Fatalf("revealed cards must flip back down: %+v", next.Cards[1:3])
	}
	if next.FirstClick != 0 || next.SecondClick != 0 {
		t.Fatalf("click indices must clear, got %d/%d", next.FirstClick, next.SecondClick)
	}
	if !containsKind(out, protocol.KindTakeTurnEnd) {
		t.Fatalf("want TakeTurnEnd broadcast, got %+v", out)
	}
}

func TestTakeTurnRejectsWrongClaimant(t *testing.T) {
	d := playingData(testDeck(1, 2, 1, 2))
	d.Status = game.StatusTakeTurnBegin
	// seat 1 holds the turn; seat 1 cannot also claim the next one
	_, _, err := Apply(d, TakeTurn())
	if !errors.Is(err, ErrWrongTurn) {
		t.Fatalf("want ErrWrongTurn, got %v", err)
	}
}

func TestTurnWrapsToFirstPlayer(t *testing.T) {
	d := playingData(testDeck(1, 2, 1, 2))
	d.Status = game.StatusTakeTurnBegin
	d.Turn = 2
	d.MyPlayerNumber = 1

	_, next, err := Apply(d, TakeTurn())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if next.Turn != 1 {
		t.Fatalf("turn = %d, want wrap to 1", next.Turn)
	}
}

func TestPlayAgainResets(t *testing.T) {
	d := playingData(testDeck(1, 1))
	d.Status = game.StatusGameOverPlayAgainBegin
	d.Players[0].Score = 1

	out, next, err := Apply(d, PlayAgain())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("play again must not broadcast, got %+v", out)
	}
	if next.Status != game.StatusInviteAskBegin {
		t.Fatalf("status = %s, want %s", next.Status, game.StatusInviteAskBegin)
	}
	if next.ClientID != 100 {
		t.Fatalf("reset must keep client id, got %d", next.ClientID)
	}
	if len(next.Players) != 0 {
		t.Fatalf("players must clear on reset, got %+v", next.Players)
	}
}
