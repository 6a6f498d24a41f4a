package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pairgrid/pairgrid/internal/game"
)

func playingData() game.Data {
	return game.Data{
		Cards: []game.Card{
			{Face: game.FaceDown, FaceValue: 0, Position: 0},
			{Face: game.FaceDown, FaceValue: 1, Position: 1},
			{Face: game.FaceUpTemporary, FaceValue: 2, Position: 2},
			{Face: game.FaceUpPermanent, FaceValue: 1, Position: 3},
			{Face: game.FaceDown, FaceValue: 2, Position: 4},
		},
		Players:        []game.Player{{ClientID: 100, Score: 1}, {ClientID: 200}},
		Status:         game.StatusPlayBefore1stCard,
		Turn:           1,
		MyPlayerNumber: 1,
		ClientID:       100,
		Config: game.Config{
			Names:       []string{"down", "alpha", "bravo"},
			CardWidth:   115,
			CardHeight:  115,
			GridColumns: 4,
		},
	}
}

func TestProjectIsIdempotent(t *testing.T) {
	d := playingData()
	first := Project(d)
	second := Project(d)
	assert.Equal(t, first, second, "projecting unchanged data must yield an equal descriptor")
}

func TestProjectCards(t *testing.T) {
	desc := Project(playingData())
	require.Len(t, desc.Cards, 5)

	assert.False(t, desc.Cards[0].Clickable, "sentinel is never clickable")
	assert.Empty(t, desc.Cards[1].Label, "face-down cards expose no label")
	assert.True(t, desc.Cards[1].Clickable)
	assert.Equal(t, "bravo", desc.Cards[2].Label)
	assert.False(t, desc.Cards[2].Clickable, "revealed cards are not clickable")
	assert.Equal(t, "alpha", desc.Cards[3].Label)
}

func TestProjectPlayers(t *testing.T) {
	desc := Project(playingData())
	require.Len(t, desc.Players, 2)
	assert.True(t, desc.Players[0].Active)
	assert.True(t, desc.Players[0].IsMe)
	assert.Equal(t, 1, desc.Players[0].Score)
	assert.False(t, desc.Players[1].Active)
	assert.False(t, desc.Players[1].IsMe)
}

func TestProjectNothingClickableOutOfTurn(t *testing.T) {
	d := playingData()
	d.Turn = 2
	desc := Project(d)
	for _, c := range desc.Cards {
		assert.False(t, c.Clickable, "card %d clickable while waiting", c.Index)
	}
	assert.Equal(t, "Wait for player2 !", desc.Banner)
}

func TestProjectTakeTurnBanner(t *testing.T) {
	d := playingData()
	d.Status = game.StatusTakeTurnBegin
	d.MyPlayerNumber = 2
	d.ClientID = 200
	desc := Project(d)
	assert.Equal(t, "Click here to take your turn !", desc.Banner)

	d.MyPlayerNumber = 1
	desc = Project(d)
	assert.Equal(t, "Wait for player2 !", desc.Banner)
}

func TestProjectReconnectOverlayPreemptsPlay(t *testing.T) {
	d := playingData()
	d.Status = game.StatusReconnect
	desc := Project(d)
	assert.True(t, desc.Reconnect)
	assert.Empty(t, desc.Cards, "reconnect overlay replaces the grid")
}

func TestProjectErrorPreemptsEverything(t *testing.T) {
	d := playingData()
	d.ErrorText = "assigned ws uid does not match this client"
	desc := Project(d)
	assert.Equal(t, d.ErrorText, desc.ErrorText)
	assert.Empty(t, desc.Cards)
	assert.Empty(t, desc.Banner)
}

func TestProjectDoesNotMutateData(t *testing.T) {
	d := playingData()
	before := d.Clone()
	_ = Project(d)
	assert.Equal(t, before.Cards, d.Cards)
	assert.Equal(t, before.Players, d.Players)
	assert.Equal(t, before.Status, d.Status)
}
