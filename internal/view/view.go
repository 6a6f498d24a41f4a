// Package view projects the game data into a renderer-agnostic descriptor.
// Project is pure: it may be called at any time, has no side effects, and
// returns an equal descriptor for unchanged input. The actual HTML/vdom
// rendering lives outside this module.
package view

import (
	"fmt"

	"github.com/pairgrid/pairgrid/internal/game"
)

// CardView is one grid cell. Label is empty while the card is face down.
type CardView struct {
	Index     int
	Face      game.CardFace
	Label     string
	Clickable bool
}

type PlayerView struct {
	Number int
	Score  int
	Active bool
	IsMe   bool
}

// Descriptor is the complete input the external render layer needs for one
// frame.
type Descriptor struct {
	Status      game.Status
	Banner      string
	Cards       []CardView
	Players     []PlayerView
	GridColumns int
	CardWidth   int
	CardHeight  int
	Reconnect   bool
	ErrorText   string
}

// Project derives the frame descriptor for the given state. A non-empty
// error text preempts everything else; the reconnect status preempts normal
// play rendering.
func Project(d game.Data) Descriptor {
	desc := Descriptor{
		Status:      d.Status,
		GridColumns: d.Config.GridColumns,
		CardWidth:   d.Config.CardWidth,
		CardHeight:  d.Config.CardHeight,
		ErrorText:   d.ErrorText,
	}
	if d.ErrorText != "" {
		return desc
	}
	if d.Status == game.StatusReconnect {
		desc.Reconnect = true
		desc.Banner = "Connection lost. Click to reconnect."
		return desc
	}

	desc.Banner = banner(d)
	desc.Cards = projectCards(d)
	for i, p := range d.Players {
		desc.Players = append(desc.Players, PlayerView{
			Number: i + 1,
			Score:  p.Score,
			Active: d.Turn == i+1,
			IsMe:   d.MyPlayerNumber == i+1,
		})
	}
	return desc
}

func banner(d game.Data) string {
	switch d.Status {
	case game.StatusInviteAskBegin:
		return "Invite someone to play!"
	case game.StatusInviteAsking:
		return "Waiting for players to accept. Click Start when ready."
	case game.StatusInviteAsked:
		return fmt.Sprintf("Click here to accept %s!", d.RequestedSet)
	case game.StatusPlayAccepted:
		return "Accepted. Waiting for the game to start."
	case game.StatusPlayBefore1stCard, game.StatusPlayBefore2ndCard:
		if d.MyPlayerNumber == d.Turn {
			return fmt.Sprintf("Play player%d !", d.Turn)
		}
		return fmt.Sprintf("Wait for player%d !", d.Turn)
	case game.StatusTakeTurnBegin:
		next := game.NextTurn(d.Turn, len(d.Players))
		if d.MyPlayerNumber == next {
			return "Click here to take your turn !"
		}
		return fmt.Sprintf("Wait for player%d !", next)
	case game.StatusGameOverPlayAgainBegin:
		return "Game over. Play again?"
	}
	return ""
}

func projectCards(d game.Data) []CardView {
	myTurn := d.MyPlayerNumber == d.Turn
	clickableStatus := d.Status == game.StatusPlayBefore1stCard ||
		d.Status == game.StatusPlayBefore2ndCard
	views := make([]CardView, 0, len(d.Cards))
	for i, c := range d.Cards {
		cv := CardView{Index: i, Face: c.Face}
		if c.Face != game.FaceDown && c.FaceValue < len(d.Config.Names) {
			cv.Label = d.Config.Names[c.FaceValue]
		}
		cv.Clickable = i > 0 && c.Face == game.FaceDown && myTurn && clickableStatus
		views = append(views, cv)
	}
	return views
}
