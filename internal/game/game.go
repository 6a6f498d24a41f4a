package game

import "math/rand/v2"

// CardFace is the visible state of a single card.
type CardFace string

const (
	FaceDown        CardFace = "down"
	FaceUpTemporary CardFace = "up_temporary"
	FaceUpPermanent CardFace = "up_permanent"
)

// Status is the enumerated phase of the shared game protocol. Every player
// is expected to converge on the same status purely through message passing.
type Status string

const (
	StatusInviteAskBegin         Status = "InviteAskBegin"
	StatusInviteAsking           Status = "InviteAsking"
	StatusInviteAsked            Status = "InviteAsked"
	StatusPlayAccepted           Status = "PlayAccepted"
	StatusPlayBefore1stCard      Status = "PlayBefore1stCard"
	StatusPlayBefore2ndCard      Status = "PlayBefore2ndCard"
	StatusTakeTurnBegin          Status = "TakeTurnBegin"
	StatusGameOverPlayAgainBegin Status = "GameOverPlayAgainBegin"
	StatusReconnect              Status = "Reconnect"
)

// Started reports whether the status belongs to a game in progress, i.e. a
// phase where losing the transport matters enough to show the reconnect view.
func (s Status) Started() bool {
	switch s {
	case StatusPlayBefore1stCard, StatusPlayBefore2ndCard,
		StatusTakeTurnBegin, StatusGameOverPlayAgainBegin:
		return true
	}
	return false
}

// Card is one card on the grid. Position 0 is a reserved sentinel that is
// never dealt to a player and stays face down forever.
type Card struct {
	Face      CardFace `json:"face"`
	FaceValue int      `json:"face_value"`
	Position  int      `json:"position"`
}

// Player is one participant. ClientID doubles as the echo-suppression key:
// it identifies the browser/process instance, not the seat.
type Player struct {
	ClientID int64 `json:"client_id"`
	Score    int   `json:"score"`
}

// Config describes one content set: the face-value label palette and the
// card/grid geometry the renderer needs. Names[0] is the face-down label,
// so the dealable face-value domain is 1..len(Names)-1.
type Config struct {
	Names       []string `json:"name"`
	CardWidth   int      `json:"card_width"`
	CardHeight  int      `json:"card_height"`
	GridColumns int      `json:"grid_columns"`
}

// Data is the root aggregate for one client session. It is exclusively
// owned by that session; peers reconcile only via messages.
type Data struct {
	Cards          []Card
	Players        []Player
	Status         Status
	Turn           int // 1-based index into Players, 0 = unset
	FirstClick     int // card index of the first click, 0 = none
	SecondClick    int // card index of the second click, 0 = none
	ContentSet     string
	RequestedSet   string
	MyPlayerNumber int // 1-based, 0 = unassigned
	ClientID       int64
	Config         Config
	ErrorText      string
	NextSeq        int64 // monotonic sequence for outbound click messages
}

const emptyDeckSize = 32

// NewClientID generates the per-session identifier. Collision-improbable is
// good enough; it only deduplicates self-originated broadcasts.
func NewClientID() int64 {
	return rand.Int64N(1<<62) + 1
}

// New constructs the session data with a placeholder deck. The real deck is
// dealt only when the inviting player starts the game.
func New(clientID int64) Data {
	return Data{
		Cards:    EmptyDeck(),
		Players:  []Player{},
		Status:   StatusInviteAskBegin,
		ClientID: clientID,
	}
}

// EmptyDeck returns the placeholder grid shown before any game starts:
// the sentinel plus 32 face-down cards with no meaningful values.
func EmptyDeck() []Card {
	cards := make([]Card, 0, emptyDeckSize+1)
	for i := 0; i <= emptyDeckSize; i++ {
		cards = append(cards, Card{Face: FaceDown, FaceValue: 1, Position: i})
	}
	cards[0].FaceValue = 0
	return cards
}

// Reset returns the data to its initial empty-deck state for "play again",
// keeping only the client identity.
func (d *Data) Reset() {
	d.Cards = EmptyDeck()
	d.Players = d.Players[:0]
	d.Status = StatusInviteAskBegin
	d.Turn = 0
	d.FirstClick = 0
	d.SecondClick = 0
	d.ContentSet = ""
	d.RequestedSet = ""
	d.MyPlayerNumber = 0
	d.Config = Config{}
	d.ErrorText = ""
}

// Clone deep-copies the aggregate so transitions can mutate freely without
// sharing slices with the previous state.
func (d Data) Clone() Data {
	next := d
	next.Cards = append([]Card(nil), d.Cards...)
	next.Players = append([]Player(nil), d.Players...)
	return next
}

// NextTurn computes the strictly sequential rotation: turn+1, wrapping to 1
// after the last player. Disconnected players are not skipped.
func NextTurn(turn, playerCount int) int {
	if turn < playerCount {
		return turn + 1
	}
	return 1
}

// MatchedPairs is the sum of all players' scores.
func (d Data) MatchedPairs() int {
	sum := 0
	for _, p := range d.Players {
		sum += p.Score
	}
	return sum
}

// AllPairsResolved reports whether every dealt pair has been matched,
// accounting for the sentinel at position 0.
func (d Data) AllPairsResolved() bool {
	return 2*d.MatchedPairs() == len(d.Cards)-1
}

// PlayerNumberOf returns the 1-based seat of the given client id, 0 if the
// client is not seated.
func (d Data) PlayerNumberOf(clientID int64) int {
	for i, p := range d.Players {
		if p.ClientID == clientID {
			return i + 1
		}
	}
	return 0
}
