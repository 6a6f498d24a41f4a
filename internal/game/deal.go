package game

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
)

var ErrTooFewPlayers = errors.New("at least one player required")
var ErrTooFewNames = errors.New("content set needs at least two names")

// cards dealt per player; every player gets the same share of the grid.
const cardsPerPlayer = 16

// Deal builds and shuffles a fresh deck for the given player count and
// content set. The face-value domain is 1..len(cfg.Names)-1 (index 0 is the
// face-down label). Every face value present in the result appears exactly
// twice. Position 0 is the reserved sentinel and is prepended last.
//
// The pair multiset prefers an even rotation through the whole palette; when
// required_pairs is not a multiple of the palette size, the remainder is
// filled with randomly chosen distinct extra values.
func Deal(playerCount int, cfg Config, rng *rand.Rand) ([]Card, error) {
	if playerCount < 1 {
		return nil, ErrTooFewPlayers
	}
	nameCount := len(cfg.Names)
	if nameCount < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewNames, nameCount)
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	values := nameCount - 1
	pairs := playerCount * cardsPerPlayer / 2
	rounds := pairs / values
	rest := pairs - rounds*values

	faceValues := make([]int, 0, 2*pairs)
	var extras []int
	for len(extras) < rest {
		v := rng.IntN(values) + 1
		if slices.Contains(extras, v) {
			continue
		}
		extras = append(extras, v)
	}
	for _, v := range extras {
		faceValues = append(faceValues, v, v)
	}
	for range rounds {
		for v := 1; v <= values; v++ {
			faceValues = append(faceValues, v, v)
		}
	}

	rng.Shuffle(len(faceValues), func(i, j int) {
		faceValues[i], faceValues[j] = faceValues[j], faceValues[i]
	})

	cards := make([]Card, 0, len(faceValues)+1)
	cards = append(cards, Card{Face: FaceDown, FaceValue: 0, Position: 0})
	for i, v := range faceValues {
		cards = append(cards, Card{Face: FaceDown, FaceValue: v, Position: i + 1})
	}
	return cards, nil
}
