package game

import (
	"errors"
	"math/rand/v2"
	"testing"
)

func testConfig(nameCount int) Config {
	names := make([]string, nameCount)
	names[0] = "down"
	for i := 1; i < nameCount; i++ {
		names[i] = string(rune('a' + i - 1))
	}
	return Config{Names: names, CardWidth: 100, CardHeight: 100, GridColumns: 4}
}

func TestDealEveryValueAppearsExactlyTwice(t *testing.T) {
	cases := []struct {
		name        string
		players     int
		nameCount   int
	}{
		{name: "1 player small palette", players: 1, nameCount: 3},
		{name: "2 players alphabet-sized palette", players: 2, nameCount: 27},
		{name: "3 players palette smaller than pairs", players: 3, nameCount: 5},
		{name: "4 players", players: 4, nameCount: 17},
		{name: "palette exactly divides pairs", players: 1, nameCount: 9},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rng := rand.New(rand.NewPCG(1, 2))
			cards, err := Deal(tc.players, testConfig(tc.nameCount), rng)
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}

			if cards[0].Position != 0 || cards[0].FaceValue != 0 || cards[0].Face != FaceDown {
				t.Fatalf("position 0 must be the face-down sentinel, got %+v", cards[0])
			}
			dealt := cards[1:]
			if len(dealt) != tc.players*cardsPerPlayer {
				t.Fatalf("dealt %d cards, want %d", len(dealt), tc.players*cardsPerPlayer)
			}
			if len(dealt)%2 != 0 {
				t.Fatalf("deck must have even length, got %d", len(dealt))
			}

			counts := map[int]int{}
			for i, c := range dealt {
				if c.Position != i+1 {
					t.Fatalf("card %d has position %d", i, c.Position)
				}
				if c.Face != FaceDown {
					t.Fatalf("card %d dealt face %s", i, c.Face)
				}
				if c.FaceValue < 1 || c.FaceValue > tc.nameCount-1 {
					t.Fatalf("face value %d outside palette 1..%d", c.FaceValue, tc.nameCount-1)
				}
				counts[c.FaceValue]++
			}
			for v, n := range counts {
				if n%2 != 0 {
					t.Fatalf("face value %d appears %d times, want an even pair count", v, n)
				}
			}
			// with a palette at least as large as the pair count, exactly twice
			if tc.nameCount-1 >= len(dealt)/2 {
				for v, n := range counts {
					if n != 2 {
						t.Fatalf("face value %d appears %d times, want 2", v, n)
					}
				}
			}
		})
	}
}

func TestDealRejectsBadInput(t *testing.T) {
	if _, err := Deal(0, testConfig(5), nil); !errors.Is(err, ErrTooFewPlayers) {
		t.Fatalf("want ErrTooFewPlayers, got %v", err)
	}
	if _, err := Deal(2, testConfig(1), nil); !errors.Is(err, ErrTooFewNames) {
		t.Fatalf("want ErrTooFewNames, got %v", err)
	}
}

func TestDealShuffles(t *testing.T) {
	// not a randomness test, just a guard that the deck isn't ordered
	rng := rand.New(rand.NewPCG(7, 7))
	cards, err := Deal(2, testConfig(17), rng)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	ordered := true
	for i := 2; i < len(cards); i++ {
		if cards[i].FaceValue < cards[i-1].FaceValue {
			ordered = false
			break
		}
	}
	if ordered {
		t.Fatalf("deck came out fully sorted, shuffle is missing")
	}
}
