// Package config holds the content-set game configuration: the face-value
// label palettes and card geometry served to clients as JSON, keyed by set
// name.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/pairgrid/pairgrid/internal/game"
)

// Store is an immutable set of content configurations, loaded once at
// startup.
type Store struct {
	sets map[string]game.Config
}

// Load reads a JSON document of shape {"set_name": {config...}, ...}. An
// empty path yields the built-in sets.
func Load(path string) (*Store, error) {
	if path == "" {
		return &Store{sets: defaultSets()}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content config: %w", err)
	}
	var sets map[string]game.Config
	if err := json.Unmarshal(data, &sets); err != nil {
		return nil, fmt.Errorf("unmarshal content config: %w", err)
	}
	for name, cfg := range sets {
		if len(cfg.Names) < 2 {
			return nil, fmt.Errorf("content set %q needs at least two names", name)
		}
	}
	return &Store{sets: sets}, nil
}

// Get returns the config for a set name.
func (s *Store) Get(name string) (game.Config, bool) {
	cfg, ok := s.sets[name]
	return cfg, ok
}

// Names lists the available set names, sorted for stable display.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.sets))
	for name := range s.sets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// defaultSets mirrors the content themes the game ships with. Index 0 of
// every palette is the face-down label and is never dealt.
func defaultSets() map[string]game.Config {
	return map[string]game.Config{
		"alphabet": {
			Names: []string{
				"down",
				"alpha", "bravo", "charlie", "delta", "echo", "foxtrot",
				"golf", "hotel", "india", "juliett", "kilo", "lima",
				"mike", "november", "oscar", "papa", "quebec", "romeo",
				"sierra", "tango", "uniform", "victor", "whiskey",
				"xray", "yankee", "zulu",
			},
			CardWidth:   115,
			CardHeight:  115,
			GridColumns: 4,
		},
		"animals": {
			Names: []string{
				"down",
				"bear", "cat", "cow", "dog", "elephant", "fox", "goat",
				"horse", "lion", "mouse", "owl", "pig", "rabbit", "sheep",
				"tiger", "wolf", "zebra",
			},
			CardWidth:   115,
			CardHeight:  115,
			GridColumns: 4,
		},
		"playingcards": {
			Names: []string{
				"down",
				"ace", "two", "three", "four", "five", "six", "seven",
				"eight", "nine", "ten", "jack", "queen", "king",
			},
			CardWidth:   85,
			CardHeight:  115,
			GridColumns: 4,
		},
	}
}
