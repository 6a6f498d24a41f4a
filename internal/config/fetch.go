package config

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pairgrid/pairgrid/internal/game"
)

// Fetch retrieves one content set's game config from the relay's HTTP
// surface. The client calls this at invite time, before dealing.
func Fetch(ctx context.Context, baseURL, setName string) (game.Config, error) {
	u, err := url.JoinPath(baseURL, "content", setName, "game_config.json")
	if err != nil {
		return game.Config{}, fmt.Errorf("build config url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return game.Config{}, fmt.Errorf("build config request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return game.Config{}, fmt.Errorf("fetch game config: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return game.Config{}, fmt.Errorf("fetch game config: unexpected status %s", resp.Status)
	}
	var cfg game.Config
	if err := json.NewDecoder(resp.Body).Decode(&cfg); err != nil {
		return game.Config{}, fmt.Errorf("decode game config: %w", err)
	}
	if len(cfg.Names) < 2 {
		return game.Config{}, fmt.Errorf("content set %q needs at least two names", setName)
	}
	return cfg, nil
}
