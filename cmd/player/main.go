// Command player is a headless terminal client: the full client core
// (session, engine, transport) driven from stdin, with the view descriptor
// printed instead of rendered. Useful for playing across two terminals and
// for exercising the whole stack against a live relay.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pairgrid/pairgrid/internal/config"
	"github.com/pairgrid/pairgrid/internal/engine"
	"github.com/pairgrid/pairgrid/internal/game"
	"github.com/pairgrid/pairgrid/internal/session"
	"github.com/pairgrid/pairgrid/internal/transport"
	"github.com/pairgrid/pairgrid/internal/view"
)

type playerConfig struct {
	server  string
	verbose bool
}

func newCmd(cfg *playerConfig) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("PAIRGRID")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "player",
		Short:         "Terminal player for the match-pairs game.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&cfg.server, "server", "s", "http://localhost:8086", "relay base URL (env: PAIRGRID_SERVER)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "debug logging (env: PAIRGRID_VERBOSE)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})
	return cmd
}

func wsURL(base string) string {
	u := strings.Replace(base, "http", "ws", 1)
	return strings.TrimSuffix(u, "/") + "/ws"
}

func run(ctx context.Context, cfg *playerConfig) error {
	log := zap.NewNop()
	if cfg.verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		log = l
	}
	defer func() { _ = log.Sync() }()

	clientID := game.NewClientID()
	dial := transport.NewDialer(wsURL(cfg.server), clientID, log)
	s := session.New(ctx, clientID, dial, log)
	defer func() { s.Inbox() <- session.Shutdown{} }()

	go renderLoop(ctx, s)

	fmt.Println("commands: sets | invite <set> | accept | start | click <index> | turn | again | reconnect | quit")
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "sets":
			printSets(ctx, cfg.server)

		case "invite":
			if len(fields) != 2 {
				fmt.Println("usage: invite <set>")
				continue
			}
			fetchCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			gameCfg, err := config.Fetch(fetchCtx, cfg.server, fields[1])
			cancel()
			if err != nil {
				fmt.Println("config fetch failed:", err)
				continue
			}
			s.Inbox() <- session.Local{Input: engine.PickSet(fields[1], gameCfg)}

		case "accept":
			s.Inbox() <- session.Local{Input: engine.Accept()}

		case "start":
			s.Inbox() <- session.Local{Input: engine.StartGame()}

		case "click":
			if len(fields) != 2 {
				fmt.Println("usage: click <index>")
				continue
			}
			index, err := strconv.Atoi(fields[1])
			if err != nil {
				fmt.Println("not a card index:", fields[1])
				continue
			}
			s.Inbox() <- session.Local{Input: engine.ClickCard(index)}

		case "turn":
			s.Inbox() <- session.Local{Input: engine.TakeTurn()}

		case "again":
			s.Inbox() <- session.Local{Input: engine.PlayAgain()}

		case "reconnect":
			s.Inbox() <- session.Reconnect{}

		case "quit":
			return nil

		default:
			fmt.Println("unknown command:", fields[0])
		}
	}
	return scanner.Err()
}

func renderLoop(ctx context.Context, s *session.Session) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.Renders():
			reply := make(chan view.Descriptor, 1)
			s.Inbox() <- session.GetView{Reply: reply}
			select {
			case desc := <-reply:
				printView(desc)
			case <-ctx.Done():
				return
			}
		}
	}
}

func printView(desc view.Descriptor) {
	if desc.ErrorText != "" {
		fmt.Printf("\nERROR: %s\n", desc.ErrorText)
		return
	}
	fmt.Printf("\n[%s] %s\n", desc.Status, desc.Banner)
	for _, p := range desc.Players {
		me := " "
		if p.IsMe {
			me = "*"
		}
		active := " "
		if p.Active {
			active = ">"
		}
		fmt.Printf("%s%s player%d: %d points\n", active, me, p.Number, p.Score)
	}
	cols := desc.GridColumns
	if cols < 1 {
		cols = 4
	}
	for i, c := range desc.Cards {
		if i == 0 {
			continue // sentinel
		}
		cell := "###"
		if c.Face != game.FaceDown {
			cell = c.Label
		}
		fmt.Printf("%4d:%-12s", c.Index, cell)
		if i%cols == 0 {
			fmt.Println()
		}
	}
	fmt.Println()
}

func printSets(ctx context.Context, server string) {
	reqCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet,
		strings.TrimSuffix(server, "/")+"/content", nil)
	if err != nil {
		fmt.Println("bad server url:", err)
		return
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Println("listing failed:", err)
		return
	}
	defer resp.Body.Close()
	var listing struct {
		Sets []string `json:"sets"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		fmt.Println("listing failed:", err)
		return
	}
	fmt.Println("available sets:", strings.Join(listing.Sets, ", "))
}

func main() {
	_ = godotenv.Load()
	cfg := &playerConfig{}
	if err := newCmd(cfg).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
