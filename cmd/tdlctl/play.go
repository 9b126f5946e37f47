package main

import (
	"flag"
	"fmt"

	"github.com/dragunovdenis/trainingcell/pkg/agent"
	"github.com/dragunovdenis/trainingcell/pkg/orchestrator"
	"github.com/dragunovdenis/trainingcell/pkg/persist"
	"github.com/dragunovdenis/trainingcell/pkg/randomagent"
	"github.com/dragunovdenis/trainingcell/pkg/state"
)

func runPlay(args []string) error {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	storePath := fs.String("store", "tdlctl.db", "badger store directory")
	white := fs.String("white", "random", `name of the white agent, or "random"`)
	black := fs.String("black", "random", `name of the black agent, or "random"`)
	game := fs.String("game", "checkers", "checkers or chess")
	episodes := fs.Int("episodes", 1, "number of episodes to play")
	maxMoves := fs.Int("max-moves", 200, "no-capture ply limit before an episode is ruled a draw")
	seed := fs.Uint64("seed", 1, "PRNG seed for any random agents")
	if err := fs.Parse(args); err != nil {
		return err
	}

	kind, err := parseGame(*game)
	if err != nil {
		return err
	}

	var db *persist.Store
	if *white != "random" || *black != "random" {
		db, err = persist.Open(*storePath)
		if err != nil {
			return fmt.Errorf("opening store: %w", err)
		}
		defer db.Close()
	}

	whiteAgent, err := resolveAgent(db, *white, "white", *seed)
	if err != nil {
		return err
	}
	blackAgent, err := resolveAgent(db, *black, "black", *seed+1)
	if err != nil {
		return err
	}

	board := orchestrator.New(whiteAgent, blackAgent)
	board.MaxMovesWithoutCapture = *maxMoves

	stats := board.Play(*episodes, state.StartSeed(kind), func(s orchestrator.Stats) {
		fmt.Printf("tdlctl: episode %d/%d done (white %d, black %d)\n", s.TotalEpisodes, *episodes, s.WhiteWins, s.BlackWins)
	})

	fmt.Printf("tdlctl: %d episodes played: white %d, black %d, draws %d\n",
		stats.TotalEpisodes, stats.WhiteWins, stats.BlackWins, stats.TotalEpisodes-stats.WhiteWins-stats.BlackWins)
	return nil
}

func resolveAgent(db *persist.Store, name, color string, seed uint64) (agent.Agent, error) {
	if name == "random" {
		return randomagent.New(color, seed), nil
	}
	return loadAgent(db, name, seed)
}
