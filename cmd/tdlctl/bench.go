package main

import (
	"flag"
	"fmt"

	"github.com/dragunovdenis/trainingcell/pkg/orchestrator"
	"github.com/dragunovdenis/trainingcell/pkg/persist"
	"github.com/dragunovdenis/trainingcell/pkg/randomagent"
	"github.com/dragunovdenis/trainingcell/pkg/state"
)

// runBench measures a stored agent's win/loss rate against a uniform
// random opponent, playing episodes games as each color, the same
// measurement pkg/training runs internally between rounds.
func runBench(args []string) error {
	fs := flag.NewFlagSet("bench", flag.ExitOnError)
	storePath := fs.String("store", "tdlctl.db", "badger store directory")
	name := fs.String("name", "", "name of the stored agent to benchmark")
	game := fs.String("game", "checkers", "checkers or chess")
	episodes := fs.Int("episodes", 100, "episodes to play as each color")
	maxMoves := fs.Int("max-moves", 50, "no-capture ply limit before an episode is ruled a draw")
	seed := fs.Uint64("seed", 1, "PRNG seed")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" {
		return fmt.Errorf("-name is required")
	}

	kind, err := parseGame(*game)
	if err != nil {
		return err
	}

	db, err := persist.Open(*storePath)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer db.Close()

	subject, err := loadAgent(db, *name, *seed)
	if err != nil {
		return err
	}
	opponent := randomagent.New("random", *seed+1)

	seedPos := state.StartSeed(kind)

	board := orchestrator.New(subject, opponent)
	board.MaxMovesWithoutCapture = *maxMoves
	asWhite := board.Play(*episodes, seedPos, nil)

	board.SwapAgents()
	asBlack := board.Play(*episodes, seedPos, nil)

	fmt.Printf("tdlctl: %q as white: %d/%d wins, %d/%d losses\n",
		*name, asWhite.WhiteWins, *episodes, asWhite.BlackWins, *episodes)
	fmt.Printf("tdlctl: %q as black: %d/%d wins, %d/%d losses\n",
		*name, asBlack.BlackWins, *episodes, asBlack.WhiteWins, *episodes)
	return nil
}
