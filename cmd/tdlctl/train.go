package main

import (
	"flag"
	"fmt"

	"github.com/dragunovdenis/trainingcell/pkg/agentscript"
	"github.com/dragunovdenis/trainingcell/pkg/ensemble"
	"github.com/dragunovdenis/trainingcell/pkg/persist"
	"github.com/dragunovdenis/trainingcell/pkg/statetype"
	"github.com/dragunovdenis/trainingcell/pkg/tdagent"
	"github.com/dragunovdenis/trainingcell/pkg/training"
)

func runTrain(args []string) error {
	fs := flag.NewFlagSet("train", flag.ExitOnError)
	store := fs.String("store", "tdlctl.db", "badger store directory")
	name := fs.String("name", "agent", "name to save the trained agent under")
	game := fs.String("game", "checkers", "checkers or chess")
	members := fs.Int("members", 2, "ensemble size; 1 trains a lone agent, >1 a committee")
	dims := fs.String("dims", "", "comma-separated net hidden layer widths, e.g. 40,1 (input/output sizing is automatic)")
	rounds := fs.Int("rounds", 10, "number of training rounds")
	trainEpisodes := fs.Int("train-episodes", 50, "self-play episodes per round")
	testEpisodes := fs.Int("test-episodes", 20, "evaluation episodes per round")
	lambda := fs.Float64("lambda", 0.7, "eligibility trace decay")
	discount := fs.Float64("discount", 0.9, "reward discount")
	lr := fs.Float64("lr", 0.05, "learning rate")
	rewardFactor := fs.Float64("reward-factor", 1, "shaping reward scale; <= 0 disables shaping")
	explore := fs.Float64("explore", 0.1, "exploration probability")
	exploreDepth := fs.Int("explore-depth", 20, "plies during which exploration can occur")
	exploreVolume := fs.Int("explore-volume", 0, "candidate moves considered for exploration; values below 2 disable exploration")
	trainDepth := fs.Int("train-depth", 60, "plies during which the net is updated")
	seed := fs.Uint64("seed", 1, "PRNG seed")
	scriptPath := fs.String("script", "", "path to a JSON agentscript.Script overriding the hyperparameter flags above")
	auto := fs.Bool("auto", false, "train each member against itself instead of pairing members up")
	smart := fs.Bool("smart", false, "count only decisive games towards the training-episode quota")
	removeOutliers := fs.Bool("remove-outliers", false, "replace every member scoring under 80% of the round's mean with a copy of the best")
	fixedPairs := fs.Bool("fixed-pairs", false, "pair members consecutively instead of drawing pairs at random")
	plot := fs.String("plot", "score-plot.html", "path to render the per-round score chart to")
	if err := fs.Parse(args); err != nil {
		return err
	}

	kind, err := parseGame(*game)
	if err != nil {
		return err
	}

	script, err := loadScript(*scriptPath)
	if err != nil {
		return err
	}

	dimList, err := parseDims(*dims, kind)
	if err != nil {
		return err
	}

	settings := buildSettings(*lambda, *discount, *lr, *rewardFactor, *explore, *exploreDepth, *exploreVolume, *trainDepth, true, true, script)

	if *members < 1 {
		return fmt.Errorf("-members must be at least 1, got %d", *members)
	}
	agents := make([]*tdagent.Agent, *members)
	for i := range agents {
		agents[i] = newMember(fmt.Sprintf("%s#%d", *name, i), kind, dimList, settings, *seed^uint64(i))
	}

	engine := training.New(agents, *seed)
	reporter := training.NewReporter(*rounds)
	reporter.PlotPath = *plot
	defer reporter.Close()

	opts := training.Options{
		TrainingEpisodes: *trainEpisodes,
		TestEpisodes:     *testEpisodes,
		FixedPairs:       *fixedPairs,
		SmartTraining:    *smart,
		RemoveOutliers:   *removeOutliers,
	}

	runErr := error(nil)
	if *auto {
		runErr = engine.RunAuto(0, *rounds, opts, reporter.Callback())
	} else {
		runErr = engine.Run(0, *rounds, opts, reporter.Callback())
	}
	if runErr != nil {
		return fmt.Errorf("training: %w", runErr)
	}

	db, err := persist.Open(*store)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer db.Close()

	if len(agents) == 1 {
		rec, err := persist.EncodeTDL(agents[0])
		if err != nil {
			return fmt.Errorf("encoding %q: %w", *name, err)
		}
		if err := db.Save(*name, rec); err != nil {
			return fmt.Errorf("saving %q: %w", *name, err)
		}
	} else {
		e := ensemble.New(*name, *seed)
		for _, a := range agents {
			e.Add(a)
		}
		rec, err := persist.EncodeEnsemble(e)
		if err != nil {
			return fmt.Errorf("encoding %q: %w", *name, err)
		}
		if err := db.Save(*name, rec); err != nil {
			return fmt.Errorf("saving %q: %w", *name, err)
		}
	}

	fmt.Printf("tdlctl: saved %q (%d member(s)) to %s\n", *name, len(agents), *store)
	return nil
}

// parseDims parses -dims and fills in the input/output layer widths
// automatically: the input width comes from the game's converted
// state size, and a caller giving only hidden widths gets a
// single-unit value-function output appended.
func parseDims(s string, kind statetype.Kind) ([]int, error) {
	var hidden agentscript.NetDim
	if s != "" {
		script, err := agentscript.Parse([]byte(fmt.Sprintf("{%q: %q}", "NetDim", s)))
		if err != nil {
			return nil, err
		}
		if script.NetDim != nil {
			hidden = *script.NetDim
		}
	}
	dims := append([]int{netInputSize(kind)}, []int(hidden)...)
	if len(hidden) == 0 || hidden[len(hidden)-1] != 1 {
		dims = append(dims, 1)
	}
	return dims, nil
}
