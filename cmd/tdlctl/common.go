package main

import (
	"fmt"
	"os"

	"github.com/dragunovdenis/trainingcell/internal/util"
	"github.com/dragunovdenis/trainingcell/pkg/agent"
	"github.com/dragunovdenis/trainingcell/pkg/agentscript"
	"github.com/dragunovdenis/trainingcell/pkg/checkers"
	"github.com/dragunovdenis/trainingcell/pkg/converter"
	"github.com/dragunovdenis/trainingcell/pkg/netconv"
	"github.com/dragunovdenis/trainingcell/pkg/persist"
	"github.com/dragunovdenis/trainingcell/pkg/position"
	"github.com/dragunovdenis/trainingcell/pkg/statetype"
	"github.com/dragunovdenis/trainingcell/pkg/tdagent"
)

// parseGame turns a -game flag value into a statetype.Kind, reusing
// agentscript's StateType parsing so a script file and this flag agree
// on spelling.
func parseGame(s string) (statetype.Kind, error) {
	return agentscript.ParseStateType(s)
}

// converterFor returns the standard converter paired with kind by the
// rest of the engine (pkg/training's test fixtures, pkg/persist's
// round trip).
func converterFor(kind statetype.Kind) converter.Converter {
	switch kind {
	case statetype.Checkers:
		return converter.New(converter.CheckersStandard)
	case statetype.Chess:
		return converter.New(converter.ChessStandard)
	default:
		return converter.New(converter.None)
	}
}

// netInputSize returns the width of the net's input layer for kind:
// the raw state size expanded by its converter's expansion factor.
func netInputSize(kind statetype.Kind) int {
	switch kind {
	case statetype.Checkers:
		return checkers.StateSize
	case statetype.Chess:
		return position.FieldsCount * converterFor(kind).ExpansionFactor()
	default:
		return 0
	}
}

// buildSettings assembles a tdagent.Settings from the train command's
// flags, then applies script on top if one was loaded.
func buildSettings(lambda, discount, lr, rewardFactor, explore float64, exploreDepth, exploreVolume, trainDepth int, trainWhite, trainBlack bool, script *agentscript.Script) tdagent.Settings {
	base := tdagent.Settings{
		Lambda:                 lambda,
		Discount:               discount,
		LearningRate:           lr,
		RewardFactor:           rewardFactor,
		ExplorationProbability: explore,
		ExplorationDepth:       exploreDepth,
		ExplorationVolume:      exploreVolume,
		TrainDepth:             trainDepth,
		TrainWhite:             trainWhite,
		TrainBlack:             trainBlack,
	}
	if script != nil {
		return script.ApplySettings(base)
	}
	return base
}

// newMember builds one fresh tdagent.Agent for kind, dims, seed and
// settings, wiring the net and converter the way
// pkg/training/engine_test.go's newMember fixture does.
func newMember(name string, kind statetype.Kind, dims []int, settings tdagent.Settings, seed uint64) *tdagent.Agent {
	prng := &util.PRNG{}
	prng.Seed(seed)
	net := netconv.NewMLP(dims, prng)
	wc := netconv.NewWithConverter(net, converterFor(kind))
	return tdagent.New(name, kind, wc, settings, seed)
}

// loadScript reads and parses an agentscript.Script from path, or
// returns nil if path is empty.
func loadScript(path string) (*agentscript.Script, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}
	s, err := agentscript.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing script: %w", err)
	}
	return &s, nil
}

// loadAgent loads name from the already-open store and decodes it as
// an agent.Agent.
func loadAgent(store *persist.Store, name string, seed uint64) (agent.Agent, error) {
	rec, err := store.Load(name)
	if err != nil {
		return nil, fmt.Errorf("loading %q: %w", name, err)
	}
	a, err := persist.DecodeAgent(name, rec, seed)
	if err != nil {
		return nil, fmt.Errorf("decoding %q: %w", name, err)
	}
	return a, nil
}
