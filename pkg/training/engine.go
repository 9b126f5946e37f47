// Copyright © 2023 Rak Laptudirm <rak@laptudirm.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package training runs groups of tdagent.Agents through rounds of
// self-play: pair them up, play a batch of training episodes per
// pair, measure each agent's performance against a random opponent,
// and optionally cull the round's worst performers.
package training

import (
	"fmt"
	"sync"
	"time"

	"github.com/dragunovdenis/trainingcell/internal/util"
	"github.com/dragunovdenis/trainingcell/pkg/orchestrator"
	"github.com/dragunovdenis/trainingcell/pkg/randomagent"
	"github.com/dragunovdenis/trainingcell/pkg/state"
	"github.com/dragunovdenis/trainingcell/pkg/tdagent"
)

// maxMovesWithoutCapture is the no-capture ply limit training and
// evaluation episodes are capped at.
const maxMovesWithoutCapture = 50

// PerformanceRec reports one agent's measured performance in one
// round: win/loss rates against a random opponent as both colors, the
// round's training-episode draw rate, and the episode counts behind
// the numbers.
type PerformanceRec struct {
	Round int

	// PerfWhite/LossesWhite are win/loss rates (0..1) measured with
	// the agent playing white against a random opponent.
	PerfWhite   float64
	LossesWhite float64
	// PerfBlack/LossesBlack mirror PerfWhite/LossesWhite with the
	// agent playing black.
	PerfBlack   float64
	LossesBlack float64

	// Draws is the fraction of the round's training episodes (agent
	// vs. agent, not the performance measurement above) that ended
	// drawn.
	Draws float64

	TrainingEpisodes int
	TestEpisodes     int
}

// Score averages the agent's white and black win rates, the single
// number round-vs-round comparisons and outlier removal are based on.
func (p PerformanceRec) Score() float64 {
	return 0.5 * (p.PerfWhite + p.PerfBlack)
}

func (p PerformanceRec) String() string {
	return fmt.Sprintf("w.w./w.l.-b.w/b.l.-d: %.3f/%.3f-%.3f/%.3f-%.3f",
		p.PerfWhite, p.LossesWhite, p.PerfBlack, p.LossesBlack, p.Draws)
}

// RoundCallback is called once per round with the round's wall-clock
// duration and every agent's PerformanceRec (indexed the same as the
// Engine's Agents).
type RoundCallback func(elapsed time.Duration, performances []PerformanceRec)

// Engine owns a fixed collection of tdagent.Agents and runs them
// through training rounds.
type Engine struct {
	Agents []*tdagent.Agent

	rng *util.PRNG
}

// New returns an Engine over agents, seeded with seed for the random
// pairing draws.
func New(agents []*tdagent.Agent, seed uint64) *Engine {
	rng := &util.PRNG{}
	rng.Seed(seed)
	return &Engine{Agents: agents, rng: rng}
}

// pair is a white/black index pair into Engine.Agents.
type pair [2]int

// splitForPairs returns len(ids)/2 white/black pairs covering every
// index in ids exactly once. fixedPairs pairs consecutively
// (0 with 1, 2 with 3, ...); otherwise each slot is drawn uniformly at
// random from the ids remaining unassigned.
func (e *Engine) splitForPairs(agentsCount int, fixedPairs bool) ([]pair, error) {
	if agentsCount == 0 || agentsCount%2 == 1 {
		return nil, fmt.Errorf("training: agent collection must be nonempty and even-sized, got %d", agentsCount)
	}

	ids := make([]int, agentsCount)
	for i := range ids {
		ids[i] = i
	}

	pairs := make([]pair, agentsCount/2)
	for i := range pairs {
		for slot := 0; slot < 2; slot++ {
			indexID := 0
			if !fixedPairs {
				indexID = int(e.rng.Uint64() % uint64(len(ids)))
			}
			pairs[i][slot] = ids[indexID]
			ids = append(ids[:indexID], ids[indexID+1:]...)
		}
	}
	return pairs, nil
}

// evaluatePerformance measures a's performance by playing it against a
// fresh random agent, once as white and once as black. It forces
// PerformanceEvaluationMode for the duration, mirroring
// TrainingEngine::evaluate_performance's
// agent.set_performance_evaluation_mode(true): the measurement games
// must play greedily and must not themselves feed back into training.
func evaluatePerformance(a *tdagent.Agent, trainingEpisodes, episodesToPlay, roundID int, drawPercentage float64) PerformanceRec {
	origMode := a.Settings.PerformanceEvaluationMode
	a.Settings.PerformanceEvaluationMode = true
	defer func() { a.Settings.PerformanceEvaluationMode = origMode }()

	factor := 1.0 / float64(episodesToPlay)
	opponent := randomagent.New("random", 1)

	seed := state.StartSeed(a.Kind)

	board := orchestrator.New(a, opponent)
	board.MaxMovesWithoutCapture = maxMovesWithoutCapture
	stats0 := board.Play(episodesToPlay, seed, nil)
	whiteWins := float64(stats0.WhiteWins) * factor
	whiteLosses := float64(stats0.BlackWins) * factor

	board.SwapAgents()
	stats1 := board.Play(episodesToPlay, seed, nil)
	blackWins := float64(stats1.BlackWins) * factor
	blackLosses := float64(stats1.WhiteWins) * factor

	return PerformanceRec{
		Round:            roundID,
		PerfWhite:        whiteWins,
		LossesWhite:      whiteLosses,
		PerfBlack:        blackWins,
		LossesBlack:      blackLosses,
		Draws:            drawPercentage,
		TrainingEpisodes: trainingEpisodes,
		TestEpisodes:     episodesToPlay,
	}
}

// findBestScoreAgentID returns the index of the best-scoring record in
// scores and the indices of every record scoring under 80% of the
// mean (the round's outliers).
func findBestScoreAgentID(scores []PerformanceRec) (best int, outliers []int) {
	var sum float64
	for i, s := range scores {
		sum += s.Score()
		if i == 0 || s.Score() > scores[best].Score() {
			best = i
		}
	}
	average := sum / float64(len(scores))
	for i, s := range scores {
		if s.Score() < 0.8*average {
			outliers = append(outliers, i)
		}
	}
	return best, outliers
}

// removeLowScoreOutliers substitutes every outlier agent with a copy
// of the round's best-scoring agent.
func (e *Engine) removeLowScoreOutliers(scores []PerformanceRec) {
	best, outliers := findBestScoreAgentID(scores)
	for _, id := range outliers {
		if id == best {
			continue
		}
		*e.Agents[id] = *e.Agents[best].Clone(e.rng.Uint64())
	}
}

// Options configures a training run.
type Options struct {
	TrainingEpisodes int
	TestEpisodes     int
	FixedPairs       bool
	SmartTraining    bool
	RemoveOutliers   bool
}

// Run plays rounds [roundStart, maxRound) of paired self-play,
// measuring and reporting performance once per round. Agents must be
// nonempty and even in count; pairs are re-drawn each round unless
// FixedPairs is set.
func (e *Engine) Run(roundStart, maxRound int, opts Options, onRound RoundCallback) error {
	pairs, err := e.splitForPairs(len(e.Agents), opts.FixedPairs)
	if err != nil {
		return err
	}

	scores := make([]PerformanceRec, len(e.Agents))

	for round := roundStart; round < maxRound; round++ {
		start := time.Now()

		var wg sync.WaitGroup
		wg.Add(len(pairs))
		for _, p := range pairs {
			p := p
			go func() {
				defer wg.Done()
				e.runPair(p, round, opts, scores)
			}()
		}
		wg.Wait()

		onRound(time.Since(start), scores)

		if opts.RemoveOutliers {
			e.removeLowScoreOutliers(scores)
		}

		if round != maxRound-1 && !opts.FixedPairs {
			pairs, err = e.splitForPairs(len(e.Agents), opts.FixedPairs)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// RunAuto plays rounds of self-play where each agent is paired
// against itself (its white and black sub-agents train independently,
// so this still produces a usable learning signal without needing an
// even-sized, externally-paired population).
func (e *Engine) RunAuto(roundStart, maxRound int, opts Options, onRound RoundCallback) error {
	if len(e.Agents) == 0 {
		return fmt.Errorf("training: agent collection must be nonempty")
	}

	scores := make([]PerformanceRec, len(e.Agents))

	for round := roundStart; round < maxRound; round++ {
		start := time.Now()

		var wg sync.WaitGroup
		wg.Add(len(e.Agents))
		for i := range e.Agents {
			i := i
			go func() {
				defer wg.Done()
				e.runSelfPlay(i, round, opts, scores)
			}()
		}
		wg.Wait()

		onRound(time.Since(start), scores)

		if opts.RemoveOutliers {
			e.removeLowScoreOutliers(scores)
		}
	}
	return nil
}

func (e *Engine) runPair(p pair, round int, opts Options, scores []PerformanceRec) {
	white := e.Agents[p[0]]
	black := e.Agents[p[1]]
	seed := state.StartSeed(white.Kind)

	board := orchestrator.New(white, black)
	board.MaxMovesWithoutCapture = maxMovesWithoutCapture

	var stats orchestrator.Stats
	if opts.SmartTraining {
		stats = board.Train(opts.TrainingEpisodes, seed, nil)
	} else {
		stats = board.Play(opts.TrainingEpisodes, seed, nil)
	}
	drawPct := float64(opts.TrainingEpisodes-stats.BlackWins-stats.WhiteWins) / float64(opts.TrainingEpisodes)

	scores[p[0]] = evaluatePerformance(white, opts.TrainingEpisodes, opts.TestEpisodes, round, drawPct)
	scores[p[1]] = evaluatePerformance(black, opts.TrainingEpisodes, opts.TestEpisodes, round, drawPct)
}

func (e *Engine) runSelfPlay(agentID, round int, opts Options, scores []PerformanceRec) {
	a := e.Agents[agentID]
	seed := state.StartSeed(a.Kind)

	board := orchestrator.New(a, a)
	board.MaxMovesWithoutCapture = maxMovesWithoutCapture

	var stats orchestrator.Stats
	if opts.SmartTraining {
		stats = board.Train(opts.TrainingEpisodes, seed, nil)
	} else {
		stats = board.Play(opts.TrainingEpisodes, seed, nil)
	}
	drawPct := float64(opts.TrainingEpisodes-stats.BlackWins-stats.WhiteWins) / float64(opts.TrainingEpisodes)

	scores[agentID] = evaluatePerformance(a, opts.TrainingEpisodes, opts.TestEpisodes, round, drawPct)
}
