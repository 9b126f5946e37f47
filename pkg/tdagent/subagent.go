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

package tdagent

import (
	"math"

	"github.com/dragunovdenis/trainingcell/internal/util"
	"github.com/dragunovdenis/trainingcell/pkg/agent"
	"github.com/dragunovdenis/trainingcell/pkg/movecollector"
	"github.com/dragunovdenis/trainingcell/pkg/netconv"
	"github.com/dragunovdenis/trainingcell/pkg/state"
)

// moveChoice is a picked move's index, its net value, and the
// afterstate tensor the net was evaluated at.
type moveChoice struct {
	id         int
	value      float64
	afterState []float64
}

// SubAgent is one color's half of a TD(lambda) Agent: the net is
// shared, but each color keeps its own eligibility trace, previous
// position, and move counter, since they experience disjoint move
// sequences within an episode.
type SubAgent struct {
	isWhite bool
	newGame bool

	trace        []netconv.LayerGradient
	prevState    []float64
	prevAfter    []float64
	moveCounter  int

	rng *util.PRNG
}

// NewSubAgent returns a fresh SubAgent for the given color, seeded
// with seed for its exploration draws.
func NewSubAgent(isWhite bool, seed uint64) *SubAgent {
	rng := &util.PRNG{}
	rng.Seed(seed)
	return &SubAgent{isWhite: isWhite, newGame: true, rng: rng}
}

// reset clears per-episode state; called after GameOver.
func (a *SubAgent) reset() {
	a.newGame = true
	a.moveCounter = 0
}

// pickMove scans every legal move in h and returns the one with the
// highest net value, along with its value and afterstate tensor.
func pickMove(h *state.Handle, net netconv.Net) moveChoice {
	best := moveChoice{id: -1, value: -math.MaxFloat64}
	for i := 0; i < h.MoveCount(); i++ {
		tensor, value := net.Evaluate(h.RawAfterState(i))
		if value > best.value {
			best = moveChoice{id: i, value: value, afterState: tensor}
		}
	}
	return best
}

// evaluateChoice builds the moveChoice for an already-decided move
// index, evaluated against net; used to fold a search-picked move
// through the normal trace bookkeeping in makeChoice.
func evaluateChoice(h *state.Handle, moveIdx int, net netconv.Net) moveChoice {
	tensor, value := net.Evaluate(h.RawAfterState(moveIdx))
	return moveChoice{id: moveIdx, value: value, afterState: tensor}
}

// explore draws one move uniformly from the volume best-valued
// candidates (or from all of them, if there are fewer than volume).
func explore(h *state.Handle, net netconv.Net, volume int, rng *util.PRNG) moveChoice {
	moves := h.MoveCount()
	actualVolume := volume
	if moves < actualVolume {
		actualVolume = moves
	}
	picked := int(rng.Uint64() % uint64(actualVolume))

	if actualVolume == moves {
		tensor, value := net.Evaluate(h.RawAfterState(picked))
		return moveChoice{id: picked, value: value, afterState: tensor}
	}

	collector := movecollector.New(actualVolume)
	for i := 0; i < moves; i++ {
		tensor, value := net.Evaluate(h.RawAfterState(i))
		collector.Add(i, value, tensor)
	}
	m := collector.Get(picked)
	return moveChoice{id: m.ID, value: m.Value, afterState: m.AfterState}
}

func (a *SubAgent) shouldExplore(settings Settings) bool {
	if settings.PerformanceEvaluationMode {
		return false
	}
	if a.moveCounter >= settings.ExplorationDepth || settings.ExplorationVolume <= 1 {
		return false
	}
	p := settings.ExplorationProbability
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	unit := float64(a.rng.Uint64()>>11) / float64(uint64(1)<<53)
	return unit < p
}

// MakeMove picks a move in h and, if this color is training and
// within its training depth, folds the transition from the previous
// move into the eligibility trace and nets a weight update. It
// returns the chosen move's index only; applying it to h is the
// caller's responsibility.
func (a *SubAgent) MakeMove(h *state.Handle, settings Settings, net netconv.Net) int {
	var choice moveChoice
	switch {
	case h.MoveCount() == 1:
		tensor, value := net.Evaluate(h.RawAfterState(0))
		choice = moveChoice{id: 0, value: value, afterState: tensor}
	case a.shouldExplore(settings):
		choice = explore(h, net, settings.ExplorationVolume, a.rng)
	default:
		choice = pickMove(h, net)
	}
	return a.makeChoice(h, choice, settings, net)
}

// makeChoice runs choice's trace/weight-update bookkeeping against net
// and returns choice.id unchanged; MakeMove's normal pick/explore path
// and a forced move (TD-tree search picks the move on a scratch net,
// but the main net's trace still has to be updated as if it had chosen
// it, grounded on TdLambdaSubAgent::make_move's "moveDataPtr" overload)
// both funnel through here.
func (a *SubAgent) makeChoice(h *state.Handle, choice moveChoice, settings Settings, net netconv.Net) int {
	a.moveCounter++
	if !settings.trains(a.isWhite) || settings.TrainDepth < a.moveCounter {
		return choice.id
	}

	if a.newGame {
		a.prevAfter = choice.afterState
		a.prevState = h.CurrentVector()
		a.newGame = false
		a.trace = net.Allocate()
		return choice.id
	}

	currentState := h.CurrentVector()
	reward := 0.0
	if settings.RewardFactor > 0 {
		reward = settings.RewardFactor * h.Reward(a.prevState, currentState)
	}

	prevAfterValue := net.CalcGradientAndValue(a.prevAfter, settings.Lambda*settings.Discount, a.trace)
	delta := reward + settings.Discount*choice.value - prevAfterValue
	net.Update(a.trace, settings.LearningRate*delta, 0)

	a.prevAfter = choice.afterState
	a.prevState = currentState

	return choice.id
}

// GameOver folds the terminal reward implied by result into the last
// eligibility-trace update, then resets the SubAgent for the next
// episode.
func (a *SubAgent) GameOver(result agent.GameResult, settings Settings, net netconv.Net) {
	if settings.trains(a.isWhite) && !a.newGame {
		movesToDiscount := a.moveCounter - settings.TrainDepth
		discountFactor := 1.0
		if movesToDiscount > 0 {
			discountFactor = math.Pow(settings.Discount, float64(movesToDiscount))
		}

		reward := 2 * float64(result) * discountFactor
		prevAfterValue := net.CalcGradientAndValue(a.prevAfter, settings.Lambda*settings.Discount, a.trace)
		delta := reward - prevAfterValue
		net.Update(a.trace, settings.LearningRate*delta, 0)
	}
	a.reset()
}
