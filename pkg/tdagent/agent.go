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
	"github.com/dragunovdenis/trainingcell/pkg/agent"
	"github.com/dragunovdenis/trainingcell/pkg/netconv"
	"github.com/dragunovdenis/trainingcell/pkg/orchestrator"
	"github.com/dragunovdenis/trainingcell/pkg/state"
	"github.com/dragunovdenis/trainingcell/pkg/statetype"
)

// Agent is a full TD(lambda) player: a shared afterstate value
// function net and one SubAgent per color, since a game episode
// alternates which color is "to move" and each color's sub-agent only
// ever sees its own positions. It implements pkg/agent.Agent.
type Agent struct {
	Kind statetype.Kind

	Net      netconv.Net
	Settings Settings

	name  string
	white *SubAgent
	black *SubAgent

	// searchNet is the scratch net a SearchTD rollout trains against,
	// lazily cloned from Net on first use and reset at GameOver so each
	// episode starts its search fresh, grounded on
	// TdlAbstractAgent::_search_net/run_search/game_over.
	searchNet  netconv.Net
	searchSeed uint64
}

// New builds an Agent for the given game and net, with both colors'
// SubAgents seeded from seed (black gets seed, white gets seed^1, so
// two Agents built from the same seed don't share exploration draws
// between colors).
func New(name string, kind statetype.Kind, net netconv.Net, settings Settings, seed uint64) *Agent {
	return &Agent{
		name:       name,
		Kind:       kind,
		Net:        net,
		Settings:   settings,
		black:      NewSubAgent(false, seed),
		white:      NewSubAgent(true, seed^1),
		searchSeed: seed ^ 2,
	}
}

// Name implements agent.Agent.
func (a *Agent) Name() string {
	return a.name
}

// TypeID implements agent.Agent.
func (a *Agent) TypeID() agent.TypeID {
	return agent.TDL
}

// subAgent returns the SubAgent playing the given color.
func (a *Agent) subAgent(isWhite bool) *SubAgent {
	if isWhite {
		return a.white
	}
	return a.black
}

// MakeMove picks a move for the side to move in h, playing as the
// given color. It does not apply the move; the caller must do so
// (typically via h.MoveInvertReset) before the opposing side's turn.
// When Settings.SearchMethod is SearchTD, the move is chosen by
// runSearch instead of the main net directly; if this color is
// training, that searched move is still folded through the normal
// trace update against the main net, grounded on
// TdlAbstractAgent::make_move.
func (a *Agent) MakeMove(h *state.Handle, asWhite bool) int {
	sub := a.subAgent(asWhite)
	if a.Settings.SearchMethod != SearchTD {
		return sub.MakeMove(h, a.Settings, a.Net)
	}

	moveID := a.runSearch(h)
	if !a.Settings.trains(asWhite) {
		return moveID
	}
	return sub.makeChoice(h, evaluateChoice(h, moveID, a.Net), a.Settings, a.Net)
}

// runSearch rolls out TdSearchIterations self-play episodes from h's
// current position against a scratch net cloned from the main one,
// then returns the scratch net's argmax move on the real position,
// grounded on TdlAbstractAgent::run_search: the scratch net persists
// across the whole episode (reset only in GameOver) so each call
// refines it a little further rather than starting over.
func (a *Agent) runSearch(h *state.Handle) int {
	if a.searchNet == nil {
		a.searchNet = a.Net.Clone()
	}

	scratch := New("search", a.Kind, a.searchNet, a.Settings.searchSettings(), a.searchSeed)
	a.searchSeed++

	board := orchestrator.New(scratch, scratch)
	board.MaxMovesWithoutCapture = 100
	board.Play(a.Settings.TdSearchIterations, h.Seed(), nil)

	return pickMove(h, a.searchNet).id
}

// GameOver notifies both colors' sub-agents that the episode ended
// with the given result (from the perspective of the color that just
// played; callers invoke this once per color, each with the result as
// seen by that color). It also drops the scratch search net, if any,
// so the next episode's search starts from a fresh clone of the main
// net, mirroring TdlAbstractAgent::game_over's _search_net reset.
func (a *Agent) GameOver(asWhite bool, result agent.GameResult) {
	a.subAgent(asWhite).GameOver(result, a.Settings, a.Net)
	if a.Settings.SearchMethod != SearchNone {
		a.searchNet = nil
	}
}

// CanTrain reports whether the agent is configured to train as either
// color. An agent in PerformanceEvaluationMode never trains regardless
// of TrainWhite/TrainBlack.
func (a *Agent) CanTrain() bool {
	return !a.Settings.PerformanceEvaluationMode && (a.Settings.TrainWhite || a.Settings.TrainBlack)
}

// Clone returns an independent copy of a: a deep copy of its net (so
// training the clone never touches a's weights) and fresh per-color
// SubAgents seeded from seed, carrying the same name, kind, and
// settings. Used by pkg/training to replace a poorly-performing
// agent's net with a copy of a stronger one's, mirroring the
// original's copy-assignment of one TdLambdaAgent over another.
func (a *Agent) Clone(seed uint64) *Agent {
	return New(a.name, a.Kind, a.Net.Clone(), a.Settings, seed)
}
