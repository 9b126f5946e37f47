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

// Package randomagent provides two agent.Agent implementations that
// need no net: Agent, which always picks a uniformly random legal
// move, and Fixed, which always plays a pre-supplied move index
// (standing in for a human's or a search's already-decided move).
package randomagent

import (
	"github.com/dragunovdenis/trainingcell/internal/util"
	"github.com/dragunovdenis/trainingcell/pkg/agent"
	"github.com/dragunovdenis/trainingcell/pkg/state"
)

// Agent always takes a uniformly random move from the current
// position's legal move list. It is the opponent pkg/training
// measures a TD(lambda) agent's performance against.
type Agent struct {
	name string
	rng  *util.PRNG
}

// New returns a random Agent seeded with seed.
func New(name string, seed uint64) *Agent {
	rng := &util.PRNG{}
	rng.Seed(seed)
	return &Agent{name: name, rng: rng}
}

func (a *Agent) Name() string         { return a.name }
func (a *Agent) TypeID() agent.TypeID { return agent.Random }
func (a *Agent) CanTrain() bool       { return false }

// MakeMove implements agent.Agent.
func (a *Agent) MakeMove(h *state.Handle, _ bool) int {
	count := h.MoveCount()
	if count <= 1 {
		return 0
	}
	return int(a.rng.Uint64() % uint64(count))
}

// GameOver implements agent.Agent; a random agent never trains, so
// there is nothing to do.
func (a *Agent) GameOver(bool, agent.GameResult) {}

var _ agent.Agent = (*Agent)(nil)

// Fixed is a stand-in agent.Agent that always plays one
// already-decided move index, regardless of the state it's handed.
// It lets a caller that has picked a move through some other means
// (a human's UI click, a tree search) fold that choice back through
// the same agent.Agent-shaped code paths (e.g. an orchestrator's
// "force adopt this move" step) as a genuine agent decision.
type Fixed struct {
	name string
	move int
}

// NewFixed returns a Fixed agent that always plays moveIdx.
func NewFixed(name string, moveIdx int) *Fixed {
	return &Fixed{name: name, move: moveIdx}
}

func (f *Fixed) Name() string             { return f.name }
func (f *Fixed) TypeID() agent.TypeID     { return agent.Unknown }
func (f *Fixed) CanTrain() bool           { return false }
func (f *Fixed) MakeMove(*state.Handle, bool) int { return f.move }
func (f *Fixed) GameOver(bool, agent.GameResult)  {}

var _ agent.Agent = (*Fixed)(nil)
