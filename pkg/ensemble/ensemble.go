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

// Package ensemble implements a committee of tdagent.Agents that share
// a single agent.Agent identity: MakeMove either delegates to one
// randomly-chosen member exclusively (single-agent mode) or lets every
// member vote on the current position's legal moves and plays the move
// with the most votes (voting mode).
package ensemble

import (
	"sync"

	"github.com/dragunovdenis/trainingcell/internal/util"
	"github.com/dragunovdenis/trainingcell/pkg/agent"
	"github.com/dragunovdenis/trainingcell/pkg/state"
	"github.com/dragunovdenis/trainingcell/pkg/tdagent"
)

// Agent is a committee of tdagent.Agents, built with New. In the zero
// value chosenID is 0 rather than -1, so once a member is Added it
// plays in single-agent mode as member 0, and there is no PRNG for
// SetSingleAgentMode to draw from.
type Agent struct {
	name string
	rng  *util.PRNG

	members []*tdagent.Agent

	// chosenID is the index of the member exclusively playing in
	// single-agent mode, or -1 when the ensemble votes instead.
	chosenID int

	// MultiThreaded selects the parallel voting path: every member
	// picks its move on its own goroutine and a single mutex
	// serializes the shared vote tally.
	MultiThreaded bool
}

// New returns an empty ensemble in voting mode, seeded with seed for
// the random draws set_single_agent_mode makes in the original.
func New(name string, seed uint64) *Agent {
	rng := &util.PRNG{}
	rng.Seed(seed)
	return &Agent{name: name, rng: rng, chosenID: -1}
}

// Add appends a to the ensemble and returns its index. The ensemble
// stores a itself, not a copy, so it shares state with the caller's
// agent.
func (e *Agent) Add(a *tdagent.Agent) int {
	e.members = append(e.members, a)
	return len(e.members) - 1
}

// RemoveAgent removes the member at id, reporting whether id was
// valid. Removing a member while the ensemble is in single-agent mode
// can leave chosenID pointing past the end or at the wrong member;
// callers should re-call SetSingleAgentMode afterwards if that
// matters.
func (e *Agent) RemoveAgent(id int) bool {
	if id < 0 || id >= len(e.members) {
		return false
	}
	e.members = append(e.members[:id], e.members[id+1:]...)
	return true
}

// Get returns the member at id.
func (e *Agent) Get(id int) *tdagent.Agent {
	return e.members[id]
}

// Len reports how many members the ensemble has.
func (e *Agent) Len() int {
	return len(e.members)
}

// SetSingleAgentMode toggles single-agent mode. When turning it on, a
// member is chosen uniformly at random and plays exclusively until the
// mode is turned off again (or re-rolled by another call). It returns
// the chosen id, or -1 when turned off.
func (e *Agent) SetSingleAgentMode(on bool) int {
	if !on || len(e.members) == 0 {
		e.chosenID = -1
		return e.chosenID
	}
	e.chosenID = int(e.rng.Uint64() % uint64(len(e.members)))
	return e.chosenID
}

// IsSingleAgentMode reports whether a single member is currently
// playing exclusively.
func (e *Agent) IsSingleAgentMode() bool {
	return e.chosenID >= 0 && e.chosenID < len(e.members)
}

// CurrentSingleAgentID returns the id chosen by SetSingleAgentMode, or
// -1 if the ensemble isn't in single-agent mode.
func (e *Agent) CurrentSingleAgentID() int {
	return e.chosenID
}

func (a *Agent) Name() string         { return a.name }
func (a *Agent) TypeID() agent.TypeID { return agent.TDLEnsemble }

// SetSearchDepth propagates a new TdSearchDepth to every member,
// mirroring the original ensemble's centralized set_search_depth,
// which forwards the same setting to every sub-agent it holds.
func (e *Agent) SetSearchDepth(depth int) {
	for _, m := range e.members {
		m.Settings.TdSearchDepth = depth
	}
}

// SetSearchIterations propagates a new TdSearchIterations to every
// member, mirroring the original's centralized set_search_iterations.
func (e *Agent) SetSearchIterations(n int) {
	for _, m := range e.members {
		m.Settings.TdSearchIterations = n
	}
}

// GetSearchDepth returns the first member's TdSearchDepth, or 0 if the
// ensemble has no members; used to verify SetSearchDepth propagated
// to every member (callers checking uniformity should compare every
// m.Settings.TdSearchDepth directly).
func (e *Agent) GetSearchDepth() int {
	if len(e.members) == 0 {
		return 0
	}
	return e.members[0].Settings.TdSearchDepth
}

// GetSearchIterations returns the first member's TdSearchIterations,
// or 0 if the ensemble has no members.
func (e *Agent) GetSearchIterations() int {
	if len(e.members) == 0 {
		return 0
	}
	return e.members[0].Settings.TdSearchIterations
}

// CanTrain reports whether any member can train.
func (e *Agent) CanTrain() bool {
	for _, m := range e.members {
		if m.CanTrain() {
			return true
		}
	}
	return false
}

// MakeMove picks a move for the side to move in h, playing as the
// given color. In single-agent mode it delegates to the chosen member.
// Otherwise every member votes for its own pick and the move with the
// most votes wins, ties broken by the lowest move index (the first
// move to reach the max vote count).
func (e *Agent) MakeMove(h *state.Handle, asWhite bool) int {
	count := h.MoveCount()
	if count <= 0 {
		return -1
	}
	if count == 1 {
		return 0
	}

	if e.IsSingleAgentMode() {
		return e.members[e.chosenID].MakeMove(h, asWhite)
	}

	votes := make([]int, count)

	if e.MultiThreaded {
		var mu sync.Mutex
		var wg sync.WaitGroup
		wg.Add(len(e.members))
		for _, m := range e.members {
			m := m
			go func() {
				defer wg.Done()
				moveID := m.MakeMove(h, asWhite)
				mu.Lock()
				votes[moveID]++
				mu.Unlock()
			}()
		}
		wg.Wait()
	} else {
		for _, m := range e.members {
			votes[m.MakeMove(h, asWhite)]++
		}
	}

	best := 0
	for i := 1; i < len(votes); i++ {
		if votes[i] > votes[best] {
			best = i
		}
	}
	return best
}

// GameOver notifies every member the episode ended, then re-rolls the
// single-agent choice if the ensemble is in that mode (mirroring the
// original's re-application of set_single_agent_mode on every game's
// end, so a fresh member is drawn for the next episode).
func (e *Agent) GameOver(asWhite bool, result agent.GameResult) {
	for _, m := range e.members {
		m.GameOver(asWhite, result)
	}
	e.SetSingleAgentMode(e.IsSingleAgentMode())
}

var _ agent.Agent = (*Agent)(nil)
