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

// Package agent defines the common shape every game-playing agent
// (TD(lambda), an ensemble of them, or a uniform-random player)
// presents to the orchestrator and to persistence, so neither needs
// to know which concrete kind it's holding.
package agent

import "github.com/dragunovdenis/trainingcell/pkg/state"

// TypeID tags an agent's concrete kind for polymorphic persistence.
type TypeID int

const (
	Unknown TypeID = iota
	Random
	TDL
	TDLEnsemble
)

// String returns the wire/script name of the TypeID.
func (t TypeID) String() string {
	switch t {
	case Random:
		return "RANDOM"
	case TDL:
		return "TDL"
	case TDLEnsemble:
		return "TDL_ENSEMBLE"
	default:
		return "UNKNOWN"
	}
}

// ParseTypeID parses the string form produced by TypeID.String.
func ParseTypeID(s string) TypeID {
	switch s {
	case "RANDOM":
		return Random
	case "TDL":
		return TDL
	case "TDL_ENSEMBLE":
		return TDLEnsemble
	default:
		return Unknown
	}
}

// GameResult is the outcome of an episode from one agent's point of
// view, passed to GameOver so an agent can fold the final reward into
// its last update (if it trains) or simply tally it (if it doesn't).
type GameResult int

const (
	Loss GameResult = -1
	Draw GameResult = 0
	Win  GameResult = 1
)

// Agent is anything that can play a Handle-backed game and be told
// how an episode ended.
type Agent interface {
	// Name returns the agent's display name.
	Name() string

	// TypeID returns the agent's concrete kind.
	TypeID() TypeID

	// MakeMove returns the index of the move the agent wants to play
	// in h's current position, playing the given color. It does not
	// apply the move.
	MakeMove(h *state.Handle, asWhite bool) int

	// GameOver notifies the agent, playing the given color, that its
	// episode ended with the given result.
	GameOver(asWhite bool, result GameResult)

	// CanTrain reports whether the agent updates itself while playing.
	CanTrain() bool
}
