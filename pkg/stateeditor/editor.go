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

// Package stateeditor lets a caller (typically a UI) build an
// arbitrary board configuration square by square and turn it into a
// state.Seed to start a game or training episode from.
package stateeditor

import (
	"fmt"

	"github.com/dragunovdenis/trainingcell/pkg/checkers"
	"github.com/dragunovdenis/trainingcell/pkg/chessstate"
	"github.com/dragunovdenis/trainingcell/pkg/position"
	"github.com/dragunovdenis/trainingcell/pkg/state"
	"github.com/dragunovdenis/trainingcell/pkg/statetype"
)

// Editor holds a raw token vector being built up square by square.
type Editor struct {
	kind statetype.Kind
	vec  []int
}

// New returns an Editor for the given game, initialized to that
// game's starting configuration.
func New(kind statetype.Kind) *Editor {
	e := &Editor{kind: kind}
	e.Reset()
	return e
}

// Kind returns the game the Editor is building a position for.
func (e *Editor) Kind() statetype.Kind {
	return e.kind
}

// Reset restores the edited position to the game's starting
// configuration.
func (e *Editor) Reset() {
	e.vec = state.StartSeed(e.kind).Handle().RawVector()
}

// Clear empties the board. Chess keeps one King per side in place:
// every piece of chessstate's move generation and attack tracking
// assumes exactly one ally and one rival King are on the board, so an
// entirely kingless position isn't one the rest of the state machine
// can evaluate. Checkers carries no such constraint, so it empties
// completely.
func (e *Editor) Clear() {
	switch e.kind {
	case statetype.Checkers:
		e.vec = make([]int, checkers.StateSize)
	case statetype.Chess:
		v := make([]int, position.FieldsCount)
		allyKing := chessstate.NewPiece(chessstate.King, true)
		v[position.New(0, 4).Index()] = int(allyKing)
		v[position.New(7, 4).Index()] = int(allyKing.Anti())
		e.vec = v
	default:
		e.vec = nil
	}
}

// ToVector returns a copy of the edited state's raw token vector.
func (e *Editor) ToVector() []int {
	out := make([]int, len(e.vec))
	copy(out, e.vec)
	return out
}

// Options enumerates the piece values the square at pos can be edited
// to, in the order ApplyOption's optionID indexes into.
func (e *Editor) Options(pos position.Position) []int {
	switch e.kind {
	case statetype.Checkers:
		return []int{
			int(checkers.Space),
			int(checkers.Man),
			int(checkers.King),
			int(checkers.AntiMan),
			int(checkers.AntiKing),
		}
	case statetype.Chess:
		ranks := []chessstate.Piece{
			chessstate.Pawn, chessstate.Knight, chessstate.Bishop,
			chessstate.Rook, chessstate.Queen, chessstate.King,
		}
		opts := make([]int, 0, 1+2*len(ranks))
		opts = append(opts, int(chessstate.Space))
		for _, r := range ranks {
			opts = append(opts, int(r))
		}
		for _, r := range ranks {
			opts = append(opts, int(-r))
		}
		return opts
	default:
		return nil
	}
}

// ApplyOption sets the square at pos to the optionID-th value from
// Options(pos).
func (e *Editor) ApplyOption(pos position.Position, optionID int) error {
	opts := e.Options(pos)
	if optionID < 0 || optionID >= len(opts) {
		return fmt.Errorf("stateeditor: option id %d out of range [0,%d)", optionID, len(opts))
	}
	idx, ok := e.indexOf(pos)
	if !ok {
		return fmt.Errorf("stateeditor: %v is not a valid square for %v", pos, e.kind)
	}
	e.vec[idx] = opts[optionID]
	return nil
}

func (e *Editor) indexOf(pos position.Position) (int, bool) {
	switch e.kind {
	case statetype.Checkers:
		return checkers.IndexOf(pos)
	case statetype.Chess:
		if !pos.IsValid() {
			return 0, false
		}
		return pos.Index(), true
	default:
		return 0, false
	}
}

// Seed returns a state.Seed for the currently edited configuration,
// ready to start a game or training episode from.
func (e *Editor) Seed() state.Seed {
	switch e.kind {
	case statetype.Checkers:
		return state.NewCheckersSeed(checkers.NewFromVector(e.vec, false))
	case statetype.Chess:
		return state.NewChessSeed(chessstate.NewFromVector(e.vec, false))
	default:
		return state.Seed{}
	}
}
