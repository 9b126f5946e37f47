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

// Package state wraps the checkers and chess state machines behind a
// single Handle, the only shape the rest of the training core needs
// to know about. The set of concrete games is closed, so Handle is a
// sealed dispatch over the two machines rather than an open interface
// hierarchy: every game-specific branch lives here, once.
package state

import (
	"github.com/dragunovdenis/trainingcell/pkg/chessattack"
	"github.com/dragunovdenis/trainingcell/pkg/chessstate"
	"github.com/dragunovdenis/trainingcell/pkg/checkers"
	"github.com/dragunovdenis/trainingcell/pkg/statetype"
)

// Seed is a lightweight, copyable descriptor of a state that can
// yield fresh Handles, mirroring the original engine's IStateSeed.
type Seed struct {
	kind     statetype.Kind
	checkers checkers.State
	chess    chessstate.State
}

// NewCheckersSeed wraps a checkers.State as a Seed.
func NewCheckersSeed(s checkers.State) Seed {
	return Seed{kind: statetype.Checkers, checkers: s}
}

// NewChessSeed wraps a chessstate.State as a Seed.
func NewChessSeed(s chessstate.State) Seed {
	return Seed{kind: statetype.Chess, chess: s}
}

// StartSeed returns the starting-position Seed for the given Kind, or
// the zero Seed if Kind is Unknown.
func StartSeed(k statetype.Kind) Seed {
	switch k {
	case statetype.Checkers:
		return NewCheckersSeed(checkers.NewStart())
	case statetype.Chess:
		return NewChessSeed(chessstate.NewStart())
	default:
		return Seed{}
	}
}

// Kind returns the game the Seed belongs to.
func (s Seed) Kind() statetype.Kind {
	return s.kind
}

// Handle yields a fresh, independently mutable Handle from the Seed.
func (s Seed) Handle() *Handle {
	return &Handle{kind: s.kind, checkersState: s.checkers, chessState: s.chess}
}

// MoveView is a UI/diagnostics-suitable description of one legal move,
// uniform across both games.
type MoveView struct {
	From, To  int
	IsCapture bool
}

// Handle is a mutable playthrough of one state: the current position
// and, lazily, the legal moves available in it.
type Handle struct {
	kind statetype.Kind

	checkersState checkers.State
	chessState    chessstate.State

	checkersMoves []checkers.Move
	chessMoves    []chessstate.Move
	movesReady    bool
}

// Kind returns the game the Handle belongs to.
func (h *Handle) Kind() statetype.Kind {
	return h.kind
}

// Seed captures the current position as a re-yieldable Seed.
func (h *Handle) Seed() Seed {
	switch h.kind {
	case statetype.Checkers:
		return NewCheckersSeed(h.checkersState)
	case statetype.Chess:
		return NewChessSeed(h.chessState)
	default:
		return Seed{}
	}
}

// Clone returns an independent copy of the Handle.
func (h *Handle) Clone() *Handle {
	clone := *h
	if h.checkersMoves != nil {
		clone.checkersMoves = append([]checkers.Move(nil), h.checkersMoves...)
	}
	if h.chessMoves != nil {
		clone.chessMoves = append([]chessstate.Move(nil), h.chessMoves...)
	}
	return &clone
}

func (h *Handle) ensureMoves() {
	if h.movesReady {
		return
	}
	switch h.kind {
	case statetype.Checkers:
		h.checkersMoves = h.checkersState.Moves()
	case statetype.Chess:
		h.chessMoves = h.chessState.Moves()
	}
	h.movesReady = true
}

// MoveCount returns the number of legal moves in the current
// position.
func (h *Handle) MoveCount() int {
	h.ensureMoves()
	switch h.kind {
	case statetype.Checkers:
		return len(h.checkersMoves)
	case statetype.Chess:
		return len(h.chessMoves)
	default:
		return 0
	}
}

// CurrentVector returns the float64 tensor representation of the
// current position.
func (h *Handle) CurrentVector() []float64 {
	switch h.kind {
	case statetype.Checkers:
		return toFloat(h.checkersState.ToVector())
	case statetype.Chess:
		return toFloat(h.chessState.ToVector())
	default:
		return nil
	}
}

// RawVector returns the current position's raw int-token vector, the
// representation a pkg/converter.Converter consumes. Unlike
// CurrentVector, no float64 cast occurs before a caller feeds this
// into a net's Evaluate, which needs the real integer tokens to take
// their two's-complement bit planes apart.
func (h *Handle) RawVector() []int {
	switch h.kind {
	case statetype.Checkers:
		return h.checkersState.ToVector()
	case statetype.Chess:
		return h.chessState.ToVector()
	default:
		return nil
	}
}

// RawAfterState returns the raw int-token vector obtained by
// tentatively applying the move with the given index, without
// mutating the Handle.
func (h *Handle) RawAfterState(moveIdx int) []int {
	h.ensureMoves()
	switch h.kind {
	case statetype.Checkers:
		scratch := h.checkersState
		scratch.Apply(h.checkersMoves[moveIdx])
		return scratch.ToVector()
	case statetype.Chess:
		scratch := h.chessState
		scratch.Apply(h.chessMoves[moveIdx])
		return scratch.ToVector()
	default:
		return nil
	}
}

// Evaluate returns the after-state tensor obtained by tentatively
// applying the move with the given index, without mutating the
// Handle. This is the representation an agent's net evaluates when
// picking among candidate moves.
func (h *Handle) Evaluate(moveIdx int) []float64 {
	h.ensureMoves()
	switch h.kind {
	case statetype.Checkers:
		scratch := h.checkersState
		scratch.Apply(h.checkersMoves[moveIdx])
		return toFloat(scratch.ToVector())
	case statetype.Chess:
		scratch := h.chessState
		scratch.Apply(h.chessMoves[moveIdx])
		return toFloat(scratch.ToVector())
	default:
		return nil
	}
}

// Reward computes the shaping reward for a transition between two
// after-state tensors obtained from this Handle's game.
func (h *Handle) Reward(prevVec, nextVec []float64) float64 {
	switch h.kind {
	case statetype.Checkers:
		return checkers.Reward(toInt(prevVec), toInt(nextVec))
	case statetype.Chess:
		return chessMaterialReward(toInt(prevVec), toInt(nextVec))
	default:
		return 0
	}
}

// IsCapture returns true if the move with the given index captures an
// opposing piece.
func (h *Handle) IsCapture(moveIdx int) bool {
	h.ensureMoves()
	switch h.kind {
	case statetype.Checkers:
		return h.checkersMoves[moveIdx].IsCapture()
	case statetype.Chess:
		m := h.chessMoves[moveIdx]
		return m.EnPassantCapture || h.chessState.PieceAt(m.To).IsRival()
	default:
		return false
	}
}

// AllMoves returns every legal move in the current position, in a
// representation uniform across both games, for UI/diagnostic use.
func (h *Handle) AllMoves() []MoveView {
	h.ensureMoves()
	switch h.kind {
	case statetype.Checkers:
		out := make([]MoveView, len(h.checkersMoves))
		for i, m := range h.checkersMoves {
			out[i] = MoveView{From: m.From(), To: m.To(), IsCapture: m.IsCapture()}
		}
		return out
	case statetype.Chess:
		out := make([]MoveView, len(h.chessMoves))
		for i, m := range h.chessMoves {
			out[i] = MoveView{From: m.From, To: m.To, IsCapture: h.IsCapture(i)}
		}
		return out
	default:
		return nil
	}
}

// IsInverted returns true if the position has been inverted an odd
// number of times with respect to its game's starting configuration.
func (h *Handle) IsInverted() bool {
	switch h.kind {
	case statetype.Checkers:
		return h.checkersState.IsInverted()
	case statetype.Chess:
		return h.chessState.IsInverted()
	default:
		return false
	}
}

// IsDraw returns true if the current position is a drawn terminal
// position. Checkers has no in-state draw condition (repetition/move-
// limit draws are an orchestration-level concern); chess reports
// stalemate and insufficient material.
func (h *Handle) IsDraw() bool {
	switch h.kind {
	case statetype.Chess:
		return h.chessState.IsStalemate() || h.chessState.IsInsufficientMaterial()
	default:
		return false
	}
}

// IsLoss returns true if the side to move has no legal moves and that
// absence is a loss rather than a draw: always, for checkers (a
// player unable to move loses); on checkmate, for chess.
func (h *Handle) IsLoss() bool {
	switch h.kind {
	case statetype.Checkers:
		return h.MoveCount() == 0
	case statetype.Chess:
		return h.chessState.IsCheckmate()
	default:
		return false
	}
}

// MoveInvertReset applies the move with the given index, inverts the
// resulting position to the opponent's perspective, and discards the
// cached move list so the next MoveCount/Evaluate recomputes it.
func (h *Handle) MoveInvertReset(moveIdx int) {
	h.ensureMoves()
	switch h.kind {
	case statetype.Checkers:
		h.checkersState.Apply(h.checkersMoves[moveIdx])
		h.checkersState.Invert()
	case statetype.Chess:
		h.chessState.Apply(h.chessMoves[moveIdx])
		h.chessState.Invert()
	}
	h.movesReady = false
	h.checkersMoves = nil
	h.chessMoves = nil
}

func toFloat(v []int) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}

func toInt(v []float64) []int {
	out := make([]int, len(v))
	for i, x := range v {
		out[i] = int(x)
	}
	return out
}

// pieceValue assigns the classical relative material values.
func pieceValue(p chessstate.Piece) float64 {
	var v float64
	switch p.Rank() {
	case chessattack.Pawn:
		v = 1
	case chessattack.Knight, chessattack.Bishop:
		v = 3
	case chessattack.Rook:
		v = 5
	case chessattack.Queen:
		v = 9
	default:
		return 0
	}
	if p.IsRival() {
		return -v
	}
	return v
}

func materialValue(v []int) float64 {
	var total float64
	for _, x := range v {
		total += pieceValue(chessstate.Piece(x))
	}
	return total
}

// chessMaterialReward mirrors checkers.Reward's role for chess: a
// shaping signal proportional to the change in material balance.
func chessMaterialReward(prevVec, nextVec []int) float64 {
	return (materialValue(nextVec) - materialValue(prevVec)) / 50
}
