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

// Package chessattack encodes the directions chess pieces attack
// along, and the bitmask tokens used to track, per field, which
// directions are currently attacking it.
package chessattack

import "github.com/dragunovdenis/trainingcell/pkg/position"

// BitsPerGroup is the number of token bits reserved for each of the
// three direction groups (long-range, short-range, knight).
const BitsPerGroup = 8

// Mask covers every bit used across the three direction groups.
const Mask = 1<<(3*BitsPerGroup) - 1

// Direction is one step a piece can attack along, together with the
// unique bit token identifying it and whether it can be repeated
// (long-range) or only applied once (short-range, knight).
type Direction struct {
	Delta     position.Position
	Token     uint32
	LongRange bool
}

// CanReach reports whether end can be reached from start by adding
// the direction some positive number of times, returning that count.
// For a non-long-range direction the only possible count is 1.
func (d Direction) CanReach(start, end position.Position) (int, bool) {
	diff := end.Sub(start)
	if diff.Row == 0 && diff.Col == 0 {
		return 0, false
	}
	if !d.LongRange {
		return 1, diff.Equal(d.Delta)
	}
	if d.Delta.Row == 0 {
		if diff.Row != 0 || diff.Col%d.Delta.Col != 0 {
			return 0, false
		}
		n := diff.Col / d.Delta.Col
		return n, n > 0
	}
	if d.Delta.Col == 0 {
		if diff.Col != 0 || diff.Row%d.Delta.Row != 0 {
			return 0, false
		}
		n := diff.Row / d.Delta.Row
		return n, n > 0
	}
	if diff.Row%d.Delta.Row != 0 || diff.Col%d.Delta.Col != 0 {
		return 0, false
	}
	n := diff.Row / d.Delta.Row
	if n != diff.Col/d.Delta.Col {
		return 0, false
	}
	return n, n > 0
}

// queenDirections are the 8 long-range straight/diagonal directions,
// tokens occupying bits [0, BitsPerGroup).
var queenDirections = [8]Direction{
	{Delta: position.Position{Row: 1, Col: 0}, Token: 1 << 0, LongRange: true},
	{Delta: position.Position{Row: -1, Col: 0}, Token: 1 << 1, LongRange: true},
	{Delta: position.Position{Row: 0, Col: 1}, Token: 1 << 2, LongRange: true},
	{Delta: position.Position{Row: 0, Col: -1}, Token: 1 << 3, LongRange: true},
	{Delta: position.Position{Row: 1, Col: 1}, Token: 1 << 4, LongRange: true},
	{Delta: position.Position{Row: -1, Col: -1}, Token: 1 << 5, LongRange: true},
	{Delta: position.Position{Row: -1, Col: 1}, Token: 1 << 6, LongRange: true},
	{Delta: position.Position{Row: 1, Col: -1}, Token: 1 << 7, LongRange: true},
}

// kingDirections are the same 8 unit vectors as queenDirections, but
// applied only once; tokens occupy bits [BitsPerGroup, 2*BitsPerGroup).
var kingDirections = [8]Direction{
	{Delta: position.Position{Row: 1, Col: 0}, Token: 1 << (BitsPerGroup + 0)},
	{Delta: position.Position{Row: -1, Col: 0}, Token: 1 << (BitsPerGroup + 1)},
	{Delta: position.Position{Row: 0, Col: 1}, Token: 1 << (BitsPerGroup + 2)},
	{Delta: position.Position{Row: 0, Col: -1}, Token: 1 << (BitsPerGroup + 3)},
	{Delta: position.Position{Row: 1, Col: 1}, Token: 1 << (BitsPerGroup + 4)},
	{Delta: position.Position{Row: -1, Col: -1}, Token: 1 << (BitsPerGroup + 5)},
	{Delta: position.Position{Row: -1, Col: 1}, Token: 1 << (BitsPerGroup + 6)},
	{Delta: position.Position{Row: 1, Col: -1}, Token: 1 << (BitsPerGroup + 7)},
}

// knightDirections are the 8 L-shaped knight jumps; tokens occupy
// bits [2*BitsPerGroup, 3*BitsPerGroup).
var knightDirections = [8]Direction{
	{Delta: position.Position{Row: 1, Col: 2}, Token: 1 << (2*BitsPerGroup + 0)},
	{Delta: position.Position{Row: -1, Col: -2}, Token: 1 << (2*BitsPerGroup + 1)},
	{Delta: position.Position{Row: 2, Col: 1}, Token: 1 << (2*BitsPerGroup + 2)},
	{Delta: position.Position{Row: -2, Col: -1}, Token: 1 << (2*BitsPerGroup + 3)},
	{Delta: position.Position{Row: -1, Col: 2}, Token: 1 << (2*BitsPerGroup + 4)},
	{Delta: position.Position{Row: 1, Col: -2}, Token: 1 << (2*BitsPerGroup + 5)},
	{Delta: position.Position{Row: -2, Col: 1}, Token: 1 << (2*BitsPerGroup + 6)},
	{Delta: position.Position{Row: 2, Col: -1}, Token: 1 << (2*BitsPerGroup + 7)},
}

// pawnDirections are a pawn's two diagonal capture/attack directions
// (it advances towards increasing rows).
var pawnDirections = []Direction{kingDirections[4], kingDirections[7]}

// antiPawnDirections are the opponent pawn's two diagonal attack
// directions (it advances towards decreasing rows).
var antiPawnDirections = []Direction{kingDirections[5], kingDirections[6]}

var bishopDirections = queenDirections[4:8]
var rookDirections = queenDirections[0:4]

// Rank identifies the type of a chess piece, independent of color.
type Rank int

// Rank values match the original engine's PieceController encoding
// one-for-one, so a chessstate.Piece's rank bits cast directly.
const (
	NoRank Rank = iota
	Pawn
	Bishop
	Knight
	Rook
	Queen
	King
)

// Directions returns the attack directions available to a piece of
// the given rank, moving "forward" (increasing row) if it is a pawn.
func Directions(r Rank) []Direction {
	switch r {
	case Pawn:
		return pawnDirections
	case Knight:
		return knightDirections[:]
	case Bishop:
		return bishopDirections
	case Rook:
		return rookDirections
	case Queen:
		return queenDirections[:]
	case King:
		return kingDirections[:]
	default:
		return nil
	}
}

// AntiPawnDirections returns the attack directions of an opposing
// pawn, which advances the opposite way.
func AntiPawnDirections() []Direction {
	return antiPawnDirections
}

// KingDirections returns the 8 unit-step directions a king (or an
// attacking ray's single-step reach) can move along.
func KingDirections() [8]Direction {
	return kingDirections
}

// QueenDirections returns the 8 long-range straight/diagonal
// directions a queen (or rook/bishop subset) can move along.
func QueenDirections() [8]Direction {
	return queenDirections
}
