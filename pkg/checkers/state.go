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

package checkers

import (
	"fmt"
	"strings"

	"github.com/dragunovdenis/trainingcell/pkg/position"
)

// StateSize is the number of playable (dark) squares on the board.
const StateSize = position.FieldsCount / 2

// lastRow is the row a Man must reach to be promoted to King.
const lastRow = position.Rows - 1

// diagonals are the four diagonal unit steps a piece can move along.
var diagonals = [4]position.Position{
	{Row: 1, Col: 1},
	{Row: 1, Col: -1},
	{Row: -1, Col: 1},
	{Row: -1, Col: -1},
}

// forwardDiagonals are the two diagonals a Man may use for a quiet
// move (it always advances towards increasing rows).
var forwardDiagonals = [2]position.Position{
	{Row: 1, Col: 1},
	{Row: 1, Col: -1},
}

// PositionOf converts a dark-square index in [0, 32) to its Position,
// for callers outside the package (e.g. pkg/stateeditor) that need to
// enumerate squares by board coordinate rather than index.
func PositionOf(id int) position.Position {
	return idToPos(id)
}

// IndexOf converts a Position to its dark-square index, reporting
// false if pos isn't a valid dark square.
func IndexOf(pos position.Position) (int, bool) {
	return posToID(pos)
}

// idToPos converts a dark-square index in [0, 32) to its Position.
func idToPos(id int) position.Position {
	row := id / 4
	offset := id % 4
	var col int
	if row%2 == 0 {
		col = 2*offset + 1
	} else {
		col = 2 * offset
	}
	return position.Position{Row: row, Col: col}
}

// posToID converts a Position to its dark-square index. The second
// return value is false if the position is not a valid dark square.
func posToID(p position.Position) (int, bool) {
	if !p.IsCheckerboardValid() {
		return 0, false
	}
	var offsetParity int
	if p.Row%2 == 0 {
		offsetParity = 1
	}
	offset := (p.Col - offsetParity) / 2
	return p.Row*4 + offset, true
}

// State is the 32-square checkers board together with the flag
// tracking whether it has been inverted with respect to the initial
// configuration.
type State struct {
	squares  [StateSize]Piece
	inverted bool
}

// NewStart returns the checkers board in its initial configuration:
// the side to move's Men occupy the first three rows, the opponent's
// the last three.
func NewStart() State {
	var s State
	for id := 0; id < StateSize; id++ {
		row := idToPos(id).Row
		switch {
		case row <= 2:
			s.squares[id] = Man
		case row >= 5:
			s.squares[id] = AntiMan
		default:
			s.squares[id] = Space
		}
	}
	return s
}

// NewFromVector builds a State from a 32-long int-vector projection
// (see ToVector), preserving the inverted flag passed in.
func NewFromVector(v []int, inverted bool) State {
	var s State
	for i := 0; i < StateSize && i < len(v); i++ {
		s.squares[i] = Piece(v[i])
	}
	s.inverted = inverted
	return s
}

// IsInverted returns true if the state has been inverted an odd number
// of times with respect to the initial configuration.
func (s State) IsInverted() bool {
	return s.inverted
}

// ToVector returns the 32-long int-vector projection of the state.
func (s State) ToVector() []int {
	v := make([]int, StateSize)
	for i, p := range s.squares {
		v[i] = int(p)
	}
	return v
}

// ToVector64 returns the 64-long int-vector expansion of the state,
// placing each token at its full board coordinate and 0 elsewhere.
func (s State) ToVector64() []int {
	v := make([]int, position.FieldsCount)
	for id, p := range s.squares {
		v[idToPos(id).Index()] = int(p)
	}
	return v
}

// Score tallies the number of pieces of each kind currently on s.
func (s State) Score() Score {
	var sc Score
	for _, p := range s.squares {
		sc.inc(p)
	}
	return sc
}

// ScoreOfVector tallies a 32-long int-vector projection the same way
// State.Score does, for computing a reward between two raw vectors.
func ScoreOfVector(v []int) Score {
	var sc Score
	for _, x := range v {
		sc.inc(Piece(x))
	}
	return sc
}

// Reward computes the shaping reward for a transition from prevVec to
// nextVec: (2·ΔKing + ΔMan − ΔAntiMan − 2·ΔAntiKing) / 50, where Δ is
// the signed change in piece count between the two vectors.
func Reward(prevVec, nextVec []int) float64 {
	prev := ScoreOfVector(prevVec)
	next := ScoreOfVector(nextVec)
	d := next.Diff(prev)
	return float64(2*d.Count(King)+d.Count(Man)-d.Count(AntiMan)-2*d.Count(AntiKing)) / 50
}

// Invert mirrors the board 180 degrees, negates every piece's rank and
// toggles the inverted flag. Invert is an involution.
func (s *State) Invert() {
	var next [StateSize]Piece
	for id, p := range s.squares {
		newPos := idToPos(id).Invert()
		newID, _ := posToID(newPos)
		next[newID] = -p
	}
	s.squares = next
	s.inverted = !s.inverted
}

// Move is a checkers move: a quiet single-square step, or a capture
// chain recorded as the sequence of squares visited and the square
// captured at each hop.
type Move struct {
	path     []int
	captures []int // len(path)-1 entries; -1 at index i means hop i was not a capture
}

// From returns the square the moved piece started on.
func (m Move) From() int { return m.path[0] }

// To returns the square the moved piece ends on.
func (m Move) To() int { return m.path[len(m.path)-1] }

// Path returns the full sequence of squares visited by the move,
// including the starting square.
func (m Move) Path() []int { return m.path }

// IsCapture returns true if the move captures at least one piece.
func (m Move) IsCapture() bool {
	return len(m.captures) > 0 && m.captures[0] >= 0
}

// CapturedSquares returns the squares of the pieces captured by the
// move, in the order they were taken.
func (m Move) CapturedSquares() []int {
	if !m.IsCapture() {
		return nil
	}
	return m.captures
}

// Moves returns the legal moves available to the side to move. Per
// the mandatory-capture rule, if any capture chain exists, only
// capture moves are returned.
func (s State) Moves() []Move {
	captures := s.generateCaptures()
	if len(captures) > 0 {
		return captures
	}
	return s.generateQuiet()
}

func (s State) generateQuiet() []Move {
	var moves []Move
	for id, p := range s.squares {
		if !p.IsAlly() {
			continue
		}
		from := idToPos(id)
		if p == Man {
			for _, d := range forwardDiagonals {
				to := from.Add(d)
				if tid, ok := posToID(to); ok && s.squares[tid] == Space {
					moves = append(moves, Move{path: []int{id, tid}, captures: []int{-1}})
				}
			}
			continue
		}
		// King: walk each diagonal through consecutive empty squares.
		for _, d := range diagonals {
			cur := from
			for {
				cur = cur.Add(d)
				tid, ok := posToID(cur)
				if !ok || s.squares[tid] != Space {
					break
				}
				moves = append(moves, Move{path: []int{id, tid}, captures: []int{-1}})
			}
		}
	}
	return moves
}

func (s State) generateCaptures() []Move {
	var out []Move
	for id, p := range s.squares {
		if !p.IsAlly() {
			continue
		}
		work := s.squares
		captureChain(&work, id, p, []int{id}, nil, &out)
	}
	return out
}

// captureChain explores one capture chain rooted at id, recursively.
// work is the board as it stands mid-chain (captured pieces marked
// AntiCaptured in place, not removed, so the same piece cannot be
// captured twice within one move).
func captureChain(work *[StateSize]Piece, id int, p Piece, path []int, captures []int, out *[]Move) {
	pos := idToPos(id)
	extended := false

	for _, d := range diagonals {
		cur := pos
		for {
			cur = cur.Add(d)
			tid, ok := posToID(cur)
			if !ok {
				break
			}
			tp := work[tid]
			if tp == Space {
				if p.IsKing() {
					continue // king may walk over empty squares before a capture
				}
				break // man cannot approach beyond the adjacent square
			}
			if tp.IsOpponent() {
				land := cur.Add(d)
				lid, lok := posToID(land)
				if lok && work[lid] == Space {
					extended = true
					next := *work
					next[tid] = AntiCaptured
					next[id] = Space
					newPiece := p
					promoted := false
					if newPiece == Man && land.Row == lastRow {
						newPiece = King
						promoted = true
					}
					next[lid] = newPiece
					newPath := append(append([]int{}, path...), lid)
					newCaptures := append(append([]int{}, captures...), tid)
					if promoted {
						*out = append(*out, Move{path: newPath, captures: newCaptures})
					} else {
						captureChain(&next, lid, newPiece, newPath, newCaptures, out)
					}
				}
			}
			break // either ally, already-captured marker, or a rival we
			// just tried (and failed/succeeded) to capture: the ray is
			// blocked from here regardless.
		}
	}

	if !extended && len(path) > 1 {
		*out = append(*out, Move{path: path, captures: captures})
	}
}

// String renders the board as 8 rows of space-separated piece tokens,
// light squares shown as "*".
func (s State) String() string {
	var b strings.Builder
	for row := position.Rows - 1; row >= 0; row-- {
		for col := 0; col < position.Columns; col++ {
			p := position.New(row, col)
			if !p.IsCheckerboardValid() {
				b.WriteString("* ")
				continue
			}
			id, _ := posToID(p)
			fmt.Fprintf(&b, "%s ", s.squares[id])
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Apply plays the given move on the board: clears captured squares,
// relocates the moving piece, and promotes it if it lands on the last
// row.
func (s *State) Apply(m Move) {
	p := s.squares[m.From()]
	s.squares[m.From()] = Space
	for _, cid := range m.captures {
		if cid >= 0 {
			s.squares[cid] = Space
		}
	}
	land := m.To()
	if p == Man && idToPos(land).Row == lastRow {
		p = King
	}
	s.squares[land] = p
}
