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

package chessstate

import (
	"fmt"
	"strings"

	"github.com/dragunovdenis/trainingcell/pkg/chessattack"
	"github.com/dragunovdenis/trainingcell/pkg/position"
)

// Field is a single square of the board: the piece occupying it (if
// any) plus the directions from which it is currently attacked by
// ally and rival pieces, encoded as chessattack.Direction tokens.
type Field struct {
	Piece       Piece
	AllyAttack  uint32
	RivalAttack uint32
}

// State is the 64-square chess board, the attack maps of every
// field, and the flag tracking whether it has been inverted with
// respect to the initial configuration.
type State struct {
	fields   [position.FieldsCount]Field
	inverted bool
}

// backRank is the piece order of the first and last ranks.
var backRank = [8]Piece{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewStart returns the chess board in its initial configuration: the
// side to move occupies rows 0-1, the opponent rows 6-7.
func NewStart() State {
	var s State
	for col := 0; col < position.Columns; col++ {
		s.set(position.New(0, col), NewPiece(backRank[col], true))
		s.set(position.New(1, col), NewPiece(Pawn, true))
		s.set(position.New(6, col), -NewPiece(Pawn, true))
		s.set(position.New(7, col), -NewPiece(backRank[col], true))
	}
	s.rebuildAttacks()
	return s
}

func (s *State) set(p position.Position, piece Piece) {
	s.fields[p.Index()].Piece = piece
}

// ToVector returns the 64-long int-vector projection of the state.
func (s State) ToVector() []int {
	v := make([]int, position.FieldsCount)
	for i, f := range s.fields {
		v[i] = int(f.Piece)
	}
	return v
}

// NewFromVector builds a State from a 64-long int-vector projection,
// preserving the inverted flag passed in, and rebuilds attack maps.
func NewFromVector(v []int, inverted bool) State {
	var s State
	for i := 0; i < position.FieldsCount && i < len(v); i++ {
		s.fields[i].Piece = Piece(v[i])
	}
	s.inverted = inverted
	s.rebuildAttacks()
	return s
}

// IsInverted returns true if the state has been inverted an odd
// number of times with respect to the initial configuration.
func (s State) IsInverted() bool {
	return s.inverted
}

// PieceAt returns the piece token occupying the given field index.
func (s State) PieceAt(idx int) Piece {
	return s.fields[idx].Piece
}

func directionsFor(p Piece) []chessattack.Direction {
	if p.Rank() == chessattack.Pawn {
		if p.IsAlly() {
			return chessattack.Directions(chessattack.Pawn)
		}
		return chessattack.AntiPawnDirections()
	}
	return chessattack.Directions(p.Rank())
}

// rebuildAttacks builds the attack maps from scratch by committing
// each piece's own attack directions once. This is only used at
// construction time (NewStart, NewFromVector), grounded on the
// original engine's ChessState::build(), which does the same
// per-piece commit_attack loop. Once a State exists, Apply and Invert
// never call this again: they maintain the maps incrementally (see
// vacate/occupy below, and the token swap in Invert).
func (s *State) rebuildAttacks() {
	for i := range s.fields {
		s.fields[i].AllyAttack = 0
		s.fields[i].RivalAttack = 0
	}
	for i, f := range s.fields {
		if f.Piece.IsSpace() {
			continue
		}
		s.commitAttack(directionsFor(f.Piece), position.FromIndex(i), f.Piece.IsRival())
	}
}

// longRangeMask covers the token bits belonging to the long-range
// (rook/bishop/queen) direction group, the only rays that can be
// blocked partway through and resume once the blocker is gone.
const longRangeMask = uint32(1<<chessattack.BitsPerGroup - 1)

// decodeLongRange returns the long-range directions whose token bit is
// set in mask: the rays already known to be hitting a square, which
// must be re-walked past it once whatever was blocking them there
// leaves, or withdrawn once something new blocks them.
func decodeLongRange(mask uint32) []chessattack.Direction {
	mask &= longRangeMask
	if mask == 0 {
		return nil
	}
	var out []chessattack.Direction
	for _, d := range chessattack.QueenDirections() {
		if d.Token&mask != 0 {
			out = append(out, d)
		}
	}
	return out
}

// processAttack walks each direction from pos, tagging (add) or
// clearing (!add) its token on every field reached: into the rival
// attack map if markRival, the ally one otherwise. A long-range
// direction keeps walking past empty fields and stops, after tagging
// the landing field, at the first occupied one.
func (s *State) processAttack(dirs []chessattack.Direction, pos position.Position, markRival, add bool) {
	for _, d := range dirs {
		cur := pos
		for {
			cur = cur.Add(d.Delta)
			if !cur.IsValid() {
				break
			}
			idx := cur.Index()
			field := &s.fields[idx]
			target := &field.AllyAttack
			if markRival {
				target = &field.RivalAttack
			}
			if add {
				*target |= d.Token
			} else {
				*target &^= d.Token
			}
			if !d.LongRange || !field.Piece.IsSpace() {
				break
			}
		}
	}
}

func (s *State) commitAttack(dirs []chessattack.Direction, pos position.Position, markRival bool) {
	s.processAttack(dirs, pos, markRival, true)
}

func (s *State) withdrawAttack(dirs []chessattack.Direction, pos position.Position, markRival bool) {
	s.processAttack(dirs, pos, markRival, false)
}

// vacate removes the piece at idx, the incremental counterpart of a
// square being left: long-range rays it had been blocking (from
// either side) resume past it, then its own attack directions are
// withdrawn. Grounded on ChessState::make_move_and_update_attack_field
// lifting the start square, generalised from ally-only (the original
// only ever vacates the mover's own square) to either color so it can
// also remove an en passant victim, which sits off the move's To
// square.
func (s *State) vacate(idx int) {
	f := s.fields[idx]
	if f.Piece.IsSpace() {
		return
	}
	pos := position.FromIndex(idx)
	s.commitAttack(decodeLongRange(f.RivalAttack), pos, true)
	s.withdrawAttack(directionsFor(f.Piece), pos, f.Piece.IsRival())
	s.commitAttack(decodeLongRange(f.AllyAttack), pos, false)
	s.fields[idx].Piece = Space
}

// occupy places piece on idx, the incremental counterpart of a square
// being landed on: whatever the square held before (a captured piece's
// own attacks, or pass-through rays if it was empty) is withdrawn,
// then piece's own attack directions are committed from its new
// square. Grounded on the same function's handling of the finish
// square.
func (s *State) occupy(idx int, piece Piece) {
	f := s.fields[idx]
	pos := position.FromIndex(idx)
	if f.Piece.IsSpace() {
		s.withdrawAttack(decodeLongRange(f.RivalAttack), pos, true)
		s.withdrawAttack(decodeLongRange(f.AllyAttack), pos, false)
	} else {
		s.withdrawAttack(directionsFor(f.Piece), pos, f.Piece.IsRival())
	}
	s.commitAttack(directionsFor(piece), pos, piece.IsRival())
	s.fields[idx].Piece = piece
}

// locateKing returns the field index of the ally King, or -1 if none
// is present (which should not happen in a reachable position).
func (s State) locateKing() int {
	for i, f := range s.fields {
		if f.Piece.IsAlly() && f.Piece.Rank() == chessattack.King {
			return i
		}
	}
	return -1
}

// IsInCheck returns true if the ally King is currently attacked.
func (s State) IsInCheck() bool {
	k := s.locateKing()
	return k >= 0 && s.fields[k].RivalAttack != 0
}

// Move is a chess move: the field moved from and to, an optional
// promotion rank, and the extra bookkeeping needed for en passant and
// castling.
type Move struct {
	From, To  int
	Promotion chessattack.Rank // chessattack.NoRank unless this move promotes a pawn

	EnPassantCapture bool // true if the captured pawn is not on To
	EnPassantField   int  // field of the captured pawn, when EnPassantCapture

	IsCastle      bool
	RookFrom      int
	RookTo        int
}

// String renders a move in simple from-to square notation for
// diagnostics.
func (m Move) String() string {
	p := position.FromIndex(m.From)
	q := position.FromIndex(m.To)
	return fmt.Sprintf("%d%d-%d%d", p.Row, p.Col, q.Row, q.Col)
}

// Moves returns the fully legal moves (no move that leaves the ally
// King in check) available to the side to move.
func (s State) Moves() []Move {
	pseudo := s.pseudoLegalMoves()
	legal := make([]Move, 0, len(pseudo))
	for _, m := range pseudo {
		scratch := s
		scratch.Apply(m)
		if !scratch.isAllyInCheckAfterOwnMove() {
			legal = append(legal, m)
		}
	}
	return legal
}

// isAllyInCheckAfterOwnMove mirrors IsInCheck but is named separately
// to document that it is evaluated against the *mover's* king right
// after Apply, before any Invert call swaps perspective.
func (s State) isAllyInCheckAfterOwnMove() bool {
	return s.IsInCheck()
}

func (s State) pseudoLegalMoves() []Move {
	var moves []Move
	for i, f := range s.fields {
		if !f.Piece.IsAlly() {
			continue
		}
		from := position.FromIndex(i)
		switch f.Piece.Rank() {
		case chessattack.Pawn:
			moves = append(moves, s.pawnMoves(i, from)...)
		case chessattack.King:
			moves = append(moves, s.stepMoves(i, from, chessattack.KingDirections())...)
			moves = append(moves, s.castleMoves(i, from)...)
		default:
			moves = append(moves, s.rayMoves(i, from, chessattack.Directions(f.Piece.Rank()))...)
		}
	}
	return moves
}

func appendableDirections(dirs [8]chessattack.Direction) []chessattack.Direction {
	out := make([]chessattack.Direction, len(dirs))
	copy(out, dirs[:])
	return out
}

func (s State) stepMoves(from int, pos position.Position, dirs [8]chessattack.Direction) []Move {
	return s.rayMoves(from, pos, appendableDirections(dirs))
}

// rayMoves walks each direction, stopping upon leaving the board or
// hitting any piece; a rival piece's square is included as a capture,
// an ally piece's square is not.
func (s State) rayMoves(from int, pos position.Position, dirs []chessattack.Direction) []Move {
	var moves []Move
	for _, d := range dirs {
		cur := pos
		for {
			cur = cur.Add(d.Delta)
			if !cur.IsValid() {
				break
			}
			idx := cur.Index()
			target := s.fields[idx].Piece
			if target.IsAlly() {
				break
			}
			moves = append(moves, Move{From: from, To: idx})
			if target.IsRival() || !d.LongRange {
				break
			}
		}
	}
	return moves
}

func (s State) pawnMoves(from int, pos position.Position) []Move {
	var moves []Move

	oneAhead := pos.Add(position.Position{Row: 1, Col: 0})
	if oneAhead.IsValid() && s.fields[oneAhead.Index()].Piece.IsSpace() {
		moves = append(moves, pawnMovesWithPromotion(from, oneAhead.Index(), oneAhead.Row)...)
		if pos.Row == 1 {
			twoAhead := pos.Add(position.Position{Row: 2, Col: 0})
			if s.fields[twoAhead.Index()].Piece.IsSpace() {
				moves = append(moves, Move{From: from, To: twoAhead.Index()})
			}
		}
	}

	for _, d := range chessattack.Directions(chessattack.Pawn) {
		cap := pos.Add(d.Delta)
		if !cap.IsValid() {
			continue
		}
		idx := cap.Index()
		target := s.fields[idx].Piece
		switch {
		case target.IsRival():
			moves = append(moves, pawnMovesWithPromotion(from, idx, cap.Row)...)
		case target.IsSpace():
			if ep, ok := s.enPassantTarget(cap); ok {
				moves = append(moves, Move{From: from, To: idx, EnPassantCapture: true, EnPassantField: ep})
			}
		}
	}
	return moves
}

// enPassantTarget returns the field index of a rival pawn that can be
// captured en passant by moving diagonally into the empty square cap.
func (s State) enPassantTarget(cap position.Position) (int, bool) {
	behind := cap.Add(position.Position{Row: -1, Col: 0})
	if !behind.IsValid() {
		return 0, false
	}
	idx := behind.Index()
	f := s.fields[idx].Piece
	if f.IsRival() && f.IsPawn() && f.IsEnPassant() {
		return idx, true
	}
	return 0, false
}

func pawnMovesWithPromotion(from, to, destRow int) []Move {
	const lastRow = position.Rows - 1
	if destRow != lastRow {
		return []Move{{From: from, To: to}}
	}
	ranks := []chessattack.Rank{chessattack.Queen, chessattack.Rook, chessattack.Bishop, chessattack.Knight}
	moves := make([]Move, len(ranks))
	for i, r := range ranks {
		moves[i] = Move{From: from, To: to, Promotion: r}
	}
	return moves
}

func (s State) castleMoves(kingField int, kingPos position.Position) []Move {
	king := s.fields[kingField].Piece
	if !king.IsInitial() || s.fields[kingField].RivalAttack != 0 {
		return nil
	}
	var moves []Move
	// king-side: rook at column 7, squares 5,6 empty and not attacked.
	if m, ok := s.castleAttempt(kingField, kingPos, 7, []int{5, 6}); ok {
		moves = append(moves, m)
	}
	// queen-side: rook at column 0, squares 1,2,3 empty, 2,3 not attacked.
	if m, ok := s.castleAttempt(kingField, kingPos, 0, []int{1, 2, 3}); ok {
		moves = append(moves, m)
	}
	return moves
}

func (s State) castleAttempt(kingField int, kingPos position.Position, rookCol int, betweenCols []int) (Move, bool) {
	rookPos := position.New(kingPos.Row, rookCol)
	rookField := rookPos.Index()
	rook := s.fields[rookField].Piece
	if !rook.IsInitial() || rook.Rank() != chessattack.Rook || !rook.IsAlly() {
		return Move{}, false
	}
	for _, col := range betweenCols {
		f := s.fields[position.New(kingPos.Row, col).Index()]
		if !f.Piece.IsSpace() {
			return Move{}, false
		}
	}
	// the king may not pass through or land on an attacked square; it
	// travels two squares towards the rook.
	dir := 1
	if rookCol == 0 {
		dir = -1
	}
	for step := 1; step <= 2; step++ {
		idx := position.New(kingPos.Row, kingPos.Col+dir*step).Index()
		if s.fields[idx].RivalAttack != 0 {
			return Move{}, false
		}
	}
	kingTo := position.New(kingPos.Row, kingPos.Col+dir*2).Index()
	rookTo := position.New(kingPos.Row, kingPos.Col+dir).Index()
	return Move{From: kingField, To: kingTo, IsCastle: true, RookFrom: rookField, RookTo: rookTo}, true
}

// Apply plays the given move: relocates the piece (handling capture,
// en passant, castling and promotion), updates initial-position and
// en-passant flags, and incrementally updates the attack maps via
// vacate/occupy rather than rebuilding them.
func (s *State) Apply(m Move) {
	p := s.fields[m.From].Piece.ClearFlags()

	// the en passant flag only survives for one ply.
	for i := range s.fields {
		if s.fields[i].Piece.IsPawn() && s.fields[i].Piece.IsEnPassant() {
			s.fields[i].Piece = clearEnPassant(s.fields[i].Piece)
		}
	}

	if m.EnPassantCapture {
		s.vacate(m.EnPassantField)
	}

	s.vacate(m.From)

	if p.Rank() == chessattack.Pawn {
		fromRow := position.FromIndex(m.From).Row
		toRow := position.FromIndex(m.To).Row
		if toRow-fromRow == 2 || fromRow-toRow == 2 {
			p = p.WithEnPassant()
		}
	}
	if m.Promotion != chessattack.NoRank {
		p = Piece(m.Promotion)
	}
	s.occupy(m.To, p)

	if m.IsCastle {
		rook := s.fields[m.RookFrom].Piece.ClearFlags()
		s.vacate(m.RookFrom)
		s.occupy(m.RookTo, rook)
	}
}

func clearEnPassant(p Piece) Piece {
	cleared := p.FullRank() &^ enPassantFlag
	if p < 0 {
		return -cleared
	}
	return cleared
}

// remapAntipodal swaps each direction's token bit with its antipodal
// partner's: chessattack's direction tables pair entries (2k, 2k+1) as
// negations of each other within every 8-bit group (e.g. queen
// direction 0 is (+1,0), direction 1 is (-1,0)), so this is the
// token-space counterpart of reversing every attack ray.
func remapAntipodal(token uint32) uint32 {
	const even = 0x555555 // bits 0,2,4,... across all 3 direction groups
	const odd = 0xaaaaaa  // bits 1,3,5,...
	return (token&even)<<1 | (token&odd)>>1
}

// Invert mirrors the board 180 degrees, negates every piece's sign and
// toggles the inverted flag. Unlike Apply, this never walks a single
// ray: a 180-degree rotation maps every attack direction to its
// antipodal partner (see remapAntipodal) and swaps which side, ally or
// rival, an attack belongs to, so each field's new tokens are just its
// mirror field's old tokens, swapped and remapped. Grounded on
// ChessState::Field::assign_inverted and swap_attack_tokens, adapted
// to this port's direction tables (which aren't negated per the
// moving piece's color the way the original's are, so the swap alone
// is not enough here; the bit remap restores equivalence).
func (s *State) Invert() {
	var next [position.FieldsCount]Field
	for i, f := range s.fields {
		j := position.FromIndex(i).Invert().Index()
		next[j] = Field{
			Piece:       -f.Piece,
			AllyAttack:  remapAntipodal(f.RivalAttack),
			RivalAttack: remapAntipodal(f.AllyAttack),
		}
	}
	s.fields = next
	s.inverted = !s.inverted
}

// IsCheckmate returns true if the side to move has no legal moves and
// is currently in check.
func (s State) IsCheckmate() bool {
	return s.IsInCheck() && len(s.Moves()) == 0
}

// IsStalemate returns true if the side to move has no legal moves and
// is not currently in check.
func (s State) IsStalemate() bool {
	return !s.IsInCheck() && len(s.Moves()) == 0
}

// IsInsufficientMaterial returns true if neither side has enough
// material left to deliver checkmate: K vs K, K+minor vs K, or K+B vs
// K+B with same-colored bishops.
func (s State) IsInsufficientMaterial() bool {
	var allyMinors, rivalMinors int
	var allyBishopOnLight, rivalBishopOnLight bool
	hasBishop := map[bool]bool{}
	for i, f := range s.fields {
		switch f.Piece.Rank() {
		case chessattack.Pawn, chessattack.Rook, chessattack.Queen:
			return false
		case chessattack.Knight:
			if f.Piece.IsAlly() {
				allyMinors++
			} else if f.Piece.IsRival() {
				rivalMinors++
			}
		case chessattack.Bishop:
			pos := position.FromIndex(i)
			light := (pos.Row+pos.Col)%2 == 1
			if f.Piece.IsAlly() {
				allyMinors++
				allyBishopOnLight = light
				hasBishop[true] = true
			} else if f.Piece.IsRival() {
				rivalMinors++
				rivalBishopOnLight = light
				hasBishop[false] = true
			}
		}
	}
	if allyMinors == 0 && rivalMinors == 0 {
		return true
	}
	if allyMinors == 1 && rivalMinors == 0 || allyMinors == 0 && rivalMinors == 1 {
		return true
	}
	if allyMinors == 1 && rivalMinors == 1 && hasBishop[true] && hasBishop[false] {
		return allyBishopOnLight == rivalBishopOnLight
	}
	return false
}

// String renders the board as 8 rows of space-separated piece tokens.
func (s State) String() string {
	var b strings.Builder
	for row := position.Rows - 1; row >= 0; row-- {
		for col := 0; col < position.Columns; col++ {
			fmt.Fprintf(&b, "%s ", s.fields[position.New(row, col).Index()].Piece)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
