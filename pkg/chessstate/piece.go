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

// Package chessstate implements the 8x8 chess state machine: piece
// tokens with incrementally-tracked attack maps, legal move
// generation (castling, promotion, en passant), and terminal-position
// detection (checkmate, stalemate, insufficient material).
package chessstate

import "github.com/dragunovdenis/trainingcell/pkg/chessattack"

// rankBits and flagBits size the bitfields packed into a Piece; the
// sign of the Piece's int16 value distinguishes ally from rival.
const (
	rankBits = 3
	rankMask = 1<<rankBits - 1

	initialPositionFlag = 1 << rankBits
	enPassantFlag        = initialPositionFlag << 1
)

// Piece is a packed chess piece token: a rank in bits [0,3), an
// "in initial position" flag and an "en passant capturable" flag, the
// whole thing negated for a rival (opponent) piece. The zero value is
// Space.
type Piece int16

// Ranks, matching the original engine's encoding one-for-one.
const (
	Space Piece = 0
	Pawn  Piece = 1
	Bishop Piece = 2
	Knight Piece = 3
	Rook   Piece = 4
	Queen  Piece = 5
	King   Piece = 6
)

// NewPiece packs a rank, optionally flagged as being in its initial
// position, into an ally Piece token.
func NewPiece(rank Piece, initial bool) Piece {
	p := rank
	if initial {
		p |= initialPositionFlag
	}
	return p
}

// Anti returns the opposing-color counterpart of p, preserving flags.
func (p Piece) Anti() Piece {
	return -p
}

// IsAlly returns true if p is a non-space piece with positive token.
func (p Piece) IsAlly() bool {
	return p > 0
}

// IsRival returns true if p is a non-space piece with negative token.
func (p Piece) IsRival() bool {
	return p < 0
}

// IsSpace returns true if the field holds no piece.
func (p Piece) IsSpace() bool {
	return p == 0
}

// Rank extracts the unsigned rank (Pawn..King) regardless of flags or
// sign.
func (p Piece) Rank() chessattack.Rank {
	v := p
	if v < 0 {
		v = -v
	}
	return chessattack.Rank(v & rankMask)
}

// FullRank extracts the rank and flags, discarding only the sign.
func (p Piece) FullRank() Piece {
	if p < 0 {
		return -p
	}
	return p
}

// IsInitial returns true if p carries the "never moved" flag, used to
// determine castling eligibility.
func (p Piece) IsInitial() bool {
	return p.FullRank()&initialPositionFlag != 0
}

// IsEnPassant returns true if p is a pawn that just advanced two
// squares and can be captured en passant this ply.
func (p Piece) IsEnPassant() bool {
	return p.FullRank()&enPassantFlag != 0
}

// WithEnPassant returns p with the en-passant flag set.
func (p Piece) WithEnPassant() Piece {
	full := p.FullRank() | enPassantFlag
	if p < 0 {
		return -full
	}
	return full
}

// ClearFlags returns p with the initial-position and en-passant flags
// stripped, keeping only rank and sign.
func (p Piece) ClearFlags() Piece {
	r := Piece(p.Rank())
	if p < 0 {
		return -r
	}
	return r
}

// IsKing returns true if p is a King of either color.
func (p Piece) IsKing() bool {
	return p.Rank() == chessattack.King
}

// IsPawn returns true if p is a Pawn of either color.
func (p Piece) IsPawn() bool {
	return p.Rank() == chessattack.Pawn
}

// String returns a single-letter algebraic piece symbol, lower case
// for ally, upper case for rival, "." for Space.
func (p Piece) String() string {
	var letter string
	switch p.Rank() {
	case chessattack.Pawn:
		letter = "p"
	case chessattack.Knight:
		letter = "n"
	case chessattack.Bishop:
		letter = "b"
	case chessattack.Rook:
		letter = "r"
	case chessattack.Queen:
		letter = "q"
	case chessattack.King:
		letter = "k"
	default:
		return "."
	}
	if p < 0 {
		return string(letter[0] - 'a' + 'A')
	}
	return letter
}
