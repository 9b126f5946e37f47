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

package chessstate_test

import (
	"testing"

	"github.com/dragunovdenis/trainingcell/pkg/chessstate"
)

func TestStartPositionLegalMoveCount(t *testing.T) {
	s := chessstate.NewStart()
	moves := s.Moves()
	const want = 20 // 8 pawns x 2 + 2 knights x 2, the classic opening count
	if len(moves) != want {
		t.Errorf("wrong legal move count from start position: got %d, want %d", len(moves), want)
	}
	if s.IsInCheck() {
		t.Error("start position should not be in check")
	}
}

func TestInvertIsInvolution(t *testing.T) {
	s := chessstate.NewStart()
	orig := s.ToVector()
	s.Invert()
	s.Invert()
	got := s.ToVector()
	for i := range orig {
		if orig[i] != got[i] {
			t.Fatalf("invert is not an involution at square %d: %d != %d", i, orig[i], got[i])
		}
	}
}

func TestBackRankMateIsCheckmate(t *testing.T) {
	// Classic back-rank mate: the ally King on g1 is boxed in by its own
	// pawns on f2/g2/h2 and checked along the back rank by a rival
	// Rook on a1, with nothing able to block or capture it.
	v := make([]int, 64)
	at := func(row, col int) int { return row*8 + col }
	v[at(0, 6)] = int(chessstate.King)
	v[at(1, 5)] = int(chessstate.Pawn)
	v[at(1, 6)] = int(chessstate.Pawn)
	v[at(1, 7)] = int(chessstate.Pawn)
	v[at(0, 0)] = -int(chessstate.Rook)

	s := chessstate.NewFromVector(v, false)
	if !s.IsInCheck() {
		t.Fatal("expected the king to be in check")
	}
	if !s.IsCheckmate() {
		t.Errorf("expected checkmate, board:\n%s", s)
	}
}

func TestStalemate(t *testing.T) {
	// The ally King on a1 is not in check but every square it could
	// move to is covered by the rival King and Queen; no other ally
	// piece exists to make a move.
	v := make([]int, 64)
	at := func(row, col int) int { return row*8 + col }
	v[at(0, 0)] = int(chessstate.King)
	v[at(2, 1)] = -int(chessstate.King)
	v[at(1, 2)] = -int(chessstate.Queen)

	s := chessstate.NewFromVector(v, false)
	if s.IsInCheck() {
		t.Fatal("king should not be in check")
	}
	if !s.IsStalemate() {
		t.Errorf("expected stalemate, board:\n%s", s)
	}
}
