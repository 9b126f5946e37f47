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

package checkers_test

import (
	"testing"

	"github.com/dragunovdenis/trainingcell/pkg/checkers"
)

func TestStartPositionMoveCount(t *testing.T) {
	s := checkers.NewStart()
	moves := s.Moves()
	const want = 7 // each of the 4 front-row Men has 2 diagonal squares, except the edge Man, which has 1
	if len(moves) != want {
		t.Errorf("wrong move count from start position: got %d, want %d", len(moves), want)
	}
	for _, m := range moves {
		if m.IsCapture() {
			t.Errorf("start position has a capture move: %+v", m)
		}
	}
}

func TestMandatoryCapture(t *testing.T) {
	// Build a position where the mover has a quiet move available but
	// also a single man directly capturable; the capture must be the
	// only legal move.
	v := make([]int, checkers.StateSize)
	moverID, _ := idFor(t, 2, 1)
	rivalID, _ := idFor(t, 3, 2)
	landID, _ := idFor(t, 4, 3)
	otherID, _ := idFor(t, 0, 1) // an unrelated man with quiet moves available
	v[moverID] = int(checkers.Man)
	v[rivalID] = int(checkers.AntiMan)
	v[otherID] = int(checkers.Man)
	_ = landID

	s := checkers.NewFromVector(v, false)
	moves := s.Moves()
	if len(moves) == 0 {
		t.Fatal("expected at least one move")
	}
	for _, m := range moves {
		if !m.IsCapture() {
			t.Errorf("mandatory capture violated: got quiet move %+v", m)
		}
	}
}

func TestApplyPromotesOnLastRow(t *testing.T) {
	v := make([]int, checkers.StateSize)
	startID, _ := idFor(t, 6, 1)
	v[startID] = int(checkers.Man)
	s := checkers.NewFromVector(v, false)

	var found *checkers.Move
	for _, m := range s.Moves() {
		if m.To() >= 0 {
			mm := m
			found = &mm
			break
		}
	}
	if found == nil {
		t.Fatal("expected a move to be available")
	}
	s.Apply(*found)
	vec := s.ToVector()
	if vec[found.To()] != int(checkers.King) {
		t.Errorf("piece reaching last row was not promoted: %d", vec[found.To()])
	}
}

func TestInvertIsInvolution(t *testing.T) {
	s := checkers.NewStart()
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

// idFor is a test helper computing the dark-square index for a given
// row/column, replicating the package's unexported row/col-to-id
// mapping, and failing the test if the square is not playable.
func idFor(t *testing.T, row, col int) (int, bool) {
	t.Helper()
	if (row+col)%2 == 0 {
		t.Fatalf("(%d,%d) is not a dark square", row, col)
	}
	parity := 0
	if row%2 == 0 {
		parity = 1
	}
	return row*4 + (col-parity)/2, true
}
