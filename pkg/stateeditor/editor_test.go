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

package stateeditor_test

import (
	"testing"

	"github.com/dragunovdenis/trainingcell/pkg/checkers"
	"github.com/dragunovdenis/trainingcell/pkg/chessstate"
	"github.com/dragunovdenis/trainingcell/pkg/position"
	"github.com/dragunovdenis/trainingcell/pkg/state"
	"github.com/dragunovdenis/trainingcell/pkg/stateeditor"
	"github.com/dragunovdenis/trainingcell/pkg/statetype"
)

func TestNewStartsFromTheGamesStartingConfiguration(t *testing.T) {
	e := stateeditor.New(statetype.Checkers)
	want := state.StartSeed(statetype.Checkers).Handle().RawVector()
	got := e.ToVector()
	if len(got) != len(want) {
		t.Fatalf("len(ToVector()) = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("square %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestCheckersClearEmptiesEveryDarkSquare(t *testing.T) {
	e := stateeditor.New(statetype.Checkers)
	e.Clear()
	for _, v := range e.ToVector() {
		if v != int(checkers.Space) {
			t.Fatalf("square = %d, want Space after Clear", v)
		}
	}
}

func TestChessClearKeepsExactlyOneKingPerSide(t *testing.T) {
	e := stateeditor.New(statetype.Chess)
	e.Clear()

	var allies, rivals int
	for _, v := range e.ToVector() {
		p := chessstate.Piece(v)
		if !p.IsKing() {
			if !p.IsSpace() {
				t.Fatalf("square holds non-king piece %v after Clear", p)
			}
			continue
		}
		if p.IsAlly() {
			allies++
		} else {
			rivals++
		}
	}
	if allies != 1 || rivals != 1 {
		t.Fatalf("allies=%d rivals=%d, want exactly one king per side", allies, rivals)
	}
}

func TestApplyOptionPlacesTheChosenPieceOnTheTargetSquare(t *testing.T) {
	e := stateeditor.New(statetype.Checkers)
	e.Clear()

	pos := checkers.PositionOf(5)
	opts := e.Options(pos)

	var kingOption int
	for i, v := range opts {
		if checkers.Piece(v) == checkers.King {
			kingOption = i
			break
		}
	}

	if err := e.ApplyOption(pos, kingOption); err != nil {
		t.Fatalf("ApplyOption returned error: %v", err)
	}

	idx, ok := checkers.IndexOf(pos)
	if !ok {
		t.Fatalf("checkers.IndexOf(%v) returned false", pos)
	}
	if got := e.ToVector()[idx]; checkers.Piece(got) != checkers.King {
		t.Fatalf("square %d = %d, want King", idx, got)
	}
}

func TestApplyOptionRejectsOutOfRangeOptionID(t *testing.T) {
	e := stateeditor.New(statetype.Checkers)
	pos := checkers.PositionOf(0)
	if err := e.ApplyOption(pos, len(e.Options(pos))); err == nil {
		t.Fatal("expected an error for an out-of-range option id")
	}
}

func TestApplyOptionRejectsInvalidSquare(t *testing.T) {
	e := stateeditor.New(statetype.Checkers)
	// Light squares aren't valid checkers squares.
	invalid := position.New(0, 0)
	if err := e.ApplyOption(invalid, 0); err == nil {
		t.Fatal("expected an error for a non-dark square")
	}
}

func TestSeedYieldsAHandle(t *testing.T) {
	e := stateeditor.New(statetype.Chess)
	seed := e.Seed()
	h := seed.Handle()
	if h == nil {
		t.Fatal("Seed().Handle() returned nil")
	}
}

func TestResetRestoresTheStartingConfigurationAfterEditing(t *testing.T) {
	e := stateeditor.New(statetype.Checkers)
	e.Clear()
	e.Reset()

	want := state.StartSeed(statetype.Checkers).Handle().RawVector()
	got := e.ToVector()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("square %d = %d, want %d after Reset", i, got[i], want[i])
		}
	}
}
