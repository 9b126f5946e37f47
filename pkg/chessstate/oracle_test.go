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
	"github.com/notnil/chess"
)

// TestStartPositionAgreesWithIndependentOracle cross-checks the start
// position's legal move count and check status against notnil/chess,
// an independent implementation that never shares code with
// pkg/chessstate, the same "generate positions, cross-check" pattern
// pkg/search/eval/classical/tuner/datagen/generate.go uses it for.
func TestStartPositionAgreesWithIndependentOracle(t *testing.T) {
	ours := chessstate.NewStart()
	oracle := chess.NewGame()

	if got, want := len(ours.Moves()), len(oracle.ValidMoves()); got != want {
		t.Errorf("start position legal move count: got %d, want %d (oracle)", got, want)
	}
	if ours.IsInCheck() {
		t.Error("start position should not be in check")
	}
	if oracle.Position().Status() == chess.Checkmate {
		t.Fatal("oracle reports the start position as checkmate, test fixture is broken")
	}
}
