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

package tdagent_test

import (
	"testing"

	"github.com/dragunovdenis/trainingcell/internal/util"
	"github.com/dragunovdenis/trainingcell/pkg/agent"
	"github.com/dragunovdenis/trainingcell/pkg/checkers"
	"github.com/dragunovdenis/trainingcell/pkg/converter"
	"github.com/dragunovdenis/trainingcell/pkg/netconv"
	"github.com/dragunovdenis/trainingcell/pkg/state"
	"github.com/dragunovdenis/trainingcell/pkg/statetype"
	"github.com/dragunovdenis/trainingcell/pkg/tdagent"
)

var _ agent.Agent = (*tdagent.Agent)(nil)

func newTestAgent(t *testing.T, settings tdagent.Settings, seed uint64) *tdagent.Agent {
	t.Helper()
	prng := &util.PRNG{}
	prng.Seed(seed)
	net := netconv.NewMLP([]int{checkers.StateSize, 8, 1}, prng)
	wc := netconv.NewWithConverter(net, converter.New(converter.CheckersStandard))
	return tdagent.New("test", statetype.Checkers, wc, settings, seed)
}

func trainSettings() tdagent.Settings {
	return tdagent.Settings{
		Lambda:       0.7,
		Discount:     0.9,
		LearningRate: 0.05,
		RewardFactor: 1,
		TrainDepth:   100,
		TrainWhite:   true,
		TrainBlack:   true,
	}
}

func TestMakeMoveReturnsValidIndex(t *testing.T) {
	player := newTestAgent(t, trainSettings(), 1)
	h := state.StartSeed(statetype.Checkers).Handle()

	idx := player.MakeMove(h, false)
	if idx < 0 || idx >= h.MoveCount() {
		t.Fatalf("move index %d out of range [0,%d)", idx, h.MoveCount())
	}
}

func TestPlayoutAndGameOverDoNotPanic(t *testing.T) {
	player := newTestAgent(t, trainSettings(), 2)
	h := state.StartSeed(statetype.Checkers).Handle()

	isWhite := false
	for ply := 0; ply < 6 && h.MoveCount() > 0 && !h.IsLoss(); ply++ {
		idx := player.MakeMove(h, isWhite)
		h.MoveInvertReset(idx)
		isWhite = !isWhite
	}

	player.GameOver(true, agent.Win)
	player.GameOver(false, agent.Loss)
}

func TestNoExplorationGreedyIsDeterministic(t *testing.T) {
	settings := trainSettings()
	settings.ExplorationProbability = 0

	a1 := newTestAgent(t, settings, 5)
	a2 := newTestAgent(t, settings, 5)

	h1 := state.StartSeed(statetype.Checkers).Handle()
	h2 := state.StartSeed(statetype.Checkers).Handle()

	if got, want := a1.MakeMove(h1, false), a2.MakeMove(h2, false); got != want {
		t.Fatalf("same seed and settings produced different moves: %d vs %d", got, want)
	}
}

func TestSearchTDMakeMoveReturnsValidIndex(t *testing.T) {
	settings := trainSettings()
	settings.SearchMethod = tdagent.SearchTD
	settings.TdSearchIterations = 2
	settings.TdSearchDepth = 4
	settings.TdSearchExplorationDepth = 4
	settings.TdSearchExplorationVolume = 1

	player := newTestAgent(t, settings, 11)
	h := state.StartSeed(statetype.Checkers).Handle()

	idx := player.MakeMove(h, false)
	if idx < 0 || idx >= h.MoveCount() {
		t.Fatalf("move index %d out of range [0,%d)", idx, h.MoveCount())
	}
	h.MoveInvertReset(idx)

	// A second move should still work against the now-reused scratch net.
	idx = player.MakeMove(h, true)
	if idx < 0 || idx >= h.MoveCount() {
		t.Fatalf("move index %d out of range [0,%d)", idx, h.MoveCount())
	}

	player.GameOver(true, agent.Win)
	player.GameOver(false, agent.Loss)
}

func TestSearchTDInPerformanceEvaluationModeDoesNotTrain(t *testing.T) {
	settings := trainSettings()
	settings.SearchMethod = tdagent.SearchTD
	settings.TdSearchIterations = 1
	settings.TdSearchDepth = 2
	settings.PerformanceEvaluationMode = true

	player := newTestAgent(t, settings, 12)
	if player.CanTrain() {
		t.Fatal("CanTrain() = true, want false in performance-evaluation mode")
	}

	h := state.StartSeed(statetype.Checkers).Handle()
	idx := player.MakeMove(h, false)
	if idx < 0 || idx >= h.MoveCount() {
		t.Fatalf("move index %d out of range [0,%d)", idx, h.MoveCount())
	}
}

func TestUntrainedSideDoesNotAllocateTrace(t *testing.T) {
	settings := trainSettings()
	settings.TrainBlack = false
	player := newTestAgent(t, settings, 3)
	h := state.StartSeed(statetype.Checkers).Handle()

	// Should not panic even though the black sub-agent never trains.
	idx := player.MakeMove(h, false)
	h.MoveInvertReset(idx)
	idx = player.MakeMove(h, true)
	h.MoveInvertReset(idx)
	player.GameOver(false, agent.Draw)
}
