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

package ensemble_test

import (
	"testing"

	"github.com/dragunovdenis/trainingcell/internal/util"
	"github.com/dragunovdenis/trainingcell/pkg/agent"
	"github.com/dragunovdenis/trainingcell/pkg/checkers"
	"github.com/dragunovdenis/trainingcell/pkg/converter"
	"github.com/dragunovdenis/trainingcell/pkg/ensemble"
	"github.com/dragunovdenis/trainingcell/pkg/netconv"
	"github.com/dragunovdenis/trainingcell/pkg/state"
	"github.com/dragunovdenis/trainingcell/pkg/statetype"
	"github.com/dragunovdenis/trainingcell/pkg/tdagent"
)

var _ agent.Agent = (*ensemble.Agent)(nil)

func newMember(t *testing.T, seed uint64) *tdagent.Agent {
	t.Helper()
	prng := &util.PRNG{}
	prng.Seed(seed)
	net := netconv.NewMLP([]int{checkers.StateSize, 8, 1}, prng)
	wc := netconv.NewWithConverter(net, converter.New(converter.CheckersStandard))
	settings := tdagent.Settings{
		Lambda:       0.7,
		Discount:     0.9,
		LearningRate: 0.05,
		RewardFactor: 1,
		TrainDepth:   100,
		TrainWhite:   true,
		TrainBlack:   true,
	}
	return tdagent.New("member", statetype.Checkers, wc, settings, seed)
}

func newTestEnsemble(t *testing.T, n int) *ensemble.Agent {
	t.Helper()
	e := ensemble.New("committee", 42)
	for i := 0; i < n; i++ {
		e.Add(newMember(t, uint64(i+1)))
	}
	return e
}

func TestVotingMakeMoveReturnsValidIndex(t *testing.T) {
	e := newTestEnsemble(t, 3)
	h := state.StartSeed(statetype.Checkers).Handle()

	idx := e.MakeMove(h, false)
	if idx < 0 || idx >= h.MoveCount() {
		t.Fatalf("move index %d out of range [0,%d)", idx, h.MoveCount())
	}
}

func TestMultiThreadedVotingMatchesSequentialRange(t *testing.T) {
	e := newTestEnsemble(t, 4)
	e.MultiThreaded = true
	h := state.StartSeed(statetype.Checkers).Handle()

	idx := e.MakeMove(h, true)
	if idx < 0 || idx >= h.MoveCount() {
		t.Fatalf("move index %d out of range [0,%d)", idx, h.MoveCount())
	}
}

func TestSingleAgentModeDelegatesToChosenMember(t *testing.T) {
	e := newTestEnsemble(t, 5)
	if id := e.SetSingleAgentMode(true); id < 0 || id >= e.Len() {
		t.Fatalf("chosen id %d out of range [0,%d)", id, e.Len())
	}
	if !e.IsSingleAgentMode() {
		t.Fatal("expected single-agent mode to be on")
	}

	h := state.StartSeed(statetype.Checkers).Handle()
	want := e.Get(e.CurrentSingleAgentID()).MakeMove(h, false)

	h2 := state.StartSeed(statetype.Checkers).Handle()
	got := e.MakeMove(h2, false)
	if got != want {
		t.Fatalf("single-agent mode move %d did not match chosen member's own move %d", got, want)
	}

	e.SetSingleAgentMode(false)
	if e.IsSingleAgentMode() {
		t.Fatal("expected single-agent mode to be off after disabling")
	}
}

func TestAddAndRemoveAgent(t *testing.T) {
	e := newTestEnsemble(t, 2)
	if e.Len() != 2 {
		t.Fatalf("want 2 members, got %d", e.Len())
	}
	if !e.RemoveAgent(0) {
		t.Fatal("expected removal of valid id to succeed")
	}
	if e.Len() != 1 {
		t.Fatalf("want 1 member after removal, got %d", e.Len())
	}
	if e.RemoveAgent(5) {
		t.Fatal("expected removal of out-of-range id to fail")
	}
}

func TestGameOverNotifiesAllMembersWithoutPanic(t *testing.T) {
	e := newTestEnsemble(t, 3)
	h := state.StartSeed(statetype.Checkers).Handle()

	idx := e.MakeMove(h, false)
	h.MoveInvertReset(idx)

	e.GameOver(false, agent.Win)
	e.GameOver(true, agent.Loss)
}

// TestSetSearchDepthPropagatesToEveryMember checks the testable
// property that after set_search_depth(d), every sub-agent reports
// get_search_depth() == d.
func TestSetSearchDepthPropagatesToEveryMember(t *testing.T) {
	e := newTestEnsemble(t, 4)
	e.SetSearchDepth(17)
	if got := e.GetSearchDepth(); got != 17 {
		t.Fatalf("GetSearchDepth() = %d, want 17", got)
	}
	for i := 0; i < e.Len(); i++ {
		if got := e.Get(i).Settings.TdSearchDepth; got != 17 {
			t.Errorf("member %d TdSearchDepth = %d, want 17", i, got)
		}
	}
}

func TestSetSearchIterationsPropagatesToEveryMember(t *testing.T) {
	e := newTestEnsemble(t, 3)
	e.SetSearchIterations(250)
	if got := e.GetSearchIterations(); got != 250 {
		t.Fatalf("GetSearchIterations() = %d, want 250", got)
	}
	for i := 0; i < e.Len(); i++ {
		if got := e.Get(i).Settings.TdSearchIterations; got != 250 {
			t.Errorf("member %d TdSearchIterations = %d, want 250", i, got)
		}
	}
}

func TestCanTrainReflectsMembers(t *testing.T) {
	e := ensemble.New("empty", 1)
	if e.CanTrain() {
		t.Error("empty ensemble should not report CanTrain")
	}
	e.Add(newMember(t, 9))
	if !e.CanTrain() {
		t.Error("ensemble with a trainable member should report CanTrain")
	}
}
