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

package persist_test

import (
	"testing"

	"github.com/dragunovdenis/trainingcell/internal/util"
	"github.com/dragunovdenis/trainingcell/pkg/agent"
	"github.com/dragunovdenis/trainingcell/pkg/checkers"
	"github.com/dragunovdenis/trainingcell/pkg/converter"
	"github.com/dragunovdenis/trainingcell/pkg/ensemble"
	"github.com/dragunovdenis/trainingcell/pkg/netconv"
	"github.com/dragunovdenis/trainingcell/pkg/persist"
	"github.com/dragunovdenis/trainingcell/pkg/statetype"
	"github.com/dragunovdenis/trainingcell/pkg/tdagent"
)

func newTDL(name string, seed uint64) *tdagent.Agent {
	prng := &util.PRNG{}
	prng.Seed(seed)
	net := netconv.NewMLP([]int{checkers.StateSize, 6, 1}, prng)
	wc := netconv.NewWithConverter(net, converter.New(converter.CheckersStandard))
	settings := tdagent.Settings{
		Lambda:       0.7,
		Discount:     0.9,
		LearningRate: 0.05,
		RewardFactor: 1,
		TrainDepth:   30,
		TrainWhite:   true,
		TrainBlack:   true,
	}
	return tdagent.New(name, statetype.Checkers, wc, settings, seed)
}

func openStore(t *testing.T) *persist.Store {
	t.Helper()
	s, err := persist.Open(t.TempDir())
	if err != nil {
		t.Fatalf("persist.Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestTDLRoundTripsThroughAStore(t *testing.T) {
	original := newTDL("alice", 1)
	rec, err := persist.EncodeTDL(original)
	if err != nil {
		t.Fatalf("EncodeTDL: %v", err)
	}
	if rec.TypeID != agent.TDL {
		t.Fatalf("TypeID = %v, want %v", rec.TypeID, agent.TDL)
	}

	s := openStore(t)
	if err := s.Save("alice", rec); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := s.Load("alice")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	restored, err := persist.DecodeTDL("alice", loaded, 1)
	if err != nil {
		t.Fatalf("DecodeTDL: %v", err)
	}
	if restored.Name() != "alice" || restored.Kind != statetype.Checkers {
		t.Fatalf("restored agent = %+v, want name alice, kind Checkers", restored)
	}
}

func TestEnsembleRoundTripsThroughAStore(t *testing.T) {
	e := ensemble.New("committee", 5)
	e.Add(newTDL("m0", 10))
	e.Add(newTDL("m1", 11))
	e.MultiThreaded = true

	rec, err := persist.EncodeEnsemble(e)
	if err != nil {
		t.Fatalf("EncodeEnsemble: %v", err)
	}

	s := openStore(t)
	if err := s.Save("committee", rec); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := s.Load("committee")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	restored, err := persist.DecodeEnsemble("committee", loaded, 5)
	if err != nil {
		t.Fatalf("DecodeEnsemble: %v", err)
	}
	if restored.Len() != 2 {
		t.Fatalf("restored.Len() = %d, want 2", restored.Len())
	}
	if !restored.MultiThreaded {
		t.Fatal("restored.MultiThreaded = false, want true")
	}
}

func TestLoadMissingNameReturnsError(t *testing.T) {
	s := openStore(t)
	if _, err := s.Load("nobody"); err == nil {
		t.Fatal("expected an error loading a name that was never saved")
	}
}

func TestLoadMigratesAPreVersioningRecord(t *testing.T) {
	original := newTDL("legacy", 3)
	rec, err := persist.EncodeTDL(original)
	if err != nil {
		t.Fatalf("EncodeTDL: %v", err)
	}
	rec.Version = 0 // simulate a save made before schema versioning existed

	s := openStore(t)
	if err := s.Save("legacy", rec); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := s.Load("legacy")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Version != persist.CurrentVersion {
		t.Fatalf("Version = %d, want %d after migration", loaded.Version, persist.CurrentVersion)
	}

	if _, err := persist.DecodeTDL("legacy", loaded, 3); err != nil {
		t.Fatalf("DecodeTDL after migration: %v", err)
	}
}

// TestLoadMigratesANonTrainingV0TDLToPerformanceEvaluationMode checks
// that a v0 record with both colors untrained comes back with
// PerformanceEvaluationMode set, the concrete rewrite migrateTDLV0
// performs.
func TestLoadMigratesANonTrainingV0TDLToPerformanceEvaluationMode(t *testing.T) {
	original := newTDL("watcher", 7)
	original.Settings.TrainWhite = false
	original.Settings.TrainBlack = false

	rec, err := persist.EncodeTDL(original)
	if err != nil {
		t.Fatalf("EncodeTDL: %v", err)
	}
	rec.Version = 0

	s := openStore(t)
	if err := s.Save("watcher", rec); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := s.Load("watcher")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	restored, err := persist.DecodeTDL("watcher", loaded, 7)
	if err != nil {
		t.Fatalf("DecodeTDL after migration: %v", err)
	}
	if !restored.Settings.PerformanceEvaluationMode {
		t.Fatal("PerformanceEvaluationMode = false, want true after migrating a non-training v0 record")
	}
}

// TestLoadMigratesAV0EnsembleSynchronizesSearchParams checks that
// migrating a v0 ensemble whose members disagree on search parameters
// (nothing kept a v0 committee's values in step) ends with every
// member sharing the first member's values.
func TestLoadMigratesAV0EnsembleSynchronizesSearchParams(t *testing.T) {
	m0 := newTDL("m0", 20)
	m0.Settings.TdSearchDepth = 5
	m0.Settings.TdSearchIterations = 50
	m1 := newTDL("m1", 21)
	m1.Settings.TdSearchDepth = 9
	m1.Settings.TdSearchIterations = 90

	e := ensemble.New("committee-v0", 9)
	e.Add(m0)
	e.Add(m1)

	rec, err := persist.EncodeEnsemble(e)
	if err != nil {
		t.Fatalf("EncodeEnsemble: %v", err)
	}
	rec.Version = 0

	s := openStore(t)
	if err := s.Save("committee-v0", rec); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := s.Load("committee-v0")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	restored, err := persist.DecodeEnsemble("committee-v0", loaded, 9)
	if err != nil {
		t.Fatalf("DecodeEnsemble after migration: %v", err)
	}
	if restored.Len() != 2 {
		t.Fatalf("restored.Len() = %d, want 2", restored.Len())
	}
	want := restored.Get(0).Settings.TdSearchDepth
	for i := 0; i < restored.Len(); i++ {
		if got := restored.Get(i).Settings.TdSearchDepth; got != want {
			t.Errorf("member %d TdSearchDepth = %d, want %d (synchronized)", i, got, want)
		}
	}
}
