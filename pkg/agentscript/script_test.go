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

package agentscript_test

import (
	"testing"

	"github.com/dragunovdenis/trainingcell/pkg/agentscript"
	"github.com/dragunovdenis/trainingcell/pkg/statetype"
	"github.com/dragunovdenis/trainingcell/pkg/tdagent"
)

func TestParseIgnoresUnrecognizedKeys(t *testing.T) {
	s, err := agentscript.Parse([]byte(`{"Lambda": 0.8, "NotARealOption": 42}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if s.Lambda == nil || *s.Lambda != 0.8 {
		t.Fatalf("Lambda = %v, want 0.8", s.Lambda)
	}
}

func TestApplySettingsOverridesOnlyPresentFields(t *testing.T) {
	base := tdagent.Settings{Lambda: 0.5, Discount: 0.9, LearningRate: 0.1, TrainWhite: true}
	s, err := agentscript.Parse([]byte(`{"Lambda": 0.7}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	got := s.ApplySettings(base)
	if got.Lambda != 0.7 {
		t.Fatalf("Lambda = %v, want 0.7", got.Lambda)
	}
	if got.Discount != base.Discount || got.LearningRate != base.LearningRate {
		t.Fatalf("unrelated fields changed: got %+v, base %+v", got, base)
	}
}

func TestApplySettingsTrainingModeSetsBothColors(t *testing.T) {
	both := agentscript.TrainingModeBoth
	s := agentscript.Script{TrainingMode: &both}
	got := s.ApplySettings(tdagent.Settings{})
	if !got.TrainWhite || !got.TrainBlack {
		t.Fatalf("TrainingModeBoth should set both colors, got %+v", got)
	}
}

func TestNetDimDecodesFromCommaSeparatedString(t *testing.T) {
	s, err := agentscript.Parse([]byte(`{"NetDim": "32,16,1"}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []int{32, 16, 1}
	got := []int(*s.NetDim)
	if len(got) != len(want) {
		t.Fatalf("NetDim = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("NetDim = %v, want %v", got, want)
		}
	}
}

func TestCheckHyperparamsOnlyRejectsNetDimChange(t *testing.T) {
	s, err := agentscript.Parse([]byte(`{"NetDim": [32, 16, 1]}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := s.CheckHyperparamsOnly([]int{32, 8, 1}, statetype.Checkers); err != agentscript.ErrNetDimLocked {
		t.Fatalf("CheckHyperparamsOnly error = %v, want ErrNetDimLocked", err)
	}
}

func TestCheckHyperparamsOnlyAllowsMatchingNetDim(t *testing.T) {
	s, err := agentscript.Parse([]byte(`{"NetDim": [32, 16, 1], "StateType": "Checkers"}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := s.CheckHyperparamsOnly([]int{32, 16, 1}, statetype.Checkers); err != nil {
		t.Fatalf("CheckHyperparamsOnly: %v", err)
	}
}

func TestCheckHyperparamsOnlyRejectsStateTypeChange(t *testing.T) {
	s, err := agentscript.Parse([]byte(`{"StateType": "Chess"}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := s.CheckHyperparamsOnly(nil, statetype.Checkers); err != agentscript.ErrStateTypeLocked {
		t.Fatalf("CheckHyperparamsOnly error = %v, want ErrStateTypeLocked", err)
	}
}
