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

// Package agentscript decodes the JSON agent configuration described
// by the training core's scripting surface: a flat object of
// recognized keys that override an agent's hyperparameters, with
// unrecognized keys silently ignored, grounded on pkg/uci/option's
// typed/defaulted option schema and re-expressed for one-shot JSON
// decoding instead of a line-oriented UCI setoption protocol.
package agentscript

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dragunovdenis/trainingcell/pkg/statetype"
	"github.com/dragunovdenis/trainingcell/pkg/tdagent"
)

// TrainingMode selects which color(s) a script wants an agent to
// train as.
type TrainingMode int

const (
	TrainingModeNone TrainingMode = iota
	TrainingModeWhite
	TrainingModeBlack
	TrainingModeBoth
)

func (m TrainingMode) trainsWhite() bool {
	return m == TrainingModeWhite || m == TrainingModeBoth
}

func (m TrainingMode) trainsBlack() bool {
	return m == TrainingModeBlack || m == TrainingModeBoth
}

// NetDim is the net's layer-width sequence, decoded from either a
// JSON array of numbers or a comma-separated string of unsigned ints.
type NetDim []int

// UnmarshalJSON implements json.Unmarshaler.
func (d *NetDim) UnmarshalJSON(data []byte) error {
	var nums []int
	if err := json.Unmarshal(data, &nums); err == nil {
		*d = nums
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("agentscript: NetDim must be an array of ints or a comma-separated string: %w", err)
	}
	nums = nil
	for _, part := range strings.Split(str, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return fmt.Errorf("agentscript: invalid NetDim entry %q: %w", part, err)
		}
		nums = append(nums, n)
	}
	*d = nums
	return nil
}

// Script is the recognized-key JSON configuration for building or
// reconfiguring an agent. Every field is a pointer so ApplySettings can tell
// "absent from the JSON" (nil, leave the current value alone) apart
// from "present with a zero value" (an explicit override);
// encoding/json already ignores object keys with no matching field,
// which is what gives unrecognized keys their "silently ignored"
// behavior.
type Script struct {
	AgentType *string `json:"AgentType,omitempty"`
	Name      *string `json:"Name,omitempty"`
	NetDim    *NetDim `json:"NetDim,omitempty"`
	StateType *string `json:"StateType,omitempty"`

	Lambda       *float64 `json:"Lambda,omitempty"`
	Discount     *float64 `json:"Discount,omitempty"`
	LearnRate    *float64 `json:"LearnRate,omitempty"`
	Exploration  *float64 `json:"Exploration,omitempty"`
	RewardFactor *float64 `json:"RewardFactor,omitempty"`

	TrainingMode *TrainingMode `json:"TrainingMode,omitempty"`

	// SearchMethod is the raw TreeSearchMethod ordinal (0 = NONE, 1 =
	// TD_SEARCH), matching tdagent.SearchNone/tdagent.SearchTD.
	SearchMethod              *int     `json:"SearchMethod,omitempty"`
	TdSearchIterations        *int     `json:"TdSearchIterations,omitempty"`
	TdSearchDepth             *int     `json:"TdSearchDepth,omitempty"`
	TdSearchExplorationProb   *float64 `json:"TdSearchExplorationProb,omitempty"`
	TdSearchExplorationDepth  *int     `json:"TdSearchExplorationDepth,omitempty"`
	TdSearchExplorationVolume *int     `json:"TdSearchExplorationVolume,omitempty"`
	PerformanceEvaluationMode *bool    `json:"PerformanceEvaluationMode,omitempty"`
}

// Parse decodes a recognized-key JSON script.
func Parse(data []byte) (Script, error) {
	var s Script
	if err := json.Unmarshal(data, &s); err != nil {
		return Script{}, err
	}
	return s, nil
}

// ApplySettings overrides base's fields with every recognized,
// present-in-the-script hyperparameter, leaving base untouched
// wherever the script is silent.
func (s Script) ApplySettings(base tdagent.Settings) tdagent.Settings {
	out := base
	if s.Lambda != nil {
		out.Lambda = *s.Lambda
	}
	if s.Discount != nil {
		out.Discount = *s.Discount
	}
	if s.LearnRate != nil {
		out.LearningRate = *s.LearnRate
	}
	if s.Exploration != nil {
		out.ExplorationProbability = *s.Exploration
	}
	if s.RewardFactor != nil {
		out.RewardFactor = *s.RewardFactor
	}
	if s.TrainingMode != nil {
		out.TrainWhite = s.TrainingMode.trainsWhite()
		out.TrainBlack = s.TrainingMode.trainsBlack()
	}
	if s.SearchMethod != nil {
		out.SearchMethod = tdagent.SearchMethod(*s.SearchMethod)
	}
	if s.TdSearchIterations != nil {
		out.TdSearchIterations = *s.TdSearchIterations
	}
	if s.TdSearchDepth != nil {
		out.TdSearchDepth = *s.TdSearchDepth
	}
	if s.TdSearchExplorationProb != nil {
		out.TdSearchExplorationProb = *s.TdSearchExplorationProb
	}
	if s.TdSearchExplorationDepth != nil {
		out.TdSearchExplorationDepth = *s.TdSearchExplorationDepth
	}
	if s.TdSearchExplorationVolume != nil {
		out.TdSearchExplorationVolume = *s.TdSearchExplorationVolume
	}
	if s.PerformanceEvaluationMode != nil {
		out.PerformanceEvaluationMode = *s.PerformanceEvaluationMode
	}
	return out
}

// ErrNetDimLocked and ErrStateTypeLocked are returned by
// CheckHyperparamsOnly when a script tries to change a net's shape or
// game through the hyperparams-only load path.
var (
	ErrNetDimLocked    = errors.New("agentscript: NetDim cannot change on a hyperparams-only load")
	ErrStateTypeLocked = errors.New("agentscript: StateType cannot change on a hyperparams-only load")
)

// CheckHyperparamsOnly verifies that s does not attempt to change an
// already-built agent's net shape or game: only the numeric training
// knobs ApplySettings touches may change through this path.
func (s Script) CheckHyperparamsOnly(currentDim []int, currentKind statetype.Kind) error {
	if s.NetDim != nil && !dimsEqual(*s.NetDim, currentDim) {
		return ErrNetDimLocked
	}
	if s.StateType != nil {
		kind, err := ParseStateType(*s.StateType)
		if err != nil {
			return err
		}
		if kind != currentKind {
			return ErrStateTypeLocked
		}
	}
	return nil
}

// ParseStateType parses the StateType key's string value.
func ParseStateType(s string) (statetype.Kind, error) {
	switch strings.ToUpper(s) {
	case "CHECKERS":
		return statetype.Checkers, nil
	case "CHESS":
		return statetype.Chess, nil
	default:
		return statetype.Unknown, fmt.Errorf("agentscript: unrecognized StateType %q", s)
	}
}

func dimsEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
