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

// Package tdagent implements a TD(lambda) agent over an afterstate
// value function: one SubAgent per piece color, sharing a net, each
// keeping its own eligibility trace and move history.
package tdagent

// SearchMethod selects whether MakeMove consults a scratch search net
// rolled out from the current position before picking a move.
type SearchMethod int

const (
	// SearchNone picks a move directly off the main net.
	SearchNone SearchMethod = iota
	// SearchTD clones the main net into a scratch net, plays a batch of
	// self-play episodes from the current position against it, then
	// picks the scratch net's argmax move.
	SearchTD
)

// Settings are the hyperparameters governing a TD(lambda) agent's
// training behavior. The zero value trains nothing: TrainWhite and
// TrainBlack both default false.
type Settings struct {
	// ExplorationProbability is the chance, on any move before
	// ExplorationDepth, that the agent explores instead of exploiting.
	// <= 0 disables exploration, >= 1 forces it.
	ExplorationProbability float64

	// ExplorationDepth is the number of plies into an episode during
	// which exploration can occur.
	ExplorationDepth int

	// ExplorationVolume caps how many of the current position's
	// candidate moves take part in an exploration draw; the agent
	// still evaluates every move (so the draw is informed), but picks
	// uniformly among only the ExplorationVolume best of them.
	ExplorationVolume int

	// Lambda is the eligibility-trace decay rate, in [0, 1].
	Lambda float64

	// Discount ("gamma") discounts future reward per ply.
	Discount float64

	// LearningRate ("alpha") scales every weight update.
	LearningRate float64

	// RewardFactor scales the per-move shaping reward; reward_factor
	// <= 0 disables shaping and trains on terminal reward alone.
	RewardFactor float64

	// TrainDepth is the number of plies, from the start of an episode,
	// during which the net is updated.
	TrainDepth int

	// TrainWhite/TrainBlack gate training per sub-agent color.
	TrainWhite bool
	TrainBlack bool

	// PerformanceEvaluationMode, when true, overrides TrainWhite,
	// TrainBlack and ExplorationProbability: the agent neither trains
	// nor explores regardless of what those fields say, mirroring the
	// original's _performance_evaluation_mode override of
	// training_sub_mode() and get_exploration_probability().
	PerformanceEvaluationMode bool

	// SearchMethod selects the tree-search strategy MakeMove runs
	// before picking a move. SearchNone (the zero value) disables
	// search entirely.
	SearchMethod SearchMethod

	// TdSearchIterations is the number of self-play episodes rolled out
	// against the scratch search net per SearchTD call.
	TdSearchIterations int
	// TdSearchDepth is the search settings' TrainDepth: how many plies
	// of each rollout episode update the scratch net.
	TdSearchDepth int
	// TdSearchExplorationProb/Depth/Volume are the search settings'
	// ExplorationProbability/Depth/Volume, governing how much the
	// rollout episodes explore rather than exploit.
	TdSearchExplorationProb   float64
	TdSearchExplorationDepth  int
	TdSearchExplorationVolume int
}

// trains reports whether the color identified by isWhite should
// update its net this episode.
func (s Settings) trains(isWhite bool) bool {
	if s.PerformanceEvaluationMode {
		return false
	}
	if isWhite {
		return s.TrainWhite
	}
	return s.TrainBlack
}

// searchSettings returns the hyperparameters a SearchTD rollout plays
// its scratch episodes with: both colors training, at the search
// depth and exploration parameters, grounded on
// TdlAbstractAgent::get_search_settings (which copies the agent's own
// settings and overrides exactly these fields).
func (s Settings) searchSettings() Settings {
	out := s
	out.PerformanceEvaluationMode = false
	out.TrainWhite = true
	out.TrainBlack = true
	out.TrainDepth = s.TdSearchDepth
	out.ExplorationDepth = s.TdSearchExplorationDepth
	out.ExplorationVolume = s.TdSearchExplorationVolume
	out.ExplorationProbability = s.TdSearchExplorationProb
	out.SearchMethod = SearchNone
	return out
}
