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

package state

// TraceRecorder records the sequence of move indices played from a
// starting Seed, so the exact playthrough can be reconstructed later
// for deterministic regression checks.
type TraceRecorder struct {
	seed  Seed
	moves []int
}

// NewTraceRecorder starts a recording rooted at seed.
func NewTraceRecorder(seed Seed) *TraceRecorder {
	return &TraceRecorder{seed: seed}
}

// Record appends a played move index to the trace.
func (r *TraceRecorder) Record(moveIdx int) {
	r.moves = append(r.moves, moveIdx)
}

// Moves returns the recorded move indices, in play order.
func (r *TraceRecorder) Moves() []int {
	return r.moves
}

// Replay yields a fresh Handle at the recorder's seed and replays
// every recorded move onto it, returning the resulting Handle.
func (r *TraceRecorder) Replay() *Handle {
	h := r.seed.Handle()
	for _, idx := range r.moves {
		h.MoveInvertReset(idx)
	}
	return h
}
