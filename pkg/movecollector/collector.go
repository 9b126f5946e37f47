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

// Package movecollector retains the best-valued moves seen so far out
// of a larger stream, for exploration sampling over a bounded subset
// of the top candidates rather than the full legal move list.
package movecollector

// Move is one candidate an agent evaluated: the move's index in its
// state's move list, the value its net assigned to the resulting
// afterstate, and the afterstate tensor itself.
type Move struct {
	ID         int
	Value      float64
	AfterState []float64
}

// Collector keeps the Capacity highest-Value Moves handed to Add, in
// the order they were first retained; once full, a later Move bumps
// out whichever retained Move currently has the lowest Value.
type Collector struct {
	capacity int
	moves    []Move
}

// New returns a Collector that retains at most capacity moves.
func New(capacity int) *Collector {
	return &Collector{capacity: capacity, moves: make([]Move, 0, capacity)}
}

// Capacity returns the collector's maximum retained size.
func (c *Collector) Capacity() int {
	return c.capacity
}

// Len returns the number of moves currently retained.
func (c *Collector) Len() int {
	return len(c.moves)
}

// Add offers a move to the collector. It is retained if the
// collector isn't yet at capacity, or if its value beats the lowest
// retained value, replacing that move; otherwise it is dropped.
func (c *Collector) Add(id int, value float64, afterState []float64) {
	if len(c.moves) < c.capacity {
		c.moves = append(c.moves, Move{ID: id, Value: value, AfterState: afterState})
		return
	}

	leastIdx, leastValue := -1, 0.0
	for i, m := range c.moves {
		if leastIdx == -1 || m.Value < leastValue {
			leastIdx, leastValue = i, m.Value
		}
	}

	if leastValue < value {
		c.moves[leastIdx] = Move{ID: id, Value: value, AfterState: afterState}
	}
}

// Get returns the retained move at the given slot.
func (c *Collector) Get(i int) Move {
	return c.moves[i]
}
