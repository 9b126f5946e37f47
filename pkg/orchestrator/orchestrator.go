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

// Package orchestrator plays episodes (games) between a pair of
// agent.Agents and folds the outcome back into each agent through
// GameOver, the training loop the rest of the system's learning
// depends on.
package orchestrator

import (
	"github.com/dragunovdenis/trainingcell/internal/invariant"
	"github.com/dragunovdenis/trainingcell/pkg/agent"
	"github.com/dragunovdenis/trainingcell/pkg/state"
)

// Result classifies how an episode ended.
type Result int

const (
	// Draw is a draw reached by exceeding the no-capture move limit, an
	// arbitrary cutoff rather than a property of the position itself.
	Draw Result = iota
	// StrongDraw is a position drawn by a state-level rule (stalemate,
	// insufficient material) rather than the move-count cutoff,
	// mirroring the original's "like a stalemate in chess" distinction.
	StrongDraw
	// WhiteVictory is a win for the white-seated agent.
	WhiteVictory
	// BlackVictory is a win for the black-seated agent.
	BlackVictory
)

func (r Result) String() string {
	switch r {
	case Draw:
		return "draw"
	case StrongDraw:
		return "strong draw"
	case WhiteVictory:
		return "white victory"
	case BlackVictory:
		return "black victory"
	default:
		return "unknown"
	}
}

// StatePublisher is called after every ply with the resulting position
// and the agent that is to move next.
type StatePublisher func(h *state.Handle, toMove agent.Agent)

// EpisodeStatsPublisher is called after every episode with the running
// totals.
type EpisodeStatsPublisher func(stats Stats)

// CancelFunc is polled once per ply; returning true aborts the episode
// or run in progress, mirroring the original's CancelCallBack.
type CancelFunc func() bool

// Stats tallies the outcome of a run of episodes.
type Stats struct {
	WhiteWins     int
	BlackWins     int
	TotalEpisodes int
}

// Record folds a single episode's Result into the running totals.
func (s *Stats) Record(result Result) {
	s.TotalEpisodes++
	switch result {
	case WhiteVictory:
		s.WhiteWins++
	case BlackVictory:
		s.BlackWins++
	}
}

// Board pairs a white and a black agent.Agent and plays episodes
// between them, mirroring the original engine's Board.
type Board struct {
	White agent.Agent
	Black agent.Agent

	// MaxMovesWithoutCapture bounds episode length; exceeding it
	// without a capture ends the episode in a Draw. Zero selects the
	// original's default of 200.
	MaxMovesWithoutCapture int

	PublishState StatePublisher
	Cancel       CancelFunc
}

// New returns a Board pairing white and black, with the original's
// default 200-ply no-capture draw limit.
func New(white, black agent.Agent) *Board {
	return &Board{White: white, Black: black, MaxMovesWithoutCapture: 200}
}

// SwapAgents exchanges which agent plays white and which plays black.
func (b *Board) SwapAgents() {
	b.White, b.Black = b.Black, b.White
}

func (b *Board) maxMovesWithoutCapture() int {
	if b.MaxMovesWithoutCapture <= 0 {
		return 200
	}
	return b.MaxMovesWithoutCapture
}

// PlayEpisode plays a single episode from seed and reports both
// agents' GameOver, then returns how the episode ended. If Cancel
// aborts the episode, it returns Draw without calling either agent's
// GameOver.
func (b *Board) PlayEpisode(seed state.Seed) Result {
	h := seed.Handle()
	whiteToMove := true
	movesWithoutCapture := 0

	for {
		if b.Cancel != nil && b.Cancel() {
			return Draw
		}

		if h.IsDraw() {
			return b.conclude(whiteToMove, StrongDraw)
		}
		if h.IsLoss() {
			if whiteToMove {
				return b.conclude(whiteToMove, BlackVictory)
			}
			return b.conclude(whiteToMove, WhiteVictory)
		}
		if movesWithoutCapture >= b.maxMovesWithoutCapture() {
			return b.conclude(whiteToMove, Draw)
		}

		mover := b.agentToMove(whiteToMove)
		moveIdx := mover.MakeMove(h, whiteToMove)
		invariant.Checkf(moveIdx >= 0 && moveIdx < h.MoveCount(), "orchestrator",
			"%s returned move index %d out of range [0,%d)", mover.Name(), moveIdx, h.MoveCount())
		if h.IsCapture(moveIdx) {
			movesWithoutCapture = 0
		} else {
			movesWithoutCapture++
		}
		h.MoveInvertReset(moveIdx)
		whiteToMove = !whiteToMove

		if b.PublishState != nil {
			b.PublishState(h, b.agentToMove(whiteToMove))
		}
	}
}

func (b *Board) agentToMove(whiteToMove bool) agent.Agent {
	if whiteToMove {
		return b.White
	}
	return b.Black
}

// conclude notifies both agents of the episode's outcome, from each
// one's own perspective, and returns the result as seen by the
// caller (white's perspective).
func (b *Board) conclude(whiteToMove bool, result Result) Result {
	_ = whiteToMove
	switch result {
	case WhiteVictory:
		b.White.GameOver(true, agent.Win)
		b.Black.GameOver(false, agent.Loss)
	case BlackVictory:
		b.White.GameOver(true, agent.Loss)
		b.Black.GameOver(false, agent.Win)
	default:
		b.White.GameOver(true, agent.Draw)
		b.Black.GameOver(false, agent.Draw)
	}
	return result
}

// Play runs the given number of episodes from seed, resetting to seed
// at the start of each one, and returns the accumulated Stats. It does
// not require either agent to be trainable; GameOver is still called
// on both so a trainable agent keeps learning across the run.
func (b *Board) Play(episodes int, seed state.Seed, publishStats EpisodeStatsPublisher) Stats {
	var stats Stats
	for i := 0; i < episodes; i++ {
		if b.Cancel != nil && b.Cancel() {
			break
		}
		result := b.PlayEpisode(seed)
		stats.Record(result)
		if publishStats != nil {
			publishStats(stats)
		}
	}
	return stats
}

// Train repeats episodes from seed until episodes non-draw results
// have accumulated, discarding draws towards that count (mirroring the
// original's training loop, which only counts decisive games towards
// its episode quota so the learning signal isn't diluted by filler
// draws).
func (b *Board) Train(episodes int, seed state.Seed, publishStats EpisodeStatsPublisher) Stats {
	var stats Stats
	decisive := 0
	for decisive < episodes {
		if b.Cancel != nil && b.Cancel() {
			break
		}
		result := b.PlayEpisode(seed)
		stats.Record(result)
		if result == WhiteVictory || result == BlackVictory {
			decisive++
		}
		if publishStats != nil {
			publishStats(stats)
		}
	}
	return stats
}
