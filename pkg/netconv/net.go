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

// Package netconv provides the value-function net a TD(lambda) agent
// trains against, and the state-vector-to-tensor conversion it sits
// behind.
package netconv

// LayerGradient holds the weight and bias gradient of one layer of an
// MLP. A TD(lambda) sub-agent keeps a slice of these, one per layer,
// as its eligibility trace: CalcGradientAndValue decays the trace and
// accumulates the current gradient into it in place, and Update later
// applies the whole trace to the net's weights.
type LayerGradient struct {
	Weights [][]float64
	Biases  []float64
}

// Net is the value function an agent evaluates afterstates with and
// trains via TD(lambda). A Net is not safe for concurrent use: MLP
// caches each layer's activations during a forward pass, so
// overlapping calls against one net race. A Net is owned by a single
// goroutine at a time.
type Net interface {
	// CalcGradientAndValue evaluates the net at the already-converted
	// tensor, scales trace by traceDecay, adds the gradient of the
	// net's scalar output with respect to every weight into trace in
	// place, and returns the output value.
	CalcGradientAndValue(tensor []float64, traceDecay float64, trace []LayerGradient) float64

	// Evaluate converts raw into its tensor form and returns both the
	// tensor and the net's scalar output at it.
	Evaluate(raw []int) (tensor []float64, value float64)

	// Update applies trace to the net's weights: weight += step*trace,
	// then weight -= decay*weight (a pull toward zero, applied after
	// the step so decay doesn't fight the direction of learning).
	Update(trace []LayerGradient, step, decay float64)

	// Allocate returns a freshly zeroed eligibility trace shaped to
	// match the net's layers.
	Allocate() []LayerGradient

	// ValidateInputSize reports whether rawSize, the length of an
	// unconverted state vector, is compatible with the net's input
	// layer once expanded by the net's converter.
	ValidateInputSize(rawSize int) bool

	// Clone returns an independent copy of the net with the same
	// weights, sharing no backing storage with the original.
	Clone() Net
}
