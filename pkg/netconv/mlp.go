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

package netconv

import (
	"fmt"
	"math"

	"github.com/dragunovdenis/trainingcell/internal/util"
)

// mlpLayer is one fully-connected layer of an MLP, weights stored as
// Weights[out][in], plus the activations cached by the last Forward
// call so Backward can reuse them without re-running the net.
type mlpLayer struct {
	Weights [][]float64
	Biases  []float64

	lastInput  []float64
	lastPreAct []float64
	lastOutput []float64
}

func newMLPLayer(in, out int, prng *util.PRNG) mlpLayer {
	l := mlpLayer{
		Weights: make([][]float64, out),
		Biases:  make([]float64, out),
	}
	// Glorot-ish uniform init, scaled by fan-in so the tanh layers
	// start in their linear regime instead of saturated.
	limit := 1.0 / math.Sqrt(float64(in))
	for i := range l.Weights {
		l.Weights[i] = make([]float64, in)
		for j := range l.Weights[i] {
			l.Weights[i][j] = randFloat(prng, limit)
		}
	}
	return l
}

// randFloat draws a value uniformly from [-limit, limit) off the
// shared PRNG, folding its 64 random bits into a float in [0, 1) first.
func randFloat(prng *util.PRNG, limit float64) float64 {
	const mantissaBits = 53
	u := prng.Uint64() >> (64 - mantissaBits)
	unit := float64(u) / float64(uint64(1)<<mantissaBits)
	return (2*unit - 1) * limit
}

func (l *mlpLayer) inputSize() int {
	if len(l.Weights) == 0 {
		return 0
	}
	return len(l.Weights[0])
}

func (l *mlpLayer) outputSize() int {
	return len(l.Weights)
}

// forward runs the layer, caching input/pre-activation/output for a
// subsequent backward pass, and returns the activated output.
func (l *mlpLayer) forward(input []float64, activate bool) []float64 {
	l.lastInput = append(l.lastInput[:0], input...)
	if cap(l.lastPreAct) < l.outputSize() {
		l.lastPreAct = make([]float64, l.outputSize())
		l.lastOutput = make([]float64, l.outputSize())
	}
	l.lastPreAct = l.lastPreAct[:l.outputSize()]
	l.lastOutput = l.lastOutput[:l.outputSize()]

	for i, row := range l.Weights {
		sum := l.Biases[i]
		for j, w := range row {
			sum += w * input[j]
		}
		l.lastPreAct[i] = sum
		if activate {
			l.lastOutput[i] = math.Tanh(sum)
		} else {
			l.lastOutput[i] = sum
		}
	}
	return l.lastOutput
}

// backward takes the gradient of the net's scalar loss with respect
// to this layer's (activated) output, writes the weight/bias gradient
// into grad, and returns the gradient with respect to this layer's
// input, for the caller to propagate into the previous layer.
func (l *mlpLayer) backward(outputGrad []float64, activated bool, grad *LayerGradient) []float64 {
	delta := make([]float64, l.outputSize())
	for i := range delta {
		d := outputGrad[i]
		if activated {
			t := l.lastOutput[i]
			d *= 1 - t*t // tanh'(z) = 1 - tanh(z)^2
		}
		delta[i] = d
	}

	inputGrad := make([]float64, l.inputSize())
	for i, row := range l.Weights {
		d := delta[i]
		grad.Biases[i] += d
		for j, in := range l.lastInput {
			grad.Weights[i][j] += d * in
			inputGrad[j] += d * row[j]
		}
	}
	return inputGrad
}

// MLP is a float64 fully-connected feed-forward net: tanh activations
// on every hidden layer, a single linear output unit. It is the value
// function a TD(lambda) agent evaluates afterstates with.
type MLP struct {
	layers []mlpLayer
}

// NewMLP builds an MLP with the given layer sizes, sizes[0] being the
// input width and sizes[len(sizes)-1] the (necessarily 1-wide) output.
// Weights are initialized off prng, so a given seed reproduces a given
// net exactly.
func NewMLP(sizes []int, prng *util.PRNG) *MLP {
	if len(sizes) < 2 {
		panic("netconv: MLP needs at least an input and an output layer")
	}
	if sizes[len(sizes)-1] != 1 {
		panic("netconv: MLP output layer must have width 1")
	}

	m := &MLP{layers: make([]mlpLayer, len(sizes)-1)}
	for i := range m.layers {
		m.layers[i] = newMLPLayer(sizes[i], sizes[i+1], prng)
	}
	return m
}

// InputSize returns the width of the net's input layer.
func (m *MLP) InputSize() int {
	return m.layers[0].inputSize()
}

// forward runs the full net over tensor and returns the scalar output.
func (m *MLP) forward(tensor []float64) float64 {
	in := tensor
	for i := range m.layers {
		activate := i < len(m.layers)-1
		in = m.layers[i].forward(in, activate)
	}
	return in[0]
}

// CalcGradientAndValue implements Net.
func (m *MLP) CalcGradientAndValue(tensor []float64, traceDecay float64, trace []LayerGradient) float64 {
	value := m.forward(tensor)

	outputGrad := []float64{1}
	for i := len(m.layers) - 1; i >= 0; i-- {
		activated := i < len(m.layers)-1
		layerGrad := LayerGradient{
			Weights: make([][]float64, m.layers[i].outputSize()),
			Biases:  make([]float64, m.layers[i].outputSize()),
		}
		for r := range layerGrad.Weights {
			layerGrad.Weights[r] = make([]float64, m.layers[i].inputSize())
		}
		outputGrad = m.layers[i].backward(outputGrad, activated, &layerGrad)

		decayAndAccumulate(&trace[i], traceDecay, layerGrad)
	}
	return value
}

func decayAndAccumulate(dst *LayerGradient, decay float64, add LayerGradient) {
	for i := range dst.Weights {
		for j := range dst.Weights[i] {
			dst.Weights[i][j] = decay*dst.Weights[i][j] + add.Weights[i][j]
		}
		dst.Biases[i] = decay*dst.Biases[i] + add.Biases[i]
	}
}

// Update implements Net.
func (m *MLP) Update(trace []LayerGradient, step, decay float64) {
	for i := range m.layers {
		l := &m.layers[i]
		for r, row := range l.Weights {
			for c := range row {
				row[c] += step * trace[i].Weights[r][c]
				if decay != 0 {
					row[c] -= decay * row[c]
				}
			}
			l.Biases[r] += step * trace[i].Biases[r]
			if decay != 0 {
				l.Biases[r] -= decay * l.Biases[r]
			}
		}
	}
}

// Allocate implements Net.
func (m *MLP) Allocate() []LayerGradient {
	trace := make([]LayerGradient, len(m.layers))
	for i, l := range m.layers {
		trace[i].Weights = make([][]float64, l.outputSize())
		for r := range trace[i].Weights {
			trace[i].Weights[r] = make([]float64, l.inputSize())
		}
		trace[i].Biases = make([]float64, l.outputSize())
	}
	return trace
}

func (m *MLP) String() string {
	return fmt.Sprintf("MLP(layers=%d, input=%d)", len(m.layers), m.InputSize())
}

// LayerWeights is the JSON-serializable snapshot of one layer's
// weights and biases, used by pkg/persist to save and reload a net
// without re-running its random initialization.
type LayerWeights struct {
	Weights [][]float64 `json:"weights"`
	Biases  []float64   `json:"biases"`
}

func copyMatrix(m [][]float64) [][]float64 {
	out := make([][]float64, len(m))
	for i, row := range m {
		out[i] = append([]float64(nil), row...)
	}
	return out
}

// Layers returns a snapshot of m's weights and biases, one entry per
// layer, sharing no backing storage with m.
func (m *MLP) Layers() []LayerWeights {
	out := make([]LayerWeights, len(m.layers))
	for i, l := range m.layers {
		out[i] = LayerWeights{Weights: copyMatrix(l.Weights), Biases: append([]float64(nil), l.Biases...)}
	}
	return out
}

// NewMLPFromLayers rebuilds an MLP from a Layers snapshot.
func NewMLPFromLayers(layers []LayerWeights) *MLP {
	m := &MLP{layers: make([]mlpLayer, len(layers))}
	for i, l := range layers {
		m.layers[i] = mlpLayer{Weights: copyMatrix(l.Weights), Biases: append([]float64(nil), l.Biases...)}
	}
	return m
}

// Clone returns a deep copy of m: an independent net with the same
// weights, sharing no backing arrays with m, so training one leaves
// the other untouched. Used by pkg/training to replace a
// poorly-performing agent's net with a copy of a stronger one's.
func (m *MLP) Clone() *MLP {
	clone := &MLP{layers: make([]mlpLayer, len(m.layers))}
	for i, l := range m.layers {
		c := mlpLayer{
			Weights: make([][]float64, len(l.Weights)),
			Biases:  append([]float64(nil), l.Biases...),
		}
		for r, row := range l.Weights {
			c.Weights[r] = append([]float64(nil), row...)
		}
		clone.layers[i] = c
	}
	return clone
}
