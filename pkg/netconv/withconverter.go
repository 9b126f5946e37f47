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

import "github.com/dragunovdenis/trainingcell/pkg/converter"

// WithConverter composes an MLP with the Converter that turns a raw
// game-state vector into the tensor the MLP actually consumes. It is
// the concrete Net agents are handed: the MLP alone knows nothing
// about state vectors, and a Converter alone knows nothing about
// weights.
type WithConverter struct {
	net  *MLP
	conv converter.Converter
}

// NewWithConverter pairs net with conv. net's input width must equal
// rawSize*conv.ExpansionFactor() for some intended raw state size
// rawSize; callers typically build net via NewMLP using that product
// as the input layer size.
func NewWithConverter(net *MLP, conv converter.Converter) WithConverter {
	return WithConverter{net: net, conv: conv}
}

// CalcGradientAndValue implements Net.
func (w WithConverter) CalcGradientAndValue(tensor []float64, traceDecay float64, trace []LayerGradient) float64 {
	return w.net.CalcGradientAndValue(tensor, traceDecay, trace)
}

// Evaluate implements Net.
func (w WithConverter) Evaluate(raw []int) ([]float64, float64) {
	tensor := w.conv.Convert(raw)
	return tensor, w.net.forward(tensor)
}

// Update implements Net.
func (w WithConverter) Update(trace []LayerGradient, step, decay float64) {
	w.net.Update(trace, step, decay)
}

// Allocate implements Net.
func (w WithConverter) Allocate() []LayerGradient {
	return w.net.Allocate()
}

// ValidateInputSize implements Net.
func (w WithConverter) ValidateInputSize(rawSize int) bool {
	return rawSize*w.conv.ExpansionFactor() == w.net.InputSize()
}

// Clone returns a WithConverter over a deep copy of w's net, sharing
// w's Converter (stateless, so sharing it is safe).
func (w WithConverter) Clone() Net {
	return WithConverter{net: w.net.Clone(), conv: w.conv}
}

// MLP returns the underlying net, for callers (pkg/persist) that need
// to snapshot or rebuild its weights directly.
func (w WithConverter) MLP() *MLP {
	return w.net
}

// ConverterKind returns the Kind of w's Converter, for pkg/persist to
// record alongside the net's weights.
func (w WithConverter) ConverterKind() converter.Kind {
	return w.conv.Kind()
}
