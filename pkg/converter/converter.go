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

// Package converter turns a raw int-vector state representation into
// the flat float64 tensor a net consumes.
package converter

import "fmt"

// Kind selects which conversion a Converter performs.
type Kind int

const (
	None Kind = iota
	CheckersStandard
	ChessStandard
)

// chessChannels is the number of bit-planes a chess piece token is
// expanded into; it matches the rank field's bit width, so each of the
// three rank bits gets its own channel. Token bits above the rank
// field are not encoded.
const chessChannels = 3

// Converter maps a state's int-vector onto the float64 tensor fed to
// a net, and reports the expansion factor (output length / input
// length) so callers can size net input layers.
type Converter struct {
	kind      Kind
	expansion int
}

// New builds a Converter for the given Kind.
func New(kind Kind) Converter {
	switch kind {
	case CheckersStandard:
		return Converter{kind: kind, expansion: 1}
	case ChessStandard:
		return Converter{kind: kind, expansion: chessChannels}
	default:
		return Converter{kind: None, expansion: -1}
	}
}

// ExpansionFactor returns the ratio between output and input
// dimensions.
func (c Converter) ExpansionFactor() int {
	return c.expansion
}

// Kind returns the Kind c was built from, so a caller persisting a
// net alongside its Converter can record which one to rebuild.
func (c Converter) Kind() Kind {
	return c.kind
}

// Convert transforms the int-vector state representation in into its
// float64 tensor form.
func (c Converter) Convert(in []int) []float64 {
	switch c.kind {
	case CheckersStandard:
		out := make([]float64, len(in))
		for i, v := range in {
			out[i] = float64(v)
		}
		return out
	case ChessStandard:
		return convertChess(in)
	default:
		panic(fmt.Sprintf("converter: uninitialized converter of kind %d", c.kind))
	}
}

// convertChess expands each piece token into chessChannels signed bit
// planes: bit b of the raw token becomes +1/0 for an ally piece
// and -1/0 for a rival one. The AND is applied to the raw (possibly
// negative, two's-complement) token, matching the original engine's
// encoding exactly rather than re-deriving it from the piece's sign
// and unsigned rank separately.
func convertChess(in []int) []float64 {
	out := make([]float64, len(in)*chessChannels)
	i := 0
	for _, tok := range in {
		ally := tok >= 0
		for ch := 0; ch < chessChannels; ch++ {
			bit := 0
			if tok&(1<<ch) != 0 {
				bit = 1
			}
			if !ally {
				bit = -bit
			}
			out[i] = float64(bit)
			i++
		}
	}
	return out
}
