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

package converter_test

import (
	"testing"

	"github.com/dragunovdenis/trainingcell/pkg/converter"
)

func TestCheckersStandardIsIdentity(t *testing.T) {
	c := converter.New(converter.CheckersStandard)
	if c.ExpansionFactor() != 1 {
		t.Fatalf("wrong expansion factor: %d", c.ExpansionFactor())
	}
	in := []int{1, -1, 2, -2, 0}
	out := c.Convert(in)
	if len(out) != len(in) {
		t.Fatalf("wrong output length: %d", len(out))
	}
	for i, v := range in {
		if out[i] != float64(v) {
			t.Errorf("field %d: got %v, want %v", i, out[i], v)
		}
	}
}

func TestChessStandardExpansion(t *testing.T) {
	c := converter.New(converter.ChessStandard)
	if c.ExpansionFactor() != 3 {
		t.Fatalf("wrong expansion factor: %d", c.ExpansionFactor())
	}
	// token 5 = 0b101, ally: channels [1, 0, 1]
	out := c.Convert([]int{5})
	want := []float64{1, 0, 1}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("ally channel %d: got %v, want %v", i, out[i], want[i])
		}
	}
	// token -5: low 3 bits of its two's-complement form are 011 (-5
	// mod 8 == 3), so channels are [-1, -1, 0].
	out = c.Convert([]int{-5})
	want = []float64{-1, -1, 0}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("rival channel %d: got %v, want %v", i, out[i], want[i])
		}
	}
}
