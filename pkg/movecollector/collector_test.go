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

package movecollector_test

import (
	"testing"

	"github.com/dragunovdenis/trainingcell/pkg/movecollector"
)

func TestRetainsUpToCapacity(t *testing.T) {
	c := movecollector.New(3)
	c.Add(0, 1.0, nil)
	c.Add(1, 2.0, nil)
	if c.Len() != 2 {
		t.Fatalf("want 2 retained moves, got %d", c.Len())
	}
}

func TestBumpsLowestValueOnceFull(t *testing.T) {
	c := movecollector.New(2)
	c.Add(0, 1.0, nil)
	c.Add(1, 2.0, nil)
	c.Add(2, 0.5, nil) // below both, dropped
	c.Add(3, 3.0, nil) // beats the lowest (id 0, value 1.0)

	seen := map[int]bool{}
	for i := 0; i < c.Len(); i++ {
		seen[c.Get(i).ID] = true
	}
	if !seen[1] || !seen[3] {
		t.Fatalf("expected ids 1 and 3 retained, got %v", seen)
	}
	if seen[0] || seen[2] {
		t.Fatalf("expected ids 0 and 2 evicted, got %v", seen)
	}
}
