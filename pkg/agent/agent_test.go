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

package agent_test

import (
	"testing"

	"github.com/dragunovdenis/trainingcell/pkg/agent"
)

func TestTypeIDStringRoundTripsThroughParseTypeID(t *testing.T) {
	for _, id := range []agent.TypeID{agent.Unknown, agent.Random, agent.TDL, agent.TDLEnsemble} {
		if got := agent.ParseTypeID(id.String()); got != id {
			t.Errorf("ParseTypeID(%q) = %v, want %v", id.String(), got, id)
		}
	}
}

func TestParseTypeIDRejectsUnrecognizedString(t *testing.T) {
	if got := agent.ParseTypeID("NOT_A_TYPE"); got != agent.Unknown {
		t.Errorf("ParseTypeID on garbage = %v, want Unknown", got)
	}
}
