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

package persist

import (
	"fmt"

	"github.com/dragunovdenis/trainingcell/pkg/agent"
)

// DecodeAgent dispatches on rec.TypeID and returns the concrete agent
// as an agent.Agent, for callers (cmd/tdlctl) that load a name without
// knowing ahead of time whether it names a lone TDL agent or an
// ensemble of them.
func DecodeAgent(name string, rec Record, seed uint64) (agent.Agent, error) {
	switch rec.TypeID {
	case agent.TDL:
		return DecodeTDL(name, rec, seed)
	case agent.TDLEnsemble:
		return DecodeEnsemble(name, rec, seed)
	default:
		return nil, fmt.Errorf("persist: %q has no decoder for type %v", name, rec.TypeID)
	}
}
