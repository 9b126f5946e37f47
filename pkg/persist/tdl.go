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
	"encoding/json"
	"fmt"

	"github.com/dragunovdenis/trainingcell/pkg/agent"
	"github.com/dragunovdenis/trainingcell/pkg/converter"
	"github.com/dragunovdenis/trainingcell/pkg/netconv"
	"github.com/dragunovdenis/trainingcell/pkg/statetype"
	"github.com/dragunovdenis/trainingcell/pkg/tdagent"
)

// tdlPayload is the JSON shape of a single TD(lambda) agent's
// Record.Payload.
type tdlPayload struct {
	Kind      statetype.Kind         `json:"kind"`
	Settings  tdagent.Settings       `json:"settings"`
	Converter converter.Kind         `json:"converter"`
	Layers    []netconv.LayerWeights `json:"layers"`
}

// EncodeTDL builds the Record for a tdagent.Agent. a's net must be a
// netconv.WithConverter, the only Net implementation agents are
// actually built with.
func EncodeTDL(a *tdagent.Agent) (Record, error) {
	wc, ok := a.Net.(netconv.WithConverter)
	if !ok {
		return Record{}, fmt.Errorf("persist: TDL agent %q's net is not a netconv.WithConverter", a.Name())
	}

	payload := tdlPayload{
		Kind:      a.Kind,
		Settings:  a.Settings,
		Converter: wc.ConverterKind(),
		Layers:    wc.MLP().Layers(),
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Record{}, err
	}
	return Record{TypeID: agent.TDL, Version: CurrentVersion, Payload: data}, nil
}

// DecodeTDL rebuilds a tdagent.Agent named name from rec, with its
// SubAgents seeded from seed.
func DecodeTDL(name string, rec Record, seed uint64) (*tdagent.Agent, error) {
	if rec.TypeID != agent.TDL {
		return nil, fmt.Errorf("persist: record is %v, not %v", rec.TypeID, agent.TDL)
	}

	var payload tdlPayload
	if err := json.Unmarshal(rec.Payload, &payload); err != nil {
		return nil, err
	}

	mlp := netconv.NewMLPFromLayers(payload.Layers)
	net := netconv.NewWithConverter(mlp, converter.New(payload.Converter))
	return tdagent.New(name, payload.Kind, net, payload.Settings, seed), nil
}
