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
	"github.com/dragunovdenis/trainingcell/pkg/ensemble"
)

// ensemblePayload is the JSON shape of an ensemble.Agent's
// Record.Payload: its voting mode plus one nested Record per member.
type ensemblePayload struct {
	MultiThreaded bool     `json:"multi_threaded"`
	Members       []Record `json:"members"`
}

// EncodeEnsemble builds the Record for an ensemble.Agent, nesting an
// EncodeTDL Record per member.
func EncodeEnsemble(e *ensemble.Agent) (Record, error) {
	members := make([]Record, 0, e.Len())
	for i := 0; i < e.Len(); i++ {
		rec, err := EncodeTDL(e.Get(i))
		if err != nil {
			return Record{}, fmt.Errorf("persist: ensemble member %d: %w", i, err)
		}
		members = append(members, rec)
	}

	payload := ensemblePayload{MultiThreaded: e.MultiThreaded, Members: members}
	data, err := json.Marshal(payload)
	if err != nil {
		return Record{}, err
	}
	return Record{TypeID: agent.TDLEnsemble, Version: CurrentVersion, Payload: data}, nil
}

// DecodeEnsemble rebuilds an ensemble.Agent named name from rec. seed
// drives both the ensemble's own single-agent-mode draws and, offset
// per member index, each member's SubAgent seeding.
func DecodeEnsemble(name string, rec Record, seed uint64) (*ensemble.Agent, error) {
	if rec.TypeID != agent.TDLEnsemble {
		return nil, fmt.Errorf("persist: record is %v, not %v", rec.TypeID, agent.TDLEnsemble)
	}

	var payload ensemblePayload
	if err := json.Unmarshal(rec.Payload, &payload); err != nil {
		return nil, err
	}

	e := ensemble.New(name, seed)
	e.MultiThreaded = payload.MultiThreaded
	for i, memberRec := range payload.Members {
		member, err := DecodeTDL(fmt.Sprintf("%s#%d", name, i), memberRec, seed^uint64(i))
		if err != nil {
			return nil, fmt.Errorf("persist: ensemble member %d: %w", i, err)
		}
		e.Add(member)
	}
	return e, nil
}
