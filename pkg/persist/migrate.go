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

	"github.com/dragunovdenis/trainingcell/pkg/agent"
)

// migrate brings a pre-versioning (Version == 0) Record up to
// CurrentVersion, dispatching on TypeID the way the legacy MsgPack
// adapter dispatched on its own type tag.
func migrate(rec Record) Record {
	switch rec.TypeID {
	case agent.TDL:
		rec = migrateTDLV0(rec)
	case agent.TDLEnsemble:
		rec = migrateEnsembleV0(rec)
	}
	rec.Version = CurrentVersion
	return rec
}

// migrateTDLV0 upgrades a pre-versioning TD(lambda) payload. The
// legacy format carried a training_mode flag but no persisted
// performance-evaluation bit; training_mode=false implied
// performance_evaluation_mode=true (see TdlAbstractAgent's
// training_sub_mode/_performance_evaluation_mode override), so a v0
// payload whose TrainWhite and TrainBlack are both false gets
// PerformanceEvaluationMode set explicitly rather than leaving the new
// field to its ambiguous zero value.
func migrateTDLV0(rec Record) Record {
	var payload tdlPayload
	if err := json.Unmarshal(rec.Payload, &payload); err != nil {
		return rec
	}
	if !payload.Settings.TrainWhite && !payload.Settings.TrainBlack {
		payload.Settings.PerformanceEvaluationMode = true
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return rec
	}
	rec.Payload = data
	return rec
}

// migrateEnsembleV0 upgrades a pre-versioning ensemble payload: each
// member is itself a v0 TDL payload and gets migrateTDLV0's treatment,
// then a synchronize pass propagates search parameters across the
// committee, mirroring the original's synchronize_parameters.
func migrateEnsembleV0(rec Record) Record {
	var payload ensemblePayload
	if err := json.Unmarshal(rec.Payload, &payload); err != nil {
		return rec
	}
	for i := range payload.Members {
		payload.Members[i] = migrateTDLV0(payload.Members[i])
	}
	synchronizeSearchParams(payload.Members)
	data, err := json.Marshal(payload)
	if err != nil {
		return rec
	}
	rec.Payload = data
	return rec
}

// synchronizeSearchParams reconciles the centralized TD-tree-search
// parameters across an ensemble's members: a v0 committee was
// assembled before those fields existed, so nothing kept its members'
// values in step; the
// first member's values, after its own migration, are broadcast to
// every other member, the same "first agent is canonical" rule the
// original's synchronize_parameters applied when reconciling members
// added at different times.
func synchronizeSearchParams(members []Record) {
	if len(members) == 0 {
		return
	}
	var first tdlPayload
	if err := json.Unmarshal(members[0].Payload, &first); err != nil {
		return
	}
	depth := first.Settings.TdSearchDepth
	iterations := first.Settings.TdSearchIterations

	for i := range members {
		var p tdlPayload
		if err := json.Unmarshal(members[i].Payload, &p); err != nil {
			continue
		}
		p.Settings.TdSearchDepth = depth
		p.Settings.TdSearchIterations = iterations
		data, err := json.Marshal(p)
		if err != nil {
			continue
		}
		members[i].Payload = data
	}
}
