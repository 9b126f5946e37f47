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

// Package persist saves and loads trained agents under a name, behind
// a self-describing envelope that supports polymorphic load and
// schema migration, the way hailam-chessplay/internal/storage wraps
// BadgerDB for one fixed preferences/stats key each — generalized
// here to an arbitrary agent name.
package persist

import (
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/dragunovdenis/trainingcell/pkg/agent"
)

// CurrentVersion is the schema version new Records are saved with.
const CurrentVersion = 1

// Record is the envelope every saved agent is wrapped in: its
// concrete kind, a schema version for migration, and a JSON-encoded,
// type-specific payload.
type Record struct {
	TypeID  agent.TypeID
	Version uint32
	Payload []byte
}

// Store wraps a badger.DB as a name-to-Record key-value store.
type Store struct {
	db *badger.DB
}

// Open opens (creating if necessary) a Store backed by the badger
// database at dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save writes rec under name, overwriting any prior record there.
func (s *Store) Save(name string, rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(name), data)
	})
}

// Load reads the Record saved under name. A record saved without a
// Version (or with Version 0) is migrated to CurrentVersion before
// being returned, per the format's mandatory backward-compatibility
// rule: a missing version field is assumed to be the oldest one.
func (s *Store) Load(name string) (Record, error) {
	var rec Record
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(name))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if err != nil {
		return Record{}, fmt.Errorf("persist: load %q: %w", name, err)
	}
	if rec.Version == 0 {
		rec = migrate(rec)
	}
	return rec, nil
}

// Delete removes the record saved under name, if any.
func (s *Store) Delete(name string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(name))
	})
}
