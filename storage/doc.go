// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package storage defines the persistence contract for memory records.
//
// The search core never depends on this package; it ranks whatever record
// slice the caller hands it. Storage exists so the enclosing application can
// keep a corpus between runs: MemoryRepository is the interface, and the
// badger subpackage provides the BadgerDB implementation.
//
// Records are keyed by core.ID. When a record arrives without an ID, the
// repository derives one from the content hash, so re-adding identical
// content is a no-op rather than a duplicate.
//
// Serialization uses the MUS format. The serializers are hand-written
// against mus-go's primitive serializers; field order is part of the
// on-disk contract and must not change without a migration.
package storage
