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


package core

import "errors"

// Domain validation errors
var (
	// ErrEmptyQuery indicates the raw query was blank after trimming.
	ErrEmptyQuery = errors.New("query cannot be empty")

	// ErrInvalidEmbeddingDimension indicates two embedding vectors of
	// different lengths were compared. This is a configuration error
	// upstream and is fatal to the single search call.
	ErrInvalidEmbeddingDimension = errors.New("embedding dimension mismatch")

	// ErrInvalidMemoryRecord indicates a MemoryRecord failed validation.
	ErrInvalidMemoryRecord = errors.New("invalid memory record")

	// ErrEmptyContent indicates the Content field is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrInvalidImportance indicates an importance outside the 1-10 range.
	ErrInvalidImportance = errors.New("importance must be between 1 and 10")

	// ErrInvalidMemoryType indicates an invalid MemoryType value.
	ErrInvalidMemoryType = errors.New("invalid memory type")

	// ErrInvalidTimestamp indicates a timestamp is in the future.
	ErrInvalidTimestamp = errors.New("timestamp cannot be in the future")

	// ErrInvalidDateRange indicates a ResolvedDate whose end precedes its start.
	ErrInvalidDateRange = errors.New("date range end precedes start")
)
