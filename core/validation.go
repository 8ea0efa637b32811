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

import (
	"fmt"
	"time"
)

// ValidateMemoryRecord validates a MemoryRecord according to domain rules.
//
// Validation rules:
//   - Content must not be empty
//   - Type must be a valid MemoryType
//   - Importance must be between 1 and 10
//   - CreatedAt must not be in the future
//
// NOT validated:
//   - Embedding (can be empty until an embedding is computed)
//   - ScheduledDate (may legitimately be in the past or future)
//   - ID (0 is valid before content-hash assignment)
func ValidateMemoryRecord(record *MemoryRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidMemoryRecord)
	}

	if record.Content == "" {
		return fmt.Errorf("%w: %w", ErrInvalidMemoryRecord, ErrEmptyContent)
	}

	if err := ValidateMemoryType(record.Type); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidMemoryRecord, err)
	}

	if record.Importance < 1 || record.Importance > 10 {
		return fmt.Errorf("%w: %w", ErrInvalidMemoryRecord, ErrInvalidImportance)
	}

	if !IsValidTimestamp(record.CreatedAt) {
		return fmt.Errorf("%w: %w", ErrInvalidMemoryRecord, ErrInvalidTimestamp)
	}

	return nil
}

// ValidateMemoryType checks that t is one of the defined memory types.
func ValidateMemoryType(t MemoryType) error {
	if t < MemoryTypeGeneral || t > MemoryTypeReminder {
		return fmt.Errorf("%w: %d", ErrInvalidMemoryType, t)
	}
	return nil
}

// ValidateResolvedDate checks the Start <= End invariant of a ResolvedDate.
func ValidateResolvedDate(d ResolvedDate) error {
	if d.HasEnd() && d.End.Before(d.Start) {
		return fmt.Errorf("%w: %q", ErrInvalidDateRange, d.SourcePhrase)
	}
	return nil
}

// IsValidTimestamp reports whether t is non-zero and not in the future.
// A small clock-skew allowance of one minute is applied.
func IsValidTimestamp(t time.Time) bool {
	if t.IsZero() {
		return false
	}
	return !t.After(time.Now().Add(time.Minute))
}
