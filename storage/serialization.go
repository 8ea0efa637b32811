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


package storage

import (
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/recall/core"
)

// Field order below is the on-disk contract. Append new fields at the end;
// never reorder.

var (
	tagsSer      = ord.NewSliceSer[string](ord.String)
	embeddingSer = ord.NewSliceSer[float32](raw.Float32)
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, varint.Uint64.Size(uint64(id)))
	varint.Uint64.Marshal(uint64(id), buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	v, _, err := varint.Uint64.Unmarshal(data)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return core.ID(v), nil
}

// MarshalMemoryRecord serializes a MemoryRecord to bytes.
func MarshalMemoryRecord(record *core.MemoryRecord) []byte {
	hasScheduled := record.ScheduledDate != nil

	size := varint.Uint64.Size(uint64(record.Id)) +
		ord.String.Size(record.Content) +
		ord.String.Size(record.Summary) +
		tagsSer.Size(record.Tags) +
		ord.String.Size(record.Reasoning) +
		varint.Int.Size(int(record.Type)) +
		varint.Int.Size(record.Importance) +
		raw.TimeUnixMicro.Size(record.CreatedAt) +
		ord.Bool.Size(hasScheduled)
	if hasScheduled {
		size += raw.TimeUnixMicro.Size(*record.ScheduledDate)
	}
	size += embeddingSer.Size(record.Embedding)

	buf := make([]byte, size)
	n := varint.Uint64.Marshal(uint64(record.Id), buf)
	n += ord.String.Marshal(record.Content, buf[n:])
	n += ord.String.Marshal(record.Summary, buf[n:])
	n += tagsSer.Marshal(record.Tags, buf[n:])
	n += ord.String.Marshal(record.Reasoning, buf[n:])
	n += varint.Int.Marshal(int(record.Type), buf[n:])
	n += varint.Int.Marshal(record.Importance, buf[n:])
	n += raw.TimeUnixMicro.Marshal(record.CreatedAt, buf[n:])
	n += ord.Bool.Marshal(hasScheduled, buf[n:])
	if hasScheduled {
		n += raw.TimeUnixMicro.Marshal(*record.ScheduledDate, buf[n:])
	}
	embeddingSer.Marshal(record.Embedding, buf[n:])
	return buf
}

// UnmarshalMemoryRecord deserializes a MemoryRecord from bytes.
func UnmarshalMemoryRecord(data []byte) (*core.MemoryRecord, error) {
	record := &core.MemoryRecord{}
	n := 0

	id, c, err := varint.Uint64.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: id: %w", ErrSerializationFailed, err)
	}
	record.Id = core.ID(id)
	n += c

	if record.Content, c, err = ord.String.Unmarshal(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: content: %w", ErrSerializationFailed, err)
	}
	n += c

	if record.Summary, c, err = ord.String.Unmarshal(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: summary: %w", ErrSerializationFailed, err)
	}
	n += c

	if record.Tags, c, err = tagsSer.Unmarshal(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: tags: %w", ErrSerializationFailed, err)
	}
	n += c

	if record.Reasoning, c, err = ord.String.Unmarshal(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: reasoning: %w", ErrSerializationFailed, err)
	}
	n += c

	memoryType, c, err := varint.Int.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: type: %w", ErrSerializationFailed, err)
	}
	record.Type = core.MemoryType(memoryType)
	n += c

	if record.Importance, c, err = varint.Int.Unmarshal(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: importance: %w", ErrSerializationFailed, err)
	}
	n += c

	if record.CreatedAt, c, err = raw.TimeUnixMicro.Unmarshal(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: createdAt: %w", ErrSerializationFailed, err)
	}
	n += c

	hasScheduled, c, err := ord.Bool.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: scheduled flag: %w", ErrSerializationFailed, err)
	}
	n += c

	if hasScheduled {
		var scheduled time.Time
		if scheduled, c, err = raw.TimeUnixMicro.Unmarshal(data[n:]); err != nil {
			return nil, fmt.Errorf("%w: scheduledDate: %w", ErrSerializationFailed, err)
		}
		record.ScheduledDate = &scheduled
		n += c
	}

	if record.Embedding, _, err = embeddingSer.Unmarshal(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: embedding: %w", ErrSerializationFailed, err)
	}

	return record, nil
}
