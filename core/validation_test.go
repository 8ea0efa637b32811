package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validRecord() *MemoryRecord {
	return &MemoryRecord{
		Content:    "Dentist appointment tomorrow at 10 AM",
		Type:       MemoryTypeReminder,
		Importance: 7,
		CreatedAt:  time.Now().Add(-time.Hour),
	}
}

func TestValidateMemoryRecord(t *testing.T) {
	t.Run("valid record", func(t *testing.T) {
		assert.NoError(t, ValidateMemoryRecord(validRecord()))
	})

	t.Run("nil record", func(t *testing.T) {
		err := ValidateMemoryRecord(nil)
		assert.ErrorIs(t, err, ErrInvalidMemoryRecord)
	})

	t.Run("empty content", func(t *testing.T) {
		record := validRecord()
		record.Content = ""
		err := ValidateMemoryRecord(record)
		assert.ErrorIs(t, err, ErrEmptyContent)
	})

	t.Run("importance out of range", func(t *testing.T) {
		for _, importance := range []int{0, -1, 11} {
			record := validRecord()
			record.Importance = importance
			assert.ErrorIs(t, ValidateMemoryRecord(record), ErrInvalidImportance)
		}
	})

	t.Run("invalid type", func(t *testing.T) {
		record := validRecord()
		record.Type = MemoryType(99)
		assert.ErrorIs(t, ValidateMemoryRecord(record), ErrInvalidMemoryType)
	})

	t.Run("future created at", func(t *testing.T) {
		record := validRecord()
		record.CreatedAt = time.Now().Add(48 * time.Hour)
		assert.ErrorIs(t, ValidateMemoryRecord(record), ErrInvalidTimestamp)
	})
}

func TestValidateResolvedDate(t *testing.T) {
	start := time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC)

	t.Run("point date", func(t *testing.T) {
		assert.NoError(t, ValidateResolvedDate(ResolvedDate{Kind: DateKindExact, Start: start}))
	})

	t.Run("ordered range", func(t *testing.T) {
		d := ResolvedDate{Kind: DateKindRelativeRange, Start: start, End: start.AddDate(0, 0, 6)}
		assert.NoError(t, ValidateResolvedDate(d))
	})

	t.Run("inverted range", func(t *testing.T) {
		d := ResolvedDate{Kind: DateKindRelativeRange, Start: start, End: start.AddDate(0, 0, -1)}
		assert.ErrorIs(t, ValidateResolvedDate(d), ErrInvalidDateRange)
	})
}
