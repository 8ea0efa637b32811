package badger

import (
	"context"
	"testing"
	"time"

	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) storage.MemoryRepository {
	t.Helper()
	repo, backend, err := NewInMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})
	return repo
}

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)

	t.Run("add assigns content-hash ids", func(t *testing.T) {
		repo := newTestRepo(t)

		records, err := repo.AddMemories(ctx, &core.MemoryRecord{
			Content: "Water the plants",
			Type:    core.MemoryTypeGeneral,
		})
		require.NoError(t, err)
		require.Len(t, records, 1)

		assert.Equal(t, core.IDFromContent("Water the plants"), records[0].Id)
		assert.False(t, records[0].CreatedAt.IsZero())
	})

	t.Run("re-adding identical content overwrites", func(t *testing.T) {
		repo := newTestRepo(t)

		record := &core.MemoryRecord{Content: "Water the plants", Importance: 3}
		_, err := repo.AddMemories(ctx, record)
		require.NoError(t, err)

		again := &core.MemoryRecord{Content: "Water the plants", Importance: 7}
		_, err = repo.AddMemories(ctx, again)
		require.NoError(t, err)

		all, err := repo.ListMemories(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, 7, all[0].Importance)
	})

	t.Run("get round trip", func(t *testing.T) {
		repo := newTestRepo(t)
		scheduled := time.Date(2025, 8, 11, 14, 30, 0, 0, time.UTC)

		added, err := repo.AddMemories(ctx, &core.MemoryRecord{
			Content:       "Dentist appointment",
			Tags:          []string{"health"},
			Type:          core.MemoryTypeReminder,
			Importance:    8,
			CreatedAt:     created,
			ScheduledDate: &scheduled,
			Embedding:     []float32{0.1, 0.2},
		})
		require.NoError(t, err)

		got, err := repo.GetMemory(ctx, added[0].Id)
		require.NoError(t, err)
		assert.Equal(t, "Dentist appointment", got.Content)
		assert.Equal(t, []string{"health"}, got.Tags)
		assert.Equal(t, core.MemoryTypeReminder, got.Type)
		require.NotNil(t, got.ScheduledDate)
		assert.True(t, scheduled.Equal(*got.ScheduledDate))
		assert.Equal(t, []float32{0.1, 0.2}, got.Embedding)
	})

	t.Run("get missing returns ErrNotFound", func(t *testing.T) {
		repo := newTestRepo(t)
		_, err := repo.GetMemory(ctx, 12345)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("get many skips missing", func(t *testing.T) {
		repo := newTestRepo(t)
		added, err := repo.AddMemories(ctx,
			&core.MemoryRecord{Content: "one"},
			&core.MemoryRecord{Content: "two"},
		)
		require.NoError(t, err)

		got, err := repo.GetMemories(ctx, added[0].Id, 999, added[1].Id)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("update replaces record and indexes", func(t *testing.T) {
		repo := newTestRepo(t)
		added, err := repo.AddMemories(ctx, &core.MemoryRecord{
			Content:   "Call plumber",
			Tags:      []string{"home"},
			CreatedAt: created,
		})
		require.NoError(t, err)

		record := added[0]
		record.Tags = []string{"repairs"}
		_, err = repo.UpdateMemories(ctx, record)
		require.NoError(t, err)

		ids, err := repo.GetMemoryIDsByTag(ctx, "home")
		require.NoError(t, err)
		assert.Empty(t, ids)

		ids, err = repo.GetMemoryIDsByTag(ctx, "repairs")
		require.NoError(t, err)
		assert.Equal(t, []core.ID{record.Id}, ids)
	})

	t.Run("update missing returns ErrNotFound", func(t *testing.T) {
		repo := newTestRepo(t)
		_, err := repo.UpdateMemories(ctx, &core.MemoryRecord{Id: 42, Content: "ghost"})
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("delete removes record and indexes", func(t *testing.T) {
		repo := newTestRepo(t)
		scheduled := created.AddDate(0, 0, 5)
		added, err := repo.AddMemories(ctx, &core.MemoryRecord{
			Content:       "Flight to Lisbon",
			Tags:          []string{"travel"},
			CreatedAt:     created,
			ScheduledDate: &scheduled,
		})
		require.NoError(t, err)

		require.NoError(t, repo.DeleteMemories(ctx, added[0].Id))

		_, err = repo.GetMemory(ctx, added[0].Id)
		assert.ErrorIs(t, err, storage.ErrNotFound)

		ids, err := repo.GetMemoryIDsByTag(ctx, "travel")
		require.NoError(t, err)
		assert.Empty(t, ids)

		scheduledRecords, err := repo.GetMemoriesByScheduledRange(ctx, created, created.AddDate(0, 1, 0))
		require.NoError(t, err)
		assert.Empty(t, scheduledRecords)
	})

	t.Run("delete missing returns ErrNotFound", func(t *testing.T) {
		repo := newTestRepo(t)
		assert.ErrorIs(t, repo.DeleteMemories(ctx, 42), storage.ErrNotFound)
	})

	t.Run("scheduled range query is ordered and bounded", func(t *testing.T) {
		repo := newTestRepo(t)
		base := time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC)

		for i, day := range []int{3, 1, 8, 2} {
			scheduled := base.AddDate(0, 0, day)
			_, err := repo.AddMemories(ctx, &core.MemoryRecord{
				Content:       []string{"a", "b", "c", "d"}[i],
				CreatedAt:     created,
				ScheduledDate: &scheduled,
			})
			require.NoError(t, err)
		}

		got, err := repo.GetMemoriesByScheduledRange(ctx, base, base.AddDate(0, 0, 4))
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "b", got[0].Content)
		assert.Equal(t, "d", got[1].Content)
		assert.Equal(t, "a", got[2].Content)
	})

	t.Run("scheduled range rejects inverted bounds", func(t *testing.T) {
		repo := newTestRepo(t)
		_, err := repo.GetMemoriesByScheduledRange(ctx, created, created.AddDate(0, 0, -1))
		assert.ErrorIs(t, err, storage.ErrInvalidQuery)
	})

	t.Run("recent memories returns newest first", func(t *testing.T) {
		repo := newTestRepo(t)

		for i := 0; i < 5; i++ {
			_, err := repo.AddMemories(ctx, &core.MemoryRecord{
				Content:   []string{"one", "two", "three", "four", "five"}[i],
				CreatedAt: created.Add(time.Duration(i) * time.Hour),
			})
			require.NoError(t, err)
		}

		got, err := repo.GetRecentMemories(ctx, 2)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "five", got[0].Content)
		assert.Equal(t, "four", got[1].Content)
	})

	t.Run("tag lookup is case-insensitive", func(t *testing.T) {
		repo := newTestRepo(t)
		added, err := repo.AddMemories(ctx, &core.MemoryRecord{
			Content: "Gym session",
			Tags:    []string{"Fitness"},
		})
		require.NoError(t, err)

		ids, err := repo.GetMemoryIDsByTag(ctx, "fitness")
		require.NoError(t, err)
		assert.Equal(t, []core.ID{added[0].Id}, ids)
	})

	t.Run("list returns full corpus", func(t *testing.T) {
		repo := newTestRepo(t)
		_, err := repo.AddMemories(ctx,
			&core.MemoryRecord{Content: "one"},
			&core.MemoryRecord{Content: "two"},
			&core.MemoryRecord{Content: "three"},
		)
		require.NoError(t, err)

		all, err := repo.ListMemories(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})
}
