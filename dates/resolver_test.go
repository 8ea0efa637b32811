package dates

import (
	"testing"
	"time"

	"github.com/poiesic/recall/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// anchor is Sunday, 2025-08-10.
var anchor = time.Date(2025, 8, 10, 9, 30, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func resolveOne(t *testing.T, text string) core.ResolvedDate {
	t.Helper()
	resolved := Resolve(text, anchor)
	require.Len(t, resolved, 1, "expected exactly one date for %q", text)
	return resolved[0]
}

func TestResolveImmediateWords(t *testing.T) {
	for _, text := range []string{"today", "tonight", "now", "what is happening this evening"} {
		d := resolveOne(t, text)
		assert.Equal(t, core.DateKindExact, d.Kind)
		assert.True(t, d.Start.Equal(day(2025, 8, 10)), "%q resolved to %v", text, d.Start)
	}
}

func TestResolveAdjacentDays(t *testing.T) {
	d := resolveOne(t, "what's happening tomorrow")
	assert.True(t, d.Start.Equal(day(2025, 8, 11)))
	assert.Equal(t, "tomorrow", d.SourcePhrase)

	d = resolveOne(t, "what did I note yesterday")
	assert.True(t, d.Start.Equal(day(2025, 8, 9)))

	d = resolveOne(t, "pack tomorrow morning")
	assert.True(t, d.Start.Equal(day(2025, 8, 11)))
	assert.Equal(t, "tomorrow morning", d.SourcePhrase)
}

func TestResolveWeekRanges(t *testing.T) {
	t.Run("next week", func(t *testing.T) {
		d := resolveOne(t, "plans for next week")
		assert.Equal(t, core.DateKindRelativeRange, d.Kind)
		assert.True(t, d.Start.Equal(day(2025, 8, 17)))
		assert.True(t, d.End.Equal(day(2025, 8, 23)))
	})

	t.Run("this week from a sunday anchor ends the same day", func(t *testing.T) {
		d := resolveOne(t, "anything this week")
		assert.Equal(t, core.DateKindRelativeRange, d.Kind)
		assert.True(t, d.Start.Equal(day(2025, 8, 10)))
		assert.True(t, d.End.Equal(day(2025, 8, 10)))
	})

	t.Run("this week from a wednesday anchor runs to sunday", func(t *testing.T) {
		wednesday := time.Date(2025, 8, 13, 12, 0, 0, 0, time.UTC)
		resolved := Resolve("this week", wednesday)
		require.Len(t, resolved, 1)
		assert.True(t, resolved[0].Start.Equal(day(2025, 8, 13)))
		assert.True(t, resolved[0].End.Equal(day(2025, 8, 17)))
	})
}

func TestResolveNamedWeekdays(t *testing.T) {
	t.Run("bare weekday is the next occurrence strictly after the anchor", func(t *testing.T) {
		d := resolveOne(t, "tennis on friday")
		assert.True(t, d.Start.Equal(day(2025, 8, 15)))
	})

	t.Run("same weekday as the anchor lands a week out", func(t *testing.T) {
		d := resolveOne(t, "sunday brunch")
		assert.True(t, d.Start.Equal(day(2025, 8, 17)))
	})

	t.Run("explicit next pushes to the following week", func(t *testing.T) {
		d := resolveOne(t, "call mom next monday")
		assert.True(t, d.Start.Equal(day(2025, 8, 18)))
	})

	t.Run("abbreviations resolve", func(t *testing.T) {
		d := resolveOne(t, "gym on thurs")
		assert.True(t, d.Start.Equal(day(2025, 8, 14)))
	})
}

func TestResolveAbsoluteDates(t *testing.T) {
	cases := map[string]time.Time{
		"due 2025-12-25":            day(2025, 12, 25),
		"party on 12/25/2025":       day(2025, 12, 25),
		"dinner on December 25th":   day(2025, 12, 25),
		"exam on Jan 15, 2024":      day(2024, 1, 15),
		"review on march 3":         day(2025, 3, 3),
	}
	for text, want := range cases {
		d := resolveOne(t, text)
		assert.Equal(t, core.DateKindExact, d.Kind)
		assert.True(t, d.Start.Equal(want), "%q resolved to %v, want %v", text, d.Start, want)
	}

	t.Run("impossible dates are dropped", func(t *testing.T) {
		assert.Empty(t, Resolve("due 2024-02-30", anchor))
		assert.Empty(t, Resolve("due 13/45/2024", anchor))
	})
}

func TestResolveRelativeOffsets(t *testing.T) {
	d := resolveOne(t, "follow up in 3 days")
	assert.True(t, d.Start.Equal(day(2025, 8, 13)))

	d = resolveOne(t, "renew in 2 weeks")
	assert.True(t, d.Start.Equal(day(2025, 8, 24)))

	d = resolveOne(t, "review in 1 year")
	assert.True(t, d.Start.Equal(day(2026, 8, 10)))

	t.Run("from now phrasing", func(t *testing.T) {
		d := resolveOne(t, "5 days from now")
		assert.True(t, d.Start.Equal(day(2025, 8, 15)))
	})

	t.Run("month addition clamps the day of month", func(t *testing.T) {
		jan31 := time.Date(2025, 1, 31, 8, 0, 0, 0, time.UTC)
		resolved := Resolve("in 1 month", jan31)
		require.Len(t, resolved, 1)
		assert.True(t, resolved[0].Start.Equal(day(2025, 2, 28)))
	})
}

func TestResolveTimeOfDay(t *testing.T) {
	t.Run("time with no date phrase anchors to today", func(t *testing.T) {
		d := resolveOne(t, "tennis for 8:35 p.m.")
		assert.Equal(t, core.DateKindExact, d.Kind)
		assert.True(t, d.Start.Equal(time.Date(2025, 8, 10, 20, 35, 0, 0, time.UTC)))
	})

	t.Run("time attaches to a date phrase", func(t *testing.T) {
		d := resolveOne(t, "meeting tomorrow at 2 PM")
		assert.True(t, d.Start.Equal(time.Date(2025, 8, 11, 14, 0, 0, 0, time.UTC)))
	})

	t.Run("twelve hour normalization", func(t *testing.T) {
		d := resolveOne(t, "lunch at 12 pm")
		assert.Equal(t, 12, d.Start.Hour())

		d = resolveOne(t, "flight at 12:05 am")
		assert.Equal(t, 0, d.Start.Hour())
		assert.Equal(t, 5, d.Start.Minute())
	})

	t.Run("colon time without meridiem is twenty-four hour", func(t *testing.T) {
		d := resolveOne(t, "standup at 14:30")
		assert.Equal(t, 14, d.Start.Hour())
		assert.Equal(t, 30, d.Start.Minute())
	})

	t.Run("time does not attach to ranges", func(t *testing.T) {
		d := resolveOne(t, "next week at 9:00 am")
		assert.Equal(t, core.DateKindRelativeRange, d.Kind)
		assert.Equal(t, 0, d.Start.Hour())
	})
}

func TestResolveOverlapPolicy(t *testing.T) {
	t.Run("offset shadows the now keyword", func(t *testing.T) {
		d := resolveOne(t, "3 days from now")
		assert.True(t, d.Start.Equal(day(2025, 8, 13)))
	})

	t.Run("disjoint phrases all resolve in query order", func(t *testing.T) {
		resolved := Resolve("moved from 2025-12-25 to tomorrow", anchor)
		require.Len(t, resolved, 2)
		assert.True(t, resolved[0].Start.Equal(day(2025, 12, 25)))
		assert.True(t, resolved[1].Start.Equal(day(2025, 8, 11)))
	})
}

func TestResolveMalformedInput(t *testing.T) {
	for _, text := range []string{"", "   ", "xyzzynotarealword", "in banana days", "at noonish"} {
		assert.Empty(t, Resolve(text, anchor), "expected no dates for %q", text)
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	first := Resolve("dinner tomorrow at 7 pm and brunch on sunday", anchor)
	second := Resolve("dinner tomorrow at 7 pm and brunch on sunday", anchor)
	assert.Equal(t, first, second)
}
