package dates

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/recall/core"
)

// candidate is a potential date match found in the text. Specificity decides
// which candidate survives when spans overlap.
type candidate struct {
	date core.ResolvedDate
	pos  int
	end  int
	spec int
}

// timeOfDay is an hour/minute suffix parsed from the text.
type timeOfDay struct {
	hour, minute int
	pos, end     int
	phrase       string
}

// Resolve extracts calendar dates and ranges from natural-language text,
// relative to the anchor time. It is pure and deterministic given the anchor.
//
// When patterns match overlapping spans, the most specific wins
// (absolute > named weekday > relative offset > relative keyword), with ties
// broken by earliest position. Malformed fragments are dropped silently.
//
// A time-of-day suffix with no accompanying date phrase resolves to the
// anchor date at that time, so "tennis for 8:35 p.m." yields today at 20:35.
func Resolve(text string, anchor time.Time) []core.ResolvedDate {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	lower := strings.ToLower(text)
	day := anchorDay(anchor)

	var candidates []candidate
	candidates = append(candidates, absoluteCandidates(lower, day)...)
	candidates = append(candidates, weekdayCandidates(lower, day)...)
	candidates = append(candidates, offsetCandidates(lower, day)...)
	candidates = append(candidates, keywordCandidates(lower, day)...)

	accepted := selectNonOverlapping(candidates)

	tod := parseTimeOfDay(lower)
	if tod != nil {
		if len(accepted) == 0 {
			return []core.ResolvedDate{{
				Kind:         core.DateKindExact,
				Start:        atTime(day, tod.hour, tod.minute),
				SourcePhrase: tod.phrase,
			}}
		}
		for i := range accepted {
			if accepted[i].Kind != core.DateKindRelativeRange {
				accepted[i].Start = atTime(accepted[i].Start, tod.hour, tod.minute)
			}
		}
	}

	return accepted
}

func anchorDay(anchor time.Time) time.Time {
	return time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, anchor.Location())
}

func atTime(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
}

// pyWeekday maps Go weekdays to Monday=0..Sunday=6 numbering, which the
// "this week" range arithmetic is defined in.
func pyWeekday(w time.Weekday) int {
	return (int(w) + 6) % 7
}

func absoluteCandidates(text string, day time.Time) []candidate {
	var out []candidate

	for _, m := range isoDateRe.FindAllStringSubmatchIndex(text, -1) {
		year := atoi(text[m[2]:m[3]])
		month := atoi(text[m[4]:m[5]])
		dom := atoi(text[m[6]:m[7]])
		out = appendAbsolute(out, text, m, year, month, dom, day.Location())
	}

	for _, m := range slashDateRe.FindAllStringSubmatchIndex(text, -1) {
		month := atoi(text[m[2]:m[3]])
		dom := atoi(text[m[4]:m[5]])
		year := atoi(text[m[6]:m[7]])
		out = appendAbsolute(out, text, m, year, month, dom, day.Location())
	}

	for _, m := range monthNameRe.FindAllStringSubmatchIndex(text, -1) {
		month, ok := monthsByName[text[m[2]:m[3]]]
		if !ok {
			continue
		}
		dom := atoi(text[m[4]:m[5]])
		year := day.Year()
		if m[6] >= 0 {
			year = atoi(text[m[6]:m[7]])
		}
		out = appendAbsolute(out, text, m, year, int(month), dom, day.Location())
	}

	return out
}

// appendAbsolute validates the calendar components and appends an exact
// candidate. Impossible dates such as 2024-02-30 are dropped.
func appendAbsolute(out []candidate, text string, m []int, year, month, dom int, loc *time.Location) []candidate {
	if month < 1 || month > 12 || dom < 1 {
		return out
	}
	resolved := time.Date(year, time.Month(month), dom, 0, 0, 0, 0, loc)
	if resolved.Day() != dom || int(resolved.Month()) != month {
		return out
	}
	return append(out, candidate{
		date: core.ResolvedDate{
			Kind:         core.DateKindExact,
			Start:        resolved,
			SourcePhrase: text[m[0]:m[1]],
		},
		pos:  m[0],
		end:  m[1],
		spec: specAbsolute,
	})
}

func weekdayCandidates(text string, day time.Time) []candidate {
	var out []candidate
	for _, m := range weekdayRe.FindAllStringSubmatchIndex(text, -1) {
		target, ok := weekdaysByName[text[m[4]:m[5]]]
		if !ok {
			continue
		}

		// Next occurrence strictly after the anchor.
		ahead := (int(target) - int(day.Weekday()) + 7) % 7
		if ahead == 0 {
			ahead = 7
		}
		// An explicit "next" pushes to the following week even when the
		// weekday has not yet passed this week.
		if m[2] >= 0 && text[m[2]:m[3]] == "next" {
			ahead += 7
		}

		out = append(out, candidate{
			date: core.ResolvedDate{
				Kind:         core.DateKindRelativeDay,
				Start:        day.AddDate(0, 0, ahead),
				SourcePhrase: text[m[0]:m[1]],
			},
			pos:  m[0],
			end:  m[1],
			spec: specWeekday,
		})
	}
	return out
}

func offsetCandidates(text string, day time.Time) []candidate {
	var out []candidate

	emit := func(m []int, n int, unit string) {
		var resolved time.Time
		switch unit {
		case "day":
			resolved = day.AddDate(0, 0, n)
		case "week":
			resolved = day.AddDate(0, 0, 7*n)
		case "month":
			resolved = addMonthsClamped(day, n)
		case "year":
			resolved = addMonthsClamped(day, 12*n)
		default:
			return
		}
		out = append(out, candidate{
			date: core.ResolvedDate{
				Kind:         core.DateKindExact,
				Start:        resolved,
				SourcePhrase: text[m[0]:m[1]],
			},
			pos:  m[0],
			end:  m[1],
			spec: specOffset,
		})
	}

	for _, m := range offsetRe.FindAllStringSubmatchIndex(text, -1) {
		emit(m, atoi(text[m[2]:m[3]]), text[m[4]:m[5]])
	}
	for _, m := range fromNowRe.FindAllStringSubmatchIndex(text, -1) {
		emit(m, atoi(text[m[2]:m[3]]), text[m[4]:m[5]])
	}

	return out
}

func keywordCandidates(text string, day time.Time) []candidate {
	var out []candidate
	for _, m := range keywordRe.FindAllStringSubmatchIndex(text, -1) {
		phrase := text[m[2]:m[3]]
		date, ok := resolveKeyword(phrase, day)
		if !ok {
			continue
		}
		date.SourcePhrase = phrase
		out = append(out, candidate{date: date, pos: m[0], end: m[1], spec: specKeyword})
	}
	return out
}

func resolveKeyword(phrase string, day time.Time) (core.ResolvedDate, bool) {
	exact := func(t time.Time) (core.ResolvedDate, bool) {
		return core.ResolvedDate{Kind: core.DateKindExact, Start: t}, true
	}
	relDay := func(t time.Time) (core.ResolvedDate, bool) {
		return core.ResolvedDate{Kind: core.DateKindRelativeDay, Start: t}, true
	}

	switch phrase {
	case "today", "tonight", "now", "this evening", "this morning", "this afternoon",
		"this month", "this year":
		return exact(day)
	case "tomorrow", "tomorrow morning", "tomorrow evening", "tomorrow night":
		return exact(day.AddDate(0, 0, 1))
	case "yesterday":
		return exact(day.AddDate(0, 0, -1))
	case "next week":
		return core.ResolvedDate{
			Kind:  core.DateKindRelativeRange,
			Start: day.AddDate(0, 0, 7),
			End:   day.AddDate(0, 0, 13),
		}, true
	case "this week":
		return core.ResolvedDate{
			Kind:  core.DateKindRelativeRange,
			Start: day,
			End:   day.AddDate(0, 0, 6-pyWeekday(day.Weekday())),
		}, true
	case "last week":
		return relDay(day.AddDate(0, 0, -7))
	case "next month":
		return relDay(addMonthsClamped(day, 1))
	case "last month":
		return relDay(addMonthsClamped(day, -1))
	case "next year":
		return relDay(addMonthsClamped(day, 12))
	case "last year":
		return relDay(addMonthsClamped(day, -12))
	default:
		return core.ResolvedDate{}, false
	}
}

// addMonthsClamped adds n calendar months, clamping the day of month to the
// last valid day of the target month. Unlike time.AddDate, January 31 plus
// one month is February 28/29, not March 2/3.
func addMonthsClamped(t time.Time, n int) time.Time {
	months := int(t.Month()) - 1 + n
	year := t.Year() + months/12
	months %= 12
	if months < 0 {
		months += 12
		year--
	}
	month := time.Month(months + 1)

	dom := t.Day()
	if last := lastDayOfMonth(year, month); dom > last {
		dom = last
	}
	return time.Date(year, month, dom, t.Hour(), t.Minute(), 0, 0, t.Location())
}

func lastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// parseTimeOfDay finds the first time-of-day suffix in the text.
// Twelve-hour notation is normalized (12 AM -> 0, 12 PM -> 12) after
// stripping the periods from "a.m."/"p.m.".
func parseTimeOfDay(text string) *timeOfDay {
	if m := clockTimeRe.FindStringSubmatchIndex(text); m != nil {
		hour := atoi(text[m[2]:m[3]])
		minute := atoi(text[m[4]:m[5]])
		meridiem := ""
		if m[6] >= 0 {
			meridiem = text[m[6]:m[7]]
		}
		return normalizeTime(text, m, hour, minute, meridiem)
	}
	if m := hourTimeRe.FindStringSubmatchIndex(text); m != nil {
		hour := atoi(text[m[2]:m[3]])
		meridiem := text[m[4]:m[5]]
		return normalizeTime(text, m, hour, 0, meridiem)
	}
	return nil
}

func normalizeTime(text string, m []int, hour, minute int, meridiem string) *timeOfDay {
	meridiem = strings.ReplaceAll(strings.ToLower(meridiem), ".", "")
	switch meridiem {
	case "pm":
		if hour != 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}
	if hour > 23 || minute > 59 {
		return nil
	}
	return &timeOfDay{
		hour:   hour,
		minute: minute,
		pos:    m[0],
		end:    m[1],
		phrase: text[m[0]:m[1]],
	}
}

// selectNonOverlapping keeps the most specific candidate for each span of
// text, breaking ties by earliest position, and returns the survivors in
// query order.
func selectNonOverlapping(candidates []candidate) []core.ResolvedDate {
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].spec != candidates[j].spec {
			return candidates[i].spec > candidates[j].spec
		}
		return candidates[i].pos < candidates[j].pos
	})

	var accepted []candidate
	for _, c := range candidates {
		overlaps := false
		for _, a := range accepted {
			if c.pos < a.end && a.pos < c.end {
				overlaps = true
				break
			}
		}
		if !overlaps {
			accepted = append(accepted, c)
		}
	}

	sort.Slice(accepted, func(i, j int) bool { return accepted[i].pos < accepted[j].pos })

	out := make([]core.ResolvedDate, len(accepted))
	for i, c := range accepted {
		out[i] = c.date
	}
	return out
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
