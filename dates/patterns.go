package dates

import (
	"regexp"
	"time"
)

// Pattern specificity, highest wins when matched spans overlap.
const (
	specKeyword = iota + 1
	specOffset
	specWeekday
	specAbsolute
)

var (
	isoDateRe   = regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})\b`)
	slashDateRe = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`)

	// "December 25th", "Jan 15, 2024". Year is optional; the anchor year is
	// assumed when absent. Full month names listed before abbreviations so
	// the longest alternative wins.
	monthNameRe = regexp.MustCompile(`\b(january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sept|sep|oct|nov|dec)\.?\s+(\d{1,2})(?:st|nd|rd|th)?(?:,?\s+(\d{4}))?\b`)

	weekdayRe = regexp.MustCompile(`\b(?:(next|this)\s+)?(monday|mon|tuesday|tues|tue|wednesday|wed|thursday|thurs|thu|friday|fri|saturday|sat|sunday|sun)\b`)

	offsetRe  = regexp.MustCompile(`\bin (\d+) (day|week|month|year)s?\b`)
	fromNowRe = regexp.MustCompile(`\b(\d+) (day|week)s? from now\b`)

	// Time-of-day suffixes. Colon forms may omit the meridiem; bare-hour
	// forms require it so "at 2" alone is not treated as a time.
	clockTimeRe = regexp.MustCompile(`\b(?:at|for)\s+(\d{1,2}):(\d{2})(?::\d{2})?\s*(am|pm|a\.m\.|p\.m\.)?`)
	hourTimeRe  = regexp.MustCompile(`\b(?:at|for)\s+(\d{1,2})\s*(am|pm|a\.m\.|p\.m\.)`)

	// Keyword phrases, longest first so "tomorrow morning" shadows "tomorrow".
	keywordRe = regexp.MustCompile(`\b(tomorrow morning|tomorrow evening|tomorrow night|this afternoon|this evening|this morning|tomorrow|yesterday|tonight|today|now|next week|this week|next month|this month|next year|this year|last week|last month|last year)\b`)
)

var monthsByName = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may": time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sept": time.September, "sep": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

var weekdaysByName = map[string]time.Weekday{
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tues": time.Tuesday, "tue": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thurs": time.Thursday, "thu": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
	"sunday": time.Sunday, "sun": time.Sunday,
}
