package calendar

import (
	"time"
)

// referenceOffset converts a nominal US Eastern release hour into the
// storage timezone. Upstream calendars quote times as a constant +5 hours
// rather than a DST-aware America/New_York conversion, which skews stored
// times by one hour for roughly half the year. Preserved deliberately:
// natural keys must stay aligned with what upstream sources publish.
const referenceOffset = 5 * time.Hour

// RuleKind identifies a recurrence rule shape.
type RuleKind int

const (
	// RuleNthWeekday is the n-th occurrence of a weekday in a month.
	RuleNthWeekday RuleKind = iota
	// RuleDayOfMonth is a fixed calendar day, clamped to month end and
	// shifted off weekends.
	RuleDayOfMonth
	// RuleLastWeekday is the final occurrence of a weekday in a month.
	RuleLastWeekday
	// RuleWeekly is every occurrence of a weekday in a month.
	RuleWeekly
)

// Rule is an abstract recurrence rule for a scheduled release.
type Rule struct {
	Kind    RuleKind
	N       int
	Weekday time.Weekday
	Day     int
}

// NthWeekday builds a rule for the n-th occurrence of weekday in a month.
// If the month has no such occurrence (no 5th Friday), no date is produced.
func NthWeekday(n int, weekday time.Weekday) Rule {
	return Rule{Kind: RuleNthWeekday, N: n, Weekday: weekday}
}

// DayOfMonth builds a rule for a fixed calendar day. Days past month end
// clamp to the last day; weekend landings shift Saturday back to Friday
// and Sunday forward to Monday.
func DayOfMonth(day int) Rule {
	return Rule{Kind: RuleDayOfMonth, Day: day}
}

// LastWeekday builds a rule for the final occurrence of weekday in a month.
func LastWeekday(weekday time.Weekday) Rule {
	return Rule{Kind: RuleLastWeekday, Weekday: weekday}
}

// Weekly builds a rule for every occurrence of weekday in a month.
func Weekly(weekday time.Weekday) Rule {
	return Rule{Kind: RuleWeekly, Weekday: weekday}
}

// Resolve computes the concrete date(s) the rule produces for a given
// year and month, as UTC midnights. A rule whose occurrence does not
// exist in the month yields no dates rather than an error.
func (r Rule) Resolve(year int, month time.Month) []time.Time {
	switch r.Kind {
	case RuleNthWeekday:
		day := nthWeekdayOfMonth(year, month, r.N, r.Weekday)
		if day == 0 {
			return nil
		}
		return []time.Time{dateOnly(year, month, day)}

	case RuleDayOfMonth:
		day := r.Day
		if last := daysInMonth(year, month); day > last {
			day = last
		}
		d := dateOnly(year, month, day)
		switch d.Weekday() {
		case time.Saturday:
			d = d.AddDate(0, 0, -1)
		case time.Sunday:
			d = d.AddDate(0, 0, 1)
		}
		return []time.Time{d}

	case RuleLastWeekday:
		d := dateOnly(year, month, daysInMonth(year, month))
		for d.Weekday() != r.Weekday {
			d = d.AddDate(0, 0, -1)
		}
		return []time.Time{d}

	case RuleWeekly:
		var dates []time.Time
		for n := 1; ; n++ {
			day := nthWeekdayOfMonth(year, month, n, r.Weekday)
			if day == 0 {
				break
			}
			dates = append(dates, dateOnly(year, month, day))
		}
		return dates
	}

	return nil
}

// ReleaseTime combines a resolved calendar date with the release's nominal
// US Eastern hour and minute, applying the fixed reference offset.
func ReleaseTime(date time.Time, hour, minute int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, time.UTC).
		Add(referenceOffset)
}

// nthWeekdayOfMonth returns the day number of the n-th weekday occurrence,
// or 0 when the month has fewer than n occurrences.
func nthWeekdayOfMonth(year int, month time.Month, n int, weekday time.Weekday) int {
	if n < 1 {
		return 0
	}
	first := dateOnly(year, month, 1)
	offset := (int(weekday) - int(first.Weekday()) + 7) % 7
	day := 1 + offset + (n-1)*7
	if day > daysInMonth(year, month) {
		return 0
	}
	return day
}

func daysInMonth(year int, month time.Month) int {
	// Day 0 of the next month normalizes to the last day of this month.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func dateOnly(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
