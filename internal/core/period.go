package core

import (
	"math"
	"time"
)

const (
	PeriodAll   Period = "all"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// Period selects how far back a filtered view reaches.
type Period string

func (p Period) Valid() bool {
	switch p {
	case PeriodAll, PeriodWeek, PeriodMonth:
		return true
	}
	return false
}

// WeekNumber returns the week of the year a date falls in, computed as
// ceil((dayOfYear + jan1Weekday + 1) / 7) with weeks anchored to
// January 1 rather than Monday. This is intentionally not ISO-8601:
// historical week-bucketed charts were produced with this formula and
// changing it would shift their boundaries.
func WeekNumber(t time.Time) int {
	jan1 := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
	return int(math.Ceil(float64(t.YearDay()+int(jan1.Weekday())+1) / 7))
}

// FilterByPeriod returns the transactions matching the period relative
// to now. The result is a fresh slice; input order is preserved and
// nothing is sorted.
func FilterByPeriod(txs []Transaction, p Period, now time.Time) []Transaction {
	out := make([]Transaction, 0, len(txs))
	for _, t := range txs {
		if matchesPeriod(t.Date, p, now) {
			out = append(out, t)
		}
	}
	return out
}

func matchesPeriod(date time.Time, p Period, now time.Time) bool {
	switch p {
	case PeriodMonth:
		return date.Month() == now.Month() && date.Year() == now.Year()
	case PeriodWeek:
		return WeekNumber(date) == WeekNumber(now) && date.Year() == now.Year()
	default:
		return true
	}
}
