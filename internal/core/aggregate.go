package core

import (
	"sort"
	"time"
)

// SumByCategory sums amounts per category key over the given subset.
// Callers filter by type and period first; categories absent from the
// subset are simply not present in the map.
func SumByCategory(txs []Transaction) map[string]Money {
	totals := make(map[string]Money)
	for _, t := range txs {
		totals[t.Category] = totals[t.Category].Add(t.Amount)
	}
	return totals
}

// BucketByWeekday sums amounts into a fixed 7-slot series indexed by
// weekday, Sunday first. Days without data stay zero.
func BucketByWeekday(txs []Transaction) []Money {
	buckets := make([]Money, 7)
	for _, t := range txs {
		i := int(t.Date.Weekday())
		buckets[i] = buckets[i].Add(t.Amount)
	}
	return buckets
}

// BucketByDayOfMonth sums amounts into one slot per day of now's
// calendar month. The slice always has exactly daysInMonth entries.
func BucketByDayOfMonth(txs []Transaction, now time.Time) []Money {
	buckets := make([]Money, DaysInMonth(now.Year(), now.Month()))
	for _, t := range txs {
		day := t.Date.Day()
		if day >= 1 && day <= len(buckets) {
			buckets[day-1] = buckets[day-1].Add(t.Amount)
		}
	}
	return buckets
}

// BucketByMonth sums amounts into the 12 calendar months, folding all
// years together: a January 2023 and a January 2024 amount land in the
// same slot. Used by the all-time category/overview charts.
func BucketByMonth(txs []Transaction) []Money {
	buckets := make([]Money, 12)
	for _, t := range txs {
		i := int(t.Date.Month()) - 1
		buckets[i] = buckets[i].Add(t.Amount)
	}
	return buckets
}

// YearMonthBucket is one chronological point in a multi-year series.
type YearMonthBucket struct {
	Year    int
	Month   time.Month
	Income  Money
	Expense Money
}

// BucketByYearMonth groups income and expense by compound year-month
// key and returns the buckets chronologically sorted. Unlike
// BucketByMonth, values from different years stay separate; this mode
// feeds the month-over-month trend chart.
func BucketByYearMonth(txs []Transaction) []YearMonthBucket {
	type ym struct {
		year  int
		month time.Month
	}
	grouped := make(map[ym]*YearMonthBucket)
	for _, t := range txs {
		key := ym{t.Date.Year(), t.Date.Month()}
		b, ok := grouped[key]
		if !ok {
			b = &YearMonthBucket{Year: key.year, Month: key.month}
			grouped[key] = b
		}
		if t.Type == Income {
			b.Income = b.Income.Add(t.Amount)
		} else {
			b.Expense = b.Expense.Add(t.Amount)
		}
	}
	out := make([]YearMonthBucket, 0, len(grouped))
	for _, b := range grouped {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out
}

// ByType splits transactions into the subset matching typ.
func ByType(txs []Transaction, typ TransactionType) []Transaction {
	out := make([]Transaction, 0, len(txs))
	for _, t := range txs {
		if t.Type == typ {
			out = append(out, t)
		}
	}
	return out
}

// DaysInMonth returns the number of days in the given calendar month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
