package core

import (
	"testing"
	"time"
)

func tx(typ TransactionType, cents int64, category string, date time.Time) Transaction {
	return Transaction{
		ID:       "t-" + date.Format("20060102") + category,
		Type:     typ,
		Name:     "test",
		Amount:   Money{Cents: cents},
		Category: category,
		Date:     date,
	}
}

func TestWeekNumberAnchoredToJanFirst(t *testing.T) {
	// 2025-01-01 is a Wednesday (weekday 3): ceil((1+3+1)/7) = 1.
	if got := WeekNumber(NewDate(2025, time.January, 1)); got != 1 {
		t.Fatalf("week of Jan 1 = %d, want 1", got)
	}
	// 2025-01-04 (Saturday) already lands in week 2: ceil((4+3+1)/7) = 2.
	// The boundary comes from the Jan-1 anchor, not from Monday.
	if got := WeekNumber(NewDate(2025, time.January, 4)); got != 2 {
		t.Fatalf("week of Jan 4 = %d, want 2", got)
	}
	// 2025-12-31: ceil((365+3+1)/7) = 53.
	if got := WeekNumber(NewDate(2025, time.December, 31)); got != 53 {
		t.Fatalf("week of Dec 31 = %d, want 53", got)
	}
}

func TestFilterByPeriod(t *testing.T) {
	now := NewDate(2025, time.June, 15)
	txs := []Transaction{
		tx(Expense, 100, "food", NewDate(2025, time.June, 14)),
		tx(Expense, 200, "food", NewDate(2025, time.June, 1)),
		tx(Expense, 300, "food", NewDate(2025, time.May, 20)),
		tx(Income, 400, "salary", NewDate(2024, time.June, 15)),
	}

	cases := []struct {
		period Period
		want   int
	}{
		{PeriodAll, 4},
		{PeriodMonth, 2},
		{PeriodWeek, 1}, // only June 14 shares now's week number
	}
	for _, tc := range cases {
		got := FilterByPeriod(txs, tc.period, now)
		if len(got) != tc.want {
			t.Fatalf("FilterByPeriod(%s) kept %d transactions, want %d", tc.period, len(got), tc.want)
		}
	}
}

func TestFilterByPeriodPreservesOrder(t *testing.T) {
	now := NewDate(2025, time.June, 15)
	txs := []Transaction{
		tx(Expense, 1, "food", NewDate(2025, time.June, 3)),
		tx(Expense, 2, "shopping", NewDate(2025, time.June, 1)),
		tx(Expense, 3, "other", NewDate(2025, time.June, 2)),
	}
	got := FilterByPeriod(txs, PeriodMonth, now)
	for i := range got {
		if got[i].Amount.Cents != txs[i].Amount.Cents {
			t.Fatalf("order changed at index %d", i)
		}
	}
}

func TestFilterByPeriodIdempotent(t *testing.T) {
	now := NewDate(2025, time.June, 15)
	txs := []Transaction{
		tx(Expense, 100, "food", NewDate(2025, time.June, 14)),
		tx(Expense, 300, "food", NewDate(2025, time.May, 20)),
		tx(Income, 400, "salary", NewDate(2025, time.June, 2)),
	}
	once := FilterByPeriod(txs, PeriodMonth, now)
	twice := FilterByPeriod(once, PeriodMonth, now)
	if len(once) != len(twice) {
		t.Fatalf("second filter changed size: %d vs %d", len(once), len(twice))
	}
	for i := range once {
		if once[i].ID != twice[i].ID {
			t.Fatalf("second filter changed element %d", i)
		}
	}
}

func TestFilterByPeriodDoesNotMutateInput(t *testing.T) {
	now := NewDate(2025, time.June, 15)
	txs := []Transaction{
		tx(Expense, 100, "food", NewDate(2025, time.May, 1)),
		tx(Expense, 200, "food", NewDate(2025, time.June, 1)),
	}
	_ = FilterByPeriod(txs, PeriodMonth, now)
	if len(txs) != 2 || txs[0].Amount.Cents != 100 {
		t.Fatal("input slice was mutated")
	}
}
