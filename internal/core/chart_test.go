package core

import (
	"testing"
	"time"
)

func TestDoughnutDataOmitsZeroCategories(t *testing.T) {
	txs := []Transaction{
		tx(Expense, 1200, "food", NewDate(2025, time.June, 1)),
		tx(Expense, 800, "shopping", NewDate(2025, time.June, 2)),
		tx(Expense, 0, "transport", NewDate(2025, time.June, 3)),
		tx(Income, 5000, "salary", NewDate(2025, time.June, 4)), // ignored
	}

	data := DoughnutData(txs)
	wantLabels := []string{"Food & Dining", "Shopping"}
	if len(data.Labels) != len(wantLabels) {
		t.Fatalf("labels = %v, want %v", data.Labels, wantLabels)
	}
	for i := range wantLabels {
		if data.Labels[i] != wantLabels[i] {
			t.Fatalf("label %d = %q, want %q", i, data.Labels[i], wantLabels[i])
		}
	}
	if len(data.Series) != 1 || len(data.Series[0].Values) != len(data.Labels) {
		t.Fatal("series must align with labels")
	}
	if data.Series[0].Values[0] != 12 {
		t.Fatalf("food slice = %v, want 12", data.Series[0].Values[0])
	}
}

func TestBarDataShapePerPeriod(t *testing.T) {
	now := NewDate(2025, time.June, 15)
	txs := []Transaction{
		tx(Income, 5000, "salary", NewDate(2025, time.June, 9)),
		tx(Expense, 1500, "food", NewDate(2025, time.June, 10)),
	}

	cases := []struct {
		period Period
		labels int
	}{
		{PeriodWeek, 7},
		{PeriodMonth, 30},
		{PeriodAll, 12},
	}
	for _, tc := range cases {
		data := BarData(txs, tc.period, now)
		if len(data.Labels) != tc.labels {
			t.Fatalf("%s: %d labels, want %d", tc.period, len(data.Labels), tc.labels)
		}
		if len(data.Series) != 2 {
			t.Fatalf("%s: %d series, want income and expenses", tc.period, len(data.Series))
		}
		for _, s := range data.Series {
			if len(s.Values) != tc.labels {
				t.Fatalf("%s: series %q has %d values for %d labels", tc.period, s.Name, len(s.Values), tc.labels)
			}
		}
	}
}

func TestBarDataMonthLabelsAndPlacement(t *testing.T) {
	now := NewDate(2025, time.June, 15)
	txs := []Transaction{
		tx(Expense, 1500, "food", NewDate(2025, time.June, 10)),
	}
	data := BarData(txs, PeriodMonth, now)
	if data.Labels[0] != "1" || data.Labels[29] != "30" {
		t.Fatalf("day labels = %q..%q, want 1..30", data.Labels[0], data.Labels[29])
	}
	if data.Series[1].Values[9] != 15 {
		t.Fatalf("June 10 expense bucket = %v, want 15", data.Series[1].Values[9])
	}
}

func TestTrendDataChronology(t *testing.T) {
	txs := []Transaction{
		tx(Income, 200000, "salary", NewDate(2025, time.January, 1)),
		tx(Expense, 50000, "food", NewDate(2025, time.January, 15)),
		tx(Income, 200000, "salary", NewDate(2024, time.December, 1)),
		tx(Expense, 250000, "shopping", NewDate(2024, time.December, 20)),
	}

	data := TrendData(txs)
	if len(data.Labels) != 2 {
		t.Fatalf("labels = %v, want two year-months", data.Labels)
	}
	if data.Labels[0] != "Dec 2024" || data.Labels[1] != "Jan 2025" {
		t.Fatalf("labels = %v, want chronological [Dec 2024 Jan 2025]", data.Labels)
	}
	if len(data.Series) != 3 {
		t.Fatalf("series = %d, want income, expenses and balance", len(data.Series))
	}
	// December overspends, January recovers.
	if data.Series[2].Values[0] != -500 {
		t.Fatalf("Dec balance = %v, want -500", data.Series[2].Values[0])
	}
	if data.Series[2].Values[1] != 1500 {
		t.Fatalf("Jan balance = %v, want 1500", data.Series[2].Values[1])
	}
}
