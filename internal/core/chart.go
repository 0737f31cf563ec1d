package core

import (
	"fmt"
	"time"
)

var weekdayLabels = []string{
	"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
}

var monthLabels = []string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

type (
	// Series is one named value sequence, index-aligned with the labels.
	Series struct {
		Name   string    `json:"name"`
		Values []float64 `json:"values"`
	}

	// ChartData is the renderer-agnostic shape every chart consumes:
	// ordered labels plus one or more series of the same length.
	ChartData struct {
		Labels []string `json:"labels"`
		Series []Series `json:"series"`
	}
)

// DoughnutData builds the expense-breakdown slices for the given
// (already period-filtered) transactions. Categories that sum to zero
// are omitted so the doughnut never renders empty slices.
func DoughnutData(expenses []Transaction) ChartData {
	totals := SumByCategory(ByType(expenses, Expense))

	var data ChartData
	values := make([]float64, 0, len(totals))
	for _, key := range CategoryKeys(Expense) {
		if total, ok := totals[key]; ok && total.Cents > 0 {
			data.Labels = append(data.Labels, DisplayName(Expense, key))
			values = append(values, total.Float())
		}
	}
	data.Series = []Series{{Name: "Expenses", Values: values}}
	return data
}

// BarData builds the income-vs-expense comparison for the given
// (already period-filtered) transactions. The bucketing follows the
// period: weekdays for week view, days of now's month for month view,
// the 12 year-folded calendar months for all time. Both series always
// match the label count, zero-filled where a bucket has no data.
func BarData(txs []Transaction, p Period, now time.Time) ChartData {
	incomes := ByType(txs, Income)
	expenses := ByType(txs, Expense)

	var labels []string
	var incomeBuckets, expenseBuckets []Money
	switch p {
	case PeriodWeek:
		labels = append([]string(nil), weekdayLabels...)
		incomeBuckets = BucketByWeekday(incomes)
		expenseBuckets = BucketByWeekday(expenses)
	case PeriodMonth:
		days := DaysInMonth(now.Year(), now.Month())
		labels = make([]string, days)
		for i := range labels {
			labels[i] = fmt.Sprintf("%d", i+1)
		}
		incomeBuckets = BucketByDayOfMonth(incomes, now)
		expenseBuckets = BucketByDayOfMonth(expenses, now)
	default:
		labels = append([]string(nil), monthLabels...)
		incomeBuckets = BucketByMonth(incomes)
		expenseBuckets = BucketByMonth(expenses)
	}

	return ChartData{
		Labels: labels,
		Series: []Series{
			{Name: "Income", Values: moneyFloats(incomeBuckets)},
			{Name: "Expenses", Values: moneyFloats(expenseBuckets)},
		},
	}
}

// TrendData builds the chronological multi-year series from year-month
// buckets. Unlike BarData's all-time mode, months of different years
// stay distinct here.
func TrendData(txs []Transaction) ChartData {
	buckets := BucketByYearMonth(txs)

	data := ChartData{
		Labels: make([]string, len(buckets)),
		Series: []Series{
			{Name: "Income", Values: make([]float64, len(buckets))},
			{Name: "Expenses", Values: make([]float64, len(buckets))},
			{Name: "Balance", Values: make([]float64, len(buckets))},
		},
	}
	for i, b := range buckets {
		data.Labels[i] = fmt.Sprintf("%s %d", monthLabels[b.Month-1], b.Year)
		data.Series[0].Values[i] = b.Income.Float()
		data.Series[1].Values[i] = b.Expense.Float()
		data.Series[2].Values[i] = b.Income.Sub(b.Expense).Float()
	}
	return data
}

func moneyFloats(in []Money) []float64 {
	out := make([]float64, len(in))
	for i, m := range in {
		out[i] = m.Float()
	}
	return out
}
