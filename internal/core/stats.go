package core

import "time"

const (
	BudgetOK      BudgetState = "ok"
	BudgetWarning BudgetState = "warning"
	BudgetDanger  BudgetState = "danger"
)

type (
	// Stats is the summary recomputed on every read; it is never stored.
	Stats struct {
		TotalIncome  Money   `json:"totalIncome"`
		TotalExpense Money   `json:"totalExpense"`
		Balance      Money   `json:"balance"`
		SavingsRate  float64 `json:"savingsRate"`
		IncomeTrend  float64 `json:"incomeTrend"`
		ExpenseTrend float64 `json:"expenseTrend"`
		BalanceTrend float64 `json:"balanceTrend"`
	}

	BudgetState string

	// BudgetStatus describes this month's consumption of one category
	// budget.
	BudgetStatus struct {
		Category   string      `json:"category"`
		Budgeted   Money       `json:"budgeted"`
		Spent      Money       `json:"spent"`
		Percentage float64     `json:"percentage"`
		State      BudgetState `json:"status"`
	}
)

// TrendPercent is the signed percentage change of current vs previous:
// 0 when both are zero, 100 when growing from zero, otherwise
// (current-previous)/previous*100.
func TrendPercent(current, previous float64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return (current - previous) / previous * 100
}

// ComputeStats derives the all-time totals and the month-over-month
// trends. Totals deliberately ignore the period filter; trends compare
// now's calendar month against the immediately preceding one, with the
// January-to-December rollover handled.
func ComputeStats(txs []Transaction, now time.Time) Stats {
	var s Stats

	curYear, curMonth := now.Year(), now.Month()
	prevYear, prevMonth := curYear, curMonth-1
	if curMonth == time.January {
		prevYear, prevMonth = curYear-1, time.December
	}

	var curIncome, curExpense, prevIncome, prevExpense Money
	for _, t := range txs {
		if t.Type == Income {
			s.TotalIncome = s.TotalIncome.Add(t.Amount)
		} else {
			s.TotalExpense = s.TotalExpense.Add(t.Amount)
		}
		switch {
		case t.Date.Year() == curYear && t.Date.Month() == curMonth:
			if t.Type == Income {
				curIncome = curIncome.Add(t.Amount)
			} else {
				curExpense = curExpense.Add(t.Amount)
			}
		case t.Date.Year() == prevYear && t.Date.Month() == prevMonth:
			if t.Type == Income {
				prevIncome = prevIncome.Add(t.Amount)
			} else {
				prevExpense = prevExpense.Add(t.Amount)
			}
		}
	}

	s.Balance = s.TotalIncome.Sub(s.TotalExpense)
	if s.TotalIncome.Cents > 0 {
		s.SavingsRate = s.Balance.Float() / s.TotalIncome.Float() * 100
	}

	s.IncomeTrend = TrendPercent(curIncome.Float(), prevIncome.Float())
	s.ExpenseTrend = TrendPercent(curExpense.Float(), prevExpense.Float())
	s.BalanceTrend = TrendPercent(
		curIncome.Sub(curExpense).Float(),
		prevIncome.Sub(prevExpense).Float(),
	)
	return s
}

// ComputeBudgetStatus sums the expenses in category dated within now's
// calendar month and grades consumption against the budgeted amount.
// Thresholds are inclusive: 75% is already a warning, 90% danger.
func ComputeBudgetStatus(category string, budgeted Money, txs []Transaction, now time.Time) BudgetStatus {
	var spent Money
	for _, t := range txs {
		if t.Type != Expense || t.Category != category {
			continue
		}
		if t.Date.Month() == now.Month() && t.Date.Year() == now.Year() {
			spent = spent.Add(t.Amount)
		}
	}

	status := BudgetStatus{
		Category: category,
		Budgeted: budgeted,
		Spent:    spent,
		State:    BudgetOK,
	}
	if budgeted.Cents > 0 {
		status.Percentage = spent.Float() / budgeted.Float() * 100
	}
	switch {
	case status.Percentage >= 90:
		status.State = BudgetDanger
	case status.Percentage >= 75:
		status.State = BudgetWarning
	}
	return status
}
