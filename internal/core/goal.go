package core

import (
	"math"
	"time"
)

// GoalProgress is the derived completion state of one savings goal.
// Nothing here is clamped: Percent may exceed 100, Remaining and
// DaysLeft go negative when the goal is overfunded or overdue, and the
// display layer decides how to present that.
type GoalProgress struct {
	Percent         float64 `json:"percent"`
	Remaining       Money   `json:"remaining"`
	DaysLeft        int     `json:"daysLeft"`
	MonthsLeft      int     `json:"monthsLeft"`
	RequiredMonthly Money   `json:"requiredMonthly"`
}

// ComputeGoalProgress derives progress for a goal at the given instant.
// MonthsLeft uses the deliberate 30-day approximation rather than
// calendar months.
func ComputeGoalProgress(g Goal, now time.Time) GoalProgress {
	p := GoalProgress{
		Remaining: g.Target.Sub(g.Current),
	}
	if g.Target.Cents > 0 {
		p.Percent = g.Current.Float() / g.Target.Float() * 100
	}
	p.DaysLeft = int(math.Ceil(g.Date.Sub(now).Hours() / 24))
	p.MonthsLeft = int(math.Ceil(float64(p.DaysLeft) / 30))
	if p.MonthsLeft > 0 {
		p.RequiredMonthly = Money{Cents: p.Remaining.Cents / int64(p.MonthsLeft)}
	}
	return p
}
