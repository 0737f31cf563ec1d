// Package ledger holds the mutable per-user financial state and the
// operations that change it. All derived numbers live in core; this
// package only guards the invariants of the stored records.
package ledger

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/anish-3041/Personal-Finance-Dashboard/internal/core"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrInvalidBudget   = errors.New("budget requires a valid expense category and a positive amount")
	ErrInvalidSnapshot = errors.New("invalid snapshot")
)

// Ledger is one user's complete financial state. Budgets are keyed by
// expense category key. Theme is carried along so a restored snapshot
// brings the UI preference back too.
type Ledger struct {
	Transactions []core.Transaction    `json:"transactions"`
	Budgets      map[string]core.Money `json:"budgets"`
	Goals        []core.Goal           `json:"goals"`
	Theme        string                `json:"theme,omitempty"`
}

func New() *Ledger {
	return &Ledger{Budgets: make(map[string]core.Money)}
}

// AddTransaction validates the record, assigns a fresh ID and creation
// timestamp, appends it and returns the stored copy.
func (l *Ledger) AddTransaction(t core.Transaction, now time.Time) (core.Transaction, error) {
	if err := t.Validate(now); err != nil {
		return core.Transaction{}, err
	}
	t.ID = uuid.NewString()
	t.Timestamp = now
	l.Transactions = append(l.Transactions, t)
	return t, nil
}

// UpdateTransaction replaces the record with the given ID wholesale.
// The ID is kept, the creation timestamp is refreshed.
func (l *Ledger) UpdateTransaction(id string, t core.Transaction, now time.Time) (core.Transaction, error) {
	if err := t.Validate(now); err != nil {
		return core.Transaction{}, err
	}
	for i := range l.Transactions {
		if l.Transactions[i].ID == id {
			t.ID = id
			t.Timestamp = now
			l.Transactions[i] = t
			return t, nil
		}
	}
	return core.Transaction{}, ErrNotFound
}

func (l *Ledger) DeleteTransaction(id string) error {
	for i := range l.Transactions {
		if l.Transactions[i].ID == id {
			l.Transactions = append(l.Transactions[:i], l.Transactions[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// SetBudget creates or replaces the monthly budget for one expense
// category. There is exactly one budget per category.
func (l *Ledger) SetBudget(category string, amount core.Money) error {
	if !core.ValidCategory(core.Expense, category) || amount.Cents <= 0 {
		return ErrInvalidBudget
	}
	if l.Budgets == nil {
		l.Budgets = make(map[string]core.Money)
	}
	l.Budgets[category] = amount
	return nil
}

func (l *Ledger) DeleteBudget(category string) error {
	if _, ok := l.Budgets[category]; !ok {
		return ErrNotFound
	}
	delete(l.Budgets, category)
	return nil
}

// AddGoal validates the goal, assigns a fresh ID and creation
// timestamp, appends it and returns the stored copy.
func (l *Ledger) AddGoal(g core.Goal, now time.Time) (core.Goal, error) {
	if err := g.Validate(); err != nil {
		return core.Goal{}, err
	}
	g.ID = uuid.NewString()
	g.Timestamp = now
	l.Goals = append(l.Goals, g)
	return g, nil
}

// SetGoalProgress overwrites the saved amount of a goal. The value
// replaces the previous one wholesale and may be negative or exceed
// the target.
func (l *Ledger) SetGoalProgress(id string, current core.Money) (core.Goal, error) {
	for i := range l.Goals {
		if l.Goals[i].ID == id {
			l.Goals[i].Current = current
			return l.Goals[i], nil
		}
	}
	return core.Goal{}, ErrNotFound
}

func (l *Ledger) DeleteGoal(id string) error {
	for i := range l.Goals {
		if l.Goals[i].ID == id {
			l.Goals = append(l.Goals[:i], l.Goals[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// Transaction returns the record with the given ID.
func (l *Ledger) Transaction(id string) (core.Transaction, error) {
	for _, t := range l.Transactions {
		if t.ID == id {
			return t, nil
		}
	}
	return core.Transaction{}, ErrNotFound
}

// Goal returns the goal with the given ID.
func (l *Ledger) Goal(id string) (core.Goal, error) {
	for _, g := range l.Goals {
		if g.ID == id {
			return g, nil
		}
	}
	return core.Goal{}, ErrNotFound
}

// Clone returns a deep copy so callers can hand the state to other
// goroutines without sharing the backing slices.
func (l *Ledger) Clone() *Ledger {
	out := &Ledger{
		Transactions: append([]core.Transaction(nil), l.Transactions...),
		Goals:        append([]core.Goal(nil), l.Goals...),
		Budgets:      make(map[string]core.Money, len(l.Budgets)),
		Theme:        l.Theme,
	}
	for k, v := range l.Budgets {
		out.Budgets[k] = v
	}
	return out
}
