package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// MinDate is the earliest business date the application accepts.
var MinDate = time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)

type (
	TransactionType string

	// Money is an amount in cents of the single implicit currency.
	Money struct {
		Cents int64
	}

	// Transaction is a single income or expense record. Date is the
	// user-entered business date; Timestamp is the creation instant and
	// is never used in calculations.
	Transaction struct {
		ID        string          `json:"id"`
		Type      TransactionType `json:"type"`
		Name      string          `json:"name"`
		Amount    Money           `json:"amount"`
		Category  string          `json:"category"`
		Date      time.Time       `json:"date"`
		Timestamp time.Time       `json:"timestamp"`
	}

	// Goal is a savings target. Current is user-entered progress, not
	// derived from transactions, and may exceed Target.
	Goal struct {
		ID        string    `json:"id"`
		Name      string    `json:"name"`
		Target    Money     `json:"target"`
		Current   Money     `json:"current"`
		Date      time.Time `json:"date"`
		Timestamp time.Time `json:"timestamp"`
	}
)

var (
	ErrInvalidType     = errors.New("invalid transaction type")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrNegativeAmount  = errors.New("amount cannot be negative")
	ErrEmptyName       = errors.New("empty name")
	ErrUnknownCategory = errors.New("unknown category for type")
	ErrDateOutOfRange  = errors.New("date must be between 2023-01-01 and today")
	ErrInvalidTarget   = errors.New("goal target must be positive")
)

func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

// NewDate builds a business date normalized to midnight UTC.
func NewDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Validate checks the transaction invariants against the supplied clock
// reading: non-negative amount, date within [MinDate, today], category
// consistent with the transaction type.
func (t Transaction) Validate(now time.Time) error {
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if len(strings.TrimSpace(t.Name)) == 0 {
		return ErrEmptyName
	}
	if t.Amount.Negative() {
		return ErrNegativeAmount
	}
	if !ValidCategory(t.Type, t.Category) {
		return ErrUnknownCategory
	}
	if t.Date.Before(MinDate) {
		return ErrDateOutOfRange
	}
	endOfToday := NewDate(now.Year(), now.Month(), now.Day()).AddDate(0, 0, 1)
	if !t.Date.Before(endOfToday) {
		return ErrDateOutOfRange
	}
	return nil
}

// Validate checks the goal invariants. Current is deliberately not
// validated beyond being a number: negative progress is accepted.
func (g Goal) Validate() error {
	if len(strings.TrimSpace(g.Name)) == 0 {
		return ErrEmptyName
	}
	if g.Target.Cents <= 0 {
		return ErrInvalidTarget
	}
	return nil
}
