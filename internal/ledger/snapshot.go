package ledger

import (
	"encoding/json"
	"fmt"

	"github.com/anish-3041/Personal-Finance-Dashboard/internal/core"
)

// Snapshot is the portable export format: the full state as one JSON
// document. Theme travels with it so a restore reproduces the app as
// the user left it.
type Snapshot struct {
	Transactions []core.Transaction    `json:"transactions"`
	Budgets      map[string]core.Money `json:"budgets"`
	Goals        []core.Goal           `json:"goals"`
	Theme        string                `json:"theme,omitempty"`
}

// Export serializes the current state. Nil collections come out as
// empty ones so the document always carries all three keys.
func (l *Ledger) Export() ([]byte, error) {
	s := Snapshot{
		Transactions: l.Transactions,
		Budgets:      l.Budgets,
		Goals:        l.Goals,
		Theme:        l.Theme,
	}
	if s.Transactions == nil {
		s.Transactions = []core.Transaction{}
	}
	if s.Budgets == nil {
		s.Budgets = map[string]core.Money{}
	}
	if s.Goals == nil {
		s.Goals = []core.Goal{}
	}
	return json.MarshalIndent(s, "", "  ")
}

// Import replaces the whole state with the given document. The
// document must carry the transactions, budgets and goals keys; a
// document failing any check is rejected wholesale and the current
// state stays untouched.
func (l *Ledger) Import(data []byte) error {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	for _, required := range []string{"transactions", "budgets", "goals"} {
		if _, ok := keys[required]; !ok {
			return fmt.Errorf("%w: missing %q", ErrInvalidSnapshot, required)
		}
	}

	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}

	l.Transactions = s.Transactions
	l.Goals = s.Goals
	l.Theme = s.Theme
	if s.Budgets == nil {
		s.Budgets = map[string]core.Money{}
	}
	l.Budgets = s.Budgets
	return nil
}
