package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/anish-3041/Personal-Finance-Dashboard/internal/core"
	"github.com/anish-3041/Personal-Finance-Dashboard/internal/ledger"
	"github.com/anish-3041/Personal-Finance-Dashboard/internal/service"
)

func newTestGateway(t *testing.T) *SQLiteGateway {
	t.Helper()
	g, err := NewSQLiteGateway(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open gateway: %v", err)
	}
	t.Cleanup(func() { g.Close() })
	return g
}

func sampleState(t *testing.T) *ledger.Ledger {
	t.Helper()
	l := ledger.New()
	_, err := l.AddTransaction(core.Transaction{
		Type:     core.Expense,
		Name:     "Groceries",
		Amount:   core.Money{Cents: 4500},
		Category: "food",
		Date:     core.NewDate(2025, time.June, 10),
	}, core.NewDate(2025, time.June, 15))
	if err != nil {
		t.Fatalf("build state: %v", err)
	}
	return l
}

func TestLoadMissingUser(t *testing.T) {
	g := newTestGateway(t)
	if _, err := g.Load(context.Background(), "nobody"); !errors.Is(err, service.ErrStateNotFound) {
		t.Fatalf("got %v, want %v", err, service.ErrStateNotFound)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	g := newTestGateway(t)

	if err := g.Save(ctx, "u1", sampleState(t)); err != nil {
		t.Fatalf("save: %v", err)
	}
	state, err := g.Load(ctx, "u1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(state.Transactions) != 1 || state.Transactions[0].Name != "Groceries" {
		t.Fatalf("loaded state = %+v", state.Transactions)
	}
	if state.Transactions[0].Amount.Cents != 4500 {
		t.Fatalf("amount = %v, want exact cents back", state.Transactions[0].Amount)
	}
}

func TestSaveBumpsVersionAndResetsSync(t *testing.T) {
	ctx := context.Background()
	g := newTestGateway(t)
	state := sampleState(t)

	if err := g.Save(ctx, "u1", state); err != nil {
		t.Fatalf("first save: %v", err)
	}
	_, v1, err := g.Document(ctx, "u1")
	if err != nil {
		t.Fatalf("document: %v", err)
	}

	if err := g.MarkSynced(ctx, "u1", v1); err != nil {
		t.Fatalf("mark synced: %v", err)
	}
	pending, err := g.PendingSync(ctx, 10)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("pending after sync = %v, want none", pending)
	}

	if err := g.Save(ctx, "u1", state); err != nil {
		t.Fatalf("second save: %v", err)
	}
	_, v2, _ := g.Document(ctx, "u1")
	if v2 != v1+1 {
		t.Fatalf("version after second save = %d, want %d", v2, v1+1)
	}
	pending, _ = g.PendingSync(ctx, 10)
	if len(pending) != 1 || pending[0].UserID != "u1" {
		t.Fatalf("pending after second save = %v, want u1", pending)
	}
}

func TestMarkSyncedKeepsNewerVersionPending(t *testing.T) {
	ctx := context.Background()
	g := newTestGateway(t)
	state := sampleState(t)

	_ = g.Save(ctx, "u1", state) // version 1
	_ = g.Save(ctx, "u1", state) // version 2

	// An upload of version 1 completes after version 2 was written.
	if err := g.MarkSynced(ctx, "u1", 1); err != nil {
		t.Fatalf("mark synced: %v", err)
	}
	pending, err := g.PendingSync(ctx, 10)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 1 {
		t.Fatal("newer unsynced version was marked as synced")
	}
}

func TestPendingSyncLimit(t *testing.T) {
	ctx := context.Background()
	g := newTestGateway(t)
	state := sampleState(t)

	for _, user := range []string{"a", "b", "c"} {
		if err := g.Save(ctx, user, state); err != nil {
			t.Fatalf("save %s: %v", user, err)
		}
	}
	pending, err := g.PendingSync(ctx, 2)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("pending = %d entries, want limit of 2", len(pending))
	}
}
