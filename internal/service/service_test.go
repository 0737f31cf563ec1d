package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/anish-3041/Personal-Finance-Dashboard/internal/core"
	"github.com/anish-3041/Personal-Finance-Dashboard/internal/ledger"
)

type fakeGateway struct {
	states map[string]*ledger.Ledger
	saves  int
	fail   error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{states: make(map[string]*ledger.Ledger)}
}

func (g *fakeGateway) Load(ctx context.Context, userID string) (*ledger.Ledger, error) {
	if g.fail != nil {
		return nil, g.fail
	}
	state, ok := g.states[userID]
	if !ok {
		return nil, ErrStateNotFound
	}
	return state.Clone(), nil
}

func (g *fakeGateway) Save(ctx context.Context, userID string, state *ledger.Ledger) error {
	if g.fail != nil {
		return g.fail
	}
	g.states[userID] = state.Clone()
	g.saves++
	return nil
}

type fakePublisher struct {
	published []int64
	fail      error
}

func (p *fakePublisher) PublishStateSync(ctx context.Context, userID string, version int64) error {
	if p.fail != nil {
		return p.fail
	}
	p.published = append(p.published, version)
	return nil
}

type fakeNotifier struct {
	messages []string
	decline  bool
}

func (n *fakeNotifier) Notify(ctx context.Context, userID, message string) {
	n.messages = append(n.messages, message)
}

func (n *fakeNotifier) Confirm(ctx context.Context, userID, message string) bool {
	return !n.decline
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var clock = fixedClock{t: core.NewDate(2025, time.June, 15)}

func newTestService(g Gateway, p SyncPublisher, n Notifier) *Service {
	return New(g, p, n, clock, nil)
}

func groceries() core.Transaction {
	return core.Transaction{
		Type:     core.Expense,
		Name:     "Groceries",
		Amount:   core.Money{Cents: 4500},
		Category: "food",
		Date:     core.NewDate(2025, time.June, 10),
	}
}

func TestAddTransactionPersistsPublishesNotifies(t *testing.T) {
	ctx := context.Background()
	gw := newFakeGateway()
	pub := &fakePublisher{}
	not := &fakeNotifier{}
	svc := newTestService(gw, pub, not)

	stored, err := svc.AddTransaction(ctx, "u1", groceries())
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if stored.ID == "" {
		t.Fatal("stored transaction has no ID")
	}
	if gw.saves != 1 {
		t.Fatalf("saves = %d, want 1", gw.saves)
	}
	if len(pub.published) != 1 || pub.published[0] != 1 {
		t.Fatalf("published versions = %v, want [1]", pub.published)
	}
	if len(not.messages) != 1 {
		t.Fatalf("notifications = %v, want one add notice", not.messages)
	}
}

func TestAddTransactionValidationDoesNotSave(t *testing.T) {
	ctx := context.Background()
	gw := newFakeGateway()
	svc := newTestService(gw, nil, nil)

	bad := groceries()
	bad.Category = "salary"
	if _, err := svc.AddTransaction(ctx, "u1", bad); !errors.Is(err, core.ErrUnknownCategory) {
		t.Fatalf("got %v, want %v", err, core.ErrUnknownCategory)
	}
	if gw.saves != 0 {
		t.Fatal("invalid transaction reached the gateway")
	}
}

func TestPublishFailureDoesNotFailMutation(t *testing.T) {
	ctx := context.Background()
	gw := newFakeGateway()
	pub := &fakePublisher{fail: errors.New("broker down")}
	svc := newTestService(gw, pub, nil)

	if _, err := svc.AddTransaction(ctx, "u1", groceries()); err != nil {
		t.Fatalf("mutation failed on publish error: %v", err)
	}
	if gw.saves != 1 {
		t.Fatal("state was not saved")
	}
}

func TestGatewayFailurePropagates(t *testing.T) {
	ctx := context.Background()
	gw := newFakeGateway()
	gw.fail = errors.New("disk full")
	svc := newTestService(gw, nil, nil)

	if _, err := svc.AddTransaction(ctx, "u1", groceries()); err == nil {
		t.Fatal("expected gateway error")
	}
}

func TestDeclinedConfirmationBlocksDelete(t *testing.T) {
	ctx := context.Background()
	gw := newFakeGateway()
	svc := newTestService(gw, nil, &fakeNotifier{decline: true})

	stored, err := svc.AddTransaction(ctx, "u1", groceries())
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.DeleteTransaction(ctx, "u1", stored.ID); !errors.Is(err, ErrDeclined) {
		t.Fatalf("got %v, want %v", err, ErrDeclined)
	}
	txs, _ := svc.Transactions(ctx, "u1", core.PeriodAll)
	if len(txs) != 1 {
		t.Fatal("declined delete removed the transaction")
	}
}

func TestTransactionsSortedNewestFirst(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakeGateway(), nil, nil)

	dates := []time.Time{
		core.NewDate(2025, time.June, 3),
		core.NewDate(2025, time.June, 12),
		core.NewDate(2025, time.June, 7),
	}
	for _, d := range dates {
		tr := groceries()
		tr.Date = d
		if _, err := svc.AddTransaction(ctx, "u1", tr); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	txs, err := svc.Transactions(ctx, "u1", core.PeriodAll)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txs) != 3 {
		t.Fatalf("got %d transactions, want 3", len(txs))
	}
	for i := 1; i < len(txs); i++ {
		if txs[i].Date.After(txs[i-1].Date) {
			t.Fatalf("transactions not sorted newest first: %v before %v", txs[i-1].Date, txs[i].Date)
		}
	}
}

func TestStatsCacheInvalidatedByMutation(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakeGateway(), nil, nil)

	if _, err := svc.AddTransaction(ctx, "u1", groceries()); err != nil {
		t.Fatalf("add: %v", err)
	}
	first, err := svc.Stats(ctx, "u1")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if first.TotalExpense.Cents != 4500 {
		t.Fatalf("total expense = %v, want 45.00", first.TotalExpense)
	}

	income := core.Transaction{
		Type:     core.Income,
		Name:     "Salary",
		Amount:   core.Money{Cents: 300000},
		Category: "salary",
		Date:     core.NewDate(2025, time.June, 1),
	}
	if _, err := svc.AddTransaction(ctx, "u1", income); err != nil {
		t.Fatalf("add income: %v", err)
	}

	second, err := svc.Stats(ctx, "u1")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if second.TotalIncome.Cents != 300000 {
		t.Fatalf("stale stats served after mutation: %+v", second)
	}
}

func TestBudgetStatuses(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakeGateway(), nil, nil)

	if _, err := svc.AddTransaction(ctx, "u1", groceries()); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.SetBudget(ctx, "u1", "food", core.Money{Cents: 5000}); err != nil {
		t.Fatalf("set budget: %v", err)
	}
	if err := svc.SetBudget(ctx, "u1", "transport", core.Money{Cents: 10000}); err != nil {
		t.Fatalf("set budget: %v", err)
	}

	statuses, err := svc.BudgetStatuses(ctx, "u1")
	if err != nil {
		t.Fatalf("budget statuses: %v", err)
	}
	if len(statuses) != 2 {
		t.Fatalf("got %d statuses, want 2", len(statuses))
	}
	// Registry order: food before transport.
	if statuses[0].Category != "food" || statuses[1].Category != "transport" {
		t.Fatalf("statuses out of registry order: %+v", statuses)
	}
	if statuses[0].State != core.BudgetDanger {
		t.Fatalf("food at 90%% = %s, want danger", statuses[0].State)
	}
	if statuses[1].State != core.BudgetOK {
		t.Fatalf("untouched transport budget = %s, want ok", statuses[1].State)
	}
}

func TestGoalsDeriveProgress(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakeGateway(), nil, nil)

	g, err := svc.AddGoal(ctx, "u1", core.Goal{
		Name:   "Emergency fund",
		Target: core.Money{Cents: 100000},
		Date:   core.NewDate(2025, time.July, 15), // 30 days from the fixed clock
	})
	if err != nil {
		t.Fatalf("add goal: %v", err)
	}
	if _, err := svc.SetGoalProgress(ctx, "u1", g.ID, core.Money{Cents: 25000}); err != nil {
		t.Fatalf("set progress: %v", err)
	}

	views, err := svc.Goals(ctx, "u1")
	if err != nil {
		t.Fatalf("goals: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("got %d goals, want 1", len(views))
	}
	p := views[0].Progress
	if p.Percent != 25 || p.MonthsLeft != 1 || p.RequiredMonthly.Cents != 75000 {
		t.Fatalf("progress = %+v", p)
	}
}

func TestChartsFollowState(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakeGateway(), nil, nil)

	if _, err := svc.AddTransaction(ctx, "u1", groceries()); err != nil {
		t.Fatalf("add: %v", err)
	}

	doughnut, err := svc.DoughnutChart(ctx, "u1", core.PeriodMonth)
	if err != nil {
		t.Fatalf("doughnut: %v", err)
	}
	if len(doughnut.Labels) != 1 || doughnut.Labels[0] != "Food & Dining" {
		t.Fatalf("doughnut labels = %v", doughnut.Labels)
	}

	bar, err := svc.BarChart(ctx, "u1", core.PeriodWeek)
	if err != nil {
		t.Fatalf("bar: %v", err)
	}
	if len(bar.Labels) != 7 {
		t.Fatalf("weekly bar labels = %d, want 7", len(bar.Labels))
	}

	trend, err := svc.TrendChart(ctx, "u1")
	if err != nil {
		t.Fatalf("trend: %v", err)
	}
	if len(trend.Labels) != 1 || trend.Labels[0] != "Jun 2025" {
		t.Fatalf("trend labels = %v", trend.Labels)
	}
}

func TestExportImportThroughService(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakeGateway(), nil, nil)

	if _, err := svc.AddTransaction(ctx, "u1", groceries()); err != nil {
		t.Fatalf("add: %v", err)
	}
	data, err := svc.Export(ctx, "u1")
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	if err := svc.Import(ctx, "u2", data); err != nil {
		t.Fatalf("import: %v", err)
	}
	txs, err := svc.Transactions(ctx, "u2", core.PeriodAll)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txs) != 1 || txs[0].Name != "Groceries" {
		t.Fatalf("imported transactions = %+v", txs)
	}

	if err := svc.Import(ctx, "u2", []byte(`{"budgets":{}}`)); !errors.Is(err, ledger.ErrInvalidSnapshot) {
		t.Fatalf("got %v, want %v", err, ledger.ErrInvalidSnapshot)
	}
	txs, _ = svc.Transactions(ctx, "u2", core.PeriodAll)
	if len(txs) != 1 {
		t.Fatal("failed import wiped the state")
	}
}

func TestThemeRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakeGateway(), nil, nil)

	theme, err := svc.Theme(ctx, "u1")
	if err != nil || theme != "" {
		t.Fatalf("default theme = %q, %v", theme, err)
	}
	if err := svc.SetTheme(ctx, "u1", "dark"); err != nil {
		t.Fatalf("set theme: %v", err)
	}
	theme, err = svc.Theme(ctx, "u1")
	if err != nil || theme != "dark" {
		t.Fatalf("theme = %q, %v, want dark", theme, err)
	}
}
