// Package service orchestrates ledger mutations and derived views on
// top of a persistence gateway. Mutations save locally first and then
// publish a best-effort sync message; queries compute from the loaded
// state and cache the derived results per user revision.
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/anish-3041/Personal-Finance-Dashboard/internal/cache"
	"github.com/anish-3041/Personal-Finance-Dashboard/internal/core"
	"github.com/anish-3041/Personal-Finance-Dashboard/internal/ledger"
	"github.com/anish-3041/Personal-Finance-Dashboard/internal/log"
)

const (
	cacheSize = 256
	cacheTTL  = 5 * time.Minute
)

// GoalView pairs a stored goal with its derived progress.
type GoalView struct {
	Goal     core.Goal         `json:"goal"`
	Progress core.GoalProgress `json:"progress"`
}

type Service struct {
	gateway   Gateway
	publisher SyncPublisher
	notifier  Notifier
	clock     Clock
	logger    *log.Logger

	// mu serializes mutations so concurrent writers cannot interleave
	// their load-modify-save cycles.
	mu        sync.Mutex
	revisions map[string]int64

	statsCache  *cache.LRUCache[core.Stats]
	chartsCache *cache.LRUCache[core.ChartData]
}

// New builds a Service. publisher and notifier may be nil; both are
// optional side channels.
func New(gateway Gateway, publisher SyncPublisher, notifier Notifier, clock Clock, logger *log.Logger) *Service {
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Service{
		gateway:     gateway,
		publisher:   publisher,
		notifier:    notifier,
		clock:       clock,
		logger:      logger.WithComponent("service"),
		revisions:   make(map[string]int64),
		statsCache:  cache.NewLRUCache[core.Stats](cacheSize, cacheTTL),
		chartsCache: cache.NewLRUCache[core.ChartData](cacheSize, cacheTTL),
	}
}

// load returns the user's state, starting fresh when nothing has been
// saved yet.
func (s *Service) load(ctx context.Context, userID string) (*ledger.Ledger, error) {
	state, err := s.gateway.Load(ctx, userID)
	if errors.Is(err, ErrStateNotFound) {
		return ledger.New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	return state, nil
}

// mutate runs fn against the user's state under the write lock and
// persists the result. The revision bump invalidates cached views.
func (s *Service) mutate(ctx context.Context, userID string, fn func(*ledger.Ledger) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	if err := fn(state); err != nil {
		return err
	}
	if err := s.gateway.Save(ctx, userID, state); err != nil {
		return fmt.Errorf("save state: %w", err)
	}

	s.revisions[userID]++
	version := s.revisions[userID]

	if s.publisher != nil {
		if err := s.publisher.PublishStateSync(ctx, userID, version); err != nil {
			// State is saved locally; sync catches up later.
			s.logger.ErrorContext(ctx, "failed to publish sync message",
				"user_id", userID, "version", version, "error", err)
		}
	}
	return nil
}

func (s *Service) notify(ctx context.Context, userID, message string) {
	if s.notifier != nil {
		s.notifier.Notify(ctx, userID, message)
	}
}

// confirm asks the notifier before a destructive operation. Without a
// notifier there is nobody to veto, so consent is assumed.
func (s *Service) confirm(ctx context.Context, userID, message string) bool {
	if s.notifier == nil {
		return true
	}
	return s.notifier.Confirm(ctx, userID, message)
}

// revision returns the cache key prefix for the user's current state.
func (s *Service) revision(userID string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revisions[userID]
}

// AddTransaction validates and stores a new transaction.
func (s *Service) AddTransaction(ctx context.Context, userID string, t core.Transaction) (core.Transaction, error) {
	var stored core.Transaction
	err := s.mutate(ctx, userID, func(l *ledger.Ledger) error {
		var err error
		stored, err = l.AddTransaction(t, s.clock.Now())
		return err
	})
	if err != nil {
		return core.Transaction{}, err
	}
	s.notify(ctx, userID, fmt.Sprintf("%s added: %s %s", stored.Type, stored.Name, stored.Amount))
	return stored, nil
}

// UpdateTransaction replaces an existing transaction wholesale.
func (s *Service) UpdateTransaction(ctx context.Context, userID, id string, t core.Transaction) (core.Transaction, error) {
	var stored core.Transaction
	err := s.mutate(ctx, userID, func(l *ledger.Ledger) error {
		var err error
		stored, err = l.UpdateTransaction(id, t, s.clock.Now())
		return err
	})
	if err != nil {
		return core.Transaction{}, err
	}
	s.notify(ctx, userID, fmt.Sprintf("%s updated: %s", stored.Type, stored.Name))
	return stored, nil
}

func (s *Service) DeleteTransaction(ctx context.Context, userID, id string) error {
	if !s.confirm(ctx, userID, "delete this transaction?") {
		return ErrDeclined
	}
	err := s.mutate(ctx, userID, func(l *ledger.Ledger) error {
		return l.DeleteTransaction(id)
	})
	if err != nil {
		return err
	}
	s.notify(ctx, userID, "transaction deleted")
	return nil
}

// Transactions returns the user's transactions for the given period,
// newest business date first.
func (s *Service) Transactions(ctx context.Context, userID string, period core.Period) ([]core.Transaction, error) {
	state, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	txs := core.FilterByPeriod(state.Transactions, period, s.clock.Now())
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Date.After(txs[j].Date)
	})
	return txs, nil
}

// Stats returns the user's derived dashboard numbers.
func (s *Service) Stats(ctx context.Context, userID string) (core.Stats, error) {
	key := fmt.Sprintf("%s:%d:stats", userID, s.revision(userID))
	if cached, ok := s.statsCache.Get(key); ok {
		return cached, nil
	}

	state, err := s.load(ctx, userID)
	if err != nil {
		return core.Stats{}, err
	}
	stats := core.ComputeStats(state.Transactions, s.clock.Now())
	s.statsCache.Set(key, stats)
	return stats, nil
}

// BudgetStatuses returns the current-month status of every budget in
// the category registry's order.
func (s *Service) BudgetStatuses(ctx context.Context, userID string) ([]core.BudgetStatus, error) {
	state, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	var out []core.BudgetStatus
	for _, category := range core.CategoryKeys(core.Expense) {
		budgeted, ok := state.Budgets[category]
		if !ok {
			continue
		}
		out = append(out, core.ComputeBudgetStatus(category, budgeted, state.Transactions, now))
	}
	return out, nil
}

func (s *Service) SetBudget(ctx context.Context, userID, category string, amount core.Money) error {
	err := s.mutate(ctx, userID, func(l *ledger.Ledger) error {
		return l.SetBudget(category, amount)
	})
	if err != nil {
		return err
	}
	s.notify(ctx, userID, fmt.Sprintf("budget set: %s %s", core.DisplayName(core.Expense, category), amount))
	return nil
}

func (s *Service) DeleteBudget(ctx context.Context, userID, category string) error {
	return s.mutate(ctx, userID, func(l *ledger.Ledger) error {
		return l.DeleteBudget(category)
	})
}

// AddGoal validates and stores a new savings goal.
func (s *Service) AddGoal(ctx context.Context, userID string, g core.Goal) (core.Goal, error) {
	var stored core.Goal
	err := s.mutate(ctx, userID, func(l *ledger.Ledger) error {
		var err error
		stored, err = l.AddGoal(g, s.clock.Now())
		return err
	})
	if err != nil {
		return core.Goal{}, err
	}
	s.notify(ctx, userID, fmt.Sprintf("goal added: %s (target %s)", stored.Name, stored.Target))
	return stored, nil
}

// SetGoalProgress overwrites a goal's saved amount.
func (s *Service) SetGoalProgress(ctx context.Context, userID, id string, current core.Money) (core.Goal, error) {
	var stored core.Goal
	err := s.mutate(ctx, userID, func(l *ledger.Ledger) error {
		var err error
		stored, err = l.SetGoalProgress(id, current)
		return err
	})
	if err != nil {
		return core.Goal{}, err
	}
	return stored, nil
}

func (s *Service) DeleteGoal(ctx context.Context, userID, id string) error {
	if !s.confirm(ctx, userID, "delete this goal?") {
		return ErrDeclined
	}
	return s.mutate(ctx, userID, func(l *ledger.Ledger) error {
		return l.DeleteGoal(id)
	})
}

// Goals returns every goal with its derived progress.
func (s *Service) Goals(ctx context.Context, userID string) ([]GoalView, error) {
	state, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	out := make([]GoalView, len(state.Goals))
	for i, g := range state.Goals {
		out[i] = GoalView{Goal: g, Progress: core.ComputeGoalProgress(g, now)}
	}
	return out, nil
}

// DoughnutChart returns the expense breakdown for the period.
func (s *Service) DoughnutChart(ctx context.Context, userID string, period core.Period) (core.ChartData, error) {
	return s.chart(ctx, userID, fmt.Sprintf("doughnut:%s", period), func(l *ledger.Ledger, now time.Time) core.ChartData {
		return core.DoughnutData(core.FilterByPeriod(l.Transactions, period, now))
	})
}

// BarChart returns the income-vs-expense comparison for the period.
func (s *Service) BarChart(ctx context.Context, userID string, period core.Period) (core.ChartData, error) {
	return s.chart(ctx, userID, fmt.Sprintf("bar:%s", period), func(l *ledger.Ledger, now time.Time) core.ChartData {
		return core.BarData(core.FilterByPeriod(l.Transactions, period, now), period, now)
	})
}

// TrendChart returns the chronological year-month series.
func (s *Service) TrendChart(ctx context.Context, userID string) (core.ChartData, error) {
	return s.chart(ctx, userID, "trend", func(l *ledger.Ledger, now time.Time) core.ChartData {
		return core.TrendData(l.Transactions)
	})
}

func (s *Service) chart(ctx context.Context, userID, name string, build func(*ledger.Ledger, time.Time) core.ChartData) (core.ChartData, error) {
	key := fmt.Sprintf("%s:%d:%s", userID, s.revision(userID), name)
	if cached, ok := s.chartsCache.Get(key); ok {
		return cached, nil
	}

	state, err := s.load(ctx, userID)
	if err != nil {
		return core.ChartData{}, err
	}
	data := build(state, s.clock.Now())
	s.chartsCache.Set(key, data)
	return data, nil
}

// Export serializes the user's full state to the portable JSON format.
func (s *Service) Export(ctx context.Context, userID string) ([]byte, error) {
	state, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return state.Export()
}

// Import replaces the user's full state from an exported document.
func (s *Service) Import(ctx context.Context, userID string, data []byte) error {
	if !s.confirm(ctx, userID, "importing replaces all existing data, continue?") {
		return ErrDeclined
	}
	err := s.mutate(ctx, userID, func(l *ledger.Ledger) error {
		return l.Import(data)
	})
	if err != nil {
		return err
	}
	s.notify(ctx, userID, "data imported")
	return nil
}

// SetTheme stores the UI theme preference with the rest of the state.
func (s *Service) SetTheme(ctx context.Context, userID, theme string) error {
	return s.mutate(ctx, userID, func(l *ledger.Ledger) error {
		l.Theme = theme
		return nil
	})
}

// Theme returns the stored UI theme preference, empty when unset.
func (s *Service) Theme(ctx context.Context, userID string) (string, error) {
	state, err := s.load(ctx, userID)
	if err != nil {
		return "", err
	}
	return state.Theme, nil
}
