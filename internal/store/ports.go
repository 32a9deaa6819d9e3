// Package store defines the persistence ports the controller writes through.
// Implementations live in the local (SQLite), remote (backend-as-a-service),
// and memory sub-packages.
package store

import (
	"context"
	"errors"

	"github.com/tanaytejush/Carbon-Purse/internal/core"
)

// ErrNotFound is returned when an id-scoped operation matches no record.
var ErrNotFound = errors.New("record not found")

// InsertBatchSize caps bulk inserts so single payloads stay within the
// remote store's request limits.
const InsertBatchSize = 200

// State keys shared by every backend's StateStore.
const (
	StateMonth           = "month"
	StateMigrationPrefix = "migration:" // + user id
)

type (
	// ExpenseStore is the expense table scoped to one owner. The owner is
	// the authenticated user id on the remote variant and the empty string
	// for the single local profile.
	ExpenseStore interface {
		ListExpenses(ctx context.Context, owner string) ([]core.Expense, error)
		InsertExpense(ctx context.Context, owner string, e core.Expense) (core.Expense, error)
		// InsertExpenses bulk-inserts in InsertBatchSize chunks.
		InsertExpenses(ctx context.Context, owner string, expenses []core.Expense) error
		UpdateExpense(ctx context.Context, owner string, e core.Expense) error
		DeleteExpense(ctx context.Context, owner, id string) error
		DeleteAllExpenses(ctx context.Context, owner string) error
	}

	BudgetStore interface {
		ListBudgets(ctx context.Context, owner string) (core.Budgets, error)
		UpsertBudget(ctx context.Context, owner string, month core.MonthKey, amount core.Money) error
		UpsertBudgets(ctx context.Context, owner string, budgets core.Budgets) error
		DeleteAllBudgets(ctx context.Context, owner string) error
	}

	SettingsStore interface {
		// GetSettings reports ok=false when no row exists yet.
		GetSettings(ctx context.Context, owner string) (s core.Settings, ok bool, err error)
		UpsertSettings(ctx context.Context, owner string, s core.Settings) error
	}

	// DataStore is the full working-set persistence surface.
	DataStore interface {
		ExpenseStore
		BudgetStore
		SettingsStore
	}

	// StateStore is a small key/value store for UI state the remote store
	// never sees: the selected month and per-user migration decisions.
	StateStore interface {
		GetState(ctx context.Context, key string) (string, error) // "" when absent
		SetState(ctx context.Context, key, value string) error
		DeleteState(ctx context.Context, key string) error
	}
)

// Snapshot is the complete working set as moved by export, import, and the
// one-time local-to-remote migration.
type Snapshot struct {
	Expenses []core.Expense
	Budgets  core.Budgets
	Settings core.Settings
	Month    core.MonthKey
}

// IsEmpty reports whether the snapshot carries no expense or budget data.
// Settings alone do not count as data worth migrating.
func (s Snapshot) IsEmpty() bool {
	return len(s.Expenses) == 0 && len(s.Budgets) == 0
}

// Load reads the full working set from a data store.
func Load(ctx context.Context, ds DataStore, owner string) (Snapshot, error) {
	expenses, err := ds.ListExpenses(ctx, owner)
	if err != nil {
		return Snapshot{}, err
	}
	budgets, err := ds.ListBudgets(ctx, owner)
	if err != nil {
		return Snapshot{}, err
	}
	settings, ok, err := ds.GetSettings(ctx, owner)
	if err != nil {
		return Snapshot{}, err
	}
	if !ok {
		settings = core.DefaultSettings("")
	}
	return Snapshot{Expenses: expenses, Budgets: budgets, Settings: settings}, nil
}
