// Package app holds the controller: an in-memory working set loaded from a
// data store, mutated through typed commands, and read through derived views.
// Handlers never touch stores directly.
package app

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/tanaytejush/Carbon-Purse/internal/core"
	"github.com/tanaytejush/Carbon-Purse/internal/log"
	"github.com/tanaytejush/Carbon-Purse/internal/store"
)

// Toast is a transient notification queued for the next render.
type Toast struct {
	Kind    string // "success", "error" or "info"
	Message string
}

// App owns the working set. All exported methods are safe for concurrent
// use; reads return copies.
type App struct {
	data     store.DataStore
	state    store.StateStore
	local    store.DataStore // migration source, nil outside the remote backend
	logger   *log.Logger
	degraded bool
	defaults core.Settings // first-run settings, set once in New

	mu       sync.Mutex
	owner    string
	loaded   bool
	expenses []core.Expense
	budgets  core.Budgets
	settings core.Settings
	month    core.MonthKey
	category string
	query    string
	toasts   []Toast
	version  uint64
}

// Option configures optional collaborators on New.
type Option func(*App)

// WithMigrationSource attaches the local store whose data is offered for a
// one-time copy to the remote account.
func WithMigrationSource(local store.DataStore) Option {
	return func(a *App) { a.local = local }
}

// WithDegraded marks the app as running on the in-memory fallback backend.
func WithDegraded() Option {
	return func(a *App) { a.degraded = true }
}

// WithDefaultLocale seeds first-run settings from the given locale, so a
// user who never saved settings gets its inferred currency.
func WithDefaultLocale(locale string) Option {
	return func(a *App) {
		a.defaults = core.DefaultSettings(locale)
		a.settings = a.defaults
	}
}

func New(data store.DataStore, state store.StateStore, logger *log.Logger, opts ...Option) *App {
	a := &App{
		data:     data,
		state:    state,
		logger:   logger.WithComponent(log.ComponentApp),
		budgets:  core.Budgets{},
		defaults: core.DefaultSettings(""),
		settings: core.DefaultSettings(""),
		month:    core.CurrentMonth(),
		category: core.AllCategories,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Load replaces the working set with the owner's persisted data. The three
// collections are fetched in parallel; the selected month comes from local
// state and defaults to the current calendar month.
func (a *App) Load(ctx context.Context, owner string) error {
	var (
		expenses []core.Expense
		budgets  core.Budgets
		settings core.Settings
		haveSet  bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		expenses, err = a.data.ListExpenses(gctx, owner)
		return err
	})
	g.Go(func() error {
		var err error
		budgets, err = a.data.ListBudgets(gctx, owner)
		return err
	})
	g.Go(func() error {
		var err error
		settings, haveSet, err = a.data.GetSettings(gctx, owner)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("load working set: %w", err)
	}

	if !haveSet {
		settings = a.defaults
	}
	if budgets == nil {
		budgets = core.Budgets{}
	}

	month := core.CurrentMonth()
	if stored, err := a.state.GetState(ctx, store.StateMonth); err != nil {
		a.logger.WarnContext(ctx, "reading stored month", log.FieldError, err)
	} else if stored != "" && core.MonthKey(stored).Validate() == nil {
		month = core.MonthKey(stored)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.owner = owner
	a.loaded = true
	a.expenses = expenses
	a.budgets = budgets
	a.settings = settings.Normalize(a.defaults)
	a.month = month
	a.category = core.AllCategories
	a.query = ""
	a.version++

	a.logger.InfoContext(ctx, "working set loaded",
		log.FieldCount, len(expenses),
		log.FieldMonth, string(month))
	return nil
}

// Unload drops the working set, e.g. after sign-out.
func (a *App) Unload() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.owner = ""
	a.loaded = false
	a.expenses = nil
	a.budgets = core.Budgets{}
	a.settings = a.defaults
	a.month = core.CurrentMonth()
	a.category = core.AllCategories
	a.query = ""
	a.toasts = nil
	a.version++
}

// Loaded reports whether a working set is in memory.
func (a *App) Loaded() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loaded
}

// Degraded reports whether the app fell back to the in-memory backend.
func (a *App) Degraded() bool {
	return a.degraded
}

// Version increments on every mutation. The HTTP layer keys its partial
// cache on it so stale renders can never be served after a write.
func (a *App) Version() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.version
}

// Notify queues a toast for the next render.
func (a *App) Notify(kind, message string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.toasts = append(a.toasts, Toast{Kind: kind, Message: message})
}

// Toasts drains the queued notifications.
func (a *App) Toasts() []Toast {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := a.toasts
	a.toasts = nil
	return out
}
