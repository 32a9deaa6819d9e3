package app

import (
	"github.com/tanaytejush/Carbon-Purse/internal/core"
)

// Stats is the header card: budget vs. spend for the selected month.
type Stats struct {
	Budget     core.Money
	Spent      core.Money
	Remaining  core.Money
	OverBudget bool
}

// State is a consistent read of everything a full page render needs.
type State struct {
	Month      core.MonthKey
	Category   string
	Query      string
	Settings   core.Settings
	Stats      Stats
	View       core.View
	Summary    []core.CategoryAmount
	BudgetEdit bool // false on AllMonths, whose budget is derived
}

func (a *App) filterLocked() core.Filter {
	return core.Filter{Month: a.month, Category: a.category, Query: a.query}
}

func statsFor(budgets core.Budgets, month core.MonthKey, spent core.Money) Stats {
	budget := budgets.For(month)
	remaining := core.Money{Cents: budget.Cents - spent.Cents}
	over := remaining.Cents < 0
	if over {
		remaining = core.Money{}
	}
	return Stats{Budget: budget, Spent: spent, Remaining: remaining, OverBudget: over}
}

// Current returns the full render state under one lock acquisition.
func (a *App) Current() State {
	a.mu.Lock()
	defer a.mu.Unlock()

	view := core.Apply(a.expenses, a.filterLocked())
	return State{
		Month:      a.month,
		Category:   a.category,
		Query:      a.query,
		Settings:   a.settings,
		Stats:      statsFor(a.budgets, a.month, view.Spent),
		View:       view,
		Summary:    core.Summarize(view.Items),
		BudgetEdit: a.month != core.AllMonths,
	}
}

// Month returns the selected month.
func (a *App) Month() core.MonthKey {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.month
}

// Settings returns the active settings.
func (a *App) Settings() core.Settings {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.settings
}

// Budget returns the budget shown for a month, the stored amount for a
// concrete month and the aggregate for AllMonths.
func (a *App) Budget(month core.MonthKey) core.Money {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.budgets.For(month)
}

// Expense returns the expense with the given id.
func (a *App) Expense(id string) (core.Expense, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, e := range a.expenses {
		if e.ID == id {
			return e, true
		}
	}
	return core.Expense{}, false
}

// Expenses returns a copy of every stored expense, unfiltered.
func (a *App) Expenses() []core.Expense {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]core.Expense, len(a.expenses))
	copy(out, a.expenses)
	return out
}
