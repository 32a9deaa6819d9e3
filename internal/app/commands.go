package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/tanaytejush/Carbon-Purse/internal/core"
	"github.com/tanaytejush/Carbon-Purse/internal/log"
	"github.com/tanaytejush/Carbon-Purse/internal/store"
)

// ExpenseInput is the raw add/edit form submission.
type ExpenseInput struct {
	Name     string
	Amount   string
	Category string
	Date     string
}

// FieldErrors maps form field names to validation messages. A nil map
// means the input was valid.
type FieldErrors map[string]string

func (f FieldErrors) Has(field string) bool {
	_, ok := f[field]
	return ok
}

// parseExpense validates the raw input and builds the domain expense.
// The id is left for the caller to assign.
func parseExpense(in ExpenseInput) (core.Expense, FieldErrors) {
	errs := FieldErrors{}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		errs["name"] = "Name is required"
	} else if len(name) > 200 {
		errs["name"] = "Name must be 200 characters or fewer"
	}

	cents, err := core.ParseDecimalToCents(in.Amount)
	if err != nil {
		errs["amount"] = "Enter an amount greater than zero"
	}

	category := core.Category(in.Category)
	if category.Validate() != nil {
		errs["category"] = "Pick a category"
	}

	date := core.Date(in.Date)
	if date.Validate() != nil {
		errs["date"] = "Enter a valid date"
	}

	if len(errs) > 0 {
		return core.Expense{}, errs
	}
	return core.Expense{
		Name:     name,
		Amount:   core.Money{Cents: cents},
		Category: category,
		Date:     date,
	}, nil
}

// AddExpense validates, persists and then applies a new expense. The write
// goes to the store first so a persistence failure never leaves a phantom
// row in the view.
func (a *App) AddExpense(ctx context.Context, in ExpenseInput) (core.Expense, FieldErrors, error) {
	expense, errs := parseExpense(in)
	if errs != nil {
		return core.Expense{}, errs, nil
	}
	expense.ID = uuid.NewString()

	a.mu.Lock()
	owner := a.owner
	a.mu.Unlock()

	stored, err := a.data.InsertExpense(ctx, owner, expense)
	if err != nil {
		a.logger.ErrorContext(ctx, "inserting expense", log.FieldError, err)
		return core.Expense{}, nil, fmt.Errorf("save expense: %w", err)
	}

	a.mu.Lock()
	a.expenses = append(a.expenses, stored)
	a.version++
	a.mu.Unlock()
	return stored, nil, nil
}

// UpdateExpense rewrites an existing expense in place. Invalid input
// reports field errors and changes nothing.
func (a *App) UpdateExpense(ctx context.Context, id string, in ExpenseInput) (FieldErrors, error) {
	expense, errs := parseExpense(in)
	if errs != nil {
		return errs, nil
	}
	expense.ID = id

	a.mu.Lock()
	owner := a.owner
	a.mu.Unlock()

	if err := a.data.UpdateExpense(ctx, owner, expense); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		a.logger.ErrorContext(ctx, "updating expense", log.FieldExpenseID, id, log.FieldError, err)
		return nil, fmt.Errorf("update expense: %w", err)
	}

	a.mu.Lock()
	for i := range a.expenses {
		if a.expenses[i].ID == id {
			a.expenses[i] = expense
			break
		}
	}
	a.version++
	a.mu.Unlock()
	return nil, nil
}

// DeleteExpense removes one expense.
func (a *App) DeleteExpense(ctx context.Context, id string) error {
	a.mu.Lock()
	owner := a.owner
	a.mu.Unlock()

	if err := a.data.DeleteExpense(ctx, owner, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return err
		}
		a.logger.ErrorContext(ctx, "deleting expense", log.FieldExpenseID, id, log.FieldError, err)
		return fmt.Errorf("delete expense: %w", err)
	}

	a.mu.Lock()
	for i := range a.expenses {
		if a.expenses[i].ID == id {
			a.expenses = append(a.expenses[:i], a.expenses[i+1:]...)
			break
		}
	}
	a.version++
	a.mu.Unlock()
	return nil
}

// SetBudget stores the budget for a concrete month. Unparseable or
// negative input collapses to zero, matching the editor's save behaviour.
// The AllMonths aggregate is derived and cannot be written.
func (a *App) SetBudget(ctx context.Context, month core.MonthKey, raw string) error {
	if month == core.AllMonths {
		return fmt.Errorf("set budget: %w", core.ErrInvalidMonth)
	}
	if err := month.Validate(); err != nil {
		return fmt.Errorf("set budget: %w", err)
	}
	amount := core.Money{Cents: core.ParseBudgetCents(raw)}

	a.mu.Lock()
	owner := a.owner
	a.mu.Unlock()

	if err := a.data.UpsertBudget(ctx, owner, month, amount); err != nil {
		a.logger.ErrorContext(ctx, "saving budget", log.FieldMonth, string(month), log.FieldError, err)
		return fmt.Errorf("save budget: %w", err)
	}

	a.mu.Lock()
	a.budgets[month] = amount
	a.version++
	a.mu.Unlock()
	return nil
}

// SetSettings normalizes and stores display settings.
func (a *App) SetSettings(ctx context.Context, locale string, currency core.Currency) error {
	next := core.Settings{Locale: locale, Currency: currency}.
		Normalize(a.defaults)

	a.mu.Lock()
	owner := a.owner
	a.mu.Unlock()

	if err := a.data.UpsertSettings(ctx, owner, next); err != nil {
		a.logger.ErrorContext(ctx, "saving settings", log.FieldError, err)
		return fmt.Errorf("save settings: %w", err)
	}

	a.mu.Lock()
	a.settings = next
	a.version++
	a.mu.Unlock()
	return nil
}

// SetMonth selects the month every view derives from. The choice is kept
// in local state so it survives restarts; a failed write only costs that.
func (a *App) SetMonth(ctx context.Context, month core.MonthKey) error {
	if err := month.Validate(); err != nil {
		return err
	}

	a.mu.Lock()
	a.month = month
	a.version++
	a.mu.Unlock()

	if err := a.state.SetState(ctx, store.StateMonth, string(month)); err != nil {
		a.logger.WarnContext(ctx, "persisting month selection", log.FieldError, err)
	}
	return nil
}

// ShiftMonth moves the selection by delta months. On AllMonths it jumps to
// the current calendar month first.
func (a *App) ShiftMonth(ctx context.Context, delta int) error {
	a.mu.Lock()
	month := a.month
	a.mu.Unlock()

	if month == core.AllMonths {
		month = core.CurrentMonth()
	} else {
		month = month.Shift(delta)
	}
	return a.SetMonth(ctx, month)
}

// SetQuery sets the free-text filter. In-memory only.
func (a *App) SetQuery(q string) {
	a.mu.Lock()
	a.query = q
	a.version++
	a.mu.Unlock()
}

// SetCategory sets the category filter. Unknown values fall back to the
// all-categories sentinel.
func (a *App) SetCategory(c string) {
	if c != core.AllCategories && core.Category(c).Validate() != nil {
		c = core.AllCategories
	}
	a.mu.Lock()
	a.category = c
	a.version++
	a.mu.Unlock()
}

// Reset deletes every expense and budget, for this owner, everywhere.
// Settings and the selected month survive.
func (a *App) Reset(ctx context.Context) error {
	a.mu.Lock()
	owner := a.owner
	a.mu.Unlock()

	if err := a.data.DeleteAllExpenses(ctx, owner); err != nil {
		return fmt.Errorf("reset expenses: %w", err)
	}
	if err := a.data.DeleteAllBudgets(ctx, owner); err != nil {
		return fmt.Errorf("reset budgets: %w", err)
	}

	a.mu.Lock()
	a.expenses = nil
	a.budgets = core.Budgets{}
	a.version++
	a.mu.Unlock()

	a.logger.InfoContext(ctx, "working set reset")
	return nil
}
