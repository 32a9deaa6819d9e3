package app

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/tanaytejush/Carbon-Purse/internal/core"
	"github.com/tanaytejush/Carbon-Purse/internal/log"
	"github.com/tanaytejush/Carbon-Purse/internal/store"
	"github.com/tanaytejush/Carbon-Purse/internal/store/memory"
)

func testLogger() *log.Logger {
	return log.New(log.Config{
		Handler: slog.NewTextHandler(testWriter{}, &slog.HandlerOptions{Level: slog.LevelError}),
	})
}

type testWriter struct{}

func (testWriter) Write(p []byte) (int, error) { return len(p), nil }

func testApp(t *testing.T, opts ...Option) (*App, *memory.Store) {
	t.Helper()
	mem := memory.New()
	a := New(mem, mem, testLogger(), opts...)
	if err := a.Load(context.Background(), ""); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return a, mem
}

func addExpense(t *testing.T, a *App, name, amount, category, date string) core.Expense {
	t.Helper()
	e, errs, err := a.AddExpense(context.Background(), ExpenseInput{
		Name: name, Amount: amount, Category: category, Date: date,
	})
	if err != nil || errs != nil {
		t.Fatalf("AddExpense(%s): errs=%v err=%v", name, errs, err)
	}
	return e
}

func TestAddExpenseUpdatesStats(t *testing.T) {
	ctx := context.Background()
	a, _ := testApp(t)

	if err := a.SetMonth(ctx, "2024-03"); err != nil {
		t.Fatalf("SetMonth: %v", err)
	}
	if err := a.SetBudget(ctx, "2024-03", "100"); err != nil {
		t.Fatalf("SetBudget: %v", err)
	}
	addExpense(t, a, "Coffee", "3.50", "Food", "2024-03-05")

	stats := a.Current().Stats
	if stats.Spent.Cents != 350 {
		t.Errorf("spent = %d cents; want 350", stats.Spent.Cents)
	}
	if stats.Remaining.Cents != 9650 {
		t.Errorf("remaining = %d cents; want 9650", stats.Remaining.Cents)
	}
	if stats.OverBudget {
		t.Error("over budget with plenty remaining")
	}
}

func TestOverBudgetClampsRemaining(t *testing.T) {
	ctx := context.Background()
	a, _ := testApp(t)

	if err := a.SetMonth(ctx, "2024-03"); err != nil {
		t.Fatalf("SetMonth: %v", err)
	}
	if err := a.SetBudget(ctx, "2024-03", "50"); err != nil {
		t.Fatalf("SetBudget: %v", err)
	}
	addExpense(t, a, "Groceries", "30", "Food", "2024-03-10")
	addExpense(t, a, "Taxi", "25", "Transport", "2024-03-11")

	stats := a.Current().Stats
	if stats.Spent.Cents != 5500 {
		t.Errorf("spent = %d cents; want 5500", stats.Spent.Cents)
	}
	if stats.Remaining.Cents != 0 {
		t.Errorf("remaining = %d cents; want 0", stats.Remaining.Cents)
	}
	if !stats.OverBudget {
		t.Error("over-budget flag not set")
	}
}

func TestAddExpenseValidation(t *testing.T) {
	a, mem := testApp(t)

	cases := []struct {
		name  string
		in    ExpenseInput
		field string
	}{
		{"blank name", ExpenseInput{Name: "  ", Amount: "5", Category: "Food", Date: "2024-03-05"}, "name"},
		{"zero amount", ExpenseInput{Name: "X", Amount: "0", Category: "Food", Date: "2024-03-05"}, "amount"},
		{"negative amount", ExpenseInput{Name: "X", Amount: "-5", Category: "Food", Date: "2024-03-05"}, "amount"},
		{"unknown category", ExpenseInput{Name: "X", Amount: "5", Category: "Gadgets", Date: "2024-03-05"}, "category"},
		{"bad date", ExpenseInput{Name: "X", Amount: "5", Category: "Food", Date: "2024-13-05"}, "date"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, errs, err := a.AddExpense(context.Background(), tc.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !errs.Has(tc.field) {
				t.Errorf("field errors = %v; want error on %q", errs, tc.field)
			}
		})
	}

	stored, _ := mem.ListExpenses(context.Background(), "")
	if len(stored) != 0 {
		t.Errorf("invalid input reached the store: %+v", stored)
	}
}

func TestUpdateExpense(t *testing.T) {
	ctx := context.Background()
	a, _ := testApp(t)
	e := addExpense(t, a, "Coffee", "3.50", "Food", "2024-03-05")

	errs, err := a.UpdateExpense(ctx, e.ID, ExpenseInput{
		Name: "Espresso", Amount: "4.00", Category: "Food", Date: "2024-03-05",
	})
	if errs != nil || err != nil {
		t.Fatalf("UpdateExpense: errs=%v err=%v", errs, err)
	}
	got, ok := a.Expense(e.ID)
	if !ok || got.Name != "Espresso" || got.Amount.Cents != 400 {
		t.Errorf("updated expense = %+v", got)
	}

	// Invalid input must change nothing.
	errs, err = a.UpdateExpense(ctx, e.ID, ExpenseInput{
		Name: "", Amount: "4.00", Category: "Food", Date: "2024-03-05",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !errs.Has("name") {
		t.Errorf("field errors = %v; want name error", errs)
	}
	got, _ = a.Expense(e.ID)
	if got.Name != "Espresso" {
		t.Errorf("invalid update mutated expense: %+v", got)
	}

	if _, err := a.UpdateExpense(ctx, "nope", ExpenseInput{
		Name: "X", Amount: "1", Category: "Food", Date: "2024-03-05",
	}); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("update of unknown id = %v; want ErrNotFound", err)
	}
}

func TestDeleteExpense(t *testing.T) {
	ctx := context.Background()
	a, _ := testApp(t)
	e := addExpense(t, a, "Coffee", "3.50", "Food", "2024-03-05")

	if err := a.DeleteExpense(ctx, e.ID); err != nil {
		t.Fatalf("DeleteExpense: %v", err)
	}
	if _, ok := a.Expense(e.ID); ok {
		t.Error("expense still visible after delete")
	}
	if err := a.DeleteExpense(ctx, e.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second delete = %v; want ErrNotFound", err)
	}
}

func TestSetBudget(t *testing.T) {
	ctx := context.Background()
	a, _ := testApp(t)

	if err := a.SetBudget(ctx, core.AllMonths, "100"); err == nil {
		t.Error("SetBudget accepted the AllMonths aggregate")
	}
	if err := a.SetBudget(ctx, "2024-03", "garbage"); err != nil {
		t.Fatalf("SetBudget: %v", err)
	}
	if got := a.Budget("2024-03"); got.Cents != 0 {
		t.Errorf("garbage budget = %d cents; want 0", got.Cents)
	}

	if err := a.SetBudget(ctx, "2024-03", "80"); err != nil {
		t.Fatalf("SetBudget: %v", err)
	}
	if err := a.SetBudget(ctx, "2024-04", "20"); err != nil {
		t.Fatalf("SetBudget: %v", err)
	}
	if got := a.Budget(core.AllMonths); got.Cents != 10000 {
		t.Errorf("aggregate budget = %d cents; want 10000", got.Cents)
	}
}

func TestMonthSelectionPersists(t *testing.T) {
	ctx := context.Background()
	mem := memory.New()
	a := New(mem, mem, testLogger())
	if err := a.Load(ctx, ""); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if err := a.SetMonth(ctx, "2024-03"); err != nil {
		t.Fatalf("SetMonth: %v", err)
	}
	if err := a.SetMonth(ctx, "bogus"); err == nil {
		t.Error("SetMonth accepted a bogus month key")
	}

	// A fresh controller over the same stores resumes on the saved month.
	b := New(mem, mem, testLogger())
	if err := b.Load(ctx, ""); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if b.Month() != "2024-03" {
		t.Errorf("restored month = %q; want 2024-03", b.Month())
	}
}

func TestShiftMonth(t *testing.T) {
	ctx := context.Background()
	a, _ := testApp(t)

	if err := a.SetMonth(ctx, "2024-01"); err != nil {
		t.Fatalf("SetMonth: %v", err)
	}
	if err := a.ShiftMonth(ctx, -1); err != nil {
		t.Fatalf("ShiftMonth: %v", err)
	}
	if a.Month() != "2023-12" {
		t.Errorf("month = %q; want 2023-12", a.Month())
	}

	if err := a.SetMonth(ctx, core.AllMonths); err != nil {
		t.Fatalf("SetMonth: %v", err)
	}
	if err := a.ShiftMonth(ctx, 1); err != nil {
		t.Fatalf("ShiftMonth: %v", err)
	}
	if a.Month() != core.CurrentMonth().Shift(1) {
		t.Errorf("month after shift from AllMonths = %q", a.Month())
	}
}

func TestFiltersNarrowView(t *testing.T) {
	ctx := context.Background()
	a, _ := testApp(t)

	if err := a.SetMonth(ctx, "2024-03"); err != nil {
		t.Fatalf("SetMonth: %v", err)
	}
	addExpense(t, a, "Coffee", "3.50", "Food", "2024-03-05")
	addExpense(t, a, "Bus", "2.00", "Transport", "2024-03-06")
	addExpense(t, a, "Cinema", "12.00", "Entertainment", "2024-04-01")

	state := a.Current()
	if len(state.View.Items) != 2 {
		t.Fatalf("month view has %d items; want 2", len(state.View.Items))
	}

	a.SetCategory("Food")
	state = a.Current()
	if len(state.View.Items) != 1 || state.View.Items[0].Name != "Coffee" {
		t.Errorf("category view = %+v", state.View.Items)
	}
	// Spent ignores the category filter.
	if state.Stats.Spent.Cents != 550 {
		t.Errorf("spent = %d cents; want 550", state.Stats.Spent.Cents)
	}

	a.SetCategory("Bogus")
	if got := a.Current().Category; got != core.AllCategories {
		t.Errorf("bogus category = %q; want %q", got, core.AllCategories)
	}

	a.SetQuery("bus")
	state = a.Current()
	if len(state.View.Items) != 1 || state.View.Items[0].Name != "Bus" {
		t.Errorf("query view = %+v", state.View.Items)
	}
}

func TestResetKeepsSettings(t *testing.T) {
	ctx := context.Background()
	a, mem := testApp(t)

	if err := a.SetSettings(ctx, "de-DE", core.EUR); err != nil {
		t.Fatalf("SetSettings: %v", err)
	}
	addExpense(t, a, "Coffee", "3.50", "Food", "2024-03-05")
	if err := a.SetBudget(ctx, "2024-03", "100"); err != nil {
		t.Fatalf("SetBudget: %v", err)
	}

	if err := a.Reset(ctx); err != nil {
		t.Fatalf("Reset: %v", err)
	}

	if got := a.Expenses(); len(got) != 0 {
		t.Errorf("expenses after reset = %+v", got)
	}
	if got := a.Budget(core.AllMonths); got.Cents != 0 {
		t.Errorf("budgets after reset total %d cents", got.Cents)
	}
	if a.Settings().Currency != core.EUR {
		t.Error("reset dropped settings")
	}

	stored, _ := mem.ListExpenses(ctx, "")
	if len(stored) != 0 {
		t.Errorf("store still holds expenses: %+v", stored)
	}
}

func TestDefaultLocaleSeedsSettings(t *testing.T) {
	ctx := context.Background()
	a, _ := testApp(t, WithDefaultLocale("ru-RU"))

	got := a.Settings()
	if got.Locale != "ru-RU" || got.Currency != core.RUB {
		t.Errorf("first-run settings = %+v; want ru-RU/RUB", got)
	}

	// A saved row wins over the seed.
	mem := memory.New()
	b := New(mem, mem, testLogger(), WithDefaultLocale("ru-RU"))
	if err := b.Load(ctx, ""); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := b.SetSettings(ctx, "en-GB", core.GBP); err != nil {
		t.Fatalf("SetSettings: %v", err)
	}
	c := New(mem, mem, testLogger(), WithDefaultLocale("ru-RU"))
	if err := c.Load(ctx, ""); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := c.Settings(); got.Currency != core.GBP {
		t.Errorf("stored settings = %+v; want GBP", got)
	}
}

func TestVersionBumpsOnWrites(t *testing.T) {
	a, _ := testApp(t)

	before := a.Version()
	addExpense(t, a, "Coffee", "3.50", "Food", "2024-03-05")
	if a.Version() == before {
		t.Error("version unchanged after write")
	}

	before = a.Version()
	a.SetQuery("coffee")
	if a.Version() == before {
		t.Error("version unchanged after filter change")
	}
}
