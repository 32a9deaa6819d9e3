package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/tanaytejush/Carbon-Purse/internal/core"
	"github.com/tanaytejush/Carbon-Purse/internal/store"
	"github.com/tanaytejush/Carbon-Purse/internal/store/memory"
)

func TestExportJSON(t *testing.T) {
	ctx := context.Background()
	a, _ := testApp(t)

	if err := a.SetMonth(ctx, "2024-03"); err != nil {
		t.Fatalf("SetMonth: %v", err)
	}
	addExpense(t, a, "Coffee", "3.50", "Food", "2024-03-05")
	if err := a.SetBudget(ctx, "2024-03", "100"); err != nil {
		t.Fatalf("SetBudget: %v", err)
	}

	data, filename, err := a.ExportJSON(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	if filename != "expense-tracker-2024-03-15.json" {
		t.Errorf("filename = %q", filename)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("export is not JSON: %v", err)
	}
	for _, key := range []string{"expenses", "budgets", "settings"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("export missing %q", key)
		}
	}
}

func TestExportCSVFollowsFilters(t *testing.T) {
	ctx := context.Background()
	a, _ := testApp(t)

	if err := a.SetMonth(ctx, "2024-03"); err != nil {
		t.Fatalf("SetMonth: %v", err)
	}
	addExpense(t, a, "Coffee", "3.50", "Food", "2024-03-05")
	addExpense(t, a, "Groceries", "42.00", "Food", "2024-03-10")
	addExpense(t, a, "Cinema", "12.00", "Entertainment", "2024-04-01")

	var buf bytes.Buffer
	filename, err := a.ExportCSV(&buf)
	if err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}
	if filename != "expenses-2024-03-USD.csv" {
		t.Errorf("filename = %q", filename)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("sheet has %d lines; want header + 2 March rows:\n%s", len(lines), buf.String())
	}
	if strings.Contains(buf.String(), "Cinema") {
		t.Errorf("sheet includes the April expense:\n%s", buf.String())
	}

	// A text filter narrows the sheet but not the filename.
	a.SetQuery("coffee")
	buf.Reset()
	filename, err = a.ExportCSV(&buf)
	if err != nil {
		t.Fatalf("ExportCSV filtered: %v", err)
	}
	if filename != "expenses-2024-03-USD.csv" {
		t.Errorf("filtered filename = %q", filename)
	}
	lines = strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("filtered sheet has %d lines; want header + 1 row:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[1], "Coffee") {
		t.Errorf("row = %q; want the matching expense", lines[1])
	}
}

func TestImportArchiveReplacesData(t *testing.T) {
	ctx := context.Background()
	a, _ := testApp(t)

	addExpense(t, a, "Stale", "9.99", "Other", "2024-01-01")
	if err := a.SetBudget(ctx, "2024-01", "10"); err != nil {
		t.Fatalf("SetBudget: %v", err)
	}

	archive := []byte(`{
		"expenses": [
			{"id":"a1","name":"Imported coffee","amount":3.5,"category":"Food","date":"2024-03-05"}
		],
		"budgets": {"2024-03": 100},
		"settings": {"locale":"en-GB","currency":"GBP"},
		"month": "2024-03"
	}`)

	skipped, err := a.ImportArchive(ctx, archive)
	if err != nil {
		t.Fatalf("ImportArchive: %v", err)
	}
	if skipped != 0 {
		t.Errorf("skipped = %d; want 0", skipped)
	}

	expenses := a.Expenses()
	if len(expenses) != 1 || expenses[0].Name != "Imported coffee" {
		t.Errorf("expenses after import = %+v", expenses)
	}
	if got := a.Budget("2024-01"); got.Cents != 0 {
		t.Errorf("stale budget survived import: %d cents", got.Cents)
	}
	if got := a.Budget("2024-03"); got.Cents != 10000 {
		t.Errorf("imported budget = %d cents; want 10000", got.Cents)
	}
	if a.Settings().Currency != core.GBP {
		t.Errorf("settings = %+v", a.Settings())
	}
	if a.Month() != "2024-03" {
		t.Errorf("month = %q; want 2024-03", a.Month())
	}
}

func TestImportArchiveRejectsBeforeDeleting(t *testing.T) {
	ctx := context.Background()
	a, mem := testApp(t)

	addExpense(t, a, "Precious", "9.99", "Other", "2024-01-01")

	// Missing the budgets collection entirely.
	_, err := a.ImportArchive(ctx, []byte(`{"expenses":[],"settings":{}}`))
	if err == nil {
		t.Fatal("malformed archive accepted")
	}
	if !errors.Is(err, ErrInvalidArchive) {
		t.Errorf("rejection error = %v; want ErrInvalidArchive", err)
	}

	stored, _ := mem.ListExpenses(ctx, "")
	if len(stored) != 1 {
		t.Errorf("rejected import destroyed data: %+v", stored)
	}
}

// faultStore lets one write path fail while everything else hits the
// wrapped store.
type faultStore struct {
	store.DataStore
	insertExpensesErr error
	upsertBudgetErr   error
}

func (f *faultStore) InsertExpenses(ctx context.Context, owner string, expenses []core.Expense) error {
	if f.insertExpensesErr != nil {
		return f.insertExpensesErr
	}
	return f.DataStore.InsertExpenses(ctx, owner, expenses)
}

func (f *faultStore) UpsertBudget(ctx context.Context, owner string, month core.MonthKey, amount core.Money) error {
	if f.upsertBudgetErr != nil {
		return f.upsertBudgetErr
	}
	return f.DataStore.UpsertBudget(ctx, owner, month, amount)
}

func TestImportStoreFailureIsNotARejection(t *testing.T) {
	ctx := context.Background()
	mem := memory.New()
	fs := &faultStore{DataStore: mem}
	a := New(fs, mem, testLogger())
	if err := a.Load(ctx, ""); err != nil {
		t.Fatalf("Load: %v", err)
	}
	addExpense(t, a, "Precious", "9.99", "Other", "2024-01-01")

	fs.insertExpensesErr = errors.New("boom")
	_, err := a.ImportArchive(ctx, []byte(`{
		"expenses": [
			{"id":"a1","name":"Imported coffee","amount":3.5,"category":"Food","date":"2024-03-05"}
		],
		"budgets": {},
		"settings": {}
	}`))
	if err == nil {
		t.Fatal("mid-import store failure not reported")
	}
	if errors.Is(err, ErrInvalidArchive) {
		t.Errorf("store failure reported as rejection: %v", err)
	}

	// The deletes already ran; the view must resync to the emptied store
	// rather than keep showing the seed.
	if got := a.Expenses(); len(got) != 0 {
		t.Errorf("view still shows %+v after failed import", got)
	}
}
