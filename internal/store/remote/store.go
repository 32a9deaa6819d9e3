package remote

import (
	"context"
	"fmt"
	"net/url"

	"github.com/tanaytejush/Carbon-Purse/internal/core"
	"github.com/tanaytejush/Carbon-Purse/internal/store"
)

// Table names in the remote row store.
const (
	tableExpenses = "expenses"
	tableBudgets  = "budgets"
	tableSettings = "settings"
)

// TokenSource supplies the bearer token for row calls.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// Store implements store.DataStore against the remote row API. Every call is
// scoped to the owning user id; the backend additionally enforces row-level
// ownership, so a wrong owner yields empty results rather than leaks.
type Store struct {
	client *Client
	tokens TokenSource
}

var _ store.DataStore = (*Store)(nil)

func NewStore(client *Client, tokens TokenSource) *Store {
	return &Store{client: client, tokens: tokens}
}

type expenseRow struct {
	ID       string    `json:"id,omitempty"`
	UserID   string    `json:"user_id"`
	Name     string    `json:"name"`
	Amount   float64   `json:"amount"`
	Category string    `json:"category"`
	Date     core.Date `json:"date"`
}

type budgetRow struct {
	UserID string  `json:"user_id"`
	Month  string  `json:"month"`
	Amount float64 `json:"amount"`
}

type settingsRow struct {
	UserID   string `json:"user_id"`
	Locale   string `json:"locale"`
	Currency string `json:"currency"`
}

func expenseFromRow(r expenseRow) core.Expense {
	return core.Expense{
		ID:       r.ID,
		Name:     r.Name,
		Amount:   core.Money{Cents: core.CentsFromFloat(r.Amount)},
		Category: core.Category(r.Category),
		Date:     r.Date,
	}
}

func rowFromExpense(owner string, e core.Expense) expenseRow {
	return expenseRow{
		ID:       e.ID,
		UserID:   owner,
		Name:     e.Name,
		Amount:   e.Amount.Float(),
		Category: string(e.Category),
		Date:     e.Date,
	}
}

func (s *Store) rest(ctx context.Context, method, table string, query url.Values, headers map[string]string, body, out any) error {
	token, err := s.tokens.AccessToken(ctx)
	if err != nil {
		return err
	}
	return s.client.do(ctx, method, "/rest/v1/"+table, query, headers, token, body, out)
}

func ownerFilter(owner string) url.Values {
	return url.Values{"user_id": {"eq." + owner}}
}

func (s *Store) ListExpenses(ctx context.Context, owner string) ([]core.Expense, error) {
	q := ownerFilter(owner)
	q.Set("select", "*")
	q.Set("order", "date.desc")
	var rows []expenseRow
	if err := s.rest(ctx, "GET", tableExpenses, q, nil, nil, &rows); err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	out := make([]core.Expense, len(rows))
	for i, r := range rows {
		out[i] = expenseFromRow(r)
	}
	return out, nil
}

func (s *Store) InsertExpense(ctx context.Context, owner string, e core.Expense) (core.Expense, error) {
	headers := map[string]string{"Prefer": "return=representation"}
	var rows []expenseRow
	if err := s.rest(ctx, "POST", tableExpenses, nil, headers, []expenseRow{rowFromExpense(owner, e)}, &rows); err != nil {
		return core.Expense{}, fmt.Errorf("insert expense: %w", err)
	}
	if len(rows) == 0 {
		return core.Expense{}, fmt.Errorf("insert expense: empty response")
	}
	return expenseFromRow(rows[0]), nil
}

func (s *Store) InsertExpenses(ctx context.Context, owner string, expenses []core.Expense) error {
	for start := 0; start < len(expenses); start += store.InsertBatchSize {
		end := start + store.InsertBatchSize
		if end > len(expenses) {
			end = len(expenses)
		}
		rows := make([]expenseRow, 0, end-start)
		for _, e := range expenses[start:end] {
			rows = append(rows, rowFromExpense(owner, e))
		}
		if err := s.rest(ctx, "POST", tableExpenses, nil, nil, rows, nil); err != nil {
			return fmt.Errorf("bulk insert expenses [%d:%d]: %w", start, end, err)
		}
	}
	return nil
}

func (s *Store) UpdateExpense(ctx context.Context, owner string, e core.Expense) error {
	q := ownerFilter(owner)
	q.Set("id", "eq."+e.ID)
	patch := map[string]any{
		"name":     e.Name,
		"amount":   e.Amount.Float(),
		"category": e.Category,
		"date":     e.Date,
	}
	if err := s.rest(ctx, "PATCH", tableExpenses, q, nil, patch, nil); err != nil {
		return fmt.Errorf("update expense %s: %w", e.ID, err)
	}
	return nil
}

func (s *Store) DeleteExpense(ctx context.Context, owner, id string) error {
	q := ownerFilter(owner)
	q.Set("id", "eq."+id)
	if err := s.rest(ctx, "DELETE", tableExpenses, q, nil, nil, nil); err != nil {
		return fmt.Errorf("delete expense %s: %w", id, err)
	}
	return nil
}

func (s *Store) DeleteAllExpenses(ctx context.Context, owner string) error {
	if err := s.rest(ctx, "DELETE", tableExpenses, ownerFilter(owner), nil, nil, nil); err != nil {
		return fmt.Errorf("delete all expenses: %w", err)
	}
	return nil
}

func (s *Store) ListBudgets(ctx context.Context, owner string) (core.Budgets, error) {
	q := ownerFilter(owner)
	q.Set("select", "*")
	var rows []budgetRow
	if err := s.rest(ctx, "GET", tableBudgets, q, nil, nil, &rows); err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	out := core.Budgets{}
	for _, r := range rows {
		out[core.MonthKey(r.Month)] = core.Money{Cents: core.CentsFromFloat(r.Amount)}
	}
	return out, nil
}

// upsertHeaders makes POST behave as an upsert on the given conflict target.
func upsertHeaders() map[string]string {
	return map[string]string{"Prefer": "resolution=merge-duplicates"}
}

func (s *Store) UpsertBudget(ctx context.Context, owner string, month core.MonthKey, amount core.Money) error {
	q := url.Values{"on_conflict": {"user_id,month"}}
	row := budgetRow{UserID: owner, Month: string(month), Amount: amount.Float()}
	if err := s.rest(ctx, "POST", tableBudgets, q, upsertHeaders(), []budgetRow{row}, nil); err != nil {
		return fmt.Errorf("upsert budget %s: %w", month, err)
	}
	return nil
}

func (s *Store) UpsertBudgets(ctx context.Context, owner string, budgets core.Budgets) error {
	if len(budgets) == 0 {
		return nil
	}
	rows := make([]budgetRow, 0, len(budgets))
	for month, amount := range budgets {
		rows = append(rows, budgetRow{UserID: owner, Month: string(month), Amount: amount.Float()})
	}
	q := url.Values{"on_conflict": {"user_id,month"}}
	if err := s.rest(ctx, "POST", tableBudgets, q, upsertHeaders(), rows, nil); err != nil {
		return fmt.Errorf("upsert budgets: %w", err)
	}
	return nil
}

func (s *Store) DeleteAllBudgets(ctx context.Context, owner string) error {
	if err := s.rest(ctx, "DELETE", tableBudgets, ownerFilter(owner), nil, nil, nil); err != nil {
		return fmt.Errorf("delete all budgets: %w", err)
	}
	return nil
}

func (s *Store) GetSettings(ctx context.Context, owner string) (core.Settings, bool, error) {
	q := ownerFilter(owner)
	q.Set("select", "*")
	var rows []settingsRow
	if err := s.rest(ctx, "GET", tableSettings, q, nil, nil, &rows); err != nil {
		return core.Settings{}, false, fmt.Errorf("get settings: %w", err)
	}
	if len(rows) == 0 {
		return core.Settings{}, false, nil
	}
	return core.Settings{Locale: rows[0].Locale, Currency: core.Currency(rows[0].Currency)}, true, nil
}

func (s *Store) UpsertSettings(ctx context.Context, owner string, settings core.Settings) error {
	q := url.Values{"on_conflict": {"user_id"}}
	row := settingsRow{UserID: owner, Locale: settings.Locale, Currency: string(settings.Currency)}
	if err := s.rest(ctx, "POST", tableSettings, q, upsertHeaders(), []settingsRow{row}, nil); err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	return nil
}
