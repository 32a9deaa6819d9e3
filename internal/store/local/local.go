// Package local persists the working set in an embedded SQLite database.
// It is both the local build variant's store and, on the remote variant,
// the holder of UI state plus the cached copy consulted by the one-time
// migration prompt.
package local

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tanaytejush/Carbon-Purse/internal/core"
	"github.com/tanaytejush/Carbon-Purse/internal/store"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

var (
	_ store.DataStore  = (*Store)(nil)
	_ store.StateStore = (*Store)(nil)
)

// Open creates the database file if needed and brings the schema up to date.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// The local variant has a single profile, so the owner argument is ignored
// throughout.

func (s *Store) ListExpenses(ctx context.Context, _ string) ([]core.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, amount_cents, category, date FROM expenses ORDER BY date DESC, rowid ASC`)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		var e core.Expense
		var cents int64
		if err := rows.Scan(&e.ID, &e.Name, &cents, &e.Category, &e.Date); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		e.Amount = core.Money{Cents: cents}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) InsertExpense(ctx context.Context, _ string, e core.Expense) (core.Expense, error) {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO expenses (id, name, amount_cents, category, date) VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.Name, e.Amount.Cents, e.Category, e.Date)
	if err != nil {
		return core.Expense{}, fmt.Errorf("insert expense: %w", err)
	}
	slog.DebugContext(ctx, "Expense saved to SQLite", "id", e.ID, "amount_cents", e.Amount.Cents)
	return e, nil
}

func (s *Store) InsertExpenses(ctx context.Context, owner string, expenses []core.Expense) error {
	for start := 0; start < len(expenses); start += store.InsertBatchSize {
		end := start + store.InsertBatchSize
		if end > len(expenses) {
			end = len(expenses)
		}
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin batch insert: %w", err)
		}
		for _, e := range expenses[start:end] {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO expenses (id, name, amount_cents, category, date) VALUES (?, ?, ?, ?, ?)`,
				e.ID, e.Name, e.Amount.Cents, e.Category, e.Date); err != nil {
				tx.Rollback()
				return fmt.Errorf("batch insert expense %s: %w", e.ID, err)
			}
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit batch insert: %w", err)
		}
	}
	return nil
}

func (s *Store) UpdateExpense(ctx context.Context, _ string, e core.Expense) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE expenses SET name = ?, amount_cents = ?, category = ?, date = ? WHERE id = ?`,
		e.Name, e.Amount.Cents, e.Category, e.Date, e.ID)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	return affectedOrNotFound(res)
}

func (s *Store) DeleteExpense(ctx context.Context, _ string, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return affectedOrNotFound(res)
}

func (s *Store) DeleteAllExpenses(ctx context.Context, _ string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM expenses`); err != nil {
		return fmt.Errorf("delete all expenses: %w", err)
	}
	return nil
}

func (s *Store) ListBudgets(ctx context.Context, _ string) (core.Budgets, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT month, amount_cents FROM budgets`)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	out := core.Budgets{}
	for rows.Next() {
		var month string
		var cents int64
		if err := rows.Scan(&month, &cents); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		out[core.MonthKey(month)] = core.Money{Cents: cents}
	}
	return out, rows.Err()
}

func (s *Store) UpsertBudget(ctx context.Context, _ string, month core.MonthKey, amount core.Money) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO budgets (month, amount_cents) VALUES (?, ?)
		 ON CONFLICT(month) DO UPDATE SET amount_cents = excluded.amount_cents`,
		month, amount.Cents)
	if err != nil {
		return fmt.Errorf("upsert budget: %w", err)
	}
	return nil
}

func (s *Store) UpsertBudgets(ctx context.Context, owner string, budgets core.Budgets) error {
	for month, amount := range budgets {
		if err := s.UpsertBudget(ctx, owner, month, amount); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) DeleteAllBudgets(ctx context.Context, _ string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM budgets`); err != nil {
		return fmt.Errorf("delete all budgets: %w", err)
	}
	return nil
}

func (s *Store) GetSettings(ctx context.Context, _ string) (core.Settings, bool, error) {
	var out core.Settings
	err := s.db.QueryRowContext(ctx,
		`SELECT locale, currency FROM settings WHERE id = 1`).Scan(&out.Locale, &out.Currency)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Settings{}, false, nil
	}
	if err != nil {
		return core.Settings{}, false, fmt.Errorf("get settings: %w", err)
	}
	return out, true, nil
}

func (s *Store) UpsertSettings(ctx context.Context, _ string, settings core.Settings) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (id, locale, currency) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET locale = excluded.locale, currency = excluded.currency`,
		settings.Locale, settings.Currency)
	if err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	return nil
}

func (s *Store) GetState(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM app_state WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get state %s: %w", key, err)
	}
	return value, nil
}

func (s *Store) SetState(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO app_state (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	if err != nil {
		return fmt.Errorf("set state %s: %w", key, err)
	}
	return nil
}

func (s *Store) DeleteState(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM app_state WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete state %s: %w", key, err)
	}
	return nil
}

func affectedOrNotFound(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
