// Package memory provides an in-process store used by tests and as the
// degraded backend when the remote configuration is missing.
package memory

import (
	"context"
	"sync"

	"github.com/tanaytejush/Carbon-Purse/internal/core"
	"github.com/tanaytejush/Carbon-Purse/internal/store"
)

type ownerData struct {
	expenses []core.Expense
	budgets  core.Budgets
	settings *core.Settings
}

// Store keeps every owner's working set behind one mutex.
type Store struct {
	mu     sync.Mutex
	owners map[string]*ownerData
	state  map[string]string
}

var (
	_ store.DataStore  = (*Store)(nil)
	_ store.StateStore = (*Store)(nil)
)

func New() *Store {
	return &Store{
		owners: make(map[string]*ownerData),
		state:  make(map[string]string),
	}
}

func (s *Store) data(owner string) *ownerData {
	d, ok := s.owners[owner]
	if !ok {
		d = &ownerData{budgets: core.Budgets{}}
		s.owners[owner] = d
	}
	return d
}

func (s *Store) ListExpenses(_ context.Context, owner string) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.data(owner)
	return append([]core.Expense(nil), d.expenses...), nil
}

func (s *Store) InsertExpense(_ context.Context, owner string, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.data(owner)
	d.expenses = append(d.expenses, e)
	return e, nil
}

func (s *Store) InsertExpenses(ctx context.Context, owner string, expenses []core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.data(owner)
	d.expenses = append(d.expenses, expenses...)
	return nil
}

func (s *Store) UpdateExpense(_ context.Context, owner string, e core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.data(owner)
	for i := range d.expenses {
		if d.expenses[i].ID == e.ID {
			d.expenses[i] = e
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) DeleteExpense(_ context.Context, owner, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.data(owner)
	for i := range d.expenses {
		if d.expenses[i].ID == id {
			d.expenses = append(d.expenses[:i], d.expenses[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) DeleteAllExpenses(_ context.Context, owner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data(owner).expenses = nil
	return nil
}

func (s *Store) ListBudgets(_ context.Context, owner string) (core.Budgets, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.data(owner)
	out := make(core.Budgets, len(d.budgets))
	for k, v := range d.budgets {
		out[k] = v
	}
	return out, nil
}

func (s *Store) UpsertBudget(_ context.Context, owner string, month core.MonthKey, amount core.Money) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data(owner).budgets[month] = amount
	return nil
}

func (s *Store) UpsertBudgets(_ context.Context, owner string, budgets core.Budgets) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.data(owner)
	for k, v := range budgets {
		d.budgets[k] = v
	}
	return nil
}

func (s *Store) DeleteAllBudgets(_ context.Context, owner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data(owner).budgets = core.Budgets{}
	return nil
}

func (s *Store) GetSettings(_ context.Context, owner string) (core.Settings, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.data(owner)
	if d.settings == nil {
		return core.Settings{}, false, nil
	}
	return *d.settings, true, nil
}

func (s *Store) UpsertSettings(_ context.Context, owner string, settings core.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data(owner).settings = &settings
	return nil
}

func (s *Store) GetState(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state[key], nil
}

func (s *Store) SetState(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state[key] = value
	return nil
}

func (s *Store) DeleteState(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.state, key)
	return nil
}
