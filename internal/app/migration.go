package app

import (
	"context"
	"fmt"

	"github.com/tanaytejush/Carbon-Purse/internal/log"
	"github.com/tanaytejush/Carbon-Purse/internal/store"
)

// Migration decision values stored under store.StateMigrationPrefix+owner.
const (
	migrationDone      = "done"
	migrationDismissed = "dismissed"
)

func (a *App) migrationKey(owner string) string {
	return store.StateMigrationPrefix + owner
}

// MigrationOffer reports whether the signed-in user should be asked to
// copy their local data to the remote account. The offer appears at most
// once per user: only when the remote account is still empty, the local
// store holds data, and no prior decision is on record.
func (a *App) MigrationOffer(ctx context.Context) (bool, error) {
	a.mu.Lock()
	owner := a.owner
	loaded := a.loaded
	remoteEmpty := len(a.expenses) == 0 && len(a.budgets) == 0
	a.mu.Unlock()

	if a.local == nil || owner == "" || !loaded {
		return false, nil
	}
	if !remoteEmpty {
		return false, nil
	}

	decision, err := a.state.GetState(ctx, a.migrationKey(owner))
	if err != nil {
		return false, fmt.Errorf("read migration state: %w", err)
	}
	if decision != "" {
		return false, nil
	}

	snap, err := store.Load(ctx, a.local, "")
	if err != nil {
		return false, fmt.Errorf("inspect local data: %w", err)
	}
	return !snap.IsEmpty(), nil
}

// AcceptMigration copies the local working set to the remote account in
// insert batches, clears the local copy, and records the decision so the
// offer never reappears. The remote working set is reloaded afterwards.
func (a *App) AcceptMigration(ctx context.Context) error {
	a.mu.Lock()
	owner := a.owner
	a.mu.Unlock()
	if a.local == nil || owner == "" {
		return fmt.Errorf("migration: no local source")
	}

	snap, err := store.Load(ctx, a.local, "")
	if err != nil {
		return fmt.Errorf("migration: read local data: %w", err)
	}

	if err := a.data.InsertExpenses(ctx, owner, snap.Expenses); err != nil {
		return fmt.Errorf("migration: copy expenses: %w", err)
	}
	if len(snap.Budgets) > 0 {
		if err := a.data.UpsertBudgets(ctx, owner, snap.Budgets); err != nil {
			return fmt.Errorf("migration: copy budgets: %w", err)
		}
	}
	if err := a.data.UpsertSettings(ctx, owner, snap.Settings); err != nil {
		return fmt.Errorf("migration: copy settings: %w", err)
	}

	mlog := a.logger.WithComponent(log.ComponentMigration)

	// The local copy is cleared only after the remote copy landed.
	if err := a.local.DeleteAllExpenses(ctx, ""); err != nil {
		mlog.WarnContext(ctx, "clearing migrated local expenses", log.FieldError, err)
	}
	if err := a.local.DeleteAllBudgets(ctx, ""); err != nil {
		mlog.WarnContext(ctx, "clearing migrated local budgets", log.FieldError, err)
	}

	if err := a.state.SetState(ctx, a.migrationKey(owner), migrationDone); err != nil {
		return fmt.Errorf("migration: record decision: %w", err)
	}

	mlog.InfoContext(ctx, "local data migrated",
		log.FieldUserID, owner,
		log.FieldCount, len(snap.Expenses))
	return a.Load(ctx, owner)
}

// DeclineMigration records a permanent "no" for this user. Local data
// stays where it is.
func (a *App) DeclineMigration(ctx context.Context) error {
	a.mu.Lock()
	owner := a.owner
	a.mu.Unlock()
	if owner == "" {
		return fmt.Errorf("migration: not signed in")
	}
	return a.state.SetState(ctx, a.migrationKey(owner), migrationDismissed)
}
