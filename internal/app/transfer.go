package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/tanaytejush/Carbon-Purse/internal/core"
	"github.com/tanaytejush/Carbon-Purse/internal/export"
	"github.com/tanaytejush/Carbon-Purse/internal/log"
)

// ErrInvalidArchive marks an import rejected before anything was deleted.
// Any other ImportArchive error means the replace had already started.
var ErrInvalidArchive = errors.New("invalid archive")

// ExportJSON captures the whole working set as a downloadable archive.
func (a *App) ExportJSON(now time.Time) ([]byte, string, error) {
	a.mu.Lock()
	archive := export.BuildArchive(a.expenses, a.budgets, a.settings, a.month)
	a.mu.Unlock()

	data, err := archive.Encode()
	if err != nil {
		return nil, "", fmt.Errorf("encode archive: %w", err)
	}
	return data, export.JSONFilename(now), nil
}

// ExportCSV writes the currently visible expenses as a CSV sheet and
// returns the download filename. All active filters apply; the filename
// encodes only the month scope and currency.
func (a *App) ExportCSV(w io.Writer) (string, error) {
	a.mu.Lock()
	month := a.month
	currency := a.settings.Currency
	view := core.Apply(a.expenses, core.Filter{Month: month, Category: a.category, Query: a.query})
	a.mu.Unlock()

	if err := export.WriteCSV(w, view.Items, currency); err != nil {
		return "", err
	}
	return export.CSVFilename(month, currency), nil
}

// ImportArchive replaces all stored data with the archive's contents.
// The archive is fully validated before anything is deleted; entries that
// fail domain validation are skipped and counted. The working set is
// reloaded from the store afterwards so the view reflects what actually
// persisted.
func (a *App) ImportArchive(ctx context.Context, data []byte) (int, error) {
	archive, err := export.ParseArchive(data)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidArchive, err)
	}
	expenses, budgets, settings, skipped := archive.Restore()

	a.mu.Lock()
	owner := a.owner
	a.mu.Unlock()

	if err := a.replaceData(ctx, owner, expenses, budgets, settings); err != nil {
		// The working set may no longer match the store; resync so the
		// view shows what actually survived.
		if lerr := a.Load(ctx, owner); lerr != nil {
			a.logger.ErrorContext(ctx, "resyncing after failed import", log.FieldError, lerr)
		}
		return 0, err
	}

	if err := a.Load(ctx, owner); err != nil {
		return 0, err
	}

	if m := core.MonthKey(archive.Month); m != "" && m.Validate() == nil {
		if err := a.SetMonth(ctx, m); err != nil {
			a.logger.WarnContext(ctx, "restoring archived month", log.FieldError, err)
		}
	}

	a.logger.InfoContext(ctx, "archive imported",
		log.FieldCount, len(expenses),
		"skipped", skipped)
	return skipped, nil
}

// replaceData clears the owner's rows and writes the restored archive.
func (a *App) replaceData(ctx context.Context, owner string, expenses []core.Expense, budgets core.Budgets, settings core.Settings) error {
	if err := a.data.DeleteAllExpenses(ctx, owner); err != nil {
		return fmt.Errorf("import: clear expenses: %w", err)
	}
	if err := a.data.DeleteAllBudgets(ctx, owner); err != nil {
		return fmt.Errorf("import: clear budgets: %w", err)
	}
	if err := a.data.InsertExpenses(ctx, owner, expenses); err != nil {
		return fmt.Errorf("import: insert expenses: %w", err)
	}
	if len(budgets) > 0 {
		if err := a.data.UpsertBudgets(ctx, owner, budgets); err != nil {
			return fmt.Errorf("import: save budgets: %w", err)
		}
	}
	if err := a.data.UpsertSettings(ctx, owner, settings); err != nil {
		return fmt.Errorf("import: save settings: %w", err)
	}
	return nil
}
