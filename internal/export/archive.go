// Package export serializes the working set to JSON archives and CSV
// sheets and validates incoming archives before an import replaces
// existing data.
package export

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/tanaytejush/Carbon-Purse/internal/core"
)

// Archive is the portable form of the whole working set. Amounts cross
// the boundary as decimal numbers, the way spreadsheet tools expect them.
type Archive struct {
	Expenses []ArchiveExpense   `json:"expenses"`
	Budgets  map[string]float64 `json:"budgets"`
	Settings ArchiveSettings    `json:"settings"`
	Month    string             `json:"month,omitempty"`
}

type ArchiveExpense struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
	Date     string  `json:"date"`
}

type ArchiveSettings struct {
	Locale   string `json:"locale"`
	Currency string `json:"currency"`
}

// BuildArchive captures the working set as an archive.
func BuildArchive(expenses []core.Expense, budgets core.Budgets, settings core.Settings, month core.MonthKey) Archive {
	a := Archive{
		Expenses: make([]ArchiveExpense, 0, len(expenses)),
		Budgets:  make(map[string]float64, len(budgets)),
		Settings: ArchiveSettings{
			Locale:   settings.Locale,
			Currency: string(settings.Currency),
		},
		Month: string(month),
	}
	for _, e := range expenses {
		a.Expenses = append(a.Expenses, ArchiveExpense{
			ID:       e.ID,
			Name:     e.Name,
			Amount:   e.Amount.Float(),
			Category: string(e.Category),
			Date:     string(e.Date),
		})
	}
	for m, b := range budgets {
		a.Budgets[string(m)] = b.Float()
	}
	return a
}

// MarshalJSON output is indented so exported files stay hand-editable.
func (a Archive) Encode() ([]byte, error) {
	return json.MarshalIndent(a, "", "  ")
}

// JSONFilename names an export after the day it was taken.
func JSONFilename(now time.Time) string {
	return fmt.Sprintf("expense-tracker-%s.json", now.Format("2006-01-02"))
}

// ParseArchive decodes and validates an archive. The three top-level
// collections must all be present with the right JSON shape; anything
// less is rejected before the caller touches existing data.
func ParseArchive(data []byte) (Archive, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Archive{}, fmt.Errorf("invalid archive: %w", err)
	}

	for _, check := range []struct {
		key  string
		want byte
		desc string
	}{
		{"expenses", '[', "array"},
		{"budgets", '{', "object"},
		{"settings", '{', "object"},
	} {
		msg, ok := raw[check.key]
		if !ok {
			return Archive{}, fmt.Errorf("invalid archive: missing %q", check.key)
		}
		if len(msg) == 0 || msg[0] != check.want {
			return Archive{}, fmt.Errorf("invalid archive: %q must be a JSON %s", check.key, check.desc)
		}
	}

	var a Archive
	if err := json.Unmarshal(data, &a); err != nil {
		return Archive{}, fmt.Errorf("invalid archive: %w", err)
	}
	return a, nil
}

// Restore converts a validated archive back into domain values. Entries
// that fail domain validation are skipped rather than failing the whole
// import; the skip count is reported to the caller.
func (a Archive) Restore() ([]core.Expense, core.Budgets, core.Settings, int) {
	expenses := make([]core.Expense, 0, len(a.Expenses))
	skipped := 0
	for _, ae := range a.Expenses {
		e := core.Expense{
			ID:       ae.ID,
			Name:     ae.Name,
			Amount:   core.Money{Cents: core.CentsFromFloat(ae.Amount)},
			Category: core.Category(ae.Category),
			Date:     core.Date(ae.Date),
		}
		if e.ID == "" || e.Validate() != nil {
			skipped++
			continue
		}
		expenses = append(expenses, e)
	}

	budgets := make(core.Budgets, len(a.Budgets))
	for m, v := range a.Budgets {
		key := core.MonthKey(m)
		// The AllMonths aggregate is derived, never stored.
		if key == core.AllMonths {
			continue
		}
		if key.Validate() != nil {
			skipped++
			continue
		}
		cents := core.CentsFromFloat(v)
		if cents < 0 {
			cents = 0
		}
		budgets[key] = core.Money{Cents: cents}
	}

	settings := core.Settings{
		Locale:   a.Settings.Locale,
		Currency: core.Currency(a.Settings.Currency),
	}.Normalize(core.DefaultSettings(""))

	return expenses, budgets, settings, skipped
}
