package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/tanaytejush/Carbon-Purse/internal/core"
)

var csvHeader = []string{"id", "name", "category", "date", "amount", "month", "currency"}

// WriteCSV writes the given expenses as a CSV sheet. Rows are written in
// the order given, which the caller has already filtered and sorted.
func WriteCSV(w io.Writer, expenses []core.Expense, currency core.Currency) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range expenses {
		row := []string{
			e.ID,
			e.Name,
			string(e.Category),
			string(e.Date),
			e.Amount.Decimal(),
			string(e.Date.Month()),
			string(currency),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// CSVFilename names a sheet after its month scope and currency, e.g.
// "expenses-2024-03-USD.csv" or "expenses-all-EUR.csv".
func CSVFilename(month core.MonthKey, currency core.Currency) string {
	scope := strings.ToLower(string(month))
	if month == core.AllMonths {
		scope = "all"
	}
	return fmt.Sprintf("expenses-%s-%s.csv", scope, currency)
}
