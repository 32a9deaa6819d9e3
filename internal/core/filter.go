package core

import (
	"sort"
	"strings"
)

// AllCategories is the sentinel disabling the category filter.
const AllCategories = "All"

// Filter is the transient UI filter state. Zero values keep everything.
type Filter struct {
	Month    MonthKey
	Category string
	Query    string
}

// View is the derived state the UI renders from. Spent covers the month
// selection only; Items additionally honour the category and text filters.
type View struct {
	Spent Money
	Items []Expense
}

// FilterMonth keeps expenses whose date falls in the selected month.
// AllMonths keeps the full set.
func FilterMonth(expenses []Expense, month MonthKey) []Expense {
	if month == AllMonths {
		return append([]Expense(nil), expenses...)
	}
	out := make([]Expense, 0, len(expenses))
	for _, e := range expenses {
		if e.Date.Month() == month {
			out = append(out, e)
		}
	}
	return out
}

// TotalSpent sums the amounts of the given expenses.
func TotalSpent(expenses []Expense) Money {
	var cents int64
	for _, e := range expenses {
		cents += e.Amount.Cents
	}
	return Money{Cents: cents}
}

// Apply runs the full derivation pipeline: month filter, spent total,
// category filter, case-insensitive text search, then a stable sort
// descending by date.
func Apply(expenses []Expense, f Filter) View {
	monthly := FilterMonth(expenses, f.Month)
	v := View{Spent: TotalSpent(monthly)}

	items := monthly
	if f.Category != "" && f.Category != AllCategories {
		kept := items[:0]
		for _, e := range items {
			if string(e.Category) == f.Category {
				kept = append(kept, e)
			}
		}
		items = kept
	}
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		kept := items[:0]
		for _, e := range items {
			if strings.Contains(strings.ToLower(e.Name), q) {
				kept = append(kept, e)
			}
		}
		items = kept
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Date > items[j].Date
	})
	v.Items = items
	return v
}
