package core

import "sort"

// summaryLimit caps the category breakdown shown in the summary card.
const summaryLimit = 5

// CategoryAmount is an amount aggregated under one category.
type CategoryAmount struct {
	Category Category
	Amount   Money
}

// Summarize groups expenses by category, sums each group, and returns at
// most five groups sorted descending by sum. Ties keep first-seen order.
func Summarize(expenses []Expense) []CategoryAmount {
	sums := make(map[Category]int64)
	var order []Category
	for _, e := range expenses {
		if _, seen := sums[e.Category]; !seen {
			order = append(order, e.Category)
		}
		sums[e.Category] += e.Amount.Cents
	}
	out := make([]CategoryAmount, 0, len(order))
	for _, c := range order {
		out = append(out, CategoryAmount{Category: c, Amount: Money{Cents: sums[c]}})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.Cents > out[j].Amount.Cents
	})
	if len(out) > summaryLimit {
		out = out[:summaryLimit]
	}
	return out
}
