package core

import "testing"

func TestSummarizeGroupsAndSorts(t *testing.T) {
	got := Summarize(sampleExpenses())
	want := []CategoryAmount{
		{Housing, Money{Cents: 90000}},
		{Food, Money{Cents: 4850}},
		{Entertainment, Money{Cents: 1200}},
		{Transport, Money{Cents: 250}},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d groups, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("group %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSummarizeTopFive(t *testing.T) {
	var in []Expense
	for i, c := range Categories() {
		in = append(in, Expense{
			ID:       string(rune('a' + i)),
			Name:     string(c),
			Amount:   Money{Cents: int64(100 * (i + 1))},
			Category: c,
			Date:     "2024-05-01",
		})
	}
	got := Summarize(in)
	if len(got) != 5 {
		t.Fatalf("got %d groups, want 5", len(got))
	}
	if got[0].Category != Other || got[0].Amount.Cents != 900 {
		t.Errorf("top group = %+v", got[0])
	}
	for i := 1; i < len(got); i++ {
		if got[i].Amount.Cents > got[i-1].Amount.Cents {
			t.Errorf("not sorted descending at %d", i)
		}
	}
}

func TestSummarizeTotalMatchesSpent(t *testing.T) {
	in := FilterMonth(sampleExpenses(), "2024-03")
	var sum int64
	for _, g := range Summarize(in) {
		sum += g.Amount.Cents
	}
	if spent := TotalSpent(in); sum != spent.Cents {
		t.Errorf("summary total %d != spent %d (categories in view <= 5)", sum, spent.Cents)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	if got := Summarize(nil); len(got) != 0 {
		t.Errorf("expected empty summary, got %+v", got)
	}
}
