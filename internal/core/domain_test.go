package core

import (
	"errors"
	"testing"
)

func TestExpenseValidate(t *testing.T) {
	valid := Expense{
		ID:       "abc123",
		Name:     "Coffee",
		Amount:   Money{Cents: 350},
		Category: Food,
		Date:     "2024-03-05",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid expense rejected: %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*Expense)
		wantErr error
	}{
		{"blank name", func(e *Expense) { e.Name = "   " }, ErrEmptyName},
		{"zero amount", func(e *Expense) { e.Amount = Money{} }, ErrInvalidAmount},
		{"negative amount", func(e *Expense) { e.Amount = Money{Cents: -100} }, ErrInvalidAmount},
		{"unknown category", func(e *Expense) { e.Category = "Bribes" }, ErrInvalidCategory},
		{"bad date", func(e *Expense) { e.Date = "05/03/2024" }, ErrInvalidDate},
		{"empty date", func(e *Expense) { e.Date = "" }, ErrInvalidDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := valid
			tt.mutate(&e)
			if err := e.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDateMonth(t *testing.T) {
	if got := Date("2024-03-05").Month(); got != "2024-03" {
		t.Errorf("Month() = %q", got)
	}
	if got := Date("x").Month(); got != "" {
		t.Errorf("short date Month() = %q, want empty", got)
	}
}

func TestMonthKeyShift(t *testing.T) {
	cases := []struct {
		in    MonthKey
		delta int
		want  MonthKey
	}{
		{"2024-03", 1, "2024-04"},
		{"2024-01", -1, "2023-12"},
		{"2024-12", 1, "2025-01"},
		{AllMonths, 1, AllMonths},
	}
	for _, tc := range cases {
		if got := tc.in.Shift(tc.delta); got != tc.want {
			t.Errorf("%q.Shift(%d) = %q, want %q", tc.in, tc.delta, got, tc.want)
		}
	}
}

func TestBudgetsFor(t *testing.T) {
	b := Budgets{
		"2024-01": {Cents: 10000},
		"2024-02": {Cents: 5000},
	}
	if got := b.For("2024-01"); got.Cents != 10000 {
		t.Errorf("stored month = %d", got.Cents)
	}
	if got := b.For("2024-09"); got.Cents != 0 {
		t.Errorf("absent month = %d, want 0", got.Cents)
	}
	if got := b.For(AllMonths); got.Cents != 15000 {
		t.Errorf("aggregate = %d, want 15000", got.Cents)
	}
}

func TestInferCurrency(t *testing.T) {
	cases := []struct {
		locale string
		want   Currency
	}{
		{"en-US", USD},
		{"en-GB", GBP},
		{"fr-FR", EUR},
		{"ru-RU", RUB},
		{"hi-IN", INR},
		{"ja-JP", USD},
		{"en", USD},
		{"", USD},
	}
	for _, tc := range cases {
		if got := InferCurrency(tc.locale); got != tc.want {
			t.Errorf("InferCurrency(%q) = %q, want %q", tc.locale, got, tc.want)
		}
	}
}

func TestSettingsNormalize(t *testing.T) {
	fallback := Settings{Locale: "en-US", Currency: USD}
	s := Settings{Locale: "", Currency: "XYZ"}.Normalize(fallback)
	if s.Locale != "en-US" || s.Currency != USD {
		t.Errorf("normalized = %+v", s)
	}
	keep := Settings{Locale: "de-DE", Currency: EUR}.Normalize(fallback)
	if keep.Locale != "de-DE" || keep.Currency != EUR {
		t.Errorf("valid settings mangled: %+v", keep)
	}
}
