package core

import (
	"errors"
	"strings"
	"time"
)

// The category set is closed; the UI never lets users extend it.
const (
	Food          Category = "Food"
	Transport     Category = "Transport"
	Housing       Category = "Housing"
	Utilities     Category = "Utilities"
	Shopping      Category = "Shopping"
	Entertainment Category = "Entertainment"
	Health        Category = "Health"
	Education     Category = "Education"
	Other         Category = "Other"
)

// AllMonths is the pseudo month selecting every record. Its budget is the
// aggregate of all stored months and is never persisted or edited directly.
const AllMonths MonthKey = "All"

type (
	Category string

	// MonthKey identifies a calendar month as "YYYY-MM", or AllMonths.
	MonthKey string

	// Date is a calendar date in ISO "YYYY-MM-DD" form.
	Date string

	Expense struct {
		ID       string
		Name     string
		Amount   Money
		Category Category
		Date     Date
	}

	// Budgets maps month keys to budgeted amounts. Absent keys mean zero.
	Budgets map[MonthKey]Money

	Settings struct {
		Locale   string
		Currency Currency
	}
)

var (
	ErrEmptyName       = errors.New("empty name")
	ErrNameTooLong     = errors.New("name too long (max 200 characters)")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidMonth    = errors.New("invalid month key")
)

// Categories returns the fixed category set in display order.
func Categories() []Category {
	return []Category{Food, Transport, Housing, Utilities, Shopping, Entertainment, Health, Education, Other}
}

func (c Category) Validate() error {
	for _, known := range Categories() {
		if c == known {
			return nil
		}
	}
	return ErrInvalidCategory
}

func (d Date) Validate() error {
	if _, err := time.Parse("2006-01-02", string(d)); err != nil {
		return ErrInvalidDate
	}
	return nil
}

// Month returns the month key of the date's year-month.
func (d Date) Month() MonthKey {
	if len(d) < 7 {
		return ""
	}
	return MonthKey(d[:7])
}

func (d Date) Time() time.Time {
	t, _ := time.Parse("2006-01-02", string(d))
	return t
}

// Today returns the current date in UTC.
func Today() Date {
	return Date(time.Now().UTC().Format("2006-01-02"))
}

func (m MonthKey) Validate() error {
	if m == AllMonths {
		return nil
	}
	if _, err := time.Parse("2006-01", string(m)); err != nil {
		return ErrInvalidMonth
	}
	return nil
}

// CurrentMonth returns the month key for the present UTC month.
func CurrentMonth() MonthKey {
	return MonthKey(time.Now().UTC().Format("2006-01"))
}

// Shift moves a concrete month key by delta months. AllMonths is returned
// unchanged since it has no neighbours.
func (m MonthKey) Shift(delta int) MonthKey {
	if m == AllMonths {
		return m
	}
	t, err := time.Parse("2006-01", string(m))
	if err != nil {
		return m
	}
	return MonthKey(t.AddDate(0, delta, 0).Format("2006-01"))
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return ErrEmptyName
	}
	if len(e.Name) > 200 {
		return ErrNameTooLong
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if err := e.Category.Validate(); err != nil {
		return err
	}
	return e.Date.Validate()
}

// Total sums every stored month, which is what the AllMonths budget shows.
func (b Budgets) Total() Money {
	var cents int64
	for _, v := range b {
		cents += v.Cents
	}
	return Money{Cents: cents}
}

// For returns the stored amount for a month, zero when absent, and the
// aggregate for AllMonths.
func (b Budgets) For(month MonthKey) Money {
	if month == AllMonths {
		return b.Total()
	}
	return b[month]
}
