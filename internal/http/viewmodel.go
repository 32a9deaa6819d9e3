package http

import (
	"net/http"
	"time"

	"github.com/tanaytejush/Carbon-Purse/internal/app"
	"github.com/tanaytejush/Carbon-Purse/internal/core"
	"github.com/tanaytejush/Carbon-Purse/internal/currency"
	"github.com/tanaytejush/Carbon-Purse/internal/log"
)

type expenseRow struct {
	ID       string
	Name     string
	Category string
	Date     string
	Amount   string // formatted
	Raw      string // decimal, for the edit form
}

type summaryRow struct {
	Category string
	Amount   string
}

type statsView struct {
	Budget     string
	Spent      string
	Remaining  string
	OverBudget bool
}

type currencyOption struct {
	Code     string
	Label    string
	Selected bool
}

type categoryOption struct {
	Name     string
	Selected bool
}

// appView is everything the app templates render.
type appView struct {
	Month       string
	MonthLabel  string
	IsAllMonths bool
	BudgetEdit  bool
	BudgetInput string

	Stats    statsView
	Expenses []expenseRow
	Summary  []summaryRow

	Categories    []categoryOption // filter options, including All
	FormCats      []core.Category  // add/edit form options
	Currencies    []currencyOption
	Locale        string
	Query         string
	Today         string
	HasExpenses   bool
	TotalExpenses int

	Degraded       bool
	Authenticated  bool
	Email          string
	MigrationOffer bool
	Toasts         []app.Toast

	AddForm addFormData
}

func monthLabel(m core.MonthKey) string {
	if m == core.AllMonths {
		return "All months"
	}
	t, err := time.Parse("2006-01", string(m))
	if err != nil {
		return string(m)
	}
	return t.Format("January 2006")
}

func (s *Server) buildView(r *http.Request) appView {
	state := s.app.Current()
	fmtr := currency.New(state.Settings.Currency, state.Settings.Locale)

	v := appView{
		Month:       string(state.Month),
		MonthLabel:  monthLabel(state.Month),
		IsAllMonths: state.Month == core.AllMonths,
		BudgetEdit:  state.BudgetEdit,
		Locale:      state.Settings.Locale,
		Query:       state.Query,
		Today:       string(core.Today()),
		Degraded:    s.app.Degraded(),
		Toasts:      s.app.Toasts(),
	}

	if state.BudgetEdit && state.Stats.Budget.Cents > 0 {
		v.BudgetInput = state.Stats.Budget.Decimal()
	}
	v.Stats = statsView{
		Budget:     fmtr.Format(state.Stats.Budget),
		Spent:      fmtr.Format(state.Stats.Spent),
		Remaining:  fmtr.Format(state.Stats.Remaining),
		OverBudget: state.Stats.OverBudget,
	}

	v.Expenses = make([]expenseRow, 0, len(state.View.Items))
	for _, e := range state.View.Items {
		v.Expenses = append(v.Expenses, expenseRow{
			ID:       e.ID,
			Name:     e.Name,
			Category: string(e.Category),
			Date:     string(e.Date),
			Amount:   fmtr.Format(e.Amount),
			Raw:      e.Amount.Decimal(),
		})
	}
	v.HasExpenses = len(v.Expenses) > 0
	v.TotalExpenses = len(v.Expenses)

	v.Summary = make([]summaryRow, 0, len(state.Summary))
	for _, row := range state.Summary {
		v.Summary = append(v.Summary, summaryRow{
			Category: string(row.Category),
			Amount:   fmtr.Format(row.Amount),
		})
	}

	v.Categories = append(v.Categories, categoryOption{
		Name:     core.AllCategories,
		Selected: state.Category == core.AllCategories,
	})
	for _, c := range core.Categories() {
		v.Categories = append(v.Categories, categoryOption{
			Name:     string(c),
			Selected: state.Category == string(c),
		})
	}
	v.FormCats = core.Categories()
	v.AddForm = addFormData{FormCats: v.FormCats, Today: v.Today}

	for _, c := range core.Currencies() {
		v.Currencies = append(v.Currencies, currencyOption{
			Code:     string(c),
			Label:    c.Label(),
			Selected: c == state.Settings.Currency,
		})
	}

	if s.sessions != nil {
		if sess := s.sessions.Current(); sess != nil {
			v.Authenticated = true
			v.Email = sess.Email
		}
	}
	if !s.requiresAuth {
		v.Authenticated = true
	}

	if offer, err := s.app.MigrationOffer(r.Context()); err != nil {
		s.logger.WarnContext(r.Context(), "checking migration offer", log.FieldError, err)
	} else {
		v.MigrationOffer = offer
	}

	return v
}
