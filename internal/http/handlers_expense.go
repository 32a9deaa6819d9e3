package http

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tanaytejush/Carbon-Purse/internal/app"
	"github.com/tanaytejush/Carbon-Purse/internal/core"
	"github.com/tanaytejush/Carbon-Purse/internal/log"
	"github.com/tanaytejush/Carbon-Purse/internal/store"
)

// addFormData re-renders the add form with the submitted values and
// field-level errors so nothing the user typed is lost.
type addFormData struct {
	Values   app.ExpenseInput
	Errors   app.FieldErrors
	FormCats []core.Category
	Today    string
}

func expenseInput(r *http.Request) app.ExpenseInput {
	return app.ExpenseInput{
		Name:     r.FormValue("name"),
		Amount:   r.FormValue("amount"),
		Category: r.FormValue("category"),
		Date:     r.FormValue("date"),
	}
}

func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		BadRequestError("Invalid form submission").Write(w)
		return
	}
	in := expenseInput(r)

	_, fieldErrs, err := s.app.AddExpense(r.Context(), in)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "adding expense", log.FieldError, err)
		NewHTMXResponse().
			Status(http.StatusInternalServerError).
			TriggerNotification(NotificationError, "Could not save the expense").
			Write(w)
		return
	}
	if fieldErrs != nil {
		var buf bytes.Buffer
		data := addFormData{
			Values:   in,
			Errors:   fieldErrs,
			FormCats: core.Categories(),
			Today:    string(core.Today()),
		}
		if err := s.templates.ExecuteTemplate(&buf, "add-form", data); err != nil {
			s.logger.ErrorContext(r.Context(), "rendering add form", log.FieldError, err)
			InternalServerError("Could not render the form").Write(w)
			return
		}
		NewHTMXResponse().
			Status(http.StatusUnprocessableEntity).
			BodyHTML(buf.String()).
			Write(w)
		return
	}

	var buf bytes.Buffer
	data := addFormData{FormCats: core.Categories(), Today: string(core.Today())}
	if err := s.templates.ExecuteTemplate(&buf, "add-form", data); err != nil {
		s.logger.ErrorContext(r.Context(), "rendering add form", log.FieldError, err)
	}
	NewHTMXResponse().
		TriggerAppRefresh().
		TriggerFormReset().
		TriggerNotification(NotificationSuccess, "Expense added").
		BodyHTML(buf.String()).
		Write(w)
}

// handleEditExpense serves the inline edit row for one expense.
func (s *Server) handleEditExpense(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	expense, ok := s.app.Expense(id)
	if !ok {
		NotFoundError("Expense not found").Write(w)
		return
	}

	data := addFormData{
		Values: app.ExpenseInput{
			Name:     expense.Name,
			Amount:   expense.Amount.Decimal(),
			Category: string(expense.Category),
			Date:     string(expense.Date),
		},
		FormCats: core.Categories(),
	}
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "edit-row", struct {
		ID string
		addFormData
	}{ID: id, addFormData: data}); err != nil {
		s.logger.ErrorContext(r.Context(), "rendering edit row", log.FieldError, err)
		InternalServerError("Could not render the editor").Write(w)
		return
	}
	NewHTMXResponse().BodyHTML(buf.String()).Write(w)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		BadRequestError("Invalid form submission").Write(w)
		return
	}
	id := chi.URLParam(r, "id")

	fieldErrs, err := s.app.UpdateExpense(r.Context(), id, expenseInput(r))
	if errors.Is(err, store.ErrNotFound) {
		NotFoundError("Expense not found").Write(w)
		return
	}
	if err != nil {
		s.logger.ErrorContext(r.Context(), "updating expense", log.FieldExpenseID, id, log.FieldError, err)
		NewHTMXResponse().
			Status(http.StatusInternalServerError).
			TriggerNotification(NotificationError, "Could not save the change").
			Write(w)
		return
	}
	if fieldErrs != nil {
		// Invalid edits change nothing; the client keeps the editor open.
		NewHTMXResponse().
			Status(http.StatusUnprocessableEntity).
			TriggerNotification(NotificationError, "Invalid values, nothing saved").
			Write(w)
		return
	}
	s.renderAppSection(w, r)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := s.app.DeleteExpense(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		NotFoundError("Expense not found").Write(w)
		return
	}
	if err != nil {
		s.logger.ErrorContext(r.Context(), "deleting expense", log.FieldExpenseID, id, log.FieldError, err)
		NewHTMXResponse().
			Status(http.StatusInternalServerError).
			TriggerNotification(NotificationError, "Could not delete the expense").
			Write(w)
		return
	}
	s.renderAppSection(w, r)
}
