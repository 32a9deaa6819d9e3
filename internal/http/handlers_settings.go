package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/tanaytejush/Carbon-Purse/internal/core"
	"github.com/tanaytejush/Carbon-Purse/internal/log"
)

func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		BadRequestError("Invalid form submission").Write(w)
		return
	}
	month := core.MonthKey(strings.TrimSpace(r.FormValue("month")))
	if month == "" {
		month = s.app.Month()
	}

	if err := s.app.SetBudget(r.Context(), month, r.FormValue("amount")); err != nil {
		if errors.Is(err, core.ErrInvalidMonth) {
			s.logger.WarnContext(r.Context(), "setting budget", log.FieldMonth, string(month), log.FieldError, err)
			BadRequestError("The budget for all months is computed, pick a month").Write(w)
			return
		}
		s.logger.ErrorContext(r.Context(), "saving budget", log.FieldMonth, string(month), log.FieldError, err)
		NewHTMXResponse().
			Status(http.StatusInternalServerError).
			TriggerNotification(NotificationError, "Could not save the budget").
			Write(w)
		return
	}
	s.renderAppSection(w, r)
}

func (s *Server) handleSetSettings(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		BadRequestError("Invalid form submission").Write(w)
		return
	}
	locale := strings.TrimSpace(r.FormValue("locale"))
	cur := core.Currency(strings.TrimSpace(r.FormValue("currency")))

	if err := s.app.SetSettings(r.Context(), locale, cur); err != nil {
		s.logger.ErrorContext(r.Context(), "saving settings", log.FieldError, err)
		NewHTMXResponse().
			Status(http.StatusInternalServerError).
			TriggerNotification(NotificationError, "Could not save settings").
			Write(w)
		return
	}
	s.renderAppSection(w, r)
}
