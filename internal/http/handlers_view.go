package http

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/tanaytejush/Carbon-Purse/internal/core"
	"github.com/tanaytejush/Carbon-Purse/internal/log"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		NotFoundError("Page not found").Write(w)
		return
	}
	if s.requiresAuth && s.currentSession(w, r) == nil {
		s.renderAuthPage(w, authPageData{})
		return
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", s.buildView(r)); err != nil {
		s.logger.ErrorContext(r.Context(), "rendering index", log.FieldError, err)
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

// handleAppPartial re-renders the whole app section. It is the htmx
// target every mutation triggers a refresh of.
func (s *Server) handleAppPartial(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "app", s.buildView(r)); err != nil {
		s.logger.ErrorContext(r.Context(), "rendering app partial", log.FieldError, err)
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

// handleSummaryPartial serves the category summary card. Renders are
// cached keyed on the working-set version and filter state; any write
// bumps the version, so a stale render can never be served.
func (s *Server) handleSummaryPartial(w http.ResponseWriter, r *http.Request) {
	state := s.app.Current()
	key := fmt.Sprintf("summary:%d:%s:%s:%s", s.app.Version(), state.Month, state.Category, state.Query)

	if html, ok := s.partials.Get(key); ok {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(html))
		return
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "summary", s.buildView(r)); err != nil {
		s.logger.ErrorContext(r.Context(), "rendering summary partial", log.FieldError, err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	s.partials.Set(key, buf.String())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleSetMonth(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		BadRequestError("Invalid form submission").Write(w)
		return
	}
	month := core.MonthKey(strings.TrimSpace(r.FormValue("month")))
	if err := s.app.SetMonth(r.Context(), month); err != nil {
		BadRequestError("Unknown month").Write(w)
		return
	}
	s.renderAppSection(w, r)
}

func (s *Server) handleMonthShift(delta int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.app.ShiftMonth(r.Context(), delta); err != nil {
			InternalServerError("Could not change month").Write(w)
			return
		}
		s.renderAppSection(w, r)
	}
}

func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		BadRequestError("Invalid form submission").Write(w)
		return
	}
	if values, ok := r.Form["category"]; ok && len(values) > 0 {
		s.app.SetCategory(values[0])
	}
	if values, ok := r.Form["q"]; ok && len(values) > 0 {
		s.app.SetQuery(strings.TrimSpace(values[0]))
	}
	s.renderAppSection(w, r)
}

// renderAppSection writes the refreshed app partial as the response body,
// so the mutating request and the re-render are one round trip.
func (s *Server) renderAppSection(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "app", s.buildView(r)); err != nil {
		s.logger.ErrorContext(r.Context(), "rendering app partial", log.FieldError, err)
		InternalServerError("Could not render the page").Write(w)
		return
	}
	NewHTMXResponse().BodyHTML(buf.String()).Write(w)
}
