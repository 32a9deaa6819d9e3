package http

import (
	"net/http"

	"github.com/tanaytejush/Carbon-Purse/internal/log"
)

func (s *Server) handleMigrationAccept(w http.ResponseWriter, r *http.Request) {
	if err := s.app.AcceptMigration(r.Context()); err != nil {
		s.logger.ErrorContext(r.Context(), "migration failed", log.FieldError, err)
		NewHTMXResponse().
			Status(http.StatusInternalServerError).
			TriggerNotification(NotificationError, "Migration failed, your local data is untouched").
			Write(w)
		return
	}
	s.partials.Flush()
	s.app.Notify(string(NotificationSuccess), "Local data moved to your account")
	s.renderAppSection(w, r)
}

func (s *Server) handleMigrationDecline(w http.ResponseWriter, r *http.Request) {
	if err := s.app.DeclineMigration(r.Context()); err != nil {
		s.logger.ErrorContext(r.Context(), "declining migration", log.FieldError, err)
		InternalServerError("Could not record the choice").Write(w)
		return
	}
	s.renderAppSection(w, r)
}
