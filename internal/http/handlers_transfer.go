package http

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tanaytejush/Carbon-Purse/internal/app"
	"github.com/tanaytejush/Carbon-Purse/internal/log"
)

const maxArchiveSize = 10 << 20 // 10 MiB

func (s *Server) handleExportJSON(w http.ResponseWriter, r *http.Request) {
	data, filename, err := s.app.ExportJSON(time.Now().UTC())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "exporting archive", log.FieldError, err)
		InternalServerError("Could not build the export").Write(w)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	_, _ = w.Write(data)
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	filename, err := s.app.ExportCSV(&buf)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "exporting csv", log.FieldError, err)
		InternalServerError("Could not build the export").Write(w)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxArchiveSize)
	if err := r.ParseMultipartForm(maxArchiveSize); err != nil {
		BadRequestError("Upload a JSON archive file").Write(w)
		return
	}
	file, _, err := r.FormFile("archive")
	if err != nil {
		BadRequestError("Upload a JSON archive file").Write(w)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		BadRequestError("Could not read the uploaded file").Write(w)
		return
	}

	skipped, err := s.app.ImportArchive(r.Context(), data)
	if err != nil {
		if errors.Is(err, app.ErrInvalidArchive) {
			s.logger.WarnContext(r.Context(), "import rejected", log.FieldError, err)
			NewHTMXResponse().
				Status(http.StatusUnprocessableEntity).
				TriggerNotification(NotificationError, "The file is not a valid archive, nothing was changed").
				Write(w)
			return
		}
		s.logger.ErrorContext(r.Context(), "import failed", log.FieldError, err)
		s.partials.Flush()
		NewHTMXResponse().
			Status(http.StatusInternalServerError).
			TriggerNotification(NotificationError, "Import failed while writing, your data may be incomplete").
			TriggerAppRefresh().
			Write(w)
		return
	}
	s.partials.Flush()

	message := "Data imported"
	if skipped > 0 {
		message = fmt.Sprintf("Data imported, %d invalid entries skipped", skipped)
	}
	s.app.Notify(string(NotificationSuccess), message)
	s.renderAppSection(w, r)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.app.Reset(r.Context()); err != nil {
		s.logger.ErrorContext(r.Context(), "resetting data", log.FieldError, err)
		NewHTMXResponse().
			Status(http.StatusInternalServerError).
			TriggerNotification(NotificationError, "Could not delete the data").
			Write(w)
		return
	}
	s.partials.Flush()
	s.app.Notify(string(NotificationSuccess), "All expenses and budgets deleted")
	s.renderAppSection(w, r)
}
