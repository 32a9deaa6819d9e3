package http

import (
	"net/http"
	"strings"

	"github.com/tanaytejush/Carbon-Purse/internal/log"
)

type authPageData struct {
	Error  string
	Notice string
	Email  string
}

func (s *Server) renderAuthPage(w http.ResponseWriter, data authPageData) {
	if err := s.templates.ExecuteTemplate(w, "auth.html", data); err != nil {
		s.logger.Error("rendering auth page", log.FieldError, err)
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	if s.sessions == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.renderAuthPage(w, authPageData{Error: "Invalid form submission"})
		return
	}
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	if email == "" || password == "" {
		s.renderAuthPage(w, authPageData{Error: "Email and password are required", Email: email})
		return
	}

	sess, err := s.client.SignIn(r.Context(), email, password)
	if err != nil {
		s.logger.WarnContext(r.Context(), "sign-in failed", log.FieldError, err)
		s.renderAuthPage(w, authPageData{Error: "Invalid email or password", Email: email})
		return
	}

	s.sessions.Set(sess)
	s.setSessionCookie(w, r, sess.RefreshToken)
	s.partials.Flush()

	if err := s.app.Load(r.Context(), sess.UserID); err != nil {
		s.logger.ErrorContext(r.Context(), "loading working set after sign-in", log.FieldError, err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	if s.sessions == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.renderAuthPage(w, authPageData{Error: "Invalid form submission"})
		return
	}
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	if email == "" || len(password) < 6 {
		s.renderAuthPage(w, authPageData{
			Error: "Email and a password of at least 6 characters are required",
			Email: email,
		})
		return
	}

	sess, err := s.client.SignUp(r.Context(), email, password)
	if err != nil {
		s.logger.WarnContext(r.Context(), "sign-up failed", log.FieldError, err)
		s.renderAuthPage(w, authPageData{Error: "Could not create the account", Email: email})
		return
	}
	// Projects with email confirmation enabled return no session yet.
	if sess == nil {
		s.renderAuthPage(w, authPageData{
			Notice: "Check your inbox to confirm the account, then sign in",
			Email:  email,
		})
		return
	}

	s.sessions.Set(sess)
	s.setSessionCookie(w, r, sess.RefreshToken)
	s.partials.Flush()

	if err := s.app.Load(r.Context(), sess.UserID); err != nil {
		s.logger.ErrorContext(r.Context(), "loading working set after sign-up", log.FieldError, err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if s.sessions != nil {
		if sess := s.sessions.Current(); sess != nil {
			if err := s.client.SignOut(r.Context(), sess); err != nil {
				s.logger.WarnContext(r.Context(), "remote sign-out failed", log.FieldError, err)
			}
		}
		// Clearing the session also unloads the working set via the
		// session subscription.
		s.sessions.Set(nil)
	}
	s.clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
