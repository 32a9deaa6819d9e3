package http

import (
	"net/http"
	"strings"

	"github.com/tanaytejush/Carbon-Purse/internal/log"
	"github.com/tanaytejush/Carbon-Purse/internal/store/remote"
)

// setSessionCookie stores the refresh token so a restarted server can
// re-establish the session without another password prompt.
func (s *Server) setSessionCookie(w http.ResponseWriter, r *http.Request, refreshToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    refreshToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   30 * 24 * 60 * 60,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// currentSession returns the live session, reviving it from the cookie's
// refresh token when the server restarted since sign-in.
func (s *Server) currentSession(w http.ResponseWriter, r *http.Request) *remote.Session {
	if s.sessions == nil {
		return nil
	}
	if sess := s.sessions.Current(); sess != nil {
		return sess
	}

	cookie, err := r.Cookie(s.cookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	sess, err := s.client.Refresh(r.Context(), cookie.Value)
	if err != nil {
		s.logger.WarnContext(r.Context(), "session revival failed", log.FieldError, err)
		s.clearSessionCookie(w)
		return nil
	}
	s.sessions.Set(sess)
	s.setSessionCookie(w, r, sess.RefreshToken)

	if err := s.app.Load(r.Context(), sess.UserID); err != nil {
		s.logger.ErrorContext(r.Context(), "reloading working set", log.FieldError, err)
	}
	return sess
}

// requireSession gates working-set routes behind authentication on the
// remote backend. Local and memory backends have no accounts to protect.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.requiresAuth {
			next.ServeHTTP(w, r)
			return
		}
		if s.currentSession(w, r) == nil {
			if isHTMX(r) {
				w.Header().Set("HX-Redirect", "/")
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func isHTMX(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("HX-Request"), "true")
}
