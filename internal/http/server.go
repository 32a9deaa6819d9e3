// Package http serves the expense tracker UI: server-rendered pages with
// htmx-driven partial updates.
package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tanaytejush/Carbon-Purse/internal/app"
	"github.com/tanaytejush/Carbon-Purse/internal/backend"
	"github.com/tanaytejush/Carbon-Purse/internal/cache"
	"github.com/tanaytejush/Carbon-Purse/internal/config"
	"github.com/tanaytejush/Carbon-Purse/internal/log"
	"github.com/tanaytejush/Carbon-Purse/internal/middleware/ratelimit"
	"github.com/tanaytejush/Carbon-Purse/internal/middleware/security"
	"github.com/tanaytejush/Carbon-Purse/internal/middleware/trace"
	"github.com/tanaytejush/Carbon-Purse/internal/store/remote"
	appweb "github.com/tanaytejush/Carbon-Purse/web"
)

type Server struct {
	http.Server

	app          *app.App
	sessions     *remote.SessionManager
	client       *remote.Client
	requiresAuth bool
	degraded     bool
	cookieName   string

	templates *template.Template
	partials  *cache.LRUCache[string]
	cacheMgr  *cache.Manager
	limiter   *ratelimit.Limiter
	logger    *log.Logger

	shutdownOnce sync.Once
}

// NewServer wires routes, templates and middleware into a ready-to-run
// server.
func NewServer(cfg *config.Config, be *backend.Result, application *app.App, logger *log.Logger) (*Server, error) {
	s := &Server{
		app:          application,
		sessions:     be.Sessions,
		client:       be.Client,
		requiresAuth: be.RequiresAuth,
		degraded:     be.Degraded,
		cookieName:   cfg.SessionCookieName,
		partials:     cache.NewLRUCache[string](100, 5*time.Minute),
		cacheMgr:     cache.NewManager(),
		limiter:      ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		logger:       logger.WithComponent(log.ComponentHTTP),
	}
	s.cacheMgr.Register(s.partials)
	s.cacheMgr.StartCleanup(10 * time.Minute)

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	s.templates = t

	// A dying session must not leave a stale working set behind.
	if s.sessions != nil {
		s.sessions.Subscribe(func(sess *remote.Session) {
			if sess == nil {
				s.app.Unload()
				s.partials.Flush()
			}
		})
	}

	s.Server = http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(trace.Middleware(s.logger))
	r.Use(security.Headers(security.DefaultHeadersConfig()))
	r.Use(s.limiter.Middleware(trace.ClientIP))

	r.Get("/healthz", handleHealth)
	r.Get("/readyz", handleReady)

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		r.Get("/static/*", func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, req)
		})
	}

	r.Get("/", s.handleIndex)

	r.Post("/auth/sign-in", s.handleSignIn)
	r.Post("/auth/sign-up", s.handleSignUp)
	r.Post("/auth/sign-out", s.handleSignOut)

	// Everything below operates on the working set.
	r.Group(func(r chi.Router) {
		r.Use(s.requireSession)

		r.Post("/expenses", s.handleAddExpense)
		r.Get("/expenses/{id}/edit", s.handleEditExpense)
		r.Post("/expenses/{id}", s.handleUpdateExpense)
		r.Delete("/expenses/{id}", s.handleDeleteExpense)

		r.Post("/budget", s.handleSetBudget)
		r.Post("/settings", s.handleSetSettings)
		r.Post("/month", s.handleSetMonth)
		r.Post("/month/prev", s.handleMonthShift(-1))
		r.Post("/month/next", s.handleMonthShift(1))
		r.Post("/filter", s.handleFilter)

		r.Get("/ui/app", s.handleAppPartial)
		r.Get("/ui/summary", s.handleSummaryPartial)

		r.Get("/export.json", s.handleExportJSON)
		r.Get("/export.csv", s.handleExportCSV)
		r.Post("/import", s.handleImport)
		r.Post("/reset", s.handleReset)

		r.Post("/migration/accept", s.handleMigrationAccept)
		r.Post("/migration/decline", s.handleMigrationDecline)
	})

	return r
}

// Shutdown stops background cleanup and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheMgr.Stop()
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
