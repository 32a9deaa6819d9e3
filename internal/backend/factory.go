// Package backend assembles the persistence stack for the configured
// DATA_BACKEND: local SQLite, the remote backend-as-a-service, or an
// in-memory fallback.
package backend

import (
	"fmt"

	"github.com/tanaytejush/Carbon-Purse/internal/config"
	"github.com/tanaytejush/Carbon-Purse/internal/log"
	"github.com/tanaytejush/Carbon-Purse/internal/store"
	"github.com/tanaytejush/Carbon-Purse/internal/store/local"
	"github.com/tanaytejush/Carbon-Purse/internal/store/memory"
	"github.com/tanaytejush/Carbon-Purse/internal/store/remote"
)

// Result is the assembled persistence stack.
type Result struct {
	// Data is the working-set store the controller writes through.
	Data store.DataStore

	// State keeps UI state (selected month, migration decisions). Always
	// local, even on the remote backend.
	State store.StateStore

	// Local is the migration source offered to signed-in users. Nil on
	// every backend but remote.
	Local store.DataStore

	// Sessions and Client are set only on the remote backend.
	Sessions *remote.SessionManager
	Client   *remote.Client

	// Degraded is set when the app fell back to the memory store and
	// nothing will persist across restarts.
	Degraded bool

	// RequiresAuth is set when commands must wait for a signed-in session.
	RequiresAuth bool

	Cleanup func() error
}

func noCleanup() error { return nil }

// Build assembles the stack for cfg.DataBackend. A remote selection with
// incomplete remote configuration degrades to the memory store rather
// than failing startup.
func Build(cfg *config.Config, logger *log.Logger) (*Result, error) {
	logger = logger.WithComponent(log.ComponentBackend)

	switch cfg.DataBackend {
	case config.BackendLocal:
		return buildLocal(cfg, logger)
	case config.BackendRemote:
		if !cfg.RemoteConfigured() {
			logger.Warn("remote backend selected but SUPABASE_URL or SUPABASE_ANON_KEY is missing, running degraded")
			return buildMemory(logger, true), nil
		}
		return buildRemote(cfg, logger)
	case config.BackendMemory:
		return buildMemory(logger, true), nil
	default:
		return nil, fmt.Errorf("unknown data backend %q", cfg.DataBackend)
	}
}

func buildLocal(cfg *config.Config, logger *log.Logger) (*Result, error) {
	db, err := local.Open(cfg.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}
	logger.Info("local backend ready", log.FieldBackend, config.BackendLocal, "db_path", cfg.SQLiteDBPath)
	return &Result{
		Data:    db,
		State:   db,
		Cleanup: db.Close,
	}, nil
}

func buildRemote(cfg *config.Config, logger *log.Logger) (*Result, error) {
	// The local database stays open on the remote backend: it keeps UI
	// state and serves as the source for the one-time data migration.
	db, err := local.Open(cfg.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}

	client := remote.NewClient(cfg.RemoteURL, cfg.RemoteAnonKey)
	sessions := remote.NewSessionManager(client)

	logger.Info("remote backend ready", log.FieldBackend, config.BackendRemote, "url", cfg.RemoteURL)
	return &Result{
		Data:         remote.NewStore(client, sessions),
		State:        db,
		Local:        db,
		Sessions:     sessions,
		Client:       client,
		RequiresAuth: true,
		Cleanup:      db.Close,
	}, nil
}

func buildMemory(logger *log.Logger, degraded bool) *Result {
	mem := memory.New()
	logger.Info("memory backend ready", log.FieldBackend, config.BackendMemory)
	return &Result{
		Data:     mem,
		State:    mem,
		Degraded: degraded,
		Cleanup:  noCleanup,
	}
}
