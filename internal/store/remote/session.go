package remote

import (
	"context"
	"fmt"
	"sync"
)

// SessionManager owns the current session: it hands out access tokens,
// transparently refreshing stale ones, and notifies subscribers whenever the
// session changes. Subscribers live for the lifetime of the application.
type SessionManager struct {
	client *Client

	mu      sync.Mutex
	session *Session
	subs    []func(*Session)
}

func NewSessionManager(client *Client) *SessionManager {
	return &SessionManager{client: client}
}

// Subscribe registers a session-change callback. Callbacks run synchronously
// under the manager's lock; keep them short.
func (m *SessionManager) Subscribe(fn func(*Session)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, fn)
}

// Set installs a new session (nil clears it) and notifies subscribers.
func (m *SessionManager) Set(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = s
	for _, fn := range m.subs {
		fn(s)
	}
}

// Current returns the session without refreshing it.
func (m *SessionManager) Current() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// AccessToken returns a usable bearer token, refreshing the session first
// when the access token is stale. A failed refresh clears the session: the
// user is signed out rather than left issuing doomed calls.
func (m *SessionManager) AccessToken(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == nil {
		return "", fmt.Errorf("no active session")
	}
	if !m.session.Stale() {
		return m.session.AccessToken, nil
	}

	fresh, err := m.client.Refresh(ctx, m.session.RefreshToken)
	if err != nil {
		m.session = nil
		for _, fn := range m.subs {
			fn(nil)
		}
		return "", fmt.Errorf("session expired: %w", err)
	}
	m.session = fresh
	for _, fn := range m.subs {
		fn(fresh)
	}
	return fresh.AccessToken, nil
}
