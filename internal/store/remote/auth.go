package remote

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// Session is an authenticated user session. Access tokens expire; Refresh
// trades the refresh token for a fresh pair, which is how sessions survive
// reloads without re-entering credentials.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
}

// Stale reports whether the access token is expired or about to expire.
func (s *Session) Stale() bool {
	return time.Now().After(s.ExpiresAt.Add(-30 * time.Second))
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

func (t tokenResponse) session() *Session {
	return &Session{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(t.ExpiresIn) * time.Second),
		UserID:       t.User.ID,
		Email:        t.User.Email,
	}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp registers a new email+password account. Depending on project
// settings the response may or may not carry a usable session; callers
// should treat a nil session as "confirm via email, then sign in".
func (c *Client) SignUp(ctx context.Context, email, password string) (*Session, error) {
	var out tokenResponse
	err := c.do(ctx, "POST", "/auth/v1/signup", nil, nil, "", credentials{Email: email, Password: password}, &out)
	if err != nil {
		return nil, fmt.Errorf("sign up: %w", err)
	}
	if out.AccessToken == "" {
		return nil, nil
	}
	return out.session(), nil
}

// SignIn authenticates with the password grant.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	q := url.Values{"grant_type": {"password"}}
	var out tokenResponse
	err := c.do(ctx, "POST", "/auth/v1/token", q, nil, "", credentials{Email: email, Password: password}, &out)
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}
	return out.session(), nil
}

// Refresh exchanges the refresh token for a new session.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	q := url.Values{"grant_type": {"refresh_token"}}
	body := map[string]string{"refresh_token": refreshToken}
	var out tokenResponse
	if err := c.do(ctx, "POST", "/auth/v1/token", q, nil, "", body, &out); err != nil {
		return nil, fmt.Errorf("refresh session: %w", err)
	}
	return out.session(), nil
}

// SignOut revokes the session server-side. A failed revoke is not fatal;
// the caller drops the session either way.
func (c *Client) SignOut(ctx context.Context, s *Session) error {
	if s == nil {
		return nil
	}
	if err := c.do(ctx, "POST", "/auth/v1/logout", nil, nil, s.AccessToken, nil, nil); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}
