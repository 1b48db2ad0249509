package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"learnquest-service/internal/domain"
)

// AuthService implements name-based login. Accounts are upserted on first
// login; sessions are opaque server-side tokens resolved by the middleware.
// The server never trusts client-supplied identity or balances.
type AuthService struct {
	users    UserStore
	sessions SessionStore
	now      func() time.Time
}

func NewAuthService(users UserStore, sessions SessionStore) *AuthService {
	return &AuthService{users: users, sessions: sessions, now: time.Now}
}

// Login upserts the user by display name and issues a session token.
func (s *AuthService) Login(ctx context.Context, name string) (string, domain.User, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 255 {
		return "", domain.User{}, fmt.Errorf("%w: name must be 1-255 characters", domain.ErrInvalidAnswers)
	}
	user, err := s.users.UpsertByName(ctx, name)
	if err != nil {
		return "", domain.User{}, err
	}

	token := uuid.NewString()
	session := domain.Session{
		Token:     token,
		UserID:    user.ID,
		Role:      user.Role,
		CreatedAt: s.now(),
	}
	if err := s.sessions.Put(ctx, session); err != nil {
		return "", domain.User{}, err
	}
	return token, user, nil
}

// Authenticate resolves a bearer token into a trusted session.
func (s *AuthService) Authenticate(ctx context.Context, token string) (domain.Session, error) {
	if token == "" {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	session, ok, err := s.sessions.Get(ctx, token)
	if err != nil {
		return domain.Session{}, err
	}
	if !ok {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	return session, nil
}

// Logout drops the session. Unknown tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// Me returns the account behind an authenticated session.
func (s *AuthService) Me(ctx context.Context, userID int64) (domain.User, error) {
	return s.users.Get(ctx, userID)
}
