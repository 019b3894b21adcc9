package auth

import (
	"context"
	"strings"

	app "github.com/Bhagya-2005/ai-study-mentor"
	"github.com/Bhagya-2005/ai-study-mentor/session"
)

// Service registers users and logs visitor sessions in and out.
type Service struct {
	users    app.UserStore
	sessions *session.Manager
}

// NewService creates a Service.
func NewService(users app.UserStore, sessions *session.Manager) *Service {
	return &Service{users: users, sessions: sessions}
}

// Register creates a user. It fails with app.ErrEmptyInput when a field is
// blank and with app.ErrDuplicateEmail when the email is taken.
func (s *Service) Register(ctx context.Context, email, password string) error {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return app.ErrEmptyInput
	}
	_, err := s.users.Create(ctx, email, password)
	return err
}

// Login checks the credentials and, on a match, marks the session as
// authenticated for the user. The session is left untouched on failure.
func (s *Service) Login(ctx context.Context, sessionID, email, password string) (int64, error) {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return 0, app.ErrEmptyInput
	}
	u, err := s.users.Authenticate(ctx, email, password)
	if err != nil {
		return 0, err
	}
	if err := s.sessions.Login(sessionID, u.ID); err != nil {
		return 0, err
	}
	return u.ID, nil
}

// Logout returns the session to the anonymous state.
func (s *Service) Logout(sessionID string) error {
	return s.sessions.Logout(sessionID)
}
