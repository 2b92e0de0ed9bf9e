package usecases

import (
	"context"
	"log/slog"

	"github.com/fireflight/fireflight/internal/core/domain"
	"github.com/fireflight/fireflight/internal/core/ports"
	"github.com/fireflight/fireflight/internal/pkg/metrics"
)

// AuthService handles sign-in and sign-out.
type AuthService struct {
	session ports.SessionClient
}

// NewAuthService creates a new AuthService.
func NewAuthService(session ports.SessionClient) *AuthService {
	return &AuthService{session: session}
}

// Login signs in with creds.
func (s *AuthService) Login(ctx context.Context, creds domain.Credentials) (*domain.User, error) {
	if err := validateCredentials("login", creds); err != nil {
		return nil, err
	}
	user, err := s.session.Login(ctx, creds)
	record("login", creds.Username, err)
	return user, err
}

// Register creates an account and signs in.
func (s *AuthService) Register(ctx context.Context, creds domain.Credentials) (*domain.User, error) {
	if err := validateCredentials("register", creds); err != nil {
		return nil, err
	}
	user, err := s.session.Register(ctx, creds)
	record("register", creds.Username, err)
	return user, err
}

// Logout drops the session.
func (s *AuthService) Logout(ctx context.Context) error {
	err := s.session.Logout(ctx)
	record("logout", "", err)
	return err
}

// Session returns the signed-in user's profile.
func (s *AuthService) Session(ctx context.Context) (*domain.User, error) {
	if !s.session.IsAuthenticated() {
		return nil, &domain.Error{Kind: domain.KindNotAuthenticated, Op: "session", Message: "not signed in"}
	}
	return s.session.Self(ctx)
}

// IsAuthenticated reports whether a session is held.
func (s *AuthService) IsAuthenticated() bool {
	return s.session.IsAuthenticated()
}

func validateCredentials(op string, creds domain.Credentials) error {
	if creds.Username == "" || creds.Password == "" {
		return &domain.Error{Kind: domain.KindInvalidInput, Op: op, Message: "username and password are required"}
	}
	return nil
}

func record(op, username string, err error) {
	if err != nil {
		metrics.AuthEvents.WithLabelValues(op, "failure").Inc()
		slog.Warn(op+" failed", "username", username, "kind", domain.KindOf(err), "error", err)
		return
	}
	metrics.AuthEvents.WithLabelValues(op, "success").Inc()
	slog.Info(op+" succeeded", "username", username)
}
