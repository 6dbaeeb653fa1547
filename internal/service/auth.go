package service

import (
	"context"
	"errors"
	"time"

	"github.com/Skotchmaster/techlab_admin/internal/models"
	"github.com/Skotchmaster/techlab_admin/pkg/apperr"
	"github.com/Skotchmaster/techlab_admin/pkg/hash"
	"github.com/Skotchmaster/techlab_admin/pkg/logging"
	"github.com/Skotchmaster/techlab_admin/pkg/tokens"
)

var ErrInvalidCredentials = apperr.Auth("invalid credentials", nil)

type AuthService struct {
	Users  UserStore
	Tokens *tokens.Issuer
}

type LoginResult struct {
	User        models.User
	AccessToken string
	ExpiresAt   time.Time
}

// ValidateCredentials returns (nil, nil) when the email is unknown, the user
// has no stored hash or the password does not match. Store failures come back
// as errors so callers can tell them apart from bad credentials.
func (s *AuthService) ValidateCredentials(ctx context.Context, email, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.validate_credentials")

	creds, err := s.Users.FindCredentials(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			l.Info("credentials_rejected", "reason", "unknown email")
			return nil, nil
		}
		l.Error("credentials_check_failed", "status", 500, "error", err)
		return nil, err
	}
	if creds.PasswordHash == "" || !hash.CheckPassword(creds.PasswordHash, password) {
		l.Info("credentials_rejected", "reason", "password mismatch", "user_id", creds.ID)
		return nil, nil
	}

	token, exp, err := s.Tokens.Issue(tokens.Identity{
		ID:    creds.ID,
		Email: creds.Email,
		Name:  creds.Name,
		Role:  creds.Role,
	})
	if err != nil {
		l.Error("credentials_check_failed", "status", 500, "reason", "cannot sign token", "error", err)
		return nil, apperr.Upstream("cannot issue token", err)
	}

	return &LoginResult{User: creds.User, AccessToken: token, ExpiresAt: exp}, nil
}

// Login is ValidateCredentials with the rejection turned into an auth error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	res, err := s.ValidateCredentials(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, ErrInvalidCredentials
	}
	return res, nil
}

func (s *AuthService) VerifyToken(token string) (*tokens.Claims, error) {
	return s.Tokens.Verify(token)
}
