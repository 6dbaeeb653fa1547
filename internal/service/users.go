package service

import (
	"context"
	"errors"

	"github.com/Skotchmaster/techlab_admin/internal/events"
	"github.com/Skotchmaster/techlab_admin/internal/models"
	"github.com/Skotchmaster/techlab_admin/pkg/apperr"
	"github.com/Skotchmaster/techlab_admin/pkg/hash"
	"github.com/Skotchmaster/techlab_admin/pkg/logging"
)

var ErrEmailTaken = apperr.Conflict("user with this email already exists")

type UserService struct {
	Store  UserStore
	Events events.Publisher
}

type CreateUserInput struct {
	Email    string
	Password string
	Name     string
	Role     string
}

func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "users.create")

	taken, err := s.Store.EmailTaken(ctx, in.Email)
	if err != nil {
		l.Error("create_user_failed", "status", 500, "reason", "email lookup failed", "error", err)
		return nil, err
	}
	if taken {
		l.Warn("create_user_failed", "status", 409, "reason", "email already registered")
		return nil, ErrEmailTaken
	}

	pwHash, err := hash.HashPassword(in.Password)
	if err != nil {
		l.Error("create_user_failed", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, apperr.Upstream("cannot hash password", err)
	}

	role := in.Role
	if role == "" {
		role = models.RoleUser
	}

	u, err := s.Store.CreateUser(ctx, models.NewUser{
		Email:        in.Email,
		PasswordHash: pwHash,
		Name:         in.Name,
		Role:         role,
	})
	if err != nil {
		// lost the race against a concurrent registration
		if errors.Is(err, apperr.ErrConflict) {
			l.Warn("create_user_failed", "status", 409, "reason", "unique index violation")
			return nil, ErrEmailTaken
		}
		l.Error("create_user_failed", "status", 500, "error", err)
		return nil, err
	}

	publish(ctx, s.Events, events.TopicUsers, u.ID, events.Event{
		Type: events.UserRegistered,
		ID:   u.ID,
		Data: map[string]any{"email": u.Email, "role": u.Role},
	})
	l.Info("create_user_success", "user_id", u.ID)
	return u, nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.Store.ListUsers(ctx)
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	return s.Store.GetUser(ctx, id)
}

func (s *UserService) Update(ctx context.Context, id string, patch models.UserPatch) (*models.User, error) {
	u, err := s.Store.UpdateUser(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Info("update_user_success", "svc", "users.update", "user_id", id)
	return u, nil
}
