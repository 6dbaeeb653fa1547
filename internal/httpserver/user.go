package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/techlab_admin/internal/models"
	"github.com/Skotchmaster/techlab_admin/internal/service"
	"github.com/Skotchmaster/techlab_admin/internal/transport"
	"github.com/Skotchmaster/techlab_admin/pkg/apperr"
	"github.com/Skotchmaster/techlab_admin/pkg/logging"
)

type UserHTTP struct {
	Svc  *service.UserService
	Auth *AuthHTTP
}

func (h *UserHTTP) CreateUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.create_user")

	var req transport.CreateUserRequest
	if err := bind(c, &req); err != nil {
		l.Warn("create_user_failed", "status", 400, "reason", "invalid body", "error", err)
		return err
	}

	u, err := h.Svc.Create(ctx, service.CreateUserInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}

	return respond(c, http.StatusCreated, transport.UserCreatedResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}, "user created")
}

func (h *UserHTTP) Login(c echo.Context) error {
	var req transport.UserLoginRequest
	if err := bind(c, &req); err != nil {
		logging.FromContext(c.Request().Context()).Warn("login_failed", "handler", "user.login", "status", 400, "error", err)
		return err
	}
	return h.Auth.login(c, req.Email, req.Password)
}

func (h *UserHTTP) GetUsers(c echo.Context) error {
	users, err := h.Svc.List(c.Request().Context())
	if err != nil {
		return err
	}
	return respondList(c, http.StatusOK, users, "users fetched")
}

func (h *UserHTTP) GetUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	u, err := h.Svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, u, "user fetched")
}

func (h *UserHTTP) UpdateUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.update_user")

	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req transport.UpdateUserRequest
	if err := bind(c, &req); err != nil {
		l.Warn("update_user_failed", "status", 400, "reason", "invalid body", "error", err)
		return err
	}

	u, err := h.Svc.Update(ctx, id, models.UserPatch{
		Name:     req.Name,
		Role:     req.Role,
		IsActive: req.IsActive,
	})
	if err != nil {
		l.Warn("update_user_failed", "status", apperr.Status(err), "error", err)
		return err
	}
	return respond(c, http.StatusOK, u, "user updated")
}

func pathID(c echo.Context) (string, error) {
	id := c.Param("id")
	if id == "" {
		return "", apperr.Validation("id", "id is required")
	}
	return id, nil
}
