package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/techlab_admin/internal/service"
	"github.com/Skotchmaster/techlab_admin/internal/transport"
	"github.com/Skotchmaster/techlab_admin/pkg/logging"
	"github.com/Skotchmaster/techlab_admin/pkg/tokens"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := bind(c, &req); err != nil {
		l.Warn("login_failed", "status", 400, "reason", "invalid body", "error", err)
		return err
	}

	return h.login(c, req.Email, req.Password)
}

func (h *AuthHTTP) login(c echo.Context, email, password string) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	res, err := h.Svc.Login(ctx, email, password)
	if err != nil {
		l.Warn("login_failed", "error", err)
		return err
	}

	l.Info("login_success", "user_id", res.User.ID)
	return respond(c, http.StatusOK, transport.LoginResponse{
		User: transport.LoginUser{
			ID:    res.User.ID,
			Email: res.User.Email,
			Name:  res.User.Name,
			Role:  res.User.Role,
		},
		Token: transport.AccessToken{
			AccessToken: res.AccessToken,
			TokenType:   tokens.TokenType,
			ExpiresIn:   h.Svc.Tokens.ExpiresIn(),
		},
	}, "login successful")
}
