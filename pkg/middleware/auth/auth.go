package middleware

import (
	"errors"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/techlab_admin/pkg/apperr"
	"github.com/Skotchmaster/techlab_admin/pkg/logging"
	"github.com/Skotchmaster/techlab_admin/pkg/tokens"
)

const ClaimsKey = "claims"

var (
	ErrTokenRequired = apperr.Auth("access token required: send a valid Bearer token in the Authorization header", nil)
	ErrAdminRequired = apperr.Permission("administrator privileges required for this action")
)

type Verifier interface {
	Verify(token string) (*tokens.Claims, error)
}

type ValidatorFunc func(claims *tokens.Claims) error

// TokenAuth guards routes with bearer access tokens. A request without a
// token gets 401, a request whose token fails verification gets 403.
type TokenAuth struct {
	verifier Verifier
}

func NewTokenAuth(v Verifier) *TokenAuth {
	return &TokenAuth{verifier: v}
}

func (m *TokenAuth) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireAuthWithValidator(next, nil)
}

func (m *TokenAuth) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireAuthWithValidator(next, func(claims *tokens.Claims) error {
		if !claims.IsAdmin() {
			return ErrAdminRequired
		}
		return nil
	})
}

func (m *TokenAuth) requireAuthWithValidator(next echo.HandlerFunc, validator ValidatorFunc) echo.HandlerFunc {
	checked := func(c echo.Context) error {
		claims := ClaimsFrom(c)
		if claims == nil {
			return ErrTokenRequired
		}
		setUserContext(c, claims)
		if validator != nil {
			if err := validator(claims); err != nil {
				logging.FromContext(c.Request().Context()).Warn("access_denied", "status", 403, "reason", err.Error())
				return err
			}
		}
		return next(c)
	}

	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  ClaimsKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":" + tokens.TokenType + " ",
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			return m.verifier.Verify(auth)
		},
		ErrorHandler: tokenError,
	})(checked)
}

// ClaimsFrom returns the claims of an authenticated request, or nil.
func ClaimsFrom(c echo.Context) *tokens.Claims {
	claims, _ := c.Get(ClaimsKey).(*tokens.Claims)
	return claims
}

func setUserContext(c echo.Context, claims *tokens.Claims) {
	req := c.Request()
	l := logging.FromContext(req.Context()).With("user_id", claims.UserID, "role", claims.Role)
	c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), l)))
}

func tokenError(c echo.Context, err error) error {
	l := logging.FromContext(c.Request().Context())

	var parseErr *echojwt.TokenParsingError
	if errors.As(err, &parseErr) {
		l.Warn("token_rejected", "status", 403, "error", parseErr.Err)
		return apperr.Permission(parseErr.Err.Error())
	}

	l.Info("token_missing", "status", 401)
	return ErrTokenRequired
}
