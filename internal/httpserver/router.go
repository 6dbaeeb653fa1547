package httpserver

import (
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	middleware "github.com/Skotchmaster/techlab_admin/pkg/middleware/auth"
	loggingmw "github.com/Skotchmaster/techlab_admin/pkg/middleware/logging"
)

type Deps struct {
	AuthHandler    *AuthHTTP
	UserHandler    *UserHTTP
	ProductHandler *ProductHTTP
	HealthHandler  *HealthHTTP
	TokenAuth      *middleware.TokenAuth
}

type Options struct {
	Logger      *slog.Logger
	Development bool
	CORSOrigins []string
	// Dashboard is served for every non API path when set.
	Dashboard fs.FS
}

// New builds the echo instance with the middleware stack and all routes.
func New(opts Options, d *Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()
	e.HTTPErrorHandler = NewErrorHandler(opts.Development)

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization, "X-Requested-With"},
	}))
	e.Use(echomw.BodyLimit("1M"))

	if opts.Dashboard != nil {
		e.Use(echomw.StaticWithConfig(echomw.StaticConfig{
			Root:       ".",
			Index:      "index.html",
			HTML5:      true,
			Filesystem: http.FS(opts.Dashboard),
			Skipper:    isAPIPath,
		}))
	}

	Register(e, d)
	return e
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health", d.HealthHandler.Health)
	e.GET("/health/live", d.HealthHandler.Live)
	e.GET("/health/ready", d.HealthHandler.Ready)

	e.POST("/auth/login", d.AuthHandler.Login)

	api := e.Group("/api")

	products := api.Group("/products")
	products.GET("", d.ProductHandler.GetProducts)
	products.GET("/search", d.ProductHandler.SearchProducts)
	products.GET("/:id", d.ProductHandler.GetProduct)
	products.POST("/create", d.ProductHandler.CreateProduct, d.TokenAuth.RequireAdmin)
	products.PUT("/:id", d.ProductHandler.UpdateProduct, d.TokenAuth.RequireAdmin)
	products.DELETE("/:id", d.ProductHandler.DeleteProduct, d.TokenAuth.RequireAdmin)

	users := api.Group("/users")
	users.POST("", d.UserHandler.CreateUser)
	users.POST("/login", d.UserHandler.Login)
	users.GET("", d.UserHandler.GetUsers, d.TokenAuth.RequireAuth)
	users.GET("/:id", d.UserHandler.GetUser, d.TokenAuth.RequireAuth)
	users.PUT("/:id", d.UserHandler.UpdateUser, d.TokenAuth.RequireAuth)
}

// isAPIPath keeps unknown API routes as JSON 404s instead of falling back to
// the dashboard.
func isAPIPath(c echo.Context) bool {
	p := c.Request().URL.Path
	for _, prefix := range []string{"/api", "/auth", "/health"} {
		if p == prefix || strings.HasPrefix(p, prefix+"/") {
			return true
		}
	}
	return false
}
