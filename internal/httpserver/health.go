package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/techlab_admin/pkg/logging"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHTTP struct {
	Store       Pinger
	Environment string
	Now         func() time.Time
}

type healthResponse struct {
	Success     bool   `json:"success"`
	Status      string `json:"status"`
	Message     string `json:"message,omitempty"`
	Timestamp   string `json:"timestamp,omitempty"`
	Environment string `json:"environment,omitempty"`
}

func (h *HealthHTTP) Health(c echo.Context) error {
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	return c.JSON(http.StatusOK, healthResponse{
		Success:     true,
		Status:      "OK",
		Message:     "TechLab Products API is running",
		Timestamp:   now().UTC().Format(time.RFC3339Nano),
		Environment: h.Environment,
	})
}

func (h *HealthHTTP) Live(c echo.Context) error {
	return c.JSON(http.StatusOK, healthResponse{Success: true, Status: "OK"})
}

func (h *HealthHTTP) Ready(c echo.Context) error {
	ctx := c.Request().Context()
	if h.Store != nil {
		if err := h.Store.Ping(ctx); err != nil {
			logging.FromContext(ctx).Error("readiness_failed", "status", 503, "error", err)
			return c.JSON(http.StatusServiceUnavailable, Envelope{Error: "service unavailable", Message: "store is not reachable"})
		}
	}
	return c.JSON(http.StatusOK, healthResponse{Success: true, Status: "OK"})
}
