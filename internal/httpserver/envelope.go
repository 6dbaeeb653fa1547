package httpserver

import "github.com/labstack/echo/v4"

// Envelope is the body of every API response.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Count   *int   `json:"count,omitempty"`
}

func respond(c echo.Context, status int, data any, msg string) error {
	return c.JSON(status, Envelope{Success: true, Data: data, Message: msg})
}

func respondList[T any](c echo.Context, status int, items []T, msg string) error {
	if items == nil {
		items = []T{}
	}
	n := len(items)
	return c.JSON(status, Envelope{Success: true, Data: items, Message: msg, Count: &n})
}
