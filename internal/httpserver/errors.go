package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/techlab_admin/pkg/apperr"
)

const redactedMessage = "something went wrong on the server"

// NewErrorHandler renders every error returned by a handler or middleware as
// an Envelope. Outside development, server side failures are reported without
// their cause.
func NewErrorHandler(dev bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := renderError(err, dev)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, body)
	}
}

func renderError(err error, dev bool) (int, Envelope) {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		status := apperr.Status(ae)
		msg := ae.Message
		if errors.Is(ae, apperr.ErrUpstream) {
			msg = redact(ae.Error(), dev)
		}
		return status, Envelope{Error: apperr.Title(ae.Kind), Message: msg}
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := fmt.Sprint(he.Message)
		if he.Code >= http.StatusInternalServerError {
			msg = redact(err.Error(), dev)
		}
		return he.Code, Envelope{Error: strings.ToLower(http.StatusText(he.Code)), Message: msg}
	}

	return http.StatusInternalServerError, Envelope{
		Error:   apperr.Title(apperr.KindUpstream),
		Message: redact(err.Error(), dev),
	}
}

func redact(msg string, dev bool) string {
	if dev {
		return msg
	}
	return redactedMessage
}
