package errcodes

import (
	"net/http"

	"github.com/iancoleman/strcase"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/errutils"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// Handle is an Echo error handler that uses HTTP errors accordingly, and any
// generic error will be interpreted as an internal server error. Responses are
// plain text and never contain the underlying error.
func (h *Handler) Handle(err error, c echo.Context) {
	if errutils.IsIgnorableErr(err) {
		logger.FromEchoContext(c).Err(err).Warn("broken pipe")
		return
	}
	if c.Response().Committed {
		logger.FromEchoContext(c).Err(err).Error("error after response was committed")
		return
	}

	e := h.resolve(err)

	// Internal server errors
	if e.HTTPCode == http.StatusInternalServerError {
		logger.FromEchoContext(c).Err(err).Error("server error")
	}

	var respErr error
	if c.Request().Method == http.MethodHead {
		respErr = c.NoContent(e.HTTPCode)
	} else {
		respErr = c.String(e.HTTPCode, e.Message)
	}
	if respErr != nil {
		logger.FromEchoContext(c).Err(errors.WithStack(respErr)).Error("error handler write error")
	}
}

func (h *Handler) resolve(err error) *Error {
	// Custom errors
	var e *Error
	if ok := errors.As(err, &e); ok {
		return e
	}

	// Echo errors
	var he *echo.HTTPError
	if ok := errors.As(err, &he); ok && he.Code != http.StatusInternalServerError {
		msg := http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok && m != "" {
			msg = m
		}
		return &Error{
			HTTPCode: he.Code,
			Message:  msg,
			Code:     strcase.ToSnake(msg),
		}
	}

	// Everything else, render failures included, is reported without detail.
	return Internal().(*Error)
}
