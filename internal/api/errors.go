package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/hbomb79/Reel/internal/fault"
	"github.com/hbomb79/Reel/pkg/logger"
	"github.com/labstack/echo/v4"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

// StatusForKind maps a fault kind to the HTTP status it is reported with.
func StatusForKind(kind fault.Kind) int {
	switch kind {
	case fault.InvalidURL:
		return http.StatusBadRequest
	case fault.RateLimited:
		return http.StatusTooManyRequests
	case fault.Unavailable:
		return http.StatusUnprocessableEntity
	case fault.NotFound:
		return http.StatusNotFound
	case fault.DownloadIncomplete:
		return http.StatusInternalServerError
	}

	return http.StatusBadGateway
}

// handleError renders errors returned by handlers and middleware. Classified
// faults map to their status; echo HTTP errors keep theirs.
func handleError(err error, ec echo.Context) {
	if ec.Response().Committed {
		return
	}

	status, body := describeError(err)
	if status >= http.StatusInternalServerError {
		log.Emit(logger.ERROR, "%s %s failed (%d): %v\n", ec.Request().Method, ec.Request().URL.Path, status, err)
	} else {
		log.Emit(logger.DEBUG, "%s %s rejected (%d): %v\n", ec.Request().Method, ec.Request().URL.Path, status, err)
	}

	if ec.Request().Method == http.MethodHead {
		err = ec.NoContent(status)
	} else {
		err = ec.JSON(status, body)
	}
	if err != nil {
		log.Emit(logger.WARNING, "Failed to write error response: %v\n", err)
	}
}

func describeError(err error) (int, ErrorResponse) {
	var classified *fault.Error
	if errors.As(err, &classified) {
		body := ErrorResponse{Error: classified.Message, Code: classified.Kind.String()}
		if classified.Err != nil {
			body.Details = classified.Err.Error()
		}

		return StatusForKind(classified.Kind), body
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		body := ErrorResponse{Error: fmt.Sprint(httpErr.Message), Code: statusCode(httpErr.Code)}
		if httpErr.Internal != nil {
			body.Details = httpErr.Internal.Error()
		}

		return httpErr.Code, body
	}

	return http.StatusInternalServerError, ErrorResponse{Error: err.Error(), Code: statusCode(http.StatusInternalServerError)}
}

// statusCode renders an HTTP status as an upper snake case code, e.g.
// BAD_REQUEST.
func statusCode(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return fmt.Sprintf("HTTP_%d", status)
	}

	return strings.ToUpper(strings.ReplaceAll(text, " ", "_"))
}
