package handlers

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/hireloop"
	"github.com/dmitrymomot/hireloop/middlewares"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// ErrorHandler renders errors as {"error", "code", "requestId"}. Errors that
// are not HTTP errors become a 500 and are logged with their cause.
func ErrorHandler(c hireloop.Context, err error) error {
	resp := errorResponse{RequestID: middlewares.GetRequestID(c)}
	status := http.StatusInternalServerError

	if httpErr := hireloop.AsHTTPError(err); httpErr != nil {
		status = httpErr.Code
		resp.Error = httpErr.Message
		resp.Code = httpErr.ErrorCode
		if httpErr.RequestID != "" {
			resp.RequestID = httpErr.RequestID
		}
	} else {
		resp.Error = http.StatusText(status)
		resp.Code = "internal_error"
	}

	if status >= http.StatusInternalServerError {
		attrs := []any{slog.Any("error", err), slog.Int("status", status)}
		if pe, ok := middlewares.AsPanicError(err); ok && pe.Stack != nil {
			attrs = append(attrs, slog.String("stack", string(pe.Stack)))
		}
		c.LogError("request failed", attrs...)
	}

	return c.JSON(status, resp)
}

// NotFound is the JSON not-found handler.
func NotFound(c hireloop.Context) error {
	return hireloop.ErrNotFound("Not found", hireloop.WithErrorCode("not_found"))
}

// MethodNotAllowed is the JSON method-not-allowed handler.
func MethodNotAllowed(c hireloop.Context) error {
	return hireloop.NewHTTPError(http.StatusMethodNotAllowed, "", hireloop.WithErrorCode("method_not_allowed"))
}
