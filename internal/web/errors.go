package web

// errors.go provides unified error response handling for the web layer.
//
// Every error is:
//   - Logged with full technical detail and the request ID (server-side)
//   - Mapped to a coded user message via core.MapError
//   - Localized through the translation catalog
//   - Rendered as an HTMX partial or as JSON, depending on the request

import (
	"context"
	"errors"
	"net/http"

	"github.com/JonMunkholm/kbimport/internal/core"
	"github.com/JonMunkholm/kbimport/internal/logging"
	"github.com/JonMunkholm/kbimport/internal/web/views"
)

// ErrorResponse is the JSON body of every API error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// statusRules maps error kinds to HTTP statuses, first match wins. A
// deadline outranks the error of the step it interrupted.
var statusRules = []struct {
	target error
	status int
}{
	{context.DeadlineExceeded, http.StatusGatewayTimeout},
	{core.ErrSessionNotFound, http.StatusNotFound},
	{core.ErrInvalidTransition, http.StatusConflict},
	{core.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
	{core.ErrInvalidFormat, http.StatusUnsupportedMediaType},
	{core.ErrEmptyFile, http.StatusUnprocessableEntity},
	{core.ErrParse, http.StatusUnprocessableEntity},
	{core.ErrNoFile, http.StatusBadRequest},
	{core.ErrInvalidTenant, http.StatusBadRequest},
	{core.ErrDuplicateCheck, http.StatusBadGateway},
	{core.ErrTooManyImports, http.StatusServiceUnavailable},
}

// statusFor picks the HTTP status for an error returned by the service.
func statusFor(err error) int {
	for _, rule := range statusRules {
		if errors.Is(err, rule.target) {
			return rule.status
		}
	}
	return http.StatusInternalServerError
}

// fail responds with the status derived from err.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.respondError(w, r, err, statusFor(err))
}

// respondError logs the technical error and writes a localized user message.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	msg := s.catalog.UserMessage(langFromContext(r.Context()), core.MapError(err))

	logger := logging.FromContext(r.Context())
	attrs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", msg.Code,
	}
	if statusCode >= http.StatusInternalServerError {
		logger.Error("request error", attrs...)
	} else {
		logger.Warn("request error", attrs...)
	}

	if isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(statusCode)
		if err := views.ErrorAlert(msg).Render(r.Context(), w); err != nil {
			logger.Error("render error alert", "error", err)
		}
		return
	}

	writeJSON(w, statusCode, ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

// isHTMX checks if the request is an HTMX request.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
