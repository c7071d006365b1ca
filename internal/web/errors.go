package web

// errors.go provides unified error response handling for the web layer.
//
// The error flow:
//  1. Handler encounters an error
//  2. Calls respondError(w, r, err, statusFor(err))
//  3. Error is mapped via core.MapError to get a user-friendly message
//  4. Technical error + context is logged with request ID for correlation
//  5. User message is rendered as JSON for API clients and HTMX-style
//     fragments, or as a flash + redirect for the browser form flow

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"github.com/JonMunkholm/dataclean/internal/core"
	"github.com/JonMunkholm/dataclean/internal/fileio"
	"github.com/JonMunkholm/dataclean/internal/logging"
	"github.com/JonMunkholm/dataclean/internal/session"
	"github.com/JonMunkholm/dataclean/internal/web/templates"
)

var (
	errNoFile           = errors.New("no file provided")
	errInvalidRequest   = errors.New("invalid request")
	errUnknownOperation = errors.New("unknown operation")
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// statusFor picks the HTTP status for err.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrWouldEmptyDataset),
		errors.Is(err, core.ErrUndefinedAggregate),
		errors.Is(err, core.ErrNonFiniteAggregate):
		return http.StatusConflict
	case errors.Is(err, core.ErrInvalidColumn),
		errors.Is(err, errInvalidRequest),
		errors.Is(err, errNoFile),
		errors.Is(err, fileio.ErrUnsupportedFormat):
		return http.StatusBadRequest
	case errors.Is(err, fileio.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, core.ErrUnreadableInput):
		return http.StatusUnprocessableEntity
	case errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, core.ErrNoDataset),
		errors.Is(err, errUnknownOperation):
		return http.StatusNotFound
	case errors.Is(err, fileio.ErrTooManyUploads), errors.Is(err, session.ErrTooManySessions):
		return http.StatusServiceUnavailable
	case errors.Is(err, errRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs the technical error server-side and writes the mapped
// user message in the format the client asked for.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := core.MapError(err)

	logger := logging.FromContext(r.Context())
	attrs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
	}
	if statusCode >= 500 {
		logger.Error("request error", attrs...)
	} else {
		logger.Warn("request error", attrs...)
	}

	switch {
	case isHTMX(r):
		renderErrorPartial(w, r, userMsg, statusCode)
	case wantsJSON(r):
		respondErrorJSON(w, r, userMsg, statusCode)
	default:
		respondErrorHTML(w, userMsg, statusCode)
	}
}

// respondErrorJSON writes a JSON error response.
func respondErrorJSON(w http.ResponseWriter, r *http.Request, msg core.UserMessage, statusCode int) {
	respondJSON(w, r, statusCode, ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

// respondErrorHTML writes a plain text error response.
func respondErrorHTML(w http.ResponseWriter, msg core.UserMessage, statusCode int) {
	http.Error(w, msg.Message+" ("+msg.Code+")", statusCode)
}

// renderErrorPartial renders an HTML error fragment.
func renderErrorPartial(w http.ResponseWriter, r *http.Request, msg core.UserMessage, statusCode int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	if err := templates.ErrorAlert(msg.Message, msg.Action, msg.Code).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Warn("render error partial", "error", err)
	}
}

// respondJSON writes v with the given status.
func respondJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	render.Status(r, status)
	render.JSON(w, r, v)
}

// isHTMX checks if the request is an HTMX request.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// wantsJSON checks if the client prefers a JSON response.
func wantsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		return true
	}
	return strings.HasPrefix(r.URL.Path, "/api/")
}
