package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

// ErrorResponse is the standard error envelope for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// Responder writes JSON responses and logs encode failures and internal
// errors through its logger.
type Responder struct {
	log logrus.FieldLogger
}

// NewResponder returns a Responder logging to log.
func NewResponder(log logrus.FieldLogger) *Responder {
	return &Responder{log: log}
}

// JSON writes a JSON response with the given status code. Content-Type is
// set automatically.
func (rs *Responder) JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		rs.log.WithError(err).Warn("JSON encode error")
	}
}

// OK writes a 200 response with the given data.
func (rs *Responder) OK(w http.ResponseWriter, data any) {
	rs.JSON(w, http.StatusOK, data)
}

// Error writes a JSON error response. Use for client errors (4xx).
func (rs *Responder) Error(w http.ResponseWriter, status int, message, code string) {
	rs.JSON(w, status, ErrorResponse{Error: message, Code: code})
}

// BadRequest writes a 400 error.
func (rs *Responder) BadRequest(w http.ResponseWriter, message, code string) {
	rs.Error(w, http.StatusBadRequest, message, code)
}

// InternalError writes a 500 error. Logs the real error but returns a
// generic message to the client (never leak internals).
func (rs *Responder) InternalError(w http.ResponseWriter, r *http.Request, err error) {
	rs.log.WithError(err).WithField("path", r.URL.Path).Error("internal error")
	rs.Error(w, http.StatusInternalServerError, "internal server error", "")
}

// ServiceUnavailable writes a 503 with the given body.
func (rs *Responder) ServiceUnavailable(w http.ResponseWriter, data any) {
	rs.JSON(w, http.StatusServiceUnavailable, data)
}
