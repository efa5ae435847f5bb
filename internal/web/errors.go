package web

// errors.go translates domain-typed errors from the core package into HTTP
// responses. Technical detail is logged server side with the request ID;
// clients only ever see a structured {"error": ...} body.

import (
	"errors"
	"net/http"

	"carowners/internal/core"
	"carowners/internal/logging"
)

// ErrorResponse is the JSON body for every error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// statusFor maps a domain error to its default HTTP status. Handlers that
// need a context-dependent mapping (owner-not-found is 400 on car writes
// but 404 on owner reads) check those sentinels before calling respondError.
func statusFor(err error) int {
	var malformed *core.MalformedInputError
	switch {
	case errors.Is(err, core.ErrOwnerNotFound),
		errors.Is(err, core.ErrCarNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrDuplicateEmail),
		errors.Is(err, core.ErrOwnerHasCars),
		errors.As(err, &malformed):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs the technical error and writes the client-facing body.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	s.respondErrorStatus(w, r, err, statusFor(err))
}

// respondErrorStatus is respondError with an explicit status override.
func (s *Server) respondErrorStatus(w http.ResponseWriter, r *http.Request, err error, status int) {
	logger := logging.FromContext(r.Context())
	logger.Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
	)

	writeJSON(w, status, ErrorResponse{Error: clientMessage(err, status)})
}

// clientMessage picks the user-visible message. Internal failures are
// masked; domain errors carry their own safe wording.
func clientMessage(err error, status int) string {
	if status == http.StatusInternalServerError {
		return "internal server error"
	}

	// Strip repository wrapping down to the domain sentinel where possible.
	for _, sentinel := range []error{
		core.ErrOwnerNotFound,
		core.ErrCarNotFound,
		core.ErrDuplicateEmail,
		core.ErrOwnerHasCars,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}

	var malformed *core.MalformedInputError
	if errors.As(err, &malformed) {
		return malformed.Error()
	}
	return err.Error()
}

// badRequest writes a 400 with a plain message, for transport-level faults
// that never reach the core layer (bad JSON, wrong file type, bad id).
func (s *Server) badRequest(w http.ResponseWriter, r *http.Request, msg string) {
	s.respondErrorStatus(w, r, core.Malformed(msg, nil), http.StatusBadRequest)
}
