package handler

import (
	"errors"
	"net/http"

	"chathistory/internal/domain"
	"chathistory/internal/httputil"
)

// handleError converts domain errors to HTTP responses. Every branch emits
// a fixed label; wrapped chains carry identifiers (emails, ids) and stay in
// the logs, never on the wire. Routes with a more specific label check the
// sentinel themselves before falling through to here.
func handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request")
	case errors.Is(err, domain.ErrMalformedHistory):
		httputil.RespondError(w, http.StatusBadRequest, "Invalid history")
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, "Forbidden")
	case errors.Is(err, domain.ErrUpstream):
		httputil.RespondError(w, http.StatusInternalServerError, err.Error())
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "Internal Server Error")
	}
}

// PathParam extracts a required path parameter, responding with 400 when it
// is missing.
func PathParam(w http.ResponseWriter, r *http.Request, name, label string) (string, bool) {
	value := r.PathValue(name)
	if value == "" {
		httputil.RespondError(w, http.StatusBadRequest, label+" is required")
		return "", false
	}
	return value, true
}
