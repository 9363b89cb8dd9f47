package handler

import (
	"errors"
	"net/http"

	"coursedesk/internal/domain"
	"coursedesk/internal/httputil"
)

// handleError converts domain errors to HTTP responses. Validation failures
// carry their field map; everything else maps through the HTTPError
// interface so new error classes need no handler changes.
func handleError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	var httpErr domain.HTTPError

	switch {
	case errors.As(err, &validationErr):
		httputil.RespondProblem(w, httputil.ProblemDetail{
			Status: http.StatusBadRequest,
			Detail: "validation failed",
			Fields: validationErr.Fields,
		})
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	case errors.As(err, &httpErr):
		httputil.RespondError(w, httpErr.StatusCode(), err.Error())
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
