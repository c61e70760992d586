// Package httpx provides HTTP response utilities.
package httpx

import (
	"errors"
	"net/http"

	"github.com/mobileshop/billing/internal/shared"
)

// RespondError maps domain errors to HTTP responses using RFC7807.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, shared.ErrValidation):
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, shared.ErrConcurrentUpdate):
		Problem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, shared.ErrSchemaMissing):
		Problem(w, http.StatusServiceUnavailable, "Schema Missing", err.Error())
	case errors.Is(err, shared.ErrEnvironmentUnsupported):
		Problem(w, http.StatusServiceUnavailable, "Storage Unavailable", err.Error())
	case errors.Is(err, shared.ErrTransactionAborted):
		Problem(w, http.StatusInternalServerError, "Transaction Aborted", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
