package api

import (
	"errors"
	"net/http"

	"github.com/aviral1303/vectordb/models"
)

// WriteError type-switches on the service-layer sentinel errors
// (models.ErrNotFound etc.) to produce the status codes spec.md §6.1/§7
// define, falling back to 500 for anything unrecognized.
func WriteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrConflict), errors.Is(err, models.ErrDuplicate):
		RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrValidation):
		RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrPermissionDenied):
		RespondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, models.ErrNotImplemented):
		RespondError(w, http.StatusNotImplemented, err.Error())
	default:
		RespondError(w, http.StatusInternalServerError, err.Error())
	}
}
