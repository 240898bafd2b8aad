package httpapi

import (
	"errors"
	"net/http"

	"github.com/mpfc/securebanking/internal/common"
	"github.com/mpfc/securebanking/internal/tabular"
)

// writeError maps service errors onto HTTP status codes. Validation errors
// carry their row/field detail to the client; everything else maps to a
// sentinel with a generic body so internals do not leak.
func writeError(w http.ResponseWriter, err error) {
	var verr *tabular.ValidationError
	if errors.As(err, &verr) {
		http.Error(w, verr.Error(), http.StatusBadRequest)
		return
	}

	switch {
	case errors.Is(err, common.ErrEmptyFile):
		http.Error(w, "empty file", http.StatusBadRequest)
	case errors.Is(err, common.ErrUnsupportedType):
		http.Error(w, "unsupported file type", http.StatusUnsupportedMediaType)
	case errors.Is(err, common.ErrDuplicateFile):
		http.Error(w, "duplicate file", http.StatusConflict)
	case errors.Is(err, common.ErrAccountLocked):
		http.Error(w, "account temporarily locked", http.StatusLocked)
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrInvalidToken):
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	case errors.Is(err, common.ErrorForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, common.ErrorNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
