package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/Nakul-Jaglan/thob3d-assignment/internal/api/services"
	"github.com/Nakul-Jaglan/thob3d-assignment/internal/utils"
)

// StatusFor is the single translation from service error kinds to HTTP statuses.
func StatusFor(kind services.Kind) int {
	switch kind {
	case services.KindValidation:
		return http.StatusBadRequest
	case services.KindAuth:
		return http.StatusUnauthorized
	case services.KindForbidden:
		return http.StatusForbidden
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := services.KindOf(err)
	status := StatusFor(kind)

	message := "Server error"
	var se *services.Error
	if errors.As(err, &se) && kind != services.KindInternal {
		message = se.Message
	}
	if status >= http.StatusInternalServerError {
		log.Printf("%s %s failed: %v", r.Method, r.URL.Path, err)
	}
	utils.ErrorResponse(w, status, message)
}
