package utils

import (
	"encoding/json"
	"net/http"

	"narration-backend/internal/apperr"
)

func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// Error maps an error's kind to an HTTP status and writes a JSON body
func Error(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)

	status := http.StatusInternalServerError
	switch kind {
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindPrecondition:
		status = http.StatusUnprocessableEntity
	case apperr.KindConflict:
		status = http.StatusConflict
	case apperr.KindNotFound:
		status = http.StatusNotFound
	}

	JSON(w, status, map[string]string{
		"error": err.Error(),
		"kind":  kind.String(),
	})
}
