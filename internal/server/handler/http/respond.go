// Package http provides the HTTP handlers and routing of the memorial API.
package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/atinyakov/memorial/internal/blob"
	"github.com/atinyakov/memorial/internal/models"
	"github.com/atinyakov/memorial/internal/repository"
	"github.com/atinyakov/memorial/internal/service"
)

var errBadID = errors.New("invalid id")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// decode reads a JSON body into v and answers 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return false
	}
	return true
}

// queryID parses the integer query parameter key. ok is false when the
// parameter is absent; a malformed value yields errBadID.
func queryID(r *http.Request, key string) (id int64, ok bool, err error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, false, nil
	}
	id, err = strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, true, errBadID
	}
	return id, true, nil
}

// writeServiceError maps service and repository errors to a status and
// an {"error"} body. Unexpected errors are logged and hidden behind 500.
func writeServiceError(w http.ResponseWriter, log *zap.Logger, err error, notFound, failed string) {
	var verr *models.ValidationError
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, notFound)
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrMissingID):
		writeError(w, http.StatusBadRequest, "ID required")
	case errors.Is(err, service.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, blob.ErrDisabled):
		writeError(w, http.StatusServiceUnavailable, "File storage is not configured")
	default:
		log.Error(failed, zap.Error(err))
		writeError(w, http.StatusInternalServerError, failed)
	}
}

func nopIfNil(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}
