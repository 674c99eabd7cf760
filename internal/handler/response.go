package handler

import (
	"encoding/json"
	"net/http"

	"heroxi-backend/internal/middleware"
	"heroxi-backend/pkg/errors"
	"heroxi-backend/pkg/logger"
)

// maxBodyBytes caps request bodies; lineups are short free text
const maxBodyBytes = 64 << 10

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// respondError maps err through errors.FromDomain. Server-side failures are
// logged with detail; the client only sees the generic message.
func respondError(w http.ResponseWriter, r *http.Request, err error, log *logger.Logger) {
	appErr := errors.FromDomain(err)
	requestID := middleware.GetRequestID(r.Context())

	if appErr.StatusCode >= http.StatusInternalServerError {
		log.WithError(err).WithFields(map[string]interface{}{
			"request_id": requestID,
			"path":       r.URL.Path,
			"status":     appErr.StatusCode,
		}).Error("Request failed")
	}

	errors.WriteJSON(w, appErr, requestID)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.NewValidationError("Invalid request body", map[string]interface{}{
			"reason": err.Error(),
		})
	}
	return nil
}
