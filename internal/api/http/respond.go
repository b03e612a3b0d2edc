package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"wordquiz/internal/domain"

	"go.uber.org/zap"
)

type errorResponse struct {
	Detail string `json:"detail"`
}

// writeJSON sends v as the response body. The status line is already out
// when encoding fails, so the error is only logged.
func writeJSON(w http.ResponseWriter, logger *zap.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Debug("Failed to write response", zap.Int("status", status), zap.Error(err))
	}
}

func writeDetail(w http.ResponseWriter, logger *zap.Logger, status int, detail string) {
	writeJSON(w, logger, status, errorResponse{Detail: detail})
}

// statusFor maps engine errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrProfileNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNoActiveSession), errors.Is(err, domain.ErrStaleAnswer):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNoVocabulary):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func detailFor(err error, status int) string {
	switch {
	case errors.Is(err, domain.ErrProfileNotFound):
		return "User not found. Please set up your profile first."
	case errors.Is(err, domain.ErrNoActiveSession):
		return "No active learning session for this user."
	case errors.Is(err, domain.ErrNoVocabulary):
		return "No vocabulary is available for this level and goal."
	case status == http.StatusBadGateway:
		return "A backing service is unavailable. Please try again."
	case status >= http.StatusInternalServerError:
		return "Internal server error."
	}
	return err.Error()
}

func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", zap.Int("status", status), zap.Error(err))
	}
	writeDetail(w, logger, status, detailFor(err, status))
}

// decodeJSON reads an optional JSON body; an empty body leaves v untouched
func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
