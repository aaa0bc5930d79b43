package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/commerce"
	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/models"
)

const maxBodyBytes = 1 << 20

// writeJSONResponse is a helper function to write JSON responses
func writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeErrorResponse is a helper function to write error responses
func writeErrorResponse(w http.ResponseWriter, statusCode int, code, message string, details []models.ErrorDetail) {
	writeJSONResponse(w, statusCode, models.ErrorResponse{
		Code:    code,
		Message: message,
		Details: details,
	})
}

// decodeJSON reads a JSON body into dst. An empty body leaves dst untouched
// when allowEmpty is set.
func decodeJSON(r *http.Request, dst interface{}, allowEmpty bool) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst)
	if errors.Is(err, io.EOF) && allowEmpty {
		return nil
	}
	return err
}

func writeInvalidJSON(w http.ResponseWriter, r *http.Request, err error) {
	slog.Warn("Invalid JSON in request", "error", err, "path", r.URL.Path, "remote_addr", r.RemoteAddr)
	writeErrorResponse(w, http.StatusBadRequest, "invalid_json", "Invalid JSON format", []models.ErrorDetail{
		{Field: "body", Issue: err.Error()},
	})
}

// writeCommerceError maps commerce failures onto HTTP statuses: missing
// settings are a 500, timeouts a 408, upstream rejections keep the
// upstream status and anything else is a 502.
func writeCommerceError(w http.ResponseWriter, operation string, err error) {
	var (
		missing  *commerce.MissingConfigurationError
		upstream *commerce.UpstreamError
	)

	switch {
	case errors.As(err, &missing):
		slog.Error("Commerce configuration incomplete", "operation", operation, "error", err)
		details := make([]models.ErrorDetail, 0, len(missing.Keys))
		for _, key := range missing.Keys {
			details = append(details, models.ErrorDetail{Field: key, Issue: "not set"})
		}
		writeErrorResponse(w, http.StatusInternalServerError, "configuration_error", missing.Error(), details)

	case errors.Is(err, commerce.ErrSubmissionTimeout):
		writeErrorResponse(w, http.StatusRequestTimeout, "submission_timeout", "Request timeout - please try again", nil)

	case errors.Is(err, commerce.ErrUserNotFound):
		writeErrorResponse(w, http.StatusNotFound, "user_not_found", "Ordering user not found", []models.ErrorDetail{
			{Field: commerce.KeyOrderUser, Issue: err.Error()},
		})

	case errors.As(err, &upstream):
		status := upstream.StatusCode
		if status < 400 {
			status = http.StatusBadGateway
		}
		writeErrorResponse(w, status, "upstream_error", "Failed to "+operation, []models.ErrorDetail{
			{Field: "upstream", Issue: upstream.Message},
		})

	default:
		slog.Error("Commerce request failed", "operation", operation, "error", err)
		writeErrorResponse(w, http.StatusBadGateway, "upstream_unavailable", "Failed to "+operation, []models.ErrorDetail{
			{Field: "upstream", Issue: err.Error()},
		})
	}
}
