package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"gamestore/internal/model"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const defaultLimit = 10

// writeJSON writes a JSON response with the given status code. Encode
// errors are dropped since the status line is already sent.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response with the given status code, error code and message.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, logger zerolog.Logger) {
	resp := model.ErrorResponse{
		Error:     code,
		Message:   message,
		RequestID: middleware.GetReqID(r.Context()),
	}

	logEvent := logger.Warn()
	if status >= http.StatusInternalServerError {
		logEvent = logger.Error()
	}
	logEvent.
		Str("error", code).
		Str("message", message).
		Int("status", status).
		Str("request_id", resp.RequestID).
		Msg("handler error")

	writeJSON(w, status, resp)
}

// writeServiceError maps an error returned by a service to an HTTP response.
// Domain errors carry their own code; anything else becomes a 500 with the
// given fallback message.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string, logger zerolog.Logger) {
	requestID := middleware.GetReqID(r.Context())

	var domainErr *model.DomainError
	if !errors.As(err, &domainErr) {
		logger.Error().Err(err).Str("request_id", requestID).Msg(fallback)
		writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{
			Error:     model.ErrCodeInternalError,
			Message:   fallback,
			RequestID: requestID,
		})
		return
	}

	status := statusForCode(domainErr.Code)
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Str("request_id", requestID).Msg(fallback)
	} else {
		logger.Debug().Err(err).Int("status", status).Str("request_id", requestID).Msg("request rejected")
	}

	writeJSON(w, status, model.ErrorResponse{
		Error:     domainErr.Code,
		Message:   domainErr.Message,
		Reason:    string(domainErr.Reason),
		RequestID: requestID,
	})
}

// statusForCode returns the HTTP status for a domain error code.
func statusForCode(code string) int {
	switch code {
	case model.ErrCodeInvalidJSON,
		model.ErrCodeMissingField,
		model.ErrCodeProductNotFound,
		model.ErrCodeInvalidQuantity,
		model.ErrCodeEmptyOrder,
		model.ErrCodeDiscountInapplicable,
		model.ErrCodeInvalidDiscountInput:
		return http.StatusBadRequest
	case model.ErrCodeDiscountNotFound:
		return http.StatusNotFound
	case model.ErrCodeDiscountExists, model.ErrCodeDiscountExhausted:
		return http.StatusConflict
	case model.ErrCodeStoreUnavailable:
		return http.StatusServiceUnavailable
	case model.ErrCodeUnauthorised:
		return http.StatusUnauthorized
	case model.ErrCodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON decodes the request body into v and writes a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}, logger zerolog.Logger) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", logger)
		return false
	}
	return true
}

// parsePage reads the limit and offset query parameters.
func parsePage(w http.ResponseWriter, r *http.Request, logger zerolog.Logger) (int, int, bool) {
	limit := defaultLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		var err error
		limit, err = strconv.Atoi(s)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, model.ErrCodeMissingField, "invalid limit parameter", logger)
			return 0, 0, false
		}
	}

	offset := 0
	if s := r.URL.Query().Get("offset"); s != "" {
		var err error
		offset, err = strconv.Atoi(s)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, model.ErrCodeMissingField, "invalid offset parameter", logger)
			return 0, 0, false
		}
	}

	return limit, offset, true
}

// parseID reads a UUID path value and writes a 400 when it is malformed.
func parseID(w http.ResponseWriter, r *http.Request, raw, what string, logger zerolog.Logger) (uuid.UUID, bool) {
	if raw == "" {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeMissingField, what+" ID is required", logger)
		return uuid.Nil, false
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeMissingField, "invalid "+what+" ID format", logger)
		return uuid.Nil, false
	}

	return id, true
}
