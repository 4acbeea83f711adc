package handler

import (
	"net/http"

	"gamestore/internal/model"
	"gamestore/internal/service"

	"github.com/rs/zerolog"
)

// DiscountHandler serves discount code validation for the storefront.
type DiscountHandler struct {
	validator service.DiscountValidator
	logger    zerolog.Logger
}

// NewDiscountHandler creates a new discount handler.
func NewDiscountHandler(validator service.DiscountValidator, logger zerolog.Logger) *DiscountHandler {
	return &DiscountHandler{
		validator: validator,
		logger:    logger.With().Str("handler", "discount").Logger(),
	}
}

// Validate handles POST /api/discount-codes/validate requests.
//
// Rejected codes are not errors: the response is 200 with isValid false and
// a reason. Only a failing store produces an error status.
func (h *DiscountHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req model.ValidateRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	result, err := h.validator.Validate(r.Context(), req.Code, req.Cart)
	if err != nil {
		writeServiceError(w, r, err, "failed to validate discount code", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
