package handler

import (
	"fmt"
	"net/http"

	"gamestore/internal/model"
	"gamestore/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// AdminHandler handles the discount code administration endpoints.
type AdminHandler struct {
	service     service.DiscountAdminService
	importFiles map[string]struct{}
	defaults    []string
	logger      zerolog.Logger
}

// NewAdminHandler creates a new admin handler. Import only accepts paths
// listed in importFiles.
func NewAdminHandler(service service.DiscountAdminService, importFiles []string, logger zerolog.Logger) *AdminHandler {
	allowed := make(map[string]struct{}, len(importFiles))
	for _, path := range importFiles {
		allowed[path] = struct{}{}
	}

	return &AdminHandler{
		service:     service,
		importFiles: allowed,
		defaults:    importFiles,
		logger:      logger.With().Str("handler", "admin").Logger(),
	}
}

// List handles GET /api/admin/discount-codes requests.
func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset, ok := parsePage(w, r, h.logger)
	if !ok {
		return
	}

	codes, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		writeServiceError(w, r, err, "failed to list discount codes", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, codes)
}

// Create handles POST /api/admin/discount-codes requests.
func (h *AdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input model.DiscountCodeInput
	if !decodeJSON(w, r, &input, h.logger) {
		return
	}

	dc, err := h.service.Create(r.Context(), &input)
	if err != nil {
		writeServiceError(w, r, err, "failed to create discount code", h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, dc)
}

// GetByCode handles GET /api/admin/discount-codes/{code} requests.
func (h *AdminHandler) GetByCode(w http.ResponseWriter, r *http.Request) {
	dc, err := h.service.GetByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeServiceError(w, r, err, "failed to retrieve discount code", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, dc)
}

// SetActive handles PATCH /api/admin/discount-codes/{id}/active requests.
func (h *AdminHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, chi.URLParam(r, "id"), "discount code", h.logger)
	if !ok {
		return
	}

	var req model.SetActiveRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}
	if req.Active == nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeMissingField, "active is required", h.logger)
		return
	}

	dc, err := h.service.SetActive(r.Context(), id, *req.Active)
	if err != nil {
		writeServiceError(w, r, err, "failed to update discount code", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, dc)
}

// Extend handles PATCH /api/admin/discount-codes/{id}/extend requests.
func (h *AdminHandler) Extend(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, chi.URLParam(r, "id"), "discount code", h.logger)
	if !ok {
		return
	}

	var req model.ExtendRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}
	if req.ValidUntil == nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeMissingField, "validUntil is required", h.logger)
		return
	}

	dc, err := h.service.Extend(r.Context(), id, *req.ValidUntil)
	if err != nil {
		writeServiceError(w, r, err, "failed to extend discount code", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, dc)
}

// Delete handles DELETE /api/admin/discount-codes/{id} requests.
func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, chi.URLParam(r, "id"), "discount code", h.logger)
	if !ok {
		return
	}

	result, err := h.service.Delete(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, "failed to delete discount code", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ListUsages handles GET /api/admin/discount-codes/{id}/usages requests.
func (h *AdminHandler) ListUsages(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, chi.URLParam(r, "id"), "discount code", h.logger)
	if !ok {
		return
	}

	usages, err := h.service.ListUsages(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, "failed to list discount code usages", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, usages)
}

// Import handles POST /api/admin/discount-codes/import requests.
func (h *AdminHandler) Import(w http.ResponseWriter, r *http.Request) {
	var req model.ImportRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	paths := req.Paths
	if len(paths) == 0 {
		paths = h.defaults
	}
	for _, path := range paths {
		if _, ok := h.importFiles[path]; !ok {
			writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidDiscountInput,
				fmt.Sprintf("path %q is not a configured import file", path), h.logger)
			return
		}
	}

	result, err := h.service.Import(r.Context(), paths)
	if err != nil {
		writeServiceError(w, r, err, "failed to import discount codes", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
