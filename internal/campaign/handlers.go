package campaign

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"

	"github.com/b8shield/commerce-api/internal/common"
)

// Handler exposes admin endpoints for campaign management.
type Handler struct {
	Store    *Store
	Validate *validator.Validate
}

// Create accepts a draft campaign.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "campaign store not configured", nil)
		return
	}
	var payload CreateInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, "invalid payload", nil)
		return
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(payload); err != nil {
			common.JSONError(w, http.StatusBadRequest, common.CodeValidation, err.Error(), nil)
			return
		}
	}
	if payload.AffiliateTargeting == string(TargetSelectedAffiliates) && len(payload.SelectedAffiliates) == 0 {
		common.JSONError(w, http.StatusBadRequest, common.CodeValidation, "selected affiliate targeting needs at least one affiliate", nil)
		return
	}
	if payload.ProductTargeting == string(TargetSelectedProducts) && len(payload.SelectedProducts) == 0 {
		common.JSONError(w, http.StatusBadRequest, common.CodeValidation, "selected product targeting needs at least one product", nil)
		return
	}
	created, err := h.Store.Create(r.Context(), payload)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, err.Error(), nil)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": created})
}

// List returns all campaigns.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "campaign store not configured", nil)
		return
	}
	campaigns, err := h.Store.List(r.Context())
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, err.Error(), nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": campaigns})
}

// Get returns a single campaign.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "campaign store not configured", nil)
		return
	}
	c, err := h.Store.ByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			common.JSONError(w, http.StatusNotFound, common.CodeNotFound, "campaign not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, err.Error(), nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": c})
}

// Transition moves a campaign through its lifecycle.
func (h *Handler) Transition(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "campaign store not configured", nil)
		return
	}
	var payload struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, "invalid payload", nil)
		return
	}
	to, err := ParseStatus(payload.Status)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, err.Error(), nil)
		return
	}
	updated, err := h.Store.Transition(r.Context(), chi.URLParam(r, "id"), to)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			common.JSONError(w, http.StatusNotFound, common.CodeNotFound, "campaign not found", nil)
			return
		}
		common.JSONError(w, http.StatusConflict, common.CodeInvalidTransition, err.Error(), nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": updated})
}
