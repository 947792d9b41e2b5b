package affiliate

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"

	"github.com/b8shield/commerce-api/internal/common"
)

// Handler exposes admin endpoints for the affiliate registry.
type Handler struct {
	Store    *Store
	Validate *validator.Validate
}

// Create registers an affiliate.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "affiliate store not configured", nil)
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
	created, err := h.Store.Create(r.Context(), payload)
	if err != nil {
		if errors.Is(err, ErrInvalidCodeFormat) {
			common.JSONError(w, http.StatusBadRequest, common.CodeInvalidCode, "code is empty or malformed", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, err.Error(), nil)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": created})
}

// List returns all registered affiliates.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "affiliate store not configured", nil)
		return
	}
	affiliates, err := h.Store.List(r.Context())
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, err.Error(), nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": affiliates})
}

// PatchStatus flips an affiliate between active and inactive.
func (h *Handler) PatchStatus(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "affiliate store not configured", nil)
		return
	}
	id := chi.URLParam(r, "id")
	var payload struct {
		Status Status `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, "invalid payload", nil)
		return
	}
	if err := h.Store.SetStatus(r.Context(), id, payload.Status); err != nil {
		switch {
		case errors.Is(err, ErrCodeNotFound):
			common.JSONError(w, http.StatusNotFound, common.CodeNotFound, "affiliate not found", nil)
		default:
			common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, err.Error(), nil)
		}
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{"id": id, "status": payload.Status}})
}
