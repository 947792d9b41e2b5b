package order

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/b8shield/commerce-api/internal/cart"
	"github.com/b8shield/commerce-api/internal/common"
)

// Handler exposes checkout and order lookup.
type Handler struct {
	Service *Service
}

// Checkout places an order from a cart.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		CartID string `json:"cartId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, "invalid payload", nil)
		return
	}
	if payload.CartID == "" {
		common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, "cartId is required", nil)
		return
	}
	ord, err := h.Service.Checkout(r.Context(), payload.CartID)
	if err != nil {
		if errors.Is(err, cart.ErrNotFound) {
			common.JSONError(w, http.StatusNotFound, common.CodeCartNotFound, "cart not found or expired", nil)
			return
		}
		common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, err.Error(), nil)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": ord})
}

// Get returns an order.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ord, err := h.Service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			common.JSONError(w, http.StatusNotFound, common.CodeNotFound, "order not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, err.Error(), nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": ord})
}
