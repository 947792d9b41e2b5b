package cart

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/b8shield/commerce-api/internal/affiliate"
	"github.com/b8shield/commerce-api/internal/common"
	"github.com/b8shield/commerce-api/internal/pricing"
)

// Handler exposes the cart HTTP surface.
type Handler struct {
	Service *Service
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		common.JSONError(w, http.StatusNotFound, common.CodeCartNotFound, "cart not found or expired", nil)
	case errors.Is(err, affiliate.ErrInvalidCodeFormat):
		common.JSONError(w, http.StatusBadRequest, common.CodeInvalidCode, "discount code is empty or malformed", nil)
	case errors.Is(err, affiliate.ErrCodeNotFound):
		common.JSONError(w, http.StatusNotFound, common.CodeCodeNotFound, "no active affiliate for code", nil)
	default:
		common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, err.Error(), nil)
	}
}

// Create opens a new cart.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ShippingCountry string `json:"shippingCountry"`
	}
	if r.Body != nil {
		// Missing body falls back to the home country.
		_ = json.NewDecoder(r.Body).Decode(&payload)
	}
	country := payload.ShippingCountry
	if country == "" {
		country = h.Service.Rates.HomeCountry
	}
	view, err := h.Service.Create(r.Context(), country)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, err.Error(), nil)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": view})
}

// Get returns a cart with totals.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.Service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": view})
}

// AddLine adds a product to the cart.
func (h *Handler) AddLine(w http.ResponseWriter, r *http.Request) {
	var line pricing.CartLine
	if err := json.NewDecoder(r.Body).Decode(&line); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, "invalid payload", nil)
		return
	}
	view, err := h.Service.AddLine(r.Context(), chi.URLParam(r, "id"), line)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": view})
}

// UpdateLine sets a line quantity.
func (h *Handler) UpdateLine(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Qty int `json:"qty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, "invalid payload", nil)
		return
	}
	view, err := h.Service.UpdateQty(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "productId"), payload.Qty)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": view})
}

// RemoveLine drops a product from the cart.
func (h *Handler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	view, err := h.Service.RemoveLine(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "productId"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": view})
}

// SetCountry changes the shipping destination.
func (h *Handler) SetCountry(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ShippingCountry string `json:"shippingCountry"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, "invalid payload", nil)
		return
	}
	view, err := h.Service.SetCountry(r.Context(), chi.URLParam(r, "id"), payload.ShippingCountry)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": view})
}

// ApplyCode attaches an affiliate discount code.
func (h *Handler) ApplyCode(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Code    string `json:"code"`
		ClickID string `json:"clickId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, "invalid payload", nil)
		return
	}
	view, err := h.Service.ApplyCode(r.Context(), chi.URLParam(r, "id"), payload.Code, payload.ClickID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": view})
}

// RemoveCode clears the applied code.
func (h *Handler) RemoveCode(w http.ResponseWriter, r *http.Request) {
	view, err := h.Service.RemoveCode(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": view})
}
