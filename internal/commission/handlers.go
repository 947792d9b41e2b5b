package commission

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/b8shield/commerce-api/internal/affiliate"
	"github.com/b8shield/commerce-api/internal/common"
	"github.com/b8shield/commerce-api/internal/money"
)

// Handler exposes the commission ledger and a preview calculator.
type Handler struct {
	Store   *Store
	VATRate float64
}

// GetByOrder returns the settled breakdown for an order.
func (h *Handler) GetByOrder(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "commission store not configured", nil)
		return
	}
	rec, err := h.Store.ByOrderID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			common.JSONError(w, http.StatusNotFound, common.CodeNotFound, "order has no settled commission", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, err.Error(), nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": rec})
}

// ListByAffiliate returns an affiliate's settled commissions.
func (h *Handler) ListByAffiliate(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "commission store not configured", nil)
		return
	}
	records, err := h.Store.ListByAffiliate(r.Context(), chi.URLParam(r, "id"), 50)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, err.Error(), nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": records})
}

// Preview runs the calculator on an ad-hoc order shape without touching
// the ledger. Used by admins to sanity check campaign setups.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Total          money.Amount        `json:"total"`
		Shipping       money.Amount        `json:"shipping"`
		DiscountAmount money.Amount        `json:"discountAmount"`
		Affiliate      affiliate.Affiliate `json:"affiliate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, "invalid payload", nil)
		return
	}
	breakdown, err := Calculate(Input{
		Total:          payload.Total,
		Shipping:       payload.Shipping,
		DiscountAmount: payload.DiscountAmount,
	}, &payload.Affiliate, nil, h.VATRate)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, err.Error(), nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": breakdown})
}
