package shipping

import (
	"encoding/json"
	"net/http"

	"github.com/b8shield/commerce-api/internal/common"
)

// Handler quotes shipping cost for an ad-hoc set of lines, letting
// storefronts show the charge before a cart exists.
type Handler struct {
	Rates Rates
}

// Quote returns tier count and cost for the posted lines.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Country string `json:"country"`
		Lines   []Line `json:"lines"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, "invalid payload", nil)
		return
	}
	if payload.Country == "" {
		payload.Country = h.Rates.HomeCountry
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{
		"country": payload.Country,
		"tiers":   Tiers(payload.Lines),
		"cost":    h.Rates.Cost(payload.Lines, payload.Country),
	}})
}
