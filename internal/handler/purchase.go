package handler

import (
	"net/http"

	"github.com/guncad/market-server-go/internal/audit"
	"github.com/guncad/market-server-go/internal/middleware"
	"github.com/guncad/market-server-go/internal/service"
)

// PurchaseHandler exposes purchase history and purchase eligibility. Payments
// themselves are recorded by the checkout flow, not here.
type PurchaseHandler struct {
	purchases *service.PurchaseService
	geo       *service.GeoService
}

func NewPurchaseHandler(purchases *service.PurchaseService, geo *service.GeoService) *PurchaseHandler {
	return &PurchaseHandler{purchases: purchases, geo: geo}
}

func (h *PurchaseHandler) ListPurchases(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	purchases, err := h.purchases.ListPurchases(r.Context(), identity.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"purchases": purchases})
}

func (h *PurchaseHandler) CheckPurchase(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	var req modelRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	purchased, err := h.purchases.HasPurchased(r.Context(), identity.UserID, req.ModelID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"purchased": purchased})
}

// GeoCheck always answers 200; a denial is carried in the body.
func (h *PurchaseHandler) GeoCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.geo.CheckPurchase(r.Context(), audit.ClientIP(r)))
}
