package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/utafrali/OrderEntryGo/internal/service"
	"github.com/utafrali/OrderEntryGo/pkg/httputil"
)

// RefDataHandler serves the product catalog and exchange-rate table to the
// order form, and exposes the wholesale reload operation.
type RefDataHandler struct {
	service *service.OrderService
	logger  *slog.Logger
}

// NewRefDataHandler creates a new reference-data HTTP handler.
func NewRefDataHandler(svc *service.OrderService, logger *slog.Logger) *RefDataHandler {
	return &RefDataHandler{
		service: svc,
		logger:  logger,
	}
}

// Products handles GET /api/products. The response is a plain JSON object
// mapping product name to base price in the reference currency, matching
// what the form consumes directly.
func (h *RefDataHandler) Products(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.service.Catalog()
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	out := make(map[string]json.Number, len(catalog))
	for name, price := range catalog {
		out[name] = json.Number(price.String())
	}

	httputil.WriteJSON(w, http.StatusOK, out)
}

// ExchangeRates handles GET /api/exchange-rates, a plain JSON object mapping
// currency code to conversion rate.
func (h *RefDataHandler) ExchangeRates(w http.ResponseWriter, r *http.Request) {
	rates, err := h.service.ExchangeRates()
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	out := make(map[string]json.Number, len(rates))
	for code, rate := range rates {
		out[code] = json.Number(rate.String())
	}

	httputil.WriteJSON(w, http.StatusOK, out)
}

// Reload handles POST /admin/refdata/reload: a wholesale reload of catalog
// and rates. Overlapping reloads are safe; the latest requested load wins.
func (h *RefDataHandler) Reload(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.ReloadReferenceData(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]any{
			"generation": snap.Generation,
			"loaded_at":  snap.LoadedAt,
			"products":   len(snap.Catalog),
			"currencies": len(snap.Rates),
		},
	})
}
