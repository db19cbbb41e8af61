// Package api is the HTTP JSON boundary over the inventory ledger. It
// owns routing and error translation only; all invariants live in the
// ledger itself.
package api

import (
	"log/slog"
	"net/http"

	"github.com/Spok95/bakery-ledger/internal/domain/ledger"
)

type Handler struct {
	ledger *ledger.Ledger
	log    *slog.Logger
}

func New(l *ledger.Ledger, log *slog.Logger) *Handler {
	h := &Handler{ledger: l, log: log}
	// Seed the gauge from loaded state so it is right before any mutation.
	h.updateLowStockGauge()
	return h
}

func (h *Handler) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/materials", h.listMaterials)
	mux.HandleFunc("POST /api/materials", h.createMaterial)
	mux.HandleFunc("DELETE /api/materials/{name}", h.deleteMaterial)
	mux.HandleFunc("POST /api/materials/{name}/batches", h.addBatch)
	mux.HandleFunc("DELETE /api/materials/{name}/batches/{index}", h.deleteBatch)

	mux.HandleFunc("GET /api/recipes", h.listRecipes)
	mux.HandleFunc("POST /api/recipes", h.createRecipe)
	mux.HandleFunc("DELETE /api/recipes/{name}", h.deleteRecipe)

	mux.HandleFunc("POST /api/production/{name}", h.produce)

	mux.HandleFunc("GET /api/products", h.listProducts)
	mux.HandleFunc("PUT /api/products/{name}/price", h.setPrice)

	mux.HandleFunc("GET /api/sales", h.listSales)
	mux.HandleFunc("POST /api/sales", h.sell)
	mux.HandleFunc("DELETE /api/sales", h.clearSales)
	mux.HandleFunc("DELETE /api/sales/{id}", h.deleteSale)

	mux.HandleFunc("GET /api/alerts", h.alerts)
	mux.HandleFunc("GET /api/summary", h.summary)

	mux.HandleFunc("GET /reports/stock.xlsx", h.stockReport)
	mux.HandleFunc("GET /reports/sales.xlsx", h.salesReport)

	return mux
}
