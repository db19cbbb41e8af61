package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Spok95/bakery-ledger/internal/domain/ledger"
)

type productJSON struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type saleJSON struct {
	ID           string    `json:"id"`
	Product      string    `json:"product"`
	Quantity     int       `json:"quantity"`
	PricePerUnit float64   `json:"price_per_unit"`
	Total        float64   `json:"total"`
	Date         time.Time `json:"date"`
}

func toSaleJSON(s ledger.Sale) saleJSON {
	return saleJSON{
		ID:           s.ID.String(),
		Product:      s.Product,
		Quantity:     s.Quantity,
		PricePerUnit: s.PricePerUnit.InexactFloat64(),
		Total:        s.Total.InexactFloat64(),
		Date:         s.Date,
	}
}

func (h *Handler) listProducts(w http.ResponseWriter, _ *http.Request) {
	products := h.ledger.Products()
	out := make([]productJSON, 0, len(products))
	for _, p := range products {
		out = append(out, toProductJSON(p))
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) setPrice(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	var req struct {
		Price float64 `json:"price"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.ledger.SetPrice(r.Context(), name, decimal.NewFromFloat(req.Price)); err != nil {
		h.writeError(w, err)
		return
	}
	h.log.Info("price set", "product", name, "price", req.Price)
	h.writeJSON(w, http.StatusOK, nil)
}

func (h *Handler) listSales(w http.ResponseWriter, _ *http.Request) {
	sales := h.ledger.Sales()
	out := make([]saleJSON, 0, len(sales))
	for _, s := range sales {
		out = append(out, toSaleJSON(s))
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) sell(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Product  string `json:"product"`
		Quantity int    `json:"quantity"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	sale, err := h.ledger.Sell(r.Context(), req.Product, req.Quantity)
	if err != nil {
		h.writeError(w, err)
		return
	}
	salesTotal.Inc()
	h.log.Info("sale recorded", "product", sale.Product, "quantity", sale.Quantity, "total", sale.Total.String())
	h.writeJSON(w, http.StatusCreated, toSaleJSON(sale))
}

func (h *Handler) deleteSale(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "sale id must be a UUID"})
		return
	}
	if err := h.ledger.DeleteSale(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) clearSales(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.ClearSales(r.Context()); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type summaryJSON struct {
	TotalSales   int                `json:"total_sales"`
	TotalRevenue float64            `json:"total_revenue"`
	Products     []productSalesJSON `json:"products"`
}

type productSalesJSON struct {
	Product  string  `json:"product"`
	Quantity int     `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

func (h *Handler) summary(w http.ResponseWriter, _ *http.Request) {
	sum := h.ledger.SalesSummary()
	out := summaryJSON{TotalSales: sum.TotalSales, TotalRevenue: sum.TotalRevenue.InexactFloat64(), Products: []productSalesJSON{}}
	for _, ps := range sum.Products {
		out.Products = append(out.Products, productSalesJSON{
			Product:  ps.Product,
			Quantity: ps.Quantity,
			Revenue:  ps.Revenue.InexactFloat64(),
		})
	}
	h.writeJSON(w, http.StatusOK, out)
}
