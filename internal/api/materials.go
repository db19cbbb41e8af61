package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Spok95/bakery-ledger/internal/domain/ledger"
)

type materialJSON struct {
	Name          string      `json:"name"`
	Unit          string      `json:"unit"`
	MinThreshold  float64     `json:"min_threshold"`
	TotalQuantity float64     `json:"total_quantity"`
	Batches       []batchJSON `json:"batches"`
}

type batchJSON struct {
	Quantity     float64 `json:"quantity"`
	CostPerUnit  float64 `json:"cost_per_unit"`
	PurchaseDate string  `json:"purchase_date"`
}

func toMaterialJSON(m ledger.Material) materialJSON {
	out := materialJSON{
		Name:          m.Name,
		Unit:          m.Unit,
		MinThreshold:  m.MinThreshold,
		TotalQuantity: m.TotalQuantity(),
		Batches:       []batchJSON{},
	}
	for _, b := range m.Batches {
		out.Batches = append(out.Batches, batchJSON{
			Quantity:     b.Quantity,
			CostPerUnit:  b.CostPerUnit.InexactFloat64(),
			PurchaseDate: b.PurchaseDate.Format("2006-01-02"),
		})
	}
	return out
}

func (h *Handler) listMaterials(w http.ResponseWriter, _ *http.Request) {
	materials := h.ledger.Materials()
	out := make([]materialJSON, 0, len(materials))
	for _, m := range materials {
		out = append(out, toMaterialJSON(m))
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) createMaterial(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         string  `json:"name"`
		Unit         string  `json:"unit"`
		MinThreshold float64 `json:"min_threshold"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.ledger.CreateMaterial(r.Context(), req.Name, req.Unit, req.MinThreshold); err != nil {
		h.writeError(w, err)
		return
	}
	h.log.Info("material created", "name", req.Name)
	h.writeJSON(w, http.StatusCreated, nil)
}

func (h *Handler) deleteMaterial(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if err := h.ledger.RemoveMaterial(r.Context(), name); err != nil {
		h.writeError(w, err)
		return
	}
	h.updateLowStockGauge()
	h.log.Info("material deleted", "name", name)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) addBatch(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	var req struct {
		Quantity     float64 `json:"quantity"`
		CostPerUnit  float64 `json:"cost_per_unit"`
		PurchaseDate string  `json:"purchase_date"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	// Purchase date defaults to today, as the POS front ends expect.
	date := time.Now().UTC().Truncate(24 * time.Hour)
	if req.PurchaseDate != "" {
		var err error
		date, err = time.Parse("2006-01-02", req.PurchaseDate)
		if err != nil {
			h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "purchase_date must be YYYY-MM-DD"})
			return
		}
	}

	err := h.ledger.AddBatch(r.Context(), name, req.Quantity, decimal.NewFromFloat(req.CostPerUnit), date)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.updateLowStockGauge()
	h.log.Info("batch added", "material", name, "quantity", req.Quantity)
	h.writeJSON(w, http.StatusCreated, nil)
}

func (h *Handler) deleteBatch(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "batch index must be an integer"})
		return
	}
	if err := h.ledger.RemoveBatch(r.Context(), name, index); err != nil {
		h.writeError(w, err)
		return
	}
	h.updateLowStockGauge()
	w.WriteHeader(http.StatusNoContent)
}

type alertJSON struct {
	Material  string  `json:"material"`
	Unit      string  `json:"unit"`
	Current   float64 `json:"current"`
	Threshold float64 `json:"threshold"`
	Shortfall float64 `json:"shortfall"`
}

func (h *Handler) alerts(w http.ResponseWriter, _ *http.Request) {
	out := []alertJSON{}
	for _, a := range h.ledger.LowStock() {
		out = append(out, alertJSON(a))
	}
	h.writeJSON(w, http.StatusOK, out)
}
