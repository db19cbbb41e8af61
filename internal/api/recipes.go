package api

import (
	"net/http"

	"github.com/Spok95/bakery-ledger/internal/domain/ledger"
)

type recipeJSON struct {
	Name              string             `json:"name"`
	BatchSize         int                `json:"batch_size"`
	Ingredients       map[string]float64 `json:"ingredients"`
	ProducibleBatches int                `json:"producible_batches"`
}

func (h *Handler) listRecipes(w http.ResponseWriter, _ *http.Request) {
	recipes := h.ledger.Recipes()
	out := make([]recipeJSON, 0, len(recipes))
	for _, r := range recipes {
		producible, _ := h.ledger.ProducibleBatches(r.Product)
		out = append(out, recipeJSON{
			Name:              r.Product,
			BatchSize:         r.BatchSize,
			Ingredients:       r.Ingredients,
			ProducibleBatches: producible,
		})
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) createRecipe(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string             `json:"name"`
		BatchSize   int                `json:"batch_size"`
		Ingredients map[string]float64 `json:"ingredients"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.ledger.CreateRecipe(r.Context(), req.Name, req.BatchSize, req.Ingredients); err != nil {
		h.writeError(w, err)
		return
	}
	h.log.Info("recipe created", "product", req.Name, "batch_size", req.BatchSize)
	h.writeJSON(w, http.StatusCreated, nil)
}

func (h *Handler) deleteRecipe(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if err := h.ledger.RemoveRecipe(r.Context(), name); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type consumptionJSON struct {
	Material string  `json:"material"`
	Quantity float64 `json:"quantity"`
	Cost     float64 `json:"cost"`
}

type productionJSON struct {
	Product       string            `json:"product"`
	Batches       int               `json:"batches"`
	UnitsProduced int               `json:"units_produced"`
	Cost          float64           `json:"cost"`
	Consumed      []consumptionJSON `json:"consumed"`
}

func (h *Handler) produce(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	var req struct {
		Batches int `json:"batches"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	res, err := h.ledger.Produce(r.Context(), name, req.Batches)
	if err != nil {
		h.writeError(w, err)
		return
	}
	productionsTotal.Inc()
	h.updateLowStockGauge()
	h.log.Info("production run",
		"product", res.Product, "batches", res.Batches,
		"units", res.UnitsProduced, "cost", res.Cost.String())

	out := productionJSON{
		Product:       res.Product,
		Batches:       res.Batches,
		UnitsProduced: res.UnitsProduced,
		Cost:          res.Cost.InexactFloat64(),
		Consumed:      []consumptionJSON{},
	}
	for _, c := range res.Consumed {
		out.Consumed = append(out.Consumed, consumptionJSON{
			Material: c.Material,
			Quantity: c.Quantity,
			Cost:     c.Cost.InexactFloat64(),
		})
	}
	h.writeJSON(w, http.StatusOK, out)
}

func toProductJSON(p ledger.Product) productJSON {
	return productJSON{Name: p.Name, Quantity: p.Quantity, Price: p.Price.InexactFloat64()}
}
