package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	productionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bakery_productions_total",
		Help: "Completed production runs.",
	})
	salesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bakery_sales_total",
		Help: "Recorded sales.",
	})
	lowStockMaterials = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bakery_low_stock_materials",
		Help: "Materials currently below their minimum threshold.",
	})
)

func (h *Handler) updateLowStockGauge() {
	lowStockMaterials.Set(float64(len(h.ledger.LowStock())))
}
