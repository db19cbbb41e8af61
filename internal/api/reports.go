package api

import (
	"net/http"

	"github.com/Spok95/bakery-ledger/internal/reports"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (h *Handler) stockReport(w http.ResponseWriter, _ *http.Request) {
	buf, err := reports.Stock(h.ledger.Materials())
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="stock.xlsx"`)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) salesReport(w http.ResponseWriter, _ *http.Request) {
	buf, err := reports.Sales(h.ledger.Sales(), h.ledger.SalesSummary())
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="sales.xlsx"`)
	_, _ = w.Write(buf.Bytes())
}
