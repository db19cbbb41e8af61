package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Spok95/bakery-ledger/internal/domain/ledger"
)

type errorResponse struct {
	Error     string         `json:"error"`
	Shortages []shortageJSON `json:"shortages,omitempty"`
}

type shortageJSON struct {
	Name      string  `json:"name"`
	Unit      string  `json:"unit"`
	Required  float64 `json:"required"`
	Available float64 `json:"available"`
	Shortfall float64 `json:"shortfall"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			h.log.Error("encode response", "err", err)
		}
	}
}

// writeError maps the engine's error taxonomy onto HTTP statuses:
// validation 400, not found 404, conflict/shortage 409, anything else
// (including invariant breaches) 500.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var (
		vErr  *ledger.ValidationError
		nfErr *ledger.NotFoundError
		cErr  *ledger.ConflictError
		sErr  *ledger.InsufficientStockError
	)
	switch {
	case errors.As(err, &vErr):
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: vErr.Error()})
	case errors.As(err, &nfErr):
		h.writeJSON(w, http.StatusNotFound, errorResponse{Error: nfErr.Error()})
	case errors.As(err, &cErr):
		h.writeJSON(w, http.StatusConflict, errorResponse{Error: cErr.Error()})
	case errors.As(err, &sErr):
		resp := errorResponse{Error: sErr.Error()}
		for _, s := range sErr.Shortages {
			resp.Shortages = append(resp.Shortages, shortageJSON(s))
		}
		h.writeJSON(w, http.StatusConflict, resp)
	default:
		h.log.Error("internal error", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error()})
		return false
	}
	return true
}
