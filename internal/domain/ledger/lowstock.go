package ledger

import "sort"

// LowStock returns every material whose total quantity is strictly below
// its minimum threshold. Recomputed from current batch state on every call.
func (l *Ledger) LowStock() []Alert {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lowStockLocked()
}

func (l *Ledger) lowStockLocked() []Alert {
	var out []Alert
	for _, m := range l.materials {
		total := m.TotalQuantity()
		if total < m.MinThreshold {
			out = append(out, Alert{
				Material:  m.Name,
				Unit:      m.Unit,
				Current:   total,
				Threshold: m.MinThreshold,
				Shortfall: m.MinThreshold - total,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Material < out[j].Material })
	return out
}
