package ledger

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func (l *Ledger) CreateMaterial(ctx context.Context, name, unit string, minThreshold float64) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return validationf("material name must not be empty")
	}
	if minThreshold < 0 {
		return validationf("min threshold must be >= 0, got %g", minThreshold)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.materials[name]; ok {
		return conflictf("material %q already exists", name)
	}
	l.materials[name] = &Material{
		Name:         name,
		Unit:         unit,
		MinThreshold: minThreshold,
		Batches:      []MaterialBatch{},
	}
	return l.persist(ctx)
}

// AddBatch records a purchase of the material. The batch queue stays in
// ascending purchase-date order; a stable sort keeps same-date batches in
// the order they were added.
func (l *Ledger) AddBatch(ctx context.Context, material string, quantity float64, costPerUnit decimal.Decimal, purchaseDate time.Time) error {
	if quantity <= 0 {
		return validationf("batch quantity must be > 0, got %g", quantity)
	}
	if costPerUnit.IsNegative() {
		return validationf("cost per unit must be >= 0, got %s", costPerUnit)
	}

	l.mu.Lock()
	m, ok := l.materials[material]
	if !ok {
		l.mu.Unlock()
		return &NotFoundError{Kind: "material", Name: material}
	}

	m.Batches = append(m.Batches, MaterialBatch{
		Quantity:     quantity,
		CostPerUnit:  costPerUnit,
		PurchaseDate: purchaseDate,
	})
	sort.SliceStable(m.Batches, func(i, j int) bool {
		return m.Batches[i].PurchaseDate.Before(m.Batches[j].PurchaseDate)
	})

	err := l.persist(ctx)
	alerts := l.lowStockLocked()
	l.mu.Unlock()

	l.notify(alerts)
	return err
}

// RemoveBatch deletes one batch from the queue by its current position,
// an explicit stock correction.
func (l *Ledger) RemoveBatch(ctx context.Context, material string, index int) error {
	l.mu.Lock()
	m, ok := l.materials[material]
	if !ok {
		l.mu.Unlock()
		return &NotFoundError{Kind: "material", Name: material}
	}
	if index < 0 || index >= len(m.Batches) {
		l.mu.Unlock()
		return validationf("batch index %d out of range (material %q has %d batches)", index, material, len(m.Batches))
	}
	m.Batches = append(m.Batches[:index], m.Batches[index+1:]...)

	err := l.persist(ctx)
	alerts := l.lowStockLocked()
	l.mu.Unlock()

	l.notify(alerts)
	return err
}

func (l *Ledger) TotalQuantity(material string) (float64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	m, ok := l.materials[material]
	if !ok {
		return 0, &NotFoundError{Kind: "material", Name: material}
	}
	return m.TotalQuantity(), nil
}

// RemoveMaterial deletes a material. Blocked while any recipe still
// references it.
func (l *Ledger) RemoveMaterial(ctx context.Context, name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.materials[name]; !ok {
		return &NotFoundError{Kind: "material", Name: name}
	}

	var usedBy []string
	for product, r := range l.recipes {
		if _, ok := r.Ingredients[name]; ok {
			usedBy = append(usedBy, product)
		}
	}
	if len(usedBy) > 0 {
		sort.Strings(usedBy)
		return conflictf("material %q is used by recipes: %s", name, strings.Join(usedBy, ", "))
	}

	delete(l.materials, name)
	return l.persist(ctx)
}
