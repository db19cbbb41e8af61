package ledger

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

// Produce converts raw materials into finished product stock according to
// the product's recipe.
//
// The run is all-or-nothing: availability of every ingredient is checked
// before anything is consumed, and a shortage aborts with an
// InsufficientStockError listing every short material. Consumption walks
// each batch queue oldest first and returns the weighted cost of what was
// taken.
func (l *Ledger) Produce(ctx context.Context, product string, batches int) (ProductionResult, error) {
	if batches <= 0 {
		return ProductionResult{}, validationf("batch count must be > 0, got %d", batches)
	}

	l.mu.Lock()
	res, err := l.produceLocked(ctx, product, batches)
	var alerts []Alert
	if err == nil {
		alerts = l.lowStockLocked()
	}
	l.mu.Unlock()

	l.notify(alerts)
	return res, err
}

func (l *Ledger) produceLocked(ctx context.Context, product string, batches int) (ProductionResult, error) {
	recipe, ok := l.recipes[product]
	if !ok {
		return ProductionResult{}, &NotFoundError{Kind: "recipe", Name: product}
	}

	// Deterministic material order for shortage reports and consumption.
	names := make([]string, 0, len(recipe.Ingredients))
	for material := range recipe.Ingredients {
		names = append(names, material)
	}
	sort.Strings(names)

	// Dry run: all ingredients checked before any batch is touched.
	var short []Shortage
	for _, material := range names {
		required := recipe.Ingredients[material] * float64(batches)
		m, ok := l.materials[material]
		if !ok {
			return ProductionResult{}, &NotFoundError{Kind: "material", Name: material}
		}
		available := m.TotalQuantity()
		if available < required {
			short = append(short, Shortage{
				Name:      material,
				Unit:      m.Unit,
				Required:  required,
				Available: available,
				Shortfall: required - available,
			})
		}
	}
	if len(short) > 0 {
		return ProductionResult{}, &InsufficientStockError{Shortages: short}
	}

	res := ProductionResult{
		Product:       product,
		Batches:       batches,
		UnitsProduced: batches * recipe.BatchSize,
		Cost:          decimal.Zero,
	}
	for _, material := range names {
		required := recipe.Ingredients[material] * float64(batches)
		c, err := consumeFIFO(l.materials[material], required)
		if err != nil {
			return ProductionResult{}, err
		}
		res.Consumed = append(res.Consumed, c)
		res.Cost = res.Cost.Add(c.Cost)
	}

	p, ok := l.products[product]
	if !ok {
		p = &Product{Name: product, Price: decimal.Zero}
		l.products[product] = p
	}
	p.Quantity += res.UnitsProduced

	if err := l.persist(ctx); err != nil {
		return ProductionResult{}, err
	}
	return res, nil
}

// consumeFIFO takes required units from the front of the batch queue.
// The caller has already verified availability; running out here means a
// serialization bug, reported as ErrInvariant.
func consumeFIFO(m *Material, required float64) (Consumption, error) {
	c := Consumption{Material: m.Name, Quantity: required, Cost: decimal.Zero}

	remaining := required
	for remaining > 0 && len(m.Batches) > 0 {
		b := &m.Batches[0]
		take := math.Min(b.Quantity, remaining)
		c.Cost = c.Cost.Add(b.CostPerUnit.Mul(decimal.NewFromFloat(take)))
		b.Quantity -= take
		remaining -= take
		if b.Quantity <= 0 {
			m.Batches = m.Batches[1:]
		}
	}
	if remaining > 0 {
		return Consumption{}, fmt.Errorf("%w: batch queue of %q exhausted with %g still required", ErrInvariant, m.Name, remaining)
	}
	return c, nil
}

// ProducibleBatches reports how many whole recipe batches current stock
// allows for the product.
func (l *Ledger) ProducibleBatches(product string) (int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	recipe, ok := l.recipes[product]
	if !ok {
		return 0, &NotFoundError{Kind: "recipe", Name: product}
	}

	max := math.MaxInt
	for material, perBatch := range recipe.Ingredients {
		m, ok := l.materials[material]
		if !ok {
			return 0, nil
		}
		possible := int(m.TotalQuantity() / perBatch)
		if possible < max {
			max = possible
		}
	}
	if max == math.MaxInt {
		return 0, nil
	}
	return max, nil
}
