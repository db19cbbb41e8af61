package ledger

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
)

// CreateRecipe registers a recipe and, if the product is new, a
// zero-stock product entry for it.
func (l *Ledger) CreateRecipe(ctx context.Context, product string, batchSize int, ingredients map[string]float64) error {
	product = strings.TrimSpace(product)
	if product == "" {
		return validationf("product name must not be empty")
	}
	if batchSize <= 0 {
		return validationf("batch size must be > 0, got %d", batchSize)
	}
	if len(ingredients) == 0 {
		return validationf("recipe needs at least one ingredient")
	}
	for material, qty := range ingredients {
		if qty <= 0 {
			return validationf("ingredient %q quantity must be > 0, got %g", material, qty)
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.recipes[product]; ok {
		return conflictf("recipe for %q already exists", product)
	}
	for material := range ingredients {
		if _, ok := l.materials[material]; !ok {
			return &NotFoundError{Kind: "material", Name: material}
		}
	}

	r := &Recipe{Product: product, BatchSize: batchSize, Ingredients: make(map[string]float64, len(ingredients))}
	for material, qty := range ingredients {
		r.Ingredients[material] = qty
	}
	l.recipes[product] = r

	if _, ok := l.products[product]; !ok {
		l.products[product] = &Product{Name: product, Quantity: 0, Price: decimal.Zero}
	}
	return l.persist(ctx)
}

func (l *Ledger) RemoveRecipe(ctx context.Context, product string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.recipes[product]; !ok {
		return &NotFoundError{Kind: "recipe", Name: product}
	}
	delete(l.recipes, product)
	return l.persist(ctx)
}
