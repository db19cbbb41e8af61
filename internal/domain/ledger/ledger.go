package ledger

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Store persists the full ledger state as one versioned document.
// Save is called on every successful mutation, inside the mutation's
// critical section, so implementations see documents in commit order.
type Store interface {
	Load(ctx context.Context) (Document, bool, error)
	Save(ctx context.Context, doc Document) error
}

// AlertSink receives the current low-stock alerts after every mutation
// that touched material stock. Called outside the ledger lock.
type AlertSink interface {
	LowStock(alerts []Alert)
}

// Ledger owns all inventory state: materials with their batch queues,
// recipes, finished products and the sales log. One RWMutex serializes
// mutations; reads take the shared lock and observe a consistent snapshot.
type Ledger struct {
	mu        sync.RWMutex
	materials map[string]*Material
	recipes   map[string]*Recipe
	products  map[string]*Product
	sales     []Sale

	store Store // nil disables persistence (tests)
	sink  AlertSink
}

// Open builds a ledger from the stored document, or empty if the store
// has none. store and sink may be nil.
func Open(ctx context.Context, store Store, sink AlertSink) (*Ledger, error) {
	l := &Ledger{
		materials: make(map[string]*Material),
		recipes:   make(map[string]*Recipe),
		products:  make(map[string]*Product),
		store:     store,
		sink:      sink,
	}
	if store == nil {
		return l, nil
	}
	doc, ok, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	if ok {
		if err := l.restore(doc); err != nil {
			return nil, fmt.Errorf("restore ledger: %w", err)
		}
	}
	return l, nil
}

// persist saves the current state. Caller holds l.mu.
func (l *Ledger) persist(ctx context.Context) error {
	if l.store == nil {
		return nil
	}
	if err := l.store.Save(ctx, l.document()); err != nil {
		return fmt.Errorf("save ledger: %w", err)
	}
	return nil
}

func (l *Ledger) notify(alerts []Alert) {
	if l.sink != nil && len(alerts) > 0 {
		l.sink.LowStock(alerts)
	}
}

/* Read accessors. All return copies; callers never see live state. */

func (l *Ledger) Materials() []Material {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Material, 0, len(l.materials))
	for _, m := range l.materials {
		out = append(out, copyMaterial(m))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (l *Ledger) Material(name string) (Material, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	m, ok := l.materials[name]
	if !ok {
		return Material{}, &NotFoundError{Kind: "material", Name: name}
	}
	return copyMaterial(m), nil
}

func (l *Ledger) Recipes() []Recipe {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Recipe, 0, len(l.recipes))
	for _, r := range l.recipes {
		out = append(out, copyRecipe(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Product < out[j].Product })
	return out
}

func (l *Ledger) Recipe(product string) (Recipe, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	r, ok := l.recipes[product]
	if !ok {
		return Recipe{}, &NotFoundError{Kind: "recipe", Name: product}
	}
	return copyRecipe(r), nil
}

func (l *Ledger) Products() []Product {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Product, 0, len(l.products))
	for _, p := range l.products {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (l *Ledger) Product(name string) (Product, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	p, ok := l.products[name]
	if !ok {
		return Product{}, &NotFoundError{Kind: "product", Name: name}
	}
	return *p, nil
}

func (l *Ledger) Sales() []Sale {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Sale, len(l.sales))
	copy(out, l.sales)
	return out
}

func copyMaterial(m *Material) Material {
	out := *m
	out.Batches = make([]MaterialBatch, len(m.Batches))
	copy(out.Batches, m.Batches)
	return out
}

func copyRecipe(r *Recipe) Recipe {
	out := *r
	out.Ingredients = make(map[string]float64, len(r.Ingredients))
	for k, v := range r.Ingredients {
		out.Ingredients[k] = v
	}
	return out
}
