package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestProduceConsumesFIFO(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	mustCreateMaterial(t, l, "Flour", "kg", 0)
	mustAddBatch(t, l, "Flour", 10, 1.00, "2026-01-01")
	mustAddBatch(t, l, "Flour", 20, 1.50, "2026-01-02")

	if err := l.CreateRecipe(ctx, "Bread", 1, map[string]float64{"Flour": 15}); err != nil {
		t.Fatal(err)
	}
	if _, err := l.Produce(ctx, "Bread", 1); err != nil {
		t.Fatal(err)
	}

	m, _ := l.Material("Flour")
	if len(m.Batches) != 1 {
		t.Fatalf("got %d batches, want 1", len(m.Batches))
	}
	if m.Batches[0].Quantity != 15 || m.Batches[0].PurchaseDate != date("2026-01-02") {
		t.Errorf("remaining batch = %+v, want 15 of 2026-01-02", m.Batches[0])
	}
}

func TestProduceWeightedCost(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	mustCreateMaterial(t, l, "Flour", "kg", 0)
	mustAddBatch(t, l, "Flour", 10, 2.00, "2026-01-01")
	mustAddBatch(t, l, "Flour", 10, 3.00, "2026-01-02")

	if err := l.CreateRecipe(ctx, "Bread", 4, map[string]float64{"Flour": 15}); err != nil {
		t.Fatal(err)
	}
	res, err := l.Produce(ctx, "Bread", 1)
	if err != nil {
		t.Fatal(err)
	}

	// 10×2 + 5×3 = 35
	if want := decimal.NewFromInt(35); !res.Cost.Equal(want) {
		t.Errorf("Cost = %s, want %s", res.Cost, want)
	}
	if res.UnitsProduced != 4 {
		t.Errorf("UnitsProduced = %d, want 4", res.UnitsProduced)
	}
	p, _ := l.Product("Bread")
	if p.Quantity != 4 {
		t.Errorf("product stock = %d, want 4", p.Quantity)
	}
}

func TestProduceAllOrNothing(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	mustCreateMaterial(t, l, "Flour", "kg", 0)
	mustCreateMaterial(t, l, "Sugar", "kg", 0)
	mustAddBatch(t, l, "Flour", 10, 2.00, "2026-01-01")
	mustAddBatch(t, l, "Sugar", 2, 1.50, "2026-01-01")

	if err := l.CreateRecipe(ctx, "Cake", 1, map[string]float64{"Flour": 5, "Sugar": 3}); err != nil {
		t.Fatal(err)
	}

	_, err := l.Produce(ctx, "Cake", 1)
	var sErr *InsufficientStockError
	if !errors.As(err, &sErr) {
		t.Fatalf("got %v, want InsufficientStockError", err)
	}
	if len(sErr.Shortages) != 1 {
		t.Fatalf("got %d shortages, want 1: %+v", len(sErr.Shortages), sErr.Shortages)
	}
	s := sErr.Shortages[0]
	if s.Name != "Sugar" || s.Shortfall != 1 {
		t.Errorf("shortage = %+v, want Sugar short by 1", s)
	}

	// Nothing consumed on failure.
	if got, _ := l.TotalQuantity("Flour"); got != 10 {
		t.Errorf("Flour = %g after failed production, want 10", got)
	}
	if got, _ := l.TotalQuantity("Sugar"); got != 2 {
		t.Errorf("Sugar = %g after failed production, want 2", got)
	}
}

func TestProduceShortageCheckIsIdempotent(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	mustCreateMaterial(t, l, "Flour", "kg", 0)
	mustAddBatch(t, l, "Flour", 4, 2.00, "2026-01-01")
	if err := l.CreateRecipe(ctx, "Bread", 1, map[string]float64{"Flour": 5}); err != nil {
		t.Fatal(err)
	}

	_, err1 := l.Produce(ctx, "Bread", 1)
	_, err2 := l.Produce(ctx, "Bread", 1)

	var s1, s2 *InsufficientStockError
	if !errors.As(err1, &s1) || !errors.As(err2, &s2) {
		t.Fatalf("got %v / %v, want InsufficientStockError twice", err1, err2)
	}
	if s1.Shortages[0] != s2.Shortages[0] {
		t.Errorf("repeated dry run differs: %+v vs %+v", s1.Shortages[0], s2.Shortages[0])
	}
}

func TestProduceSameDateBatchesConsumedInInsertionOrder(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	mustCreateMaterial(t, l, "Butter", "kg", 0)
	mustAddBatch(t, l, "Butter", 10, 5.00, "2026-01-01")
	mustAddBatch(t, l, "Butter", 10, 7.00, "2026-01-01")

	if err := l.CreateRecipe(ctx, "Croissant", 12, map[string]float64{"Butter": 10}); err != nil {
		t.Fatal(err)
	}
	res, err := l.Produce(ctx, "Croissant", 1)
	if err != nil {
		t.Fatal(err)
	}

	// The first-added batch (at 5.00) must go first, never the cheaper/
	// dearer decided by cost.
	if want := decimal.NewFromInt(50); !res.Cost.Equal(want) {
		t.Errorf("Cost = %s, want %s", res.Cost, want)
	}
	m, _ := l.Material("Butter")
	if len(m.Batches) != 1 || !m.Batches[0].CostPerUnit.Equal(decimal.NewFromInt(7)) {
		t.Errorf("remaining batches = %+v, want single batch at 7.00", m.Batches)
	}
}

func TestProduceValidation(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	var vErr *ValidationError
	if _, err := l.Produce(ctx, "Bread", 0); !errors.As(err, &vErr) {
		t.Fatalf("zero batches: got %v, want ValidationError", err)
	}

	var nfErr *NotFoundError
	if _, err := l.Produce(ctx, "Bread", 1); !errors.As(err, &nfErr) {
		t.Fatalf("unknown recipe: got %v, want NotFoundError", err)
	}
}

func TestProduceMultipleBatchesScalesRequirement(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	mustCreateMaterial(t, l, "Flour", "kg", 0)
	mustAddBatch(t, l, "Flour", 80, 2.00, "2026-01-01")

	if err := l.CreateRecipe(ctx, "Croissant", 12, map[string]float64{"Flour": 5.5}); err != nil {
		t.Fatal(err)
	}
	res, err := l.Produce(ctx, "Croissant", 2)
	if err != nil {
		t.Fatal(err)
	}
	if res.UnitsProduced != 24 {
		t.Errorf("UnitsProduced = %d, want 24", res.UnitsProduced)
	}
	if got, _ := l.TotalQuantity("Flour"); got != 69 {
		t.Errorf("Flour = %g, want 69", got)
	}
}

func TestProducibleBatches(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	mustCreateMaterial(t, l, "Flour", "kg", 0)
	mustCreateMaterial(t, l, "Sugar", "kg", 0)
	mustAddBatch(t, l, "Flour", 12, 2.00, "2026-01-01")
	mustAddBatch(t, l, "Sugar", 7, 1.00, "2026-01-01")

	if err := l.CreateRecipe(ctx, "Cake", 1, map[string]float64{"Flour": 5, "Sugar": 3}); err != nil {
		t.Fatal(err)
	}

	got, err := l.ProducibleBatches("Cake")
	if err != nil {
		t.Fatal(err)
	}
	// Flour allows 2, Sugar allows 2; floor of the minimum.
	if got != 2 {
		t.Errorf("ProducibleBatches = %d, want 2", got)
	}
}

func TestRecipeValidation(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	mustCreateMaterial(t, l, "Flour", "kg", 0)

	var nfErr *NotFoundError
	err := l.CreateRecipe(ctx, "Cake", 1, map[string]float64{"Plutonium": 1})
	if !errors.As(err, &nfErr) {
		t.Fatalf("unknown ingredient: got %v, want NotFoundError", err)
	}

	var vErr *ValidationError
	if err := l.CreateRecipe(ctx, "Cake", 0, map[string]float64{"Flour": 1}); !errors.As(err, &vErr) {
		t.Fatalf("zero batch size: got %v, want ValidationError", err)
	}
	if err := l.CreateRecipe(ctx, "Cake", 1, nil); !errors.As(err, &vErr) {
		t.Fatalf("no ingredients: got %v, want ValidationError", err)
	}
	if err := l.CreateRecipe(ctx, "Cake", 1, map[string]float64{"Flour": -2}); !errors.As(err, &vErr) {
		t.Fatalf("negative ingredient qty: got %v, want ValidationError", err)
	}
}

func TestCreateRecipeRegistersProduct(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	mustCreateMaterial(t, l, "Flour", "kg", 0)

	if err := l.CreateRecipe(ctx, "Bread", 2, map[string]float64{"Flour": 1}); err != nil {
		t.Fatal(err)
	}
	p, err := l.Product("Bread")
	if err != nil {
		t.Fatalf("product not auto-created: %v", err)
	}
	if p.Quantity != 0 || !p.Price.IsZero() {
		t.Errorf("auto-created product = %+v, want zero stock and price", p)
	}
}
