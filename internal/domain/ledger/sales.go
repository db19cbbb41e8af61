package ledger

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func (l *Ledger) SetPrice(ctx context.Context, product string, price decimal.Decimal) error {
	if price.IsNegative() {
		return validationf("price must be >= 0, got %s", price)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	p, ok := l.products[product]
	if !ok {
		return &NotFoundError{Kind: "product", Name: product}
	}
	p.Price = price
	return l.persist(ctx)
}

// Sell decrements product stock and appends a sale record with the price
// snapshotted at sale time.
func (l *Ledger) Sell(ctx context.Context, product string, quantity int) (Sale, error) {
	if quantity <= 0 {
		return Sale{}, validationf("sale quantity must be > 0, got %d", quantity)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	p, ok := l.products[product]
	if !ok {
		return Sale{}, &NotFoundError{Kind: "product", Name: product}
	}
	if !p.Price.IsPositive() {
		return Sale{}, validationf("price for %q is not set", product)
	}
	if p.Quantity < quantity {
		return Sale{}, &InsufficientStockError{Shortages: []Shortage{{
			Name:      product,
			Unit:      "units",
			Required:  float64(quantity),
			Available: float64(p.Quantity),
			Shortfall: float64(quantity - p.Quantity),
		}}}
	}

	p.Quantity -= quantity
	sale := Sale{
		ID:           uuid.New(),
		Product:      product,
		Quantity:     quantity,
		PricePerUnit: p.Price,
		Total:        p.Price.Mul(decimal.NewFromInt(int64(quantity))),
		Date:         time.Now().UTC(),
	}
	l.sales = append(l.sales, sale)

	if err := l.persist(ctx); err != nil {
		return Sale{}, err
	}
	return sale, nil
}

// DeleteSale removes the historical record only. Product stock is not
// restored.
func (l *Ledger) DeleteSale(ctx context.Context, id uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, s := range l.sales {
		if s.ID == id {
			l.sales = append(l.sales[:i], l.sales[i+1:]...)
			return l.persist(ctx)
		}
	}
	return &NotFoundError{Kind: "sale", Name: id.String()}
}

// ClearSales empties the sales log. Product stock is unaffected.
func (l *Ledger) ClearSales(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.sales = nil
	return l.persist(ctx)
}

// SalesSummary aggregates the sales log into total revenue and a
// per-product breakdown.
func (l *Ledger) SalesSummary() Summary {
	l.mu.RLock()
	defer l.mu.RUnlock()

	sum := Summary{TotalRevenue: decimal.Zero}
	byProduct := make(map[string]*ProductSales)
	for _, s := range l.sales {
		sum.TotalSales++
		sum.TotalRevenue = sum.TotalRevenue.Add(s.Total)
		ps, ok := byProduct[s.Product]
		if !ok {
			ps = &ProductSales{Product: s.Product, Revenue: decimal.Zero}
			byProduct[s.Product] = ps
		}
		ps.Quantity += s.Quantity
		ps.Revenue = ps.Revenue.Add(s.Total)
	}

	for _, ps := range byProduct {
		sum.Products = append(sum.Products, *ps)
	}
	sort.Slice(sum.Products, func(i, j int) bool { return sum.Products[i].Product < sum.Products[j].Product })
	return sum
}
