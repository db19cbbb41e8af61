package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DocumentVersion is the current persisted-document schema version.
const DocumentVersion = 1

const dateLayout = "2006-01-02"

// Document is the wire/persisted shape of the full ledger state. It is a
// plain mapping layer: stores and front ends see this, never the
// in-memory types.
type Document struct {
	Version   int                    `json:"version"`
	Materials map[string]MaterialDoc `json:"materials"`
	Recipes   map[string]RecipeDoc   `json:"recipes"`
	Products  map[string]ProductDoc  `json:"products"`
	Sales     []SaleDoc              `json:"sales"`
}

type MaterialDoc struct {
	Unit         string     `json:"unit"`
	MinThreshold float64    `json:"min_threshold"`
	Batches      []BatchDoc `json:"batches"`
}

type BatchDoc struct {
	Quantity     float64 `json:"quantity"`
	CostPerUnit  float64 `json:"cost_per_unit"`
	PurchaseDate string  `json:"purchase_date"`
}

type RecipeDoc struct {
	BatchSize   int                `json:"batch_size"`
	Ingredients map[string]float64 `json:"ingredients"`
}

type ProductDoc struct {
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type SaleDoc struct {
	ID           string    `json:"id"`
	Product      string    `json:"product"`
	Quantity     int       `json:"quantity"`
	PricePerUnit float64   `json:"price_per_unit"`
	Total        float64   `json:"total"`
	Date         time.Time `json:"date"`
}

// document snapshots current state. Caller holds l.mu (read or write).
func (l *Ledger) document() Document {
	doc := Document{
		Version:   DocumentVersion,
		Materials: make(map[string]MaterialDoc, len(l.materials)),
		Recipes:   make(map[string]RecipeDoc, len(l.recipes)),
		Products:  make(map[string]ProductDoc, len(l.products)),
		Sales:     make([]SaleDoc, 0, len(l.sales)),
	}
	for name, m := range l.materials {
		md := MaterialDoc{
			Unit:         m.Unit,
			MinThreshold: m.MinThreshold,
			Batches:      make([]BatchDoc, 0, len(m.Batches)),
		}
		for _, b := range m.Batches {
			md.Batches = append(md.Batches, BatchDoc{
				Quantity:     b.Quantity,
				CostPerUnit:  b.CostPerUnit.InexactFloat64(),
				PurchaseDate: b.PurchaseDate.Format(dateLayout),
			})
		}
		doc.Materials[name] = md
	}
	for product, r := range l.recipes {
		rd := RecipeDoc{BatchSize: r.BatchSize, Ingredients: make(map[string]float64, len(r.Ingredients))}
		for material, qty := range r.Ingredients {
			rd.Ingredients[material] = qty
		}
		doc.Recipes[product] = rd
	}
	for name, p := range l.products {
		doc.Products[name] = ProductDoc{Quantity: p.Quantity, Price: p.Price.InexactFloat64()}
	}
	for _, s := range l.sales {
		doc.Sales = append(doc.Sales, SaleDoc{
			ID:           s.ID.String(),
			Product:      s.Product,
			Quantity:     s.Quantity,
			PricePerUnit: s.PricePerUnit.InexactFloat64(),
			Total:        s.Total.InexactFloat64(),
			Date:         s.Date,
		})
	}
	return doc
}

// restore rebuilds state from a document. Batch order inside the document
// is the queue order and is kept as-is.
func (l *Ledger) restore(doc Document) error {
	if doc.Version != DocumentVersion {
		return fmt.Errorf("unsupported document version %d (want %d)", doc.Version, DocumentVersion)
	}

	l.materials = make(map[string]*Material, len(doc.Materials))
	for name, md := range doc.Materials {
		m := &Material{
			Name:         name,
			Unit:         md.Unit,
			MinThreshold: md.MinThreshold,
			Batches:      make([]MaterialBatch, 0, len(md.Batches)),
		}
		for _, bd := range md.Batches {
			date, err := time.Parse(dateLayout, bd.PurchaseDate)
			if err != nil {
				return fmt.Errorf("material %q: bad purchase date %q: %w", name, bd.PurchaseDate, err)
			}
			m.Batches = append(m.Batches, MaterialBatch{
				Quantity:     bd.Quantity,
				CostPerUnit:  decimal.NewFromFloat(bd.CostPerUnit),
				PurchaseDate: date,
			})
		}
		l.materials[name] = m
	}

	l.recipes = make(map[string]*Recipe, len(doc.Recipes))
	for product, rd := range doc.Recipes {
		r := &Recipe{Product: product, BatchSize: rd.BatchSize, Ingredients: make(map[string]float64, len(rd.Ingredients))}
		for material, qty := range rd.Ingredients {
			r.Ingredients[material] = qty
		}
		l.recipes[product] = r
	}

	l.products = make(map[string]*Product, len(doc.Products))
	for name, pd := range doc.Products {
		l.products[name] = &Product{Name: name, Quantity: pd.Quantity, Price: decimal.NewFromFloat(pd.Price)}
	}

	l.sales = make([]Sale, 0, len(doc.Sales))
	for _, sd := range doc.Sales {
		id, err := uuid.Parse(sd.ID)
		if err != nil {
			return fmt.Errorf("sale: bad id %q: %w", sd.ID, err)
		}
		l.sales = append(l.sales, Sale{
			ID:           id,
			Product:      sd.Product,
			Quantity:     sd.Quantity,
			PricePerUnit: decimal.NewFromFloat(sd.PricePerUnit),
			Total:        decimal.NewFromFloat(sd.Total),
			Date:         sd.Date,
		})
	}
	return nil
}
