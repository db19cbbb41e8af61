package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Material is a raw material with its FIFO batch queue.
// Batches are kept in ascending purchase-date order; batches with equal
// dates keep the order they were added in.
type Material struct {
	Name         string
	Unit         string
	MinThreshold float64
	Batches      []MaterialBatch
}

// TotalQuantity is the sum over all batches of the material.
func (m Material) TotalQuantity() float64 {
	var total float64
	for _, b := range m.Batches {
		total += b.Quantity
	}
	return total
}

type MaterialBatch struct {
	Quantity     float64
	CostPerUnit  decimal.Decimal
	PurchaseDate time.Time
}

// Recipe yields BatchSize units of the product per production batch.
// Ingredients maps material name to the quantity needed for one batch.
type Recipe struct {
	Product     string
	BatchSize   int
	Ingredients map[string]float64
}

type Product struct {
	Name     string
	Quantity int
	Price    decimal.Decimal
}

// Sale is an immutable point-of-sale record. PricePerUnit is a snapshot
// of the product price at sale time.
type Sale struct {
	ID           uuid.UUID
	Product      string
	Quantity     int
	PricePerUnit decimal.Decimal
	Total        decimal.Decimal
	Date         time.Time
}

// Alert marks a material whose total quantity fell below its threshold.
type Alert struct {
	Material  string
	Unit      string
	Current   float64
	Threshold float64
	Shortfall float64
}

// Consumption reports what one production run took from one material.
type Consumption struct {
	Material string
	Quantity float64
	Cost     decimal.Decimal
}

// ProductionResult is returned by Produce for cost-accounting callers.
type ProductionResult struct {
	Product       string
	Batches       int
	UnitsProduced int
	Cost          decimal.Decimal
	Consumed      []Consumption
}

type ProductSales struct {
	Product  string
	Quantity int
	Revenue  decimal.Decimal
}

type Summary struct {
	TotalSales   int
	TotalRevenue decimal.Decimal
	Products     []ProductSales
}
