// Package reports builds xlsx exports of current stock and the sales log.
package reports

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/Spok95/bakery-ledger/internal/domain/ledger"
)

// Stock renders one sheet with per-material totals and one with the raw
// batch queues.
func Stock(materials []ledger.Material) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const matSheet = "Materials"
	if err := f.SetSheetName("Sheet1", matSheet); err != nil {
		return nil, err
	}
	headers := []string{"Material", "Unit", "Total", "Min threshold", "Low stock"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(matSheet, cell, h)
	}
	row := 2
	for _, m := range materials {
		total := m.TotalQuantity()
		_ = f.SetCellValue(matSheet, fmt.Sprintf("A%d", row), m.Name)
		_ = f.SetCellValue(matSheet, fmt.Sprintf("B%d", row), m.Unit)
		_ = f.SetCellValue(matSheet, fmt.Sprintf("C%d", row), total)
		_ = f.SetCellValue(matSheet, fmt.Sprintf("D%d", row), m.MinThreshold)
		if total < m.MinThreshold {
			_ = f.SetCellValue(matSheet, fmt.Sprintf("E%d", row), "LOW")
		}
		row++
	}

	const batchSheet = "Batches"
	if _, err := f.NewSheet(batchSheet); err != nil {
		return nil, err
	}
	for i, h := range []string{"Material", "Purchase date", "Quantity", "Cost per unit"} {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(batchSheet, cell, h)
	}
	row = 2
	for _, m := range materials {
		for _, b := range m.Batches {
			_ = f.SetCellValue(batchSheet, fmt.Sprintf("A%d", row), m.Name)
			_ = f.SetCellValue(batchSheet, fmt.Sprintf("B%d", row), b.PurchaseDate.Format("2006-01-02"))
			_ = f.SetCellValue(batchSheet, fmt.Sprintf("C%d", row), b.Quantity)
			_ = f.SetCellValue(batchSheet, fmt.Sprintf("D%d", row), b.CostPerUnit.InexactFloat64())
			row++
		}
	}

	return f.WriteToBuffer()
}

// Sales renders the sale log plus a revenue summary sheet.
func Sales(sales []ledger.Sale, summary ledger.Summary) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const salesSheet = "Sales"
	if err := f.SetSheetName("Sheet1", salesSheet); err != nil {
		return nil, err
	}
	for i, h := range []string{"Date", "Product", "Quantity", "Price per unit", "Total"} {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(salesSheet, cell, h)
	}
	row := 2
	for _, s := range sales {
		_ = f.SetCellValue(salesSheet, fmt.Sprintf("A%d", row), s.Date.Format("2006-01-02 15:04"))
		_ = f.SetCellValue(salesSheet, fmt.Sprintf("B%d", row), s.Product)
		_ = f.SetCellValue(salesSheet, fmt.Sprintf("C%d", row), s.Quantity)
		_ = f.SetCellValue(salesSheet, fmt.Sprintf("D%d", row), s.PricePerUnit.InexactFloat64())
		_ = f.SetCellValue(salesSheet, fmt.Sprintf("E%d", row), s.Total.InexactFloat64())
		row++
	}

	const sumSheet = "Summary"
	if _, err := f.NewSheet(sumSheet); err != nil {
		return nil, err
	}
	_ = f.SetCellValue(sumSheet, "A1", "Total sales")
	_ = f.SetCellValue(sumSheet, "B1", summary.TotalSales)
	_ = f.SetCellValue(sumSheet, "A2", "Total revenue")
	_ = f.SetCellValue(sumSheet, "B2", summary.TotalRevenue.InexactFloat64())
	for i, h := range []string{"Product", "Units sold", "Revenue"} {
		cell, _ := excelize.CoordinatesToCellName(i+1, 4)
		_ = f.SetCellValue(sumSheet, cell, h)
	}
	row = 5
	for _, ps := range summary.Products {
		_ = f.SetCellValue(sumSheet, fmt.Sprintf("A%d", row), ps.Product)
		_ = f.SetCellValue(sumSheet, fmt.Sprintf("B%d", row), ps.Quantity)
		_ = f.SetCellValue(sumSheet, fmt.Sprintf("C%d", row), ps.Revenue.InexactFloat64())
		row++
	}

	return f.WriteToBuffer()
}
