// Package postgres persists the ledger document relationally. Every save
// rewrites the whole document inside one transaction, so the tables always
// hold exactly one consistent snapshot.
package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Spok95/bakery-ledger/internal/domain/ledger"
)

const dateLayout = "2006-01-02"

type Store struct{ pool *pgxpool.Pool }

func New(pool *pgxpool.Pool) *Store { return &Store{pool: pool} }

func (s *Store) Load(ctx context.Context) (ledger.Document, bool, error) {
	doc := ledger.Document{
		Version:   ledger.DocumentVersion,
		Materials: map[string]ledger.MaterialDoc{},
		Recipes:   map[string]ledger.RecipeDoc{},
		Products:  map[string]ledger.ProductDoc{},
		Sales:     []ledger.SaleDoc{},
	}

	rows, err := s.pool.Query(ctx, `SELECT name, unit, min_threshold FROM materials`)
	if err != nil {
		return doc, false, err
	}
	for rows.Next() {
		var name string
		var md ledger.MaterialDoc
		if err := rows.Scan(&name, &md.Unit, &md.MinThreshold); err != nil {
			rows.Close()
			return doc, false, err
		}
		md.Batches = []ledger.BatchDoc{}
		doc.Materials[name] = md
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return doc, false, err
	}

	rows, err = s.pool.Query(ctx, `
		SELECT material_name, quantity, cost_per_unit, purchase_date
		FROM material_batches
		ORDER BY material_name, position
	`)
	if err != nil {
		return doc, false, err
	}
	for rows.Next() {
		var name string
		var bd ledger.BatchDoc
		var date time.Time
		if err := rows.Scan(&name, &bd.Quantity, &bd.CostPerUnit, &date); err != nil {
			rows.Close()
			return doc, false, err
		}
		bd.PurchaseDate = date.Format(dateLayout)
		md := doc.Materials[name]
		md.Batches = append(md.Batches, bd)
		doc.Materials[name] = md
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return doc, false, err
	}

	rows, err = s.pool.Query(ctx, `SELECT product, batch_size FROM recipes`)
	if err != nil {
		return doc, false, err
	}
	for rows.Next() {
		var product string
		var rd ledger.RecipeDoc
		if err := rows.Scan(&product, &rd.BatchSize); err != nil {
			rows.Close()
			return doc, false, err
		}
		rd.Ingredients = map[string]float64{}
		doc.Recipes[product] = rd
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return doc, false, err
	}

	rows, err = s.pool.Query(ctx, `SELECT product, material_name, quantity FROM recipe_ingredients`)
	if err != nil {
		return doc, false, err
	}
	for rows.Next() {
		var product, material string
		var qty float64
		if err := rows.Scan(&product, &material, &qty); err != nil {
			rows.Close()
			return doc, false, err
		}
		doc.Recipes[product].Ingredients[material] = qty
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return doc, false, err
	}

	rows, err = s.pool.Query(ctx, `SELECT name, quantity, price FROM products`)
	if err != nil {
		return doc, false, err
	}
	for rows.Next() {
		var name string
		var pd ledger.ProductDoc
		if err := rows.Scan(&name, &pd.Quantity, &pd.Price); err != nil {
			rows.Close()
			return doc, false, err
		}
		doc.Products[name] = pd
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return doc, false, err
	}

	rows, err = s.pool.Query(ctx, `
		SELECT id, product, quantity, price_per_unit, total, sold_at
		FROM sales
		ORDER BY position
	`)
	if err != nil {
		return doc, false, err
	}
	for rows.Next() {
		var sd ledger.SaleDoc
		if err := rows.Scan(&sd.ID, &sd.Product, &sd.Quantity, &sd.PricePerUnit, &sd.Total, &sd.Date); err != nil {
			rows.Close()
			return doc, false, err
		}
		doc.Sales = append(doc.Sales, sd)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return doc, false, err
	}

	return doc, true, nil
}

func (s *Store) Save(ctx context.Context, doc ledger.Document) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Children first, then parents.
	for _, q := range []string{
		`DELETE FROM recipe_ingredients`,
		`DELETE FROM material_batches`,
		`DELETE FROM sales`,
		`DELETE FROM recipes`,
		`DELETE FROM materials`,
		`DELETE FROM products`,
	} {
		if _, err := tx.Exec(ctx, q); err != nil {
			return err
		}
	}

	for name, md := range doc.Materials {
		if _, err := tx.Exec(ctx, `
			INSERT INTO materials (name, unit, min_threshold)
			VALUES ($1,$2,$3)
		`, name, md.Unit, md.MinThreshold); err != nil {
			return err
		}
		for pos, bd := range md.Batches {
			date, err := time.Parse(dateLayout, bd.PurchaseDate)
			if err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, `
				INSERT INTO material_batches (material_name, position, quantity, cost_per_unit, purchase_date)
				VALUES ($1,$2,$3,$4,$5)
			`, name, pos, bd.Quantity, bd.CostPerUnit, date); err != nil {
				return err
			}
		}
	}

	for name, pd := range doc.Products {
		if _, err := tx.Exec(ctx, `
			INSERT INTO products (name, quantity, price)
			VALUES ($1,$2,$3)
		`, name, pd.Quantity, pd.Price); err != nil {
			return err
		}
	}

	for product, rd := range doc.Recipes {
		if _, err := tx.Exec(ctx, `
			INSERT INTO recipes (product, batch_size)
			VALUES ($1,$2)
		`, product, rd.BatchSize); err != nil {
			return err
		}
		for material, qty := range rd.Ingredients {
			if _, err := tx.Exec(ctx, `
				INSERT INTO recipe_ingredients (product, material_name, quantity)
				VALUES ($1,$2,$3)
			`, product, material, qty); err != nil {
				return err
			}
		}
	}

	for pos, sd := range doc.Sales {
		if _, err := tx.Exec(ctx, `
			INSERT INTO sales (id, position, product, quantity, price_per_unit, total, sold_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7)
		`, sd.ID, pos, sd.Product, sd.Quantity, sd.PricePerUnit, sd.Total, sd.Date); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
