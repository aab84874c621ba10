// backend-go/internal/repository/postgres/product_repository.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/andresuchdata/shopstock/backend-go/internal/domain"
	"github.com/andresuchdata/shopstock/backend-go/internal/repository"
)

const productColumns = `
	product_id, product_name, category, available_sizes,
	initial_stock_by_size, prices_by_size, retail_price, wholesale_price,
	created_at, updated_at
`

func (s *Store) ListProducts(ctx context.Context) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY product_id`

	products := []domain.Product{}
	if err := sqlx.SelectContext(ctx, s.db, &products, query); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return products, nil
}

func (s *Store) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE product_id = $1`

	var product domain.Product
	err := sqlx.GetContext(ctx, s.db, &product, query, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product %s: %w", productID, err)
	}

	return &product, nil
}

func (s *Store) CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	query := `
		INSERT INTO products (
			product_id, product_name, category, available_sizes,
			initial_stock_by_size, prices_by_size, retail_price, wholesale_price,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
	`

	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, query,
		product.ProductID,
		product.ProductName,
		product.Category,
		product.AvailableSizes,
		product.InitialStockBySize,
		product.PricesBySize,
		product.RetailPrice,
		product.WholesalePrice,
		now,
	)
	if err != nil {
		return nil, translateErr(fmt.Errorf("failed to insert product: %w", err))
	}

	product.CreatedAt = now
	product.UpdatedAt = now

	return &product, nil
}

func (s *Store) UpdateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	query := `
		UPDATE products SET
			product_name = $2,
			category = $3,
			available_sizes = $4,
			initial_stock_by_size = $5,
			prices_by_size = $6,
			retail_price = $7,
			wholesale_price = $8,
			updated_at = $9
		WHERE product_id = $1
	`

	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, query,
		product.ProductID,
		product.ProductName,
		product.Category,
		product.AvailableSizes,
		product.InitialStockBySize,
		product.PricesBySize,
		product.RetailPrice,
		product.WholesalePrice,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update product %s: %w", product.ProductID, err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, repository.ErrNotFound
	}

	product.UpdatedAt = now

	return &product, nil
}

func (s *Store) DeleteProduct(ctx context.Context, productID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE product_id = $1`, productID)
	if err != nil {
		return fmt.Errorf("failed to delete product %s: %w", productID, err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (s *Store) ListStockLogEntries(ctx context.Context) ([]domain.StockLogEntry, error) {
	query := `
		SELECT log_id, product_id, size, quantity_change, change_type, created_at
		FROM stock_log
		ORDER BY created_at
	`

	entries := []domain.StockLogEntry{}
	if err := sqlx.SelectContext(ctx, s.db, &entries, query); err != nil {
		return nil, fmt.Errorf("failed to list stock log: %w", err)
	}

	return entries, nil
}

func (s *Store) ListStockLogEntriesForProduct(ctx context.Context, productID string) ([]domain.StockLogEntry, error) {
	query := `
		SELECT log_id, product_id, size, quantity_change, change_type, created_at
		FROM stock_log
		WHERE product_id = $1
		ORDER BY created_at
	`

	entries := []domain.StockLogEntry{}
	if err := sqlx.SelectContext(ctx, s.db, &entries, query, productID); err != nil {
		return nil, fmt.Errorf("failed to list stock log for %s: %w", productID, err)
	}

	return entries, nil
}

func (s *Store) AppendStockLogEntries(ctx context.Context, entries []domain.StockLogEntry) error {
	if len(entries) == 0 {
		return nil
	}

	return s.db.WithTx(ctx, func(tx *sql.Tx) error {
		return insertStockLogEntries(ctx, tx, entries)
	})
}

func insertStockLogEntries(ctx context.Context, tx *sql.Tx, entries []domain.StockLogEntry) error {
	query := `
		INSERT INTO stock_log (log_id, product_id, size, quantity_change, change_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, entry := range entries {
		_, err := stmt.ExecContext(ctx,
			entry.LogID,
			entry.ProductID,
			entry.Size,
			entry.QuantityChange,
			entry.Type,
			entry.Timestamp,
		)
		if err != nil {
			return fmt.Errorf("failed to insert stock log entry: %w", err)
		}
	}

	return nil
}
