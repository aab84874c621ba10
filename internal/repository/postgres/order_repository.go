// backend-go/internal/repository/postgres/order_repository.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/andresuchdata/shopstock/backend-go/internal/domain"
	"github.com/andresuchdata/shopstock/backend-go/internal/pricing"
	"github.com/andresuchdata/shopstock/backend-go/internal/repository"
)

const orderColumns = `
	order_id, customer_id, customer_info, order_date, delivery_date, items,
	subtotal, discount_percent, discount_amount, total_after_discount,
	vat_amount, grand_total, notes, status, created_at
`

// CreateOrder persists the order and its stock log entries in one
// transaction. The product rows are locked first and stock is re-derived from
// the baseline plus log sums inside the transaction, so an order that raced
// past the service-level check still cannot oversell.
func (s *Store) CreateOrder(ctx context.Context, order domain.Order, entries []domain.StockLogEntry) (*domain.Order, error) {
	err := s.db.WithTx(ctx, func(tx *sql.Tx) error {
		if err := validateStockInTx(ctx, tx, order.Items); err != nil {
			return err
		}

		query := `
			INSERT INTO orders (` + orderColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		`
		_, err := tx.ExecContext(ctx, query,
			order.OrderID,
			order.CustomerID,
			order.CustomerInfo,
			order.OrderDate,
			order.DeliveryDate,
			order.Items,
			order.Subtotal,
			order.DiscountPercent,
			order.DiscountAmount,
			order.TotalAfterDiscount,
			order.VATAmount,
			order.GrandTotal,
			order.Notes,
			order.Status,
			order.CreatedAt,
		)
		if err != nil {
			return translateErr(fmt.Errorf("failed to insert order: %w", err))
		}

		return insertStockLogEntries(ctx, tx, entries)
	})
	if err != nil {
		return nil, err
	}

	return &order, nil
}

func validateStockInTx(ctx context.Context, tx *sql.Tx, items []domain.OrderItem) error {
	requested := make(map[string]map[string]int)
	for _, item := range items {
		if requested[item.ProductID] == nil {
			requested[item.ProductID] = make(map[string]int)
		}
		requested[item.ProductID][item.Size] += item.Quantity
	}

	for productID, sizes := range requested {
		// Locking the product row serializes concurrent orders per product.
		var baseline domain.StockBySize
		err := tx.QueryRowContext(ctx,
			`SELECT initial_stock_by_size FROM products WHERE product_id = $1 FOR UPDATE`,
			productID,
		).Scan(&baseline)
		if errors.Is(err, sql.ErrNoRows) {
			return repository.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to lock product %s: %w", productID, err)
		}

		deltas, err := stockDeltasInTx(ctx, tx, productID)
		if err != nil {
			return err
		}

		for size, want := range sizes {
			available := baseline[size] + deltas[size]
			if want > available {
				return &pricing.InsufficientStockError{
					ProductID: productID,
					Size:      size,
					Available: available,
					Requested: want,
				}
			}
		}
	}

	return nil
}

func stockDeltasInTx(ctx context.Context, tx *sql.Tx, productID string) (map[string]int, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT size, COALESCE(SUM(quantity_change), 0) FROM stock_log WHERE product_id = $1 GROUP BY size`,
		productID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to sum stock log for %s: %w", productID, err)
	}
	defer rows.Close()

	deltas := make(map[string]int)
	for rows.Next() {
		var size string
		var delta int
		if err := rows.Scan(&size, &delta); err != nil {
			return nil, fmt.Errorf("failed to scan stock delta: %w", err)
		}
		deltas[size] = delta
	}

	return deltas, rows.Err()
}

func (s *Store) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_id = $1`

	var order domain.Order
	err := sqlx.GetContext(ctx, s.db, &order, query, orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order %s: %w", orderID, err)
	}

	return &order, nil
}

func (s *Store) ListOrders(ctx context.Context) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`

	orders := []domain.Order{}
	if err := sqlx.SelectContext(ctx, s.db, &orders, query); err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return orders, nil
}

func (s *Store) ListOrdersByCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE customer_id = $1 ORDER BY created_at DESC`

	orders := []domain.Order{}
	if err := sqlx.SelectContext(ctx, s.db, &orders, query, customerID); err != nil {
		return nil, fmt.Errorf("failed to list orders for %s: %w", customerID, err)
	}

	return orders, nil
}

func (s *Store) UpdateOrderStatus(ctx context.Context, orderID, status string) (*domain.Order, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE orders SET status = $2 WHERE order_id = $1`, orderID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to update order %s status: %w", orderID, err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, repository.ErrNotFound
	}

	return s.GetOrder(ctx, orderID)
}

// DeleteOrder removes the order record only; its stock log entries stay in
// the append-only log. Returning goods is a separate positive adjustment.
func (s *Store) DeleteOrder(ctx context.Context, orderID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM orders WHERE order_id = $1`, orderID)
	if err != nil {
		return fmt.Errorf("failed to delete order %s: %w", orderID, err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return repository.ErrNotFound
	}

	return nil
}
