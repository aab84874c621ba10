// backend-go/internal/repository/repository.go
package repository

import (
	"context"
	"errors"

	"github.com/andresuchdata/shopstock/backend-go/internal/domain"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

// Repository is the data-access collaborator for the admin panel. Stock is
// never stored directly: it is derived from products' baselines plus the
// append-only stock log, so the interface only ever appends log entries.
//
// CreateOrder must apply the order and its log entries atomically, and must
// re-validate the requested quantities against stock derived inside the same
// transaction, returning *pricing.InsufficientStockError when a concurrent
// order depleted the stock between pricing and persistence.
type Repository interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, productID string) (*domain.Product, error)
	CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, product domain.Product) (*domain.Product, error)
	DeleteProduct(ctx context.Context, productID string) error

	ListStockLogEntries(ctx context.Context) ([]domain.StockLogEntry, error)
	ListStockLogEntriesForProduct(ctx context.Context, productID string) ([]domain.StockLogEntry, error)
	AppendStockLogEntries(ctx context.Context, entries []domain.StockLogEntry) error

	ListCustomers(ctx context.Context) ([]domain.Customer, error)
	GetCustomer(ctx context.Context, customerID string) (*domain.Customer, error)
	CreateCustomer(ctx context.Context, customer domain.Customer) (*domain.Customer, error)
	UpdateCustomer(ctx context.Context, customer domain.Customer) (*domain.Customer, error)
	DeleteCustomer(ctx context.Context, customerID string) error

	CreateOrder(ctx context.Context, order domain.Order, entries []domain.StockLogEntry) (*domain.Order, error)
	GetOrder(ctx context.Context, orderID string) (*domain.Order, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)
	ListOrdersByCustomer(ctx context.Context, customerID string) ([]domain.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID, status string) (*domain.Order, error)
	DeleteOrder(ctx context.Context, orderID string) error
}
