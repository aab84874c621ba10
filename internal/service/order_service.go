// backend-go/internal/service/order_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/shopstock/backend-go/internal/cache"
	"github.com/andresuchdata/shopstock/backend-go/internal/domain"
	"github.com/andresuchdata/shopstock/backend-go/internal/inventory"
	"github.com/andresuchdata/shopstock/backend-go/internal/pricing"
	"github.com/andresuchdata/shopstock/backend-go/internal/repository"
)

// OrderLineInput is one requested cart line. Prices never come from the
// client; they are resolved here from the customer's tier.
type OrderLineInput struct {
	ProductID string `json:"productId" binding:"required"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity" binding:"required"`
}

type CreateOrderInput struct {
	CustomerID   string           `json:"customerId" binding:"required"`
	OrderDate    time.Time        `json:"orderDate"`
	DeliveryDate time.Time        `json:"deliveryDate"`
	Notes        string           `json:"notes"`
	Lines        []OrderLineInput `json:"items" binding:"required"`
}

type OrderService struct {
	repo  repository.Repository
	cache cache.DashboardSummaryCache
}

func NewOrderService(repo repository.Repository, cacheImpl cache.DashboardSummaryCache) *OrderService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopDashboardCache()
	}
	return &OrderService{repo: repo, cache: cacheImpl}
}

// Create prices the requested lines for the customer's tier, validates them
// against derived stock, and persists the order snapshot together with its
// negative stock log entries. The repository re-validates inside its own
// transaction, so a concurrent order cannot slip past the check here.
func (s *OrderService) Create(ctx context.Context, input CreateOrderInput) (*domain.Order, error) {
	customer, err := s.repo.GetCustomer(ctx, input.CustomerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, pricing.ErrUnknownCustomer
		}
		return nil, err
	}

	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := s.repo.ListStockLogEntries(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]domain.Product, len(products))
	for _, p := range products {
		byID[p.ProductID] = p
	}

	cart := make([]domain.OrderItem, 0, len(input.Lines))
	for _, line := range input.Lines {
		product, ok := byID[line.ProductID]
		if !ok {
			return nil, pricing.ErrUnknownProduct
		}

		size := line.Size
		if size == "" {
			size = domain.DefaultSize
		}

		item, err := pricing.BuildLine(product, size, line.Quantity, customer.CustomerType)
		if err != nil {
			return nil, err
		}
		cart = append(cart, item)
	}

	orderDate := input.OrderDate
	if orderDate.IsZero() {
		orderDate = time.Now().UTC()
	}

	stock := inventory.StockMap(inventory.Reconcile(products, entries))
	order, logEntries, err := pricing.FinalizeOrder(*customer, cart, orderDate, input.DeliveryDate, input.Notes, stock)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.CreateOrder(ctx, *order, logEntries)
	if err != nil {
		return nil, err
	}

	s.invalidateDashboard(ctx)

	return created, nil
}

func (s *OrderService) Get(ctx context.Context, orderID string) (*domain.Order, error) {
	return s.repo.GetOrder(ctx, orderID)
}

func (s *OrderService) List(ctx context.Context) ([]domain.Order, error) {
	return s.repo.ListOrders(ctx)
}

func (s *OrderService) ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	return s.repo.ListOrdersByCustomer(ctx, customerID)
}

// UpdateStatus moves an order to any recognized status. The panel allows
// jumping states freely, so there is no transition table.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID, status string) (*domain.Order, error) {
	normalized, ok := domain.ParseOrderStatus(status)
	if !ok {
		return nil, fmt.Errorf("%w: unknown order status %q", ErrInvalidInput, status)
	}

	updated, err := s.repo.UpdateOrderStatus(ctx, orderID, normalized)
	if err != nil {
		return nil, err
	}

	s.invalidateDashboard(ctx)

	return updated, nil
}

func (s *OrderService) Delete(ctx context.Context, orderID string) error {
	if err := s.repo.DeleteOrder(ctx, orderID); err != nil {
		return err
	}

	s.invalidateDashboard(ctx)

	return nil
}

func (s *OrderService) invalidateDashboard(ctx context.Context) {
	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("orders: dashboard cache invalidation failed")
	}
}
