// backend-go/internal/service/inventory_service.go
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/shopstock/backend-go/internal/cache"
	"github.com/andresuchdata/shopstock/backend-go/internal/domain"
	"github.com/andresuchdata/shopstock/backend-go/internal/inventory"
	"github.com/andresuchdata/shopstock/backend-go/internal/pricing"
	"github.com/andresuchdata/shopstock/backend-go/internal/repository"
)

// InventoryService owns the product catalog and the stock change log. Every
// read that reports stock derives it from the baseline plus the log; nothing
// here ever stores a current-stock number.
type InventoryService struct {
	repo  repository.Repository
	cache cache.DashboardSummaryCache
}

func NewInventoryService(repo repository.Repository, cacheImpl cache.DashboardSummaryCache) *InventoryService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopDashboardCache()
	}
	return &InventoryService{repo: repo, cache: cacheImpl}
}

func (s *InventoryService) ListProductsWithStock(ctx context.Context) ([]domain.ProductWithStock, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := s.repo.ListStockLogEntries(ctx)
	if err != nil {
		return nil, err
	}

	return inventory.Reconcile(products, entries), nil
}

// GetProductWithStock returns one product with derived stock plus its stock
// change history.
func (s *InventoryService) GetProductWithStock(ctx context.Context, productID string) (*domain.ProductWithStock, []domain.StockLogEntry, error) {
	product, err := s.repo.GetProduct(ctx, productID)
	if err != nil {
		return nil, nil, err
	}

	entries, err := s.repo.ListStockLogEntriesForProduct(ctx, productID)
	if err != nil {
		return nil, nil, err
	}

	withStock := inventory.StockFor(*product, entries)

	return &withStock, entries, nil
}

func (s *InventoryService) CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return nil, err
	}

	s.invalidateDashboard(ctx)

	return created, nil
}

func (s *InventoryService) UpdateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateProduct(ctx, product)
	if err != nil {
		return nil, err
	}

	s.invalidateDashboard(ctx)

	return updated, nil
}

func (s *InventoryService) DeleteProduct(ctx context.Context, productID string) error {
	if err := s.repo.DeleteProduct(ctx, productID); err != nil {
		return err
	}

	s.invalidateDashboard(ctx)

	return nil
}

func (s *InventoryService) ListStockLogEntries(ctx context.Context) ([]domain.StockLogEntry, error) {
	return s.repo.ListStockLogEntries(ctx)
}

// AdjustStock appends one manual stock adjustment. Decreases that would push
// the derived stock below zero are rejected; sales go through order
// finalization, not here.
func (s *InventoryService) AdjustStock(ctx context.Context, productID, size string, quantityChange int, changeType string) (*domain.ProductWithStock, error) {
	if quantityChange == 0 {
		return nil, fmt.Errorf("%w: quantity change must not be zero", ErrInvalidInput)
	}
	if !validStockChangeType(changeType) {
		return nil, fmt.Errorf("%w: unknown stock change type %q", ErrInvalidInput, changeType)
	}

	product, err := s.repo.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	if size == "" {
		size = domain.DefaultSize
	}
	if !product.HasSize(size) {
		return nil, pricing.ErrUnknownSize
	}

	entries, err := s.repo.ListStockLogEntriesForProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	current := inventory.StockFor(*product, entries)
	if quantityChange < 0 && current.StockBySize[size]+quantityChange < 0 {
		return nil, &pricing.InsufficientStockError{
			ProductID: productID,
			Size:      size,
			Available: current.StockBySize[size],
			Requested: -quantityChange,
		}
	}

	entry := domain.StockLogEntry{
		LogID:          "LOG-" + uuid.NewString(),
		ProductID:      productID,
		Size:           size,
		QuantityChange: quantityChange,
		Type:           changeType,
		Timestamp:      time.Now().UTC(),
	}
	if err := s.repo.AppendStockLogEntries(ctx, []domain.StockLogEntry{entry}); err != nil {
		return nil, err
	}

	s.invalidateDashboard(ctx)

	updated := inventory.StockFor(*product, append(entries, entry))

	return &updated, nil
}

func (s *InventoryService) invalidateDashboard(ctx context.Context) {
	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("inventory: dashboard cache invalidation failed")
	}
}

func validStockChangeType(changeType string) bool {
	switch changeType {
	case domain.StockChangeIncrease, domain.StockChangeDecrease,
		domain.StockChangeSold, domain.StockChangeReturned:
		return true
	}
	return false
}

func validateProduct(product domain.Product) error {
	if strings.TrimSpace(product.ProductID) == "" {
		return fmt.Errorf("%w: productId is required", ErrInvalidInput)
	}
	if strings.TrimSpace(product.ProductName) == "" {
		return fmt.Errorf("%w: productName is required", ErrInvalidInput)
	}
	if product.RetailPrice < 0 || product.WholesalePrice < 0 {
		return fmt.Errorf("%w: base prices must not be negative", ErrInvalidInput)
	}

	// Per-size maps may only reference sizes the product actually carries.
	for size, qty := range product.InitialStockBySize {
		if !product.HasSize(size) {
			return fmt.Errorf("%w: initial stock references unknown size %q", ErrInvalidInput, size)
		}
		if qty < 0 {
			return fmt.Errorf("%w: initial stock for size %q must not be negative", ErrInvalidInput, size)
		}
	}
	for size, price := range product.PricesBySize {
		if !product.HasSize(size) {
			return fmt.Errorf("%w: price references unknown size %q", ErrInvalidInput, size)
		}
		if price.RetailPrice < 0 || price.WholesalePrice < 0 {
			return fmt.Errorf("%w: prices for size %q must not be negative", ErrInvalidInput, size)
		}
	}

	return nil
}
