// backend-go/internal/service/dashboard_service.go
package service

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/shopstock/backend-go/internal/cache"
	"github.com/andresuchdata/shopstock/backend-go/internal/domain"
	"github.com/andresuchdata/shopstock/backend-go/internal/inventory"
	"github.com/andresuchdata/shopstock/backend-go/internal/repository"
)

const (
	defaultWindowDays = 30
	lowStockThreshold = 10
	topProductsLimit  = 5
	recentOrdersLimit = 5
)

// DashboardService aggregates orders and derived stock into the panel's
// landing-page payload. Summaries are cached per window; every write path
// invalidates the whole cache.
type DashboardService struct {
	repo  repository.Repository
	cache cache.DashboardSummaryCache
}

func NewDashboardService(repo repository.Repository, cacheImpl cache.DashboardSummaryCache) *DashboardService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopDashboardCache()
	}
	return &DashboardService{repo: repo, cache: cacheImpl}
}

func (s *DashboardService) Summary(ctx context.Context, windowDays int) (*domain.DashboardSummary, error) {
	if windowDays <= 0 {
		windowDays = defaultWindowDays
	}

	if summary, ok, err := s.cache.GetSummary(ctx, windowDays); err == nil && ok {
		return summary, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("dashboard: cache get summary failed")
	}

	summary, err := s.computeSummary(ctx, windowDays)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetSummary(ctx, windowDays, summary); err != nil {
		log.Warn().Err(err).Msg("dashboard: cache set summary failed")
	}

	return summary, nil
}

func (s *DashboardService) computeSummary(ctx context.Context, windowDays int) (*domain.DashboardSummary, error) {
	orders, err := s.repo.ListOrders(ctx)
	if err != nil {
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

	windowed := ordersInWindow(orders, windowDays)

	summary := &domain.DashboardSummary{
		WindowDays:       windowDays,
		TopProducts:      topProducts(windowed, topProductsLimit),
		LowStockProducts: lowStockProducts(inventory.Reconcile(products, entries)),
		RecentOrders:     recentOrders(orders, recentOrdersLimit),
	}

	totalItems := 0
	for _, o := range windowed {
		summary.TotalRevenue += o.GrandTotal
		for _, item := range o.Items {
			totalItems += item.Quantity
		}
	}
	summary.TotalRevenue = round2(summary.TotalRevenue)
	summary.TotalOrders = len(windowed)
	summary.TotalItems = totalItems
	if summary.TotalOrders > 0 {
		summary.AvgOrderValue = round2(summary.TotalRevenue / float64(summary.TotalOrders))
	}

	return summary, nil
}

// DailySales buckets revenue per calendar day over the trailing window,
// filling in zero rows so the chart has no gaps.
func (s *DashboardService) DailySales(ctx context.Context, windowDays int) ([]domain.DailySales, error) {
	if windowDays <= 0 {
		windowDays = defaultWindowDays
	}

	orders, err := s.repo.ListOrders(ctx)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]*domain.DailySales, windowDays)
	series := make([]domain.DailySales, 0, windowDays)

	today := time.Now().UTC().Truncate(24 * time.Hour)
	for i := windowDays - 1; i >= 0; i-- {
		date := today.AddDate(0, 0, -i).Format("2006-01-02")
		series = append(series, domain.DailySales{Date: date})
		byDay[date] = &series[len(series)-1]
	}

	for _, o := range ordersInWindow(orders, windowDays) {
		day, ok := byDay[o.OrderDate.UTC().Format("2006-01-02")]
		if !ok {
			continue
		}
		day.Revenue = round2(day.Revenue + o.GrandTotal)
		day.Orders++
	}

	return series, nil
}

// CategoryBreakdown counts products and sums derived stock per category.
func (s *DashboardService) CategoryBreakdown(ctx context.Context) ([]domain.CategoryBreakdown, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := s.repo.ListStockLogEntries(ctx)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]*domain.CategoryBreakdown)
	for _, p := range inventory.Reconcile(products, entries) {
		name := p.Category
		if name == "" {
			name = "อื่นๆ"
		}

		entry, ok := byName[name]
		if !ok {
			entry = &domain.CategoryBreakdown{Name: name}
			byName[name] = entry
		}
		entry.Count++
		entry.Stock += p.TotalStock
	}

	breakdown := make([]domain.CategoryBreakdown, 0, len(byName))
	for _, entry := range byName {
		breakdown = append(breakdown, *entry)
	}
	sort.Slice(breakdown, func(i, j int) bool { return breakdown[i].Name < breakdown[j].Name })

	return breakdown, nil
}

func ordersInWindow(orders []domain.Order, windowDays int) []domain.Order {
	cutoff := time.Now().UTC().AddDate(0, 0, -windowDays)

	windowed := make([]domain.Order, 0, len(orders))
	for _, o := range orders {
		if o.OrderDate.After(cutoff) {
			windowed = append(windowed, o)
		}
	}

	return windowed
}

func topProducts(orders []domain.Order, limit int) []domain.ProductSales {
	byProduct := make(map[string]*domain.ProductSales)
	for _, o := range orders {
		for _, item := range o.Items {
			sales, ok := byProduct[item.ProductID]
			if !ok {
				sales = &domain.ProductSales{ProductID: item.ProductID, ProductName: item.ProductName}
				byProduct[item.ProductID] = sales
			}
			sales.Quantity += item.Quantity
			sales.Revenue = round2(sales.Revenue + item.TotalPrice)
		}
	}

	top := make([]domain.ProductSales, 0, len(byProduct))
	for _, sales := range byProduct {
		top = append(top, *sales)
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Quantity != top[j].Quantity {
			return top[i].Quantity > top[j].Quantity
		}
		return top[i].ProductID < top[j].ProductID
	})

	if len(top) > limit {
		top = top[:limit]
	}

	return top
}

func lowStockProducts(products []domain.ProductWithStock) []domain.ProductWithStock {
	low := make([]domain.ProductWithStock, 0)
	for _, p := range products {
		// Sold-out products show up elsewhere; low stock means running out.
		if p.TotalStock > 0 && p.TotalStock <= lowStockThreshold {
			low = append(low, p)
		}
	}
	sort.Slice(low, func(i, j int) bool { return low[i].TotalStock < low[j].TotalStock })

	return low
}

func recentOrders(orders []domain.Order, limit int) []domain.Order {
	recent := append([]domain.Order(nil), orders...)
	sort.Slice(recent, func(i, j int) bool { return recent[i].CreatedAt.After(recent[j].CreatedAt) })

	if len(recent) > limit {
		recent = recent[:limit]
	}

	return recent
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
