package service

import (
	"context"
	"testing"

	"github.com/andresuchdata/shopstock/backend-go/internal/repository/memory"
)

func TestDashboardSummaryAggregatesOrders(t *testing.T) {
	repo := memory.NewSeeded()
	orders := NewOrderService(repo, nil)
	dashboard := NewDashboardService(repo, nil)
	ctx := context.Background()

	// Retail order: 2 x 150 = 300, no discount, VAT 21, grand 321.
	if _, err := orders.Create(ctx, CreateOrderInput{
		CustomerID: "CUST002",
		Lines:      []OrderLineInput{{ProductID: "SHIRT001", Size: "M", Quantity: 2}},
	}); err != nil {
		t.Fatalf("create order: %v", err)
	}

	summary, err := dashboard.Summary(ctx, 30)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}

	if summary.TotalOrders != 1 {
		t.Fatalf("expected 1 order, got %d", summary.TotalOrders)
	}
	if summary.TotalRevenue != 321 {
		t.Fatalf("expected revenue 321, got %v", summary.TotalRevenue)
	}
	if summary.TotalItems != 2 {
		t.Fatalf("expected 2 items, got %d", summary.TotalItems)
	}
	if summary.AvgOrderValue != 321 {
		t.Fatalf("expected avg 321, got %v", summary.AvgOrderValue)
	}
	if len(summary.TopProducts) != 1 || summary.TopProducts[0].ProductID != "SHIRT001" {
		t.Fatalf("unexpected top products: %+v", summary.TopProducts)
	}
	if len(summary.RecentOrders) != 1 {
		t.Fatalf("expected 1 recent order, got %d", len(summary.RecentOrders))
	}
}

func TestDashboardDailySalesFillsWindow(t *testing.T) {
	repo := memory.NewSeeded()
	orders := NewOrderService(repo, nil)
	dashboard := NewDashboardService(repo, nil)
	ctx := context.Background()

	if _, err := orders.Create(ctx, CreateOrderInput{
		CustomerID: "CUST002",
		Lines:      []OrderLineInput{{ProductID: "SHIRT001", Size: "S", Quantity: 1}},
	}); err != nil {
		t.Fatalf("create order: %v", err)
	}

	series, err := dashboard.DailySales(ctx, 7)
	if err != nil {
		t.Fatalf("daily sales: %v", err)
	}
	if len(series) != 7 {
		t.Fatalf("expected 7 buckets, got %d", len(series))
	}

	var totalOrders int
	for _, day := range series {
		totalOrders += day.Orders
	}
	if totalOrders != 1 {
		t.Fatalf("expected today's order in the series, got %d", totalOrders)
	}
}

func TestDashboardCategoryBreakdown(t *testing.T) {
	dashboard := NewDashboardService(memory.NewSeeded(), nil)

	breakdown, err := dashboard.CategoryBreakdown(context.Background())
	if err != nil {
		t.Fatalf("category breakdown: %v", err)
	}
	if len(breakdown) == 0 {
		t.Fatalf("expected seeded categories")
	}

	for _, category := range breakdown {
		if category.Count <= 0 {
			t.Fatalf("category %q has no products", category.Name)
		}
	}
}
