package service

import (
	"context"
	"errors"
	"testing"

	"github.com/andresuchdata/shopstock/backend-go/internal/domain"
	"github.com/andresuchdata/shopstock/backend-go/internal/pricing"
	"github.com/andresuchdata/shopstock/backend-go/internal/repository/memory"
)

func newTestOrderService() (*OrderService, *InventoryService) {
	repo := memory.NewSeeded()
	return NewOrderService(repo, nil), NewInventoryService(repo, nil)
}

func TestCreateOrderPricesByCustomerTier(t *testing.T) {
	orders, _ := newTestOrderService()
	ctx := context.Background()

	// CUST001 is wholesale with a 10% discount; SHIRT001 M wholesale is 120.
	order, err := orders.Create(ctx, CreateOrderInput{
		CustomerID: "CUST001",
		Lines:      []OrderLineInput{{ProductID: "SHIRT001", Size: "M", Quantity: 3}},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	if order.Items[0].UnitPrice != 120 {
		t.Fatalf("expected wholesale unit price 120, got %v", order.Items[0].UnitPrice)
	}
	if order.Subtotal != 360 {
		t.Fatalf("expected subtotal 360, got %v", order.Subtotal)
	}
	if order.DiscountAmount != 36 {
		t.Fatalf("expected discount 36, got %v", order.DiscountAmount)
	}
	if order.VATAmount != 22.68 {
		t.Fatalf("expected VAT 22.68, got %v", order.VATAmount)
	}
	if order.GrandTotal != 346.68 {
		t.Fatalf("expected grand total 346.68, got %v", order.GrandTotal)
	}
	if order.Status != domain.OrderStatusPending {
		t.Fatalf("expected pending status, got %q", order.Status)
	}
}

func TestCreateOrderDecrementsDerivedStock(t *testing.T) {
	orders, inv := newTestOrderService()
	ctx := context.Background()

	_, err := orders.Create(ctx, CreateOrderInput{
		CustomerID: "CUST002",
		Lines:      []OrderLineInput{{ProductID: "SHIRT001", Size: "M", Quantity: 5}},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	product, history, err := inv.GetProductWithStock(ctx, "SHIRT001")
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if product.StockBySize["M"] != 15 {
		t.Fatalf("expected M stock 15 after sale, got %d", product.StockBySize["M"])
	}
	if len(history) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(history))
	}
	if history[0].QuantityChange != -5 || history[0].Type != domain.StockChangeSold {
		t.Fatalf("unexpected log entry: %+v", history[0])
	}
}

func TestCreateOrderRejectsWhenStockDepleted(t *testing.T) {
	orders, _ := newTestOrderService()
	ctx := context.Background()

	// First order takes all 20 units of SHIRT001 M.
	if _, err := orders.Create(ctx, CreateOrderInput{
		CustomerID: "CUST002",
		Lines:      []OrderLineInput{{ProductID: "SHIRT001", Size: "M", Quantity: 20}},
	}); err != nil {
		t.Fatalf("first order: %v", err)
	}

	_, err := orders.Create(ctx, CreateOrderInput{
		CustomerID: "CUST002",
		Lines:      []OrderLineInput{{ProductID: "SHIRT001", Size: "M", Quantity: 1}},
	})
	var stockErr *pricing.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if stockErr.Available != 0 || stockErr.Requested != 1 {
		t.Fatalf("unexpected detail: %+v", stockErr)
	}
}

func TestCreateOrderUnknownCustomerAndProduct(t *testing.T) {
	orders, _ := newTestOrderService()
	ctx := context.Background()

	_, err := orders.Create(ctx, CreateOrderInput{
		CustomerID: "NOBODY",
		Lines:      []OrderLineInput{{ProductID: "SHIRT001", Size: "M", Quantity: 1}},
	})
	if !errors.Is(err, pricing.ErrUnknownCustomer) {
		t.Fatalf("expected ErrUnknownCustomer, got %v", err)
	}

	_, err = orders.Create(ctx, CreateOrderInput{
		CustomerID: "CUST002",
		Lines:      []OrderLineInput{{ProductID: "GHOST", Size: "M", Quantity: 1}},
	})
	if !errors.Is(err, pricing.ErrUnknownProduct) {
		t.Fatalf("expected ErrUnknownProduct, got %v", err)
	}
}

func TestCreateOrderEmptyCart(t *testing.T) {
	orders, _ := newTestOrderService()

	_, err := orders.Create(context.Background(), CreateOrderInput{CustomerID: "CUST002"})
	if !errors.Is(err, pricing.ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func TestCreateOrderSentinelSizeForSizelessProduct(t *testing.T) {
	orders, _ := newTestOrderService()

	// CAP001 has no size list; an empty size falls back to the sentinel.
	order, err := orders.Create(context.Background(), CreateOrderInput{
		CustomerID: "CUST002",
		Lines:      []OrderLineInput{{ProductID: "CAP001", Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if order.Items[0].Size != domain.DefaultSize {
		t.Fatalf("expected sentinel size, got %q", order.Items[0].Size)
	}
	if order.Items[0].UnitPrice != 190 {
		t.Fatalf("expected base retail price 190, got %v", order.Items[0].UnitPrice)
	}
}

func TestUpdateOrderStatus(t *testing.T) {
	orders, _ := newTestOrderService()
	ctx := context.Background()

	order, err := orders.Create(ctx, CreateOrderInput{
		CustomerID: "CUST002",
		Lines:      []OrderLineInput{{ProductID: "SHIRT001", Size: "S", Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	updated, err := orders.UpdateStatus(ctx, order.OrderID, "Shipped")
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != domain.OrderStatusShipped {
		t.Fatalf("expected shipped, got %q", updated.Status)
	}

	if _, err := orders.UpdateStatus(ctx, order.OrderID, "teleported"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown status, got %v", err)
	}
}

func TestDeleteOrderKeepsStockLog(t *testing.T) {
	orders, inv := newTestOrderService()
	ctx := context.Background()

	order, err := orders.Create(ctx, CreateOrderInput{
		CustomerID: "CUST002",
		Lines:      []OrderLineInput{{ProductID: "SHIRT001", Size: "L", Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	if err := orders.Delete(ctx, order.OrderID); err != nil {
		t.Fatalf("delete order: %v", err)
	}

	product, _, err := inv.GetProductWithStock(ctx, "SHIRT001")
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if product.StockBySize["L"] != 13 {
		t.Fatalf("log entries should survive order deletion, L stock = %d", product.StockBySize["L"])
	}
}
