package pricing

import (
	"errors"
	"testing"
	"time"

	"github.com/andresuchdata/shopstock/backend-go/internal/domain"
)

func testProduct() domain.ProductWithStock {
	return domain.ProductWithStock{
		Product: domain.Product{
			ProductID:      "SHIRT001",
			ProductName:    "เสื้อยืดคอกลม",
			AvailableSizes: domain.SizeList{"S", "M", "L"},
			PricesBySize: domain.PricesBySize{
				"S": {RetailPrice: 100, WholesalePrice: 80},
				"M": {RetailPrice: 100, WholesalePrice: 80},
				"L": {RetailPrice: 120, WholesalePrice: 95},
			},
		},
		StockBySize: domain.StockBySize{"S": 10, "M": 20, "L": 15},
		TotalStock:  45,
	}
}

func retailCustomer() domain.Customer {
	return domain.Customer{
		CustomerID:   "CUST002",
		CustomerName: "คุณวิชัย",
		CustomerType: domain.CustomerTypeRetail,
	}
}

func TestPriceUnitForTiers(t *testing.T) {
	product := testProduct().Product

	retail, err := PriceUnitFor(product, "M", domain.CustomerTypeRetail)
	if err != nil {
		t.Fatalf("retail price: %v", err)
	}
	if retail != 100 {
		t.Fatalf("expected retail 100, got %v", retail)
	}

	wholesale, err := PriceUnitFor(product, "M", domain.CustomerTypeWholesale)
	if err != nil {
		t.Fatalf("wholesale price: %v", err)
	}
	if wholesale != 80 {
		t.Fatalf("expected wholesale 80, got %v", wholesale)
	}
}

func TestPriceUnitForBaseFallback(t *testing.T) {
	hat := domain.Product{
		ProductID:      "CAP001",
		RetailPrice:    190,
		WholesalePrice: 150,
	}

	price, err := PriceUnitFor(hat, domain.DefaultSize, domain.CustomerTypeWholesale)
	if err != nil {
		t.Fatalf("fallback price: %v", err)
	}
	if price != 150 {
		t.Fatalf("expected 150, got %v", price)
	}
}

func TestPriceUnitForMissingPrice(t *testing.T) {
	bare := domain.Product{ProductID: "X"}

	if _, err := PriceUnitFor(bare, domain.DefaultSize, domain.CustomerTypeRetail); !errors.Is(err, ErrMissingPrice) {
		t.Fatalf("expected ErrMissingPrice, got %v", err)
	}
}

func TestAddOrIncrementLineMerges(t *testing.T) {
	product := testProduct()

	cart, err := AddOrIncrementLine(nil, product, "M", domain.CustomerTypeRetail)
	if err != nil {
		t.Fatalf("first add: %v", err)
	}
	cart, err = AddOrIncrementLine(cart, product, "M", domain.CustomerTypeRetail)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}

	if len(cart) != 1 {
		t.Fatalf("expected merged line, got %d lines", len(cart))
	}
	if cart[0].Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", cart[0].Quantity)
	}
	if cart[0].TotalPrice != 200 {
		t.Fatalf("expected total 200, got %v", cart[0].TotalPrice)
	}
}

func TestAddOrIncrementLineLeavesCartOnInsufficientStock(t *testing.T) {
	product := testProduct()
	product.StockBySize["M"] = 1

	cart, err := AddOrIncrementLine(nil, product, "M", domain.CustomerTypeRetail)
	if err != nil {
		t.Fatalf("first add: %v", err)
	}

	after, err := AddOrIncrementLine(cart, product, "M", domain.CustomerTypeRetail)
	var stockErr *InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if stockErr.Available != 1 || stockErr.Requested != 2 {
		t.Fatalf("unexpected error detail: %+v", stockErr)
	}
	if len(after) != 1 || after[0].Quantity != 1 {
		t.Fatalf("cart mutated on failed add: %+v", after)
	}
}

func TestAddOrIncrementLineUnknownSize(t *testing.T) {
	if _, err := AddOrIncrementLine(nil, testProduct(), "XXL", domain.CustomerTypeRetail); !errors.Is(err, ErrUnknownSize) {
		t.Fatalf("expected ErrUnknownSize, got %v", err)
	}
}

func TestSetLineQuantityClampsToStock(t *testing.T) {
	cart := []domain.OrderItem{
		{ProductID: "SHIRT001", Size: "M", Quantity: 2, UnitPrice: 100, TotalPrice: 200},
	}

	updated, clamped, err := SetLineQuantity(cart, 0, 50, 20)
	if err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	if !clamped {
		t.Fatalf("expected clamp to be reported")
	}
	if updated[0].Quantity != 20 || updated[0].TotalPrice != 2000 {
		t.Fatalf("unexpected clamped line: %+v", updated[0])
	}
}

func TestSetLineQuantityZeroRemovesLine(t *testing.T) {
	cart := []domain.OrderItem{
		{ProductID: "SHIRT001", Size: "M", Quantity: 2, UnitPrice: 100, TotalPrice: 200},
	}

	updated, clamped, err := SetLineQuantity(cart, 0, 0, 20)
	if err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	if clamped {
		t.Fatalf("unexpected clamp")
	}
	if len(updated) != 0 {
		t.Fatalf("expected empty cart, got %+v", updated)
	}
}

func TestSetLineQuantityRejectsNegativeAndBadIndex(t *testing.T) {
	cart := []domain.OrderItem{
		{ProductID: "SHIRT001", Size: "M", Quantity: 2, UnitPrice: 100, TotalPrice: 200},
	}

	var qtyErr *InvalidQuantityError
	if _, _, err := SetLineQuantity(cart, 0, -1, 20); !errors.As(err, &qtyErr) {
		t.Fatalf("expected InvalidQuantityError for negative quantity, got %v", err)
	}
	if _, _, err := SetLineQuantity(cart, 5, 1, 20); !errors.As(err, &qtyErr) {
		t.Fatalf("expected InvalidQuantityError for bad index, got %v", err)
	}
}

func TestComputeTotalsWithDiscount(t *testing.T) {
	cart := []domain.OrderItem{
		{ProductID: "SHIRT001", Size: "M", Quantity: 3, UnitPrice: 100, TotalPrice: 300},
	}

	totals := ComputeTotals(cart, 10)

	if totals.Subtotal != 300 {
		t.Fatalf("subtotal: expected 300, got %v", totals.Subtotal)
	}
	if totals.DiscountAmount != 30 {
		t.Fatalf("discount: expected 30, got %v", totals.DiscountAmount)
	}
	if totals.TotalAfterDiscount != 270 {
		t.Fatalf("after discount: expected 270, got %v", totals.TotalAfterDiscount)
	}
	if totals.VATAmount != 18.9 {
		t.Fatalf("vat: expected 18.9, got %v", totals.VATAmount)
	}
	if totals.GrandTotal != 288.9 {
		t.Fatalf("grand total: expected 288.9, got %v", totals.GrandTotal)
	}
}

func TestComputeTotalsDiscountBounds(t *testing.T) {
	cart := []domain.OrderItem{
		{ProductID: "SHIRT001", Size: "M", Quantity: 1, UnitPrice: 200, TotalPrice: 200},
	}

	zero := ComputeTotals(cart, 0)
	if zero.DiscountAmount != 0 || zero.GrandTotal != 214 {
		t.Fatalf("0%% discount: %+v", zero)
	}

	full := ComputeTotals(cart, 100)
	if full.TotalAfterDiscount != 0 || full.VATAmount != 0 || full.GrandTotal != 0 {
		t.Fatalf("100%% discount: %+v", full)
	}
}

func TestComputeTotalsIdentityHolds(t *testing.T) {
	cart := []domain.OrderItem{
		{ProductID: "SHIRT001", Size: "M", Quantity: 3, UnitPrice: 33.33, TotalPrice: 99.99},
		{ProductID: "SHIRT001", Size: "L", Quantity: 1, UnitPrice: 120, TotalPrice: 120},
	}

	for _, rate := range []float64{0, 2.5, 7, 12.75, 100} {
		totals := ComputeTotals(cart, rate)
		if got := totals.Subtotal - totals.DiscountAmount; round2(got) != totals.TotalAfterDiscount {
			t.Fatalf("rate %v: after-discount mismatch", rate)
		}
		if got := totals.TotalAfterDiscount + totals.VATAmount; round2(got) != totals.GrandTotal {
			t.Fatalf("rate %v: grand total mismatch", rate)
		}
	}
}

func TestFinalizeOrderEmptyCart(t *testing.T) {
	_, _, err := FinalizeOrder(retailCustomer(), nil, time.Now(), time.Time{}, "", map[string]map[string]int{})
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func TestFinalizeOrderBuildsSnapshotAndEntries(t *testing.T) {
	cart := []domain.OrderItem{
		{ProductID: "SHIRT001", ProductName: "เสื้อยืดคอกลม", Size: "M", Quantity: 3, UnitPrice: 100, TotalPrice: 300},
	}
	stock := map[string]map[string]int{"SHIRT001": {"M": 20}}

	customer := retailCustomer()
	customer.DiscountRate = 10

	order, entries, err := FinalizeOrder(customer, cart, time.Now(), time.Time{}, "รีบส่ง", stock)
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}

	if order.OrderID == "" || order.Status != domain.OrderStatusPending {
		t.Fatalf("bad order header: %+v", order)
	}
	if order.CustomerInfo.CustomerID != customer.CustomerID {
		t.Fatalf("customer snapshot missing")
	}
	if order.GrandTotal != 288.9 {
		t.Fatalf("expected grand total 288.9, got %v", order.GrandTotal)
	}

	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry.QuantityChange != -3 {
		t.Fatalf("expected quantityChange -3, got %d", entry.QuantityChange)
	}
	if entry.Type != domain.StockChangeSold {
		t.Fatalf("expected sold type, got %q", entry.Type)
	}
	if entry.ProductID != "SHIRT001" || entry.Size != "M" {
		t.Fatalf("entry references wrong variant: %+v", entry)
	}
}

func TestFinalizeOrderAggregatesDuplicateLines(t *testing.T) {
	// Two lines for the same variant must be validated jointly.
	cart := []domain.OrderItem{
		{ProductID: "SHIRT001", Size: "M", Quantity: 6, UnitPrice: 100, TotalPrice: 600},
		{ProductID: "SHIRT001", Size: "M", Quantity: 6, UnitPrice: 100, TotalPrice: 600},
	}
	stock := map[string]map[string]int{"SHIRT001": {"M": 10}}

	_, _, err := FinalizeOrder(retailCustomer(), cart, time.Now(), time.Time{}, "", stock)
	var stockErr *InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if stockErr.Requested != 12 || stockErr.Available != 10 {
		t.Fatalf("unexpected aggregate detail: %+v", stockErr)
	}
}

func TestFinalizeOrderUnknownProductAndSize(t *testing.T) {
	stock := map[string]map[string]int{"SHIRT001": {"M": 10}}

	ghost := []domain.OrderItem{{ProductID: "GHOST", Size: "M", Quantity: 1, UnitPrice: 100, TotalPrice: 100}}
	if _, _, err := FinalizeOrder(retailCustomer(), ghost, time.Now(), time.Time{}, "", stock); !errors.Is(err, ErrUnknownProduct) {
		t.Fatalf("expected ErrUnknownProduct, got %v", err)
	}

	badSize := []domain.OrderItem{{ProductID: "SHIRT001", Size: "XXL", Quantity: 1, UnitPrice: 100, TotalPrice: 100}}
	if _, _, err := FinalizeOrder(retailCustomer(), badSize, time.Now(), time.Time{}, "", stock); !errors.Is(err, ErrUnknownSize) {
		t.Fatalf("expected ErrUnknownSize, got %v", err)
	}
}

func TestBuildLine(t *testing.T) {
	product := testProduct().Product

	line, err := BuildLine(product, "L", 2, domain.CustomerTypeWholesale)
	if err != nil {
		t.Fatalf("build line: %v", err)
	}
	if line.UnitPrice != 95 || line.TotalPrice != 190 {
		t.Fatalf("unexpected pricing: %+v", line)
	}

	if _, err := BuildLine(product, "L", 0, domain.CustomerTypeRetail); err == nil {
		t.Fatalf("expected error for zero quantity")
	}
}
