// Package pricing turns a cart of (product, size, quantity) selections plus a
// customer's pricing tier into a priced, stock-validated order. All functions
// are pure: they take derived stock as input and hand back the log entries to
// append instead of performing the write themselves.
package pricing

import (
	"math"
	"time"

	"github.com/andresuchdata/shopstock/backend-go/internal/domain"
	"github.com/google/uuid"
)

// VATRate is the fixed 7% value-added tax applied after discount. It is a
// domain constant, not a per-call parameter.
const VATRate = 0.07

// PriceUnitFor returns the unit price for a product size under the given
// customer type. Size-specific prices win; the product-level base price is
// the fallback for sizeless/single-variant products. ErrMissingPrice is
// returned when neither source yields a usable price.
func PriceUnitFor(product domain.Product, size, customerType string) (float64, error) {
	if price, ok := product.PricesBySize[size]; ok {
		return tierPrice(price.RetailPrice, price.WholesalePrice, customerType), nil
	}

	base := tierPrice(product.RetailPrice, product.WholesalePrice, customerType)
	if base <= 0 {
		return 0, ErrMissingPrice
	}

	return base, nil
}

func tierPrice(retail, wholesale float64, customerType string) float64 {
	if customerType == domain.CustomerTypeWholesale {
		return wholesale
	}
	return retail
}

// BuildLine prices a requested (product, size, quantity) selection into a
// cart line. Quantities are validated here; stock is not, since the cart as a
// whole is validated at finalize time.
func BuildLine(product domain.Product, size string, quantity int, customerType string) (domain.OrderItem, error) {
	if quantity < 1 {
		return domain.OrderItem{}, &InvalidQuantityError{Quantity: quantity, Reason: "line quantity must be positive"}
	}
	if !product.HasSize(size) {
		return domain.OrderItem{}, ErrUnknownSize
	}

	unitPrice, err := PriceUnitFor(product, size, customerType)
	if err != nil {
		return domain.OrderItem{}, err
	}

	return domain.OrderItem{
		ProductID:   product.ProductID,
		ProductName: product.ProductName,
		Size:        size,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		TotalPrice:  round2(float64(quantity) * unitPrice),
	}, nil
}

// AddOrIncrementLine adds one unit of (product, size) to the cart, merging
// into an existing line when present. The proposed quantity is validated
// against the product's derived stock; on failure the original cart is
// returned unchanged. Callers should re-derive stock before each add so the
// check does not run against stale numbers.
func AddOrIncrementLine(cart []domain.OrderItem, product domain.ProductWithStock, size, customerType string) ([]domain.OrderItem, error) {
	if !product.HasSize(size) {
		return cart, ErrUnknownSize
	}

	unitPrice, err := PriceUnitFor(product.Product, size, customerType)
	if err != nil {
		return cart, err
	}

	available := product.StockBySize[size]

	for i, line := range cart {
		if line.ProductID != product.ProductID || line.Size != size {
			continue
		}

		proposed := line.Quantity + 1
		if proposed > available {
			return cart, &InsufficientStockError{
				ProductID: product.ProductID,
				Size:      size,
				Available: available,
				Requested: proposed,
			}
		}

		updated := copyCart(cart)
		updated[i].Quantity = proposed
		updated[i].UnitPrice = unitPrice
		updated[i].TotalPrice = round2(float64(proposed) * unitPrice)
		return updated, nil
	}

	if available < 1 {
		return cart, &InsufficientStockError{
			ProductID: product.ProductID,
			Size:      size,
			Available: available,
			Requested: 1,
		}
	}

	updated := copyCart(cart)
	updated = append(updated, domain.OrderItem{
		ProductID:   product.ProductID,
		ProductName: product.ProductName,
		Size:        size,
		Quantity:    1,
		UnitPrice:   unitPrice,
		TotalPrice:  round2(unitPrice),
	})

	return updated, nil
}

// SetLineQuantity replaces the quantity of an existing cart line. Negative
// quantities and out-of-range indexes are rejected. A quantity above the
// available stock is clamped to it and reported through the second return
// value so the caller can warn the user; this mirrors the panel's
// cap-at-available behavior rather than rejecting outright. A quantity of
// zero removes the line.
func SetLineQuantity(cart []domain.OrderItem, index, quantity, currentStock int) ([]domain.OrderItem, bool, error) {
	if index < 0 || index >= len(cart) {
		return cart, false, &InvalidQuantityError{Quantity: quantity, Reason: "cart line does not exist"}
	}
	if quantity < 0 {
		return cart, false, &InvalidQuantityError{Quantity: quantity, Reason: "quantity must not be negative"}
	}

	clamped := false
	if quantity > currentStock {
		quantity = currentStock
		clamped = true
	}

	if quantity == 0 {
		return RemoveLine(cart, index), clamped, nil
	}

	updated := copyCart(cart)
	updated[index].Quantity = quantity
	updated[index].TotalPrice = round2(float64(quantity) * updated[index].UnitPrice)

	return updated, clamped, nil
}

// RemoveLine drops a cart line. Out-of-range indexes leave the cart as is.
func RemoveLine(cart []domain.OrderItem, index int) []domain.OrderItem {
	if index < 0 || index >= len(cart) {
		return cart
	}

	updated := make([]domain.OrderItem, 0, len(cart)-1)
	updated = append(updated, cart[:index]...)
	updated = append(updated, cart[index+1:]...)

	return updated
}

// ComputeTotals derives the financial breakdown for a cart. Monetary values
// are rounded to satang (2 decimals). The discount-rate bound of 0–100 is a
// caller obligation, enforced where customers are created and updated.
func ComputeTotals(cart []domain.OrderItem, discountRatePercent float64) domain.OrderTotals {
	subtotal := 0.0
	for _, line := range cart {
		subtotal += line.TotalPrice
	}
	subtotal = round2(subtotal)

	discountAmount := round2(subtotal * discountRatePercent / 100)
	totalAfterDiscount := round2(subtotal - discountAmount)
	vatAmount := round2(totalAfterDiscount * VATRate)
	grandTotal := round2(totalAfterDiscount + vatAmount)

	return domain.OrderTotals{
		Subtotal:           subtotal,
		DiscountPercent:    discountRatePercent,
		DiscountAmount:     discountAmount,
		TotalAfterDiscount: totalAfterDiscount,
		VATAmount:          vatAmount,
		GrandTotal:         grandTotal,
	}
}

// FinalizeOrder validates the cart against derived stock one last time and
// builds the immutable order snapshot along with the stock decrement entries
// (one per line, quantityChange = -quantity, type "sold"). It performs no
// persistence: the caller hands the order and entries to the repository,
// which must apply them atomically to close the window between validation
// and append.
func FinalizeOrder(customer domain.Customer, cart []domain.OrderItem, orderDate, deliveryDate time.Time, notes string, stock map[string]map[string]int) (*domain.Order, []domain.StockLogEntry, error) {
	if len(cart) == 0 {
		return nil, nil, ErrEmptyCart
	}

	// Aggregate per product/size first so two lines for the same variant
	// cannot pass individually while jointly overselling.
	requested := make(map[string]map[string]int)
	for _, line := range cart {
		if line.Quantity < 1 {
			return nil, nil, &InvalidQuantityError{Quantity: line.Quantity, Reason: "line quantity must be positive"}
		}
		if requested[line.ProductID] == nil {
			requested[line.ProductID] = make(map[string]int)
		}
		requested[line.ProductID][line.Size] += line.Quantity
	}

	for _, line := range cart {
		sizes, ok := stock[line.ProductID]
		if !ok {
			return nil, nil, ErrUnknownProduct
		}
		available, ok := sizes[line.Size]
		if !ok {
			return nil, nil, ErrUnknownSize
		}
		if want := requested[line.ProductID][line.Size]; want > available {
			return nil, nil, &InsufficientStockError{
				ProductID: line.ProductID,
				Size:      line.Size,
				Available: available,
				Requested: want,
			}
		}
	}

	totals := ComputeTotals(cart, customer.DiscountRate)
	now := time.Now().UTC()

	order := &domain.Order{
		OrderID:            "ORD-" + uuid.NewString(),
		CustomerID:         customer.CustomerID,
		CustomerInfo:       customer,
		OrderDate:          orderDate,
		DeliveryDate:       deliveryDate,
		Items:              append(domain.OrderItems(nil), cart...),
		Subtotal:           totals.Subtotal,
		DiscountPercent:    totals.DiscountPercent,
		DiscountAmount:     totals.DiscountAmount,
		TotalAfterDiscount: totals.TotalAfterDiscount,
		VATAmount:          totals.VATAmount,
		GrandTotal:         totals.GrandTotal,
		Notes:              notes,
		Status:             domain.OrderStatusPending,
		CreatedAt:          now,
	}

	entries := make([]domain.StockLogEntry, 0, len(cart))
	for _, line := range cart {
		entries = append(entries, domain.StockLogEntry{
			LogID:          "LOG-" + uuid.NewString(),
			ProductID:      line.ProductID,
			Size:           line.Size,
			QuantityChange: -line.Quantity,
			Type:           domain.StockChangeSold,
			Timestamp:      now,
		})
	}

	return order, entries, nil
}

func copyCart(cart []domain.OrderItem) []domain.OrderItem {
	return append([]domain.OrderItem(nil), cart...)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
