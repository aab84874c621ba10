package pricing

import (
	"errors"
	"fmt"
)

// Validation failures surfaced to callers so they can render user-facing
// messages. The pricer does no I/O, so none of these are infrastructure
// errors.
var (
	ErrMissingPrice    = errors.New("no usable price for product/size")
	ErrEmptyCart       = errors.New("order cart is empty")
	ErrUnknownProduct  = errors.New("unknown product")
	ErrUnknownCustomer = errors.New("unknown customer")
	ErrUnknownSize     = errors.New("unknown size")
)

// InsufficientStockError reports a requested quantity that exceeds the
// derived stock for a product/size at validation time.
type InsufficientStockError struct {
	ProductID string
	Size      string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s size %s: requested %d, available %d",
		e.ProductID, e.Size, e.Requested, e.Available)
}

// InvalidQuantityError reports a quantity that is negative or a cart line
// index that does not exist.
type InvalidQuantityError struct {
	Quantity int
	Reason   string
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("invalid quantity %d: %s", e.Quantity, e.Reason)
}
