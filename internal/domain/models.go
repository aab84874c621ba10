// backend-go/internal/domain/models.go
package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// DefaultSize is the sentinel size label used for single-variant products
// whose availableSizes list is empty.
const DefaultSize = "FREE"

// Stock change types as recorded by the admin panel. The labels are data
// carried through from the shop's records; they never affect arithmetic.
const (
	StockChangeIncrease = "เพิ่มสต็อก"
	StockChangeDecrease = "ลดสต็อก"
	StockChangeSold     = "ขายออก"
	StockChangeReturned = "รับคืน"
)

// Customer pricing tiers.
const (
	CustomerTypeRetail    = "retail"
	CustomerTypeWholesale = "wholesale"
)

// SizePrice holds the two price columns for one size of a product.
type SizePrice struct {
	RetailPrice    float64 `json:"retailPrice"`
	WholesalePrice float64 `json:"wholesalePrice"`
}

// SizeList, StockBySize and PricesBySize are persisted as JSONB columns.
type SizeList []string

type StockBySize map[string]int

type PricesBySize map[string]SizePrice

func (s SizeList) Value() (driver.Value, error)     { return jsonValue(s) }
func (s *SizeList) Scan(src interface{}) error      { return jsonScan(s, src) }
func (s StockBySize) Value() (driver.Value, error)  { return jsonValue(s) }
func (s *StockBySize) Scan(src interface{}) error   { return jsonScan(s, src) }
func (p PricesBySize) Value() (driver.Value, error) { return jsonValue(p) }
func (p *PricesBySize) Scan(src interface{}) error  { return jsonScan(p, src) }

// Product represents a catalog entry. Current stock is never stored on the
// product; it is derived from initialStockBySize plus the stock log.
type Product struct {
	ProductID          string       `json:"productId" db:"product_id"`
	ProductName        string       `json:"productName" db:"product_name"`
	Category           string       `json:"category" db:"category"`
	AvailableSizes     SizeList     `json:"availableSizes" db:"available_sizes"`
	InitialStockBySize StockBySize  `json:"initialStockBySize" db:"initial_stock_by_size"`
	PricesBySize       PricesBySize `json:"pricesBySize" db:"prices_by_size"`
	RetailPrice        float64      `json:"retailPrice" db:"retail_price"`
	WholesalePrice     float64      `json:"wholesalePrice" db:"wholesale_price"`
	CreatedAt          time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt          time.Time    `json:"updatedAt" db:"updated_at"`
}

// Sizes returns the product's size labels, substituting the sentinel size for
// single-variant products.
func (p Product) Sizes() []string {
	if len(p.AvailableSizes) == 0 {
		return []string{DefaultSize}
	}
	return p.AvailableSizes
}

// HasSize reports whether the given label is one of the product's sizes.
func (p Product) HasSize(size string) bool {
	for _, s := range p.Sizes() {
		if s == size {
			return true
		}
	}
	return false
}

// ProductWithStock is a product augmented with its derived stock levels.
type ProductWithStock struct {
	Product
	StockBySize StockBySize `json:"stockBySize"`
	TotalStock  int         `json:"totalStock"`
}

// StockLogEntry is one immutable record in the append-only stock change log.
// Positive quantityChange means restock/return, negative means sale/decrease.
type StockLogEntry struct {
	LogID          string    `json:"logId" db:"log_id"`
	ProductID      string    `json:"productId" db:"product_id"`
	Size           string    `json:"size" db:"size"`
	QuantityChange int       `json:"quantityChange" db:"quantity_change"`
	Type           string    `json:"type" db:"change_type"`
	Timestamp      time.Time `json:"timestamp" db:"created_at"`
}

// Customer represents a customer record. CustomerType selects the price
// column; DiscountRate is a percentage applied to the order subtotal.
type Customer struct {
	CustomerID    string    `json:"customerId" db:"customer_id"`
	CustomerName  string    `json:"customerName" db:"customer_name"`
	ContactPerson string    `json:"contactPerson" db:"contact_person"`
	Email         string    `json:"email" db:"email"`
	Phone         string    `json:"phone" db:"phone"`
	Address       string    `json:"address" db:"address"`
	CustomerType  string    `json:"customerType" db:"customer_type"`
	DiscountRate  float64   `json:"discountRate" db:"discount_rate"`
	CreditLimit   float64   `json:"creditLimit" db:"credit_limit"`
	PaymentTerms  string    `json:"paymentTerms" db:"payment_terms"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

func (c Customer) Value() (driver.Value, error) { return jsonValue(c) }
func (c *Customer) Scan(src interface{}) error  { return jsonScan(c, src) }

// OrderItem is one cart line. UnitPrice and TotalPrice are snapshots taken at
// pricing time so later price changes never rewrite history.
type OrderItem struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Size        string  `json:"size"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	TotalPrice  float64 `json:"totalPrice"`
}

// OrderItems is persisted as a JSONB column.
type OrderItems []OrderItem

func (o OrderItems) Value() (driver.Value, error) { return jsonValue(o) }
func (o *OrderItems) Scan(src interface{}) error  { return jsonScan(o, src) }

// OrderTotals is the financial breakdown of an order.
type OrderTotals struct {
	Subtotal           float64 `json:"subtotal"`
	DiscountPercent    float64 `json:"discountPercent"`
	DiscountAmount     float64 `json:"discountAmount"`
	TotalAfterDiscount float64 `json:"totalAfterDiscount"`
	VATAmount          float64 `json:"vatAmount"`
	GrandTotal         float64 `json:"grandTotal"`
}

// Order is an immutable snapshot created once at finalize time. Only Status
// may change afterwards, via the explicit status-update operation.
type Order struct {
	OrderID            string     `json:"orderId" db:"order_id"`
	CustomerID         string     `json:"customerId" db:"customer_id"`
	CustomerInfo       Customer   `json:"customerInfo" db:"customer_info"`
	OrderDate          time.Time  `json:"orderDate" db:"order_date"`
	DeliveryDate       time.Time  `json:"deliveryDate" db:"delivery_date"`
	Items              OrderItems `json:"items" db:"items"`
	Subtotal           float64    `json:"subtotal" db:"subtotal"`
	DiscountPercent    float64    `json:"discountPercent" db:"discount_percent"`
	DiscountAmount     float64    `json:"discountAmount" db:"discount_amount"`
	TotalAfterDiscount float64    `json:"totalAfterDiscount" db:"total_after_discount"`
	VATAmount          float64    `json:"vatAmount" db:"vat_amount"`
	GrandTotal         float64    `json:"grandTotal" db:"grand_total"`
	Notes              string     `json:"notes" db:"notes"`
	Status             string     `json:"status" db:"status"`
	CreatedAt          time.Time  `json:"createdAt" db:"created_at"`
}

// ProductSales aggregates the quantity and revenue a product contributed
// within a dashboard window.
type ProductSales struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	Revenue     float64 `json:"revenue"`
}

// DailySales is one point of the daily revenue series.
type DailySales struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
	Orders  int     `json:"orders"`
}

// CategoryBreakdown summarises the catalog per category.
type CategoryBreakdown struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	Stock int    `json:"stock"`
}

// DashboardSummary is the aggregated dashboard payload for a trailing window.
type DashboardSummary struct {
	WindowDays       int                `json:"windowDays"`
	TotalRevenue     float64            `json:"totalRevenue"`
	TotalOrders      int                `json:"totalOrders"`
	TotalItems       int                `json:"totalItems"`
	AvgOrderValue    float64            `json:"avgOrderValue"`
	TopProducts      []ProductSales     `json:"topProducts"`
	LowStockProducts []ProductWithStock `json:"lowStockProducts"`
	RecentOrders     []Order            `json:"recentOrders"`
}

func jsonValue(v interface{}) (driver.Value, error) {
	return json.Marshal(v)
}

func jsonScan(dst interface{}, src interface{}) error {
	switch data := src.(type) {
	case nil:
		return nil
	case []byte:
		if len(data) == 0 {
			return nil
		}
		return json.Unmarshal(data, dst)
	case string:
		if data == "" {
			return nil
		}
		return json.Unmarshal([]byte(data), dst)
	default:
		return fmt.Errorf("unsupported column type %T", src)
	}
}
