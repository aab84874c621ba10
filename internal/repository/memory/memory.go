// Package memory is an in-memory Repository used for tests and for running
// the server without Postgres (DB-less dev mode). Writes hold the mutex for
// the whole operation, so order creation re-validates derived stock and
// appends its log entries as one atomic step.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/andresuchdata/shopstock/backend-go/internal/domain"
	"github.com/andresuchdata/shopstock/backend-go/internal/inventory"
	"github.com/andresuchdata/shopstock/backend-go/internal/pricing"
	"github.com/andresuchdata/shopstock/backend-go/internal/repository"
)

type Store struct {
	mu        sync.RWMutex
	products  map[string]domain.Product
	customers map[string]domain.Customer
	orders    map[string]domain.Order
	stockLog  []domain.StockLogEntry
}

func New() *Store {
	return &Store{
		products:  make(map[string]domain.Product),
		customers: make(map[string]domain.Customer),
		orders:    make(map[string]domain.Order),
		stockLog:  make([]domain.StockLogEntry, 0, 128),
	}
}

// NewSeeded returns a store preloaded with a small shirt-shop catalog and two
// customers, enough to exercise every endpoint without a database.
func NewSeeded() *Store {
	now := time.Now().UTC()

	products := []domain.Product{
		{
			ProductID:          "SHIRT001",
			ProductName:        "เสื้อยืดคอกลม",
			Category:           "เสื้อยืด",
			AvailableSizes:     domain.SizeList{"S", "M", "L"},
			InitialStockBySize: domain.StockBySize{"S": 10, "M": 20, "L": 15},
			PricesBySize: domain.PricesBySize{
				"S": {RetailPrice: 150, WholesalePrice: 120},
				"M": {RetailPrice: 150, WholesalePrice: 120},
				"L": {RetailPrice: 170, WholesalePrice: 135},
			},
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ProductID:          "SHIRT002",
			ProductName:        "เสื้อโปโล",
			Category:           "เสื้อโปโล",
			AvailableSizes:     domain.SizeList{"M", "L", "XL"},
			InitialStockBySize: domain.StockBySize{"M": 12, "L": 8, "XL": 6},
			PricesBySize: domain.PricesBySize{
				"M":  {RetailPrice: 290, WholesalePrice: 230},
				"L":  {RetailPrice: 290, WholesalePrice: 230},
				"XL": {RetailPrice: 310, WholesalePrice: 245},
			},
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ProductID:      "CAP001",
			ProductName:    "หมวกแก๊ป",
			Category:       "หมวก",
			RetailPrice:    190,
			WholesalePrice: 150,
			InitialStockBySize: domain.StockBySize{
				domain.DefaultSize: 25,
			},
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	customers := []domain.Customer{
		{
			CustomerID:    "CUST001",
			CustomerName:  "ร้านผ้าใจดี",
			ContactPerson: "คุณสมศรี",
			Email:         "somsri@example.com",
			Phone:         "081-234-5678",
			Address:       "กรุงเทพมหานคร",
			CustomerType:  domain.CustomerTypeWholesale,
			DiscountRate:  10,
			CreditLimit:   50000,
			PaymentTerms:  "NET30",
			CreatedAt:     now,
			UpdatedAt:     now,
		},
		{
			CustomerID:    "CUST002",
			CustomerName:  "คุณวิชัย",
			ContactPerson: "คุณวิชัย",
			Email:         "wichai@example.com",
			Phone:         "089-876-5432",
			Address:       "เชียงใหม่",
			CustomerType:  domain.CustomerTypeRetail,
			DiscountRate:  0,
			CreatedAt:     now,
			UpdatedAt:     now,
		},
	}

	s := New()
	for _, p := range products {
		s.products[p.ProductID] = p
	}
	for _, c := range customers {
		s.customers[c.CustomerID] = c
	}

	return s
}

func (s *Store) ListProducts(_ context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ProductID < products[j].ProductID })

	return products, nil
}

func (s *Store) GetProduct(_ context.Context, productID string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[productID]
	if !ok {
		return nil, repository.ErrNotFound
	}

	return &p, nil
}

func (s *Store) CreateProduct(_ context.Context, product domain.Product) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[product.ProductID]; exists {
		return nil, repository.ErrConflict
	}

	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now
	s.products[product.ProductID] = product

	return &product, nil
}

func (s *Store) UpdateProduct(_ context.Context, product domain.Product) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.products[product.ProductID]
	if !ok {
		return nil, repository.ErrNotFound
	}

	product.CreatedAt = existing.CreatedAt
	product.UpdatedAt = time.Now().UTC()
	s.products[product.ProductID] = product

	return &product, nil
}

func (s *Store) DeleteProduct(_ context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[productID]; !ok {
		return repository.ErrNotFound
	}
	delete(s.products, productID)

	return nil
}

func (s *Store) ListStockLogEntries(_ context.Context) ([]domain.StockLogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]domain.StockLogEntry(nil), s.stockLog...), nil
}

func (s *Store) ListStockLogEntriesForProduct(_ context.Context, productID string) ([]domain.StockLogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]domain.StockLogEntry, 0, 16)
	for _, entry := range s.stockLog {
		if entry.ProductID == productID {
			entries = append(entries, entry)
		}
	}

	return entries, nil
}

func (s *Store) AppendStockLogEntries(_ context.Context, entries []domain.StockLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stockLog = append(s.stockLog, entries...)

	return nil
}

func (s *Store) ListCustomers(_ context.Context) ([]domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	customers := make([]domain.Customer, 0, len(s.customers))
	for _, c := range s.customers {
		customers = append(customers, c)
	}
	sort.Slice(customers, func(i, j int) bool { return customers[i].CustomerID < customers[j].CustomerID })

	return customers, nil
}

func (s *Store) GetCustomer(_ context.Context, customerID string) (*domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.customers[customerID]
	if !ok {
		return nil, repository.ErrNotFound
	}

	return &c, nil
}

func (s *Store) CreateCustomer(_ context.Context, customer domain.Customer) (*domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.customers[customer.CustomerID]; exists {
		return nil, repository.ErrConflict
	}

	now := time.Now().UTC()
	customer.CreatedAt = now
	customer.UpdatedAt = now
	s.customers[customer.CustomerID] = customer

	return &customer, nil
}

func (s *Store) UpdateCustomer(_ context.Context, customer domain.Customer) (*domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.customers[customer.CustomerID]
	if !ok {
		return nil, repository.ErrNotFound
	}

	customer.CreatedAt = existing.CreatedAt
	customer.UpdatedAt = time.Now().UTC()
	s.customers[customer.CustomerID] = customer

	return &customer, nil
}

func (s *Store) DeleteCustomer(_ context.Context, customerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.customers[customerID]; !ok {
		return repository.ErrNotFound
	}
	delete(s.customers, customerID)

	return nil
}

// CreateOrder re-derives stock under the write lock and only then appends the
// order and its log entries, so two orders racing for the same stock cannot
// both pass validation.
func (s *Store) CreateOrder(_ context.Context, order domain.Order, entries []domain.StockLogEntry) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orders[order.OrderID]; exists {
		return nil, repository.ErrConflict
	}

	for _, line := range aggregateLines(order.Items) {
		product, ok := s.products[line.productID]
		if !ok {
			return nil, repository.ErrNotFound
		}

		derived := inventory.StockFor(product, s.stockLog)
		available := derived.StockBySize[line.size]
		if line.quantity > available {
			return nil, &pricing.InsufficientStockError{
				ProductID: line.productID,
				Size:      line.size,
				Available: available,
				Requested: line.quantity,
			}
		}
	}

	s.orders[order.OrderID] = order
	s.stockLog = append(s.stockLog, entries...)

	return &order, nil
}

type aggregatedLine struct {
	productID string
	size      string
	quantity  int
}

func aggregateLines(items []domain.OrderItem) []aggregatedLine {
	index := make(map[[2]string]int)
	lines := make([]aggregatedLine, 0, len(items))

	for _, item := range items {
		key := [2]string{item.ProductID, item.Size}
		if i, ok := index[key]; ok {
			lines[i].quantity += item.Quantity
			continue
		}
		index[key] = len(lines)
		lines = append(lines, aggregatedLine{productID: item.ProductID, size: item.Size, quantity: item.Quantity})
	}

	return lines
}

func (s *Store) GetOrder(_ context.Context, orderID string) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[orderID]
	if !ok {
		return nil, repository.ErrNotFound
	}

	return &o, nil
}

func (s *Store) ListOrders(_ context.Context) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orders := make([]domain.Order, 0, len(s.orders))
	for _, o := range s.orders {
		orders = append(orders, o)
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })

	return orders, nil
}

func (s *Store) ListOrdersByCustomer(_ context.Context, customerID string) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orders := make([]domain.Order, 0, 8)
	for _, o := range s.orders {
		if o.CustomerID == customerID {
			orders = append(orders, o)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })

	return orders, nil
}

func (s *Store) UpdateOrderStatus(_ context.Context, orderID, status string) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[orderID]
	if !ok {
		return nil, repository.ErrNotFound
	}

	o.Status = status
	s.orders[orderID] = o

	return &o, nil
}

// DeleteOrder removes the order record only. Its stock log entries remain:
// the log is append-only, and reversing a delivery is a separate "returned"
// adjustment, not a retroactive edit.
func (s *Store) DeleteOrder(_ context.Context, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[orderID]; !ok {
		return repository.ErrNotFound
	}
	delete(s.orders, orderID)

	return nil
}
