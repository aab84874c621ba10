package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/shopstock/backend-go/internal/repository/memory"
	"github.com/andresuchdata/shopstock/backend-go/internal/service"
)

// newTestRouter wires the full stack against the seeded in-memory store so
// handler tests exercise the real request path.
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := memory.NewSeeded()
	services := &Services{
		Inventory: service.NewInventoryService(repo, nil),
		Customers: service.NewCustomerService(repo),
		Orders:    service.NewOrderService(repo, nil),
		Dashboard: service.NewDashboardService(repo, nil),
	}

	return NewRouter(services, nil)
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestListProductsIncludesDerivedStock(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/products", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var products []map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&products); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(products) == 0 {
		t.Fatalf("expected seeded products")
	}
	if _, ok := products[0]["stockBySize"]; !ok {
		t.Fatalf("expected stockBySize in payload: %v", products[0])
	}
}

func TestCreateOrderEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/orders", map[string]any{
		"customerId": "CUST002",
		"items": []map[string]any{
			{"productId": "SHIRT001", "size": "M", "quantity": 2},
		},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var order map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&order); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if order["grandTotal"] != 321.0 {
		t.Fatalf("expected grandTotal 321, got %v", order["grandTotal"])
	}
	if order["status"] != "pending" {
		t.Fatalf("expected pending, got %v", order["status"])
	}
}

func TestCreateOrderInsufficientStockConflict(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/orders", map[string]any{
		"customerId": "CUST002",
		"items": []map[string]any{
			{"productId": "SHIRT001", "size": "M", "quantity": 999},
		},
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestGetUnknownProductReturns404(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/products/GHOST", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAdjustStockEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/stock-logs", map[string]any{
		"productId":      "SHIRT001",
		"size":           "M",
		"quantityChange": 10,
		"type":           "เพิ่มสต็อก",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var product map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&product); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	stock, ok := product["stockBySize"].(map[string]any)
	if !ok || stock["M"] != 30.0 {
		t.Fatalf("expected M stock 30, got %v", product["stockBySize"])
	}
}

func TestUpdateOrderStatusEndpoint(t *testing.T) {
	router := newTestRouter(t)

	created := doJSON(t, router, http.MethodPost, "/api/v1/orders", map[string]any{
		"customerId": "CUST001",
		"items": []map[string]any{
			{"productId": "SHIRT002", "size": "L", "quantity": 1},
		},
	})
	if created.Code != http.StatusCreated {
		t.Fatalf("create order: %d: %s", created.Code, created.Body.String())
	}

	var order map[string]any
	if err := json.NewDecoder(created.Body).Decode(&order); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	orderID, _ := order["orderId"].(string)

	rec := doJSON(t, router, http.MethodPut, "/api/v1/orders/"+orderID+"/status", map[string]any{
		"status": "delivered",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	bad := doJSON(t, router, http.MethodPut, "/api/v1/orders/"+orderID+"/status", map[string]any{
		"status": "vanished",
	})
	if bad.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status, got %d", bad.Code)
	}
}

func TestDashboardSummaryEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/dashboard/summary?days=7", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var summary map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&summary); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if summary["windowDays"] != 7.0 {
		t.Fatalf("expected windowDays 7, got %v", summary["windowDays"])
	}
}
