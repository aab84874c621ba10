// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/shopstock/backend-go/internal/api/handlers"
	"github.com/andresuchdata/shopstock/backend-go/internal/api/middleware"
	"github.com/andresuchdata/shopstock/backend-go/internal/service"
)

type Services struct {
	Inventory *service.InventoryService
	Customers *service.CustomerService
	Orders    *service.OrderService
	Dashboard *service.DashboardService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.Inventory != nil {
			productHandler := handlers.NewProductHandler(services.Inventory)
			productGroup := apiGroup.Group("/products")
			{
				productGroup.GET("", productHandler.ListProducts)
				productGroup.GET("/:id", productHandler.GetProduct)
				productGroup.POST("", productHandler.CreateProduct)
				productGroup.PUT("/:id", productHandler.UpdateProduct)
				productGroup.DELETE("/:id", productHandler.DeleteProduct)
			}

			stockHandler := handlers.NewStockHandler(services.Inventory)
			stockGroup := apiGroup.Group("/stock-logs")
			{
				stockGroup.GET("", stockHandler.ListStockLog)
				stockGroup.POST("", stockHandler.AdjustStock)
			}
		}

		if services.Customers != nil {
			customerHandler := handlers.NewCustomerHandler(services.Customers)
			customerGroup := apiGroup.Group("/customers")
			{
				customerGroup.GET("", customerHandler.ListCustomers)
				customerGroup.GET("/:id", customerHandler.GetCustomer)
				customerGroup.POST("", customerHandler.CreateCustomer)
				customerGroup.PUT("/:id", customerHandler.UpdateCustomer)
				customerGroup.DELETE("/:id", customerHandler.DeleteCustomer)
			}
		}

		if services.Orders != nil {
			orderHandler := handlers.NewOrderHandler(services.Orders)
			orderGroup := apiGroup.Group("/orders")
			{
				orderGroup.GET("", orderHandler.ListOrders)
				orderGroup.GET("/:id", orderHandler.GetOrder)
				orderGroup.POST("", orderHandler.CreateOrder)
				orderGroup.PUT("/:id/status", orderHandler.UpdateOrderStatus)
				orderGroup.DELETE("/:id", orderHandler.DeleteOrder)
			}
		}

		if services.Dashboard != nil {
			dashboardHandler := handlers.NewDashboardHandler(services.Dashboard)
			dashboardGroup := apiGroup.Group("/dashboard")
			{
				dashboardGroup.GET("/summary", dashboardHandler.GetSummary)
				dashboardGroup.GET("/daily-sales", dashboardHandler.GetDailySales)
				dashboardGroup.GET("/categories", dashboardHandler.GetCategoryBreakdown)
			}
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
