package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/shopstock/backend-go/internal/service"
)

type StockHandler struct {
	service *service.InventoryService
}

func NewStockHandler(service *service.InventoryService) *StockHandler {
	return &StockHandler{service: service}
}

// ListStockLog returns the full append-only stock change log.
func (h *StockHandler) ListStockLog(c *gin.Context) {
	entries, err := h.service.ListStockLogEntries(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

type adjustStockRequest struct {
	ProductID      string `json:"productId" binding:"required"`
	Size           string `json:"size"`
	QuantityChange int    `json:"quantityChange" binding:"required"`
	Type           string `json:"type" binding:"required"`
}

// AdjustStock appends a manual restock/correction entry and returns the
// product with its new derived stock.
func (h *StockHandler) AdjustStock(c *gin.Context) {
	var req adjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	product, err := h.service.AdjustStock(c.Request.Context(), req.ProductID, req.Size, req.QuantityChange, req.Type)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, product)
}
