package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/shopstock/backend-go/internal/domain"
	"github.com/andresuchdata/shopstock/backend-go/internal/service"
)

type ProductHandler struct {
	service *service.InventoryService
}

func NewProductHandler(service *service.InventoryService) *ProductHandler {
	return &ProductHandler{service: service}
}

// ListProducts returns every product with its derived stock levels.
func (h *ProductHandler) ListProducts(c *gin.Context) {
	products, err := h.service.ListProductsWithStock(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, products)
}

// GetProduct returns one product with derived stock and its change history.
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, history, err := h.service.GetProductWithStock(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
		"history": history,
	})
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var product domain.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		badRequest(c, err)
		return
	}

	created, err := h.service.CreateProduct(c.Request.Context(), product)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var product domain.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		badRequest(c, err)
		return
	}
	product.ProductID = c.Param("id")

	updated, err := h.service.UpdateProduct(c.Request.Context(), product)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	if err := h.service.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
