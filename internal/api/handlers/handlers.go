// Package handlers holds the gin handlers for the admin panel API. Each
// handler owns one resource and translates service errors into HTTP statuses
// through respondError, so the mapping lives in exactly one place.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/shopstock/backend-go/internal/pricing"
	"github.com/andresuchdata/shopstock/backend-go/internal/repository"
	"github.com/andresuchdata/shopstock/backend-go/internal/service"
)

func respondError(c *gin.Context, err error) {
	var stockErr *pricing.InsufficientStockError
	var qtyErr *pricing.InvalidQuantityError

	switch {
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, pricing.ErrUnknownProduct),
		errors.Is(err, pricing.ErrUnknownCustomer):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &stockErr), errors.Is(err, repository.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, pricing.ErrEmptyCart),
		errors.Is(err, pricing.ErrMissingPrice),
		errors.Is(err, pricing.ErrUnknownSize),
		errors.As(err, &qtyErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
