package handlers

import (
	"net/http"

	"loyalty-backend/services"
	"loyalty-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ExchangeHandler exposes the authenticated user's own flat-rate
// exchange between two of their provider balances.
type ExchangeHandler struct {
	DB       *gorm.DB
	Exchange *services.ExchangeService
}

type exchangeRequest struct {
	FromProvider string `json:"from_provider" binding:"required"`
	ToProvider   string `json:"to_provider" binding:"required"`
	Points       int    `json:"points" binding:"required,gt=0"`
}

func (h *ExchangeHandler) ExchangePoints(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	var req exchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	fromProvider, err := findProviderBySlug(h.DB, req.FromProvider)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Source provider not found"})
		return
	}
	toProvider, err := findProviderBySlug(h.DB, req.ToProvider)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Destination provider not found"})
		return
	}

	result, err := h.Exchange.Exchange(userID, fromProvider, toProvider, req.Points)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"points_sent":     result.PointsSent,
		"fee_deducted":    result.FeeDeducted,
		"points_received": result.PointsReceived,
		"transfer_out":    transactionResponse(result.TransferOut),
		"transfer_in":     transactionResponse(result.TransferIn),
	})
}

func (h *ExchangeHandler) PreviewExchange(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	var req exchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	fromProvider, err := findProviderBySlug(h.DB, req.FromProvider)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Source provider not found"})
		return
	}
	toProvider, err := findProviderBySlug(h.DB, req.ToProvider)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Destination provider not found"})
		return
	}

	preview, err := h.Exchange.Preview(userID, fromProvider, toProvider, req.Points)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"preview": preview})
}
