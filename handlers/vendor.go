package handlers

import (
	"net/http"

	"loyalty-backend/services"
	"loyalty-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VendorHandler exposes vendor-email account linking and the
// cross-account value-based exchange surface.
type VendorHandler struct {
	DB             *gorm.DB
	Links          *services.VendorLinkService
	VendorExchange *services.VendorExchangeService
}

type linkRequest struct {
	VendorEmail string `json:"vendor_email" binding:"required,email"`
	Provider    string `json:"provider" binding:"required"`
	UserID      string `json:"user_id" binding:"required"`
}

func (h *VendorHandler) CreateLink(c *gin.Context) {
	var req linkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	provider, err := findProviderBySlug(h.DB, req.Provider)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Provider not found"})
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user_id"})
		return
	}

	link, err := h.Links.UpsertLink(userID, provider.ID, req.VendorEmail)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"link": link})
}

func (h *VendorHandler) ListLinks(c *gin.Context) {
	vendorEmail := c.Query("vendor_email")
	if vendorEmail == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "vendor_email query parameter is required"})
		return
	}

	activeOnly := c.DefaultQuery("active_only", "true") != "false"

	links, err := h.Links.ListLinks(vendorEmail, activeOnly)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	result := make([]gin.H, 0, len(links))
	for _, link := range links {
		result = append(result, gin.H{
			"vendor_email": link.VendorEmail,
			"user_id":      link.UserID,
			"provider":     link.Provider.Slug,
			"linked_at":    link.LinkedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"links": result})
}

type vendorExchangeRequest struct {
	VendorEmail  string `json:"vendor_email" binding:"required,email"`
	FromProvider string `json:"from_provider" binding:"required"`
	ToProvider   string `json:"to_provider" binding:"required"`
	Points       int    `json:"points" binding:"required,gt=0"`
}

func (h *VendorHandler) ExchangePoints(c *gin.Context) {
	var req vendorExchangeRequest
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

	result, err := h.VendorExchange.Exchange(req.VendorEmail, fromProvider, toProvider, req.Points)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"points_sent":       result.PointsSent,
		"gross_value":       result.GrossValue,
		"total_fee_percent": result.TotalFeePercent,
		"total_fee_value":   result.TotalFeeValue,
		"net_value":         result.NetValue,
		"points_received":   result.PointsReceived,
		"transfer_out":      transactionResponse(result.TransferOut),
		"transfer_in":       transactionResponse(result.TransferIn),
	})
}

func (h *VendorHandler) PreviewExchange(c *gin.Context) {
	var req vendorExchangeRequest
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

	preview, err := h.VendorExchange.Preview(req.VendorEmail, fromProvider, toProvider, req.Points)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"preview": preview})
}
