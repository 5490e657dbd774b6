package handlers

import (
	"net/http"

	"loyalty-backend/models"
	"loyalty-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ProviderHandler struct {
	DB *gorm.DB
}

// GetProviders lists the catalog, active providers only unless
// ?include_inactive=true.
func (h *ProviderHandler) GetProviders(c *gin.Context) {
	query := h.DB.Order("name")
	if c.Query("include_inactive") != "true" {
		query = query.Where("is_active = ?", true)
	}

	var providers []models.Provider
	if err := query.Find(&providers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch providers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"providers": providers})
}

func (h *ProviderHandler) GetProvider(c *gin.Context) {
	provider, err := findProviderBySlug(h.DB, c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Provider not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"provider": provider})
}

type providerRequest struct {
	Name               string  `json:"name" binding:"required"`
	TradeName          string  `json:"trade_name"`
	Slug               string  `json:"slug" binding:"required"`
	Category           string  `json:"category"`
	Description        string  `json:"description"`
	WebLink            string  `json:"web_link"`
	IsActive           *bool   `json:"is_active"`
	PointsToValueRatio float64 `json:"points_to_value_ratio" binding:"required,gt=0"`
	TransferFeePercent float64 `json:"transfer_fee_percent"`
	ExchangeRateBase   float64 `json:"exchange_rate_base"`
	ExchangeFeePercent float64 `json:"exchange_fee_percent"`
}

func (h *ProviderHandler) CreateProvider(c *gin.Context) {
	var req providerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	if req.ExchangeRateBase < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "exchange_rate_base must not be negative"})
		return
	}

	var existing models.Provider
	if err := h.DB.Where("slug = ?", req.Slug).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Provider slug already exists"})
		return
	}

	provider := models.Provider{
		Name:               req.Name,
		TradeName:          req.TradeName,
		Slug:               req.Slug,
		Category:           req.Category,
		Description:        req.Description,
		WebLink:            req.WebLink,
		IsActive:           true,
		PointsToValueRatio: req.PointsToValueRatio,
		TransferFeePercent: req.TransferFeePercent,
		ExchangeRateBase:   req.ExchangeRateBase,
		ExchangeFeePercent: req.ExchangeFeePercent,
	}
	if req.IsActive != nil {
		provider.IsActive = *req.IsActive
	}
	if provider.ExchangeRateBase == 0 {
		provider.ExchangeRateBase = 1
	}

	if err := h.DB.Create(&provider).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create provider"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"provider": provider})
}

func (h *ProviderHandler) UpdateProvider(c *gin.Context) {
	provider, err := findProviderBySlug(h.DB, c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Provider not found"})
		return
	}

	var req struct {
		Name               *string  `json:"name"`
		TradeName          *string  `json:"trade_name"`
		Category           *string  `json:"category"`
		Description        *string  `json:"description"`
		WebLink            *string  `json:"web_link"`
		IsActive           *bool    `json:"is_active"`
		PointsToValueRatio *float64 `json:"points_to_value_ratio"`
		TransferFeePercent *float64 `json:"transfer_fee_percent"`
		ExchangeRateBase   *float64 `json:"exchange_rate_base"`
		ExchangeFeePercent *float64 `json:"exchange_fee_percent"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	if req.PointsToValueRatio != nil && *req.PointsToValueRatio <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "points_to_value_ratio must be greater than zero"})
		return
	}
	if req.ExchangeRateBase != nil && *req.ExchangeRateBase <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "exchange_rate_base must be greater than zero"})
		return
	}

	if req.Name != nil {
		provider.Name = *req.Name
	}
	if req.TradeName != nil {
		provider.TradeName = *req.TradeName
	}
	if req.Category != nil {
		provider.Category = *req.Category
	}
	if req.Description != nil {
		provider.Description = *req.Description
	}
	if req.WebLink != nil {
		provider.WebLink = *req.WebLink
	}
	if req.IsActive != nil {
		provider.IsActive = *req.IsActive
	}
	if req.PointsToValueRatio != nil {
		provider.PointsToValueRatio = *req.PointsToValueRatio
	}
	if req.TransferFeePercent != nil {
		provider.TransferFeePercent = *req.TransferFeePercent
	}
	if req.ExchangeRateBase != nil {
		provider.ExchangeRateBase = *req.ExchangeRateBase
	}
	if req.ExchangeFeePercent != nil {
		provider.ExchangeFeePercent = *req.ExchangeFeePercent
	}

	if err := h.DB.Save(provider).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update provider"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"provider": provider})
}
