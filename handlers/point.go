package handlers

import (
	"net/http"
	"strconv"
	"time"

	"loyalty-backend/models"
	"loyalty-backend/services"
	"loyalty-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PointHandler exposes the customer self-service read surface and the
// provider-scoped award/deduct/adjust operations used by vendor and
// admin callers.
type PointHandler struct {
	DB     *gorm.DB
	Points *services.PointService
}

// GetBalance returns the authenticated user's balance for one provider
// (?provider=slug) or all providers when no slug is given.
func (h *PointHandler) GetBalance(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	if slug := c.Query("provider"); slug != "" {
		provider, err := findProviderBySlug(h.DB, slug)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Provider not found"})
			return
		}

		balance, err := h.Points.GetBalance(userID, provider.ID)
		if err != nil {
			respondServiceError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"provider": provider.Slug,
			"balance":  balance,
		})
		return
	}

	var balances []models.ProviderBalance
	if err := h.DB.Preload("Provider").Where("user_id = ?", userID).Find(&balances).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch balances"})
		return
	}

	result := make([]gin.H, 0, len(balances))
	for _, b := range balances {
		result = append(result, gin.H{
			"provider": b.Provider.Slug,
			"balance":  b.Balance,
		})
	}
	c.JSON(http.StatusOK, gin.H{"balances": result})
}

// GetTransactions lists the authenticated user's ledger entries, newest
// first, optionally filtered by provider slug.
func (h *PointHandler) GetTransactions(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	query := h.DB.Where("user_id = ?", userID).Order("created_at DESC")
	if slug := c.Query("provider"); slug != "" {
		provider, err := findProviderBySlug(h.DB, slug)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Provider not found"})
			return
		}
		query = query.Where("provider_id = ?", provider.ID)
	}

	limit := 50
	if l, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil && l > 0 && l <= 200 {
		limit = l
	}

	var transactions []models.PointTransaction
	if err := query.Limit(limit).Find(&transactions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions"})
		return
	}

	result := make([]gin.H, 0, len(transactions))
	for i := range transactions {
		result = append(result, transactionResponse(&transactions[i]))
	}
	c.JSON(http.StatusOK, gin.H{"transactions": result})
}

// customerContext resolves the :slug provider and :id customer route
// params shared by the provider-scoped operations.
func (h *PointHandler) customerContext(c *gin.Context) (*models.Provider, *models.User, bool) {
	provider, err := findProviderBySlug(h.DB, c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Provider not found"})
		return nil, nil, false
	}

	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer id"})
		return nil, nil, false
	}

	var customer models.User
	if err := h.DB.Where("id = ?", customerID).First(&customer).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return nil, nil, false
	}

	return provider, &customer, true
}

type awardRequest struct {
	Points      int            `json:"points" binding:"required,gt=0"`
	Description string         `json:"description" binding:"required"`
	Type        string         `json:"type"`
	Metadata    models.JSONMap `json:"metadata"`
	ExpiresAt   *time.Time     `json:"expires_at"`
}

// AwardPoints credits points to a customer's balance for the provider
// in the route.
func (h *PointHandler) AwardPoints(c *gin.Context) {
	provider, customer, ok := h.customerContext(c)
	if !ok {
		return
	}

	var req awardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	txType := models.TransactionEarn
	if req.Type != "" {
		txType = models.TransactionType(req.Type)
		if !txType.Valid() || !txType.IsCredit(req.Points) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid transaction type for award"})
			return
		}
	}

	record, err := h.Points.Award(customer.ID, provider.ID, req.Points, req.Description, txType, req.Metadata, req.ExpiresAt)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": transactionResponse(record)})
}

type deductRequest struct {
	Points      int            `json:"points" binding:"required,gt=0"`
	Description string         `json:"description" binding:"required"`
	Metadata    models.JSONMap `json:"metadata"`
}

// DeductPoints debits points from a customer's balance for the provider
// in the route.
func (h *PointHandler) DeductPoints(c *gin.Context) {
	provider, customer, ok := h.customerContext(c)
	if !ok {
		return
	}

	var req deductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	record, err := h.Points.Deduct(customer.ID, provider.ID, req.Points, req.Description, models.TransactionRedeem, req.Metadata)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": transactionResponse(record)})
}

type adjustRequest struct {
	Points      int            `json:"points" binding:"required"`
	Description string         `json:"description" binding:"required"`
	Metadata    models.JSONMap `json:"metadata"`
}

// AdjustPoints applies a signed correction to a customer's balance.
func (h *PointHandler) AdjustPoints(c *gin.Context) {
	provider, customer, ok := h.customerContext(c)
	if !ok {
		return
	}

	var req adjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	record, err := h.Points.Adjust(customer.ID, provider.ID, req.Points, req.Description, req.Metadata)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": transactionResponse(record)})
}

// GetCustomerBalance returns one customer's balance for the provider in
// the route.
func (h *PointHandler) GetCustomerBalance(c *gin.Context) {
	provider, customer, ok := h.customerContext(c)
	if !ok {
		return
	}

	balance, err := h.Points.GetBalance(customer.ID, provider.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"provider":    provider.Slug,
		"customer_id": customer.ID,
		"balance":     balance,
	})
}

// GetCustomerTransactions lists one customer's ledger entries for the
// provider in the route, newest first.
func (h *PointHandler) GetCustomerTransactions(c *gin.Context) {
	provider, customer, ok := h.customerContext(c)
	if !ok {
		return
	}

	var transactions []models.PointTransaction
	err := h.DB.Where("user_id = ? AND provider_id = ?", customer.ID, provider.ID).
		Order("created_at DESC").Limit(100).Find(&transactions).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions"})
		return
	}

	result := make([]gin.H, 0, len(transactions))
	for i := range transactions {
		result = append(result, transactionResponse(&transactions[i]))
	}
	c.JSON(http.StatusOK, gin.H{"transactions": result})
}
