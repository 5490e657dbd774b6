package handlers

import (
	"errors"
	"net/http"

	"loyalty-backend/models"
	"loyalty-backend/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// respondServiceError maps the ledger error taxonomy onto HTTP
// statuses. Every taxonomy kind is a recoverable validation failure;
// anything else is a storage error.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNoLinkedAccount):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrLinkConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInsufficientBalance):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrInvalidAdjustment),
		errors.Is(err, services.ErrSameProvider),
		errors.Is(err, services.ErrProviderInactive),
		errors.Is(err, services.ErrZeroResultExchange):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// transactionResponse is the external projection of a ledger entry.
func transactionResponse(t *models.PointTransaction) gin.H {
	resp := gin.H{
		"id":            t.ID,
		"provider_id":   t.ProviderID,
		"type":          t.Type,
		"points":        t.Points,
		"balance_after": t.BalanceAfter,
		"description":   t.Description,
		"created_at":    t.CreatedAt,
	}
	if t.Metadata != nil {
		resp["metadata"] = t.Metadata
	}
	if t.ExpiresAt != nil {
		resp["expires_at"] = t.ExpiresAt
	}
	return resp
}

// findProviderBySlug loads a provider by its slug route key.
func findProviderBySlug(db *gorm.DB, slug string) (*models.Provider, error) {
	var provider models.Provider
	if err := db.Where("slug = ?", slug).First(&provider).Error; err != nil {
		return nil, err
	}
	return &provider, nil
}
