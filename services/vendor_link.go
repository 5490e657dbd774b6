package services

import (
	"errors"
	"fmt"

	"loyalty-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VendorLinkService resolves vendor-facing emails to internal
// (user, provider) identities. It is a plain keyed lookup; the
// uniqueness constraint on (vendor_email, provider_id) keeps exchange
// resolution unambiguous.
type VendorLinkService struct {
	DB *gorm.DB
}

// FindLink returns the link for (vendorEmail, providerID), or nil when
// no such link exists.
func (s *VendorLinkService) FindLink(vendorEmail string, providerID uuid.UUID) (*models.VendorUserLink, error) {
	var link models.VendorUserLink
	err := s.DB.Where("vendor_email = ? AND provider_id = ?", vendorEmail, providerID).
		First(&link).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up vendor link: %w", err)
	}
	return &link, nil
}

// UpsertLink creates or refreshes the link for (userID, providerID).
// Linking fails when the vendor email is already bound to a different
// user for the same provider.
func (s *VendorLinkService) UpsertLink(userID, providerID uuid.UUID, vendorEmail string) (*models.VendorUserLink, error) {
	existing, err := s.FindLink(vendorEmail, providerID)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.UserID != userID {
		return nil, ErrLinkConflict
	}

	link := models.VendorUserLink{
		VendorEmail: vendorEmail,
		UserID:      userID,
		ProviderID:  providerID,
	}
	err = s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "provider_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"vendor_email", "linked_at", "updated_at"}),
	}).Create(&link).Error
	if err != nil {
		return nil, fmt.Errorf("failed to upsert vendor link: %w", err)
	}

	// Re-read so callers see the persisted row regardless of whether the
	// insert or the update path ran.
	var saved models.VendorUserLink
	if err := s.DB.Where("user_id = ? AND provider_id = ?", userID, providerID).First(&saved).Error; err != nil {
		return nil, fmt.Errorf("failed to reload vendor link: %w", err)
	}
	return &saved, nil
}

// ListLinks returns all links for a vendor email, by default limited to
// active providers.
func (s *VendorLinkService) ListLinks(vendorEmail string, activeProvidersOnly bool) ([]models.VendorUserLink, error) {
	query := s.DB.Preload("Provider").Preload("User").
		Where("vendor_email = ?", vendorEmail)
	if activeProvidersOnly {
		query = query.Joins("JOIN providers ON providers.id = vendor_user_links.provider_id").
			Where("providers.is_active = ?", true)
	}

	var links []models.VendorUserLink
	if err := query.Order("linked_at").Find(&links).Error; err != nil {
		return nil, fmt.Errorf("failed to list vendor links: %w", err)
	}
	return links, nil
}
