package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VendorUserLink associates an external vendor-facing email with an
// internal (user, provider) identity. A vendor email maps to at most
// one user per provider.
type VendorUserLink struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	VendorEmail string    `gorm:"not null;uniqueIndex:idx_link_email_provider" json:"vendor_email"`
	ProviderID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_link_email_provider;uniqueIndex:idx_link_user_provider" json:"provider_id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_link_user_provider" json:"user_id"`
	LinkedAt    time.Time `json:"linked_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	User     User     `gorm:"foreignKey:UserID" json:"-"`
	Provider Provider `gorm:"foreignKey:ProviderID" json:"-"`
}

func (l *VendorUserLink) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.LinkedAt.IsZero() {
		l.LinkedAt = time.Now()
	}
	return nil
}
