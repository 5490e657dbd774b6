package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProviderBalance caches the current point total for one (user, provider)
// pair. It is created lazily at zero and mutated only by the ledger
// services while the row is locked.
type ProviderBalance struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_balance_user_provider" json:"user_id"`
	ProviderID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_balance_user_provider" json:"provider_id"`
	Balance    int       `gorm:"not null;default:0" json:"balance"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	User     User     `gorm:"foreignKey:UserID" json:"-"`
	Provider Provider `gorm:"foreignKey:ProviderID" json:"-"`
}

func (b *ProviderBalance) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
