package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PointTransaction is an immutable ledger entry. Rows are appended by
// the ledger services and never updated or deleted; BalanceAfter
// snapshots the cached balance immediately after the entry was written.
type PointTransaction struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	ProviderID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"provider_id"`
	Type         TransactionType `gorm:"not null" json:"type"`
	Points       int             `gorm:"not null" json:"points"`
	BalanceAfter int             `gorm:"not null" json:"balance_after"`
	Description  string          `json:"description"`
	Metadata     JSONMap         `json:"metadata,omitempty"`
	ExpiresAt    *time.Time      `json:"expires_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`

	User     User     `gorm:"foreignKey:UserID" json:"-"`
	Provider Provider `gorm:"foreignKey:ProviderID" json:"-"`
}

func (t *PointTransaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
