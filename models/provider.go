package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Provider struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	TradeName   string    `json:"trade_name"`
	Slug        string    `gorm:"uniqueIndex;not null" json:"slug"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	WebLink     string    `json:"web_link"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`

	// Value-based exchange model: currency value of one point and the
	// fee charged when points leave this provider.
	PointsToValueRatio float64 `gorm:"default:1" json:"points_to_value_ratio"`
	TransferFeePercent float64 `gorm:"default:0" json:"transfer_fee_percent"`

	// Legacy flat-rate exchange model, still used by the direct
	// provider-pair exchange path.
	ExchangeRateBase   float64 `gorm:"default:1" json:"exchange_rate_base"`
	ExchangeFeePercent float64 `gorm:"default:0" json:"exchange_fee_percent"`

	Metadata  JSONMap   `json:"metadata,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Provider) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
