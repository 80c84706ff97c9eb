package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/tekstilpro/proforma-api/internal/domain/enum"
	"gorm.io/gorm"
)

// PricingSettings holds an operator's default pricing configuration.
// They only prefill the dashboard; every calculation still receives an
// explicit configuration of its own.
type PricingSettings struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	DefaultProfitMargin float64      `gorm:"type:decimal(5,2);default:0" json:"default_profit_margin"`
	DefaultVATRate      enum.VATRate `gorm:"default:20" json:"default_vat_rate"`
	DefaultShippingCost float64      `gorm:"type:decimal(15,2);default:0" json:"default_shipping_cost"`
	Currency            string       `gorm:"size:10;default:'TRY'" json:"currency"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"-"`
}

// BeforeCreate generates a UUID before creating new settings
func (s *PricingSettings) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PricingSettings model
func (PricingSettings) TableName() string {
	return "pricing_settings"
}
