package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product represents a catalog entry the manual invoice builder selects
// from. The catalog carries no pricing authority: unit costs are always
// entered by the operator, never inferred from here. BasePrice is only
// a reference figure shown next to search results.
type Product struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name         string         `gorm:"size:255;not null;index" json:"name"`
	Code         string         `gorm:"size:100;unique;not null" json:"code"`
	BasePrice    float64        `gorm:"type:decimal(15,2);default:0" json:"base_price"`
	ProductImage *string        `gorm:"size:255" json:"product_image,omitempty"`
	Notes        *string        `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}
