package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tekstilpro/proforma-api/internal/domain/enum"
	"github.com/tekstilpro/proforma-api/internal/domain/pricing"
	"gorm.io/gorm"
)

// SizeMap is a size label -> quantity breakdown stored as JSONB.
// When present on an item, the sum of its values is the quantity that
// gets priced; the flat quantity is ignored.
type SizeMap map[string]int

func (m SizeMap) Value() (driver.Value, error) {
	if len(m) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (m *SizeMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	}
	return fmt.Errorf("sizemap: cannot scan %T", value)
}

// ProductionRequest represents a custom-production quotation request.
// Customer identity is denormalized from the intake flow; only the name
// is required.
type ProductionRequest struct {
	ID              uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	RequestNumber   string             `gorm:"size:100;unique;not null" json:"request_number"`
	CustomerName    string             `gorm:"size:255;not null" json:"customer_name"`
	CustomerEmail   *string            `gorm:"size:255" json:"customer_email,omitempty"`
	CustomerPhone   *string            `gorm:"size:50" json:"customer_phone,omitempty"`
	CustomerCompany *string            `gorm:"size:255" json:"customer_company,omitempty"`
	Status          enum.RequestStatus `gorm:"default:0" json:"status"`
	Source          enum.RequestSource `gorm:"default:0" json:"source"`
	RevisionNotes   *string            `gorm:"type:text" json:"revision_notes,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
	DeletedAt       gorm.DeletedAt     `gorm:"index" json:"-"`

	// Relationships
	Items  []RequestItem `gorm:"foreignKey:RequestID" json:"items,omitempty"`
	Quotes []Quote       `gorm:"foreignKey:RequestID" json:"quotes,omitempty"`
}

// BeforeCreate generates a UUID before creating a new request
func (r *ProductionRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ProductionRequest model
func (ProductionRequest) TableName() string {
	return "production_requests"
}

// LineItems projects the request's items into the pricing engine's shape.
// Zero-quantity items are included; the calculator excludes them itself.
func (r *ProductionRequest) LineItems() []pricing.LineItem {
	items := make([]pricing.LineItem, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, pricing.LineItem{
			ID:               it.ID.String(),
			ProductName:      it.ProductName,
			Quantity:         it.Quantity,
			SizeDistribution: it.SizeDistribution,
		})
	}
	return items
}

// CostInputs collects the operator-entered costs keyed by item ID,
// sanitized for the calculator.
func (r *ProductionRequest) CostInputs() map[string]pricing.CostInputs {
	costs := make(map[string]pricing.CostInputs, len(r.Items))
	for _, it := range r.Items {
		costs[it.ID.String()] = pricing.SanitizeCosts(pricing.CostInputs{
			UnitCost:       it.UnitCost,
			PrintingCost:   it.PrintingCost,
			EmbroideryCost: it.EmbroideryCost,
		})
	}
	return costs
}

// RequestItem is a line item of a production request. Printing and
// embroidery costs are lump sums for the whole item.
type RequestItem struct {
	ID               uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	RequestID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"request_id"`
	ProductID        *uuid.UUID     `gorm:"type:uuid;index" json:"product_id,omitempty"`
	ProductName      string         `gorm:"size:255;not null" json:"product_name"`
	ProductImage     *string        `gorm:"size:255" json:"product_image,omitempty"`
	Quantity         int            `gorm:"default:0" json:"quantity"`
	SizeDistribution SizeMap        `gorm:"type:jsonb" json:"size_distribution,omitempty"`
	UnitCost         float64        `gorm:"type:decimal(15,2);default:0" json:"unit_cost"`
	PrintingCost     float64        `gorm:"type:decimal(15,2);default:0" json:"printing_cost"`
	EmbroideryCost   float64        `gorm:"type:decimal(15,2);default:0" json:"embroidery_cost"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Request ProductionRequest `gorm:"foreignKey:RequestID" json:"-"`
	Product *Product          `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// BeforeCreate generates a UUID before creating a new request item
func (it *RequestItem) BeforeCreate(tx *gorm.DB) error {
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the RequestItem model
func (RequestItem) TableName() string {
	return "request_items"
}
