package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/tekstilpro/proforma-api/internal/domain/enum"
	"github.com/tekstilpro/proforma-api/internal/domain/pricing"
	"gorm.io/gorm"
)

// Quote is a persisted snapshot of one pricing run against a request:
// the configuration that produced it plus the derived aggregates. It is
// never patched incrementally; saving again creates a new snapshot.
type Quote struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	RequestID          uuid.UUID      `gorm:"type:uuid;not null;index" json:"request_id"`
	ProfitMargin       float64        `gorm:"type:decimal(5,2);default:0" json:"profit_margin"`
	VATRate            enum.VATRate   `gorm:"default:0" json:"vat_rate"`
	SharedShippingCost float64        `gorm:"type:decimal(15,2);default:0" json:"shared_shipping_cost"`
	TotalCost          float64        `gorm:"type:decimal(15,2);default:0" json:"total_cost"`
	TotalQuantity      int            `gorm:"default:0" json:"total_quantity"`
	TotalOfferAmount   float64        `gorm:"type:decimal(15,2);default:0" json:"total_offer_amount"`
	TotalVATAmount     float64        `gorm:"type:decimal(15,2);default:0" json:"total_vat_amount"`
	TotalWithVAT       float64        `gorm:"type:decimal(15,2);default:0" json:"total_with_vat"`
	ProfitPercentage   float64        `gorm:"type:decimal(8,4);default:0" json:"profit_percentage"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Request ProductionRequest `gorm:"foreignKey:RequestID" json:"-"`
	Items   []QuoteItem       `gorm:"foreignKey:QuoteID" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new quote
func (q *Quote) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Quote model
func (Quote) TableName() string {
	return "quotes"
}

// QuoteItem is the per-item row of a quote snapshot. Only items with a
// positive effective quantity appear here.
type QuoteItem struct {
	ID               uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	QuoteID          uuid.UUID      `gorm:"type:uuid;not null;index" json:"quote_id"`
	RequestItemID    string         `gorm:"size:100;not null" json:"request_item_id"`
	ProductName      string         `gorm:"size:255" json:"product_name"`
	Quantity         int            `gorm:"not null" json:"quantity"`
	TotalCost        float64        `gorm:"type:decimal(15,2);default:0" json:"total_cost"`
	UnitPrice        float64        `gorm:"type:decimal(15,4);default:0" json:"unit_price"`
	FinalUnitPrice   float64        `gorm:"type:decimal(15,4);default:0" json:"final_unit_price"`
	TotalOfferAmount float64        `gorm:"type:decimal(15,2);default:0" json:"total_offer_amount"`
	VATAmount        float64        `gorm:"type:decimal(15,2);default:0" json:"vat_amount"`
	TotalWithVAT     float64        `gorm:"type:decimal(15,2);default:0" json:"total_with_vat"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Quote Quote `gorm:"foreignKey:QuoteID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new quote item
func (qi *QuoteItem) BeforeCreate(tx *gorm.DB) error {
	if qi.ID == uuid.Nil {
		qi.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the QuoteItem model
func (QuoteItem) TableName() string {
	return "quote_items"
}

// NewQuoteFromCalculation builds a quote snapshot from a calculation
// result and the configuration that produced it.
func NewQuoteFromCalculation(requestID uuid.UUID, cfg pricing.Config, result *pricing.CalculationResult) *Quote {
	quote := &Quote{
		RequestID:          requestID,
		ProfitMargin:       cfg.ProfitMargin,
		VATRate:            cfg.VATRate,
		SharedShippingCost: cfg.SharedShippingCost,
		TotalCost:          result.TotalCost,
		TotalQuantity:      result.TotalQuantity,
		TotalOfferAmount:   result.TotalOfferAmount,
		TotalVATAmount:     result.TotalVATAmount,
		TotalWithVAT:       result.TotalWithVAT,
		ProfitPercentage:   result.ProfitPercentage,
	}

	for _, calc := range result.Items {
		quote.Items = append(quote.Items, QuoteItem{
			RequestItemID:    calc.ItemID,
			ProductName:      calc.ProductName,
			Quantity:         calc.Quantity,
			TotalCost:        calc.TotalCost,
			UnitPrice:        calc.UnitPrice,
			FinalUnitPrice:   calc.FinalUnitPrice,
			TotalOfferAmount: calc.TotalOfferAmount,
			VATAmount:        calc.VATAmount,
			TotalWithVAT:     calc.TotalWithVAT,
		})
	}

	return quote
}
