// Package pricing implements the proforma-invoice pricing engine for
// custom-production requests. It is pure: no I/O, no shared state, and
// it is total over sanitized input.
package pricing

import (
	"log"
	"math"

	"github.com/tekstilpro/proforma-api/internal/domain/enum"
)

// Epsilon is the absolute tolerance used when reconciling the two
// independent total-with-VAT computation paths.
const Epsilon = 1e-6

// LineItem is one line of a custom-production request. The ID is opaque:
// request-sourced items carry a UUID string, manually-created items carry
// whatever the builder assigned.
type LineItem struct {
	ID               string         `json:"id"`
	ProductName      string         `json:"product_name"`
	Quantity         int            `json:"quantity"`
	SizeDistribution map[string]int `json:"size_distribution,omitempty"`
}

// EffectiveQuantity returns the quantity actually priced: the sum of the
// size distribution when present, otherwise the flat quantity. Negative
// buckets count as zero so the engine stays total over unclean input.
func (it LineItem) EffectiveQuantity() int {
	if len(it.SizeDistribution) > 0 {
		total := 0
		for _, q := range it.SizeDistribution {
			if q > 0 {
				total += q
			}
		}
		return total
	}
	if it.Quantity < 0 {
		return 0
	}
	return it.Quantity
}

// CostInputs are the operator-entered costs for one line item.
// PrintingCost and EmbroideryCost are lump sums for the whole item,
// not per unit. All three default to zero until entered.
type CostInputs struct {
	UnitCost       float64 `json:"unit_cost"`
	PrintingCost   float64 `json:"printing_cost"`
	EmbroideryCost float64 `json:"embroidery_cost"`
}

// Config is the global pricing configuration shared by every item of one
// calculation. Each flow passes its own instance; there is no process-wide
// default inside the engine.
type Config struct {
	ProfitMargin       float64      `json:"profit_margin"`
	VATRate            enum.VATRate `json:"vat_rate"`
	SharedShippingCost float64      `json:"shared_shipping_cost"`
}

// ItemCalculation is the derived pricing of a single line item with a
// positive effective quantity.
type ItemCalculation struct {
	ItemID             string  `json:"item_id"`
	ProductName        string  `json:"product_name"`
	Quantity           int     `json:"quantity"`
	TotalCost          float64 `json:"total_cost"`
	UnitCostWithMargin float64 `json:"unit_cost_with_margin"`
	ShippingPerUnit    float64 `json:"shipping_per_unit"`
	UnitPrice          float64 `json:"unit_price"`
	FinalUnitPrice     float64 `json:"final_unit_price"`
	TotalOfferAmount   float64 `json:"total_offer_amount"`
	VATAmount          float64 `json:"vat_amount"`
	TotalWithVAT       float64 `json:"total_with_vat"`
}

// CalculationResult is the aggregate output of one pricing run.
type CalculationResult struct {
	Items            []ItemCalculation `json:"items"`
	TotalCost        float64           `json:"total_cost"`
	TotalQuantity    int               `json:"total_quantity"`
	TotalOfferAmount float64           `json:"total_offer_amount"`
	TotalVATAmount   float64           `json:"total_vat_amount"`
	TotalWithVAT     float64           `json:"total_with_vat"`
	ProfitPercentage float64           `json:"profit_percentage"`
}

// sanitizeAmount coerces NaN, infinities and negative amounts to zero.
func sanitizeAmount(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// SanitizeCosts coerces malformed cost fields to zero. Handlers call this
// before the calculator; the engine never rejects input.
func SanitizeCosts(c CostInputs) CostInputs {
	return CostInputs{
		UnitCost:       sanitizeAmount(c.UnitCost),
		PrintingCost:   sanitizeAmount(c.PrintingCost),
		EmbroideryCost: sanitizeAmount(c.EmbroideryCost),
	}
}

// SanitizeConfig coerces malformed configuration to safe values and snaps
// the VAT rate onto an accepted tier.
func SanitizeConfig(cfg Config) Config {
	return Config{
		ProfitMargin:       sanitizeAmount(cfg.ProfitMargin),
		VATRate:            enum.Normalize(cfg.VATRate),
		SharedShippingCost: sanitizeAmount(cfg.SharedShippingCost),
	}
}

// Calculate derives the full proforma pricing for the given line items.
// Items with an effective quantity of zero contribute nothing and are
// excluded from the result. Returns nil when there are no items or the
// total effective quantity is zero; callers treat that as "no calculation
// yet", not an error.
//
// Per item: margin applies to the raw unit cost only; lump printing and
// embroidery costs are spread per unit; the shared shipping cost is
// allocated proportionally to each item's share of the total quantity.
func Calculate(items []LineItem, costs map[string]CostInputs, cfg Config) *CalculationResult {
	if len(items) == 0 {
		return nil
	}

	totalQuantity := 0
	for _, it := range items {
		totalQuantity += it.EffectiveQuantity()
	}
	if totalQuantity == 0 {
		return nil
	}

	shippingPerUnit := cfg.SharedShippingCost / float64(totalQuantity)

	result := &CalculationResult{
		Items:         make([]ItemCalculation, 0, len(items)),
		TotalQuantity: totalQuantity,
	}

	itemTotalsSum := 0.0
	for _, it := range items {
		qty := it.EffectiveQuantity()
		if qty == 0 {
			continue
		}

		c := costs[it.ID]
		fqty := float64(qty)

		itemTotalCost := c.UnitCost*fqty + c.PrintingCost + c.EmbroideryCost
		printingPerUnit := c.PrintingCost / fqty
		embroideryPerUnit := c.EmbroideryCost / fqty

		unitCostWithMargin := c.UnitCost
		if cfg.ProfitMargin > 0 {
			unitCostWithMargin = c.UnitCost * (1 + cfg.ProfitMargin/100)
		}

		unitPrice := unitCostWithMargin + printingPerUnit + embroideryPerUnit + shippingPerUnit
		vatPerUnit := unitPrice * cfg.VATRate.Percent() / 100
		finalUnitPrice := unitPrice + vatPerUnit

		calc := ItemCalculation{
			ItemID:             it.ID,
			ProductName:        it.ProductName,
			Quantity:           qty,
			TotalCost:          itemTotalCost,
			UnitCostWithMargin: unitCostWithMargin,
			ShippingPerUnit:    shippingPerUnit,
			UnitPrice:          unitPrice,
			FinalUnitPrice:     finalUnitPrice,
			TotalOfferAmount:   unitPrice * fqty,
			VATAmount:          vatPerUnit * fqty,
			TotalWithVAT:       finalUnitPrice * fqty,
		}

		result.Items = append(result.Items, calc)
		result.TotalCost += itemTotalCost
		result.TotalOfferAmount += calc.TotalOfferAmount
		result.TotalVATAmount += calc.VATAmount
		itemTotalsSum += calc.TotalWithVAT
	}

	// Shipping is part of the cost rollup exactly once, never per item.
	result.TotalCost += cfg.SharedShippingCost

	// The aggregate-from-amounts path is authoritative; the per-item sum
	// must agree within tolerance or the run is defective.
	result.TotalWithVAT = result.TotalOfferAmount + result.TotalVATAmount
	if math.Abs(result.TotalWithVAT-itemTotalsSum) > Epsilon {
		log.Printf("pricing: total reconciliation mismatch: aggregate=%.10f per-item=%.10f", result.TotalWithVAT, itemTotalsSum)
	}

	if result.TotalCost != 0 {
		result.ProfitPercentage = (result.TotalOfferAmount - result.TotalCost) / result.TotalCost * 100
	}

	return result
}
