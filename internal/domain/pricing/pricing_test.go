package pricing

import (
	"math"
	"reflect"
	"testing"

	"github.com/tekstilpro/proforma-api/internal/domain/enum"
)

func nearlyEqual(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-6 {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

func TestCalculate_SingleItemScenario(t *testing.T) {
	items := []LineItem{{ID: "a", ProductName: "Polo Shirt", Quantity: 10}}
	costs := map[string]CostInputs{
		"a": {UnitCost: 100, PrintingCost: 50, EmbroideryCost: 0},
	}
	cfg := Config{ProfitMargin: 20, VATRate: enum.VATRateLow, SharedShippingCost: 100}

	result := Calculate(items, costs, cfg)
	if result == nil {
		t.Fatal("expected a result, got nil")
	}
	if len(result.Items) != 1 {
		t.Fatalf("expected 1 item calculation, got %d", len(result.Items))
	}

	calc := result.Items[0]
	nearlyEqual(t, "unitCostWithMargin", calc.UnitCostWithMargin, 120)
	nearlyEqual(t, "shippingPerUnit", calc.ShippingPerUnit, 10)
	nearlyEqual(t, "unitPrice", calc.UnitPrice, 135)
	nearlyEqual(t, "finalUnitPrice", calc.FinalUnitPrice, 148.5)
	nearlyEqual(t, "totalOfferAmount", calc.TotalOfferAmount, 1350)
	nearlyEqual(t, "vatAmount", calc.VATAmount, 135)
	nearlyEqual(t, "totalWithVat", calc.TotalWithVAT, 1485)

	nearlyEqual(t, "result totalCost", result.TotalCost, 1150)
	nearlyEqual(t, "result totalOfferAmount", result.TotalOfferAmount, 1350)
	nearlyEqual(t, "result totalVatAmount", result.TotalVATAmount, 135)
	nearlyEqual(t, "result totalWithVat", result.TotalWithVAT, 1485)
	nearlyEqual(t, "profitPercentage", result.ProfitPercentage, (1350.0-1150.0)/1150.0*100)
	if result.TotalQuantity != 10 {
		t.Fatalf("totalQuantity = %d, want 10", result.TotalQuantity)
	}
}

func TestCalculate_VATIdentityPerItem(t *testing.T) {
	rates := []enum.VATRate{enum.VATRateZero, enum.VATRateReduced, enum.VATRateLow, enum.VATRateStandard}

	items := []LineItem{
		{ID: "a", Quantity: 7},
		{ID: "b", SizeDistribution: map[string]int{"S": 3, "M": 5, "XL": 4}},
	}
	costs := map[string]CostInputs{
		"a": {UnitCost: 42.5, PrintingCost: 13, EmbroideryCost: 7.25},
		"b": {UnitCost: 19.99, EmbroideryCost: 30},
	}

	for _, rate := range rates {
		cfg := Config{ProfitMargin: 15, VATRate: rate, SharedShippingCost: 77.7}
		result := Calculate(items, costs, cfg)
		if result == nil {
			t.Fatalf("rate %d: expected a result", rate)
		}
		for _, calc := range result.Items {
			wantFinal := calc.UnitPrice * (1 + rate.Percent()/100)
			nearlyEqual(t, "finalUnitPrice identity", calc.FinalUnitPrice, wantFinal)
			nearlyEqual(t, "totalWithVat identity", calc.TotalWithVAT, calc.FinalUnitPrice*float64(calc.Quantity))
			nearlyEqual(t, "per-item amounts identity", calc.TotalWithVAT, calc.TotalOfferAmount+calc.VATAmount)
		}
	}
}

func TestCalculate_AggregateReconciliation(t *testing.T) {
	items := []LineItem{
		{ID: "a", Quantity: 3},
		{ID: "b", Quantity: 11},
		{ID: "c", SizeDistribution: map[string]int{"M": 6}},
	}
	costs := map[string]CostInputs{
		"a": {UnitCost: 10.1, PrintingCost: 3.33},
		"b": {UnitCost: 250, EmbroideryCost: 120.45},
		"c": {UnitCost: 0.07},
	}
	cfg := Config{ProfitMargin: 33.3, VATRate: enum.VATRateStandard, SharedShippingCost: 199.9}

	result := Calculate(items, costs, cfg)
	if result == nil {
		t.Fatal("expected a result")
	}

	// Aggregate is the sum of offer and VAT amounts by construction.
	if result.TotalWithVAT != result.TotalOfferAmount+result.TotalVATAmount {
		t.Fatalf("totalWithVat %v != totalOfferAmount %v + totalVatAmount %v",
			result.TotalWithVAT, result.TotalOfferAmount, result.TotalVATAmount)
	}

	// The independent per-item path must agree within tolerance.
	var perItemSum float64
	for _, calc := range result.Items {
		perItemSum += calc.TotalWithVAT
	}
	nearlyEqual(t, "per-item total path", perItemSum, result.TotalWithVAT)
}

func TestCalculate_ZeroQuantityItemExcluded(t *testing.T) {
	items := []LineItem{
		{ID: "kept", Quantity: 5},
		{ID: "zero-flat", Quantity: 0},
		{ID: "zero-sizes", SizeDistribution: map[string]int{"S": 0, "M": 0}},
	}
	costs := map[string]CostInputs{
		"kept":       {UnitCost: 10},
		"zero-flat":  {UnitCost: 9999, PrintingCost: 500, EmbroideryCost: 500},
		"zero-sizes": {UnitCost: 9999},
	}

	result := Calculate(items, costs, Config{VATRate: enum.VATRateStandard})
	if result == nil {
		t.Fatal("expected a result")
	}
	if len(result.Items) != 1 || result.Items[0].ItemID != "kept" {
		t.Fatalf("expected only the non-empty item, got %+v", result.Items)
	}
	if result.TotalQuantity != 5 {
		t.Fatalf("totalQuantity = %d, want 5", result.TotalQuantity)
	}
	// Zero-quantity cost inputs must not leak into the rollup.
	nearlyEqual(t, "totalCost", result.TotalCost, 50)
}

func TestCalculate_ShippingAllocationConservation(t *testing.T) {
	tests := []struct {
		name  string
		items []LineItem
	}{
		{"even split", []LineItem{{ID: "a", Quantity: 5}, {ID: "b", Quantity: 5}}},
		{"skewed split", []LineItem{{ID: "a", Quantity: 1}, {ID: "b", Quantity: 99}}},
		{"three ways with sizes", []LineItem{
			{ID: "a", Quantity: 7},
			{ID: "b", SizeDistribution: map[string]int{"S": 2, "L": 4}},
			{ID: "c", Quantity: 13},
		}},
		{"single item", []LineItem{{ID: "a", Quantity: 3}}},
	}

	const shipping = 250.0
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			costs := map[string]CostInputs{}
			for _, it := range tt.items {
				costs[it.ID] = CostInputs{UnitCost: 12}
			}
			result := Calculate(tt.items, costs, Config{SharedShippingCost: shipping})
			if result == nil {
				t.Fatal("expected a result")
			}
			var allocated float64
			for _, calc := range result.Items {
				allocated += calc.ShippingPerUnit * float64(calc.Quantity)
			}
			nearlyEqual(t, "allocated shipping", allocated, shipping)
		})
	}
}

func TestCalculate_MarginAppliesToUnitCostOnly(t *testing.T) {
	items := []LineItem{{ID: "a", Quantity: 4}}
	cfg := Config{ProfitMargin: 25, VATRate: enum.VATRateLow}

	base := Calculate(items, map[string]CostInputs{"a": {UnitCost: 80}}, cfg)
	withLumps := Calculate(items, map[string]CostInputs{
		"a": {UnitCost: 80, PrintingCost: 200, EmbroideryCost: 120},
	}, cfg)

	if base == nil || withLumps == nil {
		t.Fatal("expected results")
	}
	nearlyEqual(t, "unitCostWithMargin unchanged by lumps",
		withLumps.Items[0].UnitCostWithMargin, base.Items[0].UnitCostWithMargin)
	nearlyEqual(t, "unitCostWithMargin", base.Items[0].UnitCostWithMargin, 100)
}

func TestCalculate_ZeroMarginLeavesUnitCost(t *testing.T) {
	items := []LineItem{{ID: "a", Quantity: 2}}
	costs := map[string]CostInputs{"a": {UnitCost: 55}}

	result := Calculate(items, costs, Config{ProfitMargin: 0})
	if result == nil {
		t.Fatal("expected a result")
	}
	nearlyEqual(t, "unitCostWithMargin", result.Items[0].UnitCostWithMargin, 55)
}

func TestCalculate_Idempotent(t *testing.T) {
	items := []LineItem{
		{ID: "a", Quantity: 9},
		{ID: "b", SizeDistribution: map[string]int{"S": 1, "M": 2, "L": 3}},
	}
	costs := map[string]CostInputs{
		"a": {UnitCost: 17.77, PrintingCost: 8.1},
		"b": {UnitCost: 31.5, EmbroideryCost: 44.44},
	}
	cfg := Config{ProfitMargin: 12.5, VATRate: enum.VATRateStandard, SharedShippingCost: 66.6}

	first := Calculate(items, costs, cfg)
	second := Calculate(items, costs, cfg)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("calculator is not deterministic:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestCalculate_AbsentResult(t *testing.T) {
	tests := []struct {
		name  string
		items []LineItem
	}{
		{"no items", nil},
		{"empty slice", []LineItem{}},
		{"all zero quantity", []LineItem{{ID: "a", Quantity: 0}, {ID: "b", SizeDistribution: map[string]int{"M": 0}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := Calculate(tt.items, nil, Config{SharedShippingCost: 100}); result != nil {
				t.Fatalf("expected nil result, got %+v", result)
			}
		})
	}
}

func TestCalculate_ZeroTotalCostProfitGuard(t *testing.T) {
	items := []LineItem{{ID: "a", Quantity: 3}}
	// No cost inputs entered yet: everything defaults to zero.
	result := Calculate(items, map[string]CostInputs{}, Config{})
	if result == nil {
		t.Fatal("expected a result")
	}
	nearlyEqual(t, "profitPercentage", result.ProfitPercentage, 0)
}

func TestEffectiveQuantity(t *testing.T) {
	tests := []struct {
		name string
		item LineItem
		want int
	}{
		{"flat quantity", LineItem{Quantity: 12}, 12},
		{"distribution wins over flat", LineItem{Quantity: 99, SizeDistribution: map[string]int{"S": 1, "M": 2}}, 3},
		{"negative flat coerced", LineItem{Quantity: -4}, 0},
		{"negative bucket ignored", LineItem{SizeDistribution: map[string]int{"S": -5, "M": 6}}, 6},
		{"empty distribution falls back", LineItem{Quantity: 8, SizeDistribution: map[string]int{}}, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.item.EffectiveQuantity(); got != tt.want {
				t.Errorf("EffectiveQuantity() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSanitizeCosts(t *testing.T) {
	tests := []struct {
		name string
		in   CostInputs
		want CostInputs
	}{
		{"clean passthrough", CostInputs{UnitCost: 10, PrintingCost: 5, EmbroideryCost: 2}, CostInputs{UnitCost: 10, PrintingCost: 5, EmbroideryCost: 2}},
		{"negatives coerced", CostInputs{UnitCost: -1, PrintingCost: -0.5, EmbroideryCost: -100}, CostInputs{}},
		{"nan coerced", CostInputs{UnitCost: math.NaN()}, CostInputs{}},
		{"inf coerced", CostInputs{PrintingCost: math.Inf(1)}, CostInputs{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeCosts(tt.in); got != tt.want {
				t.Errorf("SanitizeCosts(%+v) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizeConfig(t *testing.T) {
	got := SanitizeConfig(Config{ProfitMargin: -20, VATRate: enum.VATRate(7), SharedShippingCost: math.NaN()})
	if got.ProfitMargin != 0 || got.SharedShippingCost != 0 {
		t.Fatalf("amounts not coerced: %+v", got)
	}
	if got.VATRate != enum.VATRateStandard {
		t.Fatalf("vat rate %d not snapped to standard tier", got.VATRate)
	}
}
