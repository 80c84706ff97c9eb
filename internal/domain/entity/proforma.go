package entity

// ProformaHeader holds the business header rendered at the top of a
// proforma document.
type ProformaHeader struct {
	CompanyName string `json:"company_name"`
	Address     string `json:"address,omitempty"`
	Phone       string `json:"phone,omitempty"`
	TaxID       string `json:"tax_id,omitempty"`
}

// ProformaLine represents a single priced line on a proforma document.
type ProformaLine struct {
	ProductName    string  `json:"product_name"`
	Quantity       int     `json:"quantity"`
	UnitPrice      float64 `json:"unit_price"`
	FinalUnitPrice float64 `json:"final_unit_price"`
	Total          float64 `json:"total"`
}

// Proforma is a value object representing a renderable proforma invoice.
// It is NOT a database entity; it is composed from a request and its
// quote snapshot at export time.
type Proforma struct {
	Header        ProformaHeader `json:"header"`
	RequestNumber string         `json:"request_number"`
	Date          string         `json:"date"`
	Customer      string         `json:"customer"`
	Company       string         `json:"company,omitempty"`
	Lines         []ProformaLine `json:"lines"`
	SubTotal      float64        `json:"sub_total"`
	VATRate       int            `json:"vat_rate"`
	VATAmount     float64        `json:"vat_amount"`
	Total         float64        `json:"total"`
	Currency      string         `json:"currency"`
}
