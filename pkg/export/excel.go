package export

import (
	"fmt"

	"github.com/tekstilpro/proforma-api/internal/domain/entity"
	"github.com/xuri/excelize/v2"
)

// GenerateProformaExcel renders a proforma invoice as an XLSX workbook
// and returns the file contents as a byte slice.
func GenerateProformaExcel(p *entity.Proforma) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Proforma"
	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	// Column references (A through E).
	columns := []string{"A", "B", "C", "D", "E"}
	widths := []float64{40, 10, 14, 14, 16}
	for i, col := range columns {
		if err := f.SetColWidth(sheetName, col, col, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16},
	})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}

	subtitleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 11},
	})
	if err != nil {
		return nil, fmt.Errorf("create subtitle style: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#333333"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	cellStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create cell style: %w", err)
	}

	moneyStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 10},
		Border:    thinBorders(),
		NumFmt:    4, // #,##0.00
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return nil, fmt.Errorf("create money style: %w", err)
	}

	totalStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Border:    thinBorders(),
		NumFmt:    4,
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return nil, fmt.Errorf("create total style: %w", err)
	}

	row := 1
	setCell := func(col string, r int, value interface{}, style int) error {
		cell := fmt.Sprintf("%s%d", col, r)
		if err := f.SetCellValue(sheetName, cell, value); err != nil {
			return fmt.Errorf("set cell %s: %w", cell, err)
		}
		if style != 0 {
			if err := f.SetCellStyle(sheetName, cell, cell, style); err != nil {
				return fmt.Errorf("style cell %s: %w", cell, err)
			}
		}
		return nil
	}

	// Header block
	if err := setCell("A", row, p.Header.CompanyName, titleStyle); err != nil {
		return nil, err
	}
	row++
	if p.Header.Address != "" {
		if err := setCell("A", row, p.Header.Address, subtitleStyle); err != nil {
			return nil, err
		}
		row++
	}
	if p.Header.Phone != "" {
		if err := setCell("A", row, "Tel: "+p.Header.Phone, subtitleStyle); err != nil {
			return nil, err
		}
		row++
	}
	if p.Header.TaxID != "" {
		if err := setCell("A", row, "Tax ID: "+p.Header.TaxID, subtitleStyle); err != nil {
			return nil, err
		}
		row++
	}
	row++

	if err := setCell("A", row, fmt.Sprintf("PROFORMA INVOICE %s", p.RequestNumber), titleStyle); err != nil {
		return nil, err
	}
	row++
	if err := setCell("A", row, fmt.Sprintf("Date: %s", p.Date), subtitleStyle); err != nil {
		return nil, err
	}
	row++
	customer := p.Customer
	if p.Company != "" {
		customer = fmt.Sprintf("%s (%s)", p.Customer, p.Company)
	}
	if err := setCell("A", row, fmt.Sprintf("Customer: %s", customer), subtitleStyle); err != nil {
		return nil, err
	}
	row += 2

	// Item table header
	headers := []string{"Product", "Qty", "Unit Price", "Unit Price (VAT)", "Total"}
	for i, h := range headers {
		if err := setCell(columns[i], row, h, headerStyle); err != nil {
			return nil, err
		}
	}
	row++

	for _, line := range p.Lines {
		if err := setCell("A", row, line.ProductName, cellStyle); err != nil {
			return nil, err
		}
		if err := setCell("B", row, line.Quantity, cellStyle); err != nil {
			return nil, err
		}
		if err := setCell("C", row, line.UnitPrice, moneyStyle); err != nil {
			return nil, err
		}
		if err := setCell("D", row, line.FinalUnitPrice, moneyStyle); err != nil {
			return nil, err
		}
		if err := setCell("E", row, line.Total, moneyStyle); err != nil {
			return nil, err
		}
		row++
	}
	row++

	// Totals block
	if err := setCell("D", row, "Subtotal", cellStyle); err != nil {
		return nil, err
	}
	if err := setCell("E", row, p.SubTotal, moneyStyle); err != nil {
		return nil, err
	}
	row++
	if err := setCell("D", row, fmt.Sprintf("VAT (%d%%)", p.VATRate), cellStyle); err != nil {
		return nil, err
	}
	if err := setCell("E", row, p.VATAmount, moneyStyle); err != nil {
		return nil, err
	}
	row++
	if err := setCell("D", row, fmt.Sprintf("Total (%s)", p.Currency), totalStyle); err != nil {
		return nil, err
	}
	if err := setCell("E", row, p.Total, totalStyle); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// thinBorders returns a full set of thin cell borders.
func thinBorders() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Style: 1, Color: "#999999"},
		{Type: "right", Style: 1, Color: "#999999"},
		{Type: "top", Style: 1, Color: "#999999"},
		{Type: "bottom", Style: 1, Color: "#999999"},
	}
}
