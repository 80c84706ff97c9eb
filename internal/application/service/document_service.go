package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tekstilpro/proforma-api/internal/config"
	"github.com/tekstilpro/proforma-api/internal/domain/entity"
	"github.com/tekstilpro/proforma-api/internal/domain/repository"
	"github.com/tekstilpro/proforma-api/pkg/apperror"
	"github.com/tekstilpro/proforma-api/pkg/email"
	"github.com/tekstilpro/proforma-api/pkg/export"
	"github.com/tekstilpro/proforma-api/pkg/printer"
)

// DocumentService projects persisted quote snapshots into deliverable
// documents: XLSX workbooks, thermal print summaries and emails. It
// never recomputes prices; the snapshot is the document's source.
type DocumentService struct {
	requestRepo  repository.ProductionRequestRepository
	quoteRepo    repository.QuoteRepository
	settingsRepo repository.SettingsRepository
	emailService *email.EmailService
	printer      printer.Printer
	company      config.CompanyConfig
}

// NewDocumentService creates a new document service
func NewDocumentService(
	requestRepo repository.ProductionRequestRepository,
	quoteRepo repository.QuoteRepository,
	settingsRepo repository.SettingsRepository,
	emailService *email.EmailService,
	p printer.Printer,
	company config.CompanyConfig,
) *DocumentService {
	return &DocumentService{
		requestRepo:  requestRepo,
		quoteRepo:    quoteRepo,
		settingsRepo: settingsRepo,
		emailService: emailService,
		printer:      p,
		company:      company,
	}
}

// BuildProforma composes the proforma value object for a request from
// its latest quote snapshot. The currency comes from the exporting
// operator's settings and falls back to TRY.
func (s *DocumentService) BuildProforma(ctx context.Context, userID, requestID uuid.UUID) (*entity.Proforma, error) {
	request, err := s.requestRepo.GetWithItems(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, apperror.NewNotFoundError("Request")
	}

	quote, err := s.quoteRepo.GetLatestByRequestID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, apperror.NewUnprocessableError("Request has no quote to export")
	}

	currency := "TRY"
	if settings, err := s.settingsRepo.GetByUserID(ctx, userID); err == nil && settings != nil && settings.Currency != "" {
		currency = settings.Currency
	}

	proforma := &entity.Proforma{
		Header: entity.ProformaHeader{
			CompanyName: s.company.Name,
			Address:     s.company.Address,
			Phone:       s.company.Phone,
			TaxID:       s.company.TaxID,
		},
		RequestNumber: request.RequestNumber,
		Date:          quote.CreatedAt.Format("02.01.2006"),
		Customer:      request.CustomerName,
		SubTotal:      quote.TotalOfferAmount,
		VATRate:       int(quote.VATRate),
		VATAmount:     quote.TotalVATAmount,
		Total:         quote.TotalWithVAT,
		Currency:      currency,
	}
	if request.CustomerCompany != nil {
		proforma.Company = *request.CustomerCompany
	}

	for _, item := range quote.Items {
		proforma.Lines = append(proforma.Lines, entity.ProformaLine{
			ProductName:    item.ProductName,
			Quantity:       item.Quantity,
			UnitPrice:      item.UnitPrice,
			FinalUnitPrice: item.FinalUnitPrice,
			Total:          item.TotalWithVAT,
		})
	}

	return proforma, nil
}

// ExportExcel renders the proforma as an XLSX workbook. The returned
// filename is derived from the request number.
func (s *DocumentService) ExportExcel(ctx context.Context, userID, requestID uuid.UUID) ([]byte, string, error) {
	proforma, err := s.BuildProforma(ctx, userID, requestID)
	if err != nil {
		return nil, "", err
	}

	data, err := export.GenerateProformaExcel(proforma)
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("proforma-%s.xlsx", proforma.RequestNumber)
	return data, filename, nil
}

// PrintSummary sends a proforma summary to the configured thermal printer
func (s *DocumentService) PrintSummary(ctx context.Context, userID, requestID uuid.UUID) error {
	proforma, err := s.BuildProforma(ctx, userID, requestID)
	if err != nil {
		return err
	}

	if !s.printer.IsConnected() {
		return apperror.NewUnprocessableError("Printer is not connected")
	}

	doc := printer.NewDocument(48)
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(proforma.Header.CompanyName).
		SetFontSize(printer.FontNormal).
		SetBold(false)
	if proforma.Header.Phone != "" {
		doc.Text(proforma.Header.Phone)
	}
	doc.FeedLines(1).
		SetAlign(printer.AlignLeft).
		TextF("Proforma %s", proforma.RequestNumber).
		TextF("Date: %s", proforma.Date).
		TextF("Customer: %s", proforma.Customer).
		Separator('-')

	for _, line := range proforma.Lines {
		doc.ItemLine(line.Quantity, line.ProductName, fmt.Sprintf("%.2f", line.Total))
	}

	doc.Separator('-').
		KeyValue("Subtotal", fmt.Sprintf("%.2f", proforma.SubTotal)).
		KeyValue(fmt.Sprintf("VAT (%d%%)", proforma.VATRate), fmt.Sprintf("%.2f", proforma.VATAmount)).
		SetBold(true).
		KeyValue("TOTAL "+proforma.Currency, fmt.Sprintf("%.2f", proforma.Total)).
		SetBold(false).
		FeedLines(3).
		Cut()

	return s.printer.Print(doc.Bytes())
}

// EmailProforma sends the proforma to the customer's email address. The
// recipient defaults to the address stored on the request; an explicit
// override wins.
func (s *DocumentService) EmailProforma(ctx context.Context, userID, requestID uuid.UUID, overrideEmail string) error {
	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if request == nil {
		return apperror.NewNotFoundError("Request")
	}

	recipient := overrideEmail
	if recipient == "" && request.CustomerEmail != nil {
		recipient = *request.CustomerEmail
	}
	if recipient == "" {
		return apperror.NewBadRequestError("Request has no customer email; provide a recipient")
	}

	proforma, err := s.BuildProforma(ctx, userID, requestID)
	if err != nil {
		return err
	}

	data := email.ProformaEmailData{
		CompanyName:   proforma.Header.CompanyName,
		RequestNumber: proforma.RequestNumber,
		Date:          proforma.Date,
		Customer:      proforma.Customer,
		SubTotal:      fmt.Sprintf("%.2f", proforma.SubTotal),
		VATRate:       proforma.VATRate,
		VATAmount:     fmt.Sprintf("%.2f", proforma.VATAmount),
		Total:         fmt.Sprintf("%.2f", proforma.Total),
		Currency:      proforma.Currency,
	}
	for _, line := range proforma.Lines {
		data.Lines = append(data.Lines, email.ProformaLineData{
			ProductName:    line.ProductName,
			Quantity:       line.Quantity,
			FinalUnitPrice: fmt.Sprintf("%.2f", line.FinalUnitPrice),
			Total:          fmt.Sprintf("%.2f", line.Total),
		})
	}

	return s.emailService.SendProformaEmail(recipient, data)
}
