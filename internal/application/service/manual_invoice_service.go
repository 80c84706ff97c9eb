package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/tekstilpro/proforma-api/internal/domain/entity"
	"github.com/tekstilpro/proforma-api/internal/domain/enum"
	"github.com/tekstilpro/proforma-api/internal/domain/pricing"
	"github.com/tekstilpro/proforma-api/internal/domain/repository"
	"github.com/tekstilpro/proforma-api/pkg/apperror"
	"github.com/tekstilpro/proforma-api/pkg/pagination"
)

// MinSearchQueryLength is the minimum query length for product lookup.
// Shorter queries return an empty result instead of hitting the catalog.
const MinSearchQueryLength = 2

// ManualInvoiceService builds quotations from scratch, without an
// intake request: the operator picks products from the catalog, enters
// quantities and costs, and the service creates the request record and
// its quote snapshot in two steps.
type ManualInvoiceService struct {
	requestRepo repository.ProductionRequestRepository
	quoteRepo   repository.QuoteRepository
	productRepo repository.ProductRepository
}

// NewManualInvoiceService creates a new manual invoice service
func NewManualInvoiceService(
	requestRepo repository.ProductionRequestRepository,
	quoteRepo repository.QuoteRepository,
	productRepo repository.ProductRepository,
) *ManualInvoiceService {
	return &ManualInvoiceService{
		requestRepo: requestRepo,
		quoteRepo:   quoteRepo,
		productRepo: productRepo,
	}
}

// SearchProducts looks up catalog products by name for item selection.
// Queries shorter than MinSearchQueryLength return an empty page.
func (s *ManualInvoiceService) SearchProducts(ctx context.Context, query string, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Product], error) {
	if len(query) < MinSearchQueryLength {
		pag := pagination.NewPagination(params.Page, params.PerPage, 0)
		return pagination.NewPaginatedResult([]entity.Product{}, pag), nil
	}

	products, total, err := s.productRepo.Search(ctx, query, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(products, pag), nil
}

// ManualItemInput represents one manually entered line item
type ManualItemInput struct {
	ProductID        *uuid.UUID
	ProductName      string
	ProductImage     *string
	Quantity         int
	SizeDistribution map[string]int
	UnitCost         float64
	PrintingCost     float64
	EmbroideryCost   float64
}

// CreateManualInvoiceInput represents the input for a manual invoice
type CreateManualInvoiceInput struct {
	CustomerName       string
	CustomerEmail      *string
	CustomerPhone      *string
	CustomerCompany    *string
	Items              []ManualItemInput
	ProfitMargin       float64
	VATRate            int
	SharedShippingCost float64
}

// CreateManualInvoice performs the two-step save: (1) create a manual
// request from the entered items, (2) compute and attach the quote
// snapshot. If step 2 fails after step 1 succeeded, the orphaned
// request is left in the pending list for the operator to re-quote or
// delete; the error names the request so it can be found.
func (s *ManualInvoiceService) CreateManualInvoice(ctx context.Context, input *CreateManualInvoiceInput) (*RequestDetail, error) {
	if input.CustomerName == "" {
		return nil, apperror.NewBadRequestError("Customer name is required")
	}
	if len(input.Items) == 0 {
		return nil, apperror.NewBadRequestError("At least one item is required")
	}

	nextNum, err := s.requestRepo.GetNextRequestNumber(ctx)
	if err != nil {
		return nil, err
	}

	request := &entity.ProductionRequest{
		RequestNumber:   fmt.Sprintf("MNL-%06d", nextNum),
		CustomerName:    input.CustomerName,
		CustomerEmail:   input.CustomerEmail,
		CustomerPhone:   input.CustomerPhone,
		CustomerCompany: input.CustomerCompany,
		Status:          enum.RequestStatusPending,
		Source:          enum.RequestSourceManual,
	}

	for _, it := range input.Items {
		costs := pricing.SanitizeCosts(pricing.CostInputs{
			UnitCost:       it.UnitCost,
			PrintingCost:   it.PrintingCost,
			EmbroideryCost: it.EmbroideryCost,
		})
		request.Items = append(request.Items, entity.RequestItem{
			ProductID:        it.ProductID,
			ProductName:      it.ProductName,
			ProductImage:     it.ProductImage,
			Quantity:         it.Quantity,
			SizeDistribution: it.SizeDistribution,
			UnitCost:         costs.UnitCost,
			PrintingCost:     costs.PrintingCost,
			EmbroideryCost:   costs.EmbroideryCost,
		})
	}

	cfg := pricing.SanitizeConfig(pricing.Config{
		ProfitMargin:       input.ProfitMargin,
		VATRate:            enum.Normalize(enum.VATRate(input.VATRate)),
		SharedShippingCost: input.SharedShippingCost,
	})

	// Reject an unquotable invoice before step 1 so no orphan is created
	// for input that can never produce a quote.
	result := pricing.Calculate(request.LineItems(), request.CostInputs(), cfg)
	if result == nil {
		return nil, apperror.NewUnprocessableError("Cannot create an invoice with no priced quantity")
	}

	// Step 1: create the request record
	if err := s.requestRepo.Create(ctx, request); err != nil {
		return nil, err
	}

	// Recompute against the persisted items so quote rows reference
	// their generated item IDs.
	persisted, err := s.requestRepo.GetWithItems(ctx, request.ID)
	if err != nil || persisted == nil {
		return nil, s.orphanError(request.RequestNumber, err)
	}

	result = pricing.Calculate(persisted.LineItems(), persisted.CostInputs(), cfg)
	if result == nil {
		return nil, s.orphanError(request.RequestNumber, nil)
	}

	// Step 2: attach the quote snapshot
	quote := entity.NewQuoteFromCalculation(persisted.ID, cfg, result)
	if err := s.quoteRepo.Create(ctx, quote); err != nil {
		return nil, s.orphanError(request.RequestNumber, err)
	}

	if err := s.requestRepo.UpdateStatus(ctx, persisted.ID, enum.RequestStatusReview); err != nil {
		return nil, s.orphanError(request.RequestNumber, err)
	}

	latest, err := s.quoteRepo.GetWithItems(ctx, quote.ID)
	if err != nil {
		return nil, err
	}
	persisted.Status = enum.RequestStatusReview

	return &RequestDetail{Request: persisted, LatestQuote: latest}, nil
}

// orphanError reports a step-2 failure that left a request without a
// quote. The request is not rolled back.
func (s *ManualInvoiceService) orphanError(requestNumber string, cause error) error {
	msg := fmt.Sprintf("Invoice %s was created but its quote could not be saved; re-quote or delete it from the pending list", requestNumber)
	if cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, cause)
	}
	return apperror.NewAppError(http.StatusInternalServerError, msg)
}
