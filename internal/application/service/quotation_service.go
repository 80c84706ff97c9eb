package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tekstilpro/proforma-api/internal/domain/entity"
	"github.com/tekstilpro/proforma-api/internal/domain/enum"
	"github.com/tekstilpro/proforma-api/internal/domain/pricing"
	"github.com/tekstilpro/proforma-api/internal/domain/repository"
	"github.com/tekstilpro/proforma-api/pkg/apperror"
	"github.com/tekstilpro/proforma-api/pkg/pagination"
)

// QuotationService handles the quotation workflow: cost entry, quote
// snapshots and status transitions. All transitions on the same request
// are serialized through a per-request lock, so an overlapping save and
// approve cannot race each other.
type QuotationService struct {
	requestRepo repository.ProductionRequestRepository
	quoteRepo   repository.QuoteRepository
	locks       *requestLock
}

// NewQuotationService creates a new quotation service
func NewQuotationService(
	requestRepo repository.ProductionRequestRepository,
	quoteRepo repository.QuoteRepository,
) *QuotationService {
	return &QuotationService{
		requestRepo: requestRepo,
		quoteRepo:   quoteRepo,
		locks:       newRequestLock(),
	}
}

// ItemCostInput carries the operator-entered costs for one request item
type ItemCostInput struct {
	ItemID         uuid.UUID
	UnitCost       float64
	PrintingCost   float64
	EmbroideryCost float64
}

// SaveQuoteInput represents the input for saving a quote
type SaveQuoteInput struct {
	RequestID          uuid.UUID
	ItemCosts          []ItemCostInput
	ProfitMargin       float64
	VATRate            int
	SharedShippingCost float64
}

// SaveQuote persists the entered costs, recomputes the calculation and
// stores a new quote snapshot, then moves the request to review.
func (s *QuotationService) SaveQuote(ctx context.Context, input *SaveQuoteInput) (*entity.Quote, error) {
	s.locks.Lock(input.RequestID)
	defer s.locks.Unlock(input.RequestID)

	request, err := s.requestRepo.GetWithItems(ctx, input.RequestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, apperror.NewNotFoundError("Request")
	}

	// Apply the entered costs to the request items
	if len(input.ItemCosts) > 0 {
		byID := make(map[uuid.UUID]ItemCostInput, len(input.ItemCosts))
		for _, c := range input.ItemCosts {
			byID[c.ItemID] = c
		}

		var updated []entity.RequestItem
		for i := range request.Items {
			c, ok := byID[request.Items[i].ID]
			if !ok {
				continue
			}
			sanitized := pricing.SanitizeCosts(pricing.CostInputs{
				UnitCost:       c.UnitCost,
				PrintingCost:   c.PrintingCost,
				EmbroideryCost: c.EmbroideryCost,
			})
			request.Items[i].UnitCost = sanitized.UnitCost
			request.Items[i].PrintingCost = sanitized.PrintingCost
			request.Items[i].EmbroideryCost = sanitized.EmbroideryCost
			updated = append(updated, request.Items[i])
		}

		if len(updated) > 0 {
			if err := s.requestRepo.UpdateItemCosts(ctx, updated); err != nil {
				return nil, err
			}
		}
	}

	cfg := pricing.SanitizeConfig(pricing.Config{
		ProfitMargin:       input.ProfitMargin,
		VATRate:            enum.Normalize(enum.VATRate(input.VATRate)),
		SharedShippingCost: input.SharedShippingCost,
	})

	result := pricing.Calculate(request.LineItems(), request.CostInputs(), cfg)
	if result == nil {
		return nil, apperror.NewUnprocessableError("Cannot quote a request with no priced quantity")
	}

	quote := entity.NewQuoteFromCalculation(request.ID, cfg, result)
	if err := s.quoteRepo.Create(ctx, quote); err != nil {
		return nil, err
	}

	if err := s.requestRepo.UpdateStatus(ctx, request.ID, enum.RequestStatusReview); err != nil {
		return nil, err
	}

	return s.quoteRepo.GetWithItems(ctx, quote.ID)
}

// RequestRevision stores revision notes against a request and resets
// its status to pending.
func (s *QuotationService) RequestRevision(ctx context.Context, requestID uuid.UUID, notes string) error {
	s.locks.Lock(requestID)
	defer s.locks.Unlock(requestID)

	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if request == nil {
		return apperror.NewNotFoundError("Request")
	}

	request.RevisionNotes = &notes
	request.Status = enum.RequestStatusPending
	return s.requestRepo.Update(ctx, request)
}

// Approve moves a request to approved.
func (s *QuotationService) Approve(ctx context.Context, requestID uuid.UUID) error {
	return s.transition(ctx, requestID, enum.RequestStatusApproved)
}

// Reject moves a request to rejected.
func (s *QuotationService) Reject(ctx context.Context, requestID uuid.UUID) error {
	return s.transition(ctx, requestID, enum.RequestStatusRejected)
}

// Archive moves a request to archived.
func (s *QuotationService) Archive(ctx context.Context, requestID uuid.UUID) error {
	return s.transition(ctx, requestID, enum.RequestStatusArchived)
}

func (s *QuotationService) transition(ctx context.Context, requestID uuid.UUID, status enum.RequestStatus) error {
	s.locks.Lock(requestID)
	defer s.locks.Unlock(requestID)

	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if request == nil {
		return apperror.NewNotFoundError("Request")
	}

	return s.requestRepo.UpdateStatus(ctx, requestID, status)
}

// DeleteRequest removes a request together with its items and quotes.
func (s *QuotationService) DeleteRequest(ctx context.Context, requestID uuid.UUID) error {
	s.locks.Lock(requestID)
	defer s.locks.Unlock(requestID)

	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if request == nil {
		return apperror.NewNotFoundError("Request")
	}

	if err := s.quoteRepo.DeleteByRequestID(ctx, requestID); err != nil {
		return err
	}
	return s.requestRepo.Delete(ctx, requestID)
}

// RequestDetail bundles a request with its latest quote snapshot
type RequestDetail struct {
	Request     *entity.ProductionRequest `json:"request"`
	LatestQuote *entity.Quote             `json:"latest_quote,omitempty"`
}

// GetRequest retrieves a request with its items and latest quote
func (s *QuotationService) GetRequest(ctx context.Context, requestID uuid.UUID) (*RequestDetail, error) {
	request, err := s.requestRepo.GetWithItems(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, apperror.NewNotFoundError("Request")
	}

	latest, err := s.quoteRepo.GetLatestByRequestID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	return &RequestDetail{Request: request, LatestQuote: latest}, nil
}

// ListRequestsInput represents the input for listing requests
type ListRequestsInput struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.RequestStatus
	Source     *enum.RequestSource
	SortBy     string
	SortOrder  string
}

// ListRequests lists requests with filtering and pagination
func (s *QuotationService) ListRequests(ctx context.Context, input *ListRequestsInput) (*pagination.PaginatedResult[entity.ProductionRequest], error) {
	params := &repository.RequestFilterParams{
		Pagination: input.Pagination,
		Search:     input.Search,
		Status:     input.Status,
		Source:     input.Source,
		SortBy:     input.SortBy,
		SortOrder:  input.SortOrder,
	}

	requests, total, err := s.requestRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(input.Pagination.Page, input.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(requests, pag), nil
}

// CreateRequestInput represents the input for creating an intake request
type CreateRequestInput struct {
	CustomerName    string
	CustomerEmail   *string
	CustomerPhone   *string
	CustomerCompany *string
	Items           []RequestItemInput
}

// RequestItemInput represents a line item input
type RequestItemInput struct {
	ProductID        *uuid.UUID
	ProductName      string
	ProductImage     *string
	Quantity         int
	SizeDistribution map[string]int
}

// CreateRequest creates a new intake request awaiting cost entry
func (s *QuotationService) CreateRequest(ctx context.Context, input *CreateRequestInput) (*entity.ProductionRequest, error) {
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
		RequestNumber:   fmt.Sprintf("REQ-%06d", nextNum),
		CustomerName:    input.CustomerName,
		CustomerEmail:   input.CustomerEmail,
		CustomerPhone:   input.CustomerPhone,
		CustomerCompany: input.CustomerCompany,
		Status:          enum.RequestStatusPending,
		Source:          enum.RequestSourceIntake,
	}

	for _, it := range input.Items {
		request.Items = append(request.Items, entity.RequestItem{
			ProductID:        it.ProductID,
			ProductName:      it.ProductName,
			ProductImage:     it.ProductImage,
			Quantity:         it.Quantity,
			SizeDistribution: it.SizeDistribution,
		})
	}

	if err := s.requestRepo.Create(ctx, request); err != nil {
		return nil, err
	}

	return s.requestRepo.GetWithItems(ctx, request.ID)
}

// ListQuotes returns all quote snapshots for a request, newest first
func (s *QuotationService) ListQuotes(ctx context.Context, requestID uuid.UUID) ([]entity.Quote, error) {
	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, apperror.NewNotFoundError("Request")
	}
	return s.quoteRepo.ListByRequestID(ctx, requestID)
}
