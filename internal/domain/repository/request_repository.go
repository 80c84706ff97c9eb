package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/tekstilpro/proforma-api/internal/domain/entity"
	"github.com/tekstilpro/proforma-api/internal/domain/enum"
	"github.com/tekstilpro/proforma-api/pkg/pagination"
)

// ProductionRequestRepository defines the interface for production request data operations
type ProductionRequestRepository interface {
	Create(ctx context.Context, request *entity.ProductionRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.ProductionRequest, error)
	GetWithItems(ctx context.Context, id uuid.UUID) (*entity.ProductionRequest, error)
	Update(ctx context.Context, request *entity.ProductionRequest) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.RequestStatus) error
	UpdateItemCosts(ctx context.Context, items []entity.RequestItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *RequestFilterParams) ([]entity.ProductionRequest, int64, error)
	CountByStatus(ctx context.Context, status enum.RequestStatus) (int64, error)
	GetNextRequestNumber(ctx context.Context) (int, error)
}

// RequestFilterParams contains filtering parameters for request queries
type RequestFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.RequestStatus
	Source     *enum.RequestSource
	SortBy     string
	SortOrder  string
}

// QuoteRepository defines the interface for quote snapshot data operations
type QuoteRepository interface {
	Create(ctx context.Context, quote *entity.Quote) error
	GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Quote, error)
	GetLatestByRequestID(ctx context.Context, requestID uuid.UUID) (*entity.Quote, error)
	ListByRequestID(ctx context.Context, requestID uuid.UUID) ([]entity.Quote, error)
	ListSince(ctx context.Context, sinceDays int) ([]entity.Quote, error)
	DeleteByRequestID(ctx context.Context, requestID uuid.UUID) error
}
