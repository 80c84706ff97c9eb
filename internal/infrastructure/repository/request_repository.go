package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/tekstilpro/proforma-api/internal/domain/entity"
	"github.com/tekstilpro/proforma-api/internal/domain/enum"
	domainRepo "github.com/tekstilpro/proforma-api/internal/domain/repository"
	"gorm.io/gorm"
)

type productionRequestRepository struct {
	db *gorm.DB
}

// NewProductionRequestRepository creates a new production request repository
func NewProductionRequestRepository(db *gorm.DB) domainRepo.ProductionRequestRepository {
	return &productionRequestRepository{db: db}
}

func (r *productionRequestRepository) Create(ctx context.Context, request *entity.ProductionRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *productionRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.ProductionRequest, error) {
	var request entity.ProductionRequest
	err := r.db.WithContext(ctx).First(&request, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &request, err
}

func (r *productionRequestRepository) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.ProductionRequest, error) {
	var request entity.ProductionRequest
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		First(&request, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &request, err
}

func (r *productionRequestRepository) Update(ctx context.Context, request *entity.ProductionRequest) error {
	return r.db.WithContext(ctx).Save(request).Error
}

func (r *productionRequestRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.RequestStatus) error {
	return r.db.WithContext(ctx).Model(&entity.ProductionRequest{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *productionRequestRepository) UpdateItemCosts(ctx context.Context, items []entity.RequestItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range items {
			err := tx.Model(&entity.RequestItem{}).
				Where("id = ?", items[i].ID).
				Updates(map[string]interface{}{
					"unit_cost":       items[i].UnitCost,
					"printing_cost":   items[i].PrintingCost,
					"embroidery_cost": items[i].EmbroideryCost,
				}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *productionRequestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&entity.RequestItem{}, "request_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.ProductionRequest{}, "id = ?", id).Error
	})
}

func (r *productionRequestRepository) List(ctx context.Context, params *domainRepo.RequestFilterParams) ([]entity.ProductionRequest, int64, error) {
	var requests []entity.ProductionRequest
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.ProductionRequest{})

	if params.Search != "" {
		query = query.Where("request_number ILIKE ? OR customer_name ILIKE ? OR customer_company ILIKE ?",
			"%"+params.Search+"%", "%"+params.Search+"%", "%"+params.Search+"%")
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.Source != nil {
		query = query.Where("source = ?", *params.Source)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Sorting
	sortBy := "created_at"
	sortOrder := "DESC"
	if params.SortBy != "" {
		sortBy = params.SortBy
	}
	if params.SortOrder != "" && (params.SortOrder == "ASC" || params.SortOrder == "asc") {
		sortOrder = "ASC"
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Items").
		Order(sortBy + " " + sortOrder).
		Find(&requests).Error

	return requests, total, err
}

func (r *productionRequestRepository) CountByStatus(ctx context.Context, status enum.RequestStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.ProductionRequest{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

func (r *productionRequestRepository) GetNextRequestNumber(ctx context.Context) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.ProductionRequest{}).Unscoped().Count(&count).Error
	return int(count) + 1, err
}
