package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/tekstilpro/proforma-api/internal/domain/entity"
	domainRepo "github.com/tekstilpro/proforma-api/internal/domain/repository"
	"gorm.io/gorm"
)

type quoteRepository struct {
	db *gorm.DB
}

// NewQuoteRepository creates a new quote repository
func NewQuoteRepository(db *gorm.DB) domainRepo.QuoteRepository {
	return &quoteRepository{db: db}
}

func (r *quoteRepository) Create(ctx context.Context, quote *entity.Quote) error {
	return r.db.WithContext(ctx).Create(quote).Error
}

func (r *quoteRepository) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Quote, error) {
	var quote entity.Quote
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&quote, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &quote, err
}

func (r *quoteRepository) GetLatestByRequestID(ctx context.Context, requestID uuid.UUID) (*entity.Quote, error) {
	var quote entity.Quote
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("request_id = ?", requestID).
		Order("created_at DESC").
		First(&quote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &quote, err
}

func (r *quoteRepository) ListByRequestID(ctx context.Context, requestID uuid.UUID) ([]entity.Quote, error) {
	var quotes []entity.Quote
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("request_id = ?", requestID).
		Order("created_at DESC").
		Find(&quotes).Error
	return quotes, err
}

func (r *quoteRepository) ListSince(ctx context.Context, sinceDays int) ([]entity.Quote, error) {
	var quotes []entity.Quote
	cutoff := time.Now().AddDate(0, 0, -sinceDays)
	err := r.db.WithContext(ctx).
		Where("created_at >= ?", cutoff).
		Order("created_at ASC").
		Find(&quotes).Error
	return quotes, err
}

func (r *quoteRepository) DeleteByRequestID(ctx context.Context, requestID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var quoteIDs []uuid.UUID
		if err := tx.Model(&entity.Quote{}).
			Where("request_id = ?", requestID).
			Pluck("id", &quoteIDs).Error; err != nil {
			return err
		}
		if len(quoteIDs) > 0 {
			if err := tx.Delete(&entity.QuoteItem{}, "quote_id IN ?", quoteIDs).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&entity.Quote{}, "request_id = ?", requestID).Error
	})
}
