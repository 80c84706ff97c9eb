package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/tekstilpro/proforma-api/internal/domain/entity"
)

// SettingsRepository defines the interface for pricing settings data operations
type SettingsRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entity.PricingSettings, error)
	Create(ctx context.Context, settings *entity.PricingSettings) error
	Update(ctx context.Context, settings *entity.PricingSettings) error
}
