package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/tekstilpro/proforma-api/internal/domain/entity"
	"github.com/tekstilpro/proforma-api/internal/domain/enum"
	"github.com/tekstilpro/proforma-api/internal/domain/repository"
)

// SettingsService manages per-operator pricing defaults. The defaults
// only prefill the dashboard; every calculation still receives its own
// explicit configuration.
type SettingsService struct {
	settingsRepo repository.SettingsRepository
}

// NewSettingsService creates a new settings service
func NewSettingsService(settingsRepo repository.SettingsRepository) *SettingsService {
	return &SettingsService{settingsRepo: settingsRepo}
}

// GetSettings returns the operator's pricing defaults, creating the
// initial record on first access.
func (s *SettingsService) GetSettings(ctx context.Context, userID uuid.UUID) (*entity.PricingSettings, error) {
	settings, err := s.settingsRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		settings = &entity.PricingSettings{
			UserID:         userID,
			DefaultVATRate: enum.VATRateStandard,
			Currency:       "TRY",
		}
		if err := s.settingsRepo.Create(ctx, settings); err != nil {
			return nil, err
		}
	}
	return settings, nil
}

// UpdateSettingsInput represents the input for updating pricing defaults
type UpdateSettingsInput struct {
	UserID              uuid.UUID
	DefaultProfitMargin *float64
	DefaultVATRate      *int
	DefaultShippingCost *float64
	Currency            *string
}

// UpdateSettings updates the operator's pricing defaults
func (s *SettingsService) UpdateSettings(ctx context.Context, input *UpdateSettingsInput) (*entity.PricingSettings, error) {
	settings, err := s.GetSettings(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.DefaultProfitMargin != nil {
		settings.DefaultProfitMargin = *input.DefaultProfitMargin
	}
	if input.DefaultVATRate != nil {
		settings.DefaultVATRate = enum.Normalize(enum.VATRate(*input.DefaultVATRate))
	}
	if input.DefaultShippingCost != nil {
		settings.DefaultShippingCost = *input.DefaultShippingCost
	}
	if input.Currency != nil && *input.Currency != "" {
		settings.Currency = *input.Currency
	}

	if err := s.settingsRepo.Update(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}
