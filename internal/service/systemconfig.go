package service

import (
	"context"
	"fmt"

	"github.com/kanenguyen264-cyber/do-an/internal/domain"
	"github.com/kanenguyen264-cyber/do-an/internal/models"
	"github.com/kanenguyen264-cyber/do-an/internal/repository"
)

type SystemConfigService struct {
	configs repository.SystemConfigRepository
}

func NewSystemConfigService(configs repository.SystemConfigRepository) *SystemConfigService {
	return &SystemConfigService{configs: configs}
}

func (s *SystemConfigService) Get(ctx context.Context) (models.SystemConfig, error) {
	return s.configs.Get(ctx)
}

type UpdateSystemConfigInput struct {
	MaxBooksPerUser   *int
	DefaultBorrowDays *int
	MaxRenewalCount   *int
	LateFeePerDay     *int64
	ReservationDays   *int
}

// Update changes the library policy. Rate changes only affect fines created
// afterwards; existing fines keep the rate recorded at creation.
func (s *SystemConfigService) Update(ctx context.Context, in UpdateSystemConfigInput) (models.SystemConfig, error) {
	cfg, err := s.configs.Get(ctx)
	if err != nil {
		return models.SystemConfig{}, err
	}
	if in.MaxBooksPerUser != nil {
		if *in.MaxBooksPerUser < 1 {
			return models.SystemConfig{}, fmt.Errorf("maxBooksPerUser must be at least 1: %w", domain.ErrInvalidInput)
		}
		cfg.MaxBooksPerUser = *in.MaxBooksPerUser
	}
	if in.DefaultBorrowDays != nil {
		if *in.DefaultBorrowDays < 1 {
			return models.SystemConfig{}, fmt.Errorf("defaultBorrowDays must be at least 1: %w", domain.ErrInvalidInput)
		}
		cfg.DefaultBorrowDays = *in.DefaultBorrowDays
	}
	if in.MaxRenewalCount != nil {
		if *in.MaxRenewalCount < 0 {
			return models.SystemConfig{}, fmt.Errorf("maxRenewalCount must not be negative: %w", domain.ErrInvalidInput)
		}
		cfg.MaxRenewalCount = *in.MaxRenewalCount
	}
	if in.LateFeePerDay != nil {
		if *in.LateFeePerDay < 0 {
			return models.SystemConfig{}, fmt.Errorf("lateFeePerDay must not be negative: %w", domain.ErrInvalidInput)
		}
		cfg.LateFeePerDay = *in.LateFeePerDay
	}
	if in.ReservationDays != nil {
		if *in.ReservationDays < 1 {
			return models.SystemConfig{}, fmt.Errorf("reservationDays must be at least 1: %w", domain.ErrInvalidInput)
		}
		cfg.ReservationDays = *in.ReservationDays
	}
	if err := s.configs.Update(ctx, &cfg); err != nil {
		return models.SystemConfig{}, err
	}
	return cfg, nil
}
