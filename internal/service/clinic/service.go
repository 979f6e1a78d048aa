package clinic

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mocard/benefits-api/internal/model"
	"github.com/mocard/benefits-api/internal/repository"
)

type ClinicService interface {
	CreateClinic(ctx context.Context, clinic *model.Clinic) error
	GetClinic(ctx context.Context, id uuid.UUID) (*model.Clinic, error)
	UpdateClinic(ctx context.Context, clinic *model.Clinic) error
	ListClinics(ctx context.Context, filters *model.ClinicFilters) ([]*model.Clinic, error)
}

type Service struct {
	repo repository.ClinicRepository
}

func NewService(repo repository.ClinicRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateClinic(ctx context.Context, clinic *model.Clinic) error {
	if err := s.validateClinic(clinic); err != nil {
		return fmt.Errorf("invalid clinic data: %w", err)
	}

	clinic.ID = uuid.New()
	clinic.CreatedAt = time.Now()
	clinic.UpdatedAt = time.Now()
	clinic.Status = string(model.ClinicStatusActive)

	if err := s.repo.Create(ctx, clinic); err != nil {
		return fmt.Errorf("failed to create clinic: %w", err)
	}
	return nil
}

func (s *Service) GetClinic(ctx context.Context, id uuid.UUID) (*model.Clinic, error) {
	clinic, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return clinic, nil
}

func (s *Service) UpdateClinic(ctx context.Context, clinic *model.Clinic) error {
	if err := s.validateClinic(clinic); err != nil {
		return fmt.Errorf("invalid clinic data: %w", err)
	}

	clinic.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, clinic); err != nil {
		return fmt.Errorf("failed to update clinic: %w", err)
	}
	return nil
}

func (s *Service) ListClinics(ctx context.Context, filters *model.ClinicFilters) ([]*model.Clinic, error) {
	clinics, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list clinics: %w", err)
	}
	return clinics, nil
}

func (s *Service) validateClinic(clinic *model.Clinic) error {
	if clinic.Name == "" {
		return fmt.Errorf("name is required")
	}
	if clinic.Location == "" {
		return fmt.Errorf("location is required")
	}
	return nil
}
