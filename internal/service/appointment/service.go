package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mocard/benefits-api/internal/model"
	"github.com/mocard/benefits-api/internal/repository"
	apperrors "github.com/mocard/benefits-api/pkg/errors"
)

type AppointmentService interface {
	BookAppointment(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, req *model.UpdateAppointmentStatusRequest) error
	ListClinicAppointments(ctx context.Context, clinicID uuid.UUID, filters *model.AppointmentFilters) ([]*model.Appointment, error)
}

type Service struct {
	repo  repository.AppointmentRepository
	cards repository.CardRepository
}

func NewService(repo repository.AppointmentRepository, cards repository.CardRepository) *Service {
	return &Service{repo: repo, cards: cards}
}

// BookAppointment creates an appointment request against a benefit card. The
// card must exist, be active and not past its expiry date; the appointment is
// routed to the card's issuing clinic.
func (s *Service) BookAppointment(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	card, err := s.cards.GetByControlNumber(ctx, req.ControlNumber)
	if err != nil {
		return nil, err
	}

	if card.Status != model.CardStatusActive {
		return nil, apperrors.NewConflict(fmt.Sprintf("card is %s", card.Status), nil)
	}
	if card.ExpiryDate.Before(time.Now()) {
		return nil, apperrors.NewConflict("card has expired", nil)
	}
	if !req.ScheduledAt.After(time.Now()) {
		return nil, apperrors.NewBadRequest("scheduled time must be in the future", nil)
	}

	appointment := &model.Appointment{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		ClinicID:      card.ClinicID,
		CardID:        card.ID,
		ControlNumber: card.ControlNumber,
		PatientName:   req.PatientName,
		ContactNumber: req.ContactNumber,
		ScheduledAt:   req.ScheduledAt,
		Status:        model.AppointmentStatusRequested,
		Notes:         req.Notes,
	}

	if err := s.repo.Create(ctx, appointment); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}
	return appointment, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, req *model.UpdateAppointmentStatusRequest) error {
	if err := s.repo.UpdateStatus(ctx, id, req.Status, req.Notes); err != nil {
		return err
	}
	return nil
}

func (s *Service) ListClinicAppointments(ctx context.Context, clinicID uuid.UUID, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	appointments, err := s.repo.ListByClinic(ctx, clinicID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}
