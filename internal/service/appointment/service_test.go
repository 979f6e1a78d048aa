package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mocard/benefits-api/internal/model"
	apperrors "github.com/mocard/benefits-api/pkg/errors"
)

type stubAppointmentRepo struct {
	created []*model.Appointment
}

func (r *stubAppointmentRepo) Create(_ context.Context, a *model.Appointment) error {
	r.created = append(r.created, a)
	return nil
}

func (r *stubAppointmentRepo) Get(_ context.Context, _ uuid.UUID) (*model.Appointment, error) {
	return nil, apperrors.NewNotFound("appointment", nil)
}

func (r *stubAppointmentRepo) UpdateStatus(_ context.Context, _ uuid.UUID, _ model.AppointmentStatus, _ string) error {
	return nil
}

func (r *stubAppointmentRepo) ListByClinic(_ context.Context, _ uuid.UUID, _ *model.AppointmentFilters) ([]*model.Appointment, error) {
	return r.created, nil
}

type stubCardRepo struct {
	card *model.GeneratedCard
}

func (r *stubCardRepo) BulkInsert(_ context.Context, _ []*model.GeneratedCard) error { return nil }

func (r *stubCardRepo) ListByBatch(_ context.Context, _ string) ([]*model.GeneratedCard, error) {
	return nil, nil
}

func (r *stubCardRepo) ListByClinic(_ context.Context, _ uuid.UUID, _ *model.CardFilters) ([]*model.GeneratedCard, error) {
	return nil, nil
}

func (r *stubCardRepo) GetByControlNumber(_ context.Context, controlNumber string) (*model.GeneratedCard, error) {
	if r.card != nil && r.card.ControlNumber == controlNumber {
		return r.card, nil
	}
	return nil, apperrors.NewNotFound("card", nil)
}

func (r *stubCardRepo) CountActiveByClinic(_ context.Context, _ uuid.UUID) (int, error) {
	return 0, nil
}

func (r *stubCardRepo) RedeemPerk(_ context.Context, _ uuid.UUID) (*model.GeneratedCard, error) {
	return nil, apperrors.NewNotFound("card", nil)
}

func (r *stubCardRepo) ExpireCards(_ context.Context, _ time.Time) (int64, error) { return 0, nil }

func validCard() *model.GeneratedCard {
	return &model.GeneratedCard{
		ID:            uuid.New(),
		ControlNumber: "MOC-1773300000000-0001-A1B2C3",
		ClinicID:      uuid.New(),
		Status:        model.CardStatusActive,
		ExpiryDate:    time.Now().AddDate(2, 0, 0),
	}
}

func bookingRequest(controlNumber string) *model.CreateAppointmentRequest {
	return &model.CreateAppointmentRequest{
		ControlNumber: controlNumber,
		PatientName:   "Maria Santos",
		ContactNumber: "09171234567",
		ScheduledAt:   time.Now().Add(48 * time.Hour),
	}
}

func TestBookAppointment(t *testing.T) {
	card := validCard()
	appointments := &stubAppointmentRepo{}
	svc := NewService(appointments, &stubCardRepo{card: card})

	got, err := svc.BookAppointment(context.Background(), bookingRequest(card.ControlNumber))
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusRequested, got.Status)
	assert.Equal(t, card.ClinicID, got.ClinicID)
	assert.Equal(t, card.ID, got.CardID)
	assert.Len(t, appointments.created, 1)
}

func TestBookAppointment_UnknownCard(t *testing.T) {
	svc := NewService(&stubAppointmentRepo{}, &stubCardRepo{})

	_, err := svc.BookAppointment(context.Background(), bookingRequest("MOC-0-0000-XXXXXX"))
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestBookAppointment_InactiveCard(t *testing.T) {
	card := validCard()
	card.Status = model.CardStatusSuspended
	svc := NewService(&stubAppointmentRepo{}, &stubCardRepo{card: card})

	_, err := svc.BookAppointment(context.Background(), bookingRequest(card.ControlNumber))
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
	assert.Contains(t, err.Error(), "suspended")
}

func TestBookAppointment_ExpiredCard(t *testing.T) {
	card := validCard()
	card.ExpiryDate = time.Now().Add(-time.Hour)
	svc := NewService(&stubAppointmentRepo{}, &stubCardRepo{card: card})

	_, err := svc.BookAppointment(context.Background(), bookingRequest(card.ControlNumber))
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestBookAppointment_PastScheduleRejected(t *testing.T) {
	card := validCard()
	svc := NewService(&stubAppointmentRepo{}, &stubCardRepo{card: card})

	req := bookingRequest(card.ControlNumber)
	req.ScheduledAt = time.Now().Add(-time.Minute)

	_, err := svc.BookAppointment(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "future")
}
