package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mocard/benefits-api/internal/model"
)

// BatchRepository is the durable record of a batch's declared size, progress
// and terminal status.
type BatchRepository interface {
	Create(ctx context.Context, batch *model.CardBatch) error
	Update(ctx context.Context, batchID string, update *model.BatchUpdate) error
	Get(ctx context.Context, batchID string) (*model.CardBatch, error)
	ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]*model.CardBatch, error)
}

// CardRepository is the bulk-insert target for generated cards plus the read
// paths the card-facing services need. BulkInsert must either fully succeed
// or fail; no partial-success semantics are assumed.
type CardRepository interface {
	BulkInsert(ctx context.Context, cards []*model.GeneratedCard) error
	ListByBatch(ctx context.Context, batchID string) ([]*model.GeneratedCard, error)
	ListByClinic(ctx context.Context, clinicID uuid.UUID, filters *model.CardFilters) ([]*model.GeneratedCard, error)
	GetByControlNumber(ctx context.Context, controlNumber string) (*model.GeneratedCard, error)
	CountActiveByClinic(ctx context.Context, clinicID uuid.UUID) (int, error)
	RedeemPerk(ctx context.Context, cardID uuid.UUID) (*model.GeneratedCard, error)
	ExpireCards(ctx context.Context, cutoff time.Time) (int64, error)
}

type ClinicRepository interface {
	Create(ctx context.Context, clinic *model.Clinic) error
	Get(ctx context.Context, id uuid.UUID) (*model.Clinic, error)
	Update(ctx context.Context, clinic *model.Clinic) error
	List(ctx context.Context, filters *model.ClinicFilters) ([]*model.Clinic, error)
}

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *model.Appointment) error
	Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus, notes string) error
	ListByClinic(ctx context.Context, clinicID uuid.UUID, filters *model.AppointmentFilters) ([]*model.Appointment, error)
}
