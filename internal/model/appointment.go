package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusRequested AppointmentStatus = "requested"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
)

type Appointment struct {
	Base
	ClinicID      uuid.UUID         `db:"clinic_id" json:"clinic_id"`
	CardID        uuid.UUID         `db:"card_id" json:"card_id"`
	ControlNumber string            `db:"control_number" json:"control_number"`
	PatientName   string            `db:"patient_name" json:"patient_name"`
	ContactNumber string            `db:"contact_number" json:"contact_number"`
	ScheduledAt   time.Time         `db:"scheduled_at" json:"scheduled_at"`
	Status        AppointmentStatus `db:"status" json:"status"`
	Notes         string            `db:"notes" json:"notes,omitempty"`
}

type CreateAppointmentRequest struct {
	ControlNumber string    `json:"control_number" binding:"required"`
	PatientName   string    `json:"patient_name" binding:"required"`
	ContactNumber string    `json:"contact_number" binding:"required"`
	ScheduledAt   time.Time `json:"scheduled_at" binding:"required"`
	Notes         string    `json:"notes" binding:"max=1000"`
}

type UpdateAppointmentStatusRequest struct {
	Status AppointmentStatus `json:"status" binding:"required,oneof=requested confirmed cancelled completed"`
	Notes  string            `json:"notes"`
}

type AppointmentFilters struct {
	Status    string    `form:"status"`
	StartDate time.Time `form:"start_date"`
	EndDate   time.Time `form:"end_date"`
}
