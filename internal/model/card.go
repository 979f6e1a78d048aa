package model

import (
	"time"

	"github.com/google/uuid"
)

type CardStatus string

const (
	CardStatusActive    CardStatus = "active"
	CardStatusInactive  CardStatus = "inactive"
	CardStatusSuspended CardStatus = "suspended"
	CardStatusExpired   CardStatus = "expired"
)

// GeneratedCard is one benefit card instance. Cards are written once by the
// generation engine; only perk redemption and the expiry sweeper mutate them
// afterwards.
type GeneratedCard struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	ControlNumber    string     `db:"control_number" json:"control_number"`
	FullName         string     `db:"full_name" json:"full_name"`
	BirthDate        string     `db:"birth_date" json:"birth_date"`
	Address          string     `db:"address" json:"address"`
	ContactNumber    string     `db:"contact_number" json:"contact_number"`
	EmergencyContact string     `db:"emergency_contact" json:"emergency_contact"`
	ClinicID         uuid.UUID  `db:"clinic_id" json:"clinic_id"`
	CategoryID       *string    `db:"category_id" json:"category_id,omitempty"`
	Status           CardStatus `db:"status" json:"status"`
	PerksTotal       int        `db:"perks_total" json:"perks_total"`
	PerksUsed        int        `db:"perks_used" json:"perks_used"`
	IssueDate        time.Time  `db:"issue_date" json:"issue_date"`
	ExpiryDate       time.Time  `db:"expiry_date" json:"expiry_date"`
	QRCodeData       string     `db:"qr_code_data" json:"qr_code_data,omitempty"`
	TenantID         uuid.UUID  `db:"tenant_id" json:"tenant_id"`
	Metadata         JSONMap    `db:"-" json:"metadata"`
	MetadataJSON     string     `db:"metadata" json:"-"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// QRPayload is the machine-readable payload embedded in every card for
// downstream scanning.
type QRPayload struct {
	ControlNumber string    `json:"control_number"`
	Issued        time.Time `json:"issued"`
	ClinicID      string    `json:"clinic_id"`
}

type CardFilters struct {
	Status     string `form:"status"`
	CategoryID string `form:"category_id"`
}
