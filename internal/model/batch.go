package model

import (
	"time"

	"github.com/google/uuid"
)

type BatchStatus string

const (
	BatchStatusPending    BatchStatus = "pending"
	BatchStatusGenerating BatchStatus = "generating"
	BatchStatusCompleted  BatchStatus = "completed"
	BatchStatusFailed     BatchStatus = "failed"
)

// IsTerminal reports whether no further status transition is allowed.
func (s BatchStatus) IsTerminal() bool {
	return s == BatchStatusCompleted || s == BatchStatusFailed
}

// CardBatch is one generation run. The engine that created it is its only
// writer while the status is non-terminal.
type CardBatch struct {
	ID               string     `db:"id" json:"id"`
	ClinicID         uuid.UUID  `db:"clinic_id" json:"clinic_id"`
	BatchName        string     `db:"batch_name" json:"batch_name"`
	TotalCards       int        `db:"total_cards" json:"total_cards"`
	GeneratedCards   int        `db:"generated_cards" json:"generated_cards"`
	Status           BatchStatus `db:"status" json:"status"`
	TemplateData     JSONMap    `db:"-" json:"template_data"`
	TemplateDataJSON string     `db:"template_data" json:"-"`
	CreatedBy        string     `db:"created_by" json:"created_by"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	CompletedAt      *time.Time `db:"completed_at" json:"completed_at,omitempty"`
}

// BatchUpdate carries the partial fields the engine checkpoints after each
// chunk and on terminal transitions.
type BatchUpdate struct {
	GeneratedCards int
	Status         BatchStatus
	CompletedAt    *time.Time
}

// GenerationRequest is the input to the batch generation engine.
type GenerationRequest struct {
	ClinicID     string  `json:"clinic_id"`
	Count        int     `json:"count"`
	CategoryID   *string `json:"category_id,omitempty"`
	BatchID      string  `json:"batch_id,omitempty"`
	Prefix       string  `json:"prefix,omitempty"`
	TemplateData JSONMap `json:"template_data,omitempty"`
	CreatedBy    string  `json:"created_by,omitempty"`
}

// GenerationResult is returned for every generation call, success or not.
type GenerationResult struct {
	Success bool             `json:"success"`
	Count   int              `json:"count"`
	Cards   []*GeneratedCard `json:"cards"`
	BatchID string           `json:"batch_id"`
	Prefix  string           `json:"prefix"`
	Errors  []string         `json:"errors,omitempty"`
}

// ValidationResult lists every rule violation of a generation request.
type ValidationResult struct {
	IsValid bool     `json:"is_valid"`
	Errors  []string `json:"errors"`
}

// GenerationProgress is the read-side view polled by callers.
type GenerationProgress struct {
	BatchID     string      `json:"batch_id"`
	Total       int         `json:"total"`
	Completed   int         `json:"completed"`
	Status      BatchStatus `json:"status"`
	CurrentStep string      `json:"current_step,omitempty"`
}

// GenerationOptions feeds the generation form: prefix choices, quick
// quantities and a sample control number.
type GenerationOptions struct {
	DefaultPrefixes []string `json:"default_prefixes"`
	QuickQuantities []int    `json:"quick_quantities"`
	Preview         string   `json:"preview"`
}

// BatchEvent is published to the message broker after every checkpoint and
// terminal transition.
type BatchEvent struct {
	BatchID   string      `json:"batch_id"`
	ClinicID  string      `json:"clinic_id"`
	Total     int         `json:"total"`
	Completed int         `json:"completed"`
	Status    BatchStatus `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
}
