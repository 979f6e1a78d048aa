package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/mocard/benefits-api/internal/model"
	"github.com/mocard/benefits-api/internal/repository"
	apperrors "github.com/mocard/benefits-api/pkg/errors"
)

type batchRepository struct {
	db *sqlx.DB
}

func NewBatchRepository(db *sqlx.DB) repository.BatchRepository {
	return &batchRepository{db: db}
}

func (r *batchRepository) Create(ctx context.Context, batch *model.CardBatch) error {
	query := `
		INSERT INTO card_batches (id, clinic_id, batch_name, total_cards, generated_cards, status, template_data, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		batch.ID,
		batch.ClinicID,
		batch.BatchName,
		batch.TotalCards,
		batch.GeneratedCards,
		batch.Status,
		batch.TemplateDataJSON,
		batch.CreatedBy,
		batch.CreatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return apperrors.NewConflict(fmt.Sprintf("batch %s already exists", batch.ID), err)
		}
		return fmt.Errorf("failed to create batch record: %w", err)
	}
	return nil
}

func (r *batchRepository) Update(ctx context.Context, batchID string, update *model.BatchUpdate) error {
	query := `
		UPDATE card_batches
		SET generated_cards = $1, status = $2, completed_at = $3
		WHERE id = $4
	`
	res, err := r.db.ExecContext(ctx, query, update.GeneratedCards, update.Status, update.CompletedAt, batchID)
	if err != nil {
		return fmt.Errorf("failed to update batch %s: %w", batchID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.NewNotFound("batch", sql.ErrNoRows)
	}
	return nil
}

func (r *batchRepository) Get(ctx context.Context, batchID string) (*model.CardBatch, error) {
	query := `SELECT * FROM card_batches WHERE id = $1`
	var batch model.CardBatch
	err := r.db.GetContext(ctx, &batch, query, batchID)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFound("batch", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get batch %s: %w", batchID, err)
	}
	return &batch, nil
}

func (r *batchRepository) ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]*model.CardBatch, error) {
	query := `SELECT * FROM card_batches WHERE clinic_id = $1 ORDER BY created_at DESC`
	var batches []*model.CardBatch
	err := r.db.SelectContext(ctx, &batches, query, clinicID)
	if err != nil {
		return nil, fmt.Errorf("failed to list batches: %w", err)
	}
	return batches, nil
}
