package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/mocard/benefits-api/internal/model"
	"github.com/mocard/benefits-api/internal/repository"
	apperrors "github.com/mocard/benefits-api/pkg/errors"
)

type cardRepository struct {
	db *sqlx.DB
}

func NewCardRepository(db *sqlx.DB) repository.CardRepository {
	return &cardRepository{db: db}
}

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// violation, used by the engine to retry a chunk with fresh control numbers.
func IsUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23505"
	}
	return false
}

// BulkInsert writes one chunk of cards in a single multi-row statement. The
// whole statement succeeds or fails atomically.
func (r *cardRepository) BulkInsert(ctx context.Context, cards []*model.GeneratedCard) error {
	if len(cards) == 0 {
		return nil
	}

	query := `
		INSERT INTO cards (
			id, control_number, full_name, birth_date, address, contact_number,
			emergency_contact, clinic_id, category_id, status, perks_total, perks_used,
			issue_date, expiry_date, qr_code_data, tenant_id, metadata, created_at, updated_at
		) VALUES (
			:id, :control_number, :full_name, :birth_date, :address, :contact_number,
			:emergency_contact, :clinic_id, :category_id, :status, :perks_total, :perks_used,
			:issue_date, :expiry_date, :qr_code_data, :tenant_id, :metadata, :created_at, :updated_at
		)
	`
	if _, err := r.db.NamedExecContext(ctx, query, cards); err != nil {
		if IsUniqueViolation(err) {
			return apperrors.NewConflict("duplicate control number in chunk", err)
		}
		return fmt.Errorf("failed to bulk insert %d cards: %w", len(cards), err)
	}
	return nil
}

func (r *cardRepository) ListByBatch(ctx context.Context, batchID string) ([]*model.GeneratedCard, error) {
	query := `SELECT * FROM cards WHERE metadata::jsonb ->> 'batch_id' = $1 ORDER BY created_at, control_number`
	var cards []*model.GeneratedCard
	err := r.db.SelectContext(ctx, &cards, query, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards for batch %s: %w", batchID, err)
	}
	return cards, nil
}

func (r *cardRepository) ListByClinic(ctx context.Context, clinicID uuid.UUID, filters *model.CardFilters) ([]*model.GeneratedCard, error) {
	query := `SELECT * FROM cards WHERE clinic_id = $1`
	args := []interface{}{clinicID}

	if filters != nil && filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", len(args)+1)
		args = append(args, filters.Status)
	}
	if filters != nil && filters.CategoryID != "" {
		query += fmt.Sprintf(" AND category_id = $%d", len(args)+1)
		args = append(args, filters.CategoryID)
	}
	query += " ORDER BY created_at DESC"

	var cards []*model.GeneratedCard
	err := r.db.SelectContext(ctx, &cards, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards for clinic %s: %w", clinicID, err)
	}
	return cards, nil
}

func (r *cardRepository) GetByControlNumber(ctx context.Context, controlNumber string) (*model.GeneratedCard, error) {
	query := `SELECT * FROM cards WHERE control_number = $1`
	var card model.GeneratedCard
	err := r.db.GetContext(ctx, &card, query, controlNumber)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFound("card", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get card %s: %w", controlNumber, err)
	}
	return &card, nil
}

func (r *cardRepository) CountActiveByClinic(ctx context.Context, clinicID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM cards WHERE clinic_id = $1 AND status = $2`
	var count int
	err := r.db.GetContext(ctx, &count, query, clinicID, model.CardStatusActive)
	if err != nil {
		return 0, fmt.Errorf("failed to count active cards: %w", err)
	}
	return count, nil
}

// RedeemPerk increments perks_used only while the card is active, unexpired
// and the allotment is not exhausted. All three conditions sit inside the
// UPDATE so a rejected redemption never consumes a perk. The expiry date is
// checked directly because the sweeper flips statuses on an interval and a
// card past its date may still read active.
func (r *cardRepository) RedeemPerk(ctx context.Context, cardID uuid.UUID) (*model.GeneratedCard, error) {
	query := `
		UPDATE cards
		SET perks_used = perks_used + 1, updated_at = $1
		WHERE id = $2 AND perks_used < perks_total AND status = $3 AND expiry_date > $1
		RETURNING *
	`
	var card model.GeneratedCard
	err := r.db.GetContext(ctx, &card, query, time.Now(), cardID, model.CardStatusActive)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewConflict("card is not active, has expired, or has no perks left", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to redeem perk on card %s: %w", cardID, err)
	}
	return &card, nil
}

func (r *cardRepository) ExpireCards(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `UPDATE cards SET status = $1, updated_at = $2 WHERE status = $3 AND expiry_date < $2`
	res, err := r.db.ExecContext(ctx, query, model.CardStatusExpired, cutoff, model.CardStatusActive)
	if err != nil {
		return 0, fmt.Errorf("failed to expire cards: %w", err)
	}
	return res.RowsAffected()
}
