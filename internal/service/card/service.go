package card

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/mocard/benefits-api/internal/model"
	"github.com/mocard/benefits-api/internal/repository"
	apperrors "github.com/mocard/benefits-api/pkg/errors"
)

type CardService interface {
	LookupByControlNumber(ctx context.Context, controlNumber string) (*model.GeneratedCard, error)
	ListClinicCards(ctx context.Context, clinicID uuid.UUID, filters *model.CardFilters) ([]*model.GeneratedCard, error)
	RedeemPerk(ctx context.Context, cardID uuid.UUID) (*model.GeneratedCard, error)
}

type Service struct {
	repo repository.CardRepository
}

func NewService(repo repository.CardRepository) *Service {
	return &Service{repo: repo}
}

// LookupByControlNumber is the patient-facing read path: a card holder types
// the number printed on the card and gets its benefits back.
func (s *Service) LookupByControlNumber(ctx context.Context, controlNumber string) (*model.GeneratedCard, error) {
	if controlNumber == "" {
		return nil, apperrors.NewBadRequest("control number is required", nil)
	}

	card, err := s.repo.GetByControlNumber(ctx, controlNumber)
	if err != nil {
		return nil, err
	}

	if err := s.unmarshalMetadata(card); err != nil {
		return nil, fmt.Errorf("failed to unmarshal card %s: %w", card.ID, err)
	}
	return card, nil
}

func (s *Service) ListClinicCards(ctx context.Context, clinicID uuid.UUID, filters *model.CardFilters) ([]*model.GeneratedCard, error) {
	cards, err := s.repo.ListByClinic(ctx, clinicID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list clinic cards: %w", err)
	}

	for _, card := range cards {
		if err := s.unmarshalMetadata(card); err != nil {
			return nil, fmt.Errorf("failed to unmarshal card %s: %w", card.ID, err)
		}
	}
	return cards, nil
}

// RedeemPerk consumes one perk from the card's allotment. The store guards
// perks_used < perks_total, active status and expiry inside one atomic
// update, so a rejected redemption leaves the counter untouched.
func (s *Service) RedeemPerk(ctx context.Context, cardID uuid.UUID) (*model.GeneratedCard, error) {
	card, err := s.repo.RedeemPerk(ctx, cardID)
	if err != nil {
		return nil, err
	}

	if err := s.unmarshalMetadata(card); err != nil {
		return nil, fmt.Errorf("failed to unmarshal card %s: %w", card.ID, err)
	}
	return card, nil
}

func (s *Service) unmarshalMetadata(card *model.GeneratedCard) error {
	if card.MetadataJSON == "" {
		return nil
	}
	var metadata model.JSONMap
	if err := json.Unmarshal([]byte(card.MetadataJSON), &metadata); err != nil {
		return err
	}
	card.Metadata = metadata
	return nil
}
