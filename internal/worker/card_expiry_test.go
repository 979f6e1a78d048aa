package worker

import (
	"context"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/mocard/benefits-api/internal/model"
	"github.com/mocard/benefits-api/pkg/logger"
)

type countingCardRepo struct {
	sweeps  atomic.Int64
	expired int64
}

func (r *countingCardRepo) BulkInsert(_ context.Context, _ []*model.GeneratedCard) error {
	return nil
}

func (r *countingCardRepo) ListByBatch(_ context.Context, _ string) ([]*model.GeneratedCard, error) {
	return nil, nil
}

func (r *countingCardRepo) ListByClinic(_ context.Context, _ uuid.UUID, _ *model.CardFilters) ([]*model.GeneratedCard, error) {
	return nil, nil
}

func (r *countingCardRepo) GetByControlNumber(_ context.Context, _ string) (*model.GeneratedCard, error) {
	return nil, nil
}

func (r *countingCardRepo) CountActiveByClinic(_ context.Context, _ uuid.UUID) (int, error) {
	return 0, nil
}

func (r *countingCardRepo) RedeemPerk(_ context.Context, _ uuid.UUID) (*model.GeneratedCard, error) {
	return nil, nil
}

func (r *countingCardRepo) ExpireCards(_ context.Context, _ time.Time) (int64, error) {
	r.sweeps.Add(1)
	return r.expired, nil
}

func TestCardExpiryWorker_SweepsUntilCancelled(t *testing.T) {
	repo := &countingCardRepo{expired: 3}
	log := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
	w := NewCardExpiryWorker(repo, 10*time.Millisecond, log)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return repo.sweeps.Load() >= 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}
