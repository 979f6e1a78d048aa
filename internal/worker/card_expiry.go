package worker

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mocard/benefits-api/internal/repository"
	"github.com/mocard/benefits-api/pkg/logger"
)

var (
	cardsExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "benefits_worker_cards_expired_total",
		Help: "Total number of cards flipped to expired by the sweeper",
	})
	sweepFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "benefits_worker_sweep_failures_total",
		Help: "Total number of failed expiry sweeps",
	})
)

// CardExpiryWorker periodically flips active cards past their expiry date to
// expired. Redemption and booking also check the date directly, so the sweep
// interval only affects how quickly the stored status catches up.
type CardExpiryWorker struct {
	repo          repository.CardRepository
	sweepInterval time.Duration
	logger        *logger.Logger
}

func NewCardExpiryWorker(repo repository.CardRepository, sweepInterval time.Duration, l *logger.Logger) *CardExpiryWorker {
	return &CardExpiryWorker{
		repo:          repo,
		sweepInterval: sweepInterval,
		logger:        l,
	}
}

func (w *CardExpiryWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.sweepInterval)
	defer ticker.Stop()

	w.logger.ZL.Info().Dur("interval", w.sweepInterval).Msg("card expiry worker started")

	for {
		select {
		case <-ctx.Done():
			w.logger.ZL.Info().Msg("card expiry worker shutting down")
			return
		case <-ticker.C:
			if err := w.sweep(ctx); err != nil {
				sweepFailures.Inc()
				w.logger.ZL.Error().Err(err).Msg("card expiry sweep failed")
			}
		}
	}
}

func (w *CardExpiryWorker) sweep(ctx context.Context) error {
	expired, err := w.repo.ExpireCards(ctx, time.Now())
	if err != nil {
		return err
	}
	if expired > 0 {
		cardsExpired.Add(float64(expired))
		w.logger.ZL.Info().Int64("expired", expired).Msg("cards expired")
	}
	return nil
}
