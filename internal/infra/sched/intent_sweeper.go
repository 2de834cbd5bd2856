package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"imagegen-solana-billing/internal/usecase"
)

// IntentSweeper periodically removes pending payment intents older than the
// retention window. The chain stays the source of truth; a swept intent can
// simply no longer be completed through this flow.
type IntentSweeper struct {
	payUC     usecase.PaymentUseCase
	interval  time.Duration
	retention time.Duration
	log       *zerolog.Logger
}

func NewIntentSweeper(payUC usecase.PaymentUseCase, interval, retention time.Duration, logger *zerolog.Logger) *IntentSweeper {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	if retention <= 0 {
		retention = time.Hour
	}
	l := logger.With().Str("component", "IntentSweeper").Logger()
	return &IntentSweeper{payUC: payUC, interval: interval, retention: retention, log: &l}
}

func (w *IntentSweeper) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Msg("starting intent sweeper")
	t := time.NewTicker(w.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("stopping intent sweeper")
			return ctx.Err()
		case <-t.C:
			if _, err := w.payUC.SweepStale(ctx, w.retention); err != nil {
				w.log.Error().Err(err).Msg("sweep failed")
			}
		}
	}
}
