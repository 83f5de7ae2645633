// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-pixel-studio/internal/logger"
)

// SubscriptionExpiryWorker periodically moves users whose paid plan ended
// back to the free plan. The first sweep runs right after start.
type SubscriptionExpiryWorker struct {
	expirer  SubscriptionExpirer
	interval time.Duration

	logger *logger.Logger
}

func NewSubscriptionExpiryWorker(expirer SubscriptionExpirer, interval time.Duration, logger *logger.Logger) *SubscriptionExpiryWorker {
	return &SubscriptionExpiryWorker{
		expirer:  expirer,
		interval: interval,
		logger:   logger,
	}
}

func (w *SubscriptionExpiryWorker) Run(ctx context.Context) {
	log := w.logger.With().Str("worker", "subscription_expiry").Logger()
	ctx = log.WithContext(ctx)
	log.Info().Dur("interval", w.interval).Msg("worker started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if _, err := w.expirer.ExpireSubscriptions(ctx); err != nil && ctx.Err() == nil {
			log.Err(err).Msg("subscription sweep failed")
		}

		select {
		case <-ctx.Done():
			log.Info().Msg("worker stopped")
			return
		case <-ticker.C:
		}
	}
}
