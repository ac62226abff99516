package service

import (
	"context"
	"time"

	"github.com/localpulse/localpulse/internal/domain"
	"github.com/localpulse/localpulse/pkg/logger"
)

// TokenRefreshSweeper proactively refreshes source tokens expiring within a
// lookahead window so that scheduled syncs do not stall on refresh calls.
type TokenRefreshSweeper struct {
	sourceRepo domain.ReviewSourceRepository
	tokens     *SourceTokenService
	logger     logger.Logger

	interval  time.Duration
	lookahead time.Duration
}

// NewTokenRefreshSweeper creates a sweeper.
func NewTokenRefreshSweeper(
	sourceRepo domain.ReviewSourceRepository,
	tokens *SourceTokenService,
	interval, lookahead time.Duration,
	log logger.Logger,
) *TokenRefreshSweeper {
	return &TokenRefreshSweeper{
		sourceRepo: sourceRepo,
		tokens:     tokens,
		logger:     log,
		interval:   interval,
		lookahead:  lookahead,
	}
}

// Run sweeps on the configured interval until the context is cancelled.
func (w *TokenRefreshSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Token refresh sweeper stopped")
			return
		case <-ticker.C:
			w.Sweep(ctx)
		}
	}
}

// Sweep refreshes all connected sources whose tokens expire before
// now + lookahead. Failures are logged per source and never abort the sweep.
func (w *TokenRefreshSweeper) Sweep(ctx context.Context) {
	cutoff := time.Now().UTC().Add(w.lookahead)

	sources, err := w.sourceRepo.ListExpiringTokens(ctx, cutoff)
	if err != nil {
		w.logger.Error("Token sweep failed to list expiring sources: " + err.Error())
		return
	}
	if len(sources) == 0 {
		return
	}

	w.logger.WithField("count", len(sources)).Info("Token sweep refreshing expiring sources")

	refreshed := 0
	for _, source := range sources {
		// The lookahead is the buffer here: every listed source expires
		// inside the window and must actually be refreshed, not just
		// revalidated against the default 5-minute buffer.
		if _, err := w.tokens.EnsureFreshTokenWithin(ctx, source, w.lookahead); err != nil {
			w.logger.WithFields(map[string]interface{}{
				"source_id": source.ID,
				"provider":  source.Provider,
				"error":     err.Error(),
			}).Warn("Token sweep failed to refresh source")
			if recordErr := w.sourceRepo.RecordError(ctx, source.ID, err.Error(), domain.ErrorTypePermanent); recordErr != nil {
				w.logger.WithField("source_id", source.ID).
					Error("Failed to record refresh failure: " + recordErr.Error())
			}
			continue
		}
		refreshed++
	}

	w.logger.WithFields(map[string]interface{}{
		"refreshed": refreshed,
		"total":     len(sources),
	}).Info("Token sweep completed")
}
