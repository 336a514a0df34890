package workers

import (
	"context"
	"time"

	"github.com/Moyanplus/HuaMeiJiChangJieXi/internal/logger"
	"github.com/Moyanplus/HuaMeiJiChangJieXi/internal/store"
)

const defaultSweepInterval = 5 * time.Minute

// TokenSweeper periodically clears expired SMS verification tokens from the
// record store so stale tokens never linger past their expiry.
type TokenSweeper struct {
	records  store.UserRecordRepository
	interval time.Duration
	logger   *logger.Logger

	now func() time.Time
}

// NewTokenSweeper builds a sweeper that runs every interval. A non-positive
// interval falls back to a five minute default.
func NewTokenSweeper(records store.UserRecordRepository, interval time.Duration, logger *logger.Logger) *TokenSweeper {
	if interval <= 0 {
		interval = defaultSweepInterval
	}

	return &TokenSweeper{
		records:  records,
		interval: interval,
		logger:   logger,
		now:      time.Now,
	}
}

// Run starts the sweep loop in a background goroutine and returns.
func (s *TokenSweeper) Run() {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for range ticker.C {
			s.sweep(context.Background())
		}
	}()
}

func (s *TokenSweeper) sweep(ctx context.Context) {
	cleared, err := s.records.ClearExpiredTokens(ctx, s.now())
	if err != nil {
		s.logger.Err(err).Str("func", "*TokenSweeper.sweep").Msg("failed to clear expired verification tokens")
		return
	}

	if cleared > 0 {
		s.logger.Info().Int64("cleared", cleared).Msg("cleared expired verification tokens")
	}
}
