package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aashishkarki002/tenant-management-sub004/internal/logging"
)

type overdueMarker interface {
	MarkOverdue(ctx context.Context, asOf time.Time, limit int) (int, error)
}

// OverdueSweeper periodically moves receivables past their due date to the
// overdue status.
type OverdueSweeper struct {
	billing  overdueMarker
	logger   *slog.Logger
	interval time.Duration
	batch    int
	now      func() time.Time
}

func NewOverdueSweeper(billing overdueMarker, logger *slog.Logger, interval time.Duration, batch int) *OverdueSweeper {
	return &OverdueSweeper{
		billing:  billing,
		logger:   logger,
		interval: interval,
		batch:    batch,
		now:      time.Now,
	}
}

func (s *OverdueSweeper) Start(ctx context.Context) {
	s.logger.Info("overdue sweeper started", "interval", s.interval, "batch", s.batch)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("overdue sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// sweep keeps marking full batches until a short one says the backlog is
// drained.
func (s *OverdueSweeper) sweep(ctx context.Context) int {
	ctx = logging.WithLogger(ctx, s.logger)
	asOf := s.now().UTC()

	total := 0
	for ctx.Err() == nil {
		n, err := s.billing.MarkOverdue(ctx, asOf, s.batch)
		total += n
		if err != nil {
			s.logger.Error("overdue sweep failed", "marked", total, "error", err)
			return total
		}
		if n < s.batch || s.batch <= 0 {
			break
		}
	}

	if total > 0 {
		s.logger.Info("overdue sweep completed", "marked", total, "as_of", asOf)
	}
	return total
}
