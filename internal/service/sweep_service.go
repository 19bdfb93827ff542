package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/KentHall303/ct-dispatch-api/pkg/errors"
)

type sweepAppointmentRepository interface {
	MarkOverdue(ctx context.Context, now time.Time) (int64, error)
}

// SweepService flips scheduled appointments to overdue once their end time
// has passed. It runs from a cron trigger through the background job queue.
type SweepService struct {
	repo    sweepAppointmentRepository
	boards  *BoardService
	metrics *MetricsService
	logger  *zap.Logger
}

// NewSweepService constructs a SweepService instance.
func NewSweepService(repo sweepAppointmentRepository, boards *BoardService, metrics *MetricsService, logger *zap.Logger) *SweepService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SweepService{repo: repo, boards: boards, metrics: metrics, logger: logger}
}

// Run executes one sweep pass and returns the number of appointments marked.
func (s *SweepService) Run(ctx context.Context) (int64, error) {
	now := time.Now().UTC()
	marked, err := s.repo.MarkOverdue(ctx, now)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "overdue sweep failed")
	}
	if s.metrics != nil {
		s.metrics.RecordSweepMarked(marked)
	}
	if marked > 0 {
		// Status is part of the render model, so any flip stales cached days.
		if s.boards != nil && s.boards.cache.Enabled() {
			if err := s.boards.cache.Invalidate(ctx, "board:*"); err != nil {
				s.logger.Warn("failed to invalidate board cache after sweep", zap.Error(err))
			}
		}
		s.logger.Info("overdue sweep marked appointments", zap.Int64("count", marked))
	}
	return marked, nil
}
