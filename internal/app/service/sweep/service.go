package sweep

import (
	"context"
	"time"

	"github.com/greenplate/mealsub/internal/app/service/lifecycle"
	"github.com/greenplate/mealsub/internal/models"
	"github.com/greenplate/mealsub/pkg/logctx"
	"github.com/greenplate/mealsub/pkg/types"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service runs the automated, time-driven status transitions. Both batch
// operations are idempotent: the status filter excludes already-processed
// rows, so a rerun with no intervening changes is a no-op.
type Service struct {
	db        *gorm.DB
	lifecycle *lifecycle.Service
	log       *zap.SugaredLogger
}

func NewService(db *gorm.DB, lc *lifecycle.Service, log *zap.SugaredLogger) *Service {
	return &Service{db: db, lifecycle: lc, log: log}
}

// ActivateNewJoiners promotes New_Joiner subscriptions with at least the
// required completed cycles to Active. Returns the number transitioned;
// a failing row is logged and skipped, never aborting the batch.
func (s *Service) ActivateNewJoiners(ctx context.Context) (int, error) {
	ids, err := s.selectIDs(ctx,
		"status = ? AND completed_cycles >= ?",
		types.SubscriptionStatusNewJoiner, lifecycle.NewJoinerActivationCycles)
	if err != nil {
		return 0, err
	}

	activated := 0
	for _, id := range ids {
		// Each transition is its own transaction so one bad row cannot
		// roll back the rest of the batch.
		if _, err := s.lifecycle.ExecuteTransition(ctx, id, types.SubscriptionStatusActive, lifecycle.ReasonAutoActivation, "sweep"); err != nil {
			logctx.FromCtx(ctx, s.log).Warnw("sweep: activation skipped", "subscription_id", id, "err", err)
			continue
		}
		activated++
	}
	logctx.FromCtx(ctx, s.log).Infow("sweep: new joiner activation done", "selected", len(ids), "activated", activated)
	return activated, nil
}

// ReasonExitComplete is written when an Exiting subscription's paid period ends.
const ReasonExitComplete = "Subscription period ended after cancellation request"

// CancelExiting retires Exiting subscriptions whose end_date has passed.
// now is a parameter so scheduled and admin-triggered runs share one code path.
func (s *Service) CancelExiting(ctx context.Context, now time.Time) (int, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	ids, err := s.selectIDs(ctx,
		"status = ? AND end_date IS NOT NULL AND end_date < ?",
		types.SubscriptionStatusExiting, today)
	if err != nil {
		return 0, err
	}

	cancelled := 0
	for _, id := range ids {
		if _, err := s.lifecycle.ExecuteTransition(ctx, id, types.SubscriptionStatusCancelled, ReasonExitComplete, "sweep"); err != nil {
			logctx.FromCtx(ctx, s.log).Warnw("sweep: cancellation skipped", "subscription_id", id, "err", err)
			continue
		}
		cancelled++
	}
	logctx.FromCtx(ctx, s.log).Infow("sweep: exiting cancellation done", "selected", len(ids), "cancelled", cancelled)
	return cancelled, nil
}

// RunAll executes both sweeps; used by the cron schedule.
func (s *Service) RunAll(ctx context.Context) {
	if _, err := s.ActivateNewJoiners(ctx); err != nil {
		s.log.Errorw("sweep: new joiner activation failed", "err", err)
	}
	if _, err := s.CancelExiting(ctx, time.Now()); err != nil {
		s.log.Errorw("sweep: exiting cancellation failed", "err", err)
	}
}

func (s *Service) selectIDs(ctx context.Context, query string, args ...any) ([]string, error) {
	var ids []string
	if err := s.db.WithContext(ctx).Model(&models.Subscription{}).
		Where(query, args...).
		Order("created_at asc").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
