package sweep

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/greenplate/mealsub/internal/app/service/lifecycle"
	"github.com/greenplate/mealsub/internal/models"
	"github.com/greenplate/mealsub/pkg/tool"
	"github.com/greenplate/mealsub/pkg/types"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestEnv(t *testing.T) (*gorm.DB, *Service) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Plan{}, &models.Subscription{}, &models.SubscriptionStateHistory{}))

	log := zap.NewNop().Sugar()
	return db, NewService(db, lifecycle.NewService(db, log), log)
}

func seedSub(t *testing.T, db *gorm.DB, status types.SubscriptionStatus, cycles int, endDate *time.Time) *models.Subscription {
	t.Helper()
	sub := &models.Subscription{
		ID:              tool.GenerateUUIDV7(),
		UserID:          "user-" + uuid.NewString(),
		PlanID:          uuid.NewString(),
		Status:          status,
		StartDate:       time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		EndDate:         endDate,
		PriceCharged:    9900,
		CompletedCycles: cycles,
	}
	require.NoError(t, db.Create(sub).Error)
	return sub
}

func statusOf(t *testing.T, db *gorm.DB, id string) types.SubscriptionStatus {
	t.Helper()
	var sub models.Subscription
	require.NoError(t, db.First(&sub, "id = ?", id).Error)
	return sub.Status
}

func TestActivateNewJoiners(t *testing.T) {
	db, svc := newTestEnv(t)

	eligible1 := seedSub(t, db, types.SubscriptionStatusNewJoiner, 2, nil)
	eligible2 := seedSub(t, db, types.SubscriptionStatusNewJoiner, 5, nil)
	tooFew := seedSub(t, db, types.SubscriptionStatusNewJoiner, 1, nil)
	wrongStatus := seedSub(t, db, types.SubscriptionStatusCurious, 4, nil)

	n, err := svc.ActivateNewJoiners(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, n)

	require.Equal(t, types.SubscriptionStatusActive, statusOf(t, db, eligible1.ID))
	require.Equal(t, types.SubscriptionStatusActive, statusOf(t, db, eligible2.ID))
	require.Equal(t, types.SubscriptionStatusNewJoiner, statusOf(t, db, tooFew.ID))
	require.Equal(t, types.SubscriptionStatusCurious, statusOf(t, db, wrongStatus.ID))

	var entry models.SubscriptionStateHistory
	require.NoError(t, db.First(&entry, "subscription_id = ?", eligible1.ID).Error)
	require.Equal(t, lifecycle.ReasonAutoActivation, entry.Reason)
	require.Equal(t, "sweep", entry.ChangedBy)

	// Second run finds nothing left to promote.
	n, err = svc.ActivateNewJoiners(context.Background())
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestCancelExiting(t *testing.T) {
	db, svc := newTestEnv(t)
	now := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

	yesterday := now.AddDate(0, 0, -1)
	tomorrow := now.AddDate(0, 0, 1)

	expired := seedSub(t, db, types.SubscriptionStatusExiting, 6, &yesterday)
	stillPaid := seedSub(t, db, types.SubscriptionStatusExiting, 6, &tomorrow)
	openEnded := seedSub(t, db, types.SubscriptionStatusExiting, 6, nil)
	active := seedSub(t, db, types.SubscriptionStatusActive, 6, &yesterday)

	n, err := svc.CancelExiting(context.Background(), now)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	require.Equal(t, types.SubscriptionStatusCancelled, statusOf(t, db, expired.ID))
	require.Equal(t, types.SubscriptionStatusExiting, statusOf(t, db, stillPaid.ID))
	require.Equal(t, types.SubscriptionStatusExiting, statusOf(t, db, openEnded.ID))
	require.Equal(t, types.SubscriptionStatusActive, statusOf(t, db, active.ID))

	var entry models.SubscriptionStateHistory
	require.NoError(t, db.First(&entry, "subscription_id = ?", expired.ID).Error)
	require.Equal(t, ReasonExitComplete, entry.Reason)

	n, err = svc.CancelExiting(context.Background(), now)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestCancelExiting_EndDateTodayIsNotCancelled(t *testing.T) {
	db, svc := newTestEnv(t)
	now := time.Date(2025, 6, 15, 23, 59, 0, 0, time.UTC)

	today := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	sub := seedSub(t, db, types.SubscriptionStatusExiting, 6, &today)

	n, err := svc.CancelExiting(context.Background(), now)
	require.NoError(t, err)
	require.Zero(t, n)
	require.Equal(t, types.SubscriptionStatusExiting, statusOf(t, db, sub.ID))
}
