package lifecycle

import (
	"context"
	"testing"

	"github.com/greenplate/mealsub/internal/models"
	"github.com/greenplate/mealsub/pkg/types"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestProcessPaymentSuccess_PendingPaymentToApproval(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, zap.NewNop().Sugar())
	plan := seedPlan(t, db, "FOCUS")
	sub := mustCreate(t, svc, plan.ID, types.SubscriptionStatusPendingPayment)

	got, err := svc.ProcessPaymentSuccess(context.Background(), sub.ID)
	require.NoError(t, err)
	require.Equal(t, types.SubscriptionStatusPendingApproval, got.Status)
	require.Equal(t, 1, got.CompletedCycles)
	require.True(t, got.HasSuccessfulPayment)

	entries := historyOf(t, db, sub.ID)
	require.Len(t, entries, 2)
	require.Equal(t, ReasonPaymentConfirmed, entries[1].Reason)
	require.Equal(t, "payment-webhook", entries[1].ChangedBy)
}

func TestProcessPaymentSuccess_ApprovalToActive(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, zap.NewNop().Sugar())
	plan := seedPlan(t, db, "FOCUS")
	sub := mustCreate(t, svc, plan.ID, types.SubscriptionStatusPendingApproval)

	got, err := svc.ProcessPaymentSuccess(context.Background(), sub.ID)
	require.NoError(t, err)
	require.Equal(t, types.SubscriptionStatusActive, got.Status)

	entries := historyOf(t, db, sub.ID)
	require.Len(t, entries, 2)
	require.Equal(t, ReasonPaymentApproved, entries[1].Reason)
}

func TestProcessPaymentSuccess_NewJoinerActivatesOnSecondCycle(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, zap.NewNop().Sugar())
	plan := seedPlan(t, db, "FOCUS")
	sub := mustCreate(t, svc, plan.ID, types.SubscriptionStatusNewJoiner)

	got, err := svc.ProcessPaymentSuccess(context.Background(), sub.ID)
	require.NoError(t, err)
	require.Equal(t, types.SubscriptionStatusNewJoiner, got.Status, "one cycle is not enough")
	require.Equal(t, 1, got.CompletedCycles)
	require.Len(t, historyOf(t, db, sub.ID), 1)

	got, err = svc.ProcessPaymentSuccess(context.Background(), sub.ID)
	require.NoError(t, err)
	require.Equal(t, types.SubscriptionStatusActive, got.Status)
	require.Equal(t, 2, got.CompletedCycles)

	entries := historyOf(t, db, sub.ID)
	require.Len(t, entries, 2)
	require.Equal(t, ReasonAutoActivation, entries[1].Reason)
}

func TestProcessPaymentSuccess_ActiveKeepsStatusButCreditsCycle(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, zap.NewNop().Sugar())
	plan := seedPlan(t, db, "FOCUS")
	sub := mustCreate(t, svc, plan.ID, types.SubscriptionStatusActive)

	got, err := svc.ProcessPaymentSuccess(context.Background(), sub.ID)
	require.NoError(t, err)
	require.Equal(t, types.SubscriptionStatusActive, got.Status)
	require.Equal(t, 1, got.CompletedCycles)
	require.True(t, got.HasSuccessfulPayment)
	require.Len(t, historyOf(t, db, sub.ID), 1)
}

func TestProcessPaymentFailure_CancelsUnpaidStates(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, zap.NewNop().Sugar())
	plan := seedPlan(t, db, "FOCUS")

	for _, source := range []types.SubscriptionStatus{
		types.SubscriptionStatusPendingPayment,
		types.SubscriptionStatusPendingApproval,
	} {
		sub := mustCreate(t, svc, plan.ID, source)

		got, err := svc.ProcessPaymentFailure(context.Background(), sub.ID)
		require.NoError(t, err, "%s", source)
		require.Equal(t, types.SubscriptionStatusCancelled, got.Status)

		entries := historyOf(t, db, sub.ID)
		require.Len(t, entries, 2)
		require.Equal(t, ReasonPaymentFailed, entries[1].Reason)
	}
}

func TestProcessPaymentFailure_LeavesServicedStatesAlone(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, zap.NewNop().Sugar())
	plan := seedPlan(t, db, "FOCUS")
	sub := mustCreate(t, svc, plan.ID, types.SubscriptionStatusActive)

	got, err := svc.ProcessPaymentFailure(context.Background(), sub.ID)
	require.NoError(t, err)
	require.Equal(t, types.SubscriptionStatusActive, got.Status)
	require.Len(t, historyOf(t, db, sub.ID), 1)

	var stored models.Subscription
	require.NoError(t, db.First(&stored, "id = ?", sub.ID).Error)
	require.Equal(t, types.SubscriptionStatusActive, stored.Status)
}

func TestProcessPayment_NotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, zap.NewNop().Sugar())

	_, err := svc.ProcessPaymentSuccess(context.Background(), uuid.NewString())
	require.ErrorIs(t, err, ErrSubscriptionNotFound)

	_, err = svc.ProcessPaymentFailure(context.Background(), uuid.NewString())
	require.ErrorIs(t, err, ErrSubscriptionNotFound)
}
