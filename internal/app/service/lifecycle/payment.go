package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"github.com/greenplate/mealsub/internal/models"
	"github.com/greenplate/mealsub/pkg/logctx"
	"github.com/greenplate/mealsub/pkg/types"

	"gorm.io/gorm"
)

// Payment outcomes map to transitions as follows:
//
//	success: completed_cycles++ and has_successful_payment=true, then
//	  pending_payment  -> Pending_Approval
//	  Pending_Approval -> Active
//	  New_Joiner       -> Active once completed_cycles reaches 2
//	  everything else keeps its status (the cycle credit still lands)
//	failure:
//	  pending_payment, Pending_Approval -> cancelled
//	  paid-up states are left unchanged; dunning is handled upstream
const (
	ReasonPaymentConfirmed    = "Payment confirmed"
	ReasonPaymentApproved     = "Payment received, subscription approved"
	ReasonAutoActivation      = "Automatic activation after 2 cycles"
	ReasonPaymentFailed       = "Payment failed"
	NewJoinerActivationCycles = 2
)

// ProcessPaymentSuccess records a successful payment cycle and applies the
// resulting transition, if any, in one transaction.
func (s *Service) ProcessPaymentSuccess(ctx context.Context, subscriptionID string) (*models.Subscription, error) {
	var sub models.Subscription
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&sub, "id = ?", subscriptionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSubscriptionNotFound
			}
			return fmt.Errorf("failed to load subscription: %w", err)
		}

		sub.CompletedCycles++
		sub.HasSuccessfulPayment = true
		if err := tx.Model(&models.Subscription{}).
			Where("id = ?", sub.ID).
			Updates(map[string]any{
				"completed_cycles":       sub.CompletedCycles,
				"has_successful_payment": true,
			}).Error; err != nil {
			return fmt.Errorf("failed to record payment cycle: %w", err)
		}

		switch sub.Status {
		case types.SubscriptionStatusPendingPayment:
			return s.applyTransition(ctx, tx, &sub, types.SubscriptionStatusPendingApproval, ReasonPaymentConfirmed, "payment-webhook")
		case types.SubscriptionStatusPendingApproval:
			return s.applyTransition(ctx, tx, &sub, types.SubscriptionStatusActive, ReasonPaymentApproved, "payment-webhook")
		case types.SubscriptionStatusNewJoiner:
			if sub.CompletedCycles >= NewJoinerActivationCycles {
				return s.applyTransition(ctx, tx, &sub, types.SubscriptionStatusActive, ReasonAutoActivation, "payment-webhook")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// ProcessPaymentFailure applies the failure policy. States that already have
// a paid period keep their status.
func (s *Service) ProcessPaymentFailure(ctx context.Context, subscriptionID string) (*models.Subscription, error) {
	var sub models.Subscription
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&sub, "id = ?", subscriptionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSubscriptionNotFound
			}
			return fmt.Errorf("failed to load subscription: %w", err)
		}

		switch sub.Status {
		case types.SubscriptionStatusPendingPayment, types.SubscriptionStatusPendingApproval:
			return s.applyTransition(ctx, tx, &sub, types.SubscriptionStatusCancelled, ReasonPaymentFailed, "payment-webhook")
		}
		logctx.FromCtx(ctx, s.log).Warnw("payment failure on serviced subscription, status unchanged",
			"subscription_id", sub.ID, "status", sub.Status)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &sub, nil
}
