package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseSubscriptionStatus_CanonicalAndAliases(t *testing.T) {
	cases := map[string]SubscriptionStatus{
		"pending_payment":  SubscriptionStatusPendingPayment,
		"Pending_Approval": SubscriptionStatusPendingApproval,
		"New_Joiner":       SubscriptionStatusNewJoiner,
		"New":              SubscriptionStatusNewJoiner,
		"new":              SubscriptionStatusNewJoiner,
		"active":           SubscriptionStatusActive,
		"ACTIVE":           SubscriptionStatusActive,
		"Frozen":           SubscriptionStatusFrozen,
		"Exiting":          SubscriptionStatusExiting,
		"cancelled":        SubscriptionStatusCancelled,
		"expired":          SubscriptionStatusExpired,
		" Curious ":        SubscriptionStatusCurious,
	}
	for raw, want := range cases {
		got, err := ParseSubscriptionStatus(raw)
		require.NoError(t, err, raw)
		require.Equal(t, want, got, raw)
	}
}

func TestParseSubscriptionStatus_RejectsUnknown(t *testing.T) {
	for _, raw := range []string{"", "paused", "canceled", "new_joiner_2", "Activeish"} {
		_, err := ParseSubscriptionStatus(raw)
		require.Error(t, err, raw)
	}
}

func TestTransitionTable(t *testing.T) {
	require.True(t, SubscriptionStatusPendingPayment.CanTransitionTo(SubscriptionStatusPendingApproval))
	require.True(t, SubscriptionStatusFrozen.CanTransitionTo(SubscriptionStatusActive))
	require.True(t, SubscriptionStatusExiting.CanTransitionTo(SubscriptionStatusActive))
	require.True(t, SubscriptionStatusExiting.CanTransitionTo(SubscriptionStatusCancelled))

	require.False(t, SubscriptionStatusPendingPayment.CanTransitionTo(SubscriptionStatusActive))
	require.False(t, SubscriptionStatusActive.CanTransitionTo(SubscriptionStatusPendingPayment))
	require.False(t, SubscriptionStatusActive.CanTransitionTo(SubscriptionStatusActive))
	require.False(t, SubscriptionStatusFrozen.CanTransitionTo(SubscriptionStatusExpired))
}

func TestTerminalStatesHaveNoTargets(t *testing.T) {
	for _, terminal := range []SubscriptionStatus{SubscriptionStatusCancelled, SubscriptionStatusExpired} {
		require.True(t, terminal.Terminal())
		require.Empty(t, terminal.AllowedTargets())
		for _, target := range AllSubscriptionStatuses {
			require.False(t, terminal.CanTransitionTo(target))
		}
	}
}

func TestDelivering(t *testing.T) {
	require.True(t, SubscriptionStatusActive.Delivering())
	require.True(t, SubscriptionStatusExiting.Delivering())
	require.True(t, SubscriptionStatusNewJoiner.Delivering())
	require.True(t, SubscriptionStatusCurious.Delivering())
	require.False(t, SubscriptionStatusFrozen.Delivering())
	require.False(t, SubscriptionStatusPendingPayment.Delivering())
	require.False(t, SubscriptionStatusCancelled.Delivering())
}

func TestValidateDeliveryPattern(t *testing.T) {
	require.NoError(t, ValidateDeliveryPattern([]int{1, 2, 3, 4, 5}))
	require.NoError(t, ValidateDeliveryPattern([]int{6}))

	require.Error(t, ValidateDeliveryPattern(nil))
	require.Error(t, ValidateDeliveryPattern([]int{0}), "Sunday as 0 must be rejected")
	require.Error(t, ValidateDeliveryPattern([]int{7}), "Sunday as 7 must be rejected")
	require.Error(t, ValidateDeliveryPattern([]int{1, 1}))
}
