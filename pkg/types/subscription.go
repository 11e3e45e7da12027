package types

import (
	"fmt"
	"strings"
)

// SubscriptionStatus is the canonical commercial status of a subscription.
// The string values are the canonical spellings stored in the database;
// use ParseSubscriptionStatus to normalize external input.
type SubscriptionStatus string

const (
	// SubscriptionStatusPendingPayment: checkout started, no payment confirmed yet.
	SubscriptionStatusPendingPayment SubscriptionStatus = "pending_payment"
	// SubscriptionStatusPendingApproval: signup outside card payment, awaiting manual approval.
	SubscriptionStatusPendingApproval SubscriptionStatus = "Pending_Approval"
	// SubscriptionStatusNewJoiner: auto-renewal requested, promoted to Active after 2 successful cycles.
	SubscriptionStatusNewJoiner SubscriptionStatus = "New_Joiner"
	// SubscriptionStatusCurious: single-cycle trial, auto-renewal explicitly declined.
	SubscriptionStatusCurious SubscriptionStatus = "Curious"
	SubscriptionStatusActive  SubscriptionStatus = "Active"
	// SubscriptionStatusFrozen: paused, no delivery and no billing.
	SubscriptionStatusFrozen SubscriptionStatus = "Frozen"
	// SubscriptionStatusExiting: cancellation requested, serviced through the paid period.
	SubscriptionStatusExiting   SubscriptionStatus = "Exiting"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
)

// statusByNormalizedName maps lower-cased canonical names plus the legacy
// aliases still used by older admin callers. Lookups happen once at the
// boundary; everything past ParseSubscriptionStatus works with canonical values.
var statusByNormalizedName = map[string]SubscriptionStatus{
	"pending_payment":  SubscriptionStatusPendingPayment,
	"pending_approval": SubscriptionStatusPendingApproval,
	"new_joiner":       SubscriptionStatusNewJoiner,
	"new":              SubscriptionStatusNewJoiner, // legacy alias
	"curious":          SubscriptionStatusCurious,
	"active":           SubscriptionStatusActive,
	"frozen":           SubscriptionStatusFrozen,
	"exiting":          SubscriptionStatusExiting,
	"cancelled":        SubscriptionStatusCancelled,
	"expired":          SubscriptionStatusExpired,
}

// ParseSubscriptionStatus resolves raw external input to a canonical status.
// Unrecognized names are rejected rather than passed through.
func ParseSubscriptionStatus(raw string) (SubscriptionStatus, error) {
	s, ok := statusByNormalizedName[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return "", fmt.Errorf("unknown subscription status: %q", raw)
	}
	return s, nil
}

// allowedTransitions is the full edge set of the lifecycle machine.
// Terminal states have no outgoing edges.
var allowedTransitions = map[SubscriptionStatus][]SubscriptionStatus{
	SubscriptionStatusPendingPayment:  {SubscriptionStatusPendingApproval, SubscriptionStatusCancelled},
	SubscriptionStatusPendingApproval: {SubscriptionStatusActive, SubscriptionStatusCancelled},
	SubscriptionStatusNewJoiner:       {SubscriptionStatusActive, SubscriptionStatusFrozen, SubscriptionStatusExiting, SubscriptionStatusCancelled},
	SubscriptionStatusCurious:         {SubscriptionStatusActive, SubscriptionStatusFrozen, SubscriptionStatusExiting, SubscriptionStatusCancelled},
	SubscriptionStatusActive:          {SubscriptionStatusFrozen, SubscriptionStatusExiting, SubscriptionStatusCancelled},
	SubscriptionStatusFrozen:          {SubscriptionStatusActive, SubscriptionStatusExiting, SubscriptionStatusCancelled},
	SubscriptionStatusExiting:         {SubscriptionStatusCancelled, SubscriptionStatusActive},
	SubscriptionStatusCancelled:       {},
	SubscriptionStatusExpired:         {},
}

// AllSubscriptionStatuses lists every canonical status, in lifecycle order.
var AllSubscriptionStatuses = []SubscriptionStatus{
	SubscriptionStatusPendingPayment,
	SubscriptionStatusPendingApproval,
	SubscriptionStatusNewJoiner,
	SubscriptionStatusCurious,
	SubscriptionStatusActive,
	SubscriptionStatusFrozen,
	SubscriptionStatusExiting,
	SubscriptionStatusCancelled,
	SubscriptionStatusExpired,
}

// CanTransitionTo reports whether target is directly reachable from s.
func (s SubscriptionStatus) CanTransitionTo(target SubscriptionStatus) bool {
	for _, t := range allowedTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// AllowedTargets returns the destination set for s.
func (s SubscriptionStatus) AllowedTargets() []SubscriptionStatus {
	return allowedTransitions[s]
}

// Terminal reports whether s has no outgoing transitions.
func (s SubscriptionStatus) Terminal() bool {
	return len(allowedTransitions[s]) == 0
}

// DeliveringSubscriptionStatuses lists the statuses whose subscribers
// receive meals; used in status filters on subscription queries.
var DeliveringSubscriptionStatuses = []SubscriptionStatus{
	SubscriptionStatusNewJoiner,
	SubscriptionStatusCurious,
	SubscriptionStatusActive,
	SubscriptionStatusExiting,
}

// Delivering reports whether subscribers in this status receive meals.
// Exiting subscribers are serviced through the paid period; Frozen and
// terminal subscribers are not.
func (s SubscriptionStatus) Delivering() bool {
	switch s {
	case SubscriptionStatusNewJoiner, SubscriptionStatusCurious, SubscriptionStatusActive, SubscriptionStatusExiting:
		return true
	}
	return false
}
