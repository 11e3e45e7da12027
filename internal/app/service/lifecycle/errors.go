package lifecycle

import (
	"errors"
	"fmt"

	"github.com/greenplate/mealsub/pkg/types"
)

var (
	// ErrSubscriptionNotFound: the subscription id does not resolve.
	ErrSubscriptionNotFound = errors.New("subscription not found")
	// ErrTransitionConflict: a concurrent transition changed the status
	// between load and write; the caller may retry.
	ErrTransitionConflict = errors.New("concurrent transition conflict")
)

// InvalidTransitionError reports a target state not reachable from the
// current state. It unwraps to ErrInvalidTransition.
type InvalidTransitionError struct {
	From types.SubscriptionStatus
	To   types.SubscriptionStatus
}

var ErrInvalidTransition = errors.New("invalid transition")

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition: %s -> %s", e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidTransition }

// ValidationError reports malformed input, e.g. a missing required field
// when creating a subscription.
type ValidationError struct {
	Field  string
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Detail)
}
