package models

import (
	"time"

	"github.com/greenplate/mealsub/pkg/types"
)

// Subscription is a customer's commercial relationship to a plan.
// Status is mutated exclusively through the lifecycle service so that every
// change lands in subscription_state_history; writing the column through a
// generic update skips the audit trail and is a correctness bug.
type Subscription struct {
	ID     string                   `gorm:"column:id;type:uuid;primary_key" json:"id"`
	UserID string                   `gorm:"column:user_id;type:varchar(64);not null;index" json:"user_id"`
	PlanID string                   `gorm:"column:plan_id;type:uuid;not null;index" json:"plan_id"`
	Status types.SubscriptionStatus `gorm:"column:status;type:varchar(32);not null;index" json:"status"`
	// StartDate/EndDate bound the paid service period. EndDate is nil while
	// the period is open-ended (auto-renewing).
	StartDate    time.Time  `gorm:"column:start_date;not null" json:"start_date"`
	EndDate      *time.Time `gorm:"column:end_date;default:null" json:"end_date"`
	PriceCharged int64      `gorm:"column:price_charged;not null" json:"price_charged"`
	AutoRenewal  bool       `gorm:"column:auto_renewal;not null;default:false" json:"auto_renewal"`
	// CompletedCycles only increases; incremented by successful payments.
	CompletedCycles      int       `gorm:"column:completed_cycles;not null;default:0" json:"completed_cycles"`
	HasSuccessfulPayment bool      `gorm:"column:has_successful_payment;not null;default:false" json:"has_successful_payment"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

func (Subscription) TableName() string {
	return "subscription"
}

// Delivering reports whether this subscription currently receives meals.
func (s *Subscription) Delivering() bool {
	return s != nil && s.Status.Delivering()
}
