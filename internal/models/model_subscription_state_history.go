package models

import (
	"time"

	"github.com/greenplate/mealsub/pkg/types"

	"gorm.io/datatypes"
)

// SubscriptionStateHistory is the append-only audit record of one status
// change. Rows are never updated or deleted; every subscription has at least
// the creation entry (PreviousState nil).
// Use case: troubleshooting and customer-service audits.
type SubscriptionStateHistory struct {
	ID             string                    `gorm:"column:id;type:uuid;primary_key" json:"id"`
	SubscriptionID string                    `gorm:"column:subscription_id;type:uuid;not null;index:idx_subscription_id_id,priority:1" json:"subscription_id"`
	PreviousState  *types.SubscriptionStatus `gorm:"column:previous_state;type:varchar(32);default:null" json:"previous_state"`
	NewState       types.SubscriptionStatus  `gorm:"column:new_state;type:varchar(32);not null" json:"new_state"`
	Reason         string                    `gorm:"column:reason;type:text" json:"reason"`
	ChangedBy      string                    `gorm:"column:changed_by;type:varchar(64)" json:"changed_by"`
	// Extra stores additional context such as trigger source.
	Extra     datatypes.JSONMap `gorm:"column:extra" json:"extra"`
	CreatedAt time.Time         `json:"created_at"`
}

func (SubscriptionStateHistory) TableName() string {
	return "subscription_state_history"
}
