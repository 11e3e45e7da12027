package models

import (
	"time"

	"github.com/greenplate/mealsub/pkg/types"

	"gorm.io/datatypes"
)

// Plan describes a subscription offering. Plans referenced by subscriptions
// are only changed through explicit admin edits; archiving a plan never
// retroactively affects existing subscriptions.
type Plan struct {
	ID string `gorm:"column:id;type:uuid;primary_key" json:"id"`
	// Code is a short unique mnemonic (e.g. FOCUS, FLEX); also feeds the
	// deterministic slot allocator, so renames are an admin-visible change.
	Code        string `gorm:"column:code;type:varchar(16);not null;uniqueIndex" json:"code"`
	Name        string `gorm:"column:name;type:varchar(128);not null" json:"name"`
	MealsPerDay int    `gorm:"column:meals_per_day;not null" json:"meals_per_day"`
	// DeliveryPattern holds weekdays Monday=1..Saturday=6. Sunday is excluded by policy.
	DeliveryPattern datatypes.JSONSlice[int] `gorm:"column:delivery_pattern" json:"delivery_pattern"`
	// Prices are stored in minor units.
	BasePrice       int64            `gorm:"column:base_price;not null" json:"base_price"`
	DiscountedPrice *int64           `gorm:"column:discounted_price;default:null" json:"discounted_price"`
	Status          types.PlanStatus `gorm:"column:status;type:varchar(16);not null" json:"status"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

func (Plan) TableName() string {
	return "plan"
}

// DeliversOn reports whether the plan delivers on the given ISO-ish weekday
// (Monday=1..Saturday=6; 0 means Sunday and never matches).
func (p *Plan) DeliversOn(weekday int) bool {
	if weekday < types.DeliveryWeekdayMin || weekday > types.DeliveryWeekdayMax {
		return false
	}
	for _, d := range p.DeliveryPattern {
		if d == weekday {
			return true
		}
	}
	return false
}
