package models

import (
	"time"

	"github.com/greenplate/mealsub/pkg/types"
)

// MenuCycle is a repeating menu rotation. At most one cycle is active at a
// time; ActivateCycle in the catalog service enforces this.
type MenuCycle struct {
	ID              string    `gorm:"column:id;type:uuid;primary_key" json:"id"`
	Name            string    `gorm:"column:name;type:varchar(128);not null" json:"name"`
	CycleLengthDays int       `gorm:"column:cycle_length_days;not null" json:"cycle_length_days"`
	IsActive        bool      `gorm:"column:is_active;not null;default:false" json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (MenuCycle) TableName() string {
	return "menu_cycle"
}

// MenuCycleDay is one position in a cycle's rotation, zero-indexed.
type MenuCycleDay struct {
	ID       string `gorm:"column:id;type:uuid;primary_key" json:"id"`
	CycleID  string `gorm:"column:cycle_id;type:uuid;not null;index" json:"cycle_id"`
	DayIndex int    `gorm:"column:day_index;not null" json:"day_index"`
	Label    string `gorm:"column:label;type:varchar(64)" json:"label"`
}

func (MenuCycleDay) TableName() string {
	return "menu_cycle_day"
}

// MenuDayAssignment binds a meal to one slot of a cycle day. One assignment
// per (day, slot) is meaningful; the catalog service upserts on that key.
type MenuDayAssignment struct {
	ID         string         `gorm:"column:id;type:uuid;primary_key" json:"id"`
	CycleDayID string         `gorm:"column:cycle_day_id;type:uuid;not null;index" json:"cycle_day_id"`
	MealID     string         `gorm:"column:meal_id;type:uuid;not null" json:"meal_id"`
	Slot       types.MealSlot `gorm:"column:slot;type:varchar(16);not null" json:"slot"`
	CreatedAt  time.Time      `json:"created_at"`
}

func (MenuDayAssignment) TableName() string {
	return "menu_day_assignment"
}
