package types

import (
	"fmt"
	"time"
)

type PlanStatus string

const (
	PlanStatusActive   PlanStatus = "active"
	PlanStatusArchived PlanStatus = "archived"
)

// MealSlot is one of the two meal occasions in a day.
type MealSlot string

const (
	MealSlotLunch  MealSlot = "lunch"
	MealSlotDinner MealSlot = "dinner"
)

func ParseMealSlot(raw string) (MealSlot, error) {
	switch MealSlot(raw) {
	case MealSlotLunch, MealSlotDinner:
		return MealSlot(raw), nil
	}
	return "", fmt.Errorf("unknown meal slot: %q", raw)
}

// IngredientUnit is the base measurement unit of an ingredient.
type IngredientUnit string

const (
	IngredientUnitGram       IngredientUnit = "g"
	IngredientUnitMilliliter IngredientUnit = "ml"
	IngredientUnitPiece      IngredientUnit = "pcs"
)

func ParseIngredientUnit(raw string) (IngredientUnit, error) {
	switch IngredientUnit(raw) {
	case IngredientUnitGram, IngredientUnitMilliliter, IngredientUnitPiece:
		return IngredientUnit(raw), nil
	}
	return "", fmt.Errorf("unknown ingredient unit: %q", raw)
}

// Delivery weekdays are numbered Monday=1 through Saturday=6. Sunday is a
// company-wide non-delivery day and is not representable in a pattern.
const (
	DeliveryWeekdayMin = 1 // Monday
	DeliveryWeekdayMax = 6 // Saturday
)

// ValidateDeliveryPattern rejects empty patterns, duplicates, and any day
// outside Monday..Saturday.
func ValidateDeliveryPattern(pattern []int) error {
	if len(pattern) == 0 {
		return fmt.Errorf("delivery pattern must contain at least one weekday")
	}
	seen := map[int]bool{}
	for _, d := range pattern {
		if d < DeliveryWeekdayMin || d > DeliveryWeekdayMax {
			return fmt.Errorf("delivery weekday out of range (Monday=1..Saturday=6): %d", d)
		}
		if seen[d] {
			return fmt.Errorf("duplicate delivery weekday: %d", d)
		}
		seen[d] = true
	}
	return nil
}

// DeliveryWeekday converts a calendar date to the Monday=1..Saturday=6
// numbering; Sunday maps to 0 and never matches a pattern.
func DeliveryWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 { // time.Sunday
		return 0
	}
	return wd
}
