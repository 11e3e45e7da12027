package demand

import (
	"sort"
	"time"

	"github.com/greenplate/mealsub/pkg/types"
)

// slotAllocVersion pins the deterministic single-meal slot allocation. The
// formula is part of the product contract: the same (plan, date) pair must
// always resolve to the same slot, with no hidden state, so every subscriber
// on a plan sees a consistent lunch-or-dinner day. Bump the version (and
// branch on it) if the formula ever changes; do not edit v1 in place.
const slotAllocVersion = 1

// slotAllocV1: combinedHash = (planHash + dayHash) mod 2, where planHash is
// the byte sum of the first two characters of the plan code and dayHash is
// weekday (Sunday=0) plus day-of-month. Even means lunch, odd means dinner.
func slotAllocV1(planCode string, date time.Time) types.MealSlot {
	planHash := 0
	if len(planCode) > 0 {
		planHash += int(planCode[0])
	}
	if len(planCode) > 1 {
		planHash += int(planCode[1])
	}
	dayHash := int(date.Weekday()) + date.Day()
	if (planHash+dayHash)%2 == 0 {
		return types.MealSlotLunch
	}
	return types.MealSlotDinner
}

// cycleDayIndex anchors the rotation to the day of month, so a calendar date
// maps to the same cycle day no matter when the cycle was activated.
func cycleDayIndex(date time.Time, cycleLength int) int {
	if cycleLength <= 0 {
		cycleLength = defaultCycleLength
	}
	return (date.Day() - 1) % cycleLength
}

const defaultCycleLength = 7

type MealCount struct {
	MealName string `json:"meal_name"`
	Count    int    `json:"count"`
}

type RawMaterial struct {
	Ingredient string  `json:"ingredient"`
	Unit       string  `json:"unit"`
	Quantity   float64 `json:"quantity"`
}

// DayDemand is the aggregation result for a single date.
type DayDemand struct {
	Date           string        `json:"date"`
	DayName        string        `json:"day_name"`
	DayNumber      int           `json:"day_number"`
	LunchCount     int           `json:"lunch_count"`
	DinnerCount    int           `json:"dinner_count"`
	TotalMeals     int           `json:"total_meals"`
	MealsToPrepare []MealCount   `json:"meals_to_prepare"`
	RawMaterials   []RawMaterial `json:"raw_materials,omitempty"`
}

// ComputeDayDemand is a pure function of the snapshot and target date: which
// meals the kitchen must prepare and for how many subscribers. The
// raw-material rollup is comparatively expensive and only wanted on prep
// sheets, so it is computed on request.
func ComputeDayDemand(snap *Snapshot, date time.Time, withMaterials bool) *DayDemand {
	d := &DayDemand{
		Date:      date.Format(time.DateOnly),
		DayName:   date.Weekday().String(),
		DayNumber: date.Day(),
	}

	slots := snap.Assignments[cycleDayIndex(date, snap.CycleLength)]
	lunchMeal, hasLunch := slots[types.MealSlotLunch]
	dinnerMeal, hasDinner := slots[types.MealSlotDinner]

	weekday := types.DeliveryWeekday(date)
	if weekday == 0 {
		// Company-wide non-delivery day, regardless of plan patterns.
		return d
	}

	for _, plan := range snap.Plans {
		n := snap.Subscribers[plan.ID]
		if n == 0 || !patternContains(plan.Pattern, weekday) {
			continue
		}
		switch plan.MealsPerDay {
		case 2:
			// Two-meal subscribers count toward both slots. A missing
			// assignment yields zero for that slot only.
			if hasLunch {
				d.LunchCount += n
			}
			if hasDinner {
				d.DinnerCount += n
			}
		case 1:
			// Whole-cohort deterministic split between lunch and dinner.
			if slotAllocV1(plan.Code, date) == types.MealSlotLunch {
				if hasLunch {
					d.LunchCount += n
				}
			} else if hasDinner {
				d.DinnerCount += n
			}
		}
	}
	d.TotalMeals = d.LunchCount + d.DinnerCount

	if hasLunch && d.LunchCount > 0 {
		d.MealsToPrepare = append(d.MealsToPrepare, MealCount{MealName: snap.Meals[lunchMeal].DisplayName(), Count: d.LunchCount})
	}
	if hasDinner && d.DinnerCount > 0 {
		d.MealsToPrepare = append(d.MealsToPrepare, MealCount{MealName: snap.Meals[dinnerMeal].DisplayName(), Count: d.DinnerCount})
	}

	if withMaterials {
		d.RawMaterials = rollupRawMaterials(snap, lunchMeal, d.LunchCount, dinnerMeal, d.DinnerCount)
	}
	return d
}

func patternContains(pattern []int, weekday int) bool {
	for _, p := range pattern {
		if p == weekday {
			return true
		}
	}
	return false
}

type materialKey struct {
	name string
	unit types.IngredientUnit
}

// rollupRawMaterials multiplies each counted meal's recipe by its aggregate
// count and sums into one entry per (ingredient, unit). Purely additive, so
// input order cannot change the result.
func rollupRawMaterials(snap *Snapshot, lunchMeal string, lunchCount int, dinnerMeal string, dinnerCount int) []RawMaterial {
	acc := map[materialKey]float64{}
	add := func(mealID string, count int) {
		if count == 0 || mealID == "" {
			return
		}
		for _, line := range snap.Meals[mealID].Ingredients {
			acc[materialKey{name: line.Name, unit: line.Unit}] += line.WeightG * float64(count)
		}
	}
	add(lunchMeal, lunchCount)
	add(dinnerMeal, dinnerCount)

	out := make([]RawMaterial, 0, len(acc))
	for k, q := range acc {
		out = append(out, RawMaterial{Ingredient: k.name, Unit: string(k.unit), Quantity: q})
	}
	// Stable output ordering keeps repeated runs byte-identical.
	sort.Slice(out, func(i, j int) bool {
		if out[i].Ingredient != out[j].Ingredient {
			return out[i].Ingredient < out[j].Ingredient
		}
		return out[i].Unit < out[j].Unit
	})
	return out
}
