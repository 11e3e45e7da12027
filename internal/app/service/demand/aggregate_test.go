package demand

import (
	"testing"
	"time"

	"github.com/greenplate/mealsub/pkg/types"

	"github.com/stretchr/testify/require"
)

// testSnapshot: one cycle day (index 3) serving meal-a for lunch and meal-b
// for dinner, with recipes attached to both meals.
func testSnapshot() *Snapshot {
	return &Snapshot{
		CycleLength: 7,
		Assignments: map[int]map[types.MealSlot]string{
			3: {
				types.MealSlotLunch:  "meal-a",
				types.MealSlotDinner: "meal-b",
			},
		},
		Plans: []PlanInfo{
			{ID: "plan-focus", Code: "FOCUS", MealsPerDay: 2, Pattern: []int{1, 2, 3, 4, 5}},
		},
		Subscribers: map[string]int{"plan-focus": 10},
		Meals: map[string]MealInfo{
			"meal-a": {
				ID:     "meal-a",
				NameEn: "Meal A",
				Ingredients: []IngredientLine{
					{Name: "Chicken Breast", Unit: types.IngredientUnitGram, WeightG: 150},
					{Name: "Rice", Unit: types.IngredientUnitGram, WeightG: 100},
				},
			},
			"meal-b": {
				ID:     "meal-b",
				NameEn: "Meal B",
				Ingredients: []IngredientLine{
					{Name: "Rice", Unit: types.IngredientUnitGram, WeightG: 80},
					{Name: "Salmon", Unit: types.IngredientUnitGram, WeightG: 120},
				},
			},
		},
	}
}

// 2025-06-04 is a Wednesday; (4-1) mod 7 = 3 hits the assigned cycle day.
var wednesday = time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC)

func TestComputeDayDemand_TwoMealPlan(t *testing.T) {
	snap := testSnapshot()

	d := ComputeDayDemand(snap, wednesday, false)
	require.Equal(t, "2025-06-04", d.Date)
	require.Equal(t, "Wednesday", d.DayName)
	require.Equal(t, 4, d.DayNumber)
	require.Equal(t, 10, d.LunchCount)
	require.Equal(t, 10, d.DinnerCount)
	require.Equal(t, 20, d.TotalMeals)
	require.Equal(t, []MealCount{
		{MealName: "Meal A", Count: 10},
		{MealName: "Meal B", Count: 10},
	}, d.MealsToPrepare)
	require.Nil(t, d.RawMaterials)
}

func TestComputeDayDemand_SingleMealPlanSplit(t *testing.T) {
	snap := testSnapshot()
	snap.Plans = []PlanInfo{
		{ID: "plan-flex", Code: "FLEX", MealsPerDay: 1, Pattern: []int{1, 2, 3, 4, 5}},
	}
	snap.Subscribers = map[string]int{"plan-flex": 7}

	// FLEX on 2025-06-04: plan hash 'F'+'L' = 146, day hash 3+4 = 7; the sum
	// is odd, so the whole cohort lands on dinner.
	d := ComputeDayDemand(snap, wednesday, false)
	require.Zero(t, d.LunchCount)
	require.Equal(t, 7, d.DinnerCount)
	require.Equal(t, 7, d.TotalMeals)
	require.Equal(t, []MealCount{{MealName: "Meal B", Count: 7}}, d.MealsToPrepare)
}

func TestComputeDayDemand_SingleMealPlanPartitions(t *testing.T) {
	snap := testSnapshot()
	snap.Plans = []PlanInfo{
		{ID: "plan-flex", Code: "FLEX", MealsPerDay: 1, Pattern: []int{1, 2, 3, 4, 5, 6}},
	}
	snap.Subscribers = map[string]int{"plan-flex": 5}
	// Assign both slots on every cycle day so the split is observable anywhere.
	for idx := 0; idx < 7; idx++ {
		snap.Assignments[idx] = map[types.MealSlot]string{
			types.MealSlotLunch:  "meal-a",
			types.MealSlotDinner: "meal-b",
		}
	}

	for day := 1; day <= 28; day++ {
		date := time.Date(2025, 6, day, 0, 0, 0, 0, time.UTC)
		if date.Weekday() == time.Sunday {
			continue
		}
		d := ComputeDayDemand(snap, date, false)
		require.Equal(t, 5, d.TotalMeals, "%s", d.Date)
		require.True(t, d.LunchCount == 5 || d.DinnerCount == 5, "%s: cohort must not split", d.Date)
	}
}

func TestComputeDayDemand_SundayAlwaysZero(t *testing.T) {
	snap := testSnapshot()
	sunday := time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)
	require.Equal(t, time.Sunday, sunday.Weekday())

	d := ComputeDayDemand(snap, sunday, true)
	require.Zero(t, d.LunchCount)
	require.Zero(t, d.DinnerCount)
	require.Zero(t, d.TotalMeals)
	require.Empty(t, d.MealsToPrepare)
	require.Empty(t, d.RawMaterials)
}

func TestComputeDayDemand_PatternExcludesDay(t *testing.T) {
	snap := testSnapshot()
	snap.Plans[0].Pattern = []int{1, 2} // Monday and Tuesday only

	d := ComputeDayDemand(snap, wednesday, false)
	require.Zero(t, d.TotalMeals)
}

func TestComputeDayDemand_MissingSlotAssignment(t *testing.T) {
	snap := testSnapshot()
	delete(snap.Assignments[3], types.MealSlotDinner)

	d := ComputeDayDemand(snap, wednesday, false)
	require.Equal(t, 10, d.LunchCount)
	require.Zero(t, d.DinnerCount)
	require.Equal(t, []MealCount{{MealName: "Meal A", Count: 10}}, d.MealsToPrepare)
}

func TestComputeDayDemand_UnassignedCycleDay(t *testing.T) {
	snap := testSnapshot()
	// 2025-06-10 is a Tuesday, (10-1) mod 7 = 2: no assignments there.
	d := ComputeDayDemand(snap, time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), false)
	require.Zero(t, d.TotalMeals)
	require.Empty(t, d.MealsToPrepare)
}

func TestComputeDayDemand_RawMaterialRollup(t *testing.T) {
	snap := testSnapshot()

	d := ComputeDayDemand(snap, wednesday, true)
	// 10 of meal-a and 10 of meal-b; Rice appears in both recipes and must
	// collapse to one line. Output is sorted by ingredient name.
	require.Equal(t, []RawMaterial{
		{Ingredient: "Chicken Breast", Unit: string(types.IngredientUnitGram), Quantity: 1500},
		{Ingredient: "Rice", Unit: string(types.IngredientUnitGram), Quantity: 1800},
		{Ingredient: "Salmon", Unit: string(types.IngredientUnitGram), Quantity: 1200},
	}, d.RawMaterials)
}

func TestComputeDayDemand_Deterministic(t *testing.T) {
	snap := testSnapshot()

	first := ComputeDayDemand(snap, wednesday, true)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, ComputeDayDemand(snap, wednesday, true))
	}
}

func TestCycleDayIndex(t *testing.T) {
	require.Equal(t, 0, cycleDayIndex(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), 7))
	require.Equal(t, 3, cycleDayIndex(wednesday, 7))
	require.Equal(t, 0, cycleDayIndex(time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC), 7))
	require.Equal(t, 2, cycleDayIndex(time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC), 0), "zero length falls back to 7")
	require.Equal(t, 1, cycleDayIndex(time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC), 5))
}

func TestSlotAllocV1_StableAndShortCodes(t *testing.T) {
	// Same inputs, same slot, always.
	got := slotAllocV1("FOCUS", wednesday)
	for i := 0; i < 5; i++ {
		require.Equal(t, got, slotAllocV1("FOCUS", wednesday))
	}

	// 'F'+'O' = 149, day hash 7: even sum means lunch.
	require.Equal(t, types.MealSlotLunch, slotAllocV1("FOCUS", wednesday))
	require.Equal(t, types.MealSlotDinner, slotAllocV1("FLEX", wednesday))

	// One-char and empty codes must not panic.
	_ = slotAllocV1("X", wednesday)
	_ = slotAllocV1("", wednesday)
}
