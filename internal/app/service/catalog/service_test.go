package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/greenplate/mealsub/internal/models"
	"github.com/greenplate/mealsub/pkg/types"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestService(t *testing.T) (*gorm.DB, *Service) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Plan{},
		&models.MenuCycle{},
		&models.MenuCycleDay{},
		&models.MenuDayAssignment{},
		&models.Meal{},
		&models.Ingredient{},
		&models.MealIngredient{},
	))
	return db, NewService(db, zap.NewNop().Sugar())
}

func validPlanInput() *PlanInput {
	return &PlanInput{
		Code:            "FOCUS",
		Name:            "Focus",
		MealsPerDay:     2,
		DeliveryPattern: []int{1, 2, 3, 4, 5},
		BasePrice:       9900,
	}
}

func TestCreatePlan_Validation(t *testing.T) {
	_, svc := newTestService(t)
	ctx := context.Background()

	cases := map[string]func(*PlanInput){
		"short code":      func(in *PlanInput) { in.Code = "F" },
		"missing name":    func(in *PlanInput) { in.Name = "" },
		"three meals":     func(in *PlanInput) { in.MealsPerDay = 3 },
		"zero price":      func(in *PlanInput) { in.BasePrice = 0 },
		"empty pattern":   func(in *PlanInput) { in.DeliveryPattern = nil },
		"sunday as zero":  func(in *PlanInput) { in.DeliveryPattern = []int{0, 1} },
		"sunday as seven": func(in *PlanInput) { in.DeliveryPattern = []int{6, 7} },
		"duplicate day":   func(in *PlanInput) { in.DeliveryPattern = []int{2, 2} },
	}
	for name, mutate := range cases {
		in := validPlanInput()
		mutate(in)
		_, err := svc.CreatePlan(ctx, in)
		require.Error(t, err, name)
	}

	plan, err := svc.CreatePlan(ctx, validPlanInput())
	require.NoError(t, err)
	require.Equal(t, types.PlanStatusActive, plan.Status)
	require.NotEmpty(t, plan.ID)
}

func TestArchivePlan(t *testing.T) {
	db, svc := newTestService(t)
	ctx := context.Background()

	plan, err := svc.CreatePlan(ctx, validPlanInput())
	require.NoError(t, err)

	require.NoError(t, svc.ArchivePlan(ctx, plan.ID))
	require.ErrorIs(t, svc.ArchivePlan(ctx, uuid.NewString()), ErrNotFound)

	var stored models.Plan
	require.NoError(t, db.First(&stored, "id = ?", plan.ID).Error)
	require.Equal(t, types.PlanStatusArchived, stored.Status)

	visible, err := svc.ListPlans(ctx, false)
	require.NoError(t, err)
	require.Empty(t, visible)

	all, err := svc.ListPlans(ctx, true)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestActivateCycle_Exclusive(t *testing.T) {
	db, svc := newTestService(t)
	ctx := context.Background()

	first, err := svc.CreateCycle(ctx, "Spring", 7, nil)
	require.NoError(t, err)
	second, err := svc.CreateCycle(ctx, "Summer", 14, nil)
	require.NoError(t, err)

	require.NoError(t, svc.ActivateCycle(ctx, first.ID))
	require.NoError(t, svc.ActivateCycle(ctx, second.ID))
	require.ErrorIs(t, svc.ActivateCycle(ctx, uuid.NewString()), ErrNotFound)

	var active []*models.MenuCycle
	require.NoError(t, db.Where("is_active = ?", true).Find(&active).Error)
	require.Len(t, active, 1)
	require.Equal(t, second.ID, active[0].ID)
}

func TestCreateCycle_DaysAndLabels(t *testing.T) {
	_, svc := newTestService(t)
	ctx := context.Background()

	cycle, err := svc.CreateCycle(ctx, "Spring", 3, []string{"Opener"})
	require.NoError(t, err)

	days, err := svc.GetCycleDays(ctx, cycle.ID)
	require.NoError(t, err)
	require.Len(t, days, 3)
	require.Equal(t, 0, days[0].DayIndex)
	require.Equal(t, "Opener", days[0].Label)
	require.Equal(t, "Day 2", days[1].Label)
	require.Equal(t, "Day 3", days[2].Label)

	_, err = svc.CreateCycle(ctx, "", 7, nil)
	require.Error(t, err)
	_, err = svc.CreateCycle(ctx, "Too long", 32, nil)
	require.Error(t, err)
}

func TestAssignMeal_ReplacesExisting(t *testing.T) {
	db, svc := newTestService(t)
	ctx := context.Background()

	cycle, err := svc.CreateCycle(ctx, "Spring", 7, nil)
	require.NoError(t, err)
	mealA, err := svc.CreateMeal(ctx, &MealInput{NameEn: "Meal A"})
	require.NoError(t, err)
	mealB, err := svc.CreateMeal(ctx, &MealInput{NameEn: "Meal B"})
	require.NoError(t, err)

	require.NoError(t, svc.AssignMeal(ctx, cycle.ID, 2, types.MealSlotLunch, mealA.ID))
	require.NoError(t, svc.AssignMeal(ctx, cycle.ID, 2, types.MealSlotLunch, mealB.ID))
	require.NoError(t, svc.AssignMeal(ctx, cycle.ID, 2, types.MealSlotDinner, mealA.ID))

	var assignments []*models.MenuDayAssignment
	require.NoError(t, db.Find(&assignments).Error)
	require.Len(t, assignments, 2, "reassigning a slot must replace, not accumulate")

	days, err := svc.GetCycleDays(ctx, cycle.ID)
	require.NoError(t, err)
	require.Equal(t, mealB.ID, days[2].Slots["lunch"])
	require.Equal(t, mealA.ID, days[2].Slots["dinner"])

	require.ErrorIs(t, svc.AssignMeal(ctx, cycle.ID, 9, types.MealSlotLunch, mealA.ID), ErrNotFound)
	require.ErrorIs(t, svc.AssignMeal(ctx, cycle.ID, 2, types.MealSlotLunch, uuid.NewString()), ErrNotFound)
	require.Error(t, svc.AssignMeal(ctx, cycle.ID, 2, "breakfast", mealA.ID))
}

func TestSetMealIngredients_ReplacesRecipe(t *testing.T) {
	db, svc := newTestService(t)
	ctx := context.Background()

	meal, err := svc.CreateMeal(ctx, &MealInput{NameEn: "Meal A"})
	require.NoError(t, err)
	chicken, err := svc.CreateIngredient(ctx, &IngredientInput{Name: "Chicken Breast", Unit: "g"})
	require.NoError(t, err)
	rice, err := svc.CreateIngredient(ctx, &IngredientInput{Name: "Rice", Unit: "g"})
	require.NoError(t, err)

	require.NoError(t, svc.SetMealIngredients(ctx, meal.ID, []RecipeLine{
		{IngredientID: chicken.ID, WeightG: 150},
		{IngredientID: rice.ID, WeightG: 100},
	}))
	require.NoError(t, svc.SetMealIngredients(ctx, meal.ID, []RecipeLine{
		{IngredientID: rice.ID, WeightG: 80},
	}))

	var lines []*models.MealIngredient
	require.NoError(t, db.Where("meal_id = ?", meal.ID).Find(&lines).Error)
	require.Len(t, lines, 1)
	require.Equal(t, rice.ID, lines[0].IngredientID)
	require.Equal(t, 80.0, lines[0].WeightG)

	require.Error(t, svc.SetMealIngredients(ctx, meal.ID, []RecipeLine{{IngredientID: rice.ID, WeightG: 0}}))
	require.ErrorIs(t, svc.SetMealIngredients(ctx, meal.ID, []RecipeLine{{IngredientID: uuid.NewString(), WeightG: 10}}), ErrNotFound)
	require.ErrorIs(t, svc.SetMealIngredients(ctx, uuid.NewString(), nil), ErrNotFound)
}

func TestCreateIngredient_UnitValidation(t *testing.T) {
	_, svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateIngredient(ctx, &IngredientInput{Name: "Water", Unit: "liters"})
	require.Error(t, err)
	_, err = svc.CreateIngredient(ctx, &IngredientInput{Name: "", Unit: "ml"})
	require.Error(t, err)

	ing, err := svc.CreateIngredient(ctx, &IngredientInput{Name: "Milk", Unit: "ml", CaloriesPer100: 42})
	require.NoError(t, err)
	require.Equal(t, types.IngredientUnitMilliliter, ing.Unit)
}
