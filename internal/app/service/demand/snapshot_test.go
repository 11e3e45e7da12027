package demand

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/greenplate/mealsub/internal/models"
	"github.com/greenplate/mealsub/pkg/tool"
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
		&models.Subscription{},
		&models.SubscriptionStateHistory{},
	))
	return db, NewService(db, zap.NewNop().Sugar())
}

// seedWorld builds a complete fixture: a FOCUS plan (2 meals, Mon-Fri), an
// active 7-day cycle with meals assigned to day index 3, recipes, and
// subscriptions across all statuses.
func seedWorld(t *testing.T, db *gorm.DB) (planID string) {
	t.Helper()

	plan := &models.Plan{
		ID: tool.GenerateUUIDV7(), Code: "FOCUS", Name: "Focus",
		MealsPerDay: 2, DeliveryPattern: []int{1, 2, 3, 4, 5},
		BasePrice: 9900, Status: types.PlanStatusActive,
	}
	require.NoError(t, db.Create(plan).Error)

	cycle := &models.MenuCycle{ID: tool.GenerateUUIDV7(), Name: "Summer", CycleLengthDays: 7, IsActive: true}
	require.NoError(t, db.Create(cycle).Error)

	var day3 string
	for i := 0; i < 7; i++ {
		day := &models.MenuCycleDay{ID: tool.GenerateUUIDV7(), CycleID: cycle.ID, DayIndex: i}
		require.NoError(t, db.Create(day).Error)
		if i == 3 {
			day3 = day.ID
		}
	}

	mealA := &models.Meal{ID: tool.GenerateUUIDV7(), NameEn: "Meal A", IsActive: true}
	mealB := &models.Meal{ID: tool.GenerateUUIDV7(), NameAr: "وجبة ب", IsActive: true}
	require.NoError(t, db.Create(mealA).Error)
	require.NoError(t, db.Create(mealB).Error)

	require.NoError(t, db.Create(&models.MenuDayAssignment{
		ID: tool.GenerateUUIDV7(), CycleDayID: day3, MealID: mealA.ID, Slot: types.MealSlotLunch,
	}).Error)
	require.NoError(t, db.Create(&models.MenuDayAssignment{
		ID: tool.GenerateUUIDV7(), CycleDayID: day3, MealID: mealB.ID, Slot: types.MealSlotDinner,
	}).Error)

	chicken := &models.Ingredient{ID: tool.GenerateUUIDV7(), Name: "Chicken Breast", Unit: types.IngredientUnitGram}
	rice := &models.Ingredient{ID: tool.GenerateUUIDV7(), Name: "Rice", Unit: types.IngredientUnitGram}
	require.NoError(t, db.Create(chicken).Error)
	require.NoError(t, db.Create(rice).Error)
	require.NoError(t, db.Create(&models.MealIngredient{
		ID: tool.GenerateUUIDV7(), MealID: mealA.ID, IngredientID: chicken.ID, WeightG: 150,
	}).Error)
	require.NoError(t, db.Create(&models.MealIngredient{
		ID: tool.GenerateUUIDV7(), MealID: mealA.ID, IngredientID: rice.ID, WeightG: 100,
	}).Error)
	require.NoError(t, db.Create(&models.MealIngredient{
		ID: tool.GenerateUUIDV7(), MealID: mealB.ID, IngredientID: rice.ID, WeightG: 80,
	}).Error)

	// Ten delivering subscribers plus noise that must not count.
	statuses := map[types.SubscriptionStatus]int{
		types.SubscriptionStatusNewJoiner:      3,
		types.SubscriptionStatusCurious:        2,
		types.SubscriptionStatusActive:         4,
		types.SubscriptionStatusExiting:        1,
		types.SubscriptionStatusPendingPayment: 5,
		types.SubscriptionStatusFrozen:         5,
		types.SubscriptionStatusCancelled:      5,
	}
	for status, n := range statuses {
		for i := 0; i < n; i++ {
			require.NoError(t, db.Create(&models.Subscription{
				ID: tool.GenerateUUIDV7(), UserID: uuid.NewString(), PlanID: plan.ID,
				Status: status, StartDate: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), PriceCharged: 9900,
			}).Error)
		}
	}
	return plan.ID
}

func TestLoadSnapshot(t *testing.T) {
	db, svc := newTestService(t)
	planID := seedWorld(t, db)

	snap, err := svc.LoadSnapshot(context.Background())
	require.NoError(t, err)

	require.Equal(t, 7, snap.CycleLength)
	require.Len(t, snap.Plans, 1)
	require.Equal(t, "FOCUS", snap.Plans[0].Code)
	require.Equal(t, []int{1, 2, 3, 4, 5}, snap.Plans[0].Pattern)

	// New_Joiner + Curious + Active + Exiting deliver; paused and terminal
	// states do not.
	require.Equal(t, 10, snap.Subscribers[planID])

	require.Len(t, snap.Assignments, 1)
	slots := snap.Assignments[3]
	require.Len(t, slots, 2)

	lunch := snap.Meals[slots[types.MealSlotLunch]]
	require.Equal(t, "Meal A", lunch.DisplayName())
	require.Len(t, lunch.Ingredients, 2)

	dinner := snap.Meals[slots[types.MealSlotDinner]]
	require.Equal(t, "وجبة ب", dinner.DisplayName(), "Arabic fallback when English is empty")
	require.Len(t, dinner.Ingredients, 1)
}

func TestLoadSnapshot_NoActiveCycle(t *testing.T) {
	db, svc := newTestService(t)
	seedWorld(t, db)
	require.NoError(t, db.Model(&models.MenuCycle{}).Where("1=1").Update("is_active", false).Error)

	snap, err := svc.LoadSnapshot(context.Background())
	require.NoError(t, err)
	require.Zero(t, snap.CycleLength)
	require.Empty(t, snap.Assignments)

	d := ComputeDayDemand(snap, time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC), false)
	require.Zero(t, d.TotalMeals)
}

func TestDailyDemand_EndToEnd(t *testing.T) {
	db, svc := newTestService(t)
	seedWorld(t, db)

	// Wednesday 2025-06-04 maps to cycle day 3.
	d, err := svc.DailyDemand(context.Background(), time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC), true)
	require.NoError(t, err)
	require.Equal(t, 10, d.LunchCount)
	require.Equal(t, 10, d.DinnerCount)
	require.Equal(t, 20, d.TotalMeals)
	require.Equal(t, []MealCount{
		{MealName: "Meal A", Count: 10},
		{MealName: "وجبة ب", Count: 10},
	}, d.MealsToPrepare)
	require.Equal(t, []RawMaterial{
		{Ingredient: "Chicken Breast", Unit: string(types.IngredientUnitGram), Quantity: 1500},
		{Ingredient: "Rice", Unit: string(types.IngredientUnitGram), Quantity: 1800},
	}, d.RawMaterials)

	cells, err := svc.MonthCalendar(context.Background(), 2025, time.June)
	require.NoError(t, err)
	require.Len(t, cells, 42)
}
