package demand

import (
	"context"
	"errors"
	"fmt"

	"github.com/greenplate/mealsub/internal/models"
	"github.com/greenplate/mealsub/pkg/types"

	"github.com/samber/lo"
	"gorm.io/gorm"
)

// PlanInfo is the slice of a plan the aggregator needs.
type PlanInfo struct {
	ID          string
	Code        string
	MealsPerDay int
	Pattern     []int
}

// IngredientLine is one weighted ingredient of a meal.
type IngredientLine struct {
	Name    string
	Unit    types.IngredientUnit
	WeightG float64
}

// MealInfo carries the display names and recipe of one meal.
type MealInfo struct {
	ID          string
	NameEn      string
	NameAr      string
	Ingredients []IngredientLine
}

// DisplayName prefers the English name, falls back to Arabic, then the id,
// so a prep sheet never shows an empty meal name.
func (m MealInfo) DisplayName() string {
	if m.NameEn != "" {
		return m.NameEn
	}
	if m.NameAr != "" {
		return m.NameAr
	}
	return m.ID
}

// Snapshot is a self-consistent read of everything the aggregator depends
// on. The pure functions below never touch the database, so two calls with
// the same snapshot and date return identical output.
type Snapshot struct {
	// CycleLength is the configured day count of the active cycle; zero
	// when no cycle (or an empty cycle) is active, in which case the
	// aggregator falls back to a 7-day rotation.
	CycleLength int
	// Assignments maps day_index -> slot -> meal id for the active cycle.
	Assignments map[int]map[types.MealSlot]string
	Plans       []PlanInfo
	// Subscribers counts delivering subscribers per plan id.
	Subscribers map[string]int
	Meals       map[string]MealInfo
}

// LoadSnapshot reads all aggregator inputs inside one transaction so a
// subscription mid-transition is never observed halfway.
func (s *Service) LoadSnapshot(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{
		Assignments: map[int]map[types.MealSlot]string{},
		Subscribers: map[string]int{},
		Meals:       map[string]MealInfo{},
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var plans []*models.Plan
		if err := tx.Find(&plans).Error; err != nil {
			return fmt.Errorf("failed to load plans: %w", err)
		}
		snap.Plans = lo.Map(plans, func(p *models.Plan, _ int) PlanInfo {
			return PlanInfo{ID: p.ID, Code: p.Code, MealsPerDay: p.MealsPerDay, Pattern: p.DeliveryPattern}
		})

		type planCount struct {
			PlanID string
			N      int
		}
		var counts []planCount
		if err := tx.Model(&models.Subscription{}).
			Select("plan_id, count(*) as n").
			Where("status IN ?", types.DeliveringSubscriptionStatuses).
			Group("plan_id").
			Find(&counts).Error; err != nil {
			return fmt.Errorf("failed to count subscribers: %w", err)
		}
		for _, c := range counts {
			snap.Subscribers[c.PlanID] = c.N
		}

		var cycle models.MenuCycle
		if err := tx.First(&cycle, "is_active = ?", true).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil // no active cycle: empty rotation, zero demand
			}
			return fmt.Errorf("failed to load active cycle: %w", err)
		}

		var days []*models.MenuCycleDay
		if err := tx.Where("cycle_id = ?", cycle.ID).Order("day_index asc").Find(&days).Error; err != nil {
			return fmt.Errorf("failed to load cycle days: %w", err)
		}
		snap.CycleLength = len(days)
		if len(days) == 0 {
			return nil
		}

		dayIndexByID := map[string]int{}
		for _, d := range days {
			dayIndexByID[d.ID] = d.DayIndex
		}

		var assignments []*models.MenuDayAssignment
		if err := tx.Where("cycle_day_id IN ?", lo.Keys(dayIndexByID)).Find(&assignments).Error; err != nil {
			return fmt.Errorf("failed to load assignments: %w", err)
		}
		mealIDs := map[string]bool{}
		for _, a := range assignments {
			idx := dayIndexByID[a.CycleDayID]
			if snap.Assignments[idx] == nil {
				snap.Assignments[idx] = map[types.MealSlot]string{}
			}
			snap.Assignments[idx][a.Slot] = a.MealID
			mealIDs[a.MealID] = true
		}
		if len(mealIDs) == 0 {
			return nil
		}

		var meals []*models.Meal
		if err := tx.Where("id IN ?", lo.Keys(mealIDs)).Find(&meals).Error; err != nil {
			return fmt.Errorf("failed to load meals: %w", err)
		}

		type recipeLine struct {
			MealID  string
			Name    string
			Unit    types.IngredientUnit
			WeightG float64
		}
		var lines []recipeLine
		if err := tx.Table("meal_ingredient").
			Select("meal_ingredient.meal_id, ingredient.name, ingredient.unit, meal_ingredient.weight_g").
			Joins("JOIN ingredient ON ingredient.id = meal_ingredient.ingredient_id").
			Where("meal_ingredient.meal_id IN ?", lo.Keys(mealIDs)).
			Find(&lines).Error; err != nil {
			return fmt.Errorf("failed to load recipes: %w", err)
		}
		linesByMeal := lo.GroupBy(lines, func(l recipeLine) string { return l.MealID })

		for _, m := range meals {
			info := MealInfo{ID: m.ID, NameEn: m.NameEn, NameAr: m.NameAr}
			for _, l := range linesByMeal[m.ID] {
				info.Ingredients = append(info.Ingredients, IngredientLine{Name: l.Name, Unit: l.Unit, WeightG: l.WeightG})
			}
			snap.Meals[m.ID] = info
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}
