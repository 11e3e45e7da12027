package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/greenplate/mealsub/internal/models"
	"github.com/greenplate/mealsub/pkg/tool"
	"github.com/greenplate/mealsub/pkg/types"

	"gorm.io/gorm"
)

// CreateCycle creates a cycle with days 0..lengthDays-1. Labels beyond the
// provided slice default to "Day N+1".
func (s *Service) CreateCycle(ctx context.Context, name string, lengthDays int, labels []string) (*models.MenuCycle, error) {
	if name == "" {
		return nil, fmt.Errorf("cycle name is required")
	}
	if lengthDays < 1 || lengthDays > 31 {
		return nil, fmt.Errorf("cycle length must be between 1 and 31 days")
	}
	cycle := &models.MenuCycle{
		ID:              tool.GenerateUUIDV7(),
		Name:            name,
		CycleLengthDays: lengthDays,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(cycle).Error; err != nil {
			return fmt.Errorf("failed to create cycle: %w", err)
		}
		for i := 0; i < lengthDays; i++ {
			label := fmt.Sprintf("Day %d", i+1)
			if i < len(labels) && labels[i] != "" {
				label = labels[i]
			}
			day := &models.MenuCycleDay{
				ID:       tool.GenerateUUIDV7(),
				CycleID:  cycle.ID,
				DayIndex: i,
				Label:    label,
			}
			if err := tx.Create(day).Error; err != nil {
				return fmt.Errorf("failed to create cycle day %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cycle, nil
}

// ActivateCycle marks one cycle active and deactivates the rest in the same
// transaction, so at most one cycle is ever active.
func (s *Service) ActivateCycle(ctx context.Context, cycleID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cycle models.MenuCycle
		if err := tx.First(&cycle, "id = ?", cycleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Model(&models.MenuCycle{}).
			Where("id != ?", cycleID).
			Update("is_active", false).Error; err != nil {
			return fmt.Errorf("failed to deactivate other cycles: %w", err)
		}
		if err := tx.Model(&models.MenuCycle{}).
			Where("id = ?", cycleID).
			Update("is_active", true).Error; err != nil {
			return fmt.Errorf("failed to activate cycle: %w", err)
		}
		s.log.Infow("menu cycle activated", "cycle_id", cycleID, "name", cycle.Name)
		return nil
	})
}

// AssignMeal binds a meal to (dayIndex, slot) of a cycle, replacing any
// previous assignment on that key.
func (s *Service) AssignMeal(ctx context.Context, cycleID string, dayIndex int, slot types.MealSlot, mealID string) error {
	if _, err := types.ParseMealSlot(string(slot)); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var day models.MenuCycleDay
		if err := tx.First(&day, "cycle_id = ? AND day_index = ?", cycleID, dayIndex).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		var meal models.Meal
		if err := tx.First(&meal, "id = ?", mealID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Where("cycle_day_id = ? AND slot = ?", day.ID, slot).
			Delete(&models.MenuDayAssignment{}).Error; err != nil {
			return fmt.Errorf("failed to clear previous assignment: %w", err)
		}
		assignment := &models.MenuDayAssignment{
			ID:         tool.GenerateUUIDV7(),
			CycleDayID: day.ID,
			MealID:     mealID,
			Slot:       slot,
		}
		return tx.Create(assignment).Error
	})
}

func (s *Service) ListCycles(ctx context.Context) ([]*models.MenuCycle, error) {
	var cycles []*models.MenuCycle
	if err := s.db.WithContext(ctx).Order("created_at desc").Find(&cycles).Error; err != nil {
		return nil, err
	}
	return cycles, nil
}

// CycleDayView is one rotation day with its slot assignments resolved.
type CycleDayView struct {
	DayIndex int               `json:"day_index"`
	Label    string            `json:"label"`
	Slots    map[string]string `json:"slots"` // slot -> meal id
}

// GetCycleDays returns the full rotation of a cycle, ordered by day index.
func (s *Service) GetCycleDays(ctx context.Context, cycleID string) ([]*CycleDayView, error) {
	var days []*models.MenuCycleDay
	if err := s.db.WithContext(ctx).
		Where("cycle_id = ?", cycleID).
		Order("day_index asc").
		Find(&days).Error; err != nil {
		return nil, err
	}
	if len(days) == 0 {
		return nil, ErrNotFound
	}

	dayIDs := make([]string, 0, len(days))
	for _, d := range days {
		dayIDs = append(dayIDs, d.ID)
	}
	var assignments []*models.MenuDayAssignment
	if err := s.db.WithContext(ctx).Where("cycle_day_id IN ?", dayIDs).Find(&assignments).Error; err != nil {
		return nil, err
	}
	byDay := map[string]map[string]string{}
	for _, a := range assignments {
		if byDay[a.CycleDayID] == nil {
			byDay[a.CycleDayID] = map[string]string{}
		}
		byDay[a.CycleDayID][string(a.Slot)] = a.MealID
	}

	views := make([]*CycleDayView, 0, len(days))
	for _, d := range days {
		slots := byDay[d.ID]
		if slots == nil {
			slots = map[string]string{}
		}
		views = append(views, &CycleDayView{DayIndex: d.DayIndex, Label: d.Label, Slots: slots})
	}
	return views, nil
}
